package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ailtstruongson-maker/reportbi/internal/model"
)

// ListVersions 竞赛项目组合
// GET /api/outlets/:outlet/versions
func (h *Handler) ListVersions(c *gin.Context) {
	versions, err := h.board.ListVersions(c.Request.Context(), c.Param("outlet"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"versions": versions})
}

// SaveVersion 保存组合
// POST /api/outlets/:outlet/versions
func (h *Handler) SaveVersion(c *gin.Context) {
	var v model.Version
	if !bindJSON(c, &v) {
		return
	}
	versions, err := h.board.SaveVersion(c.Request.Context(), c.Param("outlet"), v)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"versions": versions})
}

// DeleteVersion 删除组合
// DELETE /api/outlets/:outlet/versions/:name
func (h *Handler) DeleteVersion(c *gin.Context) {
	versions, err := h.board.DeleteVersion(c.Request.Context(), c.Param("outlet"), c.Param("name"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"versions": versions})
}

// GetBonus 门店积分汇总
// GET /api/outlets/:outlet/bonus
func (h *Handler) GetBonus(c *gin.Context) {
	all, err := h.board.Bonus(c.Request.Context(), c.Param("outlet"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bonus": all})
}

type saveBonusRequest struct {
	Employee string `json:"employee"`
	Text     string `json:"text"`
}

// SaveBonus 保存员工积分明细
// PUT /api/outlets/:outlet/bonus
func (h *Handler) SaveBonus(c *gin.Context) {
	var req saveBonusRequest
	if !bindJSON(c, &req) {
		return
	}
	m, err := h.board.SaveBonus(c.Request.Context(), c.Param("outlet"), req.Employee, req.Text)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}
