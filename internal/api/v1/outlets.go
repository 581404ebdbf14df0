package v1

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ailtstruongson-maker/reportbi/internal/model"
)

// ListOutlets 有数据的门店
// GET /api/outlets
func (h *Handler) ListOutlets(c *gin.Context) {
	outlets, err := h.board.Outlets(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"outlets": outlets})
}

// ListPrograms 区域累计竞赛表中的项目
// GET /api/programs
func (h *Handler) ListPrograms(c *gin.Context) {
	programs, err := h.board.Programs(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"programs": programs})
}

// GetReport 报表原文
// GET /api/outlets/:outlet/reports/:kind
func (h *Handler) GetReport(c *gin.Context) {
	text, err := h.board.Report(c.Request.Context(), c.Param("outlet"), model.ReportKind(c.Param("kind")))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": text})
}

// PutReport 保存粘贴的报表；空文本清除
// PUT /api/outlets/:outlet/reports/:kind
func (h *Handler) PutReport(c *gin.Context) {
	var req textRequest
	if !bindJSON(c, &req) {
		return
	}
	kind := model.ReportKind(c.Param("kind"))
	rec, err := h.board.PutReport(c.Request.Context(), c.Param("outlet"), kind, req.Text)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"kind":       kind,
		"recognized": rec,
		"mismatch":   strings.TrimSpace(req.Text) != "" && rec.Kind != kind,
	})
}

// GetRevenue 门店营收记录
// GET /api/outlets/:outlet/revenue
func (h *Handler) GetRevenue(c *gin.Context) {
	records, err := h.board.Revenue(c.Request.Context(), c.Param("outlet"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records})
}

// GetCompetition 门店竞赛数据
// GET /api/outlets/:outlet/competition
func (h *Handler) GetCompetition(c *gin.Context) {
	data, err := h.board.Competition(c.Request.Context(), c.Param("outlet"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": data, "empty": data.IsEmpty()})
}

// GetDepartments 部门列表
// GET /api/outlets/:outlet/departments
func (h *Handler) GetDepartments(c *gin.Context) {
	depts, err := h.board.Departments(c.Request.Context(), c.Param("outlet"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"departments": depts})
}

// GetThresholds 各部门后 30% 分界值
// GET /api/outlets/:outlet/thresholds
func (h *Handler) GetThresholds(c *gin.Context) {
	thresholds, err := h.board.Thresholds(c.Request.Context(), c.Param("outlet"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"thresholds": thresholds})
}

// GetIndustry 行业明细
// GET /api/outlets/:outlet/industry?realtime=true&hide=a,b
func (h *Handler) GetIndustry(c *gin.Context) {
	var hidden []string
	for _, v := range strings.Split(c.Query("hide"), ",") {
		if v = strings.TrimSpace(v); v != "" {
			hidden = append(hidden, v)
		}
	}
	realtime := c.DefaultQuery("realtime", "true") == "true"
	table, err := h.board.Industry(c.Request.Context(), c.Param("outlet"), realtime, hidden)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, table)
}
