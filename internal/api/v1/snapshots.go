package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ailtstruongson-maker/reportbi/internal/model"
)

// ListSnapshots 快照列表
// GET /api/outlets/:outlet/snapshots
func (h *Handler) ListSnapshots(c *gin.Context) {
	list, err := h.board.ListSnapshots(c.Request.Context(), c.Param("outlet"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"snapshots": list})
}

type saveSnapshotRequest struct {
	Name string `json:"name"`
}

// SaveSnapshot 保存快照
// POST /api/outlets/:outlet/snapshots
func (h *Handler) SaveSnapshot(c *gin.Context) {
	var req saveSnapshotRequest
	if !bindJSON(c, &req) {
		return
	}
	meta, err := h.board.SaveSnapshot(c.Request.Context(), c.Param("outlet"), req.Name)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, meta)
}

// DeleteSnapshot 删除快照
// DELETE /api/outlets/:outlet/snapshots/:id
func (h *Handler) DeleteSnapshot(c *gin.Context) {
	if err := h.board.DeleteSnapshot(c.Request.Context(), c.Param("outlet"), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetChanges 与快照相比的明显变化
// GET /api/outlets/:outlet/snapshots/:id/changes
func (h *Handler) GetChanges(c *gin.Context) {
	changes, err := h.board.Changes(c.Request.Context(), c.Param("outlet"), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	up, down := 0, 0
	for _, ch := range changes {
		if ch.Direction == model.DirectionUp {
			up++
		} else {
			down++
		}
	}
	c.JSON(http.StatusOK, gin.H{"changes": changes, "up": up, "down": down})
}

// GetTrend 实体合计走势
// GET /api/outlets/:outlet/trend?entity=...
func (h *Handler) GetTrend(c *gin.Context) {
	entity := c.Query("entity")
	if entity == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "entity is required"})
		return
	}
	points, err := h.board.Trend(c.Request.Context(), c.Param("outlet"), entity)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entity": entity, "points": points})
}
