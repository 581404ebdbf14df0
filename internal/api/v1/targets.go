package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ailtstruongson-maker/reportbi/internal/service/board"
)

// GetWeights 部门权重
// GET /api/outlets/:outlet/weights
func (h *Handler) GetWeights(c *gin.Context) {
	w, err := h.board.DepartmentWeights(c.Request.Context(), c.Param("outlet"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"weights": w})
}

type setWeightRequest struct {
	Department string   `json:"department"`
	Value      *float64 `json:"value"`
}

// SetWeight 调整部门权重
// PUT /api/outlets/:outlet/weights
func (h *Handler) SetWeight(c *gin.Context) {
	var req setWeightRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Value == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "value is required"})
		return
	}
	w, err := h.board.SetDepartmentWeight(c.Request.Context(), c.Param("outlet"), req.Department, *req.Value)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"weights": w})
}

// ResetWeights 恢复平均分配
// DELETE /api/outlets/:outlet/weights
func (h *Handler) ResetWeights(c *gin.Context) {
	w, err := h.board.ResetDepartmentWeights(c.Request.Context(), c.Param("outlet"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"weights": w})
}

// GetRevenueSettings 营收目标设置
// GET /api/outlets/:outlet/targets/revenue
func (h *Handler) GetRevenueSettings(c *gin.Context) {
	s, err := h.board.RevenueSettings(c.Request.Context(), c.Param("outlet"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// UpdateRevenueSettings 部分更新营收目标设置
// PATCH /api/outlets/:outlet/targets/revenue
func (h *Handler) UpdateRevenueSettings(c *gin.Context) {
	var patch board.RevenueSettingsPatch
	if !bindJSON(c, &patch) {
		return
	}
	s, err := h.board.UpdateRevenueSettings(c.Request.Context(), c.Param("outlet"), patch)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// GetRevenuePlan 营收目标及部门拆分
// GET /api/outlets/:outlet/plan?date=2024-04-10
func (h *Handler) GetRevenuePlan(c *gin.Context) {
	date, ok := h.queryDate(c)
	if !ok {
		return
	}
	plan, err := h.board.RevenuePlan(c.Request.Context(), c.Param("outlet"), date)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// GetProgramPlan 各竞赛项目目标
// GET /api/outlets/:outlet/programs
func (h *Handler) GetProgramPlan(c *gin.Context) {
	date, ok := h.queryDate(c)
	if !ok {
		return
	}
	plan, err := h.board.ProgramPlan(c.Request.Context(), c.Param("outlet"), date)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"programs": plan})
}

type programMultiplierRequest struct {
	Program           string   `json:"program"`
	MultiplierPercent *float64 `json:"multiplierPercent"`
}

// SetProgramMultiplier 设置项目倍率
// PUT /api/outlets/:outlet/programs
func (h *Handler) SetProgramMultiplier(c *gin.Context) {
	var req programMultiplierRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.MultiplierPercent == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multiplierPercent is required"})
		return
	}
	m, err := h.board.SetProgramMultiplier(c.Request.Context(), c.Param("outlet"), req.Program, *req.MultiplierPercent)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"multipliers": m})
}

// ResetProgramMultipliers 所有项目恢复 100%
// DELETE /api/outlets/:outlet/programs
func (h *Handler) ResetProgramMultipliers(c *gin.Context) {
	if err := h.board.ResetProgramMultipliers(c.Request.Context(), c.Param("outlet")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetEmployeeProgramTargets 员工竞赛目标
// GET /api/outlets/:outlet/programs/employees
func (h *Handler) GetEmployeeProgramTargets(c *gin.Context) {
	date, ok := h.queryDate(c)
	if !ok {
		return
	}
	targets, err := h.board.EmployeeProgramTargets(c.Request.Context(), c.Param("outlet"), date)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"targets": targets})
}
