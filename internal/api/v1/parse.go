package v1

import (
	"math"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ailtstruongson-maker/reportbi/internal/model"
	"github.com/ailtstruongson-maker/reportbi/internal/parser"
	"github.com/ailtstruongson-maker/reportbi/internal/service/target"
)

type textRequest struct {
	Text string `json:"text"`
}

type revenueResponse struct {
	Records     []model.RevenueRecord           `json:"records"`
	Departments []model.Department              `json:"departments"`
	Thresholds  map[string]model.GroupThreshold `json:"thresholds"`
}

// ParseRevenue 解析营收表文本
// POST /api/parse/revenue
func (h *Handler) ParseRevenue(c *gin.Context) {
	var req textRequest
	if !bindJSON(c, &req) {
		return
	}
	records := parser.NewRevenueParser(h.board.Labels()).Parse(req.Text)
	c.JSON(http.StatusOK, revenueResponse{
		Records:     records,
		Departments: parser.Departments(records),
		Thresholds:  parser.LowPerformerThresholds(records),
	})
}

type competitionRequest struct {
	Text        string            `json:"text"`
	RevenueText string            `json:"revenueText"`
	Members     map[string]string `json:"members"` // 员工原始标识 → 部门，优先于 revenueText
}

// ParseCompetition 解析竞赛表文本
// POST /api/parse/competition
func (h *Handler) ParseCompetition(c *gin.Context) {
	var req competitionRequest
	if !bindJSON(c, &req) {
		return
	}
	labels := h.board.Labels()
	members := req.Members
	if len(members) == 0 {
		members = parser.MemberGroups(parser.NewRevenueParser(labels).Parse(req.RevenueText))
	}
	cp := parser.NewCompetitionParser(labels)
	c.JSON(http.StatusOK, gin.H{
		"headers": cp.ParseHeaders(req.Text),
		"data":    cp.Parse(req.Text, members),
	})
}

// Recognize 识别报表类型
// POST /api/recognize
func (h *Handler) Recognize(c *gin.Context) {
	var req textRequest
	if !bindJSON(c, &req) {
		return
	}
	c.JSON(http.StatusOK, h.board.Recognize(req.Text))
}

type redistributeRequest struct {
	Weights target.WeightSet `json:"weights"`
	Name    string           `json:"name"`
	Value   *float64         `json:"value"`
}

// RedistributeWeights 调整单个权重，其余按比例吸收
// POST /api/weights/redistribute
func (h *Handler) RedistributeWeights(c *gin.Context) {
	var req redistributeRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Value == nil || math.IsInf(*req.Value, 0) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "value is required"})
		return
	}
	if _, ok := req.Weights[req.Name]; !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown name: " + req.Name})
		return
	}
	next := target.Redistribute(req.Weights, req.Name, *req.Value)
	c.JSON(http.StatusOK, gin.H{"weights": next, "sum": next.Sum()})
}
