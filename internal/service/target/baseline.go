package target

import (
	"strings"

	"github.com/ailtstruongson-maker/reportbi/internal/model"
	"github.com/ailtstruongson-maker/reportbi/internal/parser"
)

// 累计汇总表中预计营收与完成率所在列
const (
	expectedRevenueColumn = 5
	achievedPercentColumn = 6
)

// ProgramBaselines 从累计竞赛表中读取门店各竞赛项目的基准目标
// 标记行之后首列以门店名开头的行，第 3 列为该项目的目标
func ProgramBaselines(text, entity string) map[string]float64 {
	baselines := make(map[string]float64)
	entity = parser.NormalizeText(strings.TrimSpace(entity))
	if entity == "" {
		return baselines
	}

	current := ""
	for _, line := range parser.SplitLines(text) {
		fields := parser.SplitFields(line)
		if p, ok := parser.ParseTargetMarker(fields); ok {
			current = p.Name
			continue
		}
		if current == "" || !strings.HasPrefix(fields[0], entity) || len(fields) <= 2 {
			continue
		}
		baselines[current] = parser.ParseNumber(fields[2])
	}
	return baselines
}

// RevenueBaseline 从累计汇总表反推 100% 营收目标：预计营收 / 完成率
// 找不到门店行、列数不足、无法解析或完成率为 0 时返回 false
func RevenueBaseline(text, entity string) (float64, bool) {
	entity = parser.NormalizeText(strings.TrimSpace(entity))
	if entity == "" {
		return 0, false
	}
	for _, line := range parser.SplitLines(text) {
		if !strings.HasPrefix(strings.TrimSpace(line), entity) {
			continue
		}
		fields := parser.SplitFields(line)
		if len(fields) <= achievedPercentColumn {
			return 0, false
		}
		expected, ok := parser.ParseNumberStrict(fields[expectedRevenueColumn])
		if !ok {
			return 0, false
		}
		achieved, ok := parser.ParseNumberStrict(fields[achievedPercentColumn])
		if !ok || achieved == 0 {
			return 0, false
		}
		return expected / (achieved / 100), true
	}
	return 0, false
}

// Adjustment 基准与倍率组合；基准不可用时 Baseline 为 nil
func Adjustment(baseline float64, ok bool, multiplierPercent float64) model.TargetAdjustment {
	adj := model.TargetAdjustment{MultiplierPercent: model.ClampMultiplier(multiplierPercent)}
	if ok {
		b := baseline
		adj.Baseline = &b
	}
	return adj
}
