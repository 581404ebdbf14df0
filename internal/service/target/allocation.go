package target

import (
	"time"

	"github.com/ailtstruongson-maker/reportbi/internal/model"
	"github.com/ailtstruongson-maker/reportbi/internal/parser"
)

// DaysInMonth 日期所在自然月的天数
func DaysInMonth(date time.Time) int {
	return parser.DaysInMonth(date)
}

// PerDay 月目标折算为日目标
func PerDay(monthly float64, date time.Time) float64 {
	return monthly / float64(DaysInMonth(date))
}

// AllocateDepartments 按部门权重拆分门店目标
// 基准不可用时各项金额均为 nil；员工数为 0 的部门没有人均目标
func AllocateDepartments(adj model.TargetAdjustment, weights WeightSet, departments []model.Department, date time.Time) []model.EntityTarget {
	effective, ok := adj.Effective()
	out := make([]model.EntityTarget, 0, len(departments))
	for _, d := range departments {
		t := model.EntityTarget{
			Name:        d.Name,
			Weight:      weights[d.Name],
			MemberCount: d.MemberCount,
		}
		if ok {
			monthly := effective * t.Weight / 100
			daily := PerDay(monthly, date)
			t.Monthly = &monthly
			t.Daily = &daily
			if d.MemberCount > 0 {
				perMember := monthly / float64(d.MemberCount)
				perMemberDaily := daily / float64(d.MemberCount)
				t.PerMember = &perMember
				t.PerMemberDaily = &perMemberDaily
			}
		}
		out = append(out, t)
	}
	return out
}

// ProgramTargets 各竞赛项目的调整后目标
// multipliers 缺省为 100%；baselines 中没有的项目目标不可用
func ProgramTargets(programs []model.Program, baselines, multipliers map[string]float64, date time.Time) []model.ProgramTarget {
	out := make([]model.ProgramTarget, 0, len(programs))
	for _, p := range programs {
		multiplier := model.DefaultMultiplierPercent
		if m, ok := multipliers[p.Name]; ok {
			multiplier = m
		}
		baseline, ok := baselines[p.Name]
		pt := model.ProgramTarget{
			Program:    p,
			Adjustment: Adjustment(baseline, ok, multiplier),
		}
		if v, ok := pt.Adjustment.Effective(); ok {
			daily := PerDay(v, date)
			pt.Effective = &v
			pt.Daily = &daily
		}
		out = append(out, pt)
	}
	return out
}

// MemberProgramTargets 将项目目标按员工所在部门的权重拆分到员工
// 部门权重为 0 的员工按 100/员工数 计
func MemberProgramTargets(programs []model.ProgramTarget, members []model.RevenueRecord, weights WeightSet) []model.MemberProgramTarget {
	staff := make([]model.RevenueRecord, 0, len(members))
	for _, m := range members {
		if m.Kind == model.KindMember {
			staff = append(staff, m)
		}
	}
	if len(staff) == 0 {
		return []model.MemberProgramTarget{}
	}

	fallback := 100 / float64(len(staff))
	memberWeights := make([]float64, len(staff))
	totalWeight := 0.0
	for i, m := range staff {
		w := weights[m.GroupName]
		if w <= 0 {
			w = fallback
		}
		memberWeights[i] = w
		totalWeight += w
	}

	out := make([]model.MemberProgramTarget, 0, len(programs)*len(staff))
	for _, p := range programs {
		if p.Effective == nil {
			continue
		}
		for i, m := range staff {
			out = append(out, model.MemberProgramTarget{
				Program:    p.Program.Name,
				SourceName: m.SourceName,
				GroupName:  m.GroupName,
				Target:     *p.Effective * memberWeights[i] / totalWeight,
			})
		}
	}
	return out
}
