package parser

import (
	"sort"

	"github.com/ailtstruongson-maker/reportbi/internal/model"
)

// RevenueParser 员工营收报表解析器
type RevenueParser struct {
	labels Labels
}

// NewRevenueParser 创建营收解析器
func NewRevenueParser(labels Labels) *RevenueParser {
	return &RevenueParser{labels: labels.withDefaults()}
}

// Parse 解析粘贴文本，保持原始顺序
// 第 2-4 列依次为累计营收、折算营收、效率；没有任何数值的员工行被丢弃
// 部门行与合计行总是保留，缺失数值按 0 处理
// 只保留第一条合计行
func (p *RevenueParser) Parse(text string) []model.RevenueRecord {
	records := make([]model.RevenueRecord, 0)
	seenTotal := false

	for _, line := range p.labels.ClassifyLines(text) {
		rec, ok := buildRevenueRecord(line)
		if !ok {
			continue
		}
		if rec.Kind == model.KindTotal {
			if seenTotal {
				continue
			}
			seenTotal = true
			rec.DisplayName = p.labels.PrimaryAggregate()
		}
		records = append(records, rec)
	}
	return records
}

func buildRevenueRecord(line ClassifiedLine) (model.RevenueRecord, bool) {
	cumulative, okC := parseNumber(field(line.Fields, 1))
	adjusted, okA := parseNumber(field(line.Fields, 2))
	ratio, okR := parseNumber(field(line.Fields, 3))
	if !okC && !okA && !okR && line.Kind == LineMember {
		return model.RevenueRecord{}, false
	}
	if !okR {
		ratio = efficiency(cumulative, adjusted)
	}

	rec := model.RevenueRecord{
		DisplayName:       line.Name(),
		CumulativeRevenue: cumulative,
		AdjustedRevenue:   adjusted,
		EfficiencyRatio:   ratio,
	}
	switch line.Kind {
	case LineTotal:
		rec.Kind = model.KindTotal
	case LineGroup:
		rec.Kind = model.KindGroup
	case LineMember:
		rec.Kind = model.KindMember
		rec.SourceName = line.Name()
		rec.DisplayName = FormatEmployeeName(line.Name())
		rec.GroupName = line.Group
	default:
		return model.RevenueRecord{}, false
	}
	return rec, true
}

// efficiency 折算营收相对累计营收的增幅
func efficiency(cumulative, adjusted float64) float64 {
	if cumulative <= 0 {
		return 0
	}
	return adjusted/cumulative - 1
}

// Members 所有员工记录，按显示名排序
func Members(records []model.RevenueRecord) []model.RevenueRecord {
	out := make([]model.RevenueRecord, 0, len(records))
	for _, r := range records {
		if r.Kind == model.KindMember {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DisplayName < out[j].DisplayName })
	return out
}

// MemberGroups 员工原始标识 → 部门
func MemberGroups(records []model.RevenueRecord) map[string]string {
	m := make(map[string]string)
	for _, r := range records {
		if r.Kind == model.KindMember {
			m[r.SourceName] = r.GroupName
		}
	}
	return m
}

// Departments 部门列表（按名称排序）及员工数
func Departments(records []model.RevenueRecord) []model.Department {
	counts := make(map[string]int)
	var order []string
	for _, r := range records {
		switch r.Kind {
		case model.KindGroup:
			if _, ok := counts[r.DisplayName]; !ok {
				counts[r.DisplayName] = 0
				order = append(order, r.DisplayName)
			}
		case model.KindMember:
			if _, ok := counts[r.GroupName]; !ok {
				order = append(order, r.GroupName)
			}
			counts[r.GroupName]++
		}
	}

	out := make([]model.Department, 0, len(order))
	for _, name := range order {
		out = append(out, model.Department{Name: name, MemberCount: counts[name]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// LowPerformerThresholds 员工数大于 3 的部门，取后 30% 的分界值
func LowPerformerThresholds(records []model.RevenueRecord) map[string]model.GroupThreshold {
	cumulative := make(map[string][]float64)
	adjusted := make(map[string][]float64)
	for _, r := range records {
		if r.Kind != model.KindMember {
			continue
		}
		cumulative[r.GroupName] = append(cumulative[r.GroupName], r.CumulativeRevenue)
		adjusted[r.GroupName] = append(adjusted[r.GroupName], r.AdjustedRevenue)
	}

	out := make(map[string]model.GroupThreshold)
	for group, values := range cumulative {
		if len(values) <= 3 {
			continue
		}
		out[group] = model.GroupThreshold{
			GroupName:  group,
			Cumulative: bottomCut(values),
			Adjusted:   bottomCut(adjusted[group]),
		}
	}
	return out
}

// bottomCut 升序排序后第 floor(n*0.3) 个值
func bottomCut(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return sorted[int(float64(len(sorted))*0.3)]
}
