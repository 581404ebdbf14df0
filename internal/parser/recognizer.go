package parser

import (
	"regexp"
	"strings"

	"github.com/ailtstruongson-maker/reportbi/internal/model"
)

// 各报表的标准表头
const (
	IndustryRealtimeHeader = "Nhóm ngành hàng\tSL Realtime\tDT Realtime (QĐ)\tTarget Ngày (QĐ)"
	IndustryLuyKeHeader    = "Nhóm ngành hàng\tSố lượng\tDTQĐ\tTarget (QĐ)\tLãi gộp QĐ"
	EmployeeListHeader     = "Nhân viên\tDTLK\tDTQĐ\tHiệu quả QĐ\tSố lượng\tĐơn giá"
)

var (
	metricTokenRe = regexp.MustCompile(`(?i)dtlk|dtqđ|dtqd|sllk|sl realtime`)
	dateRowRe     = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}`)
)

// ReportRecognizer 粘贴文本的报表类型识别器
type ReportRecognizer struct {
	labels Labels
}

// NewReportRecognizer 创建识别器
func NewReportRecognizer(labels Labels) *ReportRecognizer {
	return &ReportRecognizer{labels: labels.withDefaults()}
}

// Recognize 识别报表类型，返回置信度最高的结果
func (r *ReportRecognizer) Recognize(text string) model.Recognition {
	text = NormalizeText(text)
	if strings.TrimSpace(text) == "" {
		return model.Recognition{Kind: model.ReportUnknown}
	}

	candidates := []model.Recognition{
		{Kind: model.ReportIndustryRealtime, Confidence: headerConfidence(text, IndustryRealtimeHeader)},
		{Kind: model.ReportIndustryCumulative, Confidence: headerConfidence(text, IndustryLuyKeHeader)},
		{Kind: model.ReportRevenue, Confidence: r.revenueConfidence(text)},
		{Kind: model.ReportCompetitionLuyKe, Confidence: targetMarkerConfidence(text)},
		{Kind: model.ReportCompetition, Confidence: r.competitionConfidence(text)},
		{Kind: model.ReportBonus, Confidence: bonusConfidence(text)},
		{Kind: model.ReportLuyKe, Confidence: luyKeConfidence(text)},
	}

	best := model.Recognition{Kind: model.ReportUnknown}
	for _, c := range candidates {
		if c.Confidence > best.Confidence {
			best = c
		}
	}
	if best.Confidence < 0.3 {
		return model.Recognition{Kind: model.ReportUnknown, Confidence: best.Confidence}
	}
	return best
}

// ValidateCompetition 竞赛表的最低要求：部门或合计标签、指标字样、表格行
func (r *ReportRecognizer) ValidateCompetition(text string) bool {
	lower := strings.ToLower(NormalizeText(text))
	hasKeywords := strings.Contains(lower, strings.ToLower(r.labels.GroupKeyword)) || r.containsAggregate(lower)
	hasMetrics := metricTokenRe.MatchString(lower)
	hasRows := r.containsAggregate(lower) || strings.Contains(text, r.labels.MemberSeparator)
	return hasKeywords && hasMetrics && hasRows
}

func (r *ReportRecognizer) containsAggregate(lower string) bool {
	for _, label := range r.labels.AggregateLabels {
		if strings.Contains(lower, strings.ToLower(label)) {
			return true
		}
	}
	return false
}

// headerConfidence 完整包含表头为 1，否则按列名命中比例打折
func headerConfidence(text, header string) float64 {
	if strings.Contains(text, header) {
		return 1
	}
	columns := strings.Split(header, "\t")
	first := firstNonBlank(text)
	matched := 0
	for _, col := range columns {
		if strings.Contains(first, col) {
			matched++
		}
	}
	return float64(matched) / float64(len(columns)) * 0.8
}

func (r *ReportRecognizer) revenueConfidence(text string) float64 {
	if strings.Contains(text, EmployeeListHeader) {
		return 1
	}
	var groups, members int
	for _, line := range r.labels.ClassifyLines(text) {
		switch line.Kind {
		case LineGroup:
			groups++
		case LineMember:
			if len(line.Fields) > 3 {
				members++
			}
		}
	}
	if groups == 0 || members == 0 {
		return 0
	}
	// 竞赛表同样有部门与员工行，只给中等置信度
	if r.competitionConfidence(text) > 0 {
		return 0.4
	}
	return 0.6
}

func (r *ReportRecognizer) competitionConfidence(text string) float64 {
	if !r.ValidateCompetition(text) {
		return 0
	}
	for _, line := range nonBlankLines(text) {
		if isMetricsRow(line) {
			return 0.7
		}
	}
	return 0.3
}

// targetMarkerConfidence 含 "<项目>\t<口径>\tTarget" 标记行
func targetMarkerConfidence(text string) float64 {
	markers := 0
	for _, line := range nonBlankLines(text) {
		if _, ok := ParseTargetMarker(SplitFields(strings.TrimSpace(line))); ok {
			markers++
		}
	}
	if markers == 0 {
		return 0
	}
	return 0.9
}

func bonusConfidence(text string) float64 {
	score := 0.0
	if strings.Contains(text, "Tổng cộng") {
		score += 0.5
	}
	for _, line := range nonBlankLines(text) {
		if dateRowRe.MatchString(strings.TrimSpace(line)) {
			score += 0.45
			break
		}
	}
	return score
}

// luyKeConfidence 累计汇总表：第 7 列为完成百分比
func luyKeConfidence(text string) float64 {
	rows, pct := 0, 0
	for _, line := range nonBlankLines(text) {
		fields := SplitFields(strings.TrimSpace(line))
		if len(fields) <= 6 {
			continue
		}
		rows++
		if strings.HasSuffix(fields[6], "%") {
			pct++
		}
	}
	if rows == 0 || pct == 0 {
		return 0
	}
	return 0.5 * float64(pct) / float64(rows)
}

func firstNonBlank(text string) string {
	for _, line := range SplitLines(text) {
		if strings.TrimSpace(line) != "" {
			return line
		}
	}
	return ""
}
