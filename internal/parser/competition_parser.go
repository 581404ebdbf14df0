package parser

import (
	"fmt"
	"strings"

	"github.com/ailtstruongson-maker/reportbi/internal/model"
)

// CompetitionParser 竞赛排名表解析器
//
// 表格结构：
//
//	Phòng ban ...            ← 部门标签行
//	<项目标题 1>              ← 每行一个项目标题
//	<项目标题 2>
//	DTLK  DTQĐ  SLLK ...     ← 指标行，与标题按位置对应
//	<员工 / 合计数据行>
type CompetitionParser struct {
	labels Labels
}

// NewCompetitionParser 创建竞赛表解析器
func NewCompetitionParser(labels Labels) *CompetitionParser {
	return &CompetitionParser{labels: labels.withDefaults()}
}

// Parse 按口径拆分竞赛数据
// members 为员工原始标识到部门的映射，不在映射中的员工行被丢弃；映射为空时返回空结果
func (p *CompetitionParser) Parse(text string, members map[string]string) model.CompetitionData {
	result := model.NewCompetitionData()
	if len(members) == 0 || strings.TrimSpace(text) == "" {
		return result
	}

	lines := nonBlankLines(text)
	metricsIdx := -1
	for i, line := range lines {
		if isMetricsRow(line) {
			metricsIdx = i
			break
		}
	}
	if metricsIdx < 0 {
		return result
	}

	labelIdx := -1
	for i, line := range lines[:metricsIdx] {
		if isLabelRow(line, p.labels.GroupKeyword) {
			labelIdx = i
			break
		}
	}
	if labelIdx < 0 {
		return result
	}

	headers := buildHeaders(lines[labelIdx+1:metricsIdx], SplitFields(strings.TrimSpace(lines[metricsIdx])))
	byCriterion := make(map[model.Criterion][]model.CompetitionHeader, len(model.Criteria))
	for _, h := range headers {
		byCriterion[h.Criterion] = append(byCriterion[h.Criterion], h)
	}

	type row struct {
		record model.CompetitionRecord
		values map[model.Criterion][]*float64
	}
	rows := make(map[string]*row)
	var order []string

	for _, line := range lines[metricsIdx+1:] {
		fields := SplitFields(line)
		name := fields[0]
		if name == "" {
			continue
		}

		var rec model.CompetitionRecord
		switch {
		case p.labels.IsAggregate(name):
			rec = model.CompetitionRecord{DisplayName: p.labels.PrimaryAggregate(), SourceName: name}
		case strings.HasPrefix(name, p.labels.GroupPrefix):
			continue
		default:
			group, ok := members[name]
			if !ok {
				continue
			}
			rec = model.CompetitionRecord{DisplayName: FormatEmployeeName(name), SourceName: name, GroupName: group}
		}

		r, ok := rows[name]
		if !ok {
			r = &row{record: rec, values: make(map[model.Criterion][]*float64, len(model.Criteria))}
			rows[name] = r
			order = append(order, name)
		}
		// 重复粘贴时后出现的行覆盖前面的数值
		for _, c := range model.Criteria {
			r.values[c] = readCells(fields, byCriterion[c])
		}
	}

	for _, c := range model.Criteria {
		table := model.CompetitionTable{
			Headers: append([]model.CompetitionHeader{}, byCriterion[c]...),
			Records: make([]model.CompetitionRecord, 0, len(order)),
		}
		for _, name := range order {
			rec := rows[name].record
			rec.Values = rows[name].values[c]
			table.Records = append(table.Records, rec)
		}
		result[c] = table
	}
	return result
}

// ParseHeaders 只解析表头，不需要员工映射
func (p *CompetitionParser) ParseHeaders(text string) []model.CompetitionHeader {
	lines := nonBlankLines(text)
	for i, line := range lines {
		if !isMetricsRow(line) {
			continue
		}
		for j, l := range lines[:i] {
			if isLabelRow(l, p.labels.GroupKeyword) {
				return buildHeaders(lines[j+1:i], SplitFields(strings.TrimSpace(line)))
			}
		}
		return nil
	}
	return nil
}

// buildHeaders 标题与指标按位置配对，丢弃非口径指标
func buildHeaders(titles, metrics []string) []model.CompetitionHeader {
	n := min(len(titles), len(metrics))
	headers := make([]model.CompetitionHeader, 0, n)
	for i := 0; i < n; i++ {
		criterion, ok := model.ParseCriterion(metrics[i])
		if !ok {
			continue
		}
		source := strings.TrimSpace(titles[i])
		if source == "" {
			source = fmt.Sprintf("Unnamed %d", i)
		}
		headers = append(headers, model.CompetitionHeader{
			DisplayTitle: ShortenProgramName(source),
			SourceTitle:  source,
			Criterion:    criterion,
			Column:       i,
		})
	}
	return headers
}

// readCells 按表头所在列读取数值，0 与空白均视为无数据
func readCells(fields []string, headers []model.CompetitionHeader) []*float64 {
	values := make([]*float64, len(headers))
	for i, h := range headers {
		v, ok := parseNumber(field(fields, h.Column+1))
		if ok && v != 0 {
			values[i] = &v
		}
	}
	return values
}

// isMetricsRow 至少一半字段为指标字样
func isMetricsRow(line string) bool {
	fields := SplitFields(strings.TrimSpace(line))
	matched := 0
	for _, f := range fields {
		if _, ok := model.ParseCriterion(f); ok {
			matched++
		}
	}
	return matched > 0 && float64(matched) >= float64(len(fields))*0.5
}

// isLabelRow 是否含部门标签关键字
func isLabelRow(line, keyword string) bool {
	return ContainsFold(line, keyword)
}

func nonBlankLines(text string) []string {
	var out []string
	for _, line := range SplitLines(text) {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}
