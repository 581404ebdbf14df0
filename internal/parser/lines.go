package parser

import "strings"

// LineKind 行分类
type LineKind int

const (
	LineIgnored LineKind = iota
	LineTotal
	LineGroup
	LineMember
)

func (k LineKind) String() string {
	switch k {
	case LineTotal:
		return "total"
	case LineGroup:
		return "group"
	case LineMember:
		return "member"
	}
	return "ignored"
}

// ClassifiedLine 分类后的行
type ClassifiedLine struct {
	Kind   LineKind
	Fields []string
	Group  string // Group 行为自身名称，Member 行为所属部门
}

// Name 首列
func (l ClassifiedLine) Name() string {
	return field(l.Fields, 0)
}

// ClassifyState 扫描过程中的累积状态
type ClassifyState struct {
	ActiveGroup string
}

// Classify 对单行分类并返回新的状态
// 优先级：合计 > 部门 > 员工，其余忽略
func (l Labels) Classify(state ClassifyState, line string) (ClassifiedLine, ClassifyState) {
	l = l.withDefaults()
	line = strings.TrimSpace(line)
	if line == "" {
		return ClassifiedLine{Kind: LineIgnored}, state
	}

	fields := SplitFields(line)
	first := fields[0]

	switch {
	case l.IsAggregate(first):
		return ClassifiedLine{Kind: LineTotal, Fields: fields}, state
	case strings.HasPrefix(first, l.GroupPrefix) && len(fields) > 1:
		state.ActiveGroup = first
		return ClassifiedLine{Kind: LineGroup, Fields: fields, Group: first}, state
	case state.ActiveGroup != "" && strings.Contains(first, l.MemberSeparator):
		return ClassifiedLine{Kind: LineMember, Fields: fields, Group: state.ActiveGroup}, state
	}
	return ClassifiedLine{Kind: LineIgnored, Fields: fields}, state
}

// ClassifyLines 分类整段文本，丢弃无法识别的行
func (l Labels) ClassifyLines(text string) []ClassifiedLine {
	var (
		state ClassifyState
		out   []ClassifiedLine
	)
	for _, raw := range SplitLines(text) {
		var cl ClassifiedLine
		cl, state = l.Classify(state, raw)
		if cl.Kind != LineIgnored {
			out = append(out, cl)
		}
	}
	return out
}
