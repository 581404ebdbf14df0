package parser

// Labels 粘贴文本中的固定标签
type Labels struct {
	AggregateLabels []string // 合计行首列，如 "Tổng"
	GroupPrefix     string   // 部门行前缀，如 "BP "
	MemberSeparator string   // 员工标识分隔符 "姓名 - 工号"
	GroupKeyword    string   // 竞赛表中部门标签行关键字
}

// DefaultLabels 默认标签
func DefaultLabels() Labels {
	return Labels{
		AggregateLabels: []string{"Tổng", "Total"},
		GroupPrefix:     "BP ",
		MemberSeparator: " - ",
		GroupKeyword:    "phòng ban",
	}
}

// PrimaryAggregate 输出时使用的合计名称
func (l Labels) PrimaryAggregate() string {
	if len(l.AggregateLabels) == 0 {
		return "Tổng"
	}
	return l.AggregateLabels[0]
}

// IsAggregate 是否为合计标签
func (l Labels) IsAggregate(field string) bool {
	for _, label := range l.AggregateLabels {
		if field == label {
			return true
		}
	}
	return false
}

// withDefaults 空字段回落到默认值
func (l Labels) withDefaults() Labels {
	d := DefaultLabels()
	if len(l.AggregateLabels) == 0 {
		l.AggregateLabels = d.AggregateLabels
	}
	if l.GroupPrefix == "" {
		l.GroupPrefix = d.GroupPrefix
	}
	if l.MemberSeparator == "" {
		l.MemberSeparator = d.MemberSeparator
	}
	if l.GroupKeyword == "" {
		l.GroupKeyword = d.GroupKeyword
	}
	return l
}
