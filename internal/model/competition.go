package model

import "strings"

// Criterion 竞赛考核口径
type Criterion string

const (
	CriterionDTLK Criterion = "DTLK" // 累计营收
	CriterionDTQD Criterion = "DTQĐ" // 折算营收
	CriterionSLLK Criterion = "SLLK" // 累计数量
)

// Criteria 口径的固定顺序
var Criteria = []Criterion{CriterionDTLK, CriterionDTQD, CriterionSLLK}

// ParseCriterion 将表头中的指标字样归一为口径
// "SL REALTIME" 视为 SLLK
func ParseCriterion(token string) (Criterion, bool) {
	switch strings.ToUpper(strings.TrimSpace(token)) {
	case "DTLK":
		return CriterionDTLK, true
	case "DTQĐ", "DTQD":
		return CriterionDTQD, true
	case "SLLK", "SL REALTIME":
		return CriterionSLLK, true
	}
	return "", false
}

// CompetitionHeader 竞赛项目列
type CompetitionHeader struct {
	DisplayTitle string    `json:"displayTitle"`
	SourceTitle  string    `json:"sourceTitle"`
	Criterion    Criterion `json:"criterion"`
	Column       int       `json:"column"` // 指标行中的源列号（从 0 开始）
}

// CompetitionRecord 员工或合计行的竞赛数据
// Values 与同口径的表头一一对应，nil 表示无数据
type CompetitionRecord struct {
	DisplayName string     `json:"displayName"`
	SourceName  string     `json:"sourceName"`
	GroupName   string     `json:"groupName,omitempty"`
	Values      []*float64 `json:"values"`
}

// Total 各列之和，无数据按 0 计
func (r CompetitionRecord) Total() float64 {
	sum := 0.0
	for _, v := range r.Values {
		if v != nil {
			sum += *v
		}
	}
	return sum
}

// CompetitionTable 单一口径下的表头与记录
type CompetitionTable struct {
	Headers []CompetitionHeader `json:"headers"`
	Records []CompetitionRecord `json:"records"`
}

// CompetitionData 按口径分组的竞赛数据
type CompetitionData map[Criterion]CompetitionTable

// NewCompetitionData 三个口径均为空表
func NewCompetitionData() CompetitionData {
	data := make(CompetitionData, len(Criteria))
	for _, c := range Criteria {
		data[c] = CompetitionTable{Headers: []CompetitionHeader{}, Records: []CompetitionRecord{}}
	}
	return data
}

// IsEmpty 是否没有任何记录
func (d CompetitionData) IsEmpty() bool {
	for _, t := range d {
		if len(t.Records) > 0 {
			return false
		}
	}
	return true
}
