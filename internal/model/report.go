package model

// ReportKind 粘贴文本的报表类型
type ReportKind string

const (
	ReportRevenue            ReportKind = "revenue"           // 员工营收列表
	ReportCompetition        ReportKind = "competition"       // 竞赛实时表
	ReportCompetitionLuyKe   ReportKind = "competition_luyke" // 竞赛累计表（含 Target 标记）
	ReportLuyKe              ReportKind = "luyke"             // 累计汇总（营收目标基准）
	ReportIndustryRealtime   ReportKind = "industry_realtime" // 行业实时
	ReportIndustryCumulative ReportKind = "industry_luyke"    // 行业累计
	ReportBonus              ReportKind = "bonus"             // 积分奖金
	ReportUnknown            ReportKind = "unknown"
)

// ReportKinds 可保存的报表类型
var ReportKinds = []ReportKind{
	ReportRevenue,
	ReportCompetition,
	ReportCompetitionLuyKe,
	ReportLuyKe,
	ReportIndustryRealtime,
	ReportIndustryCumulative,
	ReportBonus,
}

// Valid 是否为已知类型
func (k ReportKind) Valid() bool {
	for _, v := range ReportKinds {
		if v == k {
			return true
		}
	}
	return false
}

// Recognition 报表识别结果
type Recognition struct {
	Kind       ReportKind `json:"kind"`
	Confidence float64    `json:"confidence"` // 0-1
}

// BonusMetrics 积分奖金汇总
type BonusMetrics struct {
	PointsEarned     float64 `json:"pointsEarned"`
	PointsReturned   float64 `json:"pointsReturned"`
	SpotBonus        float64 `json:"spotBonus"`
	ERP              float64 `json:"erp"`
	Total            float64 `json:"total"`
	Projected        float64 `json:"projected"`
	SpotSharePercent float64 `json:"spotSharePercent"`
	DaysPassed       int     `json:"daysPassed"`
	DaysInMonth      int     `json:"daysInMonth"`
}

// IndustryRow 行业表中的一行
type IndustryRow struct {
	Name   string             `json:"name"`
	Values map[string]float64 `json:"values"`
}

// IndustryTable 行业明细表
type IndustryTable struct {
	Columns []string      `json:"columns"`
	Rows    []IndustryRow `json:"rows"`
	Total   *IndustryRow  `json:"total,omitempty"`
}
