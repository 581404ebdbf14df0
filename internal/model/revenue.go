package model

// RecordKind 营收记录层级
type RecordKind string

const (
	KindTotal  RecordKind = "total"
	KindGroup  RecordKind = "group"
	KindMember RecordKind = "member"
)

// RevenueRecord 营收报表中的一行（合计 / 部门 / 员工）
type RevenueRecord struct {
	Kind              RecordKind `json:"kind"`
	DisplayName       string     `json:"displayName"`
	SourceName        string     `json:"sourceName,omitempty"` // 仅员工行：原始标识 "姓名 - 工号"
	GroupName         string     `json:"groupName,omitempty"`  // 仅员工行：所属部门
	CumulativeRevenue float64    `json:"cumulativeRevenue"`
	AdjustedRevenue   float64    `json:"adjustedRevenue"`
	EfficiencyRatio   float64    `json:"efficiencyRatio"`
}

// Department 部门及其员工数
type Department struct {
	Name        string `json:"name"`
	MemberCount int    `json:"memberCount"`
}

// GroupThreshold 部门内后 30% 的分界值
type GroupThreshold struct {
	GroupName  string  `json:"groupName"`
	Cumulative float64 `json:"cumulative"`
	Adjusted   float64 `json:"adjusted"`
}
