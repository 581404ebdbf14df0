package model

// Multiplier 倍率范围（百分比）
const (
	DefaultMultiplierPercent = 100.0
	MinMultiplierPercent     = 0.0
	MaxMultiplierPercent     = 300.0
)

// ClampMultiplier 将倍率限制在 [0, 300]
func ClampMultiplier(percent float64) float64 {
	if percent < MinMultiplierPercent {
		return MinMultiplierPercent
	}
	if percent > MaxMultiplierPercent {
		return MaxMultiplierPercent
	}
	return percent
}

// TargetAdjustment 基准目标与倍率
type TargetAdjustment struct {
	Baseline          *float64 `json:"baseline"` // nil 表示无法推算
	MultiplierPercent float64  `json:"multiplierPercent"`
}

// Effective 调整后的目标；基准不可用时返回 false
func (a TargetAdjustment) Effective() (float64, bool) {
	if a.Baseline == nil {
		return 0, false
	}
	return *a.Baseline * a.MultiplierPercent / 100, true
}

// Program 竞赛项目
type Program struct {
	Name      string    `json:"name"`
	Criterion Criterion `json:"criterion"`
}

// EntityTarget 单个部门的目标分摊结果
type EntityTarget struct {
	Name           string   `json:"name"`
	Weight         float64  `json:"weight"`
	MemberCount    int      `json:"memberCount"`
	Monthly        *float64 `json:"monthly"`
	Daily          *float64 `json:"daily"`
	PerMember      *float64 `json:"perMember"`      // 员工数为 0 时为 nil
	PerMemberDaily *float64 `json:"perMemberDaily"` // 同上
}

// RevenuePlan 门店营收目标
type RevenuePlan struct {
	Outlet             string           `json:"outlet"`
	Adjustment         TargetAdjustment `json:"adjustment"`
	Effective          *float64         `json:"effective"`
	InstallmentPercent float64          `json:"installmentPercent"` // 分期占比目标
	ConversionPercent  float64          `json:"conversionPercent"`  // 折算占比目标
	Departments        []EntityTarget   `json:"departments"`
}

// ProgramTarget 竞赛项目目标
type ProgramTarget struct {
	Program    Program          `json:"program"`
	Adjustment TargetAdjustment `json:"adjustment"`
	Effective  *float64         `json:"effective"`
	Daily      *float64         `json:"daily"`
}

// MemberProgramTarget 员工在某个竞赛项目中的目标
type MemberProgramTarget struct {
	Program    string  `json:"program"`
	SourceName string  `json:"sourceName"`
	GroupName  string  `json:"groupName"`
	Target     float64 `json:"target"`
}
