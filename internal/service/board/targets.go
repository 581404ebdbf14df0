package board

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/ailtstruongson-maker/reportbi/internal/model"
	"github.com/ailtstruongson-maker/reportbi/internal/parser"
	"github.com/ailtstruongson-maker/reportbi/internal/service/target"
)

// RevenueSettings 门店营收目标设置
type RevenueSettings struct {
	MultiplierPercent  float64 `json:"multiplierPercent"`
	InstallmentPercent float64 `json:"installmentPercent"`
	ConversionPercent  float64 `json:"conversionPercent"`
}

// RevenueSettingsPatch 部分更新，nil 字段保持不变
type RevenueSettingsPatch struct {
	MultiplierPercent  *float64 `json:"multiplierPercent"`
	InstallmentPercent *float64 `json:"installmentPercent"`
	ConversionPercent  *float64 `json:"conversionPercent"`
}

func clampPercent(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}

// RevenueSettings 读取设置，未保存时使用默认值
func (s *Service) RevenueSettings(ctx context.Context, outlet string) (RevenueSettings, error) {
	settings := RevenueSettings{
		MultiplierPercent:  s.opts.Defaults.MultiplierPercent,
		InstallmentPercent: s.opts.Defaults.InstallmentPercent,
		ConversionPercent:  s.opts.Defaults.ConversionPercent,
	}
	if _, err := s.getJSON(ctx, revenueSettingsKey(outlet), &settings); err != nil {
		return RevenueSettings{}, err
	}
	return settings, nil
}

// UpdateRevenueSettings 更新设置：倍率限制在 [0, 300]，占比限制在 [0, 100]
func (s *Service) UpdateRevenueSettings(ctx context.Context, outlet string, patch RevenueSettingsPatch) (RevenueSettings, error) {
	outlet, err := requireOutlet(outlet)
	if err != nil {
		return RevenueSettings{}, err
	}
	for _, v := range []*float64{patch.MultiplierPercent, patch.InstallmentPercent, patch.ConversionPercent} {
		if v != nil && (math.IsNaN(*v) || math.IsInf(*v, 0)) {
			return RevenueSettings{}, fmt.Errorf("settings value is invalid: %w", ErrInvalidInput)
		}
	}

	unlock := s.lock(outlet)
	defer unlock()

	settings, err := s.RevenueSettings(ctx, outlet)
	if err != nil {
		return RevenueSettings{}, err
	}
	if patch.MultiplierPercent != nil {
		settings.MultiplierPercent = model.ClampMultiplier(*patch.MultiplierPercent)
	}
	if patch.InstallmentPercent != nil {
		settings.InstallmentPercent = clampPercent(*patch.InstallmentPercent)
	}
	if patch.ConversionPercent != nil {
		settings.ConversionPercent = clampPercent(*patch.ConversionPercent)
	}
	if err := s.putJSON(ctx, revenueSettingsKey(outlet), settings); err != nil {
		return RevenueSettings{}, err
	}
	return settings, nil
}

// RevenuePlan 门店营收目标及部门拆分
func (s *Service) RevenuePlan(ctx context.Context, outlet string, date time.Time) (model.RevenuePlan, error) {
	outlet, err := requireOutlet(outlet)
	if err != nil {
		return model.RevenuePlan{}, err
	}
	settings, err := s.RevenueSettings(ctx, outlet)
	if err != nil {
		return model.RevenuePlan{}, err
	}
	summary, err := s.Report(ctx, outlet, model.ReportLuyKe)
	if err != nil {
		return model.RevenuePlan{}, err
	}
	depts, err := s.Departments(ctx, outlet)
	if err != nil {
		return model.RevenuePlan{}, err
	}
	weights, err := s.departmentWeights(ctx, outlet)
	if err != nil {
		return model.RevenuePlan{}, err
	}

	baseline, ok := target.RevenueBaseline(summary, outlet)
	adj := target.Adjustment(baseline, ok, settings.MultiplierPercent)
	plan := model.RevenuePlan{
		Outlet:             outlet,
		Adjustment:         adj,
		InstallmentPercent: settings.InstallmentPercent,
		ConversionPercent:  settings.ConversionPercent,
		Departments:        target.AllocateDepartments(adj, weights, depts, date),
	}
	if v, ok := adj.Effective(); ok {
		plan.Effective = &v
	}
	return plan, nil
}

// programMultipliers 项目倍率
func (s *Service) programMultipliers(ctx context.Context, outlet string) (map[string]float64, error) {
	multipliers := make(map[string]float64)
	if _, err := s.getJSON(ctx, programSettingsKey(outlet), &multipliers); err != nil {
		return nil, err
	}
	return multipliers, nil
}

// SetProgramMultiplier 设置项目倍率
func (s *Service) SetProgramMultiplier(ctx context.Context, outlet, program string, percent float64) (map[string]float64, error) {
	outlet, err := requireOutlet(outlet)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(percent) || math.IsInf(percent, 0) {
		return nil, fmt.Errorf("multiplier is invalid: %w", ErrInvalidInput)
	}
	programs, err := s.Programs(ctx)
	if err != nil {
		return nil, err
	}
	if !hasProgram(programs, program) {
		return nil, fmt.Errorf("program %q: %w", program, ErrNotFound)
	}

	unlock := s.lock(outlet)
	defer unlock()

	multipliers, err := s.programMultipliers(ctx, outlet)
	if err != nil {
		return nil, err
	}
	multipliers[program] = model.ClampMultiplier(percent)
	if err := s.putJSON(ctx, programSettingsKey(outlet), multipliers); err != nil {
		return nil, err
	}
	return multipliers, nil
}

// ResetProgramMultipliers 所有项目恢复 100%
func (s *Service) ResetProgramMultipliers(ctx context.Context, outlet string) error {
	outlet, err := requireOutlet(outlet)
	if err != nil {
		return err
	}
	unlock := s.lock(outlet)
	defer unlock()
	return s.kv.Delete(ctx, programSettingsKey(outlet))
}

// ProgramPlan 门店各竞赛项目目标
func (s *Service) ProgramPlan(ctx context.Context, outlet string, date time.Time) ([]model.ProgramTarget, error) {
	outlet, err := requireOutlet(outlet)
	if err != nil {
		return nil, err
	}
	text, err := s.Report(ctx, outlet, model.ReportCompetitionLuyKe)
	if err != nil {
		return nil, err
	}
	multipliers, err := s.programMultipliers(ctx, outlet)
	if err != nil {
		return nil, err
	}
	return target.ProgramTargets(parser.ParsePrograms(text), target.ProgramBaselines(text, outlet), multipliers, date), nil
}

// EmployeeProgramTargets 各员工的竞赛项目目标
func (s *Service) EmployeeProgramTargets(ctx context.Context, outlet string, date time.Time) ([]model.MemberProgramTarget, error) {
	plan, err := s.ProgramPlan(ctx, outlet, date)
	if err != nil {
		return nil, err
	}
	records, err := s.Revenue(ctx, outlet)
	if err != nil {
		return nil, err
	}
	weights, err := s.departmentWeights(ctx, outlet)
	if err != nil {
		return nil, err
	}
	return target.MemberProgramTargets(plan, records, weights), nil
}

func hasProgram(programs []model.Program, name string) bool {
	for _, p := range programs {
		if p.Name == name {
			return true
		}
	}
	return false
}
