package exporter

import (
	"context"
	"time"

	"github.com/ailtstruongson-maker/reportbi/internal/model"
)

// Source 导出所需的门店数据
type Source interface {
	Revenue(ctx context.Context, outlet string) ([]model.RevenueRecord, error)
	RevenuePlan(ctx context.Context, outlet string, date time.Time) (model.RevenuePlan, error)
	ProgramPlan(ctx context.Context, outlet string, date time.Time) ([]model.ProgramTarget, error)
	EmployeeProgramTargets(ctx context.Context, outlet string, date time.Time) ([]model.MemberProgramTarget, error)
}

// Collect 读取门店在 date 当天的导出内容
func Collect(ctx context.Context, src Source, outlet string, date time.Time) (Workbook, error) {
	revenue, err := src.Revenue(ctx, outlet)
	if err != nil {
		return Workbook{}, err
	}
	plan, err := src.RevenuePlan(ctx, outlet, date)
	if err != nil {
		return Workbook{}, err
	}
	programs, err := src.ProgramPlan(ctx, outlet, date)
	if err != nil {
		return Workbook{}, err
	}
	members, err := src.EmployeeProgramTargets(ctx, outlet, date)
	if err != nil {
		return Workbook{}, err
	}
	return Workbook{
		Outlet:   plan.Outlet,
		Date:     date,
		Revenue:  revenue,
		Plan:     plan,
		Programs: programs,
		Members:  members,
	}, nil
}
