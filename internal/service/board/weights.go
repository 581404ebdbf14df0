package board

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ailtstruongson-maker/reportbi/internal/service/target"
)

// DepartmentWeights 部门权重；部门集合变化后自动重新平均分配
func (s *Service) DepartmentWeights(ctx context.Context, outlet string) (target.WeightSet, error) {
	outlet, err := requireOutlet(outlet)
	if err != nil {
		return nil, err
	}
	return s.departmentWeights(ctx, outlet)
}

func (s *Service) departmentWeights(ctx context.Context, outlet string) (target.WeightSet, error) {
	depts, err := s.Departments(ctx, outlet)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(depts))
	for _, d := range depts {
		names = append(names, d.Name)
	}

	var stored target.WeightSet
	if _, err := s.getJSON(ctx, departmentWeightsKey(outlet), &stored); err != nil {
		return nil, err
	}
	return target.Reconcile(stored, names), nil
}

// SetDepartmentWeight 调整单个部门权重，其余部门按比例吸收
func (s *Service) SetDepartmentWeight(ctx context.Context, outlet, department string, value float64) (target.WeightSet, error) {
	outlet, err := requireOutlet(outlet)
	if err != nil {
		return nil, err
	}
	unlock := s.lock(outlet)
	defer unlock()

	current, err := s.departmentWeights(ctx, outlet)
	if err != nil {
		return nil, err
	}
	if _, ok := current[department]; !ok {
		return nil, fmt.Errorf("department %q: %w", department, ErrNotFound)
	}

	next := target.Redistribute(current, department, value)
	if err := s.putJSON(ctx, departmentWeightsKey(outlet), next); err != nil {
		return nil, err
	}
	s.log.Debug("department weight updated",
		zap.String("outlet", outlet),
		zap.String("department", department),
		zap.Float64("value", value),
	)
	return next, nil
}

// ResetDepartmentWeights 清除保存的权重，恢复平均分配
func (s *Service) ResetDepartmentWeights(ctx context.Context, outlet string) (target.WeightSet, error) {
	outlet, err := requireOutlet(outlet)
	if err != nil {
		return nil, err
	}
	unlock := s.lock(outlet)
	defer unlock()

	if err := s.kv.Delete(ctx, departmentWeightsKey(outlet)); err != nil {
		return nil, err
	}
	return s.departmentWeights(ctx, outlet)
}
