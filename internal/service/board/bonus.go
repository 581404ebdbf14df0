package board

import (
	"context"
	"fmt"
	"strings"

	"github.com/ailtstruongson-maker/reportbi/internal/model"
	"github.com/ailtstruongson-maker/reportbi/internal/parser"
)

// SaveBonus 解析并保存员工的积分明细
func (s *Service) SaveBonus(ctx context.Context, outlet, employee, text string) (model.BonusMetrics, error) {
	outlet, err := requireOutlet(outlet)
	if err != nil {
		return model.BonusMetrics{}, err
	}
	employee = strings.TrimSpace(employee)
	if employee == "" {
		return model.BonusMetrics{}, fmt.Errorf("employee is required: %w", ErrInvalidInput)
	}
	metrics, err := parser.ParseBonusSheet(text)
	if err != nil {
		return model.BonusMetrics{}, fmt.Errorf("%w: %w", err, ErrInvalidInput)
	}

	unlock := s.lock(outlet)
	defer unlock()

	all, err := s.Bonus(ctx, outlet)
	if err != nil {
		return model.BonusMetrics{}, err
	}
	all[employee] = metrics
	if err := s.putJSON(ctx, bonusKey(outlet), all); err != nil {
		return model.BonusMetrics{}, err
	}
	return metrics, nil
}

// Bonus 门店所有员工的积分汇总
func (s *Service) Bonus(ctx context.Context, outlet string) (map[string]model.BonusMetrics, error) {
	all := make(map[string]model.BonusMetrics)
	if _, err := s.getJSON(ctx, bonusKey(outlet), &all); err != nil {
		return nil, err
	}
	return all, nil
}
