package parser

import (
	"errors"
	"strings"
	"time"

	"github.com/ailtstruongson-maker/reportbi/internal/model"
)

const bonusTotalLabel = "Tổng cộng"

var (
	ErrBonusTotalMissing = errors.New("bonus sheet: total row not found")
	ErrBonusDatesMissing = errors.New("bonus sheet: no dated rows")
)

// ParseBonusSheet 解析员工积分明细
// "Tổng cộng" 行第 2-4 列为累计积分、退货积分、即时奖励；dd/mm/yyyy 开头的行计为已过天数
func ParseBonusSheet(text string) (model.BonusMetrics, error) {
	var (
		total    []string
		dates    []string
		hasTotal bool
	)
	for _, line := range SplitLines(text) {
		trimmed := strings.TrimSpace(line)
		if !hasTotal && strings.HasPrefix(trimmed, bonusTotalLabel) {
			total = SplitFields(trimmed)
			hasTotal = true
			continue
		}
		if dateRowRe.MatchString(trimmed) {
			dates = append(dates, trimmed[:10])
		}
	}
	if !hasTotal {
		return model.BonusMetrics{}, ErrBonusTotalMissing
	}
	if len(dates) == 0 {
		return model.BonusMetrics{}, ErrBonusDatesMissing
	}

	first, err := time.Parse("02/01/2006", dates[0])
	if err != nil {
		return model.BonusMetrics{}, err
	}

	m := model.BonusMetrics{
		PointsEarned:   ParseNumber(field(total, 1)),
		PointsReturned: ParseNumber(field(total, 2)),
		SpotBonus:      ParseNumber(field(total, 3)),
		DaysPassed:     len(dates),
		DaysInMonth:    DaysInMonth(first),
	}
	m.ERP = m.PointsEarned - m.PointsReturned
	m.Total = m.ERP + m.SpotBonus
	m.Projected = m.Total / float64(m.DaysPassed) * float64(m.DaysInMonth)
	if m.ERP > 0 {
		m.SpotSharePercent = m.SpotBonus / m.ERP * 100
	}
	return m, nil
}

// DaysInMonth 日期所在自然月的天数
func DaysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
