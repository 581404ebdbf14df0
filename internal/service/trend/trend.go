package trend

import (
	"math"
	"sort"
	"time"

	"github.com/ailtstruongson-maker/reportbi/internal/model"
)

// DefaultThreshold 低于该变化幅度（百分比）的波动不提示
const DefaultThreshold = 10.0

// thresholdEpsilon 浮点误差容差，恰好达到阈值的变化（如 3.3 对 3）仍提示
const thresholdEpsilon = 1e-9

// Totals 每个实体在所有口径、所有项目上的合计
type Totals struct {
	Order  []string
	Values map[string]float64
}

// TotalsOf 按原始标识汇总，无数据按 0 计；顺序为首次出现顺序
func TotalsOf(data model.CompetitionData) Totals {
	t := Totals{Values: make(map[string]float64)}
	for _, c := range model.Criteria {
		for _, r := range data[c].Records {
			if _, ok := t.Values[r.SourceName]; !ok {
				t.Order = append(t.Order, r.SourceName)
			}
			t.Values[r.SourceName] += r.Total()
		}
	}
	return t
}

// Compare 对比当前与历史合计，只输出超过阈值的变化
// 历史中缺失或为 0 而当前为正时，视为无上限增长
func Compare(current, previous Totals, threshold float64) []model.SnapshotComparison {
	out := make([]model.SnapshotComparison, 0)
	for _, name := range current.Order {
		cur := current.Values[name]
		prev, existed := previous.Values[name]

		switch {
		case (!existed || prev == 0) && cur > 0:
			out = append(out, model.SnapshotComparison{
				EntityName:    name,
				CurrentTotal:  cur,
				PreviousTotal: prev,
				ChangePercent: math.Inf(1),
				Direction:     model.DirectionUp,
				Unbounded:     true,
			})
		case existed && prev > 0:
			change := (cur - prev) * 100 / prev
			if math.Abs(change) < threshold-thresholdEpsilon {
				continue
			}
			dir := model.DirectionUp
			if change < 0 {
				dir = model.DirectionDown
			}
			out = append(out, model.SnapshotComparison{
				EntityName:    name,
				CurrentTotal:  cur,
				PreviousTotal: prev,
				ChangePercent: change,
				Direction:     dir,
			})
		}
	}
	return out
}

// CompareCompetition 两份竞赛数据的变化
func CompareCompetition(current, previous model.CompetitionData, threshold float64) []model.SnapshotComparison {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return Compare(TotalsOf(current), TotalsOf(previous), threshold)
}

// Sample 一次数据采样（当前数据或历史快照）
type Sample struct {
	Label string
	Date  time.Time
	Data  model.CompetitionData
}

// Series 某个实体的合计随时间变化，按日期升序
func Series(entity string, samples []Sample) []model.TrendPoint {
	points := make([]model.TrendPoint, 0, len(samples))
	for _, s := range samples {
		points = append(points, model.TrendPoint{
			Label: s.Label,
			Date:  s.Date,
			Total: TotalsOf(s.Data).Values[entity],
		})
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return points
}
