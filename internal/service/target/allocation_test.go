package target

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ailtstruongson-maker/reportbi/internal/model"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}

func TestAllocateDepartments(t *testing.T) {
	t.Parallel()

	adj := Adjustment(3000, true, 100)
	weights := WeightSet{"BP A": 60, "BP B": 40}
	depts := []model.Department{{Name: "BP A", MemberCount: 3}, {Name: "BP B", MemberCount: 0}}

	got := AllocateDepartments(adj, weights, depts, mustDate(t, "2024-04-15"))
	require.Len(t, got, 2)

	a := got[0]
	require.NotNil(t, a.Monthly)
	assert.InDelta(t, 1800.0, *a.Monthly, 1e-9)
	assert.InDelta(t, 60.0, *a.Daily, 1e-9)
	assert.InDelta(t, 600.0, *a.PerMember, 1e-9)
	assert.InDelta(t, 20.0, *a.PerMemberDaily, 1e-9)

	b := got[1]
	require.NotNil(t, b.Monthly)
	assert.InDelta(t, 1200.0, *b.Monthly, 1e-9)
	assert.Nil(t, b.PerMember)
	assert.Nil(t, b.PerMemberDaily)
}

func TestDaysInMonth(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 29, DaysInMonth(mustDate(t, "2024-02-01")))
	assert.Equal(t, 28, DaysInMonth(mustDate(t, "2023-02-28")))
	assert.Equal(t, 31, DaysInMonth(mustDate(t, "2024-12-31")))
}

func TestProgramTargets(t *testing.T) {
	t.Parallel()

	programs := []model.Program{
		{Name: "Vivo", Criterion: model.CriterionDTLK},
		{Name: "HC", Criterion: model.CriterionSLLK},
	}
	got := ProgramTargets(programs, map[string]float64{"Vivo": 3000}, map[string]float64{"Vivo": 150}, mustDate(t, "2024-06-01"))
	require.Len(t, got, 2)
	require.NotNil(t, got[0].Effective)
	assert.Equal(t, 4500.0, *got[0].Effective)
	assert.Equal(t, 150.0, *got[0].Daily)
	assert.Nil(t, got[1].Effective)
	assert.Equal(t, model.DefaultMultiplierPercent, got[1].Adjustment.MultiplierPercent)
}

func TestMemberProgramTargets(t *testing.T) {
	t.Parallel()

	effective := 1000.0
	programs := []model.ProgramTarget{
		{Program: model.Program{Name: "Vivo"}, Effective: &effective},
		{Program: model.Program{Name: "HC"}},
	}
	members := []model.RevenueRecord{
		{Kind: model.KindGroup, DisplayName: "BP A"},
		{Kind: model.KindMember, SourceName: "X - 1", GroupName: "BP A"},
		{Kind: model.KindMember, SourceName: "Y - 2", GroupName: "BP A"},
		{Kind: model.KindMember, SourceName: "Z - 3", GroupName: "BP B"},
	}
	weights := WeightSet{"BP A": 100, "BP B": 0}

	got := MemberProgramTargets(programs, members, weights)
	require.Len(t, got, 3)
	// 权重：100, 100, 100/3
	total := 200 + 100.0/3
	assert.InDelta(t, 1000*100/total, got[0].Target, 1e-9)
	assert.InDelta(t, 1000*(100.0/3)/total, got[2].Target, 1e-9)

	sum := 0.0
	for _, m := range got {
		sum += m.Target
	}
	assert.InDelta(t, 1000.0, sum, 1e-9)

	assert.Empty(t, MemberProgramTargets(programs, nil, weights))
}
