package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ailtstruongson-maker/reportbi/internal/model"
)

func TestRevenueParser_Scenario(t *testing.T) {
	t.Parallel()

	text := "BP Sales\t1000\t1200\t0.2\n" +
		"Alice - E001\t600\t700\t0.166\n" +
		"Bob - E002\t400\t500\t0.25\n" +
		"Tổng\t1000\t1200\t0.2\n"

	got := NewRevenueParser(DefaultLabels()).Parse(text)
	want := []model.RevenueRecord{
		{Kind: model.KindGroup, DisplayName: "BP Sales", CumulativeRevenue: 1000, AdjustedRevenue: 1200, EfficiencyRatio: 0.2},
		{Kind: model.KindMember, DisplayName: "E001 - Alice", SourceName: "Alice - E001", GroupName: "BP Sales", CumulativeRevenue: 600, AdjustedRevenue: 700, EfficiencyRatio: 0.166},
		{Kind: model.KindMember, DisplayName: "E002 - Bob", SourceName: "Bob - E002", GroupName: "BP Sales", CumulativeRevenue: 400, AdjustedRevenue: 500, EfficiencyRatio: 0.25},
		{Kind: model.KindTotal, DisplayName: "Tổng", CumulativeRevenue: 1000, AdjustedRevenue: 1200, EfficiencyRatio: 0.2},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestRevenueParser_RoundTripGrouping(t *testing.T) {
	t.Parallel()

	text := "Tổng\t3,000\t3,600\t20%\n" +
		"BP Điện thoại\t2,000\t2,400\n" +
		"An - 1\t1,000\t1,200\n" +
		"Bình - 2\t1,000\t1,200\n" +
		"BP Gia dụng\t1,000\t1,200\n" +
		"Chi - 3\t500\t600\n" +
		"Dũng - 4\t300\t360\n" +
		"Em - 5\t200\t240\n"

	recs := NewRevenueParser(DefaultLabels()).Parse(text)

	counts := map[model.RecordKind]int{}
	lastGroup := ""
	for _, r := range recs {
		counts[r.Kind]++
		switch r.Kind {
		case model.KindGroup:
			lastGroup = r.DisplayName
		case model.KindMember:
			assert.Equal(t, lastGroup, r.GroupName, "member %s", r.SourceName)
		}
	}
	assert.Equal(t, 1, counts[model.KindTotal])
	assert.Equal(t, 2, counts[model.KindGroup])
	assert.Equal(t, 5, counts[model.KindMember])

	require.Equal(t, model.KindTotal, recs[0].Kind)
	assert.Equal(t, 3000.0, recs[0].CumulativeRevenue)
	assert.Equal(t, 20.0, recs[0].EfficiencyRatio)
	// 缺少效率列时按折算/累计推算
	assert.InDelta(t, 0.2, recs[1].EfficiencyRatio, 1e-9)
}

func TestRevenueParser_DropsMembersWithoutNumbers(t *testing.T) {
	t.Parallel()

	text := "BP A\tghi chú\n" +
		"BP B\t10\t20\n" +
		"X - 1\t-\t-\t-\n" +
		"Y - 2\t5\n"
	recs := NewRevenueParser(DefaultLabels()).Parse(text)
	require.Len(t, recs, 3)
	assert.Equal(t, "BP A", recs[0].DisplayName)
	assert.Equal(t, "BP B", recs[1].DisplayName)
	assert.Equal(t, "Y - 2", recs[2].SourceName)
	assert.Equal(t, 0.0, recs[2].AdjustedRevenue)
}

func TestRevenueParser_KeepsGroupWithoutNumbers(t *testing.T) {
	t.Parallel()

	text := "BP Sales\t-\t-\t-\n" +
		"Alice - E001\t600\t700\t0.166\n" +
		"Tổng\t600\t700\t0.166"
	got := NewRevenueParser(DefaultLabels()).Parse(text)
	want := []model.RevenueRecord{
		{Kind: model.KindGroup, DisplayName: "BP Sales"},
		{Kind: model.KindMember, DisplayName: "E001 - Alice", SourceName: "Alice - E001", GroupName: "BP Sales", CumulativeRevenue: 600, AdjustedRevenue: 700, EfficiencyRatio: 0.166},
		{Kind: model.KindTotal, DisplayName: "Tổng", CumulativeRevenue: 600, AdjustedRevenue: 700, EfficiencyRatio: 0.166},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}

	groups := map[string]bool{}
	for _, r := range got {
		switch r.Kind {
		case model.KindGroup:
			groups[r.DisplayName] = true
		case model.KindMember:
			assert.True(t, groups[r.GroupName], "member %s references group %s", r.SourceName, r.GroupName)
		}
	}
}

func TestRevenueParser_KeepsFirstTotal(t *testing.T) {
	t.Parallel()

	recs := NewRevenueParser(DefaultLabels()).Parse("Tổng\t1\t1\nTổng\t2\t2")
	require.Len(t, recs, 1)
	assert.Equal(t, 1.0, recs[0].CumulativeRevenue)
}

func TestDepartmentsAndMemberGroups(t *testing.T) {
	t.Parallel()

	text := "BP Zeta\t1\nA - 1\t1\nB - 2\t1\nBP Alpha\t1\nC - 3\t1\nBP Empty\t0\t0\n"
	recs := NewRevenueParser(DefaultLabels()).Parse(text)

	depts := Departments(recs)
	want := []model.Department{{Name: "BP Alpha", MemberCount: 1}, {Name: "BP Empty", MemberCount: 0}, {Name: "BP Zeta", MemberCount: 2}}
	if diff := cmp.Diff(want, depts); diff != "" {
		t.Fatalf("departments mismatch (-want +got):\n%s", diff)
	}

	groups := MemberGroups(recs)
	assert.Equal(t, map[string]string{"A - 1": "BP Zeta", "B - 2": "BP Zeta", "C - 3": "BP Alpha"}, groups)

	members := Members(recs)
	require.Len(t, members, 3)
	assert.Equal(t, "1 - A", members[0].DisplayName)
}

func TestLowPerformerThresholds(t *testing.T) {
	t.Parallel()

	text := "BP Big\t1\n" +
		"A - 1\t10\t100\n" +
		"B - 2\t40\t400\n" +
		"C - 3\t20\t200\n" +
		"D - 4\t30\t300\n" +
		"BP Small\t1\n" +
		"E - 5\t1\t1\n"
	th := LowPerformerThresholds(NewRevenueParser(DefaultLabels()).Parse(text))
	require.Contains(t, th, "BP Big")
	assert.NotContains(t, th, "BP Small")
	// floor(4*0.3)=1 → 第二小的值
	assert.Equal(t, 20.0, th["BP Big"].Cumulative)
	assert.Equal(t, 200.0, th["BP Big"].Adjusted)
}
