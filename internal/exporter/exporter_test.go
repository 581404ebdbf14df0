package exporter

import (
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ailtstruongson-maker/reportbi/internal/model"
)

func fp(v float64) *float64 { return &v }

func sampleWorkbook() Workbook {
	return Workbook{
		Outlet: "ST Quận 1",
		Date:   time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC),
		Revenue: []model.RevenueRecord{
			{Kind: model.KindGroup, DisplayName: "BP Điện thoại", CumulativeRevenue: 3000, AdjustedRevenue: 3600, EfficiencyRatio: 0.2},
			{Kind: model.KindMember, DisplayName: "101 - V.An", SourceName: "Nguyễn Văn An - 101", GroupName: "BP Điện thoại", CumulativeRevenue: 3000, AdjustedRevenue: 3600, EfficiencyRatio: 0.2},
			{Kind: model.KindTotal, DisplayName: "Tổng", CumulativeRevenue: 3000, AdjustedRevenue: 3600, EfficiencyRatio: 0.2},
		},
		Plan: model.RevenuePlan{
			Outlet:     "ST Quận 1",
			Adjustment: model.TargetAdjustment{Baseline: fp(8000), MultiplierPercent: 120},
			Effective:  fp(9600),
			Departments: []model.EntityTarget{
				{Name: "BP Điện thoại", Weight: 100, MemberCount: 1, Monthly: fp(9600), Daily: fp(320), PerMember: fp(9600), PerMemberDaily: fp(320)},
			},
		},
		Programs: []model.ProgramTarget{
			{Program: model.Program{Name: "Thi đua Vivo", Criterion: model.CriterionDTLK}, Adjustment: model.TargetAdjustment{Baseline: fp(3000), MultiplierPercent: 100}, Effective: fp(3000), Daily: fp(100)},
			{Program: model.Program{Name: "HOMECREDIT", Criterion: model.CriterionSLLK}, Adjustment: model.TargetAdjustment{MultiplierPercent: 100}},
		},
	}
}

func TestExport_Sheets(t *testing.T) {
	var stages []string
	f, err := NewExporter().Export(sampleWorkbook(), func(e ProgressEvent) { stages = append(stages, e.Stage) })
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	defer f.Close()

	got := f.GetSheetList()
	want := []string{SheetRevenue, SheetTargets, SheetPrograms}
	if len(got) != len(want) {
		t.Fatalf("sheets = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sheets = %v, want %v", got, want)
		}
	}
	if stages[len(stages)-1] != "done" {
		t.Errorf("last stage = %s", stages[len(stages)-1])
	}

	assertCell(t, f, SheetRevenue, "A3", "101 - V.An")
	assertCell(t, f, SheetRevenue, "B3", "BP Điện thoại")
	assertCell(t, f, SheetRevenue, "B2", "")
	assertCell(t, f, SheetRevenue, "E4", "20")
	assertCell(t, f, SheetTargets, "B2", "10/04/2024")
	assertCell(t, f, SheetTargets, "B5", "9600")
	assertCell(t, f, SheetTargets, "A10", "BP Điện thoại")
	assertCell(t, f, SheetPrograms, "A3", "HOMECREDIT")
	assertCell(t, f, SheetPrograms, "E3", "")
	assertCell(t, f, SheetPrograms, "E2", "3000")
}

func TestExport_EmployeesSheet(t *testing.T) {
	data := sampleWorkbook()
	data.Members = []model.MemberProgramTarget{
		{Program: "Thi đua Vivo", SourceName: "Nguyễn Văn An - 101", GroupName: "BP Điện thoại", Target: 2999.6},
	}
	f, err := NewExporter().Export(data, nil)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	defer f.Close()

	if idx, _ := f.GetSheetIndex(SheetEmployees); idx < 0 {
		t.Fatal("Employees sheet missing")
	}
	assertCell(t, f, SheetEmployees, "D2", "3000")
}

func TestRoundHalfUp(t *testing.T) {
	tests := []struct {
		v      float64
		digits int
		want   float64
	}{
		{2.5, 0, 3},
		{-2.5, 0, -3},
		{1.005, 1, 1},
	}
	for _, tt := range tests {
		if got := roundHalfUp(tt.v, tt.digits); got != tt.want {
			t.Errorf("roundHalfUp(%v, %d) = %v, want %v", tt.v, tt.digits, got, tt.want)
		}
	}
}

func assertCell(t *testing.T, f *excelize.File, sheet, cell, want string) {
	t.Helper()
	got, err := f.GetCellValue(sheet, cell)
	if err != nil {
		t.Fatalf("GetCellValue(%s!%s): %v", sheet, cell, err)
	}
	if got != want {
		t.Errorf("%s!%s = %q, want %q", sheet, cell, got, want)
	}
}
