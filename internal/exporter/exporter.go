package exporter

import (
	"fmt"
	"math"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ailtstruongson-maker/reportbi/internal/model"
)

// 工作表名称
const (
	SheetRevenue   = "Revenue"
	SheetTargets   = "Targets"
	SheetPrograms  = "Programs"
	SheetEmployees = "Employees"
)

// Workbook 导出内容
type Workbook struct {
	Outlet   string
	Date     time.Time
	Revenue  []model.RevenueRecord
	Plan     model.RevenuePlan
	Programs []model.ProgramTarget
	Members  []model.MemberProgramTarget
}

// ProgressEvent 导出进度事件（用于 UI 展示）
type ProgressEvent struct {
	Percent int
	Stage   string
}

type sheetStep struct {
	stage string
	fill  func(f *excelize.File, data Workbook, headerStyle int) error
}

// Exporter 门店目标工作簿导出器
type Exporter struct{}

// NewExporter 创建导出器
func NewExporter() *Exporter {
	return &Exporter{}
}

// Export 生成工作簿；员工项目目标为空时不生成 Employees 表
func (e *Exporter) Export(data Workbook, progress func(ProgressEvent)) (*excelize.File, error) {
	f := excelize.NewFile()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	steps := []sheetStep{
		{"revenue", fillRevenueSheet},
		{"targets", fillTargetsSheet},
		{"programs", fillProgramsSheet},
	}
	if len(data.Members) > 0 {
		steps = append(steps, sheetStep{"employees", fillEmployeesSheet})
	}

	if err := f.SetSheetName("Sheet1", SheetRevenue); err != nil {
		_ = f.Close()
		return nil, err
	}
	for i, step := range steps {
		reportProgress(progress, i*100/len(steps), step.stage)
		if err := step.fill(f, data, headerStyle); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("写入 %s 失败: %w", step.stage, err)
		}
	}
	reportProgress(progress, 100, "done")

	f.SetActiveSheet(0)
	return f, nil
}

func fillRevenueSheet(f *excelize.File, data Workbook, headerStyle int) error {
	rows := [][]interface{}{{"Nhân viên", "Bộ phận", "DTLK", "DTQĐ", "Hiệu quả QĐ"}}
	for _, r := range data.Revenue {
		group := r.GroupName
		if r.Kind != model.KindMember {
			group = ""
		}
		rows = append(rows, []interface{}{
			r.DisplayName,
			group,
			roundHalfUp(r.CumulativeRevenue, 0),
			roundHalfUp(r.AdjustedRevenue, 0),
			roundHalfUp(r.EfficiencyRatio*100, 2),
		})
	}
	if err := writeRows(f, SheetRevenue, rows, headerStyle); err != nil {
		return err
	}
	_ = f.SetColWidth(SheetRevenue, "A", "B", 28)
	return f.SetColWidth(SheetRevenue, "C", "E", 14)
}

func fillTargetsSheet(f *excelize.File, data Workbook, headerStyle int) error {
	if _, err := f.NewSheet(SheetTargets); err != nil {
		return err
	}
	plan := data.Plan
	rows := [][]interface{}{
		{"Siêu thị", data.Outlet},
		{"Ngày", data.Date.Format("02/01/2006")},
		{"Target gốc", optional(plan.Adjustment.Baseline, 0)},
		{"Hệ số (%)", plan.Adjustment.MultiplierPercent},
		{"Target", optional(plan.Effective, 0)},
		{"Trả góp (%)", plan.InstallmentPercent},
		{"Quy đổi (%)", plan.ConversionPercent},
		{},
		{"Bộ phận", "Tỷ trọng (%)", "Nhân sự", "Target tháng", "Target ngày", "Target/NV", "Target/NV ngày"},
	}
	for _, d := range plan.Departments {
		rows = append(rows, []interface{}{
			d.Name,
			roundHalfUp(d.Weight, 2),
			d.MemberCount,
			optional(d.Monthly, 0),
			optional(d.Daily, 0),
			optional(d.PerMember, 0),
			optional(d.PerMemberDaily, 0),
		})
	}
	if err := writeRows(f, SheetTargets, rows, 0); err != nil {
		return err
	}
	if err := f.SetRowStyle(SheetTargets, 9, 9, headerStyle); err != nil {
		return err
	}
	return f.SetColWidth(SheetTargets, "A", "G", 18)
}

func fillProgramsSheet(f *excelize.File, data Workbook, headerStyle int) error {
	if _, err := f.NewSheet(SheetPrograms); err != nil {
		return err
	}
	rows := [][]interface{}{{"Chương trình", "Chỉ tiêu", "Target gốc", "Hệ số (%)", "Target", "Target ngày"}}
	for _, p := range data.Programs {
		rows = append(rows, []interface{}{
			p.Program.Name,
			string(p.Program.Criterion),
			optional(p.Adjustment.Baseline, 0),
			p.Adjustment.MultiplierPercent,
			optional(p.Effective, 0),
			optional(p.Daily, 0),
		})
	}
	if err := writeRows(f, SheetPrograms, rows, headerStyle); err != nil {
		return err
	}
	_ = f.SetColWidth(SheetPrograms, "A", "A", 36)
	return f.SetColWidth(SheetPrograms, "B", "F", 14)
}

func fillEmployeesSheet(f *excelize.File, data Workbook, headerStyle int) error {
	if _, err := f.NewSheet(SheetEmployees); err != nil {
		return err
	}
	rows := [][]interface{}{{"Chương trình", "Nhân viên", "Bộ phận", "Target"}}
	for _, m := range data.Members {
		rows = append(rows, []interface{}{m.Program, m.SourceName, m.GroupName, roundHalfUp(m.Target, 0)})
	}
	if err := writeRows(f, SheetEmployees, rows, headerStyle); err != nil {
		return err
	}
	return f.SetColWidth(SheetEmployees, "A", "C", 28)
}

func reportProgress(progress func(ProgressEvent), percent int, stage string) {
	if progress != nil {
		progress(ProgressEvent{Percent: max(0, min(100, percent)), Stage: stage})
	}
}

// writeRows 从 A1 开始逐行写入；headerStyle 非 0 时应用到首行
func writeRows(f *excelize.File, sheet string, rows [][]interface{}, headerStyle int) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	if headerStyle != 0 {
		return f.SetRowStyle(sheet, 1, 1, headerStyle)
	}
	return nil
}

// optional nil 写为空单元格
func optional(v *float64, digits int) interface{} {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return ""
	}
	return roundHalfUp(*v, digits)
}

func roundHalfUp(v float64, digits int) float64 {
	if digits < 0 {
		return v
	}
	scale := math.Pow10(digits)
	x := v * scale
	if x >= 0 {
		return math.Floor(x+0.5) / scale
	}
	return -math.Floor(-x+0.5) / scale
}
