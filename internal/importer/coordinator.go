package importer

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ailtstruongson-maker/reportbi/internal/model"
)

// Board 接收导入报表的一方
type Board interface {
	Recognize(text string) model.Recognition
	PutReport(ctx context.Context, outlet string, kind model.ReportKind, text string) (model.Recognition, error)
}

// ImportLogger 导入记录
type ImportLogger interface {
	CreateImportLog(ctx context.Context, filename, outlet string) (int64, error)
	FinishImportLog(ctx context.Context, id int64, kind, sheet string, totalRows int, status, errorMessage string) error
}

// Coordinator 导入协调器
type Coordinator struct {
	board Board
	logs  ImportLogger
	log   *zap.Logger
}

// NewCoordinator 创建导入协调器；logs 可为 nil
func NewCoordinator(board Board, logs ImportLogger, log *zap.Logger) *Coordinator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Coordinator{board: board, logs: logs, log: log}
}

// ImportOptions 导入选项
type ImportOptions struct {
	Filename string
	Reader   io.Reader
	Outlet   string
	Sheet    string           // 只导入该工作表
	Kind     model.ReportKind // 指定类型，跳过识别；只对单个工作表生效
}

// 进度事件类型
const (
	EventStart      = "start"
	EventInfo       = "info"
	EventSheetStart = "sheet_start"
	EventSheetDone  = "sheet_done"
	EventDone       = "done"
	EventError      = "error"
)

// ProgressEvent 进度事件
type ProgressEvent struct {
	Type      string      `json:"type"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// SheetResult 单个工作表的导入结果
type SheetResult struct {
	SheetName  string           `json:"sheetName"`
	Kind       model.ReportKind `json:"kind"`
	Confidence float64          `json:"confidence"`
	Rows       int              `json:"rows"`
	Status     string           `json:"status"` // imported/skipped/error
	Message    string           `json:"message,omitempty"`
}

// Report 导入汇总
type Report struct {
	Filename string        `json:"filename"`
	Outlet   string        `json:"outlet"`
	Sheets   []SheetResult `json:"sheets"`
	Imported int           `json:"imported"`
	Duration time.Duration `json:"duration"`
}

// Import 执行导入，返回进度通道；最后一个事件为 done（Data 为 *Report）或 error
func (c *Coordinator) Import(ctx context.Context, opts ImportOptions) <-chan ProgressEvent {
	progressChan := make(chan ProgressEvent, 100)

	go func() {
		defer close(progressChan)
		c.doImport(ctx, opts, progressChan)
	}()

	return progressChan
}

// Run 同步导入
func (c *Coordinator) Run(ctx context.Context, opts ImportOptions) (*Report, error) {
	var (
		report *Report
		errMsg string
	)
	for evt := range c.Import(ctx, opts) {
		switch evt.Type {
		case EventDone:
			report, _ = evt.Data.(*Report)
		case EventError:
			errMsg = evt.Message
		}
	}
	if report == nil {
		if errMsg == "" {
			errMsg = "import aborted"
		}
		return nil, fmt.Errorf("%s", errMsg)
	}
	return report, nil
}

func (c *Coordinator) doImport(ctx context.Context, opts ImportOptions, progressChan chan ProgressEvent) {
	startTime := time.Now()
	report := &Report{Filename: opts.Filename, Outlet: opts.Outlet, Sheets: []SheetResult{}}

	c.sendProgress(progressChan, ProgressEvent{
		Type:    EventStart,
		Message: "开始导入 Excel 文件",
		Data:    map[string]string{"filename": opts.Filename},
	})

	logID := c.startLog(ctx, opts)

	file, err := OpenWorkbook(opts.Reader)
	if err != nil {
		c.fail(ctx, progressChan, logID, err)
		return
	}
	defer file.Close()

	sheets, err := ReadSheets(file, opts.Sheet)
	if err != nil {
		c.fail(ctx, progressChan, logID, err)
		return
	}

	c.sendProgress(progressChan, ProgressEvent{
		Type:    EventInfo,
		Message: fmt.Sprintf("发现 %d 个 Sheet", len(sheets)),
		Data:    map[string]interface{}{"total_sheets": len(sheets)},
	})

	imported := make(map[model.ReportKind]bool)
	for _, sheet := range sheets {
		if err := ctx.Err(); err != nil {
			c.fail(ctx, progressChan, logID, err)
			return
		}
		result := c.processSheet(ctx, sheet, opts, len(sheets) == 1, imported, progressChan)
		report.Sheets = append(report.Sheets, result)
		if result.Status == "imported" {
			report.Imported++
		}
	}

	report.Duration = time.Since(startTime)
	c.finishLog(ctx, logID, report)

	c.log.Info("xlsx imported",
		zap.String("file", opts.Filename),
		zap.String("outlet", opts.Outlet),
		zap.Int("sheets", len(report.Sheets)),
		zap.Int("imported", report.Imported),
	)
	c.sendProgress(progressChan, ProgressEvent{
		Type:    EventDone,
		Message: "导入完成",
		Data:    report,
	})
}

// processSheet 处理单个工作表：识别类型后写入看板，同类型只取第一个工作表
func (c *Coordinator) processSheet(ctx context.Context, sheet Sheet, opts ImportOptions, single bool, imported map[model.ReportKind]bool, progressChan chan ProgressEvent) SheetResult {
	c.sendProgress(progressChan, ProgressEvent{
		Type:    EventSheetStart,
		Message: fmt.Sprintf("正在解析 Sheet: %s", sheet.Name),
		Data:    map[string]string{"sheet_name": sheet.Name},
	})

	result := SheetResult{SheetName: sheet.Name, Rows: sheet.Rows}
	if opts.Kind != "" && single {
		result.Kind, result.Confidence = opts.Kind, 1
	} else {
		rec := c.board.Recognize(sheet.Text)
		result.Kind, result.Confidence = rec.Kind, rec.Confidence
	}

	switch {
	case sheet.Rows == 0:
		result.Status, result.Message = "skipped", "empty sheet"
	case result.Kind == model.ReportUnknown || !result.Kind.Valid():
		result.Status, result.Message = "skipped", "unrecognized"
	case imported[result.Kind]:
		result.Status, result.Message = "skipped", "duplicate report kind"
	default:
		if _, err := c.board.PutReport(ctx, opts.Outlet, result.Kind, sheet.Text); err != nil {
			result.Status, result.Message = "error", err.Error()
		} else {
			result.Status = "imported"
			imported[result.Kind] = true
		}
	}

	c.sendProgress(progressChan, ProgressEvent{
		Type:    EventSheetDone,
		Message: fmt.Sprintf("Sheet \"%s\" 识别为: %s (置信度: %.2f)", sheet.Name, result.Kind, result.Confidence),
		Data:    result,
	})
	return result
}

func (c *Coordinator) startLog(ctx context.Context, opts ImportOptions) int64 {
	if c.logs == nil {
		return 0
	}
	id, err := c.logs.CreateImportLog(ctx, opts.Filename, opts.Outlet)
	if err != nil {
		c.log.Warn("create import log failed", zap.Error(err))
		return 0
	}
	return id
}

func (c *Coordinator) finishLog(ctx context.Context, id int64, report *Report) {
	if c.logs == nil || id == 0 {
		return
	}
	var kinds, sheets, errs []string
	rows := 0
	for _, s := range report.Sheets {
		switch s.Status {
		case "imported":
			kinds = append(kinds, string(s.Kind))
			sheets = append(sheets, s.SheetName)
			rows += s.Rows
		case "error":
			errs = append(errs, s.SheetName+": "+s.Message)
		}
	}
	status := "success"
	switch {
	case report.Imported == 0:
		status = "failed"
	case len(errs) > 0:
		status = "partial"
	}
	err := c.logs.FinishImportLog(ctx, id, strings.Join(kinds, ","), strings.Join(sheets, ","), rows, status, strings.Join(errs, "; "))
	if err != nil {
		c.log.Warn("finish import log failed", zap.Int64("id", id), zap.Error(err))
	}
}

func (c *Coordinator) fail(ctx context.Context, progressChan chan ProgressEvent, logID int64, err error) {
	if c.logs != nil && logID != 0 {
		if ferr := c.logs.FinishImportLog(ctx, logID, "", "", 0, "failed", err.Error()); ferr != nil {
			c.log.Warn("finish import log failed", zap.Int64("id", logID), zap.Error(ferr))
		}
	}
	c.sendProgress(progressChan, ProgressEvent{
		Type:    EventError,
		Message: fmt.Sprintf("导入失败: %v", err),
	})
}

// sendProgress 发送进度事件
func (c *Coordinator) sendProgress(ch chan ProgressEvent, event ProgressEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.Type == EventDone || event.Type == EventError {
		ch <- event
		return
	}
	select {
	case ch <- event:
	default:
		// 通道已满，丢弃事件
	}
}
