package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
)

// ImportLog xlsx 导入记录
type ImportLog struct {
	ID           int64      `json:"id"`
	Filename     string     `json:"filename"`
	Outlet       string     `json:"outlet"`
	ReportKind   string     `json:"reportKind"`
	SheetName    string     `json:"sheetName"`
	TotalRows    int        `json:"totalRows"`
	Status       string     `json:"status"`
	ErrorMessage string     `json:"errorMessage,omitempty"`
	StartedAt    time.Time  `json:"startedAt"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
}

// CreateImportLog 创建导入日志，返回 id
func (s *Store) CreateImportLog(ctx context.Context, filename, outlet string) (int64, error) {
	query, args, err := builder().
		Insert("import_logs").
		Columns("filename", "outlet", "status").
		Values(filename, outlet, "processing").
		ToSql()
	if err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to create import log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get import log id: %w", err)
	}
	return id, nil
}

// FinishImportLog 完成导入日志更新
func (s *Store) FinishImportLog(ctx context.Context, id int64, kind, sheet string, totalRows int, status, errorMessage string) error {
	query, args, err := builder().
		Update("import_logs").
		Set("report_kind", kind).
		Set("sheet_name", sheet).
		Set("total_rows", totalRows).
		Set("status", status).
		Set("error_message", errorMessage).
		Set("completed_at", sq.Expr("CURRENT_TIMESTAMP")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update import log: %w", err)
	}
	return nil
}

// ListImportLogs 最近的导入日志，outlet 为空时不过滤
func (s *Store) ListImportLogs(ctx context.Context, outlet string, limit uint64) ([]ImportLog, error) {
	qb := builder().
		Select("id", "filename", "outlet", "report_kind", "sheet_name", "total_rows", "status", "error_message", "started_at", "completed_at").
		From("import_logs").
		OrderBy("id DESC")
	if outlet != "" {
		qb = qb.Where(sq.Eq{"outlet": outlet})
	}
	if limit > 0 {
		qb = qb.Limit(limit)
	}
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list import logs: %w", err)
	}
	defer rows.Close()

	logs := make([]ImportLog, 0)
	for rows.Next() {
		var (
			l         ImportLog
			completed sql.NullTime
		)
		if err := rows.Scan(&l.ID, &l.Filename, &l.Outlet, &l.ReportKind, &l.SheetName, &l.TotalRows, &l.Status, &l.ErrorMessage, &l.StartedAt, &completed); err != nil {
			return nil, err
		}
		if completed.Valid {
			t := completed.Time
			l.CompletedAt = &t
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
