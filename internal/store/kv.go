package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// Get 读取键值，不存在时返回 ErrNotFound
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	query, args, err := builder().Select("value").From("kv").Where(sq.Eq{"key": key}).ToSql()
	if err != nil {
		return nil, err
	}

	var value []byte
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, nil
}

// Set 写入键值（存在则覆盖）
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	query, args, err := builder().
		Insert("kv").
		Columns("key", "value", "updated_at").
		Values(key, value, sq.Expr("CURRENT_TIMESTAMP")).
		Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP").
		ToSql()
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// Delete 删除键，不存在时忽略
func (s *Store) Delete(ctx context.Context, key string) error {
	query, args, err := builder().Delete("kv").Where(sq.Eq{"key": key}).ToSql()
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// List 按键排序列出指定前缀下的记录，前缀为空时返回全部
func (s *Store) List(ctx context.Context, prefix string) ([]Entry, error) {
	qb := builder().Select("key", "value").From("kv").OrderBy("key")
	if prefix != "" {
		qb = qb.Where(sq.Expr("substr(key, 1, length(?)) = ?", prefix, prefix))
	}
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list %q: %w", prefix, err)
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Key, &e.Value); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Clear 清空所有键值
func (s *Store) Clear(ctx context.Context) error {
	query, args, err := builder().Delete("kv").ToSql()
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, query, args...)
	return err
}

// ReplaceAll 在一个事务内清空 kv 并写入 entries，任一写入失败时整体回滚
func (s *Store) ReplaceAll(ctx context.Context, entries []Entry) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, "DELETE FROM kv"); err != nil {
		return fmt.Errorf("failed to clear kv: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP) "+
			"ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err = stmt.ExecContext(ctx, e.Key, e.Value); err != nil {
			return fmt.Errorf("failed to set %s: %w", e.Key, err)
		}
	}
	return tx.Commit()
}
