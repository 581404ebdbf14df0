package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ailtstruongson-maker/reportbi/internal/store"
)

// FormatVersion 备份文件格式版本
const FormatVersion = 1

const (
	filePrefix        = "backup-"
	fileExt           = ".json"
	saveDebounceDelay = 2 * time.Second
)

var ErrInvalidBackup = errors.New("invalid backup")

// Store 可整体导出与恢复的键值存储
type Store interface {
	List(ctx context.Context, prefix string) ([]store.Entry, error)
	ReplaceAll(ctx context.Context, entries []store.Entry) error
}

// Entry 备份中的一条记录，值为原样保存的 JSON
type Entry struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

// Document 备份文件内容
type Document struct {
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	Data      []Entry   `json:"data"`
}

// FileInfo 备份文件概要
type FileInfo struct {
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"modTime"`
}

// Manager 备份管理：导出、恢复、备份目录下的文件
type Manager struct {
	kv  Store
	dir string
	log *zap.Logger
	now func() time.Time

	mu        sync.Mutex
	saveTimer *time.Timer
}

// NewManager 创建备份管理器，dir 为备份目录
func NewManager(kv Store, dir string, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{kv: kv, dir: dir, log: log, now: time.Now}
}

// Dump 导出全部数据
func (m *Manager) Dump(ctx context.Context) (Document, error) {
	entries, err := m.kv.List(ctx, "")
	if err != nil {
		return Document{}, err
	}
	doc := Document{
		Version:   FormatVersion,
		CreatedAt: m.now().UTC(),
		Data:      make([]Entry, 0, len(entries)),
	}
	for _, e := range entries {
		doc.Data = append(doc.Data, Entry{Key: e.Key, Value: json.RawMessage(e.Value)})
	}
	return doc, nil
}

// Decode 解析备份内容，兼容旧版的纯数组格式
func Decode(data []byte) (Document, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return Document{}, fmt.Errorf("empty backup: %w", ErrInvalidBackup)
	}

	var doc Document
	if data[0] == '[' {
		if err := json.Unmarshal(data, &doc.Data); err != nil {
			return Document{}, fmt.Errorf("%w: %w", ErrInvalidBackup, err)
		}
		doc.Version = FormatVersion
	} else {
		if err := json.Unmarshal(data, &doc); err != nil {
			return Document{}, fmt.Errorf("%w: %w", ErrInvalidBackup, err)
		}
		if doc.Data == nil {
			return Document{}, fmt.Errorf("missing data: %w", ErrInvalidBackup)
		}
	}
	if doc.Version > FormatVersion {
		return Document{}, fmt.Errorf("unsupported version %d: %w", doc.Version, ErrInvalidBackup)
	}
	if err := validate(doc.Data); err != nil {
		return Document{}, err
	}
	return doc, nil
}

func validate(entries []Entry) error {
	for i, e := range entries {
		if strings.TrimSpace(e.Key) == "" {
			return fmt.Errorf("entry %d has empty key: %w", i, ErrInvalidBackup)
		}
		if !json.Valid(e.Value) {
			return fmt.Errorf("entry %q has invalid value: %w", e.Key, ErrInvalidBackup)
		}
	}
	return nil
}

// Restore 用备份中的全部记录整体替换存储，返回写入条数
// 校验或写入失败时存储保持原样
func (m *Manager) Restore(ctx context.Context, doc Document) (int, error) {
	if err := validate(doc.Data); err != nil {
		return 0, err
	}
	entries := make([]store.Entry, 0, len(doc.Data))
	for _, e := range doc.Data {
		entries = append(entries, store.Entry{Key: e.Key, Value: []byte(e.Value)})
	}
	if err := m.kv.ReplaceAll(ctx, entries); err != nil {
		return 0, fmt.Errorf("restore: %w", err)
	}
	m.log.Info("backup restored", zap.Int("entries", len(doc.Data)))
	return len(doc.Data), nil
}

// SaveFile 导出到备份目录，返回文件路径
func (m *Manager) SaveFile(ctx context.Context) (string, error) {
	doc, err := m.Dump(ctx)
	if err != nil {
		return "", err
	}
	name := filePrefix + doc.CreatedAt.Format("20060102-150405.000") + fileExt
	path := filepath.Join(m.dir, name)
	if err := writeJSONAtomic(path, doc); err != nil {
		return "", err
	}
	m.log.Info("backup saved", zap.String("path", path), zap.Int("entries", len(doc.Data)))
	return path, nil
}

// RestoreFile 从备份目录中的文件恢复
func (m *Manager) RestoreFile(ctx context.Context, name string) (int, error) {
	if name != filepath.Base(name) || !strings.HasSuffix(name, fileExt) {
		return 0, fmt.Errorf("bad backup file name %q: %w", name, ErrInvalidBackup)
	}
	var raw json.RawMessage
	if err := readJSON(filepath.Join(m.dir, name), &raw); err != nil {
		return 0, err
	}
	doc, err := Decode(raw)
	if err != nil {
		return 0, err
	}
	return m.Restore(ctx, doc)
}

// ListFiles 备份文件列表，最新的在前
func (m *Manager) ListFiles() ([]FileInfo, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []FileInfo{}, nil
		}
		return nil, err
	}
	files := make([]FileInfo, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), filePrefix) || !strings.HasSuffix(e.Name(), fileExt) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{Name: e.Name(), Size: info.Size(), ModTime: info.ModTime()})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name > files[j].Name })
	return files, nil
}

// ScheduleSave 数据变更后延迟写入备份，连续变更只保存一次
func (m *Manager) ScheduleSave() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}
	m.saveTimer = time.AfterFunc(saveDebounceDelay, func() {
		if _, err := m.SaveFile(context.Background()); err != nil {
			m.log.Warn("auto backup failed", zap.Error(err))
		}
	})
}

// Close 取消尚未执行的自动备份，返回是否有被取消的保存
func (m *Manager) Close() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveTimer == nil {
		return false
	}
	pending := m.saveTimer.Stop()
	m.saveTimer = nil
	return pending
}
