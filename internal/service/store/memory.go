package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	kvstore "github.com/ailtstruongson-maker/reportbi/internal/store"
)

// MemoryStore 内存键值存储，与 SQLite 存储接口一致
type MemoryStore struct {
	data map[string][]byte
	mu   sync.RWMutex
}

// NewMemoryStore 创建内存存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

// Get 读取键值
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	if !ok {
		return nil, fmt.Errorf("%s: %w", key, kvstore.ErrNotFound)
	}
	return append([]byte(nil), v...), nil
}

// Set 写入键值
func (s *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = append([]byte(nil), value...)
	return nil
}

// Delete 删除键
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	return nil
}

// List 按键排序列出前缀下的记录
func (s *MemoryStore) List(_ context.Context, prefix string) ([]kvstore.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]kvstore.Entry, 0)
	for k, v := range s.data {
		if strings.HasPrefix(k, prefix) {
			entries = append(entries, kvstore.Entry{Key: k, Value: append([]byte(nil), v...)})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return entries, nil
}

// Clear 清空
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = make(map[string][]byte)
	return nil
}

// ReplaceAll 整体替换全部键值
func (s *MemoryStore) ReplaceAll(_ context.Context, entries []kvstore.Entry) error {
	data := make(map[string][]byte, len(entries))
	for _, e := range entries {
		data[e.Key] = append([]byte(nil), e.Value...)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
	return nil
}

// Count 键数量
func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
