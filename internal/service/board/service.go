package board

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ailtstruongson-maker/reportbi/internal/model"
	"github.com/ailtstruongson-maker/reportbi/internal/parser"
	"github.com/ailtstruongson-maker/reportbi/internal/store"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)

// KV 键值存储
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) ([]store.Entry, error)
}

// Defaults 目标设置的默认值
type Defaults struct {
	MultiplierPercent  float64
	InstallmentPercent float64
	ConversionPercent  float64
}

// Options 服务参数
type Options struct {
	Labels          parser.Labels
	Defaults        Defaults
	TrendThreshold  float64
	SnapshotWorkers int
	Now             func() time.Time
}

// DefaultOptions 默认参数
func DefaultOptions() Options {
	return Options{
		Labels: parser.DefaultLabels(),
		Defaults: Defaults{
			MultiplierPercent:  100,
			InstallmentPercent: 45,
			ConversionPercent:  40,
		},
		TrendThreshold:  10,
		SnapshotWorkers: 4,
		Now:             time.Now,
	}
}

// Service 门店看板服务：保存粘贴的报表并计算派生数据
type Service struct {
	kv   KV
	log  *zap.Logger
	opts Options

	revenue     *parser.RevenueParser
	competition *parser.CompetitionParser
	recognizer  *parser.ReportRecognizer

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New 创建服务
func New(kv KV, log *zap.Logger, opts Options) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	d := DefaultOptions()
	if opts.Now == nil {
		opts.Now = d.Now
	}
	if opts.SnapshotWorkers <= 0 {
		opts.SnapshotWorkers = d.SnapshotWorkers
	}
	if opts.TrendThreshold <= 0 {
		opts.TrendThreshold = d.TrendThreshold
	}
	if opts.Defaults == (Defaults{}) {
		opts.Defaults = d.Defaults
	}
	return &Service{
		kv:          kv,
		log:         log,
		opts:        opts,
		revenue:     parser.NewRevenueParser(opts.Labels),
		competition: parser.NewCompetitionParser(opts.Labels),
		recognizer:  parser.NewReportRecognizer(opts.Labels),
		locks:       make(map[string]*sync.Mutex),
	}
}

// Recognize 识别报表类型
func (s *Service) Recognize(text string) model.Recognition {
	return s.recognizer.Recognize(text)
}

// Labels 当前使用的标签
func (s *Service) Labels() parser.Labels {
	return s.opts.Labels
}

// lock 同一门店的写操作串行执行
func (s *Service) lock(outlet string) func() {
	s.mu.Lock()
	l, ok := s.locks[outlet]
	if !ok {
		l = &sync.Mutex{}
		s.locks[outlet] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

func requireOutlet(outlet string) (string, error) {
	outlet = strings.TrimSpace(outlet)
	if outlet == "" {
		return "", fmt.Errorf("outlet is required: %w", ErrInvalidInput)
	}
	return outlet, nil
}

// getJSON 读取并解码；键不存在时返回 false
func (s *Service) getJSON(ctx context.Context, key string, out any) (bool, error) {
	data, err := s.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (s *Service) putJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.kv.Set(ctx, key, data)
}
