package board

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/ailtstruongson-maker/reportbi/internal/model"
	"github.com/ailtstruongson-maker/reportbi/internal/parser"
)

// PutReport 保存粘贴的报表原文；空文本表示删除
// 返回识别结果，类型不符时只记录警告
func (s *Service) PutReport(ctx context.Context, outlet string, kind model.ReportKind, text string) (model.Recognition, error) {
	if !kind.Valid() {
		return model.Recognition{}, fmt.Errorf("unknown report kind %q: %w", kind, ErrInvalidInput)
	}
	if !IsGlobalReport(kind) {
		var err error
		if outlet, err = requireOutlet(outlet); err != nil {
			return model.Recognition{}, err
		}
	}

	key := reportKey(outlet, kind)
	if strings.TrimSpace(text) == "" {
		if err := s.kv.Delete(ctx, key); err != nil {
			return model.Recognition{}, err
		}
		s.log.Info("report cleared", zap.String("outlet", outlet), zap.String("kind", string(kind)))
		return model.Recognition{Kind: model.ReportUnknown}, nil
	}

	rec := s.recognizer.Recognize(text)
	if rec.Kind != kind {
		s.log.Warn("report kind mismatch",
			zap.String("outlet", outlet),
			zap.String("kind", string(kind)),
			zap.String("recognized", string(rec.Kind)),
			zap.Float64("confidence", rec.Confidence),
		)
	}
	if err := s.putJSON(ctx, key, text); err != nil {
		return rec, err
	}
	s.log.Info("report saved", zap.String("outlet", outlet), zap.String("kind", string(kind)), zap.Int("bytes", len(text)))
	return rec, nil
}

// Report 读取报表原文，未保存时返回空串
func (s *Service) Report(ctx context.Context, outlet string, kind model.ReportKind) (string, error) {
	if !kind.Valid() {
		return "", fmt.Errorf("unknown report kind %q: %w", kind, ErrInvalidInput)
	}
	var text string
	if _, err := s.getJSON(ctx, reportKey(outlet, kind), &text); err != nil {
		return "", err
	}
	return text, nil
}

// Revenue 门店员工营收
func (s *Service) Revenue(ctx context.Context, outlet string) ([]model.RevenueRecord, error) {
	text, err := s.Report(ctx, outlet, model.ReportRevenue)
	if err != nil {
		return nil, err
	}
	return s.revenue.Parse(text), nil
}

// Competition 门店竞赛数据，只保留营收表中出现的员工
func (s *Service) Competition(ctx context.Context, outlet string) (model.CompetitionData, error) {
	records, err := s.Revenue(ctx, outlet)
	if err != nil {
		return nil, err
	}
	text, err := s.Report(ctx, outlet, model.ReportCompetition)
	if err != nil {
		return nil, err
	}
	return s.competition.Parse(text, parser.MemberGroups(records)), nil
}

// Departments 门店部门列表
func (s *Service) Departments(ctx context.Context, outlet string) ([]model.Department, error) {
	records, err := s.Revenue(ctx, outlet)
	if err != nil {
		return nil, err
	}
	return parser.Departments(records), nil
}

// Thresholds 各部门后 30% 分界值
func (s *Service) Thresholds(ctx context.Context, outlet string) (map[string]model.GroupThreshold, error) {
	records, err := s.Revenue(ctx, outlet)
	if err != nil {
		return nil, err
	}
	return parser.LowPerformerThresholds(records), nil
}

// Industry 行业明细
func (s *Service) Industry(ctx context.Context, outlet string, realtime bool, hidden []string) (model.IndustryTable, error) {
	kind := model.ReportIndustryCumulative
	if realtime {
		kind = model.ReportIndustryRealtime
	}
	text, err := s.Report(ctx, outlet, kind)
	if err != nil {
		return model.IndustryTable{}, err
	}
	return s.opts.Labels.ParseIndustryTable(text, hidden), nil
}

// Programs 区域累计竞赛表中的项目
func (s *Service) Programs(ctx context.Context) ([]model.Program, error) {
	text, err := s.Report(ctx, "", model.ReportCompetitionLuyKe)
	if err != nil {
		return nil, err
	}
	return parser.ParsePrograms(text), nil
}

// Outlets 有数据的门店
func (s *Service) Outlets(ctx context.Context) ([]string, error) {
	entries, err := s.kv.List(ctx, outletPrefix)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	outlets := make([]string, 0)
	for _, e := range entries {
		o, ok := outletFromKey(e.Key)
		if !ok || seen[o] {
			continue
		}
		seen[o] = true
		outlets = append(outlets, o)
	}
	sort.Strings(outlets)
	return outlets, nil
}
