package board

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ailtstruongson-maker/reportbi/internal/model"
	"github.com/ailtstruongson-maker/reportbi/internal/parser"
	"github.com/ailtstruongson-maker/reportbi/internal/service/trend"
)

// currentLabel 趋势线上当前数据的标签
const currentLabel = "Hiện tại"

// SaveSnapshot 保存当前营收与竞赛原文为快照
func (s *Service) SaveSnapshot(ctx context.Context, outlet, name string) (model.SnapshotMeta, error) {
	outlet, err := requireOutlet(outlet)
	if err != nil {
		return model.SnapshotMeta{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return model.SnapshotMeta{}, fmt.Errorf("snapshot name is required: %w", ErrInvalidInput)
	}

	revenue, err := s.Report(ctx, outlet, model.ReportRevenue)
	if err != nil {
		return model.SnapshotMeta{}, err
	}
	competition, err := s.Report(ctx, outlet, model.ReportCompetition)
	if err != nil {
		return model.SnapshotMeta{}, err
	}
	if strings.TrimSpace(competition) == "" {
		return model.SnapshotMeta{}, fmt.Errorf("no competition data to snapshot: %w", ErrInvalidInput)
	}

	unlock := s.lock(outlet)
	defer unlock()

	meta := model.SnapshotMeta{
		ID:   "s_" + uuid.NewString(),
		Name: name,
		Date: s.opts.Now(),
	}
	data := model.SnapshotData{RevenueText: revenue, CompetitionText: competition}
	if err := s.putJSON(ctx, snapshotKey(outlet, meta.ID), data); err != nil {
		return model.SnapshotMeta{}, err
	}

	index, err := s.snapshotIndex(ctx, outlet)
	if err != nil {
		return model.SnapshotMeta{}, err
	}
	index = append(index, meta)
	sortSnapshots(index)
	if err := s.putJSON(ctx, snapshotIndexKey(outlet), index); err != nil {
		return model.SnapshotMeta{}, err
	}

	s.log.Info("snapshot saved", zap.String("outlet", outlet), zap.String("id", meta.ID), zap.String("name", name))
	return meta, nil
}

// ListSnapshots 快照列表，按日期倒序
func (s *Service) ListSnapshots(ctx context.Context, outlet string) ([]model.SnapshotMeta, error) {
	outlet, err := requireOutlet(outlet)
	if err != nil {
		return nil, err
	}
	return s.snapshotIndex(ctx, outlet)
}

func (s *Service) snapshotIndex(ctx context.Context, outlet string) ([]model.SnapshotMeta, error) {
	index := make([]model.SnapshotMeta, 0)
	if _, err := s.getJSON(ctx, snapshotIndexKey(outlet), &index); err != nil {
		return nil, err
	}
	sortSnapshots(index)
	return index, nil
}

func sortSnapshots(index []model.SnapshotMeta) {
	sort.SliceStable(index, func(i, j int) bool { return index[i].Date.After(index[j].Date) })
}

// LoadSnapshot 读取快照原文
func (s *Service) LoadSnapshot(ctx context.Context, outlet, id string) (model.SnapshotData, error) {
	var data model.SnapshotData
	found, err := s.getJSON(ctx, snapshotKey(outlet, id), &data)
	if err != nil {
		return model.SnapshotData{}, err
	}
	if !found {
		return model.SnapshotData{}, fmt.Errorf("snapshot %s: %w", id, ErrNotFound)
	}
	return data, nil
}

// DeleteSnapshot 删除快照
func (s *Service) DeleteSnapshot(ctx context.Context, outlet, id string) error {
	outlet, err := requireOutlet(outlet)
	if err != nil {
		return err
	}
	unlock := s.lock(outlet)
	defer unlock()

	index, err := s.snapshotIndex(ctx, outlet)
	if err != nil {
		return err
	}
	kept := index[:0]
	found := false
	for _, m := range index {
		if m.ID == id {
			found = true
			continue
		}
		kept = append(kept, m)
	}
	if !found {
		return fmt.Errorf("snapshot %s: %w", id, ErrNotFound)
	}
	if err := s.kv.Delete(ctx, snapshotKey(outlet, id)); err != nil {
		return err
	}
	if err := s.putJSON(ctx, snapshotIndexKey(outlet), kept); err != nil {
		return err
	}
	s.log.Info("snapshot deleted", zap.String("outlet", outlet), zap.String("id", id))
	return nil
}

// snapshotCompetition 用快照自身的营收表确定员工；快照中没有营收表时使用当前员工
func (s *Service) snapshotCompetition(data model.SnapshotData, fallback map[string]string) model.CompetitionData {
	members := parser.MemberGroups(s.revenue.Parse(data.RevenueText))
	if len(members) == 0 {
		members = fallback
	}
	return s.competition.Parse(data.CompetitionText, members)
}

// Changes 当前竞赛数据与快照相比的明显变化
func (s *Service) Changes(ctx context.Context, outlet, snapshotID string) ([]model.SnapshotComparison, error) {
	outlet, err := requireOutlet(outlet)
	if err != nil {
		return nil, err
	}
	records, err := s.Revenue(ctx, outlet)
	if err != nil {
		return nil, err
	}
	current, err := s.Competition(ctx, outlet)
	if err != nil {
		return nil, err
	}
	snap, err := s.LoadSnapshot(ctx, outlet, snapshotID)
	if err != nil {
		return nil, err
	}
	previous := s.snapshotCompetition(snap, parser.MemberGroups(records))
	return trend.CompareCompetition(current, previous, s.opts.TrendThreshold), nil
}

// Trend 实体在当前数据与所有快照中的合计走势
func (s *Service) Trend(ctx context.Context, outlet, entity string) ([]model.TrendPoint, error) {
	outlet, err := requireOutlet(outlet)
	if err != nil {
		return nil, err
	}
	records, err := s.Revenue(ctx, outlet)
	if err != nil {
		return nil, err
	}
	current, err := s.Competition(ctx, outlet)
	if err != nil {
		return nil, err
	}
	index, err := s.snapshotIndex(ctx, outlet)
	if err != nil {
		return nil, err
	}

	members := parser.MemberGroups(records)
	samples := make([]trend.Sample, len(index)+1)
	samples[0] = trend.Sample{Label: currentLabel, Date: s.opts.Now(), Data: current}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.SnapshotWorkers)
	for i, meta := range index {
		i, meta := i, meta
		g.Go(func() error {
			data, err := s.LoadSnapshot(gctx, outlet, meta.ID)
			if err != nil {
				return fmt.Errorf("load snapshot %s: %w", meta.ID, err)
			}
			samples[i+1] = trend.Sample{Label: meta.Name, Date: meta.Date, Data: s.snapshotCompetition(data, members)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return trend.Series(entity, samples), nil
}
