package board

import (
	"context"
	"fmt"
	"strings"

	"github.com/ailtstruongson-maker/reportbi/internal/model"
)

// ListVersions 竞赛项目组合
func (s *Service) ListVersions(ctx context.Context, outlet string) ([]model.Version, error) {
	outlet, err := requireOutlet(outlet)
	if err != nil {
		return nil, err
	}
	versions := make([]model.Version, 0)
	if _, err := s.getJSON(ctx, versionsKey(outlet), &versions); err != nil {
		return nil, err
	}
	return versions, nil
}

// SaveVersion 保存组合，同名覆盖
func (s *Service) SaveVersion(ctx context.Context, outlet string, v model.Version) ([]model.Version, error) {
	outlet, err := requireOutlet(outlet)
	if err != nil {
		return nil, err
	}
	v.Name = strings.TrimSpace(v.Name)
	if v.Name == "" {
		return nil, fmt.Errorf("version name is required: %w", ErrInvalidInput)
	}
	if v.SelectedPrograms == nil {
		v.SelectedPrograms = []string{}
	}

	unlock := s.lock(outlet)
	defer unlock()

	versions, err := s.ListVersions(ctx, outlet)
	if err != nil {
		return nil, err
	}
	replaced := false
	for i := range versions {
		if versions[i].Name == v.Name {
			versions[i] = v
			replaced = true
		}
	}
	if !replaced {
		versions = append(versions, v)
	}
	if err := s.putJSON(ctx, versionsKey(outlet), versions); err != nil {
		return nil, err
	}
	return versions, nil
}

// DeleteVersion 删除组合
func (s *Service) DeleteVersion(ctx context.Context, outlet, name string) ([]model.Version, error) {
	outlet, err := requireOutlet(outlet)
	if err != nil {
		return nil, err
	}
	unlock := s.lock(outlet)
	defer unlock()

	versions, err := s.ListVersions(ctx, outlet)
	if err != nil {
		return nil, err
	}
	kept := make([]model.Version, 0, len(versions))
	for _, v := range versions {
		if v.Name != name {
			kept = append(kept, v)
		}
	}
	if len(kept) == len(versions) {
		return nil, fmt.Errorf("version %q: %w", name, ErrNotFound)
	}
	if err := s.putJSON(ctx, versionsKey(outlet), kept); err != nil {
		return nil, err
	}
	return kept, nil
}
