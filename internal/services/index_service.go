package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/franalderete7/expenzo-sub000/internal/core"
	"github.com/franalderete7/expenzo-sub000/internal/storage"
)

// IndexService manages published ICL and IPC index values.
type IndexService struct {
	store storage.Store
}

func NewIndexService(store storage.Store) *IndexService {
	return &IndexService{store: store}
}

func (s *IndexService) Create(ctx context.Context, v core.IndexValue) (core.IndexValue, error) {
	if err := v.Validate(); err != nil {
		return core.IndexValue{}, err
	}
	return s.store.CreateIndexValue(ctx, v)
}

func (s *IndexService) List(ctx context.Context, kind core.IndexKind) ([]core.IndexValue, error) {
	if kind != core.IndexICL && kind != core.IndexIPC {
		return nil, fmt.Errorf("list index values: unknown kind %q", kind)
	}
	return s.store.ListIndexValues(ctx, kind)
}

func (s *IndexService) Update(ctx context.Context, v core.IndexValue) (core.IndexValue, error) {
	if !v.Value.IsPositive() {
		return core.IndexValue{}, core.ErrInvalidAmount
	}
	return s.store.UpdateIndexValue(ctx, v)
}

func (s *IndexService) Delete(ctx context.Context, kind core.IndexKind, id int64) error {
	return s.store.DeleteIndexValue(ctx, kind, id)
}

// Import upserts a batch of index values, typically read from the
// published spreadsheet. Invalid rows abort the import before any row
// of the batch is written.
func (s *IndexService) Import(ctx context.Context, values []core.IndexValue) (int, error) {
	for _, v := range values {
		if err := v.Validate(); err != nil {
			return 0, fmt.Errorf("index value %s %s: %w", v.Kind, v.Period, err)
		}
	}
	for i, v := range values {
		if _, err := s.store.UpsertIndexValue(ctx, v); err != nil {
			return i, fmt.Errorf("upsert %s %s: %w", v.Kind, v.Period, err)
		}
	}
	slog.InfoContext(ctx, "index values imported", "count", len(values))
	return len(values), nil
}
