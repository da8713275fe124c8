package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/franalderete7/expenzo-sub000/internal/core"
	"github.com/franalderete7/expenzo-sub000/internal/storage"
)

func TestIndexCreateRejectsDuplicatePeriod(t *testing.T) {
	svc := NewIndexService(storage.NewMemoryStore())
	ctx := context.Background()
	v := core.IndexValue{Kind: core.IndexIPC, Period: core.Period{Year: 2025, Month: 3}, Value: decimal.RequireFromString("4.2")}

	_, err := svc.Create(ctx, v)
	require.NoError(t, err)
	_, err = svc.Create(ctx, v)
	assert.ErrorIs(t, err, core.ErrConflict)
}

func TestIndexCreateRejectsAverageKind(t *testing.T) {
	svc := NewIndexService(storage.NewMemoryStore())
	_, err := svc.Create(context.Background(), core.IndexValue{
		Kind: core.IndexAverage, Period: core.Period{Year: 2025, Month: 3}, Value: decimal.RequireFromString("4.2"),
	})
	assert.Error(t, err)
}

func TestIndexImportUpsertsBatch(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewIndexService(store)
	ctx := context.Background()

	first := []core.IndexValue{
		{Kind: core.IndexICL, Period: core.Period{Year: 2025, Month: 1}, Value: decimal.RequireFromString("100")},
		{Kind: core.IndexICL, Period: core.Period{Year: 2025, Month: 2}, Value: decimal.RequireFromString("105")},
	}
	n, err := svc.Import(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// Re-import with a corrected february value
	second := []core.IndexValue{
		{Kind: core.IndexICL, Period: core.Period{Year: 2025, Month: 2}, Value: decimal.RequireFromString("106")},
	}
	_, err = svc.Import(ctx, second)
	require.NoError(t, err)

	values, err := svc.List(ctx, core.IndexICL)
	require.NoError(t, err)
	require.Len(t, values, 2)
	assert.True(t, values[1].Value.Equal(decimal.RequireFromString("106")))
}

func TestIndexImportRejectsInvalidRowBeforeWriting(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewIndexService(store)
	ctx := context.Background()

	_, err := svc.Import(ctx, []core.IndexValue{
		{Kind: core.IndexICL, Period: core.Period{Year: 2025, Month: 1}, Value: decimal.RequireFromString("100")},
		{Kind: core.IndexICL, Period: core.Period{Year: 2025, Month: 13}, Value: decimal.RequireFromString("105")},
	})
	require.Error(t, err)

	values, err := svc.List(ctx, core.IndexICL)
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestIndexListUnknownKind(t *testing.T) {
	svc := NewIndexService(storage.NewMemoryStore())
	_, err := svc.List(context.Background(), core.IndexKind("uva"))
	assert.Error(t, err)
}
