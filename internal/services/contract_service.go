package services

import (
	"context"
	"fmt"

	"github.com/franalderete7/expenzo-sub000/internal/core"
	"github.com/franalderete7/expenzo-sub000/internal/storage"
)

// ContractService computes index-adjusted rent schedules for contracts.
type ContractService struct {
	store storage.Store
}

func NewContractService(store storage.Store) *ContractService {
	return &ContractService{store: store}
}

// loadSeries loads every published index value into one lookup. Both
// kinds are always loaded so the synthetic average can be derived.
func loadSeries(ctx context.Context, store storage.Store) (core.IndexSeries, error) {
	var all []core.IndexValue
	for _, kind := range core.PublishedKinds() {
		values, err := store.ListIndexValues(ctx, kind)
		if err != nil {
			return nil, fmt.Errorf("load %s index values: %w", kind, err)
		}
		all = append(all, values...)
	}
	return core.NewIndexSeries(all), nil
}

// Recalculate returns the contract's full month-by-month rent schedule
// under the currently loaded index values. Nothing is persisted; the
// schedule is always derived from the contract and the index tables.
func (s *ContractService) Recalculate(ctx context.Context, adminID, contractID int64) ([]core.RentPeriod, error) {
	contract, err := s.store.GetContract(ctx, adminID, contractID)
	if err != nil {
		return nil, err
	}
	series, err := loadSeries(ctx, s.store)
	if err != nil {
		return nil, err
	}
	return core.ComputeRentSchedule(contract, series), nil
}

// RentForPeriod resolves the adjusted rent a contract charges in one
// period of its term.
func (s *ContractService) RentForPeriod(ctx context.Context, adminID, contractID int64, p core.Period) (core.RentPeriod, error) {
	schedule, err := s.Recalculate(ctx, adminID, contractID)
	if err != nil {
		return core.RentPeriod{}, err
	}
	for _, rp := range schedule {
		if rp.Period.Equal(p) {
			return rp, nil
		}
	}
	return core.RentPeriod{}, core.ErrNotFound
}
