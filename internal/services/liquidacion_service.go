package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/franalderete7/expenzo-sub000/internal/core"
	applog "github.com/franalderete7/expenzo-sub000/internal/log"
	"github.com/franalderete7/expenzo-sub000/internal/storage"
)

// ReceiptPublisher enqueues a persisted receipt for delivery.
type ReceiptPublisher interface {
	PublishReceiptDispatch(ctx context.Context, receiptID string) error
}

// LiquidacionService settles a property's month: it allocates the
// expense total across units and turns allocations into dispatchable
// receipts.
type LiquidacionService struct {
	store     storage.Store
	contracts *ContractService
	publisher ReceiptPublisher
}

func NewLiquidacionService(store storage.Store, contracts *ContractService, publisher ReceiptPublisher) *LiquidacionService {
	return &LiquidacionService{
		store:     store,
		contracts: contracts,
		publisher: publisher,
	}
}

// Calculate creates the period's expense allocations from the monthly
// summary and the units' configured percentages. A period that already
// has allocations conflicts; delete them first to recalculate.
func (s *LiquidacionService) Calculate(ctx context.Context, adminID, propertyID int64, p core.Period) ([]core.ExpenseAllocation, error) {
	summary, err := s.store.GetSummary(ctx, adminID, propertyID, p)
	if err != nil {
		return nil, err
	}
	units, err := s.store.ListUnits(ctx, adminID, propertyID)
	if err != nil {
		return nil, err
	}

	allocs := core.ComputeAllocations(summary, units)
	created, err := s.store.CreateAllocations(ctx, summary.ID, allocs)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "liquidación calculated",
		applog.FieldPropertyID, propertyID,
		"period", p.String(),
		"total", summary.TotalExpenses.String(),
		"allocations", len(created))
	return created, nil
}

// Allocations lists the period's existing allocations.
func (s *LiquidacionService) Allocations(ctx context.Context, adminID, propertyID int64, p core.Period) ([]core.ExpenseAllocation, error) {
	summary, err := s.store.GetSummary(ctx, adminID, propertyID, p)
	if err != nil {
		return nil, err
	}
	return s.store.ListAllocations(ctx, summary.ID)
}

// Delete removes the period's allocations so the liquidación can be
// recalculated after late expenses land.
func (s *LiquidacionService) Delete(ctx context.Context, adminID, propertyID int64, p core.Period) error {
	summary, err := s.store.GetSummary(ctx, adminID, propertyID, p)
	if err != nil {
		return err
	}
	return s.store.DeleteAllocations(ctx, summary.ID)
}

// SendReceipts builds one receipt per allocated unit and enqueues each
// for delivery. Rent comes from the unit's active contract when one
// covers the period; a unit without one is billed expenses only.
// Receipts are persisted before anything is published, so a broker
// outage leaves them pending instead of lost.
func (s *LiquidacionService) SendReceipts(ctx context.Context, adminID, propertyID int64, p core.Period) ([]core.Receipt, error) {
	summary, err := s.store.GetSummary(ctx, adminID, propertyID, p)
	if err != nil {
		return nil, err
	}
	allocs, err := s.store.ListAllocations(ctx, summary.ID)
	if err != nil {
		return nil, err
	}
	if len(allocs) == 0 {
		return nil, fmt.Errorf("no allocations for %s: %w", p, core.ErrNotFound)
	}

	now := time.Now().UTC()
	receipts := make([]core.Receipt, 0, len(allocs))
	for _, a := range allocs {
		rent := decimal.Zero
		contract, err := s.store.ActiveContractForUnit(ctx, adminID, a.UnitID, p)
		switch {
		case err == nil:
			rp, err := s.contracts.RentForPeriod(ctx, adminID, contract.ID, p)
			if err != nil {
				return nil, fmt.Errorf("rent for unit %d: %w", a.UnitID, err)
			}
			rent = rp.Amount
		case !isNotFound(err):
			return nil, fmt.Errorf("active contract for unit %d: %w", a.UnitID, err)
		}

		receipts = append(receipts, core.Receipt{
			ID:            uuid.NewString(),
			SummaryID:     summary.ID,
			UnitID:        a.UnitID,
			Period:        p,
			ExpenseAmount: a.Amount,
			RentAmount:    rent,
			Total:         a.Amount.Add(rent),
			Status:        core.ReceiptPending,
			CreatedAt:     now,
		})
	}

	if err := s.store.CreateReceipts(ctx, receipts); err != nil {
		return nil, fmt.Errorf("persist receipts: %w", err)
	}

	for _, r := range receipts {
		if s.publisher == nil {
			continue
		}
		if err := s.publisher.PublishReceiptDispatch(ctx, r.ID); err != nil {
			// The receipt stays pending; a later send retries it.
			slog.ErrorContext(ctx, "failed to publish receipt dispatch",
				applog.FieldReceiptID, r.ID, applog.FieldError, err)
		}
	}

	slog.InfoContext(ctx, "receipts enqueued",
		applog.FieldPropertyID, propertyID, "period", p.String(), "count", len(receipts))
	return receipts, nil
}

// Receipts lists the period's receipts with their dispatch status.
func (s *LiquidacionService) Receipts(ctx context.Context, adminID, propertyID int64, p core.Period) ([]core.Receipt, error) {
	summary, err := s.store.GetSummary(ctx, adminID, propertyID, p)
	if err != nil {
		return nil, err
	}
	return s.store.ListReceipts(ctx, summary.ID)
}

func isNotFound(err error) bool {
	return errors.Is(err, core.ErrNotFound)
}
