// Package worker consumes receipt dispatch messages and delivers
// receipts to residents.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/franalderete7/expenzo-sub000/internal/amqp"
	"github.com/franalderete7/expenzo-sub000/internal/core"
	applog "github.com/franalderete7/expenzo-sub000/internal/log"
	"github.com/franalderete7/expenzo-sub000/internal/storage"
)

// ReceiptSender delivers a single receipt to its recipient.
type ReceiptSender interface {
	Send(ctx context.Context, receipt core.Receipt) error
}

// ReceiptWorker processes queued receipt dispatch messages. Delivery is
// at-least-once: redeliveries of an already-sent receipt are ignored.
type ReceiptWorker struct {
	store  storage.Store
	sender ReceiptSender
}

func NewReceiptWorker(store storage.Store, sender ReceiptSender) *ReceiptWorker {
	return &ReceiptWorker{store: store, sender: sender}
}

// HandleDispatchMessage processes a single dispatch message from AMQP.
// A returned error requeues the message.
func (w *ReceiptWorker) HandleDispatchMessage(ctx context.Context, msg *amqp.ReceiptDispatchMessage) error {
	receipt, err := w.store.GetReceipt(ctx, msg.ReceiptID)
	if errors.Is(err, core.ErrNotFound) {
		// Receipt rows outlive queue entries, not the other way
		// around; a missing row means the message is stale.
		slog.WarnContext(ctx, "Receipt not found, dropping message", applog.FieldReceiptID, msg.ReceiptID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load receipt: %w", err)
	}

	if receipt.Status == core.ReceiptSent {
		slog.InfoContext(ctx, "Receipt already sent, skipping", applog.FieldReceiptID, receipt.ID)
		return nil
	}

	if err := w.sender.Send(ctx, receipt); err != nil {
		if markErr := w.store.SetReceiptStatus(ctx, receipt.ID, core.ReceiptFailed); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark receipt failed",
				applog.FieldReceiptID, receipt.ID, applog.FieldError, markErr)
		}
		return fmt.Errorf("send receipt %s: %w", receipt.ID, err)
	}

	if err := w.store.SetReceiptStatus(ctx, receipt.ID, core.ReceiptSent); err != nil {
		slog.ErrorContext(ctx, "Failed to mark receipt sent",
			applog.FieldReceiptID, receipt.ID, applog.FieldError, err)
		// Delivery succeeded; don't requeue just for the status write.
		return nil
	}

	slog.InfoContext(ctx, "Receipt delivered",
		applog.FieldReceiptID, receipt.ID,
		applog.FieldUnitID, receipt.UnitID,
		"period", receipt.Period.String(),
		"total", receipt.Total.String())
	return nil
}

// LogSender writes receipt contents to the structured log. It stands in
// for a mail or messaging integration in development setups.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, r core.Receipt) error {
	slog.InfoContext(ctx, "Sending receipt",
		applog.FieldReceiptID, r.ID,
		applog.FieldUnitID, r.UnitID,
		"period", r.Period.String(),
		"expenses", r.ExpenseAmount.String(),
		"rent", r.RentAmount.String(),
		"total", r.Total.String())
	return nil
}
