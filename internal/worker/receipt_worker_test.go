package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/franalderete7/expenzo-sub000/internal/amqp"
	"github.com/franalderete7/expenzo-sub000/internal/core"
	"github.com/franalderete7/expenzo-sub000/internal/storage"
)

type fakeSender struct {
	sent []string
	err  error
}

func (f *fakeSender) Send(_ context.Context, r core.Receipt) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, r.ID)
	return nil
}

func seedReceipt(t *testing.T, store *storage.MemoryStore, status core.ReceiptStatus) core.Receipt {
	t.Helper()
	r := core.Receipt{
		ID:            "r-1",
		SummaryID:     1,
		UnitID:        10,
		Period:        core.Period{Year: 2025, Month: 3},
		ExpenseAmount: decimal.RequireFromString("6000"),
		RentAmount:    decimal.RequireFromString("200000"),
		Total:         decimal.RequireFromString("206000"),
		Status:        status,
		CreatedAt:     time.Now().UTC(),
	}
	require.NoError(t, store.CreateReceipts(context.Background(), []core.Receipt{r}))
	return r
}

func TestHandleDispatchMarksSent(t *testing.T) {
	store := storage.NewMemoryStore()
	r := seedReceipt(t, store, core.ReceiptPending)
	sender := &fakeSender{}
	w := NewReceiptWorker(store, sender)

	err := w.HandleDispatchMessage(context.Background(), &amqp.ReceiptDispatchMessage{ReceiptID: r.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{r.ID}, sender.sent)

	got, err := store.GetReceipt(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Equal(t, core.ReceiptSent, got.Status)
	assert.NotNil(t, got.SentAt)
}

func TestHandleDispatchSendFailureMarksFailed(t *testing.T) {
	store := storage.NewMemoryStore()
	r := seedReceipt(t, store, core.ReceiptPending)
	w := NewReceiptWorker(store, &fakeSender{err: errors.New("smtp down")})

	err := w.HandleDispatchMessage(context.Background(), &amqp.ReceiptDispatchMessage{ReceiptID: r.ID})
	require.Error(t, err)

	got, err := store.GetReceipt(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Equal(t, core.ReceiptFailed, got.Status)
}

func TestHandleDispatchSkipsAlreadySent(t *testing.T) {
	store := storage.NewMemoryStore()
	r := seedReceipt(t, store, core.ReceiptSent)
	sender := &fakeSender{}
	w := NewReceiptWorker(store, sender)

	err := w.HandleDispatchMessage(context.Background(), &amqp.ReceiptDispatchMessage{ReceiptID: r.ID})
	require.NoError(t, err)
	assert.Empty(t, sender.sent)
}

func TestHandleDispatchDropsUnknownReceipt(t *testing.T) {
	store := storage.NewMemoryStore()
	w := NewReceiptWorker(store, &fakeSender{})

	err := w.HandleDispatchMessage(context.Background(), &amqp.ReceiptDispatchMessage{ReceiptID: "nope"})
	assert.NoError(t, err)
}
