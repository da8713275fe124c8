package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/franalderete7/expenzo-sub000/internal/core"
)

func newSQLiteTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func seedSQLiteProperty(t *testing.T, s *SQLiteStore) (adminID int64, propertyID int64) {
	t.Helper()
	ctx := context.Background()
	admin, err := s.CreateAdmin(ctx, core.Admin{AuthUserID: "auth0|abc", Name: "Fran", Email: "fran@example.com"})
	if err != nil {
		t.Fatalf("create admin: %v", err)
	}
	prop, err := s.CreateProperty(ctx, core.Property{AdminID: admin.ID, Name: "Edificio Libertador", Address: "Av. Libertador 1000", City: "Buenos Aires"})
	if err != nil {
		t.Fatalf("create property: %v", err)
	}
	return admin.ID, prop.ID
}

func TestSQLiteExpenseCreateRecomputesSummary(t *testing.T) {
	s := newSQLiteTestStore(t)
	ctx := context.Background()
	adminID, propID := seedSQLiteProperty(t, s)
	p := core.Period{Year: 2025, Month: 3}

	if _, err := s.CreateExpense(ctx, adminID, core.Expense{
		PropertyID: propID, Description: "limpieza", Amount: decimal.RequireFromString("1500.50"), Period: p,
	}); err != nil {
		t.Fatalf("create expense: %v", err)
	}
	if _, err := s.CreateExpense(ctx, adminID, core.Expense{
		PropertyID: propID, Description: "ascensor", Amount: decimal.RequireFromString("2499.50"), Period: p,
	}); err != nil {
		t.Fatalf("create expense: %v", err)
	}

	sum, err := s.GetSummary(ctx, adminID, propID, p)
	if err != nil {
		t.Fatalf("get summary: %v", err)
	}
	if !sum.TotalExpenses.Equal(decimal.RequireFromString("4000")) {
		t.Fatalf("total = %s, want 4000", sum.TotalExpenses)
	}
}

func TestSQLiteExpenseUpdateMovesPeriodTotals(t *testing.T) {
	s := newSQLiteTestStore(t)
	ctx := context.Background()
	adminID, propID := seedSQLiteProperty(t, s)
	march := core.Period{Year: 2025, Month: 3}
	april := core.Period{Year: 2025, Month: 4}

	e, err := s.CreateExpense(ctx, adminID, core.Expense{
		PropertyID: propID, Description: "seguro", Amount: decimal.RequireFromString("1000"), Period: march,
	})
	if err != nil {
		t.Fatalf("create expense: %v", err)
	}

	e.Period = april
	if _, err := s.UpdateExpense(ctx, adminID, e); err != nil {
		t.Fatalf("update expense: %v", err)
	}

	old, err := s.GetSummary(ctx, adminID, propID, march)
	if err != nil {
		t.Fatalf("get march summary: %v", err)
	}
	if !old.TotalExpenses.IsZero() {
		t.Fatalf("march total = %s, want 0", old.TotalExpenses)
	}
	moved, err := s.GetSummary(ctx, adminID, propID, april)
	if err != nil {
		t.Fatalf("get april summary: %v", err)
	}
	if !moved.TotalExpenses.Equal(decimal.RequireFromString("1000")) {
		t.Fatalf("april total = %s, want 1000", moved.TotalExpenses)
	}
}

func TestSQLiteDeleteLastExpenseLeavesSummaryZero(t *testing.T) {
	s := newSQLiteTestStore(t)
	ctx := context.Background()
	adminID, propID := seedSQLiteProperty(t, s)
	p := core.Period{Year: 2025, Month: 5}

	e, err := s.CreateExpense(ctx, adminID, core.Expense{
		PropertyID: propID, Description: "pintura", Amount: decimal.RequireFromString("5000"), Period: p,
	})
	if err != nil {
		t.Fatalf("create expense: %v", err)
	}
	if err := s.DeleteExpense(ctx, adminID, e.ID); err != nil {
		t.Fatalf("delete expense: %v", err)
	}

	sum, err := s.GetSummary(ctx, adminID, propID, p)
	if err != nil {
		t.Fatalf("get summary: %v", err)
	}
	if !sum.TotalExpenses.IsZero() {
		t.Fatalf("total = %s, want 0", sum.TotalExpenses)
	}
}

func TestSQLiteDuplicateUnitLabelConflicts(t *testing.T) {
	s := newSQLiteTestStore(t)
	ctx := context.Background()
	adminID, propID := seedSQLiteProperty(t, s)

	u := core.Unit{PropertyID: propID, Label: "1A", Floor: 1, ExpensePercentage: decimal.RequireFromString("50")}
	if _, err := s.CreateUnit(ctx, adminID, u); err != nil {
		t.Fatalf("create unit: %v", err)
	}
	if _, err := s.CreateUnit(ctx, adminID, u); !errors.Is(err, core.ErrConflict) {
		t.Fatalf("duplicate label err = %v, want ErrConflict", err)
	}
}

func TestSQLiteDuplicateIndexPeriodConflicts(t *testing.T) {
	s := newSQLiteTestStore(t)
	ctx := context.Background()

	v := core.IndexValue{Kind: core.IndexICL, Period: core.Period{Year: 2025, Month: 2}, Value: decimal.RequireFromString("105.6")}
	if _, err := s.CreateIndexValue(ctx, v); err != nil {
		t.Fatalf("create index value: %v", err)
	}
	if _, err := s.CreateIndexValue(ctx, v); !errors.Is(err, core.ErrConflict) {
		t.Fatalf("duplicate period err = %v, want ErrConflict", err)
	}

	// Same period under the other kind is a distinct row
	v.Kind = core.IndexIPC
	if _, err := s.CreateIndexValue(ctx, v); err != nil {
		t.Fatalf("create ipc value: %v", err)
	}

	// Upsert overwrites instead of conflicting
	v.Kind = core.IndexICL
	v.Value = decimal.RequireFromString("106")
	if _, err := s.UpsertIndexValue(ctx, v); err != nil {
		t.Fatalf("upsert index value: %v", err)
	}
	values, err := s.ListIndexValues(ctx, core.IndexICL)
	if err != nil {
		t.Fatalf("list index values: %v", err)
	}
	if len(values) != 1 || !values[0].Value.Equal(decimal.RequireFromString("106")) {
		t.Fatalf("values = %v, want one row at 106", values)
	}
}

func TestSQLiteAllocationsAllOrNothing(t *testing.T) {
	s := newSQLiteTestStore(t)
	ctx := context.Background()
	adminID, propID := seedSQLiteProperty(t, s)
	p := core.Period{Year: 2025, Month: 6}

	unitA, err := s.CreateUnit(ctx, adminID, core.Unit{PropertyID: propID, Label: "1A", Floor: 1, ExpensePercentage: decimal.RequireFromString("60")})
	if err != nil {
		t.Fatalf("create unit: %v", err)
	}
	unitB, err := s.CreateUnit(ctx, adminID, core.Unit{PropertyID: propID, Label: "1B", Floor: 1, ExpensePercentage: decimal.RequireFromString("40")})
	if err != nil {
		t.Fatalf("create unit: %v", err)
	}
	if _, err := s.CreateExpense(ctx, adminID, core.Expense{
		PropertyID: propID, Description: "expensas", Amount: decimal.RequireFromString("10000"), Period: p,
	}); err != nil {
		t.Fatalf("create expense: %v", err)
	}
	sum, err := s.GetSummary(ctx, adminID, propID, p)
	if err != nil {
		t.Fatalf("get summary: %v", err)
	}

	allocs := core.ComputeAllocations(sum, []core.Unit{unitA, unitB})
	created, err := s.CreateAllocations(ctx, sum.ID, allocs)
	if err != nil {
		t.Fatalf("create allocations: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("len = %d, want 2", len(created))
	}
	if !created[0].Amount.Equal(decimal.RequireFromString("6000")) {
		t.Fatalf("unit A amount = %s, want 6000", created[0].Amount)
	}

	if _, err := s.CreateAllocations(ctx, sum.ID, allocs); !errors.Is(err, core.ErrConflict) {
		t.Fatalf("second batch err = %v, want ErrConflict", err)
	}
	existing, err := s.ListAllocations(ctx, sum.ID)
	if err != nil {
		t.Fatalf("list allocations: %v", err)
	}
	if len(existing) != 2 {
		t.Fatalf("len after rejected batch = %d, want 2", len(existing))
	}
}

func TestSQLiteActiveContractForUnit(t *testing.T) {
	s := newSQLiteTestStore(t)
	ctx := context.Background()
	adminID, propID := seedSQLiteProperty(t, s)

	u, err := s.CreateUnit(ctx, adminID, core.Unit{PropertyID: propID, Label: "3C", Floor: 3, ExpensePercentage: decimal.RequireFromString("100")})
	if err != nil {
		t.Fatalf("create unit: %v", err)
	}
	r, err := s.CreateResident(ctx, adminID, core.Resident{UnitID: u.ID, Name: "Carla", Role: core.RoleTenant})
	if err != nil {
		t.Fatalf("create resident: %v", err)
	}
	c, err := s.CreateContract(ctx, adminID, core.Contract{
		UnitID: u.ID, ResidentID: r.ID,
		Start: core.Period{Year: 2025, Month: 1}, End: core.Period{Year: 2026, Month: 12},
		InitialRent: decimal.RequireFromString("200000"),
		Index:       core.IndexICL, Frequency: core.AdjustQuarterly,
		Status: core.ContractActive,
	})
	if err != nil {
		t.Fatalf("create contract: %v", err)
	}

	got, err := s.ActiveContractForUnit(ctx, adminID, u.ID, core.Period{Year: 2025, Month: 12})
	if err != nil {
		t.Fatalf("active contract: %v", err)
	}
	if got.ID != c.ID {
		t.Fatalf("contract id = %d, want %d", got.ID, c.ID)
	}

	if _, err := s.ActiveContractForUnit(ctx, adminID, u.ID, core.Period{Year: 2027, Month: 1}); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("out-of-range err = %v, want ErrNotFound", err)
	}

	c.Status = core.ContractTerminated
	if _, err := s.UpdateContract(ctx, adminID, c); err != nil {
		t.Fatalf("terminate contract: %v", err)
	}
	if _, err := s.ActiveContractForUnit(ctx, adminID, u.ID, core.Period{Year: 2025, Month: 12}); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("terminated err = %v, want ErrNotFound", err)
	}
}

func TestSQLiteOwnershipHidesForeignRows(t *testing.T) {
	s := newSQLiteTestStore(t)
	ctx := context.Background()
	adminID, propID := seedSQLiteProperty(t, s)

	other, err := s.CreateAdmin(ctx, core.Admin{AuthUserID: "auth0|other", Name: "Otro", Email: "otro@example.com"})
	if err != nil {
		t.Fatalf("create admin: %v", err)
	}

	if _, err := s.GetProperty(ctx, other.ID, propID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("foreign property err = %v, want ErrNotFound", err)
	}
	e, err := s.CreateExpense(ctx, adminID, core.Expense{
		PropertyID: propID, Description: "agua", Amount: decimal.RequireFromString("300"), Period: core.Period{Year: 2025, Month: 1},
	})
	if err != nil {
		t.Fatalf("create expense: %v", err)
	}
	if _, err := s.GetExpense(ctx, other.ID, e.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("foreign expense err = %v, want ErrNotFound", err)
	}
}

func TestSQLiteReceiptStatusTransitions(t *testing.T) {
	s := newSQLiteTestStore(t)
	ctx := context.Background()
	adminID, propID := seedSQLiteProperty(t, s)
	p := core.Period{Year: 2025, Month: 6}

	u, err := s.CreateUnit(ctx, adminID, core.Unit{PropertyID: propID, Label: "1A", Floor: 1, ExpensePercentage: decimal.RequireFromString("100")})
	if err != nil {
		t.Fatalf("create unit: %v", err)
	}
	if _, err := s.CreateExpense(ctx, adminID, core.Expense{
		PropertyID: propID, Description: "expensas", Amount: decimal.RequireFromString("10000"), Period: p,
	}); err != nil {
		t.Fatalf("create expense: %v", err)
	}
	sum, err := s.GetSummary(ctx, adminID, propID, p)
	if err != nil {
		t.Fatalf("get summary: %v", err)
	}

	receipt := core.Receipt{
		ID: "c7b4e3be-0000-4000-8000-000000000001", SummaryID: sum.ID, UnitID: u.ID, Period: p,
		ExpenseAmount: decimal.RequireFromString("10000"),
		RentAmount:    decimal.Zero,
		Total:         decimal.RequireFromString("10000"),
		Status:        core.ReceiptPending,
	}
	if err := s.CreateReceipts(ctx, []core.Receipt{receipt}); err != nil {
		t.Fatalf("create receipts: %v", err)
	}

	if err := s.SetReceiptStatus(ctx, receipt.ID, core.ReceiptSent); err != nil {
		t.Fatalf("set status: %v", err)
	}
	got, err := s.GetReceipt(ctx, receipt.ID)
	if err != nil {
		t.Fatalf("get receipt: %v", err)
	}
	if got.Status != core.ReceiptSent {
		t.Fatalf("status = %s, want sent", got.Status)
	}
	if got.SentAt == nil {
		t.Fatal("sent_at not recorded")
	}
	if !got.Total.Equal(receipt.Total) {
		t.Fatalf("total = %s, want %s", got.Total, receipt.Total)
	}
}
