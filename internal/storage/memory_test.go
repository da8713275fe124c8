package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/franalderete7/expenzo-sub000/internal/core"
)

func seedProperty(t *testing.T, s *MemoryStore) (adminID int64, propertyID int64) {
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

func TestExpenseCreateRecomputesSummary(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	adminID, propID := seedProperty(t, s)
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

func TestExpenseUpdateMovesPeriodTotals(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	adminID, propID := seedProperty(t, s)
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

func TestExpenseDeleteLastLeavesSummaryZero(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	adminID, propID := seedProperty(t, s)
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

func TestOwnershipHidesForeignRows(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	adminID, propID := seedProperty(t, s)

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

func TestSecondResidentOnUnitConflicts(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	adminID, propID := seedProperty(t, s)

	u, err := s.CreateUnit(ctx, adminID, core.Unit{PropertyID: propID, Label: "1A", ExpensePercentage: decimal.RequireFromString("50")})
	if err != nil {
		t.Fatalf("create unit: %v", err)
	}
	if _, err := s.CreateResident(ctx, adminID, core.Resident{UnitID: u.ID, Name: "Ana", Role: core.RoleTenant}); err != nil {
		t.Fatalf("create resident: %v", err)
	}
	_, err = s.CreateResident(ctx, adminID, core.Resident{UnitID: u.ID, Name: "Beto", Role: core.RoleTenant})
	if !errors.Is(err, core.ErrConflict) {
		t.Fatalf("second resident err = %v, want ErrConflict", err)
	}
}

func TestAllocationsAllOrNothing(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	adminID, propID := seedProperty(t, s)
	p := core.Period{Year: 2025, Month: 6}

	if _, err := s.CreateExpense(ctx, adminID, core.Expense{
		PropertyID: propID, Description: "gas", Amount: decimal.RequireFromString("10000"), Period: p,
	}); err != nil {
		t.Fatalf("create expense: %v", err)
	}
	sum, err := s.GetSummary(ctx, adminID, propID, p)
	if err != nil {
		t.Fatalf("get summary: %v", err)
	}

	allocs := []core.ExpenseAllocation{
		{UnitID: 1, Percentage: decimal.RequireFromString("60"), Amount: decimal.RequireFromString("6000")},
		{UnitID: 2, Percentage: decimal.RequireFromString("40"), Amount: decimal.RequireFromString("4000")},
	}
	if _, err := s.CreateAllocations(ctx, sum.ID, allocs); err != nil {
		t.Fatalf("create allocations: %v", err)
	}
	if _, err := s.CreateAllocations(ctx, sum.ID, allocs); !errors.Is(err, core.ErrConflict) {
		t.Fatalf("duplicate allocations err = %v, want ErrConflict", err)
	}

	if err := s.DeleteAllocations(ctx, sum.ID); err != nil {
		t.Fatalf("delete allocations: %v", err)
	}
	got, err := s.ListAllocations(ctx, sum.ID)
	if err != nil {
		t.Fatalf("list allocations: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("allocations remaining = %d, want 0", len(got))
	}
}

func TestDuplicateIndexPeriodConflicts(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	v := core.IndexValue{Kind: core.IndexICL, Period: core.Period{Year: 2025, Month: 2}, Value: decimal.RequireFromString("1.056")}

	if _, err := s.CreateIndexValue(ctx, v); err != nil {
		t.Fatalf("create index value: %v", err)
	}
	if _, err := s.CreateIndexValue(ctx, v); !errors.Is(err, core.ErrConflict) {
		t.Fatalf("duplicate index err = %v, want ErrConflict", err)
	}

	up, err := s.UpsertIndexValue(ctx, core.IndexValue{Kind: core.IndexICL, Period: v.Period, Value: decimal.RequireFromString("1.060")})
	if err != nil {
		t.Fatalf("upsert index value: %v", err)
	}
	if !up.Value.Equal(decimal.RequireFromString("1.060")) {
		t.Fatalf("upserted value = %s, want 1.060", up.Value)
	}
}

func TestActiveContractForUnit(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	adminID, propID := seedProperty(t, s)

	u, err := s.CreateUnit(ctx, adminID, core.Unit{PropertyID: propID, Label: "2B", ExpensePercentage: decimal.RequireFromString("25")})
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
	})
	if err != nil {
		t.Fatalf("create contract: %v", err)
	}

	got, err := s.ActiveContractForUnit(ctx, adminID, u.ID, core.Period{Year: 2025, Month: 6})
	if err != nil {
		t.Fatalf("active contract: %v", err)
	}
	if got.ID != c.ID {
		t.Fatalf("contract id = %d, want %d", got.ID, c.ID)
	}

	if _, err := s.ActiveContractForUnit(ctx, adminID, u.ID, core.Period{Year: 2027, Month: 1}); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("out-of-range contract err = %v, want ErrNotFound", err)
	}
}
