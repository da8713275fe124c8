// Package storage persists the Expenzo domain model. The SQLite
// implementation is the production store; the in-memory implementation
// backs tests. All methods that take an adminID resolve ownership
// through the parent property and report foreign rows as
// core.ErrNotFound.
package storage

import (
	"context"

	"github.com/franalderete7/expenzo-sub000/internal/core"
)

// ExpenseFilter narrows ListExpenses. PropertyID is required; Period is
// optional (zero value lists every period).
type ExpenseFilter struct {
	PropertyID int64
	Period     core.Period
}

// AdminStore resolves authenticated identities to admin accounts.
type AdminStore interface {
	CreateAdmin(ctx context.Context, a core.Admin) (core.Admin, error)
	GetAdminByAuthUserID(ctx context.Context, authUserID string) (core.Admin, error)
}

// PropertyStore persists buildings.
type PropertyStore interface {
	CreateProperty(ctx context.Context, p core.Property) (core.Property, error)
	GetProperty(ctx context.Context, adminID, id int64) (core.Property, error)
	ListProperties(ctx context.Context, adminID int64) ([]core.Property, error)
	UpdateProperty(ctx context.Context, p core.Property) (core.Property, error)
	DeleteProperty(ctx context.Context, adminID, id int64) error
}

// UnitStore persists units inside a property.
type UnitStore interface {
	CreateUnit(ctx context.Context, adminID int64, u core.Unit) (core.Unit, error)
	GetUnit(ctx context.Context, adminID, propertyID, id int64) (core.Unit, error)
	ListUnits(ctx context.Context, adminID, propertyID int64) ([]core.Unit, error)
	UpdateUnit(ctx context.Context, adminID int64, u core.Unit) (core.Unit, error)
	DeleteUnit(ctx context.Context, adminID, propertyID, id int64) error
}

// ResidentStore persists residents. A unit holds at most one resident;
// creating a second one reports core.ErrConflict.
type ResidentStore interface {
	CreateResident(ctx context.Context, adminID int64, r core.Resident) (core.Resident, error)
	GetResident(ctx context.Context, adminID, id int64) (core.Resident, error)
	ListResidents(ctx context.Context, adminID int64) ([]core.Resident, error)
	UpdateResident(ctx context.Context, adminID int64, r core.Resident) (core.Resident, error)
	DeleteResident(ctx context.Context, adminID, id int64) error
}

// ContractStore persists leases.
type ContractStore interface {
	CreateContract(ctx context.Context, adminID int64, c core.Contract) (core.Contract, error)
	GetContract(ctx context.Context, adminID, id int64) (core.Contract, error)
	ListContracts(ctx context.Context, adminID int64) ([]core.Contract, error)
	UpdateContract(ctx context.Context, adminID int64, c core.Contract) (core.Contract, error)
	DeleteContract(ctx context.Context, adminID, id int64) error
	// ActiveContractForUnit returns the active contract covering the
	// period, or core.ErrNotFound when the unit has none.
	ActiveContractForUnit(ctx context.Context, adminID, unitID int64, p core.Period) (core.Contract, error)
}

// CategoryStore persists expense categories, scoped per admin.
type CategoryStore interface {
	CreateCategory(ctx context.Context, c core.ExpenseCategory) (core.ExpenseCategory, error)
	ListCategories(ctx context.Context, adminID int64) ([]core.ExpenseCategory, error)
	UpdateCategory(ctx context.Context, c core.ExpenseCategory) (core.ExpenseCategory, error)
	DeleteCategory(ctx context.Context, adminID, id int64) error
}

// ExpenseStore persists expenses. Every mutation recomputes the
// affected monthly summary rows in the same transaction: the new
// period's on create, both the old and the new period's when an update
// moves the expense, and the old period's on delete. Recomputation is a
// full re-sum of the linked rows.
type ExpenseStore interface {
	CreateExpense(ctx context.Context, adminID int64, e core.Expense) (core.Expense, error)
	GetExpense(ctx context.Context, adminID, id int64) (core.Expense, error)
	ListExpenses(ctx context.Context, adminID int64, f ExpenseFilter) ([]core.Expense, error)
	UpdateExpense(ctx context.Context, adminID int64, e core.Expense) (core.Expense, error)
	DeleteExpense(ctx context.Context, adminID, id int64) error
}

// SummaryStore reads the maintained per-period aggregates.
type SummaryStore interface {
	GetSummary(ctx context.Context, adminID, propertyID int64, p core.Period) (core.MonthlyExpenseSummary, error)
	ListSummaries(ctx context.Context, adminID, propertyID int64) ([]core.MonthlyExpenseSummary, error)
}

// AllocationStore persists per-unit shares of a summary. The batch
// insert is all-or-nothing and reports core.ErrConflict when the
// summary already has allocations.
type AllocationStore interface {
	CreateAllocations(ctx context.Context, summaryID int64, allocs []core.ExpenseAllocation) ([]core.ExpenseAllocation, error)
	ListAllocations(ctx context.Context, summaryID int64) ([]core.ExpenseAllocation, error)
	DeleteAllocations(ctx context.Context, summaryID int64) error
}

// IndexStore persists published ICL/IPC values. A duplicate
// (kind, period) insert reports core.ErrConflict; Upsert overwrites.
type IndexStore interface {
	CreateIndexValue(ctx context.Context, v core.IndexValue) (core.IndexValue, error)
	UpsertIndexValue(ctx context.Context, v core.IndexValue) (core.IndexValue, error)
	ListIndexValues(ctx context.Context, kind core.IndexKind) ([]core.IndexValue, error)
	UpdateIndexValue(ctx context.Context, v core.IndexValue) (core.IndexValue, error)
	DeleteIndexValue(ctx context.Context, kind core.IndexKind, id int64) error
}

// ReceiptStore persists liquidación receipts and their dispatch state.
type ReceiptStore interface {
	CreateReceipts(ctx context.Context, receipts []core.Receipt) error
	GetReceipt(ctx context.Context, id string) (core.Receipt, error)
	SetReceiptStatus(ctx context.Context, id string, status core.ReceiptStatus) error
	ListReceipts(ctx context.Context, summaryID int64) ([]core.Receipt, error)
}

// Store aggregates every persistence concern the services need.
type Store interface {
	AdminStore
	PropertyStore
	UnitStore
	ResidentStore
	ContractStore
	CategoryStore
	ExpenseStore
	SummaryStore
	AllocationStore
	IndexStore
	ReceiptStore

	Close() error
}
