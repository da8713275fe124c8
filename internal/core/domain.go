package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	IndexICL     IndexKind = "icl"
	IndexIPC     IndexKind = "ipc"
	IndexAverage IndexKind = "average"
)

const (
	AdjustMonthly    AdjustmentFrequency = "monthly"
	AdjustQuarterly  AdjustmentFrequency = "quarterly"
	AdjustSemiannual AdjustmentFrequency = "semiannual"
	AdjustAnnual     AdjustmentFrequency = "annual"
)

const (
	RoleOwner  ResidentRole = "owner"
	RoleTenant ResidentRole = "tenant"
)

const (
	ContractActive     ContractStatus = "active"
	ContractTerminated ContractStatus = "terminated"
)

const (
	ReceiptPending ReceiptStatus = "pending"
	ReceiptSent    ReceiptStatus = "sent"
	ReceiptFailed  ReceiptStatus = "failed"
)

type (
	IndexKind           string
	AdjustmentFrequency string
	ResidentRole        string
	ContractStatus      string
	ReceiptStatus       string

	// Admin is the property-management account linked 1:1 to an
	// authenticated identity. Every ownership check starts here.
	Admin struct {
		ID         int64     `json:"id"`
		AuthUserID string    `json:"auth_user_id"`
		Name       string    `json:"name"`
		Email      string    `json:"email"`
		CreatedAt  time.Time `json:"created_at"`
	}

	Property struct {
		ID        int64     `json:"id"`
		AdminID   int64     `json:"admin_id"`
		Name      string    `json:"name"`
		Address   string    `json:"address"`
		City      string    `json:"city"`
		CreatedAt time.Time `json:"created_at"`
		UpdatedAt time.Time `json:"updated_at"`
	}

	Unit struct {
		ID         int64  `json:"id"`
		PropertyID int64  `json:"property_id"`
		Label      string `json:"label"`
		Floor      int    `json:"floor"`
		// Share of the property's monthly expenses, in percent.
		ExpensePercentage decimal.Decimal `json:"expense_percentage"`
		CreatedAt         time.Time       `json:"created_at"`
	}

	Resident struct {
		ID        int64        `json:"id"`
		UnitID    int64        `json:"unit_id"`
		Name      string       `json:"name"`
		Email     string       `json:"email"`
		Phone     string       `json:"phone"`
		Role      ResidentRole `json:"role"`
		CreatedAt time.Time    `json:"created_at"`
	}

	Contract struct {
		ID          int64               `json:"id"`
		UnitID      int64               `json:"unit_id"`
		ResidentID  int64               `json:"resident_id"`
		Start       Period              `json:"start"`
		End         Period              `json:"end"`
		InitialRent decimal.Decimal     `json:"initial_rent"`
		Index       IndexKind           `json:"index"`
		Frequency   AdjustmentFrequency `json:"frequency"`
		Status      ContractStatus      `json:"status"`
		CreatedAt   time.Time           `json:"created_at"`
	}

	ExpenseCategory struct {
		ID      int64  `json:"id"`
		AdminID int64  `json:"admin_id"`
		Name    string `json:"name"`
	}

	Expense struct {
		ID          int64           `json:"id"`
		PropertyID  int64           `json:"property_id"`
		CategoryID  int64           `json:"category_id,omitempty"`
		Description string          `json:"description"`
		Amount      decimal.Decimal `json:"amount"`
		Period      Period          `json:"period"`
		CreatedAt   time.Time       `json:"created_at"`
		UpdatedAt   time.Time       `json:"updated_at"`
	}

	// MonthlyExpenseSummary is the per-property-per-period aggregate of
	// expense totals. TotalExpenses is always a full re-sum of the linked
	// expense rows, never an incremental adjustment.
	MonthlyExpenseSummary struct {
		ID            int64           `json:"id"`
		PropertyID    int64           `json:"property_id"`
		Period        Period          `json:"period"`
		TotalExpenses decimal.Decimal `json:"total_expenses"`
	}

	// ExpenseAllocation is a unit's share of a monthly expense summary,
	// proportional to its configured percentage.
	ExpenseAllocation struct {
		ID         int64           `json:"id"`
		SummaryID  int64           `json:"summary_id"`
		UnitID     int64           `json:"unit_id"`
		Percentage decimal.Decimal `json:"percentage"`
		Amount     decimal.Decimal `json:"amount"`
	}

	// IndexValue is a published monthly value of an economic index
	// (ICL or IPC) used to escalate rent.
	IndexValue struct {
		ID     int64           `json:"id"`
		Kind   IndexKind       `json:"kind"`
		Period Period          `json:"period"`
		Value  decimal.Decimal `json:"value"`
	}

	// Receipt is the dispatchable record of a unit's liquidación: expense
	// allocation plus rent due for one period.
	Receipt struct {
		ID            string          `json:"id"`
		SummaryID     int64           `json:"summary_id"`
		UnitID        int64           `json:"unit_id"`
		Period        Period          `json:"period"`
		ExpenseAmount decimal.Decimal `json:"expense_amount"`
		RentAmount    decimal.Decimal `json:"rent_amount"`
		Total         decimal.Decimal `json:"total"`
		Status        ReceiptStatus   `json:"status"`
		CreatedAt     time.Time       `json:"created_at"`
		SentAt        *time.Time      `json:"sent_at,omitempty"`
	}
)

var (
	// ErrNotFound covers both missing rows and rows owned by another
	// admin; the two are deliberately indistinguishable to callers.
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")

	ErrInvalidPeriod     = errors.New("invalid period")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidPercentage = errors.New("invalid percentage")
	ErrEmptyName         = errors.New("empty name")
	ErrEmptyDescription  = errors.New("empty description")
)

// Months returns the number of months between rent adjustments.
func (f AdjustmentFrequency) Months() int {
	switch f {
	case AdjustMonthly:
		return 1
	case AdjustQuarterly:
		return 3
	case AdjustSemiannual:
		return 6
	case AdjustAnnual:
		return 12
	}
	return 0
}

func (f AdjustmentFrequency) Validate() error {
	if f.Months() == 0 {
		return errors.New("invalid adjustment frequency")
	}
	return nil
}

func (k IndexKind) Validate() error {
	switch k {
	case IndexICL, IndexIPC, IndexAverage:
		return nil
	}
	return errors.New("invalid index kind")
}

// PublishedKinds lists the kinds that carry published values. The
// synthetic "average" kind is derived from these two.
func PublishedKinds() []IndexKind {
	return []IndexKind{IndexICL, IndexIPC}
}

func (r ResidentRole) Validate() error {
	switch r {
	case RoleOwner, RoleTenant:
		return nil
	}
	return errors.New("invalid resident role")
}

func (p Property) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(p.Address) == "" {
		return errors.New("empty address")
	}
	return nil
}

func (u Unit) Validate() error {
	if strings.TrimSpace(u.Label) == "" {
		return ErrEmptyName
	}
	if u.ExpensePercentage.IsNegative() || u.ExpensePercentage.GreaterThan(decimal.NewFromInt(100)) {
		return ErrInvalidPercentage
	}
	return nil
}

func (r Resident) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrEmptyName
	}
	return r.Role.Validate()
}

func (c Contract) Validate() error {
	if err := c.Start.Validate(); err != nil {
		return err
	}
	if err := c.End.Validate(); err != nil {
		return err
	}
	if c.End.Before(c.Start) {
		return errors.New("contract end precedes start")
	}
	if !c.InitialRent.IsPositive() {
		return ErrInvalidAmount
	}
	if err := c.Index.Validate(); err != nil {
		return err
	}
	return c.Frequency.Validate()
}

func (e Expense) Validate() error {
	if err := e.Period.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.Description) == "" {
		return ErrEmptyDescription
	}
	if len(e.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if !e.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

func (v IndexValue) Validate() error {
	if v.Kind != IndexICL && v.Kind != IndexIPC {
		return errors.New("index kind must be icl or ipc")
	}
	if err := v.Period.Validate(); err != nil {
		return err
	}
	if !v.Value.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}
