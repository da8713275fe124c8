package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/franalderete7/expenzo-sub000/internal/core"
)

// MemoryStore is an in-memory Store used by tests and local development.
// It mirrors the SQLite store's ownership and conflict semantics.
type MemoryStore struct {
	mu sync.RWMutex

	nextID int64

	admins      map[int64]core.Admin
	properties  map[int64]core.Property
	units       map[int64]core.Unit
	residents   map[int64]core.Resident
	contracts   map[int64]core.Contract
	categories  map[int64]core.ExpenseCategory
	expenses    map[int64]core.Expense
	summaries   map[int64]core.MonthlyExpenseSummary
	allocations map[int64]core.ExpenseAllocation
	indexValues map[int64]core.IndexValue
	receipts    map[string]core.Receipt
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		admins:      make(map[int64]core.Admin),
		properties:  make(map[int64]core.Property),
		units:       make(map[int64]core.Unit),
		residents:   make(map[int64]core.Resident),
		contracts:   make(map[int64]core.Contract),
		categories:  make(map[int64]core.ExpenseCategory),
		expenses:    make(map[int64]core.Expense),
		summaries:   make(map[int64]core.MonthlyExpenseSummary),
		allocations: make(map[int64]core.ExpenseAllocation),
		indexValues: make(map[int64]core.IndexValue),
		receipts:    make(map[string]core.Receipt),
	}
}

func (m *MemoryStore) Close() error { return nil }

func (m *MemoryStore) id() int64 {
	m.nextID++
	return m.nextID
}

// --- AdminStore -------------------------------------------------------------

func (m *MemoryStore) CreateAdmin(_ context.Context, a core.Admin) (core.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.admins {
		if existing.AuthUserID == a.AuthUserID {
			return core.Admin{}, core.ErrConflict
		}
	}
	a.ID = m.id()
	a.CreatedAt = time.Now().UTC()
	m.admins[a.ID] = a
	return a, nil
}

func (m *MemoryStore) GetAdminByAuthUserID(_ context.Context, authUserID string) (core.Admin, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.admins {
		if a.AuthUserID == authUserID {
			return a, nil
		}
	}
	return core.Admin{}, core.ErrNotFound
}

// --- PropertyStore ----------------------------------------------------------

func (m *MemoryStore) CreateProperty(_ context.Context, p core.Property) (core.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = m.id()
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	m.properties[p.ID] = p
	return p, nil
}

func (m *MemoryStore) getProperty(adminID, id int64) (core.Property, error) {
	p, ok := m.properties[id]
	if !ok || p.AdminID != adminID {
		return core.Property{}, core.ErrNotFound
	}
	return p, nil
}

func (m *MemoryStore) GetProperty(_ context.Context, adminID, id int64) (core.Property, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.getProperty(adminID, id)
}

func (m *MemoryStore) ListProperties(_ context.Context, adminID int64) ([]core.Property, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []core.Property
	for _, p := range m.properties {
		if p.AdminID == adminID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) UpdateProperty(_ context.Context, p core.Property) (core.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, err := m.getProperty(p.AdminID, p.ID)
	if err != nil {
		return core.Property{}, err
	}
	existing.Name = p.Name
	existing.Address = p.Address
	existing.City = p.City
	existing.UpdatedAt = time.Now().UTC()
	m.properties[existing.ID] = existing
	return existing, nil
}

func (m *MemoryStore) DeleteProperty(_ context.Context, adminID, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.getProperty(adminID, id); err != nil {
		return err
	}
	delete(m.properties, id)
	for uid, u := range m.units {
		if u.PropertyID == id {
			delete(m.units, uid)
		}
	}
	return nil
}

// --- UnitStore --------------------------------------------------------------

func (m *MemoryStore) CreateUnit(_ context.Context, adminID int64, u core.Unit) (core.Unit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.getProperty(adminID, u.PropertyID); err != nil {
		return core.Unit{}, err
	}
	for _, existing := range m.units {
		if existing.PropertyID == u.PropertyID && existing.Label == u.Label {
			return core.Unit{}, core.ErrConflict
		}
	}
	u.ID = m.id()
	u.CreatedAt = time.Now().UTC()
	m.units[u.ID] = u
	return u, nil
}

func (m *MemoryStore) getUnit(adminID, propertyID, id int64) (core.Unit, error) {
	u, ok := m.units[id]
	if !ok || u.PropertyID != propertyID {
		return core.Unit{}, core.ErrNotFound
	}
	if _, err := m.getProperty(adminID, propertyID); err != nil {
		return core.Unit{}, err
	}
	return u, nil
}

func (m *MemoryStore) GetUnit(_ context.Context, adminID, propertyID, id int64) (core.Unit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.getUnit(adminID, propertyID, id)
}

func (m *MemoryStore) ListUnits(_ context.Context, adminID, propertyID int64) ([]core.Unit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, err := m.getProperty(adminID, propertyID); err != nil {
		return nil, err
	}
	var out []core.Unit
	for _, u := range m.units {
		if u.PropertyID == propertyID {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out, nil
}

func (m *MemoryStore) UpdateUnit(_ context.Context, adminID int64, u core.Unit) (core.Unit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, err := m.getUnit(adminID, u.PropertyID, u.ID)
	if err != nil {
		return core.Unit{}, err
	}
	for _, other := range m.units {
		if other.ID != u.ID && other.PropertyID == u.PropertyID && other.Label == u.Label {
			return core.Unit{}, core.ErrConflict
		}
	}
	existing.Label = u.Label
	existing.Floor = u.Floor
	existing.ExpensePercentage = u.ExpensePercentage
	m.units[existing.ID] = existing
	return existing, nil
}

func (m *MemoryStore) DeleteUnit(_ context.Context, adminID, propertyID, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.getUnit(adminID, propertyID, id); err != nil {
		return err
	}
	delete(m.units, id)
	return nil
}

func (m *MemoryStore) unitOwned(adminID, unitID int64) (core.Unit, error) {
	u, ok := m.units[unitID]
	if !ok {
		return core.Unit{}, core.ErrNotFound
	}
	if _, err := m.getProperty(adminID, u.PropertyID); err != nil {
		return core.Unit{}, err
	}
	return u, nil
}

// --- ResidentStore ----------------------------------------------------------

func (m *MemoryStore) CreateResident(_ context.Context, adminID int64, r core.Resident) (core.Resident, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.unitOwned(adminID, r.UnitID); err != nil {
		return core.Resident{}, err
	}
	for _, existing := range m.residents {
		if existing.UnitID == r.UnitID {
			return core.Resident{}, core.ErrConflict
		}
	}
	r.ID = m.id()
	r.CreatedAt = time.Now().UTC()
	m.residents[r.ID] = r
	return r, nil
}

func (m *MemoryStore) getResident(adminID, id int64) (core.Resident, error) {
	r, ok := m.residents[id]
	if !ok {
		return core.Resident{}, core.ErrNotFound
	}
	if _, err := m.unitOwned(adminID, r.UnitID); err != nil {
		return core.Resident{}, core.ErrNotFound
	}
	return r, nil
}

func (m *MemoryStore) GetResident(_ context.Context, adminID, id int64) (core.Resident, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.getResident(adminID, id)
}

func (m *MemoryStore) ListResidents(_ context.Context, adminID int64) ([]core.Resident, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []core.Resident
	for _, r := range m.residents {
		if _, err := m.getResident(adminID, r.ID); err == nil {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) UpdateResident(_ context.Context, adminID int64, r core.Resident) (core.Resident, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, err := m.getResident(adminID, r.ID)
	if err != nil {
		return core.Resident{}, err
	}
	existing.Name = r.Name
	existing.Email = r.Email
	existing.Phone = r.Phone
	existing.Role = r.Role
	m.residents[existing.ID] = existing
	return existing, nil
}

func (m *MemoryStore) DeleteResident(_ context.Context, adminID, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.getResident(adminID, id); err != nil {
		return err
	}
	delete(m.residents, id)
	return nil
}

// --- ContractStore ----------------------------------------------------------

func (m *MemoryStore) CreateContract(_ context.Context, adminID int64, c core.Contract) (core.Contract, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.unitOwned(adminID, c.UnitID); err != nil {
		return core.Contract{}, err
	}
	if _, err := m.getResident(adminID, c.ResidentID); err != nil {
		return core.Contract{}, err
	}
	if c.Status == "" {
		c.Status = core.ContractActive
	}
	c.ID = m.id()
	c.CreatedAt = time.Now().UTC()
	m.contracts[c.ID] = c
	return c, nil
}

func (m *MemoryStore) getContract(adminID, id int64) (core.Contract, error) {
	c, ok := m.contracts[id]
	if !ok {
		return core.Contract{}, core.ErrNotFound
	}
	if _, err := m.unitOwned(adminID, c.UnitID); err != nil {
		return core.Contract{}, core.ErrNotFound
	}
	return c, nil
}

func (m *MemoryStore) GetContract(_ context.Context, adminID, id int64) (core.Contract, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.getContract(adminID, id)
}

func (m *MemoryStore) ListContracts(_ context.Context, adminID int64) ([]core.Contract, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []core.Contract
	for _, c := range m.contracts {
		if _, err := m.getContract(adminID, c.ID); err == nil {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) UpdateContract(_ context.Context, adminID int64, c core.Contract) (core.Contract, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, err := m.getContract(adminID, c.ID)
	if err != nil {
		return core.Contract{}, err
	}
	existing.Start = c.Start
	existing.End = c.End
	existing.InitialRent = c.InitialRent
	existing.Index = c.Index
	existing.Frequency = c.Frequency
	existing.Status = c.Status
	m.contracts[existing.ID] = existing
	return existing, nil
}

func (m *MemoryStore) DeleteContract(_ context.Context, adminID, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.getContract(adminID, id); err != nil {
		return err
	}
	delete(m.contracts, id)
	return nil
}

func (m *MemoryStore) ActiveContractForUnit(_ context.Context, adminID, unitID int64, p core.Period) (core.Contract, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var best core.Contract
	found := false
	for _, c := range m.contracts {
		if c.UnitID != unitID || c.Status != core.ContractActive {
			continue
		}
		if _, err := m.getContract(adminID, c.ID); err != nil {
			continue
		}
		if c.Start.After(p) || c.End.Before(p) {
			continue
		}
		if !found || c.ID > best.ID {
			best = c
			found = true
		}
	}
	if !found {
		return core.Contract{}, core.ErrNotFound
	}
	return best, nil
}

// --- CategoryStore ----------------------------------------------------------

func (m *MemoryStore) CreateCategory(_ context.Context, c core.ExpenseCategory) (core.ExpenseCategory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.categories {
		if existing.AdminID == c.AdminID && existing.Name == c.Name {
			return core.ExpenseCategory{}, core.ErrConflict
		}
	}
	c.ID = m.id()
	m.categories[c.ID] = c
	return c, nil
}

func (m *MemoryStore) ListCategories(_ context.Context, adminID int64) ([]core.ExpenseCategory, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []core.ExpenseCategory
	for _, c := range m.categories {
		if c.AdminID == adminID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryStore) UpdateCategory(_ context.Context, c core.ExpenseCategory) (core.ExpenseCategory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.categories[c.ID]
	if !ok || existing.AdminID != c.AdminID {
		return core.ExpenseCategory{}, core.ErrNotFound
	}
	for _, other := range m.categories {
		if other.ID != c.ID && other.AdminID == c.AdminID && other.Name == c.Name {
			return core.ExpenseCategory{}, core.ErrConflict
		}
	}
	existing.Name = c.Name
	m.categories[existing.ID] = existing
	return existing, nil
}

func (m *MemoryStore) DeleteCategory(_ context.Context, adminID, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.categories[id]
	if !ok || existing.AdminID != adminID {
		return core.ErrNotFound
	}
	delete(m.categories, id)
	return nil
}

// --- ExpenseStore -----------------------------------------------------------

func (m *MemoryStore) CreateExpense(_ context.Context, adminID int64, e core.Expense) (core.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.getProperty(adminID, e.PropertyID); err != nil {
		return core.Expense{}, err
	}
	e.ID = m.id()
	now := time.Now().UTC()
	e.CreatedAt, e.UpdatedAt = now, now
	m.expenses[e.ID] = e
	m.recomputeSummary(e.PropertyID, e.Period)
	return e, nil
}

func (m *MemoryStore) getExpense(adminID, id int64) (core.Expense, error) {
	e, ok := m.expenses[id]
	if !ok {
		return core.Expense{}, core.ErrNotFound
	}
	if _, err := m.getProperty(adminID, e.PropertyID); err != nil {
		return core.Expense{}, core.ErrNotFound
	}
	return e, nil
}

func (m *MemoryStore) GetExpense(_ context.Context, adminID, id int64) (core.Expense, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.getExpense(adminID, id)
}

func (m *MemoryStore) ListExpenses(_ context.Context, adminID int64, f ExpenseFilter) ([]core.Expense, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, err := m.getProperty(adminID, f.PropertyID); err != nil {
		return nil, err
	}
	var out []core.Expense
	for _, e := range m.expenses {
		if e.PropertyID != f.PropertyID {
			continue
		}
		if f.Period != (core.Period{}) && !e.Period.Equal(f.Period) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Period.Equal(out[j].Period) {
			return out[i].Period.Before(out[j].Period)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *MemoryStore) UpdateExpense(_ context.Context, adminID int64, e core.Expense) (core.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, err := m.getExpense(adminID, e.ID)
	if err != nil {
		return core.Expense{}, err
	}
	e.PropertyID = old.PropertyID
	e.CreatedAt = old.CreatedAt
	e.UpdatedAt = time.Now().UTC()
	m.expenses[e.ID] = e
	m.recomputeSummary(old.PropertyID, old.Period)
	if !e.Period.Equal(old.Period) {
		m.recomputeSummary(old.PropertyID, e.Period)
	}
	return e, nil
}

func (m *MemoryStore) DeleteExpense(_ context.Context, adminID, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, err := m.getExpense(adminID, id)
	if err != nil {
		return err
	}
	delete(m.expenses, id)
	m.recomputeSummary(old.PropertyID, old.Period)
	return nil
}

func (m *MemoryStore) recomputeSummary(propertyID int64, p core.Period) {
	total := decimal.Zero
	for _, e := range m.expenses {
		if e.PropertyID == propertyID && e.Period.Equal(p) {
			total = total.Add(e.Amount)
		}
	}
	for id, s := range m.summaries {
		if s.PropertyID == propertyID && s.Period.Equal(p) {
			s.TotalExpenses = total
			m.summaries[id] = s
			return
		}
	}
	id := m.id()
	m.summaries[id] = core.MonthlyExpenseSummary{
		ID:            id,
		PropertyID:    propertyID,
		Period:        p,
		TotalExpenses: total,
	}
}

// --- SummaryStore -----------------------------------------------------------

func (m *MemoryStore) GetSummary(_ context.Context, adminID, propertyID int64, p core.Period) (core.MonthlyExpenseSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, err := m.getProperty(adminID, propertyID); err != nil {
		return core.MonthlyExpenseSummary{}, err
	}
	for _, s := range m.summaries {
		if s.PropertyID == propertyID && s.Period.Equal(p) {
			return s, nil
		}
	}
	return core.MonthlyExpenseSummary{}, core.ErrNotFound
}

func (m *MemoryStore) ListSummaries(_ context.Context, adminID, propertyID int64) ([]core.MonthlyExpenseSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, err := m.getProperty(adminID, propertyID); err != nil {
		return nil, err
	}
	var out []core.MonthlyExpenseSummary
	for _, s := range m.summaries {
		if s.PropertyID == propertyID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period.Before(out[j].Period) })
	return out, nil
}

// --- AllocationStore --------------------------------------------------------

func (m *MemoryStore) CreateAllocations(_ context.Context, summaryID int64, allocs []core.ExpenseAllocation) ([]core.ExpenseAllocation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.allocations {
		if a.SummaryID == summaryID {
			return nil, core.ErrConflict
		}
	}
	out := make([]core.ExpenseAllocation, 0, len(allocs))
	for _, a := range allocs {
		a.ID = m.id()
		a.SummaryID = summaryID
		m.allocations[a.ID] = a
		out = append(out, a)
	}
	return out, nil
}

func (m *MemoryStore) ListAllocations(_ context.Context, summaryID int64) ([]core.ExpenseAllocation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []core.ExpenseAllocation
	for _, a := range m.allocations {
		if a.SummaryID == summaryID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UnitID < out[j].UnitID })
	return out, nil
}

func (m *MemoryStore) DeleteAllocations(_ context.Context, summaryID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, a := range m.allocations {
		if a.SummaryID == summaryID {
			delete(m.allocations, id)
		}
	}
	return nil
}

// --- IndexStore -------------------------------------------------------------

func (m *MemoryStore) CreateIndexValue(_ context.Context, v core.IndexValue) (core.IndexValue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.indexValues {
		if existing.Kind == v.Kind && existing.Period.Equal(v.Period) {
			return core.IndexValue{}, core.ErrConflict
		}
	}
	v.ID = m.id()
	m.indexValues[v.ID] = v
	return v, nil
}

func (m *MemoryStore) UpsertIndexValue(_ context.Context, v core.IndexValue) (core.IndexValue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, existing := range m.indexValues {
		if existing.Kind == v.Kind && existing.Period.Equal(v.Period) {
			existing.Value = v.Value
			m.indexValues[id] = existing
			return existing, nil
		}
	}
	v.ID = m.id()
	m.indexValues[v.ID] = v
	return v, nil
}

func (m *MemoryStore) ListIndexValues(_ context.Context, kind core.IndexKind) ([]core.IndexValue, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []core.IndexValue
	for _, v := range m.indexValues {
		if v.Kind == kind {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period.Before(out[j].Period) })
	return out, nil
}

func (m *MemoryStore) UpdateIndexValue(_ context.Context, v core.IndexValue) (core.IndexValue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.indexValues[v.ID]
	if !ok || existing.Kind != v.Kind {
		return core.IndexValue{}, core.ErrNotFound
	}
	existing.Value = v.Value
	m.indexValues[existing.ID] = existing
	return existing, nil
}

func (m *MemoryStore) DeleteIndexValue(_ context.Context, kind core.IndexKind, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.indexValues[id]
	if !ok || existing.Kind != kind {
		return core.ErrNotFound
	}
	delete(m.indexValues, id)
	return nil
}

// --- ReceiptStore -----------------------------------------------------------

func (m *MemoryStore) CreateReceipts(_ context.Context, receipts []core.Receipt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range receipts {
		m.receipts[r.ID] = r
	}
	return nil
}

func (m *MemoryStore) GetReceipt(_ context.Context, id string) (core.Receipt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.receipts[id]
	if !ok {
		return core.Receipt{}, core.ErrNotFound
	}
	return r, nil
}

func (m *MemoryStore) SetReceiptStatus(_ context.Context, id string, status core.ReceiptStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.receipts[id]
	if !ok {
		return core.ErrNotFound
	}
	r.Status = status
	if status == core.ReceiptSent {
		now := time.Now().UTC()
		r.SentAt = &now
	}
	m.receipts[id] = r
	return nil
}

func (m *MemoryStore) ListReceipts(_ context.Context, summaryID int64) ([]core.Receipt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []core.Receipt
	for _, r := range m.receipts {
		if r.SummaryID == summaryID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UnitID < out[j].UnitID })
	return out, nil
}
