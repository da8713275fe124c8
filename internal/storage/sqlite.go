package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/franalderete7/expenzo-sub000/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store on a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func parseDec(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse stored decimal %q: %w", s, err)
	}
	return d, nil
}

// --- AdminStore -------------------------------------------------------------

func (s *SQLiteStore) CreateAdmin(ctx context.Context, a core.Admin) (core.Admin, error) {
	a.CreatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO admins (auth_user_id, name, email, created_at)
		VALUES (?, ?, ?, ?)`,
		a.AuthUserID, a.Name, a.Email, a.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return core.Admin{}, core.ErrConflict
		}
		return core.Admin{}, fmt.Errorf("insert admin: %w", err)
	}
	a.ID, _ = res.LastInsertId()
	return a, nil
}

func (s *SQLiteStore) GetAdminByAuthUserID(ctx context.Context, authUserID string) (core.Admin, error) {
	var a core.Admin
	err := s.db.QueryRowContext(ctx, `
		SELECT id, auth_user_id, name, email, created_at
		FROM admins WHERE auth_user_id = ?`, authUserID).
		Scan(&a.ID, &a.AuthUserID, &a.Name, &a.Email, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Admin{}, core.ErrNotFound
	}
	if err != nil {
		return core.Admin{}, fmt.Errorf("get admin: %w", err)
	}
	return a, nil
}

// --- PropertyStore ----------------------------------------------------------

func (s *SQLiteStore) CreateProperty(ctx context.Context, p core.Property) (core.Property, error) {
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO properties (admin_id, name, address, city, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.AdminID, p.Name, p.Address, p.City, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return core.Property{}, fmt.Errorf("insert property: %w", err)
	}
	p.ID, _ = res.LastInsertId()
	return p, nil
}

func (s *SQLiteStore) GetProperty(ctx context.Context, adminID, id int64) (core.Property, error) {
	var p core.Property
	err := s.db.QueryRowContext(ctx, `
		SELECT id, admin_id, name, address, city, created_at, updated_at
		FROM properties WHERE id = ? AND admin_id = ?`, id, adminID).
		Scan(&p.ID, &p.AdminID, &p.Name, &p.Address, &p.City, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Property{}, core.ErrNotFound
	}
	if err != nil {
		return core.Property{}, fmt.Errorf("get property: %w", err)
	}
	return p, nil
}

func (s *SQLiteStore) ListProperties(ctx context.Context, adminID int64) ([]core.Property, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, admin_id, name, address, city, created_at, updated_at
		FROM properties WHERE admin_id = ? ORDER BY id`, adminID)
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	defer rows.Close()

	var out []core.Property
	for rows.Next() {
		var p core.Property
		if err := rows.Scan(&p.ID, &p.AdminID, &p.Name, &p.Address, &p.City, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan property: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) UpdateProperty(ctx context.Context, p core.Property) (core.Property, error) {
	p.UpdatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		UPDATE properties SET name = ?, address = ?, city = ?, updated_at = ?
		WHERE id = ? AND admin_id = ?`,
		p.Name, p.Address, p.City, p.UpdatedAt, p.ID, p.AdminID)
	if err != nil {
		return core.Property{}, fmt.Errorf("update property: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.Property{}, core.ErrNotFound
	}
	return s.GetProperty(ctx, p.AdminID, p.ID)
}

func (s *SQLiteStore) DeleteProperty(ctx context.Context, adminID, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM properties WHERE id = ? AND admin_id = ?`, id, adminID)
	if err != nil {
		return fmt.Errorf("delete property: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) propertyOwned(ctx context.Context, q queryer, adminID, propertyID int64) error {
	var one int
	err := q.QueryRowContext(ctx,
		`SELECT 1 FROM properties WHERE id = ? AND admin_id = ?`, propertyID, adminID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return core.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("check property ownership: %w", err)
	}
	return nil
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// --- UnitStore --------------------------------------------------------------

func (s *SQLiteStore) CreateUnit(ctx context.Context, adminID int64, u core.Unit) (core.Unit, error) {
	if err := s.propertyOwned(ctx, s.db, adminID, u.PropertyID); err != nil {
		return core.Unit{}, err
	}
	u.CreatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO units (property_id, label, floor, expense_percentage, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		u.PropertyID, u.Label, u.Floor, u.ExpensePercentage.String(), u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return core.Unit{}, core.ErrConflict
		}
		return core.Unit{}, fmt.Errorf("insert unit: %w", err)
	}
	u.ID, _ = res.LastInsertId()
	return u, nil
}

func scanUnit(row interface{ Scan(...any) error }) (core.Unit, error) {
	var u core.Unit
	var pct string
	if err := row.Scan(&u.ID, &u.PropertyID, &u.Label, &u.Floor, &pct, &u.CreatedAt); err != nil {
		return core.Unit{}, err
	}
	var err error
	u.ExpensePercentage, err = parseDec(pct)
	return u, err
}

func (s *SQLiteStore) GetUnit(ctx context.Context, adminID, propertyID, id int64) (core.Unit, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT u.id, u.property_id, u.label, u.floor, u.expense_percentage, u.created_at
		FROM units u JOIN properties p ON p.id = u.property_id
		WHERE u.id = ? AND u.property_id = ? AND p.admin_id = ?`, id, propertyID, adminID)
	u, err := scanUnit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Unit{}, core.ErrNotFound
	}
	if err != nil {
		return core.Unit{}, fmt.Errorf("get unit: %w", err)
	}
	return u, nil
}

func (s *SQLiteStore) ListUnits(ctx context.Context, adminID, propertyID int64) ([]core.Unit, error) {
	if err := s.propertyOwned(ctx, s.db, adminID, propertyID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, property_id, label, floor, expense_percentage, created_at
		FROM units WHERE property_id = ? ORDER BY label`, propertyID)
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	defer rows.Close()

	var out []core.Unit
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan unit: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) UpdateUnit(ctx context.Context, adminID int64, u core.Unit) (core.Unit, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE units SET label = ?, floor = ?, expense_percentage = ?
		WHERE id = ? AND property_id = ?
		  AND property_id IN (SELECT id FROM properties WHERE admin_id = ?)`,
		u.Label, u.Floor, u.ExpensePercentage.String(), u.ID, u.PropertyID, adminID)
	if err != nil {
		if isUniqueViolation(err) {
			return core.Unit{}, core.ErrConflict
		}
		return core.Unit{}, fmt.Errorf("update unit: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.Unit{}, core.ErrNotFound
	}
	return s.GetUnit(ctx, adminID, u.PropertyID, u.ID)
}

func (s *SQLiteStore) DeleteUnit(ctx context.Context, adminID, propertyID, id int64) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM units WHERE id = ? AND property_id = ?
		  AND property_id IN (SELECT id FROM properties WHERE admin_id = ?)`,
		id, propertyID, adminID)
	if err != nil {
		return fmt.Errorf("delete unit: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) unitOwned(ctx context.Context, adminID, unitID int64) error {
	var one int
	err := s.db.QueryRowContext(ctx, `
		SELECT 1 FROM units u JOIN properties p ON p.id = u.property_id
		WHERE u.id = ? AND p.admin_id = ?`, unitID, adminID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return core.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("check unit ownership: %w", err)
	}
	return nil
}

// --- ResidentStore ----------------------------------------------------------

func (s *SQLiteStore) CreateResident(ctx context.Context, adminID int64, r core.Resident) (core.Resident, error) {
	if err := s.unitOwned(ctx, adminID, r.UnitID); err != nil {
		return core.Resident{}, err
	}
	r.CreatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO residents (unit_id, name, email, phone, role, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		r.UnitID, r.Name, r.Email, r.Phone, string(r.Role), r.CreatedAt)
	if err != nil {
		// unit_id is unique: one resident per unit
		if isUniqueViolation(err) {
			return core.Resident{}, core.ErrConflict
		}
		return core.Resident{}, fmt.Errorf("insert resident: %w", err)
	}
	r.ID, _ = res.LastInsertId()
	return r, nil
}

func (s *SQLiteStore) GetResident(ctx context.Context, adminID, id int64) (core.Resident, error) {
	var r core.Resident
	err := s.db.QueryRowContext(ctx, `
		SELECT r.id, r.unit_id, r.name, r.email, r.phone, r.role, r.created_at
		FROM residents r
		JOIN units u ON u.id = r.unit_id
		JOIN properties p ON p.id = u.property_id
		WHERE r.id = ? AND p.admin_id = ?`, id, adminID).
		Scan(&r.ID, &r.UnitID, &r.Name, &r.Email, &r.Phone, &r.Role, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Resident{}, core.ErrNotFound
	}
	if err != nil {
		return core.Resident{}, fmt.Errorf("get resident: %w", err)
	}
	return r, nil
}

func (s *SQLiteStore) ListResidents(ctx context.Context, adminID int64) ([]core.Resident, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.unit_id, r.name, r.email, r.phone, r.role, r.created_at
		FROM residents r
		JOIN units u ON u.id = r.unit_id
		JOIN properties p ON p.id = u.property_id
		WHERE p.admin_id = ? ORDER BY r.id`, adminID)
	if err != nil {
		return nil, fmt.Errorf("list residents: %w", err)
	}
	defer rows.Close()

	var out []core.Resident
	for rows.Next() {
		var r core.Resident
		if err := rows.Scan(&r.ID, &r.UnitID, &r.Name, &r.Email, &r.Phone, &r.Role, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan resident: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) UpdateResident(ctx context.Context, adminID int64, r core.Resident) (core.Resident, error) {
	existing, err := s.GetResident(ctx, adminID, r.ID)
	if err != nil {
		return core.Resident{}, err
	}
	_, err = s.db.ExecContext(ctx, `
		UPDATE residents SET name = ?, email = ?, phone = ?, role = ? WHERE id = ?`,
		r.Name, r.Email, r.Phone, string(r.Role), existing.ID)
	if err != nil {
		return core.Resident{}, fmt.Errorf("update resident: %w", err)
	}
	return s.GetResident(ctx, adminID, r.ID)
}

func (s *SQLiteStore) DeleteResident(ctx context.Context, adminID, id int64) error {
	if _, err := s.GetResident(ctx, adminID, id); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM residents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete resident: %w", err)
	}
	return nil
}

// --- ContractStore ----------------------------------------------------------

func (s *SQLiteStore) CreateContract(ctx context.Context, adminID int64, c core.Contract) (core.Contract, error) {
	if err := s.unitOwned(ctx, adminID, c.UnitID); err != nil {
		return core.Contract{}, err
	}
	if _, err := s.GetResident(ctx, adminID, c.ResidentID); err != nil {
		return core.Contract{}, err
	}
	if c.Status == "" {
		c.Status = core.ContractActive
	}
	c.CreatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO contracts (unit_id, resident_id, start_year, start_month,
			end_year, end_month, initial_rent, index_kind, frequency, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.UnitID, c.ResidentID, c.Start.Year, c.Start.Month,
		c.End.Year, c.End.Month, c.InitialRent.String(),
		string(c.Index), string(c.Frequency), string(c.Status), c.CreatedAt)
	if err != nil {
		return core.Contract{}, fmt.Errorf("insert contract: %w", err)
	}
	c.ID, _ = res.LastInsertId()
	return c, nil
}

const contractCols = `c.id, c.unit_id, c.resident_id, c.start_year, c.start_month,
	c.end_year, c.end_month, c.initial_rent, c.index_kind, c.frequency, c.status, c.created_at`

func scanContract(row interface{ Scan(...any) error }) (core.Contract, error) {
	var c core.Contract
	var rent string
	if err := row.Scan(&c.ID, &c.UnitID, &c.ResidentID, &c.Start.Year, &c.Start.Month,
		&c.End.Year, &c.End.Month, &rent, &c.Index, &c.Frequency, &c.Status, &c.CreatedAt); err != nil {
		return core.Contract{}, err
	}
	var err error
	c.InitialRent, err = parseDec(rent)
	return c, err
}

func (s *SQLiteStore) GetContract(ctx context.Context, adminID, id int64) (core.Contract, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+contractCols+`
		FROM contracts c
		JOIN units u ON u.id = c.unit_id
		JOIN properties p ON p.id = u.property_id
		WHERE c.id = ? AND p.admin_id = ?`, id, adminID)
	c, err := scanContract(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Contract{}, core.ErrNotFound
	}
	if err != nil {
		return core.Contract{}, fmt.Errorf("get contract: %w", err)
	}
	return c, nil
}

func (s *SQLiteStore) ListContracts(ctx context.Context, adminID int64) ([]core.Contract, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+contractCols+`
		FROM contracts c
		JOIN units u ON u.id = c.unit_id
		JOIN properties p ON p.id = u.property_id
		WHERE p.admin_id = ? ORDER BY c.id`, adminID)
	if err != nil {
		return nil, fmt.Errorf("list contracts: %w", err)
	}
	defer rows.Close()

	var out []core.Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contract: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) UpdateContract(ctx context.Context, adminID int64, c core.Contract) (core.Contract, error) {
	existing, err := s.GetContract(ctx, adminID, c.ID)
	if err != nil {
		return core.Contract{}, err
	}
	_, err = s.db.ExecContext(ctx, `
		UPDATE contracts SET start_year = ?, start_month = ?, end_year = ?, end_month = ?,
			initial_rent = ?, index_kind = ?, frequency = ?, status = ?
		WHERE id = ?`,
		c.Start.Year, c.Start.Month, c.End.Year, c.End.Month,
		c.InitialRent.String(), string(c.Index), string(c.Frequency), string(c.Status),
		existing.ID)
	if err != nil {
		return core.Contract{}, fmt.Errorf("update contract: %w", err)
	}
	return s.GetContract(ctx, adminID, c.ID)
}

func (s *SQLiteStore) DeleteContract(ctx context.Context, adminID, id int64) error {
	if _, err := s.GetContract(ctx, adminID, id); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM contracts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete contract: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ActiveContractForUnit(ctx context.Context, adminID, unitID int64, p core.Period) (core.Contract, error) {
	idx := p.Year*12 + p.Month
	row := s.db.QueryRowContext(ctx, `
		SELECT `+contractCols+`
		FROM contracts c
		JOIN units u ON u.id = c.unit_id
		JOIN properties pr ON pr.id = u.property_id
		WHERE c.unit_id = ? AND pr.admin_id = ? AND c.status = 'active'
		  AND (c.start_year * 12 + c.start_month) <= ?
		  AND (c.end_year * 12 + c.end_month) >= ?
		ORDER BY c.id DESC LIMIT 1`, unitID, adminID, idx, idx)
	c, err := scanContract(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Contract{}, core.ErrNotFound
	}
	if err != nil {
		return core.Contract{}, fmt.Errorf("active contract for unit: %w", err)
	}
	return c, nil
}

// --- CategoryStore ----------------------------------------------------------

func (s *SQLiteStore) CreateCategory(ctx context.Context, c core.ExpenseCategory) (core.ExpenseCategory, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO expense_categories (admin_id, name) VALUES (?, ?)`, c.AdminID, c.Name)
	if err != nil {
		if isUniqueViolation(err) {
			return core.ExpenseCategory{}, core.ErrConflict
		}
		return core.ExpenseCategory{}, fmt.Errorf("insert category: %w", err)
	}
	c.ID, _ = res.LastInsertId()
	return c, nil
}

func (s *SQLiteStore) ListCategories(ctx context.Context, adminID int64) ([]core.ExpenseCategory, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, admin_id, name FROM expense_categories WHERE admin_id = ? ORDER BY name`, adminID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []core.ExpenseCategory
	for rows.Next() {
		var c core.ExpenseCategory
		if err := rows.Scan(&c.ID, &c.AdminID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) UpdateCategory(ctx context.Context, c core.ExpenseCategory) (core.ExpenseCategory, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE expense_categories SET name = ? WHERE id = ? AND admin_id = ?`,
		c.Name, c.ID, c.AdminID)
	if err != nil {
		if isUniqueViolation(err) {
			return core.ExpenseCategory{}, core.ErrConflict
		}
		return core.ExpenseCategory{}, fmt.Errorf("update category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ExpenseCategory{}, core.ErrNotFound
	}
	return c, nil
}

func (s *SQLiteStore) DeleteCategory(ctx context.Context, adminID, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM expense_categories WHERE id = ? AND admin_id = ?`, id, adminID)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// --- ExpenseStore -----------------------------------------------------------

const expenseCols = `e.id, e.property_id, e.category_id, e.description, e.amount,
	e.year, e.month, e.created_at, e.updated_at`

func scanExpense(row interface{ Scan(...any) error }) (core.Expense, error) {
	var e core.Expense
	var amount string
	var categoryID sql.NullInt64
	if err := row.Scan(&e.ID, &e.PropertyID, &categoryID, &e.Description, &amount,
		&e.Period.Year, &e.Period.Month, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return core.Expense{}, err
	}
	e.CategoryID = categoryID.Int64
	var err error
	e.Amount, err = parseDec(amount)
	return e, err
}

func nullableID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}

func (s *SQLiteStore) CreateExpense(ctx context.Context, adminID int64, e core.Expense) (core.Expense, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Expense{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := s.propertyOwned(ctx, tx, adminID, e.PropertyID); err != nil {
		return core.Expense{}, err
	}

	now := time.Now().UTC()
	e.CreatedAt, e.UpdatedAt = now, now
	res, err := tx.ExecContext(ctx, `
		INSERT INTO expenses (property_id, category_id, description, amount, year, month, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.PropertyID, nullableID(e.CategoryID), e.Description, e.Amount.String(),
		e.Period.Year, e.Period.Month, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return core.Expense{}, fmt.Errorf("insert expense: %w", err)
	}
	e.ID, _ = res.LastInsertId()

	if err := recomputeSummary(ctx, tx, e.PropertyID, e.Period); err != nil {
		return core.Expense{}, err
	}
	if err := tx.Commit(); err != nil {
		return core.Expense{}, fmt.Errorf("commit expense create: %w", err)
	}

	slog.InfoContext(ctx, "expense created",
		"id", e.ID, "property_id", e.PropertyID, "period", e.Period.String(), "amount", e.Amount.String())
	return e, nil
}

func (s *SQLiteStore) GetExpense(ctx context.Context, adminID, id int64) (core.Expense, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+expenseCols+`
		FROM expenses e JOIN properties p ON p.id = e.property_id
		WHERE e.id = ? AND p.admin_id = ?`, id, adminID)
	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, core.ErrNotFound
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense: %w", err)
	}
	return e, nil
}

func (s *SQLiteStore) ListExpenses(ctx context.Context, adminID int64, f ExpenseFilter) ([]core.Expense, error) {
	if err := s.propertyOwned(ctx, s.db, adminID, f.PropertyID); err != nil {
		return nil, err
	}
	query := `SELECT ` + expenseCols + ` FROM expenses e WHERE e.property_id = ?`
	args := []any{f.PropertyID}
	if f.Period != (core.Period{}) {
		query += ` AND e.year = ? AND e.month = ?`
		args = append(args, f.Period.Year, f.Period.Month)
	}
	query += ` ORDER BY e.year, e.month, e.id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) UpdateExpense(ctx context.Context, adminID int64, e core.Expense) (core.Expense, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Expense{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `
		SELECT `+expenseCols+`
		FROM expenses e JOIN properties p ON p.id = e.property_id
		WHERE e.id = ? AND p.admin_id = ?`, e.ID, adminID)
	old, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, core.ErrNotFound
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense for update: %w", err)
	}

	e.PropertyID = old.PropertyID
	e.CreatedAt = old.CreatedAt
	e.UpdatedAt = time.Now().UTC()
	_, err = tx.ExecContext(ctx, `
		UPDATE expenses SET category_id = ?, description = ?, amount = ?, year = ?, month = ?, updated_at = ?
		WHERE id = ?`,
		nullableID(e.CategoryID), e.Description, e.Amount.String(),
		e.Period.Year, e.Period.Month, e.UpdatedAt, e.ID)
	if err != nil {
		return core.Expense{}, fmt.Errorf("update expense: %w", err)
	}

	// The old period first, then the new one when the expense moved.
	if err := recomputeSummary(ctx, tx, old.PropertyID, old.Period); err != nil {
		return core.Expense{}, err
	}
	if !e.Period.Equal(old.Period) {
		if err := recomputeSummary(ctx, tx, old.PropertyID, e.Period); err != nil {
			return core.Expense{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return core.Expense{}, fmt.Errorf("commit expense update: %w", err)
	}

	slog.InfoContext(ctx, "expense updated",
		"id", e.ID, "from_period", old.Period.String(), "to_period", e.Period.String())
	return e, nil
}

func (s *SQLiteStore) DeleteExpense(ctx context.Context, adminID, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `
		SELECT `+expenseCols+`
		FROM expenses e JOIN properties p ON p.id = e.property_id
		WHERE e.id = ? AND p.admin_id = ?`, id, adminID)
	old, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get expense for delete: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if err := recomputeSummary(ctx, tx, old.PropertyID, old.Period); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit expense delete: %w", err)
	}
	return nil
}

// recomputeSummary re-sums every expense linked to (propertyID, p) and
// writes the total back. Summing happens in Go on decimals; SQLite's
// SUM over text columns would go through floats and drift.
func recomputeSummary(ctx context.Context, tx *sql.Tx, propertyID int64, p core.Period) error {
	rows, err := tx.QueryContext(ctx,
		`SELECT amount FROM expenses WHERE property_id = ? AND year = ? AND month = ?`,
		propertyID, p.Year, p.Month)
	if err != nil {
		return fmt.Errorf("load expense amounts: %w", err)
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return fmt.Errorf("scan amount: %w", err)
		}
		d, err := parseDec(raw)
		if err != nil {
			return err
		}
		total = total.Add(d)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate amounts: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO monthly_expense_summaries (property_id, year, month, total_expenses)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(property_id, year, month)
		DO UPDATE SET total_expenses = excluded.total_expenses`,
		propertyID, p.Year, p.Month, total.String())
	if err != nil {
		return fmt.Errorf("upsert summary: %w", err)
	}
	return nil
}

// --- SummaryStore -----------------------------------------------------------

func (s *SQLiteStore) GetSummary(ctx context.Context, adminID, propertyID int64, p core.Period) (core.MonthlyExpenseSummary, error) {
	var sum core.MonthlyExpenseSummary
	var total string
	err := s.db.QueryRowContext(ctx, `
		SELECT s.id, s.property_id, s.year, s.month, s.total_expenses
		FROM monthly_expense_summaries s
		JOIN properties p ON p.id = s.property_id
		WHERE s.property_id = ? AND s.year = ? AND s.month = ? AND p.admin_id = ?`,
		propertyID, p.Year, p.Month, adminID).
		Scan(&sum.ID, &sum.PropertyID, &sum.Period.Year, &sum.Period.Month, &total)
	if errors.Is(err, sql.ErrNoRows) {
		return core.MonthlyExpenseSummary{}, core.ErrNotFound
	}
	if err != nil {
		return core.MonthlyExpenseSummary{}, fmt.Errorf("get summary: %w", err)
	}
	sum.TotalExpenses, err = parseDec(total)
	return sum, err
}

func (s *SQLiteStore) ListSummaries(ctx context.Context, adminID, propertyID int64) ([]core.MonthlyExpenseSummary, error) {
	if err := s.propertyOwned(ctx, s.db, adminID, propertyID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, property_id, year, month, total_expenses
		FROM monthly_expense_summaries
		WHERE property_id = ? ORDER BY year, month`, propertyID)
	if err != nil {
		return nil, fmt.Errorf("list summaries: %w", err)
	}
	defer rows.Close()

	var out []core.MonthlyExpenseSummary
	for rows.Next() {
		var sum core.MonthlyExpenseSummary
		var total string
		if err := rows.Scan(&sum.ID, &sum.PropertyID, &sum.Period.Year, &sum.Period.Month, &total); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		if sum.TotalExpenses, err = parseDec(total); err != nil {
			return nil, err
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

// --- AllocationStore --------------------------------------------------------

func (s *SQLiteStore) CreateAllocations(ctx context.Context, summaryID int64, allocs []core.ExpenseAllocation) ([]core.ExpenseAllocation, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM expense_allocations WHERE summary_id = ?`, summaryID).Scan(&count); err != nil {
		return nil, fmt.Errorf("count allocations: %w", err)
	}
	if count > 0 {
		return nil, core.ErrConflict
	}

	out := make([]core.ExpenseAllocation, 0, len(allocs))
	for _, a := range allocs {
		a.SummaryID = summaryID
		res, err := tx.ExecContext(ctx, `
			INSERT INTO expense_allocations (summary_id, unit_id, percentage, amount)
			VALUES (?, ?, ?, ?)`,
			a.SummaryID, a.UnitID, a.Percentage.String(), a.Amount.String())
		if err != nil {
			return nil, fmt.Errorf("insert allocation: %w", err)
		}
		a.ID, _ = res.LastInsertId()
		out = append(out, a)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit allocations: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) ListAllocations(ctx context.Context, summaryID int64) ([]core.ExpenseAllocation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, summary_id, unit_id, percentage, amount
		FROM expense_allocations WHERE summary_id = ? ORDER BY unit_id`, summaryID)
	if err != nil {
		return nil, fmt.Errorf("list allocations: %w", err)
	}
	defer rows.Close()

	var out []core.ExpenseAllocation
	for rows.Next() {
		var a core.ExpenseAllocation
		var pct, amount string
		if err := rows.Scan(&a.ID, &a.SummaryID, &a.UnitID, &pct, &amount); err != nil {
			return nil, fmt.Errorf("scan allocation: %w", err)
		}
		if a.Percentage, err = parseDec(pct); err != nil {
			return nil, err
		}
		if a.Amount, err = parseDec(amount); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) DeleteAllocations(ctx context.Context, summaryID int64) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM expense_allocations WHERE summary_id = ?`, summaryID)
	if err != nil {
		return fmt.Errorf("delete allocations: %w", err)
	}
	return nil
}

// --- IndexStore -------------------------------------------------------------

func (s *SQLiteStore) CreateIndexValue(ctx context.Context, v core.IndexValue) (core.IndexValue, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO index_values (kind, year, month, value) VALUES (?, ?, ?, ?)`,
		string(v.Kind), v.Period.Year, v.Period.Month, v.Value.String())
	if err != nil {
		if isUniqueViolation(err) {
			return core.IndexValue{}, core.ErrConflict
		}
		return core.IndexValue{}, fmt.Errorf("insert index value: %w", err)
	}
	v.ID, _ = res.LastInsertId()
	return v, nil
}

func (s *SQLiteStore) UpsertIndexValue(ctx context.Context, v core.IndexValue) (core.IndexValue, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO index_values (kind, year, month, value) VALUES (?, ?, ?, ?)
		ON CONFLICT(kind, year, month) DO UPDATE SET value = excluded.value`,
		string(v.Kind), v.Period.Year, v.Period.Month, v.Value.String())
	if err != nil {
		return core.IndexValue{}, fmt.Errorf("upsert index value: %w", err)
	}
	err = s.db.QueryRowContext(ctx,
		`SELECT id FROM index_values WHERE kind = ? AND year = ? AND month = ?`,
		string(v.Kind), v.Period.Year, v.Period.Month).Scan(&v.ID)
	if err != nil {
		return core.IndexValue{}, fmt.Errorf("reload index value: %w", err)
	}
	return v, nil
}

func (s *SQLiteStore) ListIndexValues(ctx context.Context, kind core.IndexKind) ([]core.IndexValue, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, year, month, value FROM index_values
		WHERE kind = ? ORDER BY year, month`, string(kind))
	if err != nil {
		return nil, fmt.Errorf("list index values: %w", err)
	}
	defer rows.Close()

	var out []core.IndexValue
	for rows.Next() {
		var v core.IndexValue
		var raw string
		if err := rows.Scan(&v.ID, &v.Kind, &v.Period.Year, &v.Period.Month, &raw); err != nil {
			return nil, fmt.Errorf("scan index value: %w", err)
		}
		if v.Value, err = parseDec(raw); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) UpdateIndexValue(ctx context.Context, v core.IndexValue) (core.IndexValue, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE index_values SET value = ? WHERE id = ? AND kind = ?`,
		v.Value.String(), v.ID, string(v.Kind))
	if err != nil {
		return core.IndexValue{}, fmt.Errorf("update index value: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.IndexValue{}, core.ErrNotFound
	}
	err = s.db.QueryRowContext(ctx,
		`SELECT year, month FROM index_values WHERE id = ?`, v.ID).
		Scan(&v.Period.Year, &v.Period.Month)
	if err != nil {
		return core.IndexValue{}, fmt.Errorf("reload index value: %w", err)
	}
	return v, nil
}

func (s *SQLiteStore) DeleteIndexValue(ctx context.Context, kind core.IndexKind, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM index_values WHERE id = ? AND kind = ?`, id, string(kind))
	if err != nil {
		return fmt.Errorf("delete index value: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// --- ReceiptStore -----------------------------------------------------------

func (s *SQLiteStore) CreateReceipts(ctx context.Context, receipts []core.Receipt) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, r := range receipts {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO receipts (id, summary_id, unit_id, year, month,
				expense_amount, rent_amount, total, status, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, r.SummaryID, r.UnitID, r.Period.Year, r.Period.Month,
			r.ExpenseAmount.String(), r.RentAmount.String(), r.Total.String(),
			string(r.Status), r.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert receipt: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit receipts: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetReceipt(ctx context.Context, id string) (core.Receipt, error) {
	var r core.Receipt
	var expense, rent, total string
	var sentAt sql.NullTime
	err := s.db.QueryRowContext(ctx, `
		SELECT id, summary_id, unit_id, year, month, expense_amount, rent_amount, total, status, created_at, sent_at
		FROM receipts WHERE id = ?`, id).
		Scan(&r.ID, &r.SummaryID, &r.UnitID, &r.Period.Year, &r.Period.Month,
			&expense, &rent, &total, &r.Status, &r.CreatedAt, &sentAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Receipt{}, core.ErrNotFound
	}
	if err != nil {
		return core.Receipt{}, fmt.Errorf("get receipt: %w", err)
	}
	if sentAt.Valid {
		r.SentAt = &sentAt.Time
	}
	if r.ExpenseAmount, err = parseDec(expense); err != nil {
		return core.Receipt{}, err
	}
	if r.RentAmount, err = parseDec(rent); err != nil {
		return core.Receipt{}, err
	}
	if r.Total, err = parseDec(total); err != nil {
		return core.Receipt{}, err
	}
	return r, nil
}

func (s *SQLiteStore) SetReceiptStatus(ctx context.Context, id string, status core.ReceiptStatus) error {
	var sentAt any
	if status == core.ReceiptSent {
		sentAt = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE receipts SET status = ?, sent_at = ? WHERE id = ?`,
		string(status), sentAt, id)
	if err != nil {
		return fmt.Errorf("set receipt status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) ListReceipts(ctx context.Context, summaryID int64) ([]core.Receipt, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, summary_id, unit_id, year, month, expense_amount, rent_amount, total, status, created_at, sent_at
		FROM receipts WHERE summary_id = ? ORDER BY unit_id`, summaryID)
	if err != nil {
		return nil, fmt.Errorf("list receipts: %w", err)
	}
	defer rows.Close()

	var out []core.Receipt
	for rows.Next() {
		var r core.Receipt
		var expense, rent, total string
		var sentAt sql.NullTime
		if err := rows.Scan(&r.ID, &r.SummaryID, &r.UnitID, &r.Period.Year, &r.Period.Month,
			&expense, &rent, &total, &r.Status, &r.CreatedAt, &sentAt); err != nil {
			return nil, fmt.Errorf("scan receipt: %w", err)
		}
		if sentAt.Valid {
			r.SentAt = &sentAt.Time
		}
		if r.ExpenseAmount, err = parseDec(expense); err != nil {
			return nil, err
		}
		if r.RentAmount, err = parseDec(rent); err != nil {
			return nil, err
		}
		if r.Total, err = parseDec(total); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
