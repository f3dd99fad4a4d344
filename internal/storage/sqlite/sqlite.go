// Package sqlite provides the SQLite-backed implementation of the
// storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite" // pure Go SQLite driver, no CGO

	"github.com/GazaBreda/PayMe/internal/core"
	"github.com/GazaBreda/PayMe/internal/storage"
)

var _ storage.Store = (*Repository)(nil)

// Repository implements storage.Store on SQLite. Amounts are stored as
// decimal strings so no precision is lost at the storage boundary.
type Repository struct {
	db *sql.DB
}

// New opens the database at dbPath, creating parent directories and
// running migrations.
func New(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable, for health probes.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// --- users ---

func (r *Repository) CreateUser(ctx context.Context, user *core.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO users (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)",
		user.ID, user.Email, user.PasswordHash, user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*core.User, error) {
	return r.getUser(ctx, "SELECT id, email, password_hash, created_at FROM users WHERE email = ?", email)
}

func (r *Repository) GetUserByID(ctx context.Context, id string) (*core.User, error) {
	return r.getUser(ctx, "SELECT id, email, password_hash, created_at FROM users WHERE id = ?", id)
}

func (r *Repository) getUser(ctx context.Context, query, arg string) (*core.User, error) {
	user := &core.User{}
	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (r *Repository) UpdatePasswordHash(ctx context.Context, userID, hash string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE users SET password_hash = ? WHERE id = ?", hash, userID)
	if err != nil {
		return fmt.Errorf("update password hash: %w", err)
	}
	return requireRow(res)
}

func (r *Repository) ListUserIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id FROM users ORDER BY created_at")
	if err != nil {
		return nil, fmt.Errorf("list user ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user ids: %w", err)
	}
	return ids, nil
}

// --- income settings ---

func (r *Repository) GetIncome(ctx context.Context, userID string) (core.IncomeSettings, error) {
	var (
		salary    string
		frequency string
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT salary, frequency FROM income_settings WHERE user_id = ?", userID).
		Scan(&salary, &frequency)
	if err == sql.ErrNoRows {
		return core.IncomeSettings{}, storage.ErrNotFound
	}
	if err != nil {
		return core.IncomeSettings{}, fmt.Errorf("get income settings: %w", err)
	}

	amount, err := decimal.NewFromString(salary)
	if err != nil {
		return core.IncomeSettings{}, fmt.Errorf("parse stored salary %q: %w", salary, err)
	}
	return core.IncomeSettings{Salary: amount, Frequency: core.PayFrequency(frequency)}, nil
}

func (r *Repository) SaveIncome(ctx context.Context, userID string, settings core.IncomeSettings) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO income_settings (user_id, salary, frequency) VALUES (?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET salary = excluded.salary, frequency = excluded.frequency`,
		userID, settings.Salary.String(), string(settings.Frequency),
	)
	if err != nil {
		return fmt.Errorf("save income settings: %w", err)
	}
	return nil
}

// --- theme ---

func (r *Repository) GetTheme(ctx context.Context, userID string) (core.Theme, error) {
	var mode string
	err := r.db.QueryRowContext(ctx,
		"SELECT mode FROM themes WHERE user_id = ?", userID).Scan(&mode)
	if err == sql.ErrNoRows {
		return core.Theme{}, storage.ErrNotFound
	}
	if err != nil {
		return core.Theme{}, fmt.Errorf("get theme: %w", err)
	}
	return core.Theme{Mode: core.ThemeMode(mode)}, nil
}

func (r *Repository) SaveTheme(ctx context.Context, userID string, theme core.Theme) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO themes (user_id, mode) VALUES (?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET mode = excluded.mode`,
		userID, string(theme.Mode),
	)
	if err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	return nil
}

// --- bills ---

func (r *Repository) ListBills(ctx context.Context, userID string) ([]core.Bill, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, amount, due_date, frequency, priority FROM bills WHERE user_id = ? ORDER BY rowid",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
	}
	defer rows.Close()

	var bills []core.Bill
	for rows.Next() {
		bill, err := scanBill(rows)
		if err != nil {
			return nil, err
		}
		bills = append(bills, bill)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bills: %w", err)
	}
	return bills, nil
}

func scanBill(rows *sql.Rows) (core.Bill, error) {
	var (
		bill    core.Bill
		amount  string
		dueDate string
	)
	if err := rows.Scan(&bill.ID, &bill.Name, &amount, &dueDate, &bill.Frequency, &bill.Priority); err != nil {
		return core.Bill{}, fmt.Errorf("scan bill: %w", err)
	}
	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return core.Bill{}, fmt.Errorf("parse stored amount %q: %w", amount, err)
	}
	bill.Amount = parsed
	due, err := core.ParseDate(dueDate)
	if err != nil {
		return core.Bill{}, fmt.Errorf("parse stored due date %q: %w", dueDate, err)
	}
	bill.DueDate = due
	return bill, nil
}

func (r *Repository) CreateBill(ctx context.Context, userID string, bill *core.Bill) error {
	id := uuid.New().String()
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO bills (id, user_id, name, amount, due_date, frequency, priority) VALUES (?, ?, ?, ?, ?, ?, ?)",
		id, userID, bill.Name, bill.Amount.String(), bill.DueDate.String(), bill.Frequency, bill.Priority,
	)
	if err != nil {
		return fmt.Errorf("insert bill: %w", err)
	}
	bill.ID = id

	slog.InfoContext(ctx, "Bill saved",
		"bill_id", id,
		"user_id", userID,
		"name", bill.Name,
		"due_date", bill.DueDate.String())
	return nil
}

func (r *Repository) UpdateBill(ctx context.Context, userID string, bill core.Bill) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE bills SET name = ?, amount = ?, due_date = ?, frequency = ?, priority = ? WHERE id = ? AND user_id = ?",
		bill.Name, bill.Amount.String(), bill.DueDate.String(), bill.Frequency, bill.Priority, bill.ID, userID,
	)
	if err != nil {
		return fmt.Errorf("update bill: %w", err)
	}
	return requireRow(res)
}

func (r *Repository) DeleteBill(ctx context.Context, userID, billID string) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM bills WHERE id = ? AND user_id = ?", billID, userID)
	if err != nil {
		return fmt.Errorf("delete bill: %w", err)
	}
	return nil
}

// --- groceries ---

func (r *Repository) ListGroceries(ctx context.Context, userID string) ([]core.GroceryItem, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, text, category FROM groceries WHERE user_id = ? ORDER BY position",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list groceries: %w", err)
	}
	defer rows.Close()

	var items []core.GroceryItem
	for rows.Next() {
		var item core.GroceryItem
		if err := rows.Scan(&item.ID, &item.Text, &item.Category); err != nil {
			return nil, fmt.Errorf("scan grocery item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate groceries: %w", err)
	}
	return items, nil
}

func (r *Repository) CreateGrocery(ctx context.Context, userID string, item *core.GroceryItem) error {
	id := uuid.New().String()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO groceries (id, user_id, text, category, position)
		 VALUES (?, ?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM groceries WHERE user_id = ?))`,
		id, userID, item.Text, item.Category, userID,
	)
	if err != nil {
		return fmt.Errorf("insert grocery item: %w", err)
	}
	item.ID = id
	return nil
}

func (r *Repository) DeleteGrocery(ctx context.Context, userID, itemID string) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM groceries WHERE id = ? AND user_id = ?", itemID, userID)
	if err != nil {
		return fmt.Errorf("delete grocery item: %w", err)
	}
	return nil
}

// ClearGroceries removes every item for the user in a single
// transaction, so a partial clear can never be observed.
func (r *Repository) ClearGroceries(ctx context.Context, userID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin clear transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM groceries WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("clear groceries: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit clear transaction: %w", err)
	}

	slog.InfoContext(ctx, "Grocery list cleared", "user_id", userID)
	return nil
}

// requireRow translates "zero rows affected" into ErrNotFound.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}
