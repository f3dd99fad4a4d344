// Package storage defines the per-user document store boundary.
package storage

import (
	"context"
	"errors"

	"github.com/GazaBreda/PayMe/internal/core"
)

// ErrNotFound is returned when a document or collection entry does not
// exist for the given user.
var ErrNotFound = errors.New("not found")

// Store is the remote document/collection boundary. Every method is
// scoped to a single user; implementations assign identifiers on create
// and guarantee last-write-wins semantics on update.
//
// Registries treat any error as "nothing changed remotely" and leave
// their in-memory state untouched.
type Store interface {
	UserStore
	IncomeStore
	ThemeStore
	BillStore
	GroceryStore

	// Close releases any resources held by the store.
	Close() error
}

// UserStore persists accounts for the identity boundary.
type UserStore interface {
	CreateUser(ctx context.Context, user *core.User) error
	GetUserByEmail(ctx context.Context, email string) (*core.User, error)
	GetUserByID(ctx context.Context, id string) (*core.User, error)
	UpdatePasswordHash(ctx context.Context, userID, hash string) error
	// ListUserIDs enumerates all registered users, for background scans.
	ListUserIDs(ctx context.Context) ([]string, error)
}

// IncomeStore holds the singleton income settings document per user.
type IncomeStore interface {
	GetIncome(ctx context.Context, userID string) (core.IncomeSettings, error)
	SaveIncome(ctx context.Context, userID string, settings core.IncomeSettings) error
}

// ThemeStore holds the singleton theme document per user.
type ThemeStore interface {
	GetTheme(ctx context.Context, userID string) (core.Theme, error)
	SaveTheme(ctx context.Context, userID string, theme core.Theme) error
}

// BillStore is the bills collection. CreateBill populates bill.ID.
type BillStore interface {
	ListBills(ctx context.Context, userID string) ([]core.Bill, error)
	CreateBill(ctx context.Context, userID string, bill *core.Bill) error
	UpdateBill(ctx context.Context, userID string, bill core.Bill) error
	DeleteBill(ctx context.Context, userID, billID string) error
}

// GroceryStore is the groceries collection. Listing preserves insertion
// order; ClearGroceries deletes every item in one atomic batch.
type GroceryStore interface {
	ListGroceries(ctx context.Context, userID string) ([]core.GroceryItem, error)
	CreateGrocery(ctx context.Context, userID string, item *core.GroceryItem) error
	DeleteGrocery(ctx context.Context, userID, itemID string) error
	ClearGroceries(ctx context.Context, userID string) error
}
