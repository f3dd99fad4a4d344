// Package session assembles the per-user registries and loads them as
// one unit after sign-in.
package session

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/GazaBreda/PayMe/internal/events"
	"github.com/GazaBreda/PayMe/internal/registry"
	"github.com/GazaBreda/PayMe/internal/storage"
)

// Session is the working set for one signed-in user: all four
// registries, loaded together and cached between requests.
type Session struct {
	UserID    string
	Income    *registry.IncomeRegistry
	Theme     *registry.ThemeRegistry
	Bills     *registry.BillRegistry
	Groceries *registry.GroceryRegistry
}

func New(userID string, store storage.Store, pub events.Publisher) *Session {
	return &Session{
		UserID:    userID,
		Income:    registry.NewIncome(userID, store, pub),
		Theme:     registry.NewTheme(userID, store, pub),
		Bills:     registry.NewBills(userID, store, pub),
		Groceries: registry.NewGroceries(userID, store, pub),
	}
}

// Load fetches every collection concurrently. A single failure fails
// the whole load: a session must never start from partial data.
func (s *Session) Load(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.Income.Load(ctx) })
	g.Go(func() error { return s.Theme.Load(ctx) })
	g.Go(func() error { return s.Bills.Load(ctx) })
	g.Go(func() error { return s.Groceries.Load(ctx) })

	if err := g.Wait(); err != nil {
		return fmt.Errorf("load session for user %s: %w", s.UserID, err)
	}
	return nil
}
