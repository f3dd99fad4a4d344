package registry

import (
	"context"
	"fmt"
	"sync"

	"github.com/GazaBreda/PayMe/internal/core"
	"github.com/GazaBreda/PayMe/internal/events"
	"github.com/GazaBreda/PayMe/internal/storage"
)

// GroceryRegistry owns the grocery collection for one user. Items keep
// insertion order; no sorting is applied.
type GroceryRegistry struct {
	mu     sync.Mutex
	userID string
	store  storage.GroceryStore
	pub    events.Publisher
	items  []core.GroceryItem
}

func NewGroceries(userID string, store storage.GroceryStore, pub events.Publisher) *GroceryRegistry {
	return &GroceryRegistry{
		userID: userID,
		store:  store,
		pub:    pub,
	}
}

func (r *GroceryRegistry) Load(ctx context.Context) error {
	items, err := r.store.ListGroceries(ctx, r.userID)
	if err != nil {
		return fmt.Errorf("load groceries: %w", err)
	}

	r.mu.Lock()
	r.items = items
	r.mu.Unlock()
	return nil
}

// Add composes "<quantity><unit> <item>" into a single display string,
// defaults a blank category to Other, and appends the persisted item to
// the mirror.
func (r *GroceryRegistry) Add(ctx context.Context, quantity, unit, itemName, category string) (core.GroceryItem, error) {
	item, err := core.NewGroceryItem(quantity, unit, itemName, category)
	if err != nil {
		return core.GroceryItem{}, err
	}

	if err := r.store.CreateGrocery(ctx, r.userID, &item); err != nil {
		return core.GroceryItem{}, fmt.Errorf("persist grocery item: %w", err)
	}

	r.mu.Lock()
	r.items = append(r.items, item)
	r.mu.Unlock()

	r.publish(ctx, events.OpCreate, item.ID)
	return item, nil
}

func (r *GroceryRegistry) Remove(ctx context.Context, itemID string) error {
	if err := r.store.DeleteGrocery(ctx, r.userID, itemID); err != nil {
		return fmt.Errorf("delete grocery item: %w", err)
	}

	r.mu.Lock()
	for i := range r.items {
		if r.items[i].ID == itemID {
			r.items = append(r.items[:i], r.items[i+1:]...)
			break
		}
	}
	r.mu.Unlock()

	r.publish(ctx, events.OpDelete, itemID)
	return nil
}

// ClearAll removes every item in one atomic batch. When the batch
// fails, the mirror keeps all items; it never ends up half-empty.
func (r *GroceryRegistry) ClearAll(ctx context.Context) error {
	if err := r.store.ClearGroceries(ctx, r.userID); err != nil {
		return fmt.Errorf("clear grocery list: %w", err)
	}

	r.mu.Lock()
	r.items = nil
	r.mu.Unlock()

	r.publish(ctx, events.OpClear, "")
	return nil
}

// Items returns the list in insertion order.
func (r *GroceryRegistry) Items() []core.GroceryItem {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]core.GroceryItem, len(r.items))
	copy(out, r.items)
	return out
}

func (r *GroceryRegistry) publish(ctx context.Context, op, docID string) {
	publish(ctx, r.pub, events.DomainGroceries, op, r.userID, docID)
}
