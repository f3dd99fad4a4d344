package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/GazaBreda/PayMe/internal/core"
	"github.com/GazaBreda/PayMe/internal/events"
	"github.com/GazaBreda/PayMe/internal/storage"
)

// IncomeRegistry owns the single income settings document for one user.
type IncomeRegistry struct {
	mu       sync.Mutex
	userID   string
	store    storage.IncomeStore
	pub      events.Publisher
	settings core.IncomeSettings
	loaded   bool
}

func NewIncome(userID string, store storage.IncomeStore, pub events.Publisher) *IncomeRegistry {
	return &IncomeRegistry{
		userID: userID,
		store:  store,
		pub:    pub,
	}
}

// Load fetches the settings document. A user who never saved settings
// is not an error: the registry reports zero salary until a save.
func (r *IncomeRegistry) Load(ctx context.Context) error {
	settings, err := r.store.GetIncome(ctx, r.userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("load income settings: %w", err)
	}

	r.mu.Lock()
	r.settings = settings
	r.loaded = true
	r.mu.Unlock()
	return nil
}

// Save validates and persists the settings, overwriting any previous
// document.
func (r *IncomeRegistry) Save(ctx context.Context, settings core.IncomeSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	if err := r.store.SaveIncome(ctx, r.userID, settings); err != nil {
		return fmt.Errorf("persist income settings: %w", err)
	}

	r.mu.Lock()
	r.settings = settings
	r.loaded = true
	r.mu.Unlock()

	publish(ctx, r.pub, events.DomainIncome, events.OpUpdate, r.userID, r.userID)
	return nil
}

// Get returns the current settings and whether any have been saved.
func (r *IncomeRegistry) Get() (core.IncomeSettings, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.settings, r.loaded
}

// Monthly normalizes the stored salary to a monthly figure. Without
// saved settings it reports zero.
func (r *IncomeRegistry) Monthly() (decimal.Decimal, error) {
	settings, ok := r.Get()
	if !ok {
		return decimal.Zero, nil
	}
	return settings.Monthly()
}
