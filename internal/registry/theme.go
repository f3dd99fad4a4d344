package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/GazaBreda/PayMe/internal/core"
	"github.com/GazaBreda/PayMe/internal/events"
	"github.com/GazaBreda/PayMe/internal/storage"
)

// ThemeRegistry owns the theme preference for one user. Users without a
// saved preference get the light theme.
type ThemeRegistry struct {
	mu     sync.Mutex
	userID string
	store  storage.ThemeStore
	pub    events.Publisher
	theme  core.Theme
}

func NewTheme(userID string, store storage.ThemeStore, pub events.Publisher) *ThemeRegistry {
	return &ThemeRegistry{
		userID: userID,
		store:  store,
		pub:    pub,
		theme:  core.Theme{Mode: core.ThemeLight},
	}
}

func (r *ThemeRegistry) Load(ctx context.Context) error {
	theme, err := r.store.GetTheme(ctx, r.userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("load theme: %w", err)
	}

	r.mu.Lock()
	r.theme = theme
	r.mu.Unlock()
	return nil
}

func (r *ThemeRegistry) Save(ctx context.Context, theme core.Theme) error {
	if err := theme.Validate(); err != nil {
		return err
	}

	if err := r.store.SaveTheme(ctx, r.userID, theme); err != nil {
		return fmt.Errorf("persist theme: %w", err)
	}

	r.mu.Lock()
	r.theme = theme
	r.mu.Unlock()

	publish(ctx, r.pub, events.DomainTheme, events.OpUpdate, r.userID, r.userID)
	return nil
}

func (r *ThemeRegistry) Get() core.Theme {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.theme
}
