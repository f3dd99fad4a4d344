package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/GazaBreda/PayMe/internal/cache"
	"github.com/GazaBreda/PayMe/internal/events"
	"github.com/GazaBreda/PayMe/internal/storage"
)

// Manager hands out loaded sessions keyed by user id. Sessions live in
// an LRU cache so repeat requests skip the bulk load; sign-out drops
// the entry, and an evicted or expired session is simply reloaded on
// the next request.
type Manager struct {
	store    storage.Store
	pub      events.Publisher
	sessions *cache.LRU[*Session]

	mu      sync.Mutex
	loading map[string]*sync.WaitGroup
}

func NewManager(store storage.Store, pub events.Publisher, cacheSize int, cacheTTL time.Duration) *Manager {
	return &Manager{
		store:    store,
		pub:      pub,
		sessions: cache.NewLRU[*Session](cacheSize, cacheTTL),
		loading:  make(map[string]*sync.WaitGroup),
	}
}

// Get returns the cached session for userID, loading it first if
// needed. Concurrent requests for the same cold user share one load.
func (m *Manager) Get(ctx context.Context, userID string) (*Session, error) {
	for {
		if sess, ok := m.sessions.Get(userID); ok {
			return sess, nil
		}

		m.mu.Lock()
		if wg, inFlight := m.loading[userID]; inFlight {
			m.mu.Unlock()
			wg.Wait()
			continue
		}
		wg := &sync.WaitGroup{}
		wg.Add(1)
		m.loading[userID] = wg
		m.mu.Unlock()

		sess := New(userID, m.store, m.pub)
		err := sess.Load(ctx)
		if err == nil {
			m.sessions.Set(userID, sess)
		}

		m.mu.Lock()
		delete(m.loading, userID)
		m.mu.Unlock()
		wg.Done()

		if err != nil {
			return nil, err
		}
		return sess, nil
	}
}

// Drop discards the cached session, typically on sign-out.
func (m *Manager) Drop(userID string) {
	m.sessions.Delete(userID)
}

// StartCleanup evicts expired sessions on a fixed interval until ctx is
// cancelled.
func (m *Manager) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if removed := m.sessions.CleanExpired(); removed > 0 {
					slog.DebugContext(ctx, "Evicted expired sessions", "count", removed)
				}
			}
		}
	}()
}
