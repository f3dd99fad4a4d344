// Package http exposes the JSON API. The server embeds http.Server and
// owns its middleware chain, rate limiter, and session manager wiring.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/GazaBreda/PayMe/internal/auth"
	"github.com/GazaBreda/PayMe/internal/events"
	"github.com/GazaBreda/PayMe/internal/session"
	"github.com/GazaBreda/PayMe/internal/storage"
)

// Pinger is implemented by stores that can verify connectivity, used by
// the readiness endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	http.Server

	authenticator *auth.PasswordAuthenticator
	tokens        *auth.JWTManager
	sessions      *session.Manager
	store         storage.Store
	publisher     events.Publisher
	limiter       *rateLimiter
	metrics       *apiMetrics

	shutdownOnce sync.Once
}

// NewServer wires routes and middleware, returning a ready-to-run
// server listening on addr.
func NewServer(addr string, store storage.Store, authenticator *auth.PasswordAuthenticator, tokens *auth.JWTManager, sessions *session.Manager, publisher events.Publisher) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		authenticator: authenticator,
		tokens:        tokens,
		sessions:      sessions,
		store:         store,
		publisher:     publisher,
		limiter:       newRateLimiter(),
		metrics:       sharedMetrics(),
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /api/auth/register", s.public(s.handleRegister))
	mux.HandleFunc("POST /api/auth/login", s.public(s.handleLogin))
	mux.HandleFunc("POST /api/auth/logout", s.protected(s.handleLogout))
	mux.HandleFunc("POST /api/auth/reset-request", s.public(s.handleResetRequest))
	mux.HandleFunc("POST /api/auth/reset", s.public(s.handleReset))

	mux.HandleFunc("GET /api/income", s.protected(s.handleGetIncome))
	mux.HandleFunc("PUT /api/income", s.protected(s.handleSaveIncome))
	mux.HandleFunc("GET /api/income/monthly", s.protected(s.handleMonthlyIncome))

	mux.HandleFunc("GET /api/bills", s.protected(s.handleListBills))
	mux.HandleFunc("POST /api/bills", s.protected(s.handleCreateBill))
	mux.HandleFunc("PUT /api/bills/{id}", s.protected(s.handleUpdateBill))
	mux.HandleFunc("DELETE /api/bills/{id}", s.protected(s.handleDeleteBill))

	mux.HandleFunc("GET /api/groceries", s.protected(s.handleListGroceries))
	mux.HandleFunc("POST /api/groceries", s.protected(s.handleAddGrocery))
	mux.HandleFunc("DELETE /api/groceries/{id}", s.protected(s.handleDeleteGrocery))
	mux.HandleFunc("POST /api/groceries/clear", s.protected(s.handleClearGroceries))

	mux.HandleFunc("GET /api/theme", s.protected(s.handleGetTheme))
	mux.HandleFunc("PUT /api/theme", s.protected(s.handleSaveTheme))

	return s
}

// public applies the base middleware chain without authentication.
func (s *Server) public(next http.HandlerFunc) http.HandlerFunc {
	return s.withTrace(s.withMetrics(s.withRateLimit(next)))
}

// protected additionally requires a valid bearer session token.
func (s *Server) protected(next http.HandlerFunc) http.HandlerFunc {
	return s.withTrace(s.withMetrics(s.withRateLimit(s.withAuth(next))))
}

// Shutdown stops the rate limiter and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if pinger, ok := s.store.(Pinger); ok {
		if err := pinger.Ping(ctx); err != nil {
			slog.ErrorContext(ctx, "Readiness check failed", "error", err)
			respondJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not_ready",
				"store":  err.Error(),
			})
			return
		}
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
