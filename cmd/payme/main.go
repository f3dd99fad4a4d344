package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GazaBreda/PayMe/internal/auth"
	"github.com/GazaBreda/PayMe/internal/config"
	"github.com/GazaBreda/PayMe/internal/events"
	apphttp "github.com/GazaBreda/PayMe/internal/http"
	applog "github.com/GazaBreda/PayMe/internal/log"
	"github.com/GazaBreda/PayMe/internal/session"
	"github.com/GazaBreda/PayMe/internal/storage"
	"github.com/GazaBreda/PayMe/internal/storage/memory"
	"github.com/GazaBreda/PayMe/internal/storage/sqlite"
)

func main() {
	cfg := config.Load()
	applog.Setup(cfg.LogLevel, cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	var publisher events.Publisher
	if cfg.AMQPURL != "" {
		client, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			return err
		}
		defer client.Close()
		publisher = client
		slog.Info("Event publishing enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		slog.Info("Event publishing disabled, AMQP_URL not set")
	}

	sessions := session.NewManager(store, publisher, cfg.SessionCacheSize, cfg.SessionCacheTTL)
	sessions.StartCleanup(ctx, 5*time.Minute)

	authenticator := auth.NewPasswordAuthenticator(store)
	tokens := auth.NewJWTManager(cfg.JWTSecret, cfg.SessionDuration, cfg.ResetDuration)

	server := apphttp.NewServer(":"+cfg.Port, store, authenticator, tokens, sessions, publisher)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server listening", "port", cfg.Port, "backend", cfg.DataBackend)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func openStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.DataBackend {
	case "memory":
		slog.Warn("Using in-memory storage, data will not survive restarts")
		return memory.New(), nil
	default:
		return sqlite.New(cfg.SQLiteDBPath)
	}
}
