// Command reminder-worker runs the bill reminder scan as a standalone
// process, publishing reminder events to the configured broker.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/GazaBreda/PayMe/internal/config"
	"github.com/GazaBreda/PayMe/internal/events"
	applog "github.com/GazaBreda/PayMe/internal/log"
	"github.com/GazaBreda/PayMe/internal/storage"
	"github.com/GazaBreda/PayMe/internal/storage/memory"
	"github.com/GazaBreda/PayMe/internal/storage/sqlite"
	"github.com/GazaBreda/PayMe/internal/worker"
)

func main() {
	cfg := config.Load()
	applog.Setup(cfg.LogLevel, cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		slog.Error("AMQP_URL must be set for the reminder worker")
		os.Exit(1)
	}

	if err := run(cfg); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("Worker exited with error", "error", err)
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

	client, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		return err
	}
	defer client.Close()

	w := worker.NewReminderWorker(store, client, cfg.ReminderInterval, cfg.ReminderHorizon)
	return w.Run(ctx)
}

func openStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.DataBackend {
	case "memory":
		return memory.New(), nil
	default:
		return sqlite.New(cfg.SQLiteDBPath)
	}
}
