// Package worker runs the background bill reminder scan.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/GazaBreda/PayMe/internal/core"
	"github.com/GazaBreda/PayMe/internal/events"
	"github.com/GazaBreda/PayMe/internal/storage"
)

// ReminderWorker periodically scans every user's bills and publishes a
// reminder event for each bill that is past due, due today, or due
// within the horizon.
type ReminderWorker struct {
	store    storage.Store
	pub      events.Publisher
	interval time.Duration
	horizon  int
}

// NewReminderWorker builds a worker that scans every interval and
// reminds about bills due within horizon days.
func NewReminderWorker(store storage.Store, pub events.Publisher, interval time.Duration, horizonDays int) *ReminderWorker {
	return &ReminderWorker{
		store:    store,
		pub:      pub,
		interval: interval,
		horizon:  horizonDays,
	}
}

// Run scans once immediately, then on every tick until ctx is
// cancelled.
func (w *ReminderWorker) Run(ctx context.Context) error {
	slog.InfoContext(ctx, "Reminder worker started",
		"interval", w.interval.String(),
		"horizon_days", w.horizon)

	if err := w.ScanOnce(ctx); err != nil {
		slog.ErrorContext(ctx, "Reminder scan failed", "error", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Reminder worker stopping")
			return ctx.Err()
		case <-ticker.C:
			if err := w.ScanOnce(ctx); err != nil {
				slog.ErrorContext(ctx, "Reminder scan failed", "error", err)
			}
		}
	}
}

// ScanOnce walks all users and publishes due reminders. Per-user
// failures are logged and skipped so one broken account cannot starve
// the rest.
func (w *ReminderWorker) ScanOnce(ctx context.Context) error {
	userIDs, err := w.store.ListUserIDs(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	now := time.Now()
	published := 0
	for _, userID := range userIDs {
		n, err := w.scanUser(ctx, userID, now)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to scan user bills", "user_id", userID, "error", err)
			continue
		}
		published += n
	}

	slog.InfoContext(ctx, "Reminder scan completed",
		"users", len(userIDs),
		"reminders", published)
	return nil
}

func (w *ReminderWorker) scanUser(ctx context.Context, userID string, now time.Time) (int, error) {
	bills, err := w.store.ListBills(ctx, userID)
	if err != nil {
		return 0, err
	}

	published := 0
	for _, bill := range bills {
		if bill.DueDate.DaysUntil(now) > w.horizon {
			continue
		}
		event := events.NewReminderEvent(userID, bill.ID, bill.Name, bill.DueDate.String(), core.Urgency(bill.DueDate, now))
		if err := w.pub.PublishReminder(ctx, event); err != nil {
			slog.ErrorContext(ctx, "Failed to publish reminder",
				"user_id", userID,
				"bill_id", bill.ID,
				"error", err)
			continue
		}
		published++
	}
	return published, nil
}
