package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GazaBreda/PayMe/internal/core"
	"github.com/GazaBreda/PayMe/internal/events"
	"github.com/GazaBreda/PayMe/internal/storage/memory"
)

type recordingPublisher struct {
	mu        sync.Mutex
	reminders []events.ReminderEvent
	fail      bool
}

func (p *recordingPublisher) PublishChange(context.Context, events.ChangeEvent) error { return nil }

func (p *recordingPublisher) PublishReminder(_ context.Context, event events.ReminderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errors.New("broker unavailable")
	}
	p.reminders = append(p.reminders, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) all() []events.ReminderEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.ReminderEvent, len(p.reminders))
	copy(out, p.reminders)
	return out
}

func addBill(t *testing.T, store *memory.Store, userID, name string, due time.Time) {
	t.Helper()
	bill := core.Bill{
		Name:     name,
		Amount:   decimal.NewFromInt(50),
		DueDate:  core.NewDate(due.Year(), int(due.Month()), due.Day()),
		Priority: 2,
	}
	if err := store.CreateBill(context.Background(), userID, &bill); err != nil {
		t.Fatalf("CreateBill(%s): %v", name, err)
	}
}

func TestScanOncePublishesDueReminders(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	user := &core.User{Email: "worker@example.com", PasswordHash: "x"}
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	now := time.Now()
	addBill(t, store, user.ID, "overdue", now.AddDate(0, 0, -3))
	addBill(t, store, user.ID, "today", now)
	addBill(t, store, user.ID, "soon", now.AddDate(0, 0, 2))
	addBill(t, store, user.ID, "far", now.AddDate(0, 0, 30))

	pub := &recordingPublisher{}
	w := NewReminderWorker(store, pub, time.Hour, 7)
	if err := w.ScanOnce(ctx); err != nil {
		t.Fatalf("ScanOnce: %v", err)
	}

	got := pub.all()
	want := map[string]string{
		"overdue": "Past due",
		"today":   "Due today",
		"soon":    "2 days left",
	}
	if len(got) != len(want) {
		t.Fatalf("published %d reminders, want %d: %+v", len(got), len(want), got)
	}
	for _, event := range got {
		urgency, ok := want[event.Name]
		if !ok {
			t.Errorf("unexpected reminder for %q", event.Name)
			continue
		}
		if event.Urgency != urgency {
			t.Errorf("%s: urgency = %q, want %q", event.Name, event.Urgency, urgency)
		}
		if event.UserID != user.ID {
			t.Errorf("%s: user_id = %q, want %q", event.Name, event.UserID, user.ID)
		}
	}
}

func TestScanOnceSurvivesPublishFailure(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	user := &core.User{Email: "worker@example.com", PasswordHash: "x"}
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	addBill(t, store, user.ID, "overdue", time.Now().AddDate(0, 0, -1))

	pub := &recordingPublisher{fail: true}
	w := NewReminderWorker(store, pub, time.Hour, 7)
	if err := w.ScanOnce(ctx); err != nil {
		t.Fatalf("ScanOnce with failing broker: %v", err)
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	store := memory.New()
	pub := &recordingPublisher{}
	w := NewReminderWorker(store, pub, 10*time.Millisecond, 7)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
