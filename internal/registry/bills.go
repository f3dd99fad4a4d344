// Package registry holds the per-session in-memory mirrors of the
// remote collections. Each registry owns one collection behind its own
// mutex: every mutation goes to the store first and touches the mirror
// only on success, so a failed remote write leaves local state at its
// last known-good value.
package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/GazaBreda/PayMe/internal/core"
	"github.com/GazaBreda/PayMe/internal/events"
	"github.com/GazaBreda/PayMe/internal/storage"
)

// BillRegistry owns the bill collection for one user.
type BillRegistry struct {
	mu     sync.Mutex
	userID string
	store  storage.BillStore
	pub    events.Publisher
	bills  []core.Bill
}

func NewBills(userID string, store storage.BillStore, pub events.Publisher) *BillRegistry {
	return &BillRegistry{
		userID: userID,
		store:  store,
		pub:    pub,
	}
}

// Load replaces the mirror with the store's current contents.
func (r *BillRegistry) Load(ctx context.Context) error {
	bills, err := r.store.ListBills(ctx, r.userID)
	if err != nil {
		return fmt.Errorf("load bills: %w", err)
	}

	r.mu.Lock()
	r.bills = bills
	r.mu.Unlock()
	return nil
}

// Add validates and persists a new bill. The returned bill carries the
// store-assigned identifier. Out-of-range priorities are clamped to the
// nearest valid level.
func (r *BillRegistry) Add(ctx context.Context, bill core.Bill) (core.Bill, error) {
	bill.ID = ""
	bill.Priority = core.ClampPriority(bill.Priority)
	if err := bill.Validate(); err != nil {
		return core.Bill{}, err
	}

	if err := r.store.CreateBill(ctx, r.userID, &bill); err != nil {
		return core.Bill{}, fmt.Errorf("persist bill: %w", err)
	}

	r.mu.Lock()
	r.bills = append(r.bills, bill)
	r.mu.Unlock()

	r.publish(ctx, events.OpCreate, bill.ID)
	return bill, nil
}

// Update replaces every field of an existing bill by identifier. An
// identifier unknown to the store surfaces as storage.ErrNotFound.
func (r *BillRegistry) Update(ctx context.Context, bill core.Bill) (core.Bill, error) {
	bill.Priority = core.ClampPriority(bill.Priority)
	if err := bill.Validate(); err != nil {
		return core.Bill{}, err
	}

	if err := r.store.UpdateBill(ctx, r.userID, bill); err != nil {
		return core.Bill{}, fmt.Errorf("update bill: %w", err)
	}

	r.mu.Lock()
	for i := range r.bills {
		if r.bills[i].ID == bill.ID {
			r.bills[i] = bill
			break
		}
	}
	r.mu.Unlock()

	r.publish(ctx, events.OpUpdate, bill.ID)
	return bill, nil
}

// Remove deletes the bill remotely and from the mirror. Removing an
// id absent from the mirror is a local no-op.
func (r *BillRegistry) Remove(ctx context.Context, billID string) error {
	if err := r.store.DeleteBill(ctx, r.userID, billID); err != nil {
		return fmt.Errorf("delete bill: %w", err)
	}

	r.mu.Lock()
	for i := range r.bills {
		if r.bills[i].ID == billID {
			r.bills = append(r.bills[:i], r.bills[i+1:]...)
			break
		}
	}
	r.mu.Unlock()

	r.publish(ctx, events.OpDelete, billID)
	return nil
}

// All returns the bills in insertion order.
func (r *BillRegistry) All() []core.Bill {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]core.Bill, len(r.bills))
	copy(out, r.bills)
	return out
}

// SortedForDisplay returns the bills ordered by ascending priority,
// ties broken by ascending due date. The sort is stable: bills equal in
// both keys keep their relative insertion order.
func (r *BillRegistry) SortedForDisplay() []core.Bill {
	bills := r.All()
	sort.SliceStable(bills, func(i, j int) bool {
		if bills[i].Priority != bills[j].Priority {
			return bills[i].Priority < bills[j].Priority
		}
		return bills[i].DueDate.Compare(bills[j].DueDate) < 0
	})
	return bills
}

// Urgency classifies a due date against now.
func (r *BillRegistry) Urgency(due core.Date, now time.Time) string {
	return core.Urgency(due, now)
}

func (r *BillRegistry) publish(ctx context.Context, op, docID string) {
	publish(ctx, r.pub, events.DomainBills, op, r.userID, docID)
}

// publish sends a change event on a best-effort basis. A nil publisher
// disables events entirely and a failed publish is logged, never
// returned: messaging must not fail a write that already succeeded.
func publish(ctx context.Context, pub events.Publisher, domain, op, userID, docID string) {
	if pub == nil {
		return
	}
	if err := pub.PublishChange(ctx, events.NewChangeEvent(domain, op, userID, docID)); err != nil {
		slog.ErrorContext(ctx, "Failed to publish change event",
			"domain", domain,
			"op", op,
			"user_id", userID,
			"error", err)
	}
}
