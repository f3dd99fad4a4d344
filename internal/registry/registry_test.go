package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/GazaBreda/PayMe/internal/core"
	"github.com/GazaBreda/PayMe/internal/storage"
	"github.com/GazaBreda/PayMe/internal/storage/memory"
)

func mustDate(t *testing.T, s string) core.Date {
	t.Helper()
	d, err := core.ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return d
}

func newTestUser(t *testing.T, store *memory.Store) string {
	t.Helper()
	user := &core.User{Email: "test@example.com", PasswordHash: "x"}
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return user.ID
}

func TestBillRegistrySortedForDisplay(t *testing.T) {
	store := memory.New()
	userID := newTestUser(t, store)
	reg := NewBills(userID, store, nil)
	ctx := context.Background()

	add := func(name, due string, priority int) {
		t.Helper()
		_, err := reg.Add(ctx, core.Bill{
			Name:     name,
			Amount:   decimal.NewFromInt(100),
			DueDate:  mustDate(t, due),
			Priority: priority,
		})
		if err != nil {
			t.Fatalf("Add(%s): %v", name, err)
		}
	}

	add("Netflix", "2026-09-01", 3)
	add("Rent", "2026-09-15", 1)
	add("Water", "2026-09-10", 2)
	add("Power", "2026-09-05", 2)

	got := reg.SortedForDisplay()
	want := []string{"Rent", "Power", "Water", "Netflix"}
	if len(got) != len(want) {
		t.Fatalf("got %d bills, want %d", len(got), len(want))
	}
	for i, name := range want {
		if got[i].Name != name {
			t.Errorf("position %d: got %q, want %q", i, got[i].Name, name)
		}
	}
}

func TestBillRegistrySortIsStable(t *testing.T) {
	store := memory.New()
	userID := newTestUser(t, store)
	reg := NewBills(userID, store, nil)
	ctx := context.Background()

	// Identical priority and due date: insertion order must survive.
	for _, name := range []string{"first", "second", "third"} {
		_, err := reg.Add(ctx, core.Bill{
			Name:     name,
			Amount:   decimal.NewFromInt(10),
			DueDate:  mustDate(t, "2026-09-01"),
			Priority: 2,
		})
		if err != nil {
			t.Fatalf("Add(%s): %v", name, err)
		}
	}

	got := reg.SortedForDisplay()
	for i, name := range []string{"first", "second", "third"} {
		if got[i].Name != name {
			t.Errorf("position %d: got %q, want %q", i, got[i].Name, name)
		}
	}
}

func TestBillRegistryClampsPriority(t *testing.T) {
	store := memory.New()
	userID := newTestUser(t, store)
	reg := NewBills(userID, store, nil)
	ctx := context.Background()

	bill, err := reg.Add(ctx, core.Bill{
		Name:     "Gym",
		Amount:   decimal.NewFromInt(30),
		DueDate:  mustDate(t, "2026-09-20"),
		Priority: 99,
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if bill.Priority != core.PriorityLow {
		t.Errorf("priority = %d, want %d", bill.Priority, core.PriorityLow)
	}

	bill, err = reg.Add(ctx, core.Bill{
		Name:     "Rent",
		Amount:   decimal.NewFromInt(900),
		DueDate:  mustDate(t, "2026-09-01"),
		Priority: 0,
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if bill.Priority != core.PriorityHigh {
		t.Errorf("priority = %d, want %d", bill.Priority, core.PriorityHigh)
	}
}

func TestBillRegistryUpdateAndRemove(t *testing.T) {
	store := memory.New()
	userID := newTestUser(t, store)
	reg := NewBills(userID, store, nil)
	ctx := context.Background()

	bill, err := reg.Add(ctx, core.Bill{
		Name:     "Internet",
		Amount:   decimal.NewFromInt(40),
		DueDate:  mustDate(t, "2026-09-12"),
		Priority: 2,
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	bill.Amount = decimal.NewFromInt(45)
	if _, err := reg.Update(ctx, bill); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got := reg.All()[0].Amount; !got.Equal(decimal.NewFromInt(45)) {
		t.Errorf("amount after update = %s, want 45", got)
	}

	_, err = reg.Update(ctx, core.Bill{
		ID:       "missing",
		Name:     "ghost",
		Amount:   decimal.NewFromInt(1),
		DueDate:  mustDate(t, "2026-09-12"),
		Priority: 2,
	})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("update of unknown id: got %v, want ErrNotFound", err)
	}

	if err := reg.Remove(ctx, bill.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if len(reg.All()) != 0 {
		t.Error("bill still present after remove")
	}
	// Removing again is a no-op.
	if err := reg.Remove(ctx, bill.ID); err != nil {
		t.Errorf("second Remove: %v", err)
	}
}

func TestBillRegistryKeepsStateOnStoreFailure(t *testing.T) {
	store := memory.New()
	userID := newTestUser(t, store)

	failing := &failingBillStore{BillStore: store}
	reg := NewBills(userID, failing, nil)
	ctx := context.Background()

	bill, err := reg.Add(ctx, core.Bill{
		Name:     "Rent",
		Amount:   decimal.NewFromInt(900),
		DueDate:  mustDate(t, "2026-09-01"),
		Priority: 1,
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	failing.fail = true

	if _, err := reg.Add(ctx, core.Bill{
		Name:     "Netflix",
		Amount:   decimal.NewFromInt(15),
		DueDate:  mustDate(t, "2026-09-05"),
		Priority: 3,
	}); err == nil {
		t.Fatal("Add with failing store: expected error")
	}
	changed := bill
	changed.Amount = decimal.NewFromInt(1000)
	if _, err := reg.Update(ctx, changed); err == nil {
		t.Fatal("Update with failing store: expected error")
	}
	if err := reg.Remove(ctx, bill.ID); err == nil {
		t.Fatal("Remove with failing store: expected error")
	}

	got := reg.All()
	if len(got) != 1 {
		t.Fatalf("got %d bills after failed writes, want 1", len(got))
	}
	if !got[0].Amount.Equal(decimal.NewFromInt(900)) {
		t.Errorf("amount = %s, local state mutated by failed update", got[0].Amount)
	}
}

type failingBillStore struct {
	storage.BillStore
	fail bool
}

var errStoreDown = errors.New("store unavailable")

func (s *failingBillStore) CreateBill(ctx context.Context, userID string, bill *core.Bill) error {
	if s.fail {
		return errStoreDown
	}
	return s.BillStore.CreateBill(ctx, userID, bill)
}

func (s *failingBillStore) UpdateBill(ctx context.Context, userID string, bill core.Bill) error {
	if s.fail {
		return errStoreDown
	}
	return s.BillStore.UpdateBill(ctx, userID, bill)
}

func (s *failingBillStore) DeleteBill(ctx context.Context, userID, billID string) error {
	if s.fail {
		return errStoreDown
	}
	return s.BillStore.DeleteBill(ctx, userID, billID)
}

func TestGroceryRegistryInsertionOrder(t *testing.T) {
	store := memory.New()
	userID := newTestUser(t, store)
	reg := NewGroceries(userID, store, nil)
	ctx := context.Background()

	type input struct {
		qty, unit, item, cat string
		wantText, wantCat    string
	}
	inputs := []input{
		{"2", "kg", "rice", "Pantry", "2kg rice", "Pantry"},
		{"1", "", "milk", "", "1 milk", "Other"},
		{"500", "g", "coffee", "  ", "500g coffee", "Other"},
	}

	for _, in := range inputs {
		item, err := reg.Add(ctx, in.qty, in.unit, in.item, in.cat)
		if err != nil {
			t.Fatalf("Add(%s): %v", in.item, err)
		}
		if item.Text != in.wantText {
			t.Errorf("text = %q, want %q", item.Text, in.wantText)
		}
		if item.Category != in.wantCat {
			t.Errorf("category = %q, want %q", item.Category, in.wantCat)
		}
	}

	items := reg.Items()
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}
	for i, in := range inputs {
		if items[i].Text != in.wantText {
			t.Errorf("position %d: got %q, want %q", i, items[i].Text, in.wantText)
		}
	}
}

func TestGroceryRegistryRejectsBlankInputs(t *testing.T) {
	store := memory.New()
	userID := newTestUser(t, store)
	reg := NewGroceries(userID, store, nil)
	ctx := context.Background()

	if _, err := reg.Add(ctx, "", "kg", "rice", ""); !errors.Is(err, core.ErrEmptyQuantity) {
		t.Errorf("blank quantity: got %v, want ErrEmptyQuantity", err)
	}
	if _, err := reg.Add(ctx, "2", "kg", "   ", ""); !errors.Is(err, core.ErrEmptyItem) {
		t.Errorf("blank item: got %v, want ErrEmptyItem", err)
	}
	if len(reg.Items()) != 0 {
		t.Error("rejected inputs reached the list")
	}
}

func TestGroceryRegistryClearAll(t *testing.T) {
	store := memory.New()
	userID := newTestUser(t, store)
	reg := NewGroceries(userID, store, nil)
	ctx := context.Background()

	for _, item := range []string{"milk", "eggs", "bread"} {
		if _, err := reg.Add(ctx, "1", "", item, ""); err != nil {
			t.Fatalf("Add(%s): %v", item, err)
		}
	}

	if err := reg.ClearAll(ctx); err != nil {
		t.Fatalf("ClearAll: %v", err)
	}
	if len(reg.Items()) != 0 {
		t.Error("items remain after ClearAll")
	}
	// Clearing an empty list succeeds.
	if err := reg.ClearAll(ctx); err != nil {
		t.Errorf("ClearAll on empty list: %v", err)
	}

	// The store agrees.
	stored, err := store.ListGroceries(ctx, userID)
	if err != nil {
		t.Fatalf("ListGroceries: %v", err)
	}
	if len(stored) != 0 {
		t.Errorf("store still holds %d items", len(stored))
	}
}

func TestIncomeRegistryMonthly(t *testing.T) {
	store := memory.New()
	userID := newTestUser(t, store)
	reg := NewIncome(userID, store, nil)
	ctx := context.Background()

	// Never saved: monthly income is zero, not an error.
	monthly, err := reg.Monthly()
	if err != nil {
		t.Fatalf("Monthly before save: %v", err)
	}
	if !monthly.IsZero() {
		t.Errorf("monthly before save = %s, want 0", monthly)
	}

	err = reg.Save(ctx, core.IncomeSettings{
		Salary:    decimal.NewFromInt(1200),
		Frequency: core.Weekly,
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	monthly, err = reg.Monthly()
	if err != nil {
		t.Fatalf("Monthly: %v", err)
	}
	want := decimal.NewFromInt(1200).Mul(decimal.NewFromInt(52)).Div(decimal.NewFromInt(12))
	if !monthly.Equal(want) {
		t.Errorf("monthly = %s, want %s", monthly, want)
	}

	// Save is an overwrite, and Load on a fresh registry sees it.
	err = reg.Save(ctx, core.IncomeSettings{
		Salary:    decimal.NewFromInt(3000),
		Frequency: core.Monthly,
	})
	if err != nil {
		t.Fatalf("second Save: %v", err)
	}

	fresh := NewIncome(userID, store, nil)
	if err := fresh.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	monthly, err = fresh.Monthly()
	if err != nil {
		t.Fatalf("Monthly after reload: %v", err)
	}
	if !monthly.Equal(decimal.NewFromInt(3000)) {
		t.Errorf("monthly after reload = %s, want 3000", monthly)
	}
}

func TestIncomeRegistryRejectsNegativeSalary(t *testing.T) {
	store := memory.New()
	userID := newTestUser(t, store)
	reg := NewIncome(userID, store, nil)

	err := reg.Save(context.Background(), core.IncomeSettings{
		Salary:    decimal.NewFromInt(-1),
		Frequency: core.Monthly,
	})
	if !errors.Is(err, core.ErrNegativeSalary) {
		t.Errorf("got %v, want ErrNegativeSalary", err)
	}
	if _, ok := reg.Get(); ok {
		t.Error("rejected settings were stored locally")
	}
}

func TestThemeRegistryDefaultsToLight(t *testing.T) {
	store := memory.New()
	userID := newTestUser(t, store)
	reg := NewTheme(userID, store, nil)
	ctx := context.Background()

	if err := reg.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := reg.Get().Mode; got != core.ThemeLight {
		t.Errorf("default theme = %q, want light", got)
	}

	if err := reg.Save(ctx, core.Theme{Mode: core.ThemeDark}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if got := reg.Get().Mode; got != core.ThemeDark {
		t.Errorf("theme after save = %q, want dark", got)
	}

	if err := reg.Save(ctx, core.Theme{Mode: "sepia"}); !errors.Is(err, core.ErrInvalidThemeMode) {
		t.Errorf("invalid mode: got %v, want ErrInvalidThemeMode", err)
	}
	if got := reg.Get().Mode; got != core.ThemeDark {
		t.Errorf("theme after rejected save = %q, want dark", got)
	}

	fresh := NewTheme(userID, store, nil)
	if err := fresh.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := fresh.Get().Mode; got != core.ThemeDark {
		t.Errorf("theme after reload = %q, want dark", got)
	}
}
