// Package memory provides an in-memory storage.Store, used by tests and
// the "memory" data backend.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/GazaBreda/PayMe/internal/core"
	"github.com/GazaBreda/PayMe/internal/storage"
)

var _ storage.Store = (*Store)(nil)

type userData struct {
	income    *core.IncomeSettings
	theme     *core.Theme
	bills     []core.Bill
	groceries []core.GroceryItem
}

// Store keeps all documents in process memory. A single mutex guards
// every collection; contention is irrelevant at test scale.
type Store struct {
	mu    sync.Mutex
	users map[string]*core.User // by id
	data  map[string]*userData  // by user id
}

func New() *Store {
	return &Store{
		users: make(map[string]*core.User),
		data:  make(map[string]*userData),
	}
}

func (s *Store) Close() error { return nil }

func (s *Store) forUser(userID string) *userData {
	d, ok := s.data[userID]
	if !ok {
		d = &userData{}
		s.data[userID] = d
	}
	return d
}

// --- users ---

func (s *Store) CreateUser(_ context.Context, user *core.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return fmt.Errorf("email already registered: %s", user.Email)
		}
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	copied := *user
	s.users[user.ID] = &copied
	return nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *Store) GetUserByID(_ context.Context, id string) (*core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (s *Store) UpdatePasswordHash(_ context.Context, userID, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return storage.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (s *Store) ListUserIDs(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.users))
	for id := range s.users {
		ids = append(ids, id)
	}
	return ids, nil
}

// --- income settings ---

func (s *Store) GetIncome(_ context.Context, userID string) (core.IncomeSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.forUser(userID)
	if d.income == nil {
		return core.IncomeSettings{}, storage.ErrNotFound
	}
	return *d.income, nil
}

func (s *Store) SaveIncome(_ context.Context, userID string, settings core.IncomeSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forUser(userID).income = &settings
	return nil
}

// --- theme ---

func (s *Store) GetTheme(_ context.Context, userID string) (core.Theme, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.forUser(userID)
	if d.theme == nil {
		return core.Theme{}, storage.ErrNotFound
	}
	return *d.theme, nil
}

func (s *Store) SaveTheme(_ context.Context, userID string, theme core.Theme) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forUser(userID).theme = &theme
	return nil
}

// --- bills ---

func (s *Store) ListBills(_ context.Context, userID string) ([]core.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Bill(nil), s.forUser(userID).bills...), nil
}

func (s *Store) CreateBill(_ context.Context, userID string, bill *core.Bill) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	bill.ID = uuid.New().String()
	d := s.forUser(userID)
	d.bills = append(d.bills, *bill)
	return nil
}

func (s *Store) UpdateBill(_ context.Context, userID string, bill core.Bill) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.forUser(userID)
	for i := range d.bills {
		if d.bills[i].ID == bill.ID {
			d.bills[i] = bill
			return nil
		}
	}
	return storage.ErrNotFound
}

func (s *Store) DeleteBill(_ context.Context, userID, billID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.forUser(userID)
	for i := range d.bills {
		if d.bills[i].ID == billID {
			d.bills = append(d.bills[:i], d.bills[i+1:]...)
			return nil
		}
	}
	return nil
}

// --- groceries ---

func (s *Store) ListGroceries(_ context.Context, userID string) ([]core.GroceryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.GroceryItem(nil), s.forUser(userID).groceries...), nil
}

func (s *Store) CreateGrocery(_ context.Context, userID string, item *core.GroceryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item.ID = uuid.New().String()
	d := s.forUser(userID)
	d.groceries = append(d.groceries, *item)
	return nil
}

func (s *Store) DeleteGrocery(_ context.Context, userID, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.forUser(userID)
	for i := range d.groceries {
		if d.groceries[i].ID == itemID {
			d.groceries = append(d.groceries[:i], d.groceries[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *Store) ClearGroceries(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forUser(userID).groceries = nil
	return nil
}
