package devserver

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/purificadora/app-client/internal/core/domain"
)

// MemoryStore keeps everything in process memory.
type MemoryStore struct {
	mu       sync.Mutex
	users    map[int]Account
	products map[int]domain.Product
	orders   map[int]StoredOrder
	nextUser int
	nextOrd  int
}

// NewMemoryStore returns a store seeded with the given products.
func NewMemoryStore(products ...domain.Product) *MemoryStore {
	s := &MemoryStore{
		users:    make(map[int]Account),
		products: make(map[int]domain.Product),
		orders:   make(map[int]StoredOrder),
		nextUser: 1,
		nextOrd:  1,
	}
	for _, p := range products {
		s.products[p.ID] = p
	}
	return s
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) CreateUser(_ context.Context, a *Account) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, a.Email) {
			return nil, ErrEmailTaken
		}
	}
	created := *a
	created.ID = s.nextUser
	s.nextUser++
	s.users[created.ID] = created
	return &created, nil
}

func (s *MemoryStore) UserByEmail(_ context.Context, email string) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) UserByID(_ context.Context, id int) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *MemoryStore) UpdateUser(_ context.Context, a *Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[a.ID]; !ok {
		return ErrNotFound
	}
	s.users[a.ID] = *a
	return nil
}

func (s *MemoryStore) ListProducts(context.Context) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := slices.Collect(maps.Values(s.products))
	slices.SortFunc(out, func(a, b domain.Product) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (s *MemoryStore) Product(_ context.Context, id int) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (s *MemoryStore) DeleteProduct(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return ErrNotFound
	}
	delete(s.products, id)
	return nil
}

func (s *MemoryStore) AdjustStock(_ context.Context, productID, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[productID]
	if !ok {
		return ErrNotFound
	}
	if p.Quantity+delta < 0 {
		return ErrInsufficientStock
	}
	p.Quantity += delta
	s.products[productID] = p
	return nil
}

func (s *MemoryStore) CreateOrder(_ context.Context, o *StoredOrder) (*StoredOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	created := *o
	created.ID = s.nextOrd
	s.nextOrd++
	s.orders[created.ID] = created
	return &created, nil
}

func (s *MemoryStore) Order(_ context.Context, id int) (*StoredOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &o, nil
}

func (s *MemoryStore) ListOrders(_ context.Context, userID int) ([]StoredOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]StoredOrder, 0, len(s.orders))
	for _, o := range s.orders {
		if userID == 0 || o.UserID == userID {
			out = append(out, o)
		}
	}
	slices.SortFunc(out, func(a, b StoredOrder) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (s *MemoryStore) UpdateOrder(_ context.Context, o *StoredOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[o.ID]; !ok {
		return ErrNotFound
	}
	s.orders[o.ID] = *o
	return nil
}

func (s *MemoryStore) DeleteOrder(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[id]; !ok {
		return ErrNotFound
	}
	delete(s.orders, id)
	return nil
}

// MemoryIdempotency is an in-process Idempotency registry without expiry.
type MemoryIdempotency struct {
	mu   sync.Mutex
	keys map[string]int
}

func NewMemoryIdempotency() *MemoryIdempotency {
	return &MemoryIdempotency{keys: make(map[string]int)}
}

func (m *MemoryIdempotency) Lookup(_ context.Context, key string) (int, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.keys[key]
	return id, ok, nil
}

// Remember keeps the first order stored under key.
func (m *MemoryIdempotency) Remember(_ context.Context, key string, orderID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, taken := m.keys[key]; !taken {
		m.keys[key] = orderID
	}
	return nil
}
