// Package memory is an in-process Store used for local development and tests.
package memory

import (
	"context"
	"restoran_server/repository"
	"restoran_server/structs/tables"
	"sync"

	"github.com/google/uuid"
)

// Store keeps every collection in maps guarded by one RWMutex, so multi-step
// writes such as ReserveTable are atomic.
type Store struct {
	mu sync.RWMutex

	categories map[int64]tables.MenuCategory
	items      map[int64]tables.MenuItem
	tables     map[int64]tables.RestaurantTable
	bookings   map[int64]tables.Booking
	messages   map[int64]tables.ContactMessage
	orders     map[int64]tables.Order
	orderItems map[int64]tables.OrderItem
	users      map[uuid.UUID]tables.AuthUser
	profiles   map[uuid.UUID]tables.Profile
	resets     map[string]tables.PasswordReset

	seq map[string]int64
}

var _ repository.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		categories: make(map[int64]tables.MenuCategory),
		items:      make(map[int64]tables.MenuItem),
		tables:     make(map[int64]tables.RestaurantTable),
		bookings:   make(map[int64]tables.Booking),
		messages:   make(map[int64]tables.ContactMessage),
		orders:     make(map[int64]tables.Order),
		orderItems: make(map[int64]tables.OrderItem),
		users:      make(map[uuid.UUID]tables.AuthUser),
		profiles:   make(map[uuid.UUID]tables.Profile),
		resets:     make(map[string]tables.PasswordReset),
		seq:        make(map[string]int64),
	}
}

// nextId must be called with mu held for writing.
func (s *Store) nextId(collection string) int64 {
	s.seq[collection]++
	return s.seq[collection]
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) Close() error {
	return nil
}

func (s *Store) Driver() string {
	return "memory"
}
