// Package repository declares the storage contracts the services depend on.
// Implementations live in repository/postgres and repository/memory.
package repository

import (
	"context"
	"restoran_server/structs"
	"restoran_server/structs/tables"
	"time"

	"github.com/google/uuid"
)

// Window is an inclusive range of booking start times.
type Window struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t lies inside the window, bounds included.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.From) && !t.After(w.To)
}

// ConflictWindow returns [start - 1h, start + 1h].
func ConflictWindow(start time.Time) Window {
	return Window{From: start.Add(-time.Hour), To: start.Add(time.Hour)}
}

type TableFilter struct {
	Location      string
	MinCapacity   int
	AvailableOnly bool
	// BySize orders by capacity then id instead of table_number.
	BySize bool
}

type MenuRepository interface {
	ListCategoriesWithItems(ctx context.Context) ([]tables.MenuCategory, error)
	ListItemsByCategory(ctx context.Context, categoryId int64) ([]tables.MenuItem, error)
	GetItem(ctx context.Context, id int64) (*tables.MenuItem, error)
	GetItemsByIds(ctx context.Context, ids []int64) ([]tables.MenuItem, error)
}

type TableRepository interface {
	ListTables(ctx context.Context, filter TableFilter) ([]tables.RestaurantTable, error)
	GetTable(ctx context.Context, id int64) (*tables.RestaurantTable, error)
}

type BookingRepository interface {
	// BookedTableIds returns the tables holding an active booking that starts inside w.
	BookedTableIds(ctx context.Context, w Window) (map[int64]struct{}, error)
	// ReserveTable inserts b if its table has no active booking inside the conflict
	// window of b.StartsAt. The check and the insert are atomic per table.
	ReserveTable(ctx context.Context, b *tables.Booking) (*tables.Booking, error)
	ListBookings(ctx context.Context, opts structs.BookingListOptions) ([]tables.Booking, error)
	ListTableBookings(ctx context.Context, tableId int64, date string) ([]tables.Booking, error)
	GetBooking(ctx context.Context, id int64) (*tables.Booking, error)
	// UpdateBookingStatus moves the booking from `from` to `to`. It returns
	// lib.ErrConflict when the stored status is no longer `from`.
	UpdateBookingStatus(ctx context.Context, id int64, from, to tables.BookingStatus) (*tables.Booking, error)
}

type ContactRepository interface {
	CreateMessage(ctx context.Context, m *tables.ContactMessage) (*tables.ContactMessage, error)
	ListMessages(ctx context.Context, opts structs.ContactListOptions) ([]tables.ContactMessage, int, error)
	MarkMessageRead(ctx context.Context, id int64) (*tables.ContactMessage, error)
	DeleteMessage(ctx context.Context, id int64) error
}

type OrderRepository interface {
	CreateOrderHeader(ctx context.Context, o *tables.Order) (*tables.Order, error)
	CreateOrderItems(ctx context.Context, items []tables.OrderItem) ([]tables.OrderItem, error)
	DeleteOrder(ctx context.Context, id int64) error
	ListOrders(ctx context.Context, userId uuid.UUID, opts structs.OrderListOptions) ([]tables.Order, error)
	GetOrder(ctx context.Context, id int64) (*tables.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, from, to tables.OrderStatus) (*tables.Order, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, u *tables.AuthUser) (*tables.AuthUser, error)
	GetUserByEmail(ctx context.Context, email string) (*tables.AuthUser, error)
	GetUserById(ctx context.Context, id uuid.UUID) (*tables.AuthUser, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error
	TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	UpsertProfile(ctx context.Context, p *tables.Profile) (*tables.Profile, error)
	GetProfile(ctx context.Context, id uuid.UUID) (*tables.Profile, error)
	CreatePasswordReset(ctx context.Context, r *tables.PasswordReset) error
	// ConsumePasswordReset marks an unexpired, unused reset as used and returns it.
	ConsumePasswordReset(ctx context.Context, tokenHash string, now time.Time) (*tables.PasswordReset, error)
}

// SeedRepository writes reference data; it is idempotent on natural keys.
type SeedRepository interface {
	SeedCategory(ctx context.Context, c *tables.MenuCategory) (*tables.MenuCategory, error)
	SeedMenuItem(ctx context.Context, item *tables.MenuItem) error
	SeedTable(ctx context.Context, t *tables.RestaurantTable) error
}

// Store bundles every repository behind one backend.
type Store interface {
	MenuRepository
	TableRepository
	BookingRepository
	ContactRepository
	OrderRepository
	UserRepository
	SeedRepository

	Ping(ctx context.Context) error
	Close() error
	Driver() string
}
