package services

import (
	"context"
	"errors"
	"restoran_server/repository"
	"restoran_server/repository/memory"
	"restoran_server/structs"
	"restoran_server/structs/tables"
	"sync"
	"testing"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/shopspring/decimal"
)

type fakeMailer struct {
	mu   sync.Mutex
	sent []*Email
	err  error
	// block, when set, holds every Send until it is closed
	block chan struct{}
}

func (m *fakeMailer) Name() string { return "fake" }

func (m *fakeMailer) Send(ctx context.Context, email *Email) error {
	if m.block != nil {
		<-m.block
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, email)
	return nil
}

func (m *fakeMailer) Sent() []*Email {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*Email(nil), m.sent...)
}

type fakePublisher struct {
	mu     sync.Mutex
	events []*Event
	closed bool
}

func (p *fakePublisher) Publish(ctx context.Context, event *Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *fakePublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func (p *fakePublisher) Keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	keys := make([]string, 0, len(p.events))
	for _, e := range p.events {
		keys = append(keys, e.RoutingKey)
	}
	return keys
}

var errMailerDown = errors.New("mailer down")

func testLogger() *gecho.Logger {
	return gecho.NewLogger(gecho.NewConfig(gecho.WithShowCaller(false), gecho.WithLogLevel(gecho.ParseLogLevel("error"))))
}

func testConfig() *structs.Config {
	return &structs.Config{
		Server: &structs.ServerConfig{AppName: "Restoran", Environment: "test", FrontendURL: "http://front.test"},
		Auth: &structs.AuthConfig{
			AccessTokenSecret:  "access-secret",
			AccessTokenExpiry:  15 * time.Minute,
			RefreshTokenSecret: "refresh-secret",
			RefreshTokenExpiry: time.Hour,
			ResetTokenExpiry:   time.Hour,
		},
		Email: &structs.EmailConfig{
			From:            "Restoran <bookings@restoran.test>",
			RestaurantEmail: "owner@restoran.test",
			RestaurantName:  "Restoran",
		},
		Cache:     &structs.CacheConfig{Enabled: false},
		RateLimit: &structs.RateLimitConfig{Enabled: true, Requests: 100, Window: time.Minute},
		Notify:    &structs.NotifyConfig{Workers: 1, QueueSize: 16, SendTimeout: time.Second},
		Events:    &structs.EventsConfig{},
	}
}

type testEnv struct {
	store     *memory.Store
	mailer    *fakeMailer
	publisher *fakePublisher
	services  *ServiceManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := testLogger()
	cfg := testConfig()
	env := &testEnv{
		store:     memory.New(),
		mailer:    &fakeMailer{},
		publisher: &fakePublisher{},
	}
	env.services = NewServiceManager(logger, cfg, env.store, env.mailer, env.publisher, NewCacheService(logger, cfg))

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = env.services.Shutdown(ctx)
	})
	return env
}

// drain stops the dispatcher so every queued notification has been delivered.
func (env *testEnv) drain(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := env.services.Notifier.Shutdown(ctx); err != nil {
		t.Fatalf("drain notifier: %v", err)
	}
}

func (env *testEnv) addTable(t *testing.T, number, capacity int, available bool) tables.RestaurantTable {
	t.Helper()
	ctx := context.Background()
	if err := env.store.SeedTable(ctx, &tables.RestaurantTable{
		TableNumber: number,
		Capacity:    capacity,
		IsAvailable: available,
	}); err != nil {
		t.Fatalf("seed table: %v", err)
	}

	all, err := env.store.ListTables(ctx, repository.TableFilter{})
	if err != nil {
		t.Fatalf("list tables: %v", err)
	}
	for _, tb := range all {
		if tb.TableNumber == number {
			return tb
		}
	}
	t.Fatalf("table %d not stored", number)
	return tables.RestaurantTable{}
}

func (env *testEnv) addMenuItem(t *testing.T, category, name string, price string, available bool) tables.MenuItem {
	t.Helper()
	ctx := context.Background()

	cat, err := env.store.SeedCategory(ctx, &tables.MenuCategory{Name: category})
	if err != nil {
		t.Fatalf("seed category: %v", err)
	}
	if err := env.store.SeedMenuItem(ctx, &tables.MenuItem{
		CategoryId:  cat.Id,
		Name:        name,
		Price:       decimal.RequireFromString(price),
		IsAvailable: available,
	}); err != nil {
		t.Fatalf("seed item: %v", err)
	}

	// ids are sequential, GetItem also returns unavailable items
	for id := int64(1); ; id++ {
		it, err := env.store.GetItem(ctx, id)
		if err != nil {
			break
		}
		if it.Name == name {
			return *it
		}
	}
	t.Fatalf("menu item %q not stored", name)
	return tables.MenuItem{}
}

func bookingRequest(date, clock string, party int) *structs.BookingRequest {
	return &structs.BookingRequest{
		GuestName:   "Ann",
		GuestEmail:  "ann@x.com",
		BookingDate: date,
		BookingTime: clock,
		PartySize:   party,
	}
}
