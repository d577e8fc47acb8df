package postgres

import (
	"context"
	"errors"
	"os"
	"restoran_server/database"
	"restoran_server/lib"
	"restoran_server/structs"
	"restoran_server/structs/tables"
	"sync"
	"testing"
	"time"

	"github.com/MonkyMars/gecho"
)

// newTestStore connects to TEST_DATABASE_URL, applies the migrations and empties
// the booking tables. The database is wiped, so never point it at real data.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	logger := gecho.NewLogger(gecho.NewConfig(gecho.WithLogLevel(gecho.ParseLogLevel("error"))))
	ctx := context.Background()

	db, err := database.Connect(ctx, &structs.DatabaseConfig{
		URL:          url,
		MaxConns:     10,
		MinConns:     2,
		MaxLifetime:  time.Minute,
		MaxIdleTime:  time.Minute,
		SlowQueryLog: time.Second,
	}, logger)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := db.Migrate(logger); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if _, err := db.ExecContext(ctx, "TRUNCATE bookings, restaurant_tables RESTART IDENTITY CASCADE"); err != nil {
		t.Fatalf("truncate: %v", err)
	}

	return New(db, logger)
}

func seedTable(t *testing.T, s *Store, number, capacity int) int64 {
	t.Helper()
	ctx := context.Background()

	if err := s.SeedTable(ctx, &tables.RestaurantTable{TableNumber: number, Capacity: capacity, IsAvailable: true}); err != nil {
		t.Fatalf("seed table %d: %v", number, err)
	}
	table, err := database.Query[tables.RestaurantTable](s.db).Where("table_number", number).First(ctx)
	if err != nil || table == nil {
		t.Fatalf("load table %d: %v", number, err)
	}
	return table.Id
}

func bookingAt(t *testing.T, tableId int64, date, clock string) *tables.Booking {
	t.Helper()

	start, err := lib.BookingStart(date, clock)
	if err != nil {
		t.Fatalf("BookingStart(%s, %s): %v", date, clock, err)
	}
	return &tables.Booking{
		GuestName:   "Ann",
		GuestEmail:  "ann@x.com",
		BookingDate: date,
		BookingTime: clock,
		StartsAt:    start,
		PartySize:   2,
		TableId:     tableId,
	}
}

func TestReserveTableConflictWindow(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	tableId := seedTable(t, s, 1, 4)

	if _, err := s.ReserveTable(ctx, bookingAt(t, tableId, "2030-06-01", "19:00")); err != nil {
		t.Fatalf("first booking: %v", err)
	}

	tests := []struct {
		clock string
		err   error
	}{
		{"18:00", lib.ErrTableUnavailable},
		{"19:30", lib.ErrTableUnavailable},
		{"20:00", lib.ErrTableUnavailable},
		{"20:01", nil},
	}
	for _, tt := range tests {
		_, err := s.ReserveTable(ctx, bookingAt(t, tableId, "2030-06-01", tt.clock))
		if !errors.Is(err, tt.err) {
			t.Fatalf("%s: err = %v, want %v", tt.clock, err, tt.err)
		}
	}
}

func TestReserveTableAcrossMidnight(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	tableId := seedTable(t, s, 1, 4)

	if _, err := s.ReserveTable(ctx, bookingAt(t, tableId, "2030-06-01", "23:30")); err != nil {
		t.Fatalf("late booking: %v", err)
	}
	_, err := s.ReserveTable(ctx, bookingAt(t, tableId, "2030-06-02", "00:15"))
	if !errors.Is(err, lib.ErrTableUnavailable) {
		t.Fatalf("next-day booking 45 minutes later: err = %v, want ErrTableUnavailable", err)
	}
}

func TestCancelledBookingFreesSlot(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	tableId := seedTable(t, s, 1, 4)

	first, err := s.ReserveTable(ctx, bookingAt(t, tableId, "2030-06-01", "19:00"))
	if err != nil {
		t.Fatalf("first booking: %v", err)
	}
	if _, err := s.UpdateBookingStatus(ctx, first.Id, tables.BookingStatusPending, tables.BookingStatusCancelled); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := s.ReserveTable(ctx, bookingAt(t, tableId, "2030-06-01", "19:00")); err != nil {
		t.Fatalf("rebooking a cancelled slot: %v", err)
	}
}

// Rows written without the reservation lock still meet the exclusion constraint,
// which uses the same inclusive one hour distance.
func TestExclusionConstraintMatchesConflictWindow(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	tableId := seedTable(t, s, 1, 4)

	insert := func(clock string) error {
		_, err := database.Create(s.db, ctx, bookingAt(t, tableId, "2030-06-01", clock))
		return err
	}

	if err := insert("19:00"); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	for _, clock := range []string{"19:59", "20:00"} {
		if err := insert(clock); !errors.Is(err, lib.ErrOverlap) {
			t.Fatalf("%s: err = %v, want ErrOverlap", clock, err)
		}
	}
	if err := insert("20:01"); err != nil {
		t.Fatalf("20:01: %v", err)
	}
}

func TestConcurrentReservationsForOneSlot(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	tableId := seedTable(t, s, 1, 4)

	const workers = 8
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		won      int
		rejected int
	)
	start := make(chan struct{})

	for range workers {
		booking := bookingAt(t, tableId, "2030-06-01", "19:00")
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := s.ReserveTable(ctx, booking)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				won++
			case errors.Is(err, lib.ErrTableUnavailable):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()

	if won != 1 || rejected != workers-1 {
		t.Fatalf("won %d, rejected %d; want 1 and %d", won, rejected, workers-1)
	}

	rows, err := s.ListTableBookings(ctx, tableId, "2030-06-01")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("%d bookings stored, want 1", len(rows))
	}
}
