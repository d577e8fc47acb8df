package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"restoran_server/config"
	"restoran_server/repository/memory"
	"restoran_server/services"
	"restoran_server/structs"
	"restoran_server/structs/tables"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/shopspring/decimal"
)

func newTestServer(t *testing.T, tweak func(cfg *structs.Config)) (*httptest.Server, *memory.Store) {
	t.Helper()

	cfg := config.Load()
	cfg.Cache.Enabled = false
	cfg.Events.URL = ""
	cfg.Email.ApiKey = ""
	cfg.Notify.Workers = 1
	if tweak != nil {
		tweak(cfg)
	}

	logger := gecho.NewLogger(gecho.NewConfig(gecho.WithLogLevel(gecho.ParseLogLevel("error"))))
	store := memory.New()
	for i, capacity := range []int{2, 4, 6} {
		if err := store.SeedTable(context.Background(), &tables.RestaurantTable{
			TableNumber: i + 1,
			Capacity:    capacity,
			IsAvailable: true,
		}); err != nil {
			t.Fatalf("seed table: %v", err)
		}
	}

	sm := services.NewServiceManager(logger, cfg, store,
		services.NewLogMailer(logger),
		services.NewLogPublisher(logger),
		services.NewCacheService(logger, cfg),
	)
	srv := httptest.NewServer(App(cfg, sm))

	t.Cleanup(func() {
		srv.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = sm.Shutdown(ctx)
	})
	return srv, store
}

func do(t *testing.T, srv *httptest.Server, method, path, body string) (*http.Response, string) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	// compact so assertions do not depend on encoder indentation
	return resp, strings.Join(strings.Fields(string(raw)), "")
}

const bookingBody = `{"guest_name":"Ann","guest_email":"ann@x.com","booking_date":"2025-06-01","booking_time":"19:00","party_size":4}`

func TestBookingLifecycleOverHTTP(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	resp, body := do(t, srv, http.MethodPost, "/api/bookings", bookingBody)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: status %d, body %s", resp.StatusCode, body)
	}
	if !strings.Contains(body, `"pending"`) {
		t.Fatalf("create: new booking is not pending: %s", body)
	}

	resp, body = do(t, srv, http.MethodDelete, "/api/bookings/1", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("cancel: status %d, body %s", resp.StatusCode, body)
	}

	resp, body = do(t, srv, http.MethodGet, "/api/bookings/1", "")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, `"cancelled"`) {
		t.Fatalf("get after cancel: status %d, body %s", resp.StatusCode, body)
	}

	resp, _ = do(t, srv, http.MethodGet, "/api/bookings/99", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown booking: status %d, want 404", resp.StatusCode)
	}

	resp, _ = do(t, srv, http.MethodPatch, "/api/bookings/1/status", `{"status":"seated"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unknown status: status %d, want 400", resp.StatusCode)
	}
}

func TestBookingRejectionsOverHTTP(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	cases := []struct {
		name string
		body string
		want int
	}{
		{"party too large", strings.Replace(bookingBody, `"party_size":4`, `"party_size":21`, 1), http.StatusBadRequest},
		{"bad time", strings.Replace(bookingBody, `"19:00"`, `"7pm"`, 1), http.StatusBadRequest},
		{"malformed json", `{"guest_name":`, http.StatusBadRequest},
		{"no table large enough", strings.Replace(bookingBody, `"party_size":4`, `"party_size":8`, 1), http.StatusBadRequest},
		{"explicit table too small", strings.Replace(bookingBody, `"party_size":4`, `"party_size":4,"table_id":"1"`, 1), http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := do(t, srv, http.MethodPost, "/api/bookings", tc.body)
			if resp.StatusCode != tc.want {
				t.Fatalf("status %d, want %d, body %s", resp.StatusCode, tc.want, body)
			}
		})
	}
}

func TestContactMessageBoundaryOverHTTP(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	resp, _ := do(t, srv, http.MethodPost, "/api/contact", `{"name":"Ann","email":"ann@x.com","message":"123456789"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("9 characters: status %d, want 400", resp.StatusCode)
	}

	resp, body := do(t, srv, http.MethodPost, "/api/contact", `{"name":"Ann","email":"ann@x.com","message":"1234567890"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("10 characters: status %d, body %s", resp.StatusCode, body)
	}
}

func TestAvailableTablesOverHTTP(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	resp, body := do(t, srv, http.MethodGet, "/api/tables/available?date=2025-06-01&time=19:00&party_size=5", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d, body %s", resp.StatusCode, body)
	}
	if !strings.Contains(body, `"capacity":6`) || strings.Contains(body, `"capacity":4`) {
		t.Fatalf("expected only the six-seat table: %s", body)
	}

	resp, _ = do(t, srv, http.MethodGet, "/api/tables/available?date=2025-06-01&time=19:00", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing party_size: status %d, want 400", resp.StatusCode)
	}
}

func TestMenuOverHTTP(t *testing.T) {
	srv, store := newTestServer(t, nil)
	ctx := context.Background()

	dinner, err := store.SeedCategory(ctx, &tables.MenuCategory{Name: "Dinner", DisplayOrder: 2})
	if err != nil {
		t.Fatalf("seed category: %v", err)
	}
	lunch, err := store.SeedCategory(ctx, &tables.MenuCategory{Name: "Lunch", DisplayOrder: 1})
	if err != nil {
		t.Fatalf("seed category: %v", err)
	}
	for _, item := range []tables.MenuItem{
		{CategoryId: dinner.Id, Name: "Biryani", Price: decimal.RequireFromString("180"), IsAvailable: true},
		{CategoryId: lunch.Id, Name: "Soup", Price: decimal.RequireFromString("4.5"), IsAvailable: true},
		{CategoryId: lunch.Id, Name: "Salad", Price: decimal.RequireFromString("6.25"), IsAvailable: false},
	} {
		if err := store.SeedMenuItem(ctx, &item); err != nil {
			t.Fatalf("seed item %s: %v", item.Name, err)
		}
	}

	resp, body := do(t, srv, http.MethodGet, "/api/menu", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("menu: status %d, body %s", resp.StatusCode, body)
	}
	lunchAt, dinnerAt := strings.Index(body, `"name":"Lunch"`), strings.Index(body, `"name":"Dinner"`)
	if lunchAt < 0 || dinnerAt < 0 || lunchAt > dinnerAt {
		t.Fatalf("categories not in display order: %s", body)
	}
	if strings.Contains(body, "Salad") {
		t.Fatalf("unavailable item listed: %s", body)
	}

	resp, body = do(t, srv, http.MethodGet, "/api/menu/category/2", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("category: status %d, body %s", resp.StatusCode, body)
	}
	if !strings.Contains(body, `"name":"Soup"`) || strings.Contains(body, "Biryani") || strings.Contains(body, "Salad") {
		t.Fatalf("unexpected lunch items: %s", body)
	}

	resp, body = do(t, srv, http.MethodGet, "/api/menu/item/2", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("item: status %d, body %s", resp.StatusCode, body)
	}
	if !strings.Contains(body, `"price":4.5`) || !strings.Contains(body, `"menu_categories":{"id":2,"name":"Lunch"}`) {
		t.Fatalf("unexpected item: %s", body)
	}

	if resp, _ := do(t, srv, http.MethodGet, "/api/menu/item/99", ""); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown item: status %d, want 404", resp.StatusCode)
	}
	if resp, _ := do(t, srv, http.MethodGet, "/api/menu/item/abc", ""); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad item id: status %d, want 400", resp.StatusCode)
	}
}

func TestRateLimitOverHTTP(t *testing.T) {
	srv, _ := newTestServer(t, func(cfg *structs.Config) {
		cfg.RateLimit.Enabled = true
		cfg.RateLimit.Requests = 2
		cfg.RateLimit.Window = time.Minute
		cfg.RateLimit.TrustedProxies = nil
	})

	for i := range 2 {
		resp, _ := do(t, srv, http.MethodGet, "/api/tables", "")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("request %d: status %d", i+1, resp.StatusCode)
		}
	}

	resp, _ := do(t, srv, http.MethodGet, "/api/tables", "")
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("third request: status %d, want 429", resp.StatusCode)
	}
	if resp.Header.Get("Retry-After") == "" || resp.Header.Get("X-RateLimit-Remaining") != "0" {
		t.Fatalf("missing rate limit headers: %v", resp.Header)
	}

	// forwarding headers from a direct client do not open a new window
	for _, header := range []string{"X-Forwarded-For", "X-Real-IP", "True-Client-IP"} {
		req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/tables", nil)
		req.Header.Set(header, "203.0.113.9")
		resp, err := srv.Client().Do(req)
		if err != nil {
			t.Fatalf("%s: %v", header, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusTooManyRequests {
			t.Fatalf("%s: status %d, want 429", header, resp.StatusCode)
		}
	}

	// the root route is outside /api
	if resp, _ := do(t, srv, http.MethodGet, "/", ""); resp.StatusCode != http.StatusOK {
		t.Fatalf("root: status %d", resp.StatusCode)
	}
}

func TestHealthAndUnknownRoutes(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	if resp, body := do(t, srv, http.MethodGet, "/api/health", ""); resp.StatusCode != http.StatusOK {
		t.Fatalf("health: status %d, body %s", resp.StatusCode, body)
	}
	if resp, _ := do(t, srv, http.MethodGet, "/api/nope", ""); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown route: status %d, want 404", resp.StatusCode)
	}
	if resp, _ := do(t, srv, http.MethodGet, "/api/auth/profile", ""); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("profile without token: status %d, want 401", resp.StatusCode)
	}
}

func TestConcurrentBookingsForOneTableOverHTTP(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	body := strings.Replace(bookingBody, `"party_size":4`, `"party_size":4,"table_id":2`, 1)

	codes := make(chan int, 2)
	var wg sync.WaitGroup
	for range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req, _ := http.NewRequest(http.MethodPost, srv.URL+"/api/bookings", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			resp, err := srv.Client().Do(req)
			if err != nil {
				codes <- 0
				return
			}
			resp.Body.Close()
			codes <- resp.StatusCode
		}()
	}
	wg.Wait()
	close(codes)

	got := map[int]int{}
	for code := range codes {
		got[code]++
	}
	if got[http.StatusCreated] != 1 || got[http.StatusBadRequest] != 1 {
		t.Fatalf("status codes %v, want one 201 and one 400", got)
	}
}
