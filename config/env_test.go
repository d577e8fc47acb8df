package config

import (
	"testing"
	"time"
)

func TestGetEnvAsTimeDuration(t *testing.T) {
	cases := []struct {
		name string
		val  string
		want time.Duration
	}{
		{"duration string", "15m", 15 * time.Minute},
		{"plain seconds", "30", 30 * time.Second},
		{"garbage falls back", "soon", time.Hour},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("TEST_DURATION", tc.val)
			if got := getEnvAsTimeDuration("TEST_DURATION", time.Hour); got != tc.want {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestGetEnvAsSliceTrims(t *testing.T) {
	t.Setenv("TEST_ORIGINS", " http://a.test , ,http://b.test")
	got := getEnvAsSlice("TEST_ORIGINS", nil)
	if len(got) != 2 || got[0] != "http://a.test" || got[1] != "http://b.test" {
		t.Fatalf("unexpected origins: %#v", got)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.RateLimit.Requests != 100 || cfg.RateLimit.Window != 15*time.Minute {
		t.Fatalf("unexpected rate limit defaults: %+v", cfg.RateLimit)
	}
	if cfg.Notify.QueueSize <= 0 || cfg.Notify.Workers <= 0 {
		t.Fatalf("notify defaults must be positive: %+v", cfg.Notify)
	}
}
