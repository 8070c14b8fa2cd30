package ratelimiter

import (
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func TestAllow(t *testing.T) {
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		perMinute int
		burst     int
		calls     int
		advance   time.Duration
		wantLast  bool
	}{
		{"Within burst", 6, 2, 2, 0, true},
		{"Burst exceeded", 6, 2, 3, 0, false},
		{"Token refilled", 6, 1, 2, 11 * time.Second, true},
		{"Token not yet refilled", 6, 1, 2, 5 * time.Second, false},
		{"Unlimited", 0, 1, 100, 0, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			rl := New(test.perMinute, test.burst)
			current := now
			rl.now = func() time.Time { return current }

			var got bool
			for i := range test.calls {
				if i > 0 {
					current = current.Add(test.advance)
				}
				got = rl.Allow("203.0.113.7")
			}

			if got != test.wantLast {
				t.Errorf("Expected last Allow to be %v, got %v", test.wantLast, got)
			}
		})
	}
}

func TestAllowKeepsClientsSeparate(t *testing.T) {
	rl := New(1, 1)

	if !rl.Allow("a") {
		t.Fatalf("expected first request of a to pass")
	}

	if rl.Allow("a") {
		t.Fatalf("expected second request of a to be limited")
	}

	if !rl.Allow("b") {
		t.Fatalf("expected b not to be affected by a")
	}
}

func TestPruneDropsIdleClients(t *testing.T) {
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	rl := New(6, 1)
	rl.now = func() time.Time { return now }

	rl.Allow("idle")
	rl.pruneLocked(now.Add(defaultIdleTTL + time.Second))

	if got := rl.Len(); got != 0 {
		t.Fatalf("expected idle client to be pruned, got %d clients", got)
	}
}

func TestGetLimit(t *testing.T) {
	if got := getLimit(0); got != rate.Inf {
		t.Fatalf("expected infinite limit, got %v", got)
	}

	if got := getLimit(60); got != rate.Every(time.Second) {
		t.Fatalf("unexpected limit: %v", got)
	}
}
