package countdown

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fixedClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fixedClock) Set(t time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = t
}

func TestRemaining(t *testing.T) {
	base := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		now      time.Time
		deadline time.Time
		want     int64
	}{
		{
			name:     "full window",
			now:      base,
			deadline: base.Add(120 * time.Second),
			want:     120,
		},
		{
			name:     "partial second rounds up",
			now:      base.Add(500 * time.Millisecond),
			deadline: base.Add(120 * time.Second),
			want:     120,
		},
		{
			name:     "mid window",
			now:      base.Add(45 * time.Second),
			deadline: base.Add(120 * time.Second),
			want:     75,
		},
		{
			name:     "at deadline",
			now:      base.Add(120 * time.Second),
			deadline: base.Add(120 * time.Second),
			want:     0,
		},
		{
			name:     "past deadline never negative",
			now:      base.Add(300 * time.Second),
			deadline: base.Add(120 * time.Second),
			want:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Remaining(tt.now, tt.deadline); got != tt.want {
				t.Errorf("Remaining() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTickerRunFiresExpiryOnce(t *testing.T) {
	clk := &fixedClock{now: time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)}
	ticker := NewTicker(clk, time.Millisecond)

	deadline := clk.Now().Add(5 * time.Millisecond)
	var fired atomic.Int32

	done := make(chan error, 1)
	go func() {
		done <- ticker.Run(context.Background(), deadline, func() {
			fired.Add(1)
		})
	}()

	// Jump the clock past the deadline; the next tick should expire.
	time.Sleep(2 * time.Millisecond)
	clk.Set(deadline.Add(time.Second))

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run() did not return after deadline passed")
	}

	if got := fired.Load(); got != 1 {
		t.Errorf("expiry fired %d times, want exactly 1", got)
	}
}

func TestTickerRunCancelDoesNotExpire(t *testing.T) {
	clk := &fixedClock{now: time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)}
	ticker := NewTicker(clk, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	deadline := clk.Now().Add(time.Hour)

	var fired atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- ticker.Run(ctx, deadline, func() {
			fired.Add(1)
		})
	}()

	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Fatalf("Run() error = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run() did not return after cancel")
	}

	if got := fired.Load(); got != 0 {
		t.Errorf("expiry fired %d times on cancel, want 0", got)
	}
}

func TestTickerRunAlreadyExpired(t *testing.T) {
	clk := &fixedClock{now: time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)}
	ticker := NewTicker(clk, time.Millisecond)

	var fired atomic.Int32
	err := ticker.Run(context.Background(), clk.Now().Add(-time.Second), func() {
		fired.Add(1)
	})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if got := fired.Load(); got != 1 {
		t.Errorf("expiry fired %d times, want exactly 1", got)
	}
}
