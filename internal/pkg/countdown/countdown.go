// Package countdown implements the wall-clock countdown used by expiring
// verification sessions.
//
// Remaining time is always re-derived from the deadline and the current time,
// never decremented, so a paused or slow process still reports the truth.
package countdown

import (
	"context"
	"time"

	"github.com/patrulla-360/app-cce/internal/pkg/clock"
)

// DefaultTick is the re-evaluation period for running countdowns.
const DefaultTick = time.Second

// Remaining returns the whole seconds left until deadline, never negative.
//
// Partial seconds round up, so a freshly armed 120s window reports 120.
func Remaining(now, deadline time.Time) int64 {
	d := deadline.Sub(now)
	if d <= 0 {
		return 0
	}

	secs := int64(d / time.Second)
	if d%time.Second != 0 {
		secs++
	}
	return secs
}

// Ticker drives a single countdown to its deadline.
type Ticker struct {
	clock clock.Clocker
	tick  time.Duration
}

// NewTicker builds a Ticker. A non-positive tick falls back to DefaultTick.
func NewTicker(clk clock.Clocker, tick time.Duration) *Ticker {
	if tick <= 0 {
		tick = DefaultTick
	}
	return &Ticker{clock: clk, tick: tick}
}

// Run re-evaluates the remaining time on every tick until the deadline
// passes or ctx is canceled.
//
// onExpire runs exactly once, and only when the deadline is actually
// reached; cancellation never fires it. The context error is returned on
// cancellation, nil on expiry.
func (t *Ticker) Run(ctx context.Context, deadline time.Time, onExpire func()) error {
	if Remaining(t.clock.Now(), deadline) == 0 {
		onExpire()
		return nil
	}

	ticker := time.NewTicker(t.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if Remaining(t.clock.Now(), deadline) == 0 {
				onExpire()
				return nil
			}
		}
	}
}
