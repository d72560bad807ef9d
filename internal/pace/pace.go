// Package pace provides randomized politeness delays shared by the search,
// fetch, whitelist and translation stages. A jittered pause before each
// network call keeps request timing irregular and reduces the chance of
// rate-limit blocks.
package pace

import (
	"context"
	"math/rand"
	"time"
)

// Jitter describes a randomized delay drawn uniformly from [Min, Max].
// The zero value sleeps not at all, which keeps tests fast.
type Jitter struct {
	Min time.Duration
	Max time.Duration
}

// Duration returns one random delay from the configured interval.
func (j Jitter) Duration() time.Duration {
	if j.Max <= j.Min {
		return j.Min
	}
	return j.Min + time.Duration(rand.Int63n(int64(j.Max-j.Min)))
}

// Sleep blocks for one jitter interval or until ctx is done, whichever comes
// first. It returns ctx.Err() when interrupted so callers can propagate
// cancellation from a suspension point.
func (j Jitter) Sleep(ctx context.Context) error {
	d := j.Duration()
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
