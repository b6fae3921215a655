// Package clock provides context-aware waiting helpers.
package clock

import (
	"context"
	"time"
)

// Wait blocks for d, until wake fires, or until ctx is done.
// A nil wake channel never fires. Only context cancellation produces an error.
func Wait(ctx context.Context, d time.Duration, wake <-chan struct{}) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-wake:
		return nil
	case <-timer.C:
		return nil
	}
}

// Backoff yields doubling delays between Min and Max.
type Backoff struct {
	Min time.Duration
	Max time.Duration

	attempt int
}

// Next returns the delay for the current attempt and advances the counter.
func (b *Backoff) Next() time.Duration {
	d := b.Min
	for i := 0; i < b.attempt && d < b.Max; i++ {
		d *= 2
	}
	if d > b.Max {
		d = b.Max
	}
	b.attempt++
	return d
}

// Reset starts the sequence over from Min.
func (b *Backoff) Reset() {
	b.attempt = 0
}
