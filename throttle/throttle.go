/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package throttle

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Limiter is a fixed-window permit limiter.
// It allows up to a configured number of Acquire calls to proceed per window and
// blocks the rest until a permit is released or the window budget is reset.
// All methods are safe for concurrent use.
type Limiter struct {
	limit   int
	period  time.Duration
	permits chan struct{}

	done     chan struct{}
	stopOnce sync.Once
}

// New creates a Limiter that admits up to limit acquisitions per period.
// The full budget is available immediately and is restored every period.
// Limit and period must be positive.
func New(period time.Duration, limit int) (*Limiter, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}
	if period <= 0 {
		return nil, fmt.Errorf("period must be positive, got %s", period)
	}

	l := &Limiter{
		limit:   limit,
		period:  period,
		permits: make(chan struct{}, limit),
		done:    make(chan struct{}),
	}
	for i := 0; i < limit; i++ {
		l.permits <- struct{}{}
	}
	go l.refillLoop()
	return l, nil
}

// Must is a variant of New that panics on error.
func Must(period time.Duration, limit int) *Limiter {
	l, err := New(period, limit)
	if err != nil {
		panic(err)
	}
	return l
}

// Acquire blocks until a permit is available and consumes it.
// It has no timeout of its own; cancel ctx to stop waiting.
// On cancellation no permit is consumed and an *AcquireWaitError
// wrapping ctx.Err() is returned.
func (l *Limiter) Acquire(ctx context.Context) error {
	select {
	case <-l.permits:
		return nil
	default:
	}
	select {
	case <-l.permits:
		return nil
	case <-ctx.Done():
		return &AcquireWaitError{Inner: ctx.Err()}
	}
}

// Release returns a permit to the limiter.
// Releasing more permits than were acquired is allowed: the budget is clamped
// at the configured limit, extra releases are dropped.
func (l *Limiter) Release() {
	select {
	case l.permits <- struct{}{}:
	default:
	}
}

// Available reports the number of permits that can be acquired without blocking.
func (l *Limiter) Available() int {
	return len(l.permits)
}

// Limit returns the configured per-window limit.
func (l *Limiter) Limit() int {
	return l.limit
}

// Stop terminates the background refill cycle.
// Blocked Acquire calls are not interrupted; cancel their contexts instead.
// Stop is idempotent.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() {
		close(l.done)
	})
}

func (l *Limiter) refillLoop() {
	ticker := time.NewTicker(l.period)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.refill()
		case <-l.done:
			return
		}
	}
}

// refill restores the budget to exactly the configured limit.
// The permits channel capacity bounds the budget, so topping it up
// is the hard reset: permits consumed in the previous window are not
// carried over as debt.
func (l *Limiter) refill() {
	for i := 0; i < l.limit; i++ {
		select {
		case l.permits <- struct{}{}:
		default:
			return
		}
	}
}

// AcquireWaitError is returned by Limiter.Acquire when the caller's context is
// cancelled while waiting for a permit.
type AcquireWaitError struct {
	Inner error
}

func (e *AcquireWaitError) Error() string {
	return fmt.Sprintf("wait for request permit: %s", e.Inner.Error())
}

// Unwrap returns the next error in the error chain.
func (e *AcquireWaitError) Unwrap() error {
	return e.Inner
}
