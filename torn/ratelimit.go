package torn

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter admits at most capacity acquisitions within any sliding window.
// Waiters are granted strictly in arrival order. A grant consumed by a
// request that is later cancelled is not refunded.
//
// A rate.Limiter pacer is layered underneath to smooth bursts; the grant
// ring alone already enforces the window quota, the pacer keeps large
// bursts from landing on the provider in the same instant.
type Limiter struct {
	capacity int
	window   time.Duration
	pacer    *rate.Limiter

	mu     sync.Mutex
	grants []time.Time   // timestamps of recent grants, oldest first
	tail   chan struct{} // closed when the most recent waiter is done

	now func() time.Time
}

// NewLimiter creates a limiter admitting capacity acquisitions per window.
func NewLimiter(capacity int, window time.Duration) *Limiter {
	if capacity < 1 {
		capacity = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &Limiter{
		capacity: capacity,
		window:   window,
		pacer:    rate.NewLimiter(rate.Limit(float64(capacity)/window.Seconds()), capacity),
		now:      time.Now,
	}
}

// Acquire blocks until a slot is free or ctx is done. It fails only on
// context cancellation, never for quota reasons.
func (l *Limiter) Acquire(ctx context.Context) error {
	// Take a place in line. The previous waiter's channel is closed once
	// it has been granted (or gave up), which keeps admission FIFO.
	l.mu.Lock()
	turn := l.tail
	done := make(chan struct{})
	l.tail = done
	l.mu.Unlock()
	defer close(done)

	if turn != nil {
		select {
		case <-turn:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	for {
		l.mu.Lock()
		now := l.now()
		l.prune(now)
		if len(l.grants) < l.capacity {
			l.grants = append(l.grants, now)
			l.mu.Unlock()
			return l.pacer.Wait(ctx)
		}
		wait := l.grants[0].Add(l.window).Sub(now)
		l.mu.Unlock()

		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}
}

// prune drops grants that have left the sliding window. Callers hold mu.
func (l *Limiter) prune(now time.Time) {
	cutoff := now.Add(-l.window)
	i := 0
	for i < len(l.grants) && !l.grants[i].After(cutoff) {
		i++
	}
	if i > 0 {
		l.grants = append(l.grants[:0], l.grants[i:]...)
	}
}
