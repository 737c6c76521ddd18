// # internal/util/limiter.go
package util

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter throttles bursty work, such as metadata persistence while the
// watcher is churning through a large rename.
type Limiter struct {
	inner *rate.Limiter
}

// NewLimiter creates a token bucket limiter allowing perSecond events
// with the given burst.
func NewLimiter(perSecond float64, burst int) *Limiter {
	return &Limiter{
		inner: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

// Allow reports whether one event may happen now.
func (l *Limiter) Allow() bool {
	return l.inner.Allow()
}

// Wait blocks until one event may happen or the context ends.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.inner.Wait(ctx)
}
