// Package ratelimit throttles calls to public endpoints (indexer, price API)
// on top of golang.org/x/time/rate.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/fd1az/superboost/internal/apperror"
)

// Limiter is a token bucket sized in requests per minute.
type Limiter struct {
	limiter *rate.Limiter
}

// New allows requestsPerMinute with a burst of a tenth of that (at least 1).
// A non-positive rate disables limiting.
func New(requestsPerMinute int) *Limiter {
	if requestsPerMinute <= 0 {
		return &Limiter{limiter: rate.NewLimiter(rate.Inf, 1)}
	}

	burst := requestsPerMinute / 10
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), burst),
	}
}

// Wait blocks for a token. A cancelled or expired context surfaces as
// RATE_LIMIT_EXCEEDED so callers can tell throttling from remote failure.
func (l *Limiter) Wait(ctx context.Context) error {
	if err := l.limiter.Wait(ctx); err != nil {
		return apperror.New(apperror.CodeRateLimitExceeded, apperror.WithCause(err))
	}
	return nil
}

// Allow reports whether a call may happen now without waiting.
func (l *Limiter) Allow() bool {
	return l.limiter.Allow()
}
