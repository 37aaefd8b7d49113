// Package circuitbreaker wraps sony/gobreaker with project defaults and
// AppError translation.
package circuitbreaker

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/fd1az/superboost/internal/apperror"
)

// Config configures a breaker.
type Config struct {
	Name             string
	MaxRequests      uint32        // probes allowed while half-open
	Interval         time.Duration // closed-state counter reset period
	Timeout          time.Duration // open duration before half-open
	FailureThreshold uint32        // consecutive failures that trip the breaker
	OnStateChange    func(name string, from, to gobreaker.State)
}

// DefaultConfig returns the settings used by every RPC and HTTP adapter.
func DefaultConfig(name string) Config {
	return Config{
		Name:             name,
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// CircuitBreaker guards calls returning T.
type CircuitBreaker[T any] struct {
	cb *gobreaker.CircuitBreaker[T]
}

// New builds a breaker from cfg.
func New[T any](cfg Config) *CircuitBreaker[T] {
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}

	st := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: cfg.OnStateChange,
		// A cancelled caller says nothing about the remote's health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	}

	return &CircuitBreaker[T]{cb: gobreaker.NewCircuitBreaker[T](st)}
}

// Execute runs fn unless the breaker is open. Rejections surface as
// CIRCUIT_OPEN / CIRCUIT_HALF_OPEN AppErrors.
func (c *CircuitBreaker[T]) Execute(fn func() (T, error)) (T, error) {
	res, err := c.cb.Execute(fn)
	switch {
	case errors.Is(err, gobreaker.ErrOpenState):
		return res, apperror.New(apperror.CodeCircuitOpen,
			apperror.WithCause(err),
			apperror.WithContext(c.cb.Name()))
	case errors.Is(err, gobreaker.ErrTooManyRequests):
		return res, apperror.New(apperror.CodeCircuitHalfOpen,
			apperror.WithCause(err),
			apperror.WithContext(c.cb.Name()))
	}
	return res, err
}

// State reports the breaker's current state.
func (c *CircuitBreaker[T]) State() gobreaker.State {
	return c.cb.State()
}

// Name returns the configured name.
func (c *CircuitBreaker[T]) Name() string {
	return c.cb.Name()
}
