// Package resilience provides fault-tolerance patterns:
// retry with exponential backoff, circuit breaker, and timeout races.
package resilience

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/bleinats/esteticacarro-core-go/internal/domain"

	"github.com/sony/gobreaker"
)

// Config holds resilience parameters.
type Config struct {
	MaxRetries     int
	InitialBackoff time.Duration
}

// RetryWithBackoff executes fn with exponential backoff + jitter.
// It respects context cancellation.
func RetryWithBackoff(ctx context.Context, cfg Config, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if attempt < cfg.MaxRetries {
			backoff := time.Duration(math.Pow(2, float64(attempt))) * cfg.InitialBackoff
			jitter := time.Duration(rand.Int63n(int64(backoff / 2)))
			wait := backoff + jitter

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
	}
	return lastErr
}

// Race runs fn and waits at most d for its result, returning
// domain.ErrTimeout when the deadline wins. A zero d waits forever. The
// underlying call is NOT cancelled on timeout; only its result is
// abandoned. Callers that need cancellation should use contexts instead.
func Race(op string, d time.Duration, fn func() error) error {
	done := make(chan error, 1)
	go func() { done <- fn() }()

	if d <= 0 {
		return <-done
	}

	select {
	case err := <-done:
		return err
	case <-time.After(d):
		return &domain.ErrTimeout{Operation: op}
	}
}

// NewCircuitBreaker creates a circuit breaker with sensible defaults.
func NewCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,                // half-open: allow 3 requests
		Interval:    30 * time.Second, // closed: reset counters every 30s
		Timeout:     10 * time.Second, // open -> half-open after 10s
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.6
		},
	})
}
