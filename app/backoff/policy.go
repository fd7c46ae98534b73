// Package backoff retries fallible calls with exponentially growing delays.
package backoff

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/avast/retry-go/v4"
)

const (
	DefaultMaxAttempts = 5
	DefaultBaseDelay   = time.Second
	DefaultMultiplier  = 2.0
)

// Policy describes how a call is retried: up to MaxAttempts calls, waiting
// BaseDelay before the first retry and multiplying the wait by Multiplier
// before each following one.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Multiplier  float64

	// OnRetry is called before each wait with the number of the attempt that
	// just failed (1-based), the wait about to happen and the failure.
	OnRetry func(attempt int, delay time.Duration, err error)
}

// DefaultPolicy is 5 attempts with waits of 1s, 2s, 4s and 8s.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: DefaultMaxAttempts,
		BaseDelay:   DefaultBaseDelay,
		Multiplier:  DefaultMultiplier,
	}
}

// Delay returns the wait after the given failed attempt (1-based).
func (p Policy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	multiplier := p.Multiplier
	if multiplier < 1 {
		multiplier = 1
	}
	return time.Duration(float64(p.BaseDelay) * math.Pow(multiplier, float64(attempt-1)))
}

// Do calls fn until it succeeds, the attempts are exhausted or ctx is done.
// On exhaustion the error of the last attempt is returned unchanged.
func (p Policy) Do(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	failures := 0

	return retry.Do(
		func() error {
			err := fn(ctx)
			if err != nil {
				failures++
			}
			return err
		},
		retry.Context(ctx),
		retry.Attempts(uint(attempts)),
		retry.LastErrorOnly(true),
		retry.DelayType(func(_ uint, err error, _ *retry.Config) time.Duration {
			delay := p.Delay(failures)

			slog.Warn("Call failed, retrying",
				"call", name,
				"attempt", failures,
				"max_attempts", attempts,
				"delay", delay.String(),
				"error", err)

			if p.OnRetry != nil {
				p.OnRetry(failures, delay, err)
			}
			return delay
		}),
	)
}

// DoValue is Do for calls that produce a value.
func DoValue[T any](ctx context.Context, p Policy, name string, fn func(ctx context.Context) (T, error)) (T, error) {
	var result T
	err := p.Do(ctx, name, func(ctx context.Context) error {
		v, err := fn(ctx)
		if err != nil {
			return err
		}
		result = v
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}
