package http

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/fivetwenty-io/ghostctl/internal/logging"
	"github.com/fivetwenty-io/ghostctl/pkg/ghost"
)

// Sleeper blocks for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// SleepContext is the default Sleeper.
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Operation performs one attempt of a logical call. Attempts are numbered from 1.
type Operation func(ctx context.Context, attempt int) error

// Policy retries retryable failures with exponential backoff and opens a
// circuit after too many consecutive failures within one logical call.
type Policy struct {
	config ghost.RetryConfig
	sleep  Sleeper
	logger Logger

	calls         atomic.Int64
	attempts      atomic.Int64
	retries       atomic.Int64
	successes     atomic.Int64
	failures      atomic.Int64
	circuitTrips  atomic.Int64
	exhausted     atomic.Int64
	authRefreshes atomic.Int64
}

// PolicyOption configures a Policy.
type PolicyOption func(*Policy)

// WithPolicySleeper replaces the backoff sleeper, e.g. with a recording fake in tests.
func WithPolicySleeper(sleeper Sleeper) PolicyOption {
	return func(p *Policy) {
		if sleeper != nil {
			p.sleep = sleeper
		}
	}
}

// WithPolicyLogger logs every scheduled retry.
func WithPolicyLogger(logger Logger) PolicyOption {
	return func(p *Policy) {
		p.logger = logger
	}
}

// NewPolicy creates a retry policy. A nil config uses ghost.DefaultRetryConfig.
func NewPolicy(config *ghost.RetryConfig, opts ...PolicyOption) *Policy {
	if config == nil {
		config = ghost.DefaultRetryConfig()
	}

	policy := &Policy{
		config: *config,
		sleep:  SleepContext,
	}

	if policy.config.Multiplier <= 0 {
		policy.config.Multiplier = 1
	}

	for _, opt := range opts {
		opt(policy)
	}

	return policy
}

// Config returns the effective configuration.
func (p *Policy) Config() ghost.RetryConfig {
	return p.config
}

// Execute runs op until it succeeds, fails with a non-retryable error, trips
// the circuit or exhausts MaxRetries. The circuit is checked first, so with the
// defaults an always failing call stops after CircuitBreakerThreshold attempts.
func (p *Policy) Execute(ctx context.Context, op Operation) error {
	p.calls.Add(1)

	consecutive := 0

	for attempt := 1; ; attempt++ {
		err := ctx.Err()
		if err != nil {
			return fmt.Errorf("request cancelled: %w", err)
		}

		p.attempts.Add(1)

		err = op(ctx, attempt)
		if err == nil {
			p.successes.Add(1)

			return nil
		}

		if !ghost.IsRetryable(err) || ctx.Err() != nil {
			p.failures.Add(1)

			return err
		}

		consecutive++

		if p.config.CircuitBreakerThreshold > 0 && consecutive >= p.config.CircuitBreakerThreshold {
			p.failures.Add(1)
			p.circuitTrips.Add(1)

			return &ghost.CircuitOpenError{Failures: consecutive, Attempts: attempt, Err: err}
		}

		if attempt > p.config.MaxRetries {
			p.failures.Add(1)
			p.exhausted.Add(1)

			return &ghost.RetryExhaustedError{Attempts: attempt, Err: err}
		}

		delay := p.Delay(attempt, err)

		p.retries.Add(1)

		if p.logger != nil {
			p.logger.Warn("Retrying request", map[string]interface{}{
				"attempt": attempt,
				"delay":   delay.String(),
				"error":   logging.RedactString(err.Error()),
			})
		}

		sleepErr := p.sleep(ctx, delay)
		if sleepErr != nil {
			p.failures.Add(1)

			return fmt.Errorf("waiting to retry after %v: %w", err, sleepErr)
		}
	}
}

// Delay returns the wait before the retry following attempt. A Retry-After
// hint on a rate limited response wins over the computed backoff.
func (p *Policy) Delay(attempt int, err error) time.Duration {
	var rateErr *ghost.RateLimitedError
	if errors.As(err, &rateErr) && rateErr.RetryAfter > 0 {
		return p.capDelay(rateErr.RetryAfter)
	}

	factor := math.Pow(p.config.Multiplier, float64(attempt-1))
	delay := time.Duration(float64(p.config.BaseDelay) * factor)

	return p.capDelay(delay)
}

func (p *Policy) capDelay(delay time.Duration) time.Duration {
	if p.config.MaxDelay > 0 && delay > p.config.MaxDelay {
		return p.config.MaxDelay
	}

	return delay
}

// RecordAuthRefresh counts a token regeneration triggered by a 401 or 403.
func (p *Policy) RecordAuthRefresh() {
	p.authRefreshes.Add(1)
}

// Stats returns the policy counters.
func (p *Policy) Stats() ghost.RetryStats {
	return ghost.RetryStats{
		Calls:         p.calls.Load(),
		Attempts:      p.attempts.Load(),
		Retries:       p.retries.Load(),
		Successes:     p.successes.Load(),
		Failures:      p.failures.Load(),
		CircuitTrips:  p.circuitTrips.Load(),
		Exhausted:     p.exhausted.Load(),
		AuthRefreshes: p.authRefreshes.Load(),
	}
}
