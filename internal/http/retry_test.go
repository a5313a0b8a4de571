package http_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ghosthttp "github.com/fivetwenty-io/ghostctl/internal/http"
	"github.com/fivetwenty-io/ghostctl/pkg/ghost"
)

// recordingSleeper returns immediately and remembers every requested delay.
type recordingSleeper struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (s *recordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.delays = append(s.delays, d)

	return ctx.Err()
}

func (s *recordingSleeper) Delays() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]time.Duration(nil), s.delays...)
}

func serverError() error {
	return &ghost.ServerError{HTTPError: ghost.HTTPError{StatusCode: 503, Method: "GET", Path: "/site/"}}
}

func TestPolicy_SucceedsAfterFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		failures  int
		threshold int
		delays    []time.Duration
	}{
		{name: "first attempt", failures: 0, threshold: 3, delays: nil},
		{name: "two failures under the circuit", failures: 2, threshold: 3, delays: []time.Duration{time.Second, 2 * time.Second}},
		{
			name: "five failures without circuit", failures: 5, threshold: 0,
			delays: []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second, 16 * time.Second},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sleeper := &recordingSleeper{}
			config := ghost.DefaultRetryConfig()
			config.CircuitBreakerThreshold = tt.threshold

			policy := ghosthttp.NewPolicy(config, ghosthttp.WithPolicySleeper(sleeper.Sleep))

			attempts := 0
			err := policy.Execute(context.Background(), func(_ context.Context, attempt int) error {
				attempts++
				assert.Equal(t, attempts, attempt)

				if attempts <= tt.failures {
					return serverError()
				}

				return nil
			})

			require.NoError(t, err)
			assert.Equal(t, tt.failures+1, attempts)
			assert.Equal(t, tt.delays, sleeper.Delays())

			stats := policy.Stats()
			assert.Equal(t, int64(tt.failures+1), stats.Attempts)
			assert.Equal(t, int64(tt.failures), stats.Retries)
			assert.Equal(t, int64(1), stats.Successes)
		})
	}
}

func TestPolicy_CircuitOpens(t *testing.T) {
	t.Parallel()

	sleeper := &recordingSleeper{}
	config := ghost.DefaultRetryConfig()
	config.MaxRetries = 10

	policy := ghosthttp.NewPolicy(config, ghosthttp.WithPolicySleeper(sleeper.Sleep))

	attempts := 0
	err := policy.Execute(context.Background(), func(context.Context, int) error {
		attempts++

		return serverError()
	})

	var circuitErr *ghost.CircuitOpenError
	require.ErrorAs(t, err, &circuitErr)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, 3, circuitErr.Failures)
	assert.Len(t, sleeper.Delays(), 2)

	var serverErr *ghost.ServerError
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, int64(1), policy.Stats().CircuitTrips)
}

func TestPolicy_RetryExhausted(t *testing.T) {
	t.Parallel()

	sleeper := &recordingSleeper{}
	config := ghost.DefaultRetryConfig()
	config.CircuitBreakerThreshold = 0
	config.MaxRetries = 2

	policy := ghosthttp.NewPolicy(config, ghosthttp.WithPolicySleeper(sleeper.Sleep))

	attempts := 0
	err := policy.Execute(context.Background(), func(context.Context, int) error {
		attempts++

		return serverError()
	})

	var exhaustedErr *ghost.RetryExhaustedError
	require.ErrorAs(t, err, &exhaustedErr)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, 3, exhaustedErr.Attempts)
	assert.Equal(t, int64(1), policy.Stats().Exhausted)
}

func TestPolicy_NonRetryable(t *testing.T) {
	t.Parallel()

	sleeper := &recordingSleeper{}
	policy := ghosthttp.NewPolicy(nil, ghosthttp.WithPolicySleeper(sleeper.Sleep))

	validationErr := ghost.ErrorFromResponse(400, "POST", "/posts/", nil, nil)

	attempts := 0
	err := policy.Execute(context.Background(), func(context.Context, int) error {
		attempts++

		return validationErr
	})

	require.ErrorIs(t, err, validationErr)
	assert.Equal(t, 1, attempts)
	assert.Empty(t, sleeper.Delays())
}

func TestPolicy_PrefersRetryAfter(t *testing.T) {
	t.Parallel()

	sleeper := &recordingSleeper{}
	policy := ghosthttp.NewPolicy(nil, ghosthttp.WithPolicySleeper(sleeper.Sleep))

	attempts := 0
	err := policy.Execute(context.Background(), func(context.Context, int) error {
		attempts++
		if attempts == 1 {
			return &ghost.RateLimitedError{HTTPError: ghost.HTTPError{StatusCode: 429}, RetryAfter: 7 * time.Second}
		}

		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []time.Duration{7 * time.Second}, sleeper.Delays())
}

func TestPolicy_Delay(t *testing.T) {
	t.Parallel()

	policy := ghosthttp.NewPolicy(&ghost.RetryConfig{
		MaxRetries: 5, BaseDelay: 100 * time.Millisecond, Multiplier: 3, MaxDelay: time.Second,
	})

	assert.Equal(t, 100*time.Millisecond, policy.Delay(1, serverError()))
	assert.Equal(t, 300*time.Millisecond, policy.Delay(2, serverError()))
	assert.Equal(t, 900*time.Millisecond, policy.Delay(3, serverError()))
	assert.Equal(t, time.Second, policy.Delay(4, serverError()))

	hinted := &ghost.RateLimitedError{RetryAfter: time.Minute}
	assert.Equal(t, time.Second, policy.Delay(1, hinted))
}

func TestPolicy_CancelledDuringBackoff(t *testing.T) {
	t.Parallel()

	config := ghost.DefaultRetryConfig()
	config.BaseDelay = time.Hour

	policy := ghosthttp.NewPolicy(config)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)

	go func() {
		done <- policy.Execute(ctx, func(context.Context, int) error { return serverError() })
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Execute did not return after cancellation")
	}
}

func TestPolicy_CancelledBeforeStart(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := ghosthttp.NewPolicy(nil).Execute(ctx, func(context.Context, int) error {
		called = true

		return nil
	})

	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
