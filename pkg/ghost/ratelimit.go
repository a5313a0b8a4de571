package ghost

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fivetwenty-io/ghostctl/internal/constants"
)

// Rate-limit response headers.
const (
	HeaderRateLimitLimit     = "X-RateLimit-Limit"
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"
	HeaderRateLimitReset     = "X-RateLimit-Reset"
	HeaderRetryAfter         = "Retry-After"
)

// RateLimitObserver inspects response headers and advises a pre-delay before the next attempt.
// Implementations must never fail; missing or malformed headers are ignored.
type RateLimitObserver interface {
	Observe(header http.Header)
	Advise() time.Duration
	State() RateLimitState
}

// RateLimitSource is implemented by clients that expose the observer of their transport.
type RateLimitSource interface {
	RateLimiter() RateLimitObserver
}

// RateLimitTracker is the default RateLimitObserver. One instance may be shared process-wide.
type RateLimitTracker struct {
	mu     sync.Mutex
	state  RateLimitState
	logger Logger
	now    func() time.Time

	warnBelow  int
	pauseBelow int
	maxAdvice  time.Duration
}

// NewRateLimitTracker creates a tracker. A nil logger disables low-quota warnings.
func NewRateLimitTracker(logger Logger) *RateLimitTracker {
	return &RateLimitTracker{
		logger:     logger,
		now:        time.Now,
		warnBelow:  constants.RateLimitWarnRemaining,
		pauseBelow: constants.RateLimitPauseRemaining,
		maxAdvice:  constants.RateLimitMaxAdvice,
	}
}

// SetClock replaces the time source.
func (t *RateLimitTracker) SetClock(now func() time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.now = now
}

// Observe records the quota headers of a response.
func (t *RateLimitTracker) Observe(header http.Header) {
	if header == nil {
		return
	}

	limit, hasLimit := headerInt(header, HeaderRateLimitLimit)
	remaining, hasRemaining := headerInt(header, HeaderRateLimitRemaining)
	resetValue := strings.TrimSpace(header.Get(HeaderRateLimitReset))
	retryAfterValue := header.Get(HeaderRetryAfter)

	if !hasLimit && !hasRemaining && resetValue == "" && retryAfterValue == "" {
		return
	}

	t.mu.Lock()

	now := t.now()

	if hasLimit {
		t.state.Limit = limit
	}

	if hasRemaining {
		t.state.Remaining = remaining
	}

	if resetValue != "" {
		if reset, ok := parseReset(resetValue, now); ok {
			t.state.Reset = reset
		}
	}

	t.state.RetryAfter = ParseRetryAfter(retryAfterValue, now)
	t.state.Observed = true
	t.state.UpdatedAt = now
	state := t.state

	t.mu.Unlock()

	if t.logger != nil && hasRemaining && state.Remaining < t.warnBelow {
		t.logger.Warn("Rate limit nearly exhausted", map[string]interface{}{
			"limit":     state.Limit,
			"remaining": state.Remaining,
			"reset":     state.Reset,
		})
	}
}

// Advise returns a short pre-delay when the quota is nearly gone and the window resets soon.
func (t *RateLimitTracker) Advise() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.state.Observed || t.state.Remaining >= t.pauseBelow || t.state.Reset.IsZero() {
		return 0
	}

	wait := t.state.Reset.Sub(t.now())
	if wait <= 0 {
		return 0
	}

	return min(wait, t.maxAdvice)
}

// State returns a copy of the last observed state.
func (t *RateLimitTracker) State() RateLimitState {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.state
}

func headerInt(header http.Header, name string) (int, bool) {
	value := strings.TrimSpace(header.Get(name))
	if value == "" {
		return 0, false
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, false
	}

	return parsed, true
}

// parseReset accepts a unix timestamp, a number of seconds from now, or an HTTP date.
func parseReset(value string, now time.Time) (time.Time, bool) {
	seconds, err := strconv.ParseInt(value, 10, 64)
	if err == nil {
		// values this large can only be epoch seconds
		if seconds > now.Unix()/2 {
			return time.Unix(seconds, 0), true
		}

		return now.Add(time.Duration(seconds) * time.Second), true
	}

	when, err := http.ParseTime(value)
	if err != nil {
		return time.Time{}, false
	}

	return when, true
}
