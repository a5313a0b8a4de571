package ghost

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// LimitAll is the decoded value of a "limit":"all" pagination field.
const LimitAll = -1

// Limit is a page size as reported by the API, which may be the string "all".
type Limit int

// UnmarshalJSON accepts either a number or the string "all".
func (l *Limit) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*l = 0

		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var text string

		err := json.Unmarshal(data, &text)
		if err != nil {
			return fmt.Errorf("parsing limit: %w", err)
		}

		if text == "all" {
			*l = LimitAll

			return nil
		}

		value, err := strconv.Atoi(text)
		if err != nil {
			return fmt.Errorf("parsing limit %q: %w", text, err)
		}

		*l = Limit(value)

		return nil
	}

	var value int

	err := json.Unmarshal(data, &value)
	if err != nil {
		return fmt.Errorf("parsing limit: %w", err)
	}

	*l = Limit(value)

	return nil
}

// MarshalJSON renders LimitAll back as "all".
func (l Limit) MarshalJSON() ([]byte, error) {
	if l == LimitAll {
		return []byte(`"all"`), nil
	}

	return []byte(strconv.Itoa(int(l))), nil
}

// Pagination represents meta.pagination of a collection response.
type Pagination struct {
	Page  int   `json:"page"  yaml:"page"`
	Limit Limit `json:"limit" yaml:"limit"`
	Pages int   `json:"pages" yaml:"pages"`
	Total int   `json:"total" yaml:"total"`
	Next  *int  `json:"next"  yaml:"next"`
	Prev  *int  `json:"prev"  yaml:"prev"`
}

// HasNext reports whether the server announced a further page.
func (p Pagination) HasNext() bool {
	return p.Next != nil && *p.Next > p.Page
}

// Meta holds collection metadata.
type Meta struct {
	Pagination Pagination `json:"pagination" yaml:"pagination"`
}

// ListResponse represents one page of a collection.
type ListResponse[T any] struct {
	Items []T  `json:"items" yaml:"items"`
	Meta  Meta `json:"meta"  yaml:"meta"`
}

// DecodeList parses a {"<key>": [...], "meta": {...}} envelope.
func DecodeList[T any](data []byte, key string) (*ListResponse[T], error) {
	raw, err := decodeEnvelope(data, key)
	if err != nil {
		return nil, err
	}

	list := &ListResponse[T]{}

	err = json.Unmarshal(raw[key], &list.Items)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", key, err)
	}

	if meta, ok := raw["meta"]; ok {
		err = json.Unmarshal(meta, &list.Meta)
		if err != nil {
			return nil, fmt.Errorf("parsing %s meta: %w", key, err)
		}
	}

	return list, nil
}

// DecodeOne parses a single-resource envelope, which the API also wraps in a list.
func DecodeOne[T any](data []byte, key string) (*T, error) {
	list, err := DecodeList[T](data, key)
	if err != nil {
		return nil, err
	}

	if len(list.Items) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyEnvelope, key)
	}

	return &list.Items[0], nil
}

// EncodeOne wraps a resource body in the {"<key>": [body]} request envelope.
func EncodeOne(key string, body interface{}) map[string]interface{} {
	return map[string]interface{}{key: []interface{}{body}}
}

func decodeEnvelope(data []byte, key string) (map[string]json.RawMessage, error) {
	var raw map[string]json.RawMessage

	err := json.Unmarshal(data, &raw)
	if err != nil {
		return nil, fmt.Errorf("parsing %s envelope: %w", key, err)
	}

	if _, ok := raw[key]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrEnvelopeKeyMissing, key)
	}

	return raw, nil
}

// RateLimitState is the latest quota information reported by the server.
// It is advisory and may be stale.
type RateLimitState struct {
	Limit      int           `json:"limit"                 yaml:"limit"`
	Remaining  int           `json:"remaining"             yaml:"remaining"`
	Reset      time.Time     `json:"reset,omitempty"       yaml:"reset,omitempty"`
	RetryAfter time.Duration `json:"retry_after,omitempty" yaml:"retry_after,omitempty"`
	Observed   bool          `json:"observed"              yaml:"observed"`
	UpdatedAt  time.Time     `json:"updated_at,omitempty"  yaml:"updated_at,omitempty"`
}

// TokenStats reports token cache behaviour.
type TokenStats struct {
	Hits        int64     `json:"hits"                 yaml:"hits"`
	Misses      int64     `json:"misses"               yaml:"misses"`
	Generations int64     `json:"generations"          yaml:"generations"`
	ExpiresAt   time.Time `json:"expires_at,omitempty" yaml:"expires_at,omitempty"`
}

// RetryStats reports retry policy behaviour across calls.
type RetryStats struct {
	Calls         int64 `json:"calls"          yaml:"calls"`
	Attempts      int64 `json:"attempts"       yaml:"attempts"`
	Retries       int64 `json:"retries"        yaml:"retries"`
	Successes     int64 `json:"successes"      yaml:"successes"`
	Failures      int64 `json:"failures"       yaml:"failures"`
	CircuitTrips  int64 `json:"circuit_trips"  yaml:"circuit_trips"`
	Exhausted     int64 `json:"exhausted"      yaml:"exhausted"`
	AuthRefreshes int64 `json:"auth_refreshes" yaml:"auth_refreshes"`
}

// Stats is a snapshot of client internals. It never contains key material.
type Stats struct {
	Token     TokenStats          `json:"token"               yaml:"token"`
	Retry     RetryStats          `json:"retry"               yaml:"retry"`
	RateLimit RateLimitState      `json:"rate_limit"          yaml:"rate_limit"`
	Cache     *CacheStats         `json:"cache,omitempty"     yaml:"cache,omitempty"`
	Endpoints map[string]*Metrics `json:"endpoints,omitempty" yaml:"endpoints,omitempty"`
}
