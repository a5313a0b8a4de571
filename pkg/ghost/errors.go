package ghost

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// APIError is a single entry of the admin API error envelope.
type APIError struct {
	Message  string      `json:"message"            yaml:"message"`
	Context  string      `json:"context,omitempty"  yaml:"context,omitempty"`
	Type     string      `json:"type,omitempty"     yaml:"type,omitempty"`
	Property string      `json:"property,omitempty" yaml:"property,omitempty"`
	Details  interface{} `json:"details,omitempty"  yaml:"details,omitempty"`
	ID       string      `json:"id,omitempty"       yaml:"id,omitempty"`
	Code     string      `json:"code,omitempty"     yaml:"code,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	var builder strings.Builder

	if e.Type != "" {
		builder.WriteString(e.Type)
		builder.WriteString(": ")
	}

	builder.WriteString(e.Message)

	if e.Context != "" {
		builder.WriteString(" (")
		builder.WriteString(e.Context)
		builder.WriteString(")")
	}

	if e.Property != "" {
		builder.WriteString(" [")
		builder.WriteString(e.Property)
		builder.WriteString("]")
	}

	return builder.String()
}

// ResponseError represents the error envelope returned by the API.
type ResponseError struct {
	Errors []APIError `json:"errors"`
}

// Error implements the error interface for ResponseError.
func (e *ResponseError) Error() string {
	if len(e.Errors) == 0 {
		return "unknown error"
	}

	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	messages := make([]string, 0, len(e.Errors))
	for i := range e.Errors {
		messages = append(messages, e.Errors[i].Error())
	}

	return "multiple errors: " + strings.Join(messages, "; ")
}

// FirstError returns the first error or nil.
func (e *ResponseError) FirstError() *APIError {
	if len(e.Errors) > 0 {
		return &e.Errors[0]
	}

	return nil
}

// ParseResponseError parses an error envelope from JSON.
func ParseResponseError(data []byte) (*ResponseError, error) {
	var errResp ResponseError

	err := json.Unmarshal(data, &errResp)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal response error: %w", err)
	}

	return &errResp, nil
}

// Static errors for err113 compliance.
var (
	ErrConfigRequired       = errors.New("config is required")
	ErrURLRequired          = errors.New("API URL is required")
	ErrHTTPSRequired        = errors.New("API URL must use https")
	ErrAdminKeyRequired     = errors.New("admin API key is required")
	ErrEnvelopeKeyMissing   = errors.New("response envelope key missing")
	ErrEmptyEnvelope        = errors.New("response envelope is empty")
	ErrPaginatorConsumed    = errors.New("paginator already consumed")
	ErrConcurrencyToken     = errors.New("updated_at is required for updates")
	ErrIDRequired           = errors.New("id is required")
	ErrCacheDisabled        = errors.New("cache disabled")
	ErrCacheKeyNotFound     = errors.New("key not found")
	ErrCacheEntryExpired    = errors.New("entry expired")
	ErrUnsupportedCacheType = errors.New("unsupported cache type")
	ErrUnsupportedOperation = errors.New("unsupported operation type")
	ErrInvalidOperationData = errors.New("invalid data for operation")
)

// CredentialFormatError reports malformed admin key material. It is raised before any network activity.
type CredentialFormatError struct {
	Reason string
	Err    error
}

func (e *CredentialFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid admin API key: %s: %v", e.Reason, e.Err)
	}

	return "invalid admin API key: " + e.Reason
}

func (e *CredentialFormatError) Unwrap() error { return e.Err }

// ConfigError reports an unusable client configuration.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// NetworkError is a transport level failure such as DNS, refused connection or timeout.
type NetworkError struct {
	Method    string
	URL       string
	Retryable bool
	Err       error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: network error: %v", e.Method, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPError carries the status and parsed envelope of a failed response.
// It is embedded by every status based error kind.
type HTTPError struct {
	StatusCode int
	Method     string
	Path       string
	Response   *ResponseError
}

func (e *HTTPError) describe(kind string) string {
	detail := http.StatusText(e.StatusCode)
	if e.Response != nil && len(e.Response.Errors) > 0 {
		detail = e.Response.Error()
	}

	return fmt.Sprintf("%s %s: %s (%d): %s", e.Method, e.Path, kind, e.StatusCode, detail)
}

// Unwrap exposes the parsed error envelope to errors.As.
func (e *HTTPError) Unwrap() error {
	if e.Response == nil {
		return nil
	}

	return e.Response
}

// RateLimitedError is returned for HTTP 429.
type RateLimitedError struct {
	HTTPError

	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	msg := e.describe("rate limited")
	if e.RetryAfter > 0 {
		msg += fmt.Sprintf(", retry after %s", e.RetryAfter)
	}

	return msg
}

// ServerError is returned for HTTP 5xx.
type ServerError struct {
	HTTPError
}

func (e *ServerError) Error() string { return e.describe("server error") }

// AuthenticationError is returned for HTTP 401 and 403.
type AuthenticationError struct {
	HTTPError
}

func (e *AuthenticationError) Error() string { return e.describe("authentication failed") }

// ValidationError is returned for 4xx responses other than 401, 403 and 429, and for
// inputs rejected locally before any request. Local errors have a zero StatusCode.
type ValidationError struct {
	HTTPError

	Property string
	Message  string
}

func (e *ValidationError) Error() string {
	if e.StatusCode == 0 {
		if e.Property != "" {
			return fmt.Sprintf("validation failed: %s: %s", e.Property, e.Message)
		}

		return "validation failed: " + e.Message
	}

	return e.describe("request rejected")
}

// NewValidationError creates a locally raised validation error.
func NewValidationError(property, message string) *ValidationError {
	return &ValidationError{Property: property, Message: message}
}

// CircuitOpenError is returned when consecutive failures reach the circuit breaker threshold.
type CircuitOpenError struct {
	Failures int
	Attempts int
	Err      error
}

func (e *CircuitOpenError) Error() string {
	return fmt.Sprintf("circuit open after %d consecutive failures: %v", e.Failures, e.Err)
}

func (e *CircuitOpenError) Unwrap() error { return e.Err }

// RetryExhaustedError wraps the last error once the retry budget is spent.
type RetryExhaustedError struct {
	Attempts int
	Err      error
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("giving up after %d attempts: %v", e.Attempts, e.Err)
}

func (e *RetryExhaustedError) Unwrap() error { return e.Err }

// PaginationError reports a page that could not be fetched.
type PaginationError struct {
	Page int
	Err  error
}

func (e *PaginationError) Error() string {
	return fmt.Sprintf("fetching page %d: %v", e.Page, e.Err)
}

func (e *PaginationError) Unwrap() error { return e.Err }

// ErrorFromResponse classifies a failed HTTP response.
func ErrorFromResponse(statusCode int, method, path string, header http.Header, body []byte) error {
	base := HTTPError{StatusCode: statusCode, Method: method, Path: path}

	if len(body) > 0 {
		parsed, err := ParseResponseError(body)
		if err == nil && len(parsed.Errors) > 0 {
			base.Response = parsed
		}
	}

	switch {
	case statusCode == http.StatusTooManyRequests:
		return &RateLimitedError{HTTPError: base, RetryAfter: ParseRetryAfter(header.Get("Retry-After"), time.Now())}
	case statusCode >= http.StatusInternalServerError:
		return &ServerError{HTTPError: base}
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return &AuthenticationError{HTTPError: base}
	default:
		validationErr := &ValidationError{HTTPError: base}
		if first := base.Response.firstOrNil(); first != nil {
			validationErr.Property = first.Property
			validationErr.Message = first.Message
		}

		return validationErr
	}
}

func (e *ResponseError) firstOrNil() *APIError {
	if e == nil {
		return nil
	}

	return e.FirstError()
}

// ParseRetryAfter reads a Retry-After header given in seconds or as an HTTP date.
func ParseRetryAfter(value string, now time.Time) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}

	seconds, err := strconv.Atoi(value)
	if err == nil {
		if seconds < 0 {
			return 0
		}

		return time.Duration(seconds) * time.Second
	}

	when, err := http.ParseTime(value)
	if err != nil || !when.After(now) {
		return 0
	}

	return when.Sub(now)
}

// IsRetryable reports whether the retry policy may attempt the call again.
func IsRetryable(err error) bool {
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr.Retryable
	}

	var rateErr *RateLimitedError
	if errors.As(err, &rateErr) {
		return true
	}

	var serverErr *ServerError

	return errors.As(err, &serverErr)
}

// IsNotFound checks if the error is a 404 response.
func IsNotFound(err error) bool {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.StatusCode == http.StatusNotFound
	}

	return false
}

// IsAuthentication checks if the error is a 401 or 403 response.
func IsAuthentication(err error) bool {
	var authErr *AuthenticationError

	return errors.As(err, &authErr)
}

// IsRateLimited checks if the error is a 429 response.
func IsRateLimited(err error) bool {
	var rateErr *RateLimitedError

	return errors.As(err, &rateErr)
}

// IsCredentialFormat checks if the error is caused by malformed key material.
func IsCredentialFormat(err error) bool {
	var credErr *CredentialFormatError

	return errors.As(err, &credErr)
}
