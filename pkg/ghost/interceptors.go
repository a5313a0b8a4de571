package ghost

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Request is the view of an outgoing admin API request handed to interceptors.
// Headers never contain the Authorization value; it is attached after the chain runs.
type Request struct {
	Method   string
	Path     string
	Headers  http.Header
	Body     []byte
	Metadata map[string]interface{}
}

// Response is the view of a completed attempt handed to response interceptors.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	Error      error
}

// RequestInterceptor is called before each attempt is sent.
type RequestInterceptor func(ctx context.Context, req *Request) error

// ResponseInterceptor is called after each attempt completes.
type ResponseInterceptor func(ctx context.Context, req *Request, resp *Response) error

// InterceptorChain manages a chain of interceptors.
type InterceptorChain struct {
	requestInterceptors  []RequestInterceptor
	responseInterceptors []ResponseInterceptor
}

// NewInterceptorChain creates a new interceptor chain.
func NewInterceptorChain() *InterceptorChain {
	return &InterceptorChain{
		requestInterceptors:  make([]RequestInterceptor, 0),
		responseInterceptors: make([]ResponseInterceptor, 0),
	}
}

// AddRequestInterceptor adds a request interceptor to the chain.
func (c *InterceptorChain) AddRequestInterceptor(interceptor RequestInterceptor) {
	c.requestInterceptors = append(c.requestInterceptors, interceptor)
}

// AddResponseInterceptor adds a response interceptor to the chain.
func (c *InterceptorChain) AddResponseInterceptor(interceptor ResponseInterceptor) {
	c.responseInterceptors = append(c.responseInterceptors, interceptor)
}

// Empty reports whether the chain has no interceptors.
func (c *InterceptorChain) Empty() bool {
	return c == nil || (len(c.requestInterceptors) == 0 && len(c.responseInterceptors) == 0)
}

// ExecuteRequestInterceptors runs all request interceptors in registration order.
func (c *InterceptorChain) ExecuteRequestInterceptors(ctx context.Context, req *Request) error {
	if c == nil {
		return nil
	}

	for _, interceptor := range c.requestInterceptors {
		err := interceptor(ctx, req)
		if err != nil {
			return fmt.Errorf("request interceptor failed: %w", err)
		}
	}

	return nil
}

// ExecuteResponseInterceptors runs all response interceptors in registration order.
func (c *InterceptorChain) ExecuteResponseInterceptors(ctx context.Context, req *Request, resp *Response) error {
	if c == nil {
		return nil
	}

	for _, interceptor := range c.responseInterceptors {
		err := interceptor(ctx, req, resp)
		if err != nil {
			return fmt.Errorf("response interceptor failed: %w", err)
		}
	}

	return nil
}

// ThrottleInterceptor spaces outgoing attempts to at most requestsPerSecond,
// retries included. A non-positive rate disables it.
func ThrottleInterceptor(requestsPerSecond float64) RequestInterceptor {
	if requestsPerSecond <= 0 {
		return func(context.Context, *Request) error { return nil }
	}

	limiter := rate.NewLimiter(rate.Limit(requestsPerSecond), 1)

	return func(ctx context.Context, req *Request) error {
		err := limiter.Wait(ctx)
		if err != nil {
			return fmt.Errorf("waiting to send %s %s: %w", req.Method, req.Path, err)
		}

		return nil
	}
}

// HeaderInterceptor adds custom headers to requests. Authorization is ignored.
func HeaderInterceptor(headers map[string]string) RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		if req.Headers == nil {
			req.Headers = make(http.Header)
		}

		for key, value := range headers {
			if http.CanonicalHeaderKey(key) == "Authorization" {
				continue
			}

			req.Headers.Set(key, value)
		}

		return nil
	}
}

// Metrics holds per endpoint counters.
type Metrics struct {
	TotalRequests   int64         `json:"total_requests"    yaml:"total_requests"`
	TotalErrors     int64         `json:"total_errors"      yaml:"total_errors"`
	TotalLatency    time.Duration `json:"total_latency"     yaml:"total_latency"`
	AverageLatency  time.Duration `json:"average_latency"   yaml:"average_latency"`
	LastRequestTime time.Time     `json:"last_request_time" yaml:"last_request_time"`
}

// MetricsCollector collects API metrics.
type MetricsCollector struct {
	mu       sync.Mutex
	metrics  map[string]*Metrics
	onChange func(endpoint string, metrics Metrics)
}

// NewMetricsCollector creates a new metrics collector.
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		metrics: make(map[string]*Metrics),
	}
}

// SetOnChange sets a callback invoked with a copy of the updated metrics.
func (m *MetricsCollector) SetOnChange(fn func(endpoint string, metrics Metrics)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.onChange = fn
}

// GetMetrics returns a copy of the metrics for an endpoint, or nil.
func (m *MetricsCollector) GetMetrics(endpoint string) *Metrics {
	m.mu.Lock()
	defer m.mu.Unlock()

	if metrics, ok := m.metrics[endpoint]; ok {
		snapshot := *metrics

		return &snapshot
	}

	return nil
}

// Snapshot returns a copy of every endpoint's metrics.
func (m *MetricsCollector) Snapshot() map[string]*Metrics {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]*Metrics, len(m.metrics))
	for endpoint, metrics := range m.metrics {
		snapshot := *metrics
		out[endpoint] = &snapshot
	}

	return out
}

// Endpoints returns the sorted list of observed endpoints.
func (m *MetricsCollector) Endpoints() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	endpoints := make([]string, 0, len(m.metrics))
	for endpoint := range m.metrics {
		endpoints = append(endpoints, endpoint)
	}

	sort.Strings(endpoints)

	return endpoints
}

func (m *MetricsCollector) record(endpoint string, latency time.Duration, failed bool) {
	m.mu.Lock()

	metrics, ok := m.metrics[endpoint]
	if !ok {
		metrics = &Metrics{}
		m.metrics[endpoint] = metrics
	}

	metrics.TotalRequests++
	metrics.LastRequestTime = time.Now()

	if latency > 0 {
		metrics.TotalLatency += latency
		metrics.AverageLatency = metrics.TotalLatency / time.Duration(metrics.TotalRequests)
	}

	if failed {
		metrics.TotalErrors++
	}

	snapshot := *metrics
	onChange := m.onChange

	m.mu.Unlock()

	if onChange != nil {
		onChange(endpoint, snapshot)
	}
}

// MetricsRequestInterceptor records request start time.
func MetricsRequestInterceptor(collector *MetricsCollector) RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		if req.Metadata == nil {
			req.Metadata = make(map[string]interface{})
		}

		req.Metadata["start_time"] = time.Now()

		return nil
	}
}

// MetricsResponseInterceptor records response metrics keyed by "METHOD path".
func MetricsResponseInterceptor(collector *MetricsCollector) ResponseInterceptor {
	return func(ctx context.Context, req *Request, resp *Response) error {
		endpoint := fmt.Sprintf("%s %s", req.Method, req.Path)

		var latency time.Duration

		if req.Metadata != nil {
			if startTime, ok := req.Metadata["start_time"].(time.Time); ok {
				latency = time.Since(startTime)
			}
		}

		collector.record(endpoint, latency, resp.Error != nil || resp.StatusCode >= http.StatusBadRequest)

		return nil
	}
}

// WithMetrics registers the metrics interceptors of collector on the chain.
func (c *InterceptorChain) WithMetrics(collector *MetricsCollector) *InterceptorChain {
	c.AddRequestInterceptor(MetricsRequestInterceptor(collector))
	c.AddResponseInterceptor(MetricsResponseInterceptor(collector))

	return c
}
