package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/fivetwenty-io/ghostctl/internal/constants"
	"github.com/fivetwenty-io/ghostctl/internal/logging"
	"github.com/fivetwenty-io/ghostctl/pkg/ghost"
)

// Logger is the logging interface used by the HTTP client.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// TokenManager supplies the admin token attached to every attempt.
type TokenManager interface {
	GetToken(ctx context.Context) (string, error)
	RefreshToken(ctx context.Context) error
}

// Request represents one logical admin API call.
type Request struct {
	Method string
	// Path is relative to the admin API root, e.g. "/posts/".
	Path    string
	Query   url.Values
	Body    interface{}
	Headers map[string]string
	// RawBody is sent as-is with ContentType, e.g. a multipart upload.
	RawBody     []byte
	ContentType string
	// Timeout overrides the client timeout for each attempt.
	Timeout time.Duration
}

// Response represents the final response of a logical call.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	Attempts   int
	FromCache  bool
}

// Client executes admin API calls through the retry policy.
type Client struct {
	apiRoot      string
	httpClient   *retryablehttp.Client
	tokenManager TokenManager
	policy       *Policy
	retryConfig  *ghost.RetryConfig
	sleep        Sleeper
	logger       Logger
	debug        bool
	userAgent    string
	apiVersion   string
	authScheme   string
	timeout      time.Duration
	rateLimiter  ghost.RateLimitObserver
	interceptors *ghost.InterceptorChain
	cache        *ghost.CacheManager
	cachePolicy  *ghost.CachingPolicy
	baseClient   *http.Client
}

// Option configures the HTTP client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables debug logging of every attempt. Headers are always redacted.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithRetryConfig sets the retry configuration.
func WithRetryConfig(config *ghost.RetryConfig) Option {
	return func(c *Client) {
		c.retryConfig = config
	}
}

// WithSleeper replaces the sleeper used for backoff and rate-limit pauses.
func WithSleeper(sleeper Sleeper) Option {
	return func(c *Client) {
		if sleeper != nil {
			c.sleep = sleeper
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

// WithAPIVersion sets the Accept-Version header.
func WithAPIVersion(version string) Option {
	return func(c *Client) {
		if version != "" {
			c.apiVersion = version
		}
	}
}

// WithAuthScheme sets the Authorization scheme.
func WithAuthScheme(scheme string) Option {
	return func(c *Client) {
		if scheme != "" {
			c.authScheme = scheme
		}
	}
}

// WithTimeout bounds each attempt.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithHTTPClient sets the underlying transport client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.baseClient = client
	}
}

// WithRateLimiter sets the rate-limit observer.
func WithRateLimiter(observer ghost.RateLimitObserver) Option {
	return func(c *Client) {
		c.rateLimiter = observer
	}
}

// WithInterceptors sets the interceptor chain run around every attempt.
func WithInterceptors(chain *ghost.InterceptorChain) Option {
	return func(c *Client) {
		c.interceptors = chain
	}
}

// WithCache enables response caching. A nil policy uses ghost.DefaultCachingPolicy.
func WithCache(cache *ghost.CacheManager, policy *ghost.CachingPolicy) Option {
	return func(c *Client) {
		c.cache = cache
		c.cachePolicy = policy
	}
}

// NewClient creates a client for the site at baseURL. Only https URLs are accepted.
func NewClient(baseURL string, tokenManager TokenManager, opts ...Option) (*Client, error) {
	apiRoot, err := AdminRoot(baseURL)
	if err != nil {
		return nil, err
	}

	client := &Client{
		apiRoot:      apiRoot,
		tokenManager: tokenManager,
		sleep:        SleepContext,
		userAgent:    "ghostctl/dev",
		apiVersion:   constants.DefaultAPIVersion,
		authScheme:   constants.AuthSchemeBearer,
		timeout:      constants.DefaultHTTPTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.rateLimiter == nil {
		client.rateLimiter = ghost.NewRateLimitTracker(client.logger)
	}

	if client.cache != nil && client.cachePolicy == nil {
		client.cachePolicy = ghost.DefaultCachingPolicy()
	}

	policyOpts := []PolicyOption{WithPolicySleeper(client.sleep)}
	if client.logger != nil {
		policyOpts = append(policyOpts, WithPolicyLogger(client.logger))
	}

	client.policy = NewPolicy(client.retryConfig, policyOpts...)
	client.httpClient = client.newTransport()

	return client, nil
}

// AdminRoot validates a site URL and returns its admin API root.
func AdminRoot(baseURL string) (string, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return "", &ghost.ConfigError{Field: "url", Err: ghost.ErrURLRequired}
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", &ghost.ConfigError{Field: "url", Err: err}
	}

	if !strings.EqualFold(parsed.Scheme, "https") {
		return "", &ghost.ConfigError{Field: "url", Err: ghost.ErrHTTPSRequired}
	}

	if parsed.Host == "" {
		return "", &ghost.ConfigError{Field: "url", Err: ghost.ErrURLRequired}
	}

	path := strings.TrimRight(parsed.Path, "/")
	path = strings.TrimSuffix(path, constants.AdminAPIPath)

	return "https://" + parsed.Host + path + constants.AdminAPIPath, nil
}

// newTransport configures retryablehttp as a single attempt transport; the
// Policy owns every retry decision.
func (c *Client) newTransport() *retryablehttp.Client {
	transport := retryablehttp.NewClient()
	transport.RetryMax = 0
	transport.Logger = nil
	transport.CheckRetry = func(context.Context, *http.Response, error) (bool, error) {
		return false, nil
	}
	transport.ErrorHandler = retryablehttp.PassthroughErrorHandler

	if c.baseClient != nil {
		transport.HTTPClient = c.baseClient
	}

	observer := c.rateLimiter
	transport.ResponseLogHook = func(_ retryablehttp.Logger, resp *http.Response) {
		observer.Observe(resp.Header)
	}

	return transport
}

// APIRoot returns the admin API root URL.
func (c *Client) APIRoot() string {
	return c.apiRoot
}

// Policy returns the retry policy.
func (c *Client) Policy() *Policy {
	return c.policy
}

// RateLimiter returns the rate-limit observer.
func (c *Client) RateLimiter() ghost.RateLimitObserver {
	return c.rateLimiter
}

// Cache returns the cache manager, or nil.
func (c *Client) Cache() *ghost.CacheManager {
	return c.cache
}

// Do executes a logical call. The returned Response is the last one received, also on error.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	body, contentType, err := encodeBody(req)
	if err != nil {
		return nil, err
	}

	cacheKey := c.cacheKey(req)
	if cacheKey != "" {
		data, cacheErr := c.cache.Get(ctx, cacheKey)
		if cacheErr == nil {
			return &Response{StatusCode: http.StatusOK, Body: data, FromCache: true}, nil
		}
	}

	requestID := uuid.NewString()
	attempts := 0
	refreshed := false

	var response *Response

	err = c.policy.Execute(ctx, func(ctx context.Context, attempt int) error {
		waitErr := c.pace(ctx)
		if waitErr != nil {
			return waitErr
		}

		attempts++

		resp, attemptErr := c.attempt(ctx, req, body, contentType, requestID, attempt)
		if attemptErr != nil && ghost.IsAuthentication(attemptErr) && !refreshed && c.tokenManager != nil {
			refreshed = true

			refreshErr := c.tokenManager.RefreshToken(ctx)
			if refreshErr == nil {
				c.policy.RecordAuthRefresh()

				attempts++
				resp, attemptErr = c.attempt(ctx, req, body, contentType, requestID, attempt)
			}
		}

		if resp != nil {
			response = resp
		}

		return attemptErr
	})

	if response != nil {
		response.Attempts = attempts
	}

	if err != nil {
		return response, err
	}

	c.updateCache(ctx, req, cacheKey, response)

	return response, nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post performs a POST request.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body})
}

// Put performs a PUT request.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPut, Path: path, Body: body})
}

// Delete performs a DELETE request. A 404 is reported as success.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Path: path})
}

func (c *Client) pace(ctx context.Context) error {
	wait := c.rateLimiter.Advise()
	if wait <= 0 {
		return nil
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("Pausing for rate limit", map[string]interface{}{"delay": wait.String()})
	}

	err := c.sleep(ctx, wait)
	if err != nil {
		return fmt.Errorf("waiting for rate limit: %w", err)
	}

	return nil
}

func (c *Client) attempt(ctx context.Context, req *Request, body []byte, contentType, requestID string, attempt int) (*Response, error) {
	view := &ghost.Request{
		Method:   req.Method,
		Path:     req.Path,
		Headers:  make(http.Header),
		Body:     body,
		Metadata: map[string]interface{}{"request_id": requestID, "attempt": attempt},
	}

	for key, value := range req.Headers {
		view.Headers.Set(key, value)
	}

	err := c.interceptors.ExecuteRequestInterceptors(ctx, view)
	if err != nil {
		return nil, err
	}

	timeout := c.timeout
	if req.Timeout > 0 {
		timeout = req.Timeout
	}

	parent := ctx

	if timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	target := c.buildURL(req.Path, req.Query)

	var payload interface{}
	if body != nil {
		payload = body
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, target, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, values := range view.Headers {
		if http.CanonicalHeaderKey(key) == "Authorization" {
			continue
		}

		httpReq.Header[key] = values
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Accept-Version", c.apiVersion)
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("X-Request-Id", requestID)

	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	if c.tokenManager != nil {
		token, tokenErr := c.tokenManager.GetToken(ctx)
		if tokenErr != nil {
			return nil, fmt.Errorf("failed to get admin token: %w", tokenErr)
		}

		httpReq.Header.Set("Authorization", c.authScheme+" "+token)
	}

	c.logRequest(httpReq, requestID, attempt, len(body))

	start := time.Now()

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		retryable, _ := retryablehttp.DefaultRetryPolicy(parent, nil, err)
		netErr := &ghost.NetworkError{Method: req.Method, URL: target, Retryable: retryable, Err: err}

		_ = c.interceptors.ExecuteResponseInterceptors(ctx, view, &ghost.Response{Error: netErr})
		c.logFailure(httpReq.URL.String(), requestID, attempt, netErr)

		return nil, netErr
	}

	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		retryable, _ := retryablehttp.DefaultRetryPolicy(parent, nil, err)

		return nil, &ghost.NetworkError{Method: req.Method, URL: target, Retryable: retryable, Err: err}
	}

	response := &Response{StatusCode: resp.StatusCode, Headers: resp.Header, Body: respBody}

	c.logResponse(response, requestID, attempt, time.Since(start))

	var callErr error
	if resp.StatusCode >= http.StatusBadRequest && !deleteNotFound(req.Method, resp.StatusCode) {
		callErr = ghost.ErrorFromResponse(resp.StatusCode, req.Method, req.Path, resp.Header, respBody)
	}

	err = c.interceptors.ExecuteResponseInterceptors(ctx, view, &ghost.Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       respBody,
		Error:      callErr,
	})
	if err != nil && callErr == nil {
		callErr = err
	}

	return response, callErr
}

func deleteNotFound(method string, statusCode int) bool {
	return method == http.MethodDelete && statusCode == http.StatusNotFound
}

func (c *Client) buildURL(path string, query url.Values) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	target := c.apiRoot + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	return target
}

func (c *Client) cacheKey(req *Request) string {
	if c.cache == nil || req.Method != http.MethodGet {
		return ""
	}

	if !c.cachePolicy.ShouldCache(req.Method, req.Path, http.StatusOK) {
		return ""
	}

	params := make(map[string]string, len(req.Query))
	for key, values := range req.Query {
		params[key] = strings.Join(values, ",")
	}

	return c.cache.GetCacheKey(req.Method, req.Path, params)
}

func (c *Client) updateCache(ctx context.Context, req *Request, cacheKey string, response *Response) {
	if c.cache == nil || response == nil {
		return
	}

	if req.Method != http.MethodGet {
		err := c.cache.InvalidateResource(ctx, ghost.ResourceFromPath(req.Path))
		if err != nil && c.logger != nil {
			c.logger.Warn("Failed to invalidate cache", map[string]interface{}{"path": req.Path, "error": err.Error()})
		}

		return
	}

	if cacheKey == "" || !c.cachePolicy.ShouldCache(req.Method, req.Path, response.StatusCode) {
		return
	}

	err := c.cache.Set(ctx, cacheKey, response.Body, c.cachePolicy.TTL)
	if err != nil && c.logger != nil {
		c.logger.Warn("Failed to cache response", map[string]interface{}{"path": req.Path, "error": err.Error()})
	}
}

func (c *Client) logRequest(req *retryablehttp.Request, requestID string, attempt, bodySize int) {
	if !c.debug || c.logger == nil {
		return
	}

	c.logger.Debug("HTTP Request", map[string]interface{}{
		"request_id": requestID,
		"attempt":    attempt,
		"method":     req.Method,
		"url":        logging.RedactURL(req.URL.String()),
		"headers":    logging.RedactHeader(req.Header),
		"body_bytes": bodySize,
	})
}

func (c *Client) logResponse(resp *Response, requestID string, attempt int, duration time.Duration) {
	if !c.debug || c.logger == nil {
		return
	}

	c.logger.Debug("HTTP Response", map[string]interface{}{
		"request_id":  requestID,
		"attempt":     attempt,
		"status_code": resp.StatusCode,
		"duration":    duration.String(),
		"headers":     logging.RedactHeader(resp.Headers),
		"body_bytes":  len(resp.Body),
	})
}

func (c *Client) logFailure(requestURL, requestID string, attempt int, err error) {
	if !c.debug || c.logger == nil {
		return
	}

	c.logger.Debug("HTTP Request Failed", map[string]interface{}{
		"request_id": requestID,
		"url":        logging.RedactURL(requestURL),
		"attempt":    attempt,
		"error":      logging.RedactString(err.Error()),
	})
}

func encodeBody(req *Request) ([]byte, string, error) {
	if req.RawBody != nil {
		return req.RawBody, req.ContentType, nil
	}

	if req.Body == nil {
		return nil, "", nil
	}

	var buf bytes.Buffer

	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)

	err := encoder.Encode(req.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	return bytes.TrimRight(buf.Bytes(), "\n"), "application/json", nil
}
