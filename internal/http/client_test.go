package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ghosthttp "github.com/fivetwenty-io/ghostctl/internal/http"
	"github.com/fivetwenty-io/ghostctl/pkg/ghost"
)

// MockTokenManager for testing.
type MockTokenManager struct {
	mu        sync.Mutex
	token     string
	err       error
	refreshes int
}

func (m *MockTokenManager) GetToken(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.token, m.err
}

func (m *MockTokenManager) RefreshToken(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.refreshes++
	m.token = "refreshed-token-" + strconv.Itoa(m.refreshes)

	return nil
}

// MockLogger for testing.
type MockLogger struct {
	mu   sync.Mutex
	logs []map[string]interface{}
}

func (l *MockLogger) add(level, msg string, fields map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.logs = append(l.logs, map[string]interface{}{"level": level, "msg": msg, "fields": fields})
}

func (l *MockLogger) Debug(msg string, fields map[string]interface{}) { l.add("debug", msg, fields) }
func (l *MockLogger) Info(msg string, fields map[string]interface{})  { l.add("info", msg, fields) }
func (l *MockLogger) Warn(msg string, fields map[string]interface{})  { l.add("warn", msg, fields) }
func (l *MockLogger) Error(msg string, fields map[string]interface{}) { l.add("error", msg, fields) }

func (l *MockLogger) messages(level string) []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []string

	for _, entry := range l.logs {
		if entry["level"] == level {
			out = append(out, entry["msg"].(string))
		}
	}

	return out
}

func newTestClient(t *testing.T, server *httptest.Server, tokens ghosthttp.TokenManager, opts ...ghosthttp.Option) *ghosthttp.Client {
	t.Helper()

	sleeper := &recordingSleeper{}
	opts = append([]ghosthttp.Option{
		ghosthttp.WithHTTPClient(server.Client()),
		ghosthttp.WithSleeper(sleeper.Sleep),
	}, opts...)

	client, err := ghosthttp.NewClient(server.URL, tokens, opts...)
	require.NoError(t, err)

	return client
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_Do(t *testing.T) {
	t.Parallel()
	t.Run("successful request", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/ghost/api/admin/posts/", request.URL.Path)
			assert.Equal(t, "GET", request.Method)
			assert.Equal(t, "Bearer test-token", request.Header.Get("Authorization"))
			assert.Equal(t, "v5.0", request.Header.Get("Accept-Version"))
			assert.Equal(t, "application/json", request.Header.Get("Accept"))
			assert.NotEmpty(t, request.Header.Get("X-Request-Id"))

			_, _ = writer.Write([]byte(`{"posts":[{"id":"1","title":"Hello"}]}`))
		}))
		defer server.Close()

		client := newTestClient(t, server, &MockTokenManager{token: "test-token"})

		resp, err := client.Get(context.Background(), "/posts/", nil)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, 1, resp.Attempts)

		post, err := ghost.DecodeOne[ghost.Post](resp.Body, "posts")
		require.NoError(t, err)
		assert.Equal(t, "Hello", post.Title)
	})

	t.Run("request with query parameters", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "limit=15&page=2", request.URL.RawQuery)
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := newTestClient(t, server, nil)

		resp, err := client.Get(context.Background(), "/posts/", url.Values{"page": {"2"}, "limit": {"15"}})
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("request with body", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "POST", request.Method)
			assert.Equal(t, "application/json", request.Header.Get("Content-Type"))

			var body map[string][]map[string]string

			_ = json.NewDecoder(request.Body).Decode(&body)
			assert.Equal(t, "News & <b>", body["tags"][0]["name"])

			writer.WriteHeader(http.StatusCreated)
		}))
		defer server.Close()

		client := newTestClient(t, server, nil)

		resp, err := client.Post(context.Background(), "/tags/", ghost.EncodeOne("tags", map[string]string{"name": "News & <b>"}))
		require.NoError(t, err)
		assert.Equal(t, 201, resp.StatusCode)
	})

	t.Run("error response", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = writer.Write([]byte(`{"errors":[{"message":"Validation error","context":"Title is too long","type":"ValidationError","property":"title"}]}`))
		}))
		defer server.Close()

		client := newTestClient(t, server, nil)

		resp, err := client.Post(context.Background(), "/posts/", map[string]string{})
		require.Error(t, err)
		assert.Equal(t, 422, resp.StatusCode)

		var validationErr *ghost.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "title", validationErr.Property)

		errResp := &ghost.ResponseError{}
		require.ErrorAs(t, err, &errResp)
		assert.Equal(t, "Title is too long", errResp.Errors[0].Context)
	})

	t.Run("custom headers", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "custom-value", request.Header.Get("X-Custom-Header"))
			assert.Equal(t, "Bearer real", request.Header.Get("Authorization"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := newTestClient(t, server, &MockTokenManager{token: "real"})

		resp, err := client.Do(context.Background(), &ghosthttp.Request{
			Method: "GET",
			Path:   "/site/",
			Headers: map[string]string{
				"X-Custom-Header": "custom-value",
				"Authorization":   "Bearer forged",
			},
		})
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("ghost auth scheme", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "Ghost abc", request.Header.Get("Authorization"))
			assert.Equal(t, "v6.0", request.Header.Get("Accept-Version"))
			assert.Equal(t, "ghostctl-test/1.0", request.Header.Get("User-Agent"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := newTestClient(t, server, &MockTokenManager{token: "abc"},
			ghosthttp.WithAuthScheme("Ghost"),
			ghosthttp.WithAPIVersion("v6.0"),
			ghosthttp.WithUserAgent("ghostctl-test/1.0"))

		_, err := client.Get(context.Background(), "/site/", nil)
		require.NoError(t, err)
	})

	t.Run("with debug logging", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusOK)
			_ = json.NewEncoder(writer).Encode(map[string]string{"result": "ok"})
		}))
		defer server.Close()

		logger := &MockLogger{}
		client := newTestClient(t, server, &MockTokenManager{token: "super-secret-token"},
			ghosthttp.WithLogger(logger), ghosthttp.WithDebug(true))

		_, err := client.Get(context.Background(), "/site/", nil)
		require.NoError(t, err)

		assert.Equal(t, []string{"HTTP Request", "HTTP Response"}, logger.messages("debug"))

		rendered := fmt.Sprintf("%v", logger.logs)
		assert.NotContains(t, rendered, "super-secret-token")
		assert.Contains(t, rendered, "***REDACTED***")
	})

	t.Run("debug logging masks credential query parameters", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "supersecretcontentkey", request.URL.Query().Get("key"))
			writer.WriteHeader(http.StatusOK)
			_ = json.NewEncoder(writer).Encode(map[string]string{"result": "ok"})
		}))
		defer server.Close()

		logger := &MockLogger{}
		client := newTestClient(t, server, &MockTokenManager{token: "abc"},
			ghosthttp.WithLogger(logger), ghosthttp.WithDebug(true))

		query := url.Values{}
		query.Set("key", "supersecretcontentkey")
		query.Set("token", "opaque123value")
		query.Set("filter", "status:draft")

		_, err := client.Get(context.Background(), "/posts/", query)
		require.NoError(t, err)

		rendered := fmt.Sprintf("%v", logger.logs)
		assert.NotContains(t, rendered, "supersecretcontentkey")
		assert.NotContains(t, rendered, "opaque123value")
		assert.Contains(t, rendered, "key=***REDACTED***")
		assert.Contains(t, rendered, "filter=status%3Adraft")
	})

	t.Run("failed request log masks credential query parameters", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewTLSServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		server.Close()

		logger := &MockLogger{}
		client := newTestClient(t, server, nil,
			ghosthttp.WithLogger(logger), ghosthttp.WithDebug(true),
			ghosthttp.WithRetryConfig(&ghost.RetryConfig{MaxRetries: 0, BaseDelay: time.Millisecond, Multiplier: 2, MaxDelay: time.Millisecond}))

		_, err := client.Get(context.Background(), "/posts/", url.Values{"token": {"opaque123value"}})
		require.Error(t, err)

		assert.Contains(t, logger.messages("debug"), "HTTP Request Failed")
		assert.NotContains(t, fmt.Sprintf("%v", logger.logs), "opaque123value")
	})

	t.Run("delete not found is success", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		client := newTestClient(t, server, nil)

		resp, err := client.Delete(context.Background(), "/posts/gone/")
		require.NoError(t, err)
		assert.Equal(t, 404, resp.StatusCode)

		_, err = client.Get(context.Background(), "/posts/gone/", nil)
		assert.True(t, ghost.IsNotFound(err))
	})

	t.Run("raw multipart body", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			file, header, err := request.FormFile("file")
			if !assert.NoError(t, err) {
				return
			}

			defer func() { _ = file.Close() }()

			content, _ := io.ReadAll(file)
			assert.Equal(t, "logo.png", header.Filename)
			assert.Equal(t, "image/png", header.Header.Get("Content-Type"))
			assert.Equal(t, pngHeader, content)
			assert.Equal(t, "image", request.FormValue("purpose"))

			writer.WriteHeader(http.StatusCreated)
		}))
		defer server.Close()

		body, contentType, err := ghosthttp.BuildMultipart(ghosthttp.MultipartFile{
			FieldName: "file", FileName: "/tmp/logo.png", Content: bytes.NewReader(pngHeader),
		}, map[string]string{"purpose": "image"})
		require.NoError(t, err)

		client := newTestClient(t, server, nil)

		resp, err := client.Do(context.Background(), &ghosthttp.Request{
			Method: "POST", Path: "/images/upload/", RawBody: body, ContentType: contentType,
		})
		require.NoError(t, err)
		assert.Equal(t, 201, resp.StatusCode)
	})
}

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func TestClient_Methods(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		method string
		fn     func(*ghosthttp.Client, context.Context) (*ghosthttp.Response, error)
	}{
		{
			name:   "GET",
			method: "GET",
			fn: func(c *ghosthttp.Client, ctx context.Context) (*ghosthttp.Response, error) {
				return c.Get(ctx, "/test/", nil)
			},
		},
		{
			name:   "POST",
			method: "POST",
			fn: func(c *ghosthttp.Client, ctx context.Context) (*ghosthttp.Response, error) {
				return c.Post(ctx, "/test/", map[string]string{"key": "value"})
			},
		},
		{
			name:   "PUT",
			method: "PUT",
			fn: func(c *ghosthttp.Client, ctx context.Context) (*ghosthttp.Response, error) {
				return c.Put(ctx, "/test/", map[string]string{"key": "value"})
			},
		},
		{
			name:   "DELETE",
			method: "DELETE",
			fn: func(c *ghosthttp.Client, ctx context.Context) (*ghosthttp.Response, error) {
				return c.Delete(ctx, "/test/")
			},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				assert.Equal(t, testCase.method, request.Method)
				assert.Equal(t, "/ghost/api/admin/test/", request.URL.Path)
				writer.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			client := newTestClient(t, server, nil)
			resp, err := testCase.fn(client, context.Background())
			require.NoError(t, err)
			assert.Equal(t, 200, resp.StatusCode)
		})
	}
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_RetryLogic(t *testing.T) {
	t.Parallel()
	t.Run("retries on 5xx errors", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32

		server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if attempts.Add(1) < 3 {
				writer.WriteHeader(http.StatusInternalServerError)
			} else {
				writer.WriteHeader(http.StatusOK)
			}
		}))
		defer server.Close()

		sleeper := &recordingSleeper{}
		client := newTestClient(t, server, nil, ghosthttp.WithSleeper(sleeper.Sleep))

		resp, err := client.Get(context.Background(), "/test/", nil)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, int32(3), attempts.Load())
		assert.Equal(t, 3, resp.Attempts)
		assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, sleeper.Delays())
	})

	t.Run("retries on rate limiting with retry-after", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32

		server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if attempts.Add(1) < 2 {
				writer.Header().Set("Retry-After", "4")
				writer.WriteHeader(http.StatusTooManyRequests)
			} else {
				writer.WriteHeader(http.StatusOK)
			}
		}))
		defer server.Close()

		sleeper := &recordingSleeper{}
		client := newTestClient(t, server, nil, ghosthttp.WithSleeper(sleeper.Sleep))

		resp, err := client.Get(context.Background(), "/test/", nil)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, int32(2), attempts.Load())
		assert.Equal(t, []time.Duration{4 * time.Second}, sleeper.Delays())
	})

	t.Run("does not retry on client errors", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32

		server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			attempts.Add(1)

			writer.WriteHeader(http.StatusBadRequest)
		}))
		defer server.Close()

		client := newTestClient(t, server, nil)

		resp, err := client.Get(context.Background(), "/test/", nil)
		require.Error(t, err)
		assert.Equal(t, 400, resp.StatusCode)
		assert.Equal(t, int32(1), attempts.Load())

		var validationErr *ghost.ValidationError
		require.ErrorAs(t, err, &validationErr)
	})

	t.Run("opens circuit after three failures", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32

		server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			attempts.Add(1)

			writer.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		client := newTestClient(t, server, nil)

		resp, err := client.Get(context.Background(), "/test/", nil)

		var circuitErr *ghost.CircuitOpenError
		require.ErrorAs(t, err, &circuitErr)
		assert.Equal(t, int32(3), attempts.Load())
		assert.Equal(t, 502, resp.StatusCode)
		assert.Equal(t, int64(1), client.Policy().Stats().CircuitTrips)
	})

	t.Run("network errors are retried", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewTLSServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		client := newTestClient(t, server, nil)
		server.Close()

		_, err := client.Get(context.Background(), "/test/", nil)

		var circuitErr *ghost.CircuitOpenError
		require.ErrorAs(t, err, &circuitErr)

		var netErr *ghost.NetworkError
		require.ErrorAs(t, err, &netErr)
		assert.True(t, netErr.Retryable)
	})
}

func TestClient_AuthenticationRefresh(t *testing.T) {
	t.Parallel()

	t.Run("refreshes once and succeeds", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32

		server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			attempts.Add(1)

			if request.Header.Get("Authorization") != "Bearer refreshed-token-1" {
				writer.WriteHeader(http.StatusUnauthorized)

				return
			}

			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		tokens := &MockTokenManager{token: "stale"}
		client := newTestClient(t, server, tokens)

		_, err := client.Get(context.Background(), "/site/", nil)
		require.NoError(t, err)
		assert.Equal(t, int32(2), attempts.Load())
		assert.Equal(t, 1, tokens.refreshes)
		assert.Equal(t, int64(1), client.Policy().Stats().AuthRefreshes)
	})

	t.Run("fails after one refresh", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32

		server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			attempts.Add(1)
			writer.WriteHeader(http.StatusForbidden)
		}))
		defer server.Close()

		tokens := &MockTokenManager{token: "stale"}
		client := newTestClient(t, server, tokens)

		_, err := client.Get(context.Background(), "/site/", nil)
		require.True(t, ghost.IsAuthentication(err))
		assert.Equal(t, int32(2), attempts.Load())
		assert.Equal(t, 1, tokens.refreshes)
	})
}

func TestNewClient_RequiresHTTPS(t *testing.T) {
	t.Parallel()

	var requests atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		requests.Add(1)
	}))
	defer server.Close()

	_, err := ghosthttp.NewClient(server.URL, &MockTokenManager{token: "t"})
	require.ErrorIs(t, err, ghost.ErrHTTPSRequired)

	var configErr *ghost.ConfigError
	require.ErrorAs(t, err, &configErr)
	assert.Equal(t, "url", configErr.Field)
	assert.Equal(t, int32(0), requests.Load())

	_, err = ghosthttp.NewClient("", nil)
	require.ErrorIs(t, err, ghost.ErrURLRequired)
}

func TestAdminRoot(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"https://blog.example.com":                      "https://blog.example.com/ghost/api/admin",
		"https://blog.example.com/":                     "https://blog.example.com/ghost/api/admin",
		"https://example.com/blog/":                     "https://example.com/blog/ghost/api/admin",
		"https://blog.example.com/ghost/api/admin/":     "https://blog.example.com/ghost/api/admin",
		"HTTPS://blog.example.com:8443/ghost/api/admin": "https://blog.example.com:8443/ghost/api/admin",
	}

	for input, expected := range tests {
		root, err := ghosthttp.AdminRoot(input)
		require.NoError(t, err, input)
		assert.Equal(t, expected, root, input)
	}
}

func TestClient_ObservesRateLimitHeaders(t *testing.T) {
	t.Parallel()

	server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("X-RateLimit-Limit", "100")
		writer.Header().Set("X-RateLimit-Remaining", "50")
		writer.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	tracker := ghost.NewRateLimitTracker(nil)
	client := newTestClient(t, server, nil, ghosthttp.WithRateLimiter(tracker))

	_, err := client.Get(context.Background(), "/site/", nil)
	require.NoError(t, err)

	state := tracker.State()
	assert.True(t, state.Observed)
	assert.Equal(t, 50, state.Remaining)
}

func TestClient_Cache(t *testing.T) {
	t.Parallel()

	var gets atomic.Int32

	server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.Method == http.MethodGet {
			gets.Add(1)
		}

		_, _ = writer.Write([]byte(`{"tags":[]}`))
	}))
	defer server.Close()

	cache := ghost.NewCacheManager(ghost.NewMemoryCache(10), nil)
	client := newTestClient(t, server, nil, ghosthttp.WithCache(cache, nil))

	ctx := context.Background()

	first, err := client.Get(ctx, "/tags/", url.Values{"limit": {"15"}})
	require.NoError(t, err)
	assert.False(t, first.FromCache)

	second, err := client.Get(ctx, "/tags/", url.Values{"limit": {"15"}})
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Equal(t, first.Body, second.Body)
	assert.Equal(t, int32(1), gets.Load())

	_, err = client.Post(ctx, "/tags/", ghost.EncodeOne("tags", map[string]string{"name": "x"}))
	require.NoError(t, err)

	third, err := client.Get(ctx, "/tags/", url.Values{"limit": {"15"}})
	require.NoError(t, err)
	assert.False(t, third.FromCache)
	assert.Equal(t, int32(2), gets.Load())

	assert.Equal(t, int64(1), cache.GetStats().Hits)
}

func TestClient_Interceptors(t *testing.T) {
	t.Parallel()

	server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "on", request.Header.Get("X-Trace"))
		writer.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	collector := ghost.NewMetricsCollector()
	chain := ghost.NewInterceptorChain().WithMetrics(collector)
	chain.AddRequestInterceptor(ghost.HeaderInterceptor(map[string]string{"X-Trace": "on"}))

	var seenAuth []string

	chain.AddRequestInterceptor(func(_ context.Context, req *ghost.Request) error {
		seenAuth = append(seenAuth, req.Headers.Get("Authorization"))

		return nil
	})

	client := newTestClient(t, server, &MockTokenManager{token: "secret"}, ghosthttp.WithInterceptors(chain))

	_, err := client.Get(context.Background(), "/site/", nil)
	require.NoError(t, err)

	assert.Equal(t, []string{""}, seenAuth)

	metrics := collector.GetMetrics("GET /site/")
	require.NotNil(t, metrics)
	assert.Equal(t, int64(1), metrics.TotalRequests)
}

func TestDetectContentType(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "image/png", ghosthttp.DetectContentType("a.png", pngHeader))
	assert.Equal(t, "image/svg+xml", ghosthttp.DetectContentType("icon.svg", []byte("not really svg")))
	assert.True(t, strings.HasPrefix(ghosthttp.DetectContentType("notes.txt", []byte("hello")), "text/plain"))
}
