package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/fivetwenty-io/ghostctl/internal/client"
	"github.com/fivetwenty-io/ghostctl/pkg/ghost"
)

const (
	testKeyID  = "6489b1f8c9a0e5001a2b3c4d"
	testSecret = "8b2f1c9e4a7d3b6f0e5c2a9d8b7f6e1c3a4d5b6c7e8f9a0b1c2d3e4f5a6b7c8d"
	testKey    = testKeyID + ":" + testSecret
	adminRoot  = "/ghost/api/admin"
)

// fastRetry keeps retry tests quick while preserving the attempt counts.
func fastRetry() *ghost.RetryConfig {
	return &ghost.RetryConfig{
		MaxRetries:              5,
		BaseDelay:               time.Millisecond,
		Multiplier:              2,
		MaxDelay:                5 * time.Millisecond,
		CircuitBreakerThreshold: 3,
	}
}

// newTestClient creates a client talking to a TLS test server.
func newTestClient(t *testing.T, server *httptest.Server, configure ...func(*ghost.Config)) *Client {
	t.Helper()

	config := &ghost.Config{
		URL:        server.URL,
		AdminKey:   testKey,
		HTTPClient: server.Client(),
		Retry:      fastRetry(),
	}

	for _, fn := range configure {
		fn(config)
	}

	client, err := New(context.Background(), config)
	require.NoError(t, err)

	return client
}

// writeEnvelope writes {"<key>": items} with the given status.
func writeEnvelope(writer http.ResponseWriter, status int, key string, items ...interface{}) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)

	if items == nil {
		items = []interface{}{}
	}

	_ = json.NewEncoder(writer).Encode(map[string]interface{}{key: items})
}

// writeError writes a Ghost error envelope.
func writeError(writer http.ResponseWriter, status int, errType, message string) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)

	_ = json.NewEncoder(writer).Encode(map[string]interface{}{
		"errors": []map[string]interface{}{{"type": errType, "message": message}},
	})
}

// collectionHandler serves total numbered records in pages, like the admin API does.
func collectionHandler(t *testing.T, key string, total int, requests *atomic.Int32) http.HandlerFunc {
	t.Helper()

	return func(writer http.ResponseWriter, request *http.Request) {
		requests.Add(1)

		limit, err := strconv.Atoi(request.URL.Query().Get("limit"))
		if err != nil || limit <= 0 {
			limit = 15
		}

		page, err := strconv.Atoi(request.URL.Query().Get("page"))
		if err != nil || page <= 0 {
			page = 1
		}

		pages := (total + limit - 1) / limit

		var items []map[string]interface{}

		for i := (page-1)*limit + 1; i <= min(page*limit, total); i++ {
			items = append(items, map[string]interface{}{
				"id":         strconv.Itoa(i),
				"title":      "Record " + strconv.Itoa(i),
				"name":       "Record " + strconv.Itoa(i),
				"email":      "member" + strconv.Itoa(i) + "@example.com",
				"updated_at": "2025-01-01T00:00:00.000Z",
			})
		}

		var next interface{}
		if page < pages {
			next = page + 1
		}

		writer.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(writer).Encode(map[string]interface{}{
			key: items,
			"meta": map[string]interface{}{
				"pagination": map[string]interface{}{
					"page": page, "limit": limit, "pages": pages, "total": total, "next": next, "prev": nil,
				},
			},
		})
	}
}

// TestGetOperation represents a generic get operation test case.
type TestGetOperation[TResponse any] struct {
	Name         string
	ID           string
	ExpectedPath string
	StatusCode   int
	Response     interface{}
	WantErr      bool
	ErrMessage   string
	Check        func(t *testing.T, result *TResponse)
}

// RunGetTests runs a series of get operation tests.
func RunGetTests[TResponse any](
	t *testing.T,
	tests []TestGetOperation[TResponse],
	getFunc func(*Client) func(context.Context, string) (*TResponse, error),
) {
	t.Helper()

	for _, testCase := range tests {
		t.Run(testCase.Name, func(t *testing.T) {
			t.Parallel()

			var requests atomic.Int32
			server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				requests.Add(1)

				assert.Equal(t, adminRoot+testCase.ExpectedPath, request.URL.Path)
				assert.Equal(t, http.MethodGet, request.Method)

				writer.Header().Set("Content-Type", "application/json")
				writer.WriteHeader(testCase.StatusCode)
				_ = json.NewEncoder(writer).Encode(testCase.Response)
			}))
			defer server.Close()

			client := newTestClient(t, server)

			result, err := getFunc(client)(context.Background(), testCase.ID)

			if testCase.WantErr {
				require.Error(t, err)

				if testCase.ErrMessage != "" {
					assert.Contains(t, err.Error(), testCase.ErrMessage)
				}

				assert.Nil(t, result)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, result)
			assert.Equal(t, int32(1), requests.Load())

			if testCase.Check != nil {
				testCase.Check(t, result)
			}
		})
	}
}

// TestCreateOperation represents a generic create operation test case.
type TestCreateOperation[TRequest, TResponse any] struct {
	Name         string
	Request      *TRequest
	ExpectedPath string
	StatusCode   int
	Response     interface{}
	WantErr      bool
	ErrMessage   string
	// WantRequest is false when local validation must stop the call.
	WantRequest bool
}

// RunCreateTests runs a series of create operation tests. The server checks the
// {"<key>": [body]} envelope of every request it receives.
func RunCreateTests[TRequest, TResponse any](
	t *testing.T,
	key string,
	tests []TestCreateOperation[TRequest, TResponse],
	createFunc func(*Client) func(context.Context, *TRequest) (*TResponse, error),
) {
	t.Helper()

	for _, testCase := range tests {
		t.Run(testCase.Name, func(t *testing.T) {
			t.Parallel()

			var requests atomic.Int32
			server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				requests.Add(1)

				assert.Equal(t, adminRoot+testCase.ExpectedPath, request.URL.Path)
				assert.Equal(t, http.MethodPost, request.Method)

				var envelope map[string][]json.RawMessage

				assert.NoError(t, json.NewDecoder(request.Body).Decode(&envelope))
				assert.Len(t, envelope[key], 1)

				writer.Header().Set("Content-Type", "application/json")
				writer.WriteHeader(testCase.StatusCode)
				_ = json.NewEncoder(writer).Encode(testCase.Response)
			}))
			defer server.Close()

			client := newTestClient(t, server)

			result, err := createFunc(client)(context.Background(), testCase.Request)

			expectedRequests := int32(0)
			if testCase.WantRequest {
				expectedRequests = 1
			}

			assert.Equal(t, expectedRequests, requests.Load())

			if testCase.WantErr {
				require.Error(t, err)

				if testCase.ErrMessage != "" {
					assert.Contains(t, err.Error(), testCase.ErrMessage)
				}

				assert.Nil(t, result)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, result)
		})
	}
}

func ptr[T any](value T) *T {
	return &value
}
