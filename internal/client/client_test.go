package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/ghostctl/internal/auth"
	. "github.com/fivetwenty-io/ghostctl/internal/client"
	"github.com/fivetwenty-io/ghostctl/pkg/ghost"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		config  *ghost.Config
		check   func(t *testing.T, err error)
		wantErr bool
	}{
		{
			name:    "nil config",
			config:  nil,
			wantErr: true,
			check: func(t *testing.T, err error) {
				t.Helper()
				require.ErrorIs(t, err, ghost.ErrConfigRequired)
			},
		},
		{
			name:    "missing admin key",
			config:  &ghost.Config{URL: "https://blog.example.com"},
			wantErr: true,
			check: func(t *testing.T, err error) {
				t.Helper()
				require.ErrorIs(t, err, ghost.ErrAdminKeyRequired)
			},
		},
		{
			name:    "malformed admin key",
			config:  &ghost.Config{URL: "https://blog.example.com", AdminKey: "no-separator"},
			wantErr: true,
			check: func(t *testing.T, err error) {
				t.Helper()
				assert.True(t, ghost.IsCredentialFormat(err))
			},
		},
		{
			name:    "non hex secret",
			config:  &ghost.Config{URL: "https://blog.example.com", AdminKey: testKeyID + ":zzzz"},
			wantErr: true,
			check: func(t *testing.T, err error) {
				t.Helper()
				assert.True(t, ghost.IsCredentialFormat(err))
				assert.NotContains(t, err.Error(), "zzzz")
			},
		},
		{
			name:    "plain http refused",
			config:  &ghost.Config{URL: "http://blog.example.com", AdminKey: testKey},
			wantErr: true,
			check: func(t *testing.T, err error) {
				t.Helper()
				require.ErrorIs(t, err, ghost.ErrHTTPSRequired)
			},
		},
		{
			name:    "unknown cache type",
			config:  &ghost.Config{URL: "https://blog.example.com", AdminKey: testKey, Cache: &ghost.CacheConfig{Type: "memcached"}},
			wantErr: true,
			check: func(t *testing.T, err error) {
				t.Helper()

				var configErr *ghost.ConfigError

				require.ErrorAs(t, err, &configErr)
				assert.Equal(t, "cache", configErr.Field)
			},
		},
		{
			name:   "valid config",
			config: &ghost.Config{URL: "https://blog.example.com/", AdminKey: testKey},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client, err := New(context.Background(), tt.config)

			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, client)

				if tt.check != nil {
					tt.check(t, err)
				}

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "https://blog.example.com/ghost/api/admin", client.APIRoot())
		})
	}
}

func TestNew_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(ctx, &ghost.Config{URL: "https://blog.example.com", AdminKey: testKey})
	require.ErrorIs(t, err, context.Canceled)
}

func TestClient_SignsRequestsWithAdminToken(t *testing.T) {
	t.Parallel()

	credential, err := auth.ParseCredential(testKey)
	require.NoError(t, err)

	server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		scheme, token, found := strings.Cut(request.Header.Get("Authorization"), " ")
		assert.True(t, found)
		assert.Equal(t, "Bearer", scheme)

		claims, err := auth.Verify(token, credential, time.Now())
		if assert.NoError(t, err) {
			assert.Equal(t, testKeyID, claims.KeyID)
			assert.Equal(t, []string{"/admin/"}, claims.Audience)
			assert.Equal(t, 5*time.Minute, claims.ExpiresAt.Sub(claims.IssuedAt))
		}

		assert.Equal(t, "v5.0", request.Header.Get("Accept-Version"))

		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{"site":{"title":"My Blog","url":"https://blog.example.com/","version":"5.82"}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)

	require.NoError(t, client.Ping(context.Background()))
	require.NoError(t, client.Ping(context.Background()))

	stats := client.Stats()
	assert.Equal(t, int64(1), stats.Token.Generations, "the token is reused while fresh")
	assert.Equal(t, int64(2), stats.Retry.Calls)
	assert.Equal(t, int64(2), stats.Retry.Successes)

	site := stats.Endpoints["GET /site/"]
	require.NotNil(t, site)
	assert.Equal(t, int64(2), site.TotalRequests)
}

func TestClient_PingFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writeError(writer, http.StatusUnauthorized, "UnauthorizedError", "Invalid token")
	}))
	defer server.Close()

	client := newTestClient(t, server)

	err := client.Ping(context.Background())
	require.Error(t, err)
	assert.True(t, ghost.IsAuthentication(err))
	assert.Contains(t, err.Error(), "pinging")
	assert.Equal(t, int64(1), client.Stats().Retry.AuthRefreshes)
}

func TestClient_ResponseCache(t *testing.T) {
	t.Parallel()

	var requests atomic.Int32

	server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		requests.Add(1)

		if request.Method == http.MethodPost {
			writeEnvelope(writer, http.StatusCreated, "tags", map[string]string{"id": "new", "name": "New"})

			return
		}

		writeEnvelope(writer, http.StatusOK, "tags", map[string]string{"id": "tag-guid", "name": "News"})
	}))
	defer server.Close()

	client := newTestClient(t, server, func(config *ghost.Config) {
		config.Cache = &ghost.CacheConfig{Type: ghost.CacheTypeMemory}
	})
	defer func() { _ = client.Close() }()

	ctx := context.Background()

	for range 3 {
		_, err := client.Tags().Get(ctx, "tag-guid", nil)
		require.NoError(t, err)
	}

	assert.Equal(t, int32(1), requests.Load())

	_, err := client.Tags().Create(ctx, &ghost.TagCreateRequest{Name: "New"})
	require.NoError(t, err)

	_, err = client.Tags().Get(ctx, "tag-guid", nil)
	require.NoError(t, err)
	assert.Equal(t, int32(3), requests.Load(), "a write invalidates cached tag reads")

	stats := client.Stats()
	require.NotNil(t, stats.Cache)
	assert.Equal(t, int64(2), stats.Cache.Hits)
}

func TestClient_RetriesServerErrors(t *testing.T) {
	t.Parallel()

	var requests atomic.Int32

	server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		if requests.Add(1) <= 2 {
			writeError(writer, http.StatusServiceUnavailable, "InternalServerError", "Try again")

			return
		}

		writeEnvelope(writer, http.StatusOK, "posts", postJSON("post-guid", "Welcome", "draft"))
	}))
	defer server.Close()

	client := newTestClient(t, server)

	post, err := client.Posts().Get(context.Background(), "post-guid", nil)
	require.NoError(t, err)
	assert.Equal(t, "post-guid", post.ID)
	assert.Equal(t, int32(3), requests.Load())
	assert.Equal(t, int64(2), client.Stats().Retry.Retries)
}

func TestClient_ImplementsInterface(t *testing.T) {
	t.Parallel()

	client, err := New(context.Background(), &ghost.Config{URL: "https://blog.example.com", AdminKey: testKey})
	require.NoError(t, err)

	var _ ghost.Client = client

	assert.NotNil(t, client.Posts())
	assert.NotNil(t, client.Pages())
	assert.NotNil(t, client.Tags())
	assert.NotNil(t, client.Images())
	assert.NotNil(t, client.Members())
	assert.NotNil(t, client.Tiers())
	assert.NotNil(t, client.Newsletters())
	assert.NotNil(t, client.Offers())
	assert.NotNil(t, client.Users())
	assert.NotNil(t, client.Webhooks())
	assert.NotNil(t, client.Themes())
	assert.NotNil(t, client.Site())
	assert.NotNil(t, client.Settings())
	assert.NotNil(t, client.GetTokenManager())
	assert.NoError(t, client.Close())
}

func TestClient_RateLimiterSource(t *testing.T) {
	t.Parallel()

	tracker := ghost.NewRateLimitTracker(nil)

	client, err := New(context.Background(), &ghost.Config{
		URL:         "https://blog.example.com",
		AdminKey:    testKey,
		RateLimiter: tracker,
	})
	require.NoError(t, err)

	var source ghost.RateLimitSource = client

	assert.Same(t, tracker, source.RateLimiter())
}
