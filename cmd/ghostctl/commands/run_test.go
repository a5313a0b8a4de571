package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adminclient "github.com/fivetwenty-io/ghostctl/internal/client"
	"github.com/fivetwenty-io/ghostctl/internal/constants"
	"github.com/fivetwenty-io/ghostctl/pkg/ghost"
	"github.com/fivetwenty-io/ghostctl/pkg/ghostclient"
)

const adminRoot = "/ghost/api/admin"

// useTestServer points the command layer at server through the same viper keys the global flags bind.
// Tests using it mutate package state and must not run in parallel.
func useTestServer(t *testing.T, server *httptest.Server) {
	t.Helper()

	original := clientFactory
	clientFactory = func(ctx context.Context, config *ghost.Config) (ghost.Client, error) {
		config.HTTPClient = server.Client()
		config.Retry = &ghost.RetryConfig{MaxRetries: 0, BaseDelay: time.Millisecond, Multiplier: 2, MaxDelay: time.Millisecond}

		return ghostclient.New(ctx, config)
	}

	viper.Set("config", filepath.Join(t.TempDir(), "config.toml"))
	viper.Set("api_url", server.URL)
	viper.Set("admin_api_key", testKey)

	t.Cleanup(func() {
		clientFactory = original

		viper.Reset()
	})
}

func runCommand(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(body)
}

func onePage(key string, items ...interface{}) map[string]interface{} {
	return map[string]interface{}{
		key: items,
		"meta": map[string]interface{}{
			"pagination": map[string]interface{}{"page": 1, "limit": 15, "pages": 1, "total": len(items), "next": nil, "prev": nil},
		},
	}
}

func TestSiteInfoCommand(t *testing.T) {
	var authorization atomic.Value

	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, adminRoot+"/site/", r.URL.Path)
		authorization.Store(r.Header.Get("Authorization"))

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"site": map[string]interface{}{"title": "Field Notes", "url": "https://notes.example.com", "version": "5.96"},
		})
	}))
	defer server.Close()

	useTestServer(t, server)
	viper.Set("output", "json")

	out, err := runCommand(t, NewSiteCommand(), "info")
	require.NoError(t, err)

	var site ghost.Site
	require.NoError(t, json.Unmarshal([]byte(out), &site))
	assert.Equal(t, "Field Notes", site.Title)
	assert.Equal(t, "5.96", site.Version)

	header, _ := authorization.Load().(string)
	assert.True(t, strings.HasPrefix(header, "Bearer "), header)
	assert.NotContains(t, out, testSecret)
}

func TestTagsListCommand(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, adminRoot+"/tags/", r.URL.Path)
		assert.Equal(t, "15", r.URL.Query().Get("limit"))
		assert.Equal(t, "visibility:public", r.URL.Query().Get("filter"))

		writeJSON(w, http.StatusOK, onePage("tags",
			map[string]interface{}{"id": "t1", "name": "News", "slug": "news", "visibility": "public"},
			map[string]interface{}{"id": "t2", "name": "Guides", "slug": "guides", "visibility": "public"},
		))
	}))
	defer server.Close()

	useTestServer(t, server)

	out, err := runCommand(t, NewTagsCommand(), "list", "--filter", "visibility:public")
	require.NoError(t, err)
	assert.Contains(t, out, "News")
	assert.Contains(t, out, "guides")
}

func TestPostsCreateDryRun(t *testing.T) {
	var requests atomic.Int32

	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	useTestServer(t, server)
	viper.Set("dry_run", true)

	out, err := runCommand(t, NewPostsCommand(), "create", "--title", "Launch notes", "--tag", "news", "--status", "draft")
	require.NoError(t, err)
	assert.Contains(t, out, "Would create post with:")
	assert.Contains(t, out, `"title": "Launch notes"`)
	assert.Equal(t, int32(0), requests.Load())
}

func TestPostsPublishSendsUpdatedAt(t *testing.T) {
	const updatedAt = "2026-03-01T10:00:00.000Z"

	var body map[string][]map[string]interface{}

	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		post := map[string]interface{}{"id": "p1", "title": "Hello", "slug": "hello", "status": "draft", "updated_at": updatedAt}

		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, map[string]interface{}{"posts": []interface{}{post}})
		case http.MethodPut:
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))

			post["status"] = "published"
			writeJSON(w, http.StatusOK, map[string]interface{}{"posts": []interface{}{post}})
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	defer server.Close()

	useTestServer(t, server)

	out, err := runCommand(t, NewPostsCommand(), "publish", "p1")
	require.NoError(t, err)
	assert.Contains(t, out, "published")

	require.Len(t, body["posts"], 1)
	assert.Equal(t, "published", body["posts"][0]["status"])

	sent, err := time.Parse(time.RFC3339, body["posts"][0]["updated_at"].(string))
	require.NoError(t, err)
	assert.True(t, sent.Equal(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)))
}

func TestSettingsSetCommand(t *testing.T) {
	var body struct {
		Settings []ghost.Setting `json:"settings"`
	}

	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, adminRoot+"/settings/", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		writeJSON(w, http.StatusOK, map[string]interface{}{"settings": body.Settings})
	}))
	defer server.Close()

	useTestServer(t, server)

	out, err := runCommand(t, NewSettingsCommand(), "set", "title=Field Notes", "is_private=false")
	require.NoError(t, err)
	assert.Contains(t, out, "Field Notes")

	require.Len(t, body.Settings, 2)
	assert.Equal(t, ghost.Setting{Key: "title", Value: "Field Notes"}, body.Settings[0])
	assert.Equal(t, ghost.Setting{Key: "is_private", Value: false}, body.Settings[1])
}

func TestExportCommandWritesGzipFile(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case adminRoot + "/site/":
			writeJSON(w, http.StatusOK, map[string]interface{}{"site": map[string]interface{}{"title": "Blog", "version": "5.96"}})
		case adminRoot + "/members/":
			assert.Equal(t, "100", r.URL.Query().Get("limit"))

			writeJSON(w, http.StatusOK, onePage("members",
				map[string]interface{}{"id": "m1", "email": "ada@example.com", "status": "free"},
				map[string]interface{}{"id": "m2", "email": "grace@example.com", "status": "paid"},
			))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	useTestServer(t, server)

	path := filepath.Join(t.TempDir(), "members.json.gz")

	out, err := runCommand(t, NewExportCommand("1.4.0"), "members", "--file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported members to "+path)

	file, err := os.Open(path)
	require.NoError(t, err)

	defer func() { _ = file.Close() }()

	meta, data, err := adminclient.ReadExport(file)
	require.NoError(t, err)
	assert.Equal(t, "1.4.0", meta.Version)
	assert.Equal(t, "5.96", meta.GhostVersion)
	assert.Equal(t, "members", meta.Scope)

	var members []ghost.Member
	require.NoError(t, json.Unmarshal(data["members"], &members))
	require.Len(t, members, 2)
	assert.Equal(t, "grace@example.com", members[1].Email)
}

func TestConfigShowMasksAdminKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	profile := NewProfile()
	profile.APIURL = "https://blog.example.com"
	profile.AdminAPIKey = testKey

	require.NoError(t, writeConfigFile(path, &Config{DefaultProfile: "prod", Profiles: map[string]*Profile{"prod": profile}}))

	viper.Set("config", path)
	t.Cleanup(viper.Reset)

	out, err := runCommand(t, NewConfigCommand(), "show")
	require.NoError(t, err)
	assert.Contains(t, out, testKeyID+":"+Masked)
	assert.NotContains(t, out, testSecret)
}

func TestResolveSettingsOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	profile := NewProfile()
	profile.APIURL = "https://blog.example.com"
	profile.AdminAPIKey = testKey

	require.NoError(t, writeConfigFile(path, &Config{Profiles: map[string]*Profile{"default": profile}}))

	viper.Set("config", path)
	viper.Set("api_url", "https://staging.example.com")
	viper.Set("timeout", 5)
	t.Cleanup(viper.Reset)

	settings, err := resolveSettings()
	require.NoError(t, err)
	assert.Equal(t, "https://staging.example.com", settings.APIURL)
	assert.Equal(t, 5, settings.Timeout)
	assert.Equal(t, testKey, settings.AdminAPIKey)

	viper.Set("profile", "missing")

	_, err = resolveSettings()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "profile not found")
}

func TestTokenGenerateNeverPrintsSignature(t *testing.T) {
	viper.Set("config", filepath.Join(t.TempDir(), "config.toml"))
	viper.Set("api_url", "https://blog.example.com")
	viper.Set("admin_api_key", testKey)
	viper.Set("output", "json")
	t.Cleanup(viper.Reset)

	out, err := runCommand(t, NewTokenCommand(), "generate")
	require.NoError(t, err)

	var info tokenInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, testKeyID, info.KeyID)
	assert.True(t, info.Verified)
	assert.Equal(t, 5*time.Minute, info.ExpiresAt.Sub(info.IssuedAt))
	assert.NotContains(t, out, testSecret)
	assert.Equal(t, constants.RedactedValue, info.Signature)
}

func TestRequestsPerSecondThrottlesPages(t *testing.T) {
	var requests atomic.Int32

	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)

		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page < 1 {
			page = 1
		}

		var next interface{}
		if page < 3 {
			next = page + 1
		}

		id := strconv.Itoa(page)

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"tags": []interface{}{map[string]interface{}{"id": "t" + id, "name": "Tag " + id, "slug": "tag-" + id}},
			"meta": map[string]interface{}{
				"pagination": map[string]interface{}{"page": page, "limit": 1, "pages": 3, "total": 3, "next": next, "prev": nil},
			},
		})
	}))
	defer server.Close()

	useTestServer(t, server)
	viper.Set("requests_per_second", 10.0)

	settings, err := resolveSettings()
	require.NoError(t, err)
	assert.InDelta(t, 10.0, settings.RequestsPerSecond, 0.001)

	start := time.Now()

	out, err := runCommand(t, NewTagsCommand(), "list", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "tag-3")
	assert.Equal(t, int32(3), requests.Load())

	// three attempts at 10/s: the second and third wait 100ms each
	assert.GreaterOrEqual(t, time.Since(start), 180*time.Millisecond)
}

type countingObserver struct {
	advised atomic.Int32
}

func (o *countingObserver) Observe(http.Header) {}

func (o *countingObserver) Advise() time.Duration {
	o.advised.Add(1)

	return 0
}

func (o *countingObserver) State() ghost.RateLimitState { return ghost.RateLimitState{} }

type observedClient struct {
	ghost.Client

	observer ghost.RateLimitObserver
}

func (c observedClient) RateLimiter() ghost.RateLimitObserver { return c.observer }

func TestTagsBulkUpdateCommand(t *testing.T) {
	const updatedAt = "2026-04-02T08:30:00.000Z"

	var (
		mu      sync.Mutex
		updates = map[string]map[string]interface{}{}
	)

	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			assert.Equal(t, adminRoot+"/tags/", r.URL.Path)
			assert.Equal(t, "visibility:internal", r.URL.Query().Get("filter"))

			writeJSON(w, http.StatusOK, onePage("tags",
				map[string]interface{}{"id": "t1", "name": "News", "updated_at": updatedAt},
				map[string]interface{}{"id": "t2", "name": "Guides", "updated_at": updatedAt},
			))
		case http.MethodPut:
			var body map[string][]map[string]interface{}
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))

			id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, adminRoot+"/tags/"), "/")

			mu.Lock()
			updates[id] = body["tags"][0]
			mu.Unlock()

			writeJSON(w, http.StatusOK, map[string]interface{}{
				"tags": []interface{}{map[string]interface{}{"id": id, "name": "updated", "updated_at": updatedAt}},
			})
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	defer server.Close()

	useTestServer(t, server)

	observer := &countingObserver{}
	build := clientFactory
	clientFactory = func(ctx context.Context, config *ghost.Config) (ghost.Client, error) {
		client, err := build(ctx, config)
		if err != nil {
			return nil, err
		}

		return observedClient{Client: client, observer: observer}, nil
	}

	out, err := runCommand(t, NewTagsCommand(), "bulk-update",
		"--filter", "visibility:internal",
		"--visibility", "public",
		"--meta-title-template", "{name} - Field Notes",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "2 succeeded, 0 failed")

	require.Len(t, updates, 2)
	assert.Equal(t, "public", updates["t1"]["visibility"])
	assert.Equal(t, "News - Field Notes", updates["t1"]["meta_title"])
	assert.Equal(t, "Guides - Field Notes", updates["t2"]["meta_title"])
	assert.NotEmpty(t, updates["t2"]["updated_at"])

	assert.Equal(t, int32(2), observer.advised.Load())
}

func TestTagsBulkUpdateDryRun(t *testing.T) {
	var writes atomic.Int32

	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writes.Add(1)
		}

		writeJSON(w, http.StatusOK, onePage("tags",
			map[string]interface{}{"id": "t1", "name": "News", "updated_at": "2026-04-02T08:30:00.000Z"},
		))
	}))
	defer server.Close()

	useTestServer(t, server)
	viper.Set("dry_run", true)

	out, err := runCommand(t, NewTagsCommand(), "bulk-update", "--filter", "name:News", "--accent-color", "#0066cc")
	require.NoError(t, err)
	assert.Contains(t, out, "Would update 1 tags:")
	assert.Contains(t, out, "t1  News")
	assert.Equal(t, int32(0), writes.Load())

	_, err = runCommand(t, NewTagsCommand(), "bulk-update", "--filter", "name:News")
	require.ErrorIs(t, err, constants.ErrNothingToUpdate)
}
