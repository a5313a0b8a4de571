package client_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/fivetwenty-io/ghostctl/internal/client"
	"github.com/fivetwenty-io/ghostctl/pkg/ghost"
)

func newExportServer(t *testing.T, postRequests *atomic.Int32) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc(adminRoot+"/site/", func(writer http.ResponseWriter, _ *http.Request) {
		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{"site":{"title":"My Blog","url":"https://blog.example.com/","version":"5.82"}}`))
	})
	mux.HandleFunc(adminRoot+"/posts/", func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "html,lexical", request.URL.Query().Get("formats"))
		collectionHandler(t, "posts", 30, postRequests)(writer, request)
	})
	mux.HandleFunc(adminRoot+"/pages/", collectionHandler(t, "pages", 3, new(atomic.Int32)))
	mux.HandleFunc(adminRoot+"/tags/", collectionHandler(t, "tags", 2, new(atomic.Int32)))

	return httptest.NewTLSServer(mux)
}

func TestExporter_Export(t *testing.T) {
	t.Parallel()

	var postRequests atomic.Int32

	server := newExportServer(t, &postRequests)
	defer server.Close()

	client := newTestClient(t, server)

	exporter := NewExporter(client, "1.2.3")
	exporter.SetPageSize(10)

	doc, err := exporter.Export(context.Background(), ExportContent)
	require.NoError(t, err)

	assert.Equal(t, "1.2.3", doc.Meta.Version)
	assert.Equal(t, "5.82", doc.Meta.GhostVersion)
	assert.Equal(t, ExportContent, doc.Meta.Scope)
	assert.False(t, doc.Meta.ExportedOn.IsZero())
	assert.Equal(t, map[string]int{"posts": 30, "pages": 3, "tags": 2}, doc.Counts())
	assert.Equal(t, int32(3), postRequests.Load())
}

func TestExporter_SiteUnavailable(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc(adminRoot+"/site/", func(writer http.ResponseWriter, _ *http.Request) {
		writeError(writer, http.StatusForbidden, "NoPermissionError", "You do not have permission to read the site")
	})
	mux.HandleFunc(adminRoot+"/posts/", collectionHandler(t, "posts", 2, new(atomic.Int32)))

	server := httptest.NewTLSServer(mux)
	defer server.Close()

	client := newTestClient(t, server)

	doc, err := NewExporter(client, "dev").Export(context.Background(), ExportPosts)
	require.NoError(t, err)

	assert.Empty(t, doc.Meta.GhostVersion)
	require.Len(t, doc.Meta.Warnings, 1)
	assert.Contains(t, doc.Meta.Warnings[0], "ghost version unavailable")
	assert.Equal(t, map[string]int{"posts": 2}, doc.Counts())
}

func TestExporter_UnknownScope(t *testing.T) {
	t.Parallel()

	server := httptest.NewTLSServer(http.NotFoundHandler())
	defer server.Close()

	client := newTestClient(t, server)

	_, err := NewExporter(client, "dev").Export(context.Background(), "everything")
	require.ErrorIs(t, err, ErrUnknownExportScope)
}

func TestExporter_FailedCollection(t *testing.T) {
	t.Parallel()

	server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writeError(writer, http.StatusForbidden, "NoPermissionError", "You do not have permission to browse members")
	}))
	defer server.Close()

	client := newTestClient(t, server)

	_, err := NewExporter(client, "dev").Export(context.Background(), ExportMembers)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exporting members")
	assert.True(t, ghost.IsAuthentication(err))
}

func TestWriteExport_RoundTrip(t *testing.T) {
	t.Parallel()

	doc := &ExportDocument{
		Meta: ExportMeta{Version: "1.2.3", Scope: ExportPosts},
		Data: map[string]interface{}{
			"posts": []ghost.Post{{Title: "Fish & Chips", HTML: "<p>Hi</p>"}},
		},
	}

	for _, compress := range []bool{false, true} {
		var buf bytes.Buffer

		require.NoError(t, WriteExport(&buf, doc, compress))

		if compress {
			assert.Equal(t, []byte{0x1f, 0x8b}, buf.Bytes()[:2])
		} else {
			assert.Contains(t, buf.String(), "Fish & Chips")
		}

		meta, data, err := ReadExport(&buf)
		require.NoError(t, err)
		assert.Equal(t, "1.2.3", meta.Version)
		assert.Equal(t, ExportPosts, meta.Scope)

		var posts []ghost.Post

		require.NoError(t, json.Unmarshal(data["posts"], &posts))
		require.Len(t, posts, 1)
		assert.Equal(t, "<p>Hi</p>", posts[0].HTML)
	}
}

func TestReadExport_Invalid(t *testing.T) {
	t.Parallel()

	_, _, err := ReadExport(bytes.NewReader([]byte("not json")))
	require.Error(t, err)

	_, _, err = ReadExport(bytes.NewReader([]byte{0x1f, 0x8b, 0x00, 0x01}))
	require.Error(t, err)
}
