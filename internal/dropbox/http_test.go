package dropbox

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler, opts ...ClientOption) *HTTPClient {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	opts = append([]ClientOption{WithEndpoints(srv.URL, srv.URL)}, opts...)
	return NewHTTPClient("test-token", opts...)
}

func TestHTTPClient_GetMetadata(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2/files/get_metadata", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		var arg struct {
			Path string `json:"path"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&arg))
		assert.Equal(t, "/foo.txt", arg.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{".tag": "file", "name": "foo.txt", "path_display": "/foo.txt", "size": 11, "server_modified": "2025-05-12T15:50:38Z"}`))
	}))

	meta, err := client.GetMetadata(context.Background(), "/foo.txt")
	require.NoError(t, err)
	assert.Equal(t, TagFile, meta.Tag)
	assert.Equal(t, "foo.txt", meta.Name)
	assert.Equal(t, uint64(11), meta.Size)
	assert.False(t, meta.ServerModified.IsZero())
}

func TestHTTPClient_GetMetadata_NotFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error_summary": "path/not_found/..", "error": {".tag": "path", "path": {".tag": "not_found"}}}`))
	}))

	_, err := client.GetMetadata(context.Background(), "/missing")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "not_found", apiErr.Value.Leaf().Tag)
}

func TestHTTPClient_Download(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2/files/download", r.URL.Path)
		assert.JSONEq(t, `{"path": "/foo.txt"}`, r.Header.Get("Dropbox-API-Arg"))

		w.Header().Set("Dropbox-API-Result", `{"name": "foo.txt", "path_display": "/foo.txt", "size": 5}`)
		_, _ = w.Write([]byte("hello"))
	}))

	data, meta, err := client.Download(context.Background(), "/foo.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)
	require.NotNil(t, meta)
	assert.Equal(t, uint64(5), meta.Size)
}

func TestHTTPClient_Upload(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2/files/upload", r.URL.Path)

		var arg struct {
			Path string `json:"path"`
			Mode string `json:"mode"`
			Mute bool   `json:"mute"`
		}
		require.NoError(t, json.Unmarshal([]byte(r.Header.Get("Dropbox-API-Arg")), &arg))
		assert.Equal(t, "/foo.txt", arg.Path)
		assert.Equal(t, "overwrite", arg.Mode)
		assert.True(t, arg.Mute)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, []byte("payload"), body)

		_, _ = w.Write([]byte(`{"name": "foo.txt", "path_display": "/foo.txt", "size": 7}`))
	}))

	meta, err := client.Upload(context.Background(), "/foo.txt", []byte("payload"), WriteModeOverwrite)
	require.NoError(t, err)
	require.NotNil(t, meta)
	assert.Equal(t, uint64(7), meta.Size)
}

func TestHTTPClient_RetriesTransientStatus(t *testing.T) {
	attempts := 0
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"entries": [], "cursor": "", "has_more": false}`))
	}), WithRetries(3))

	res, err := client.ListFolder(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, res.Entries)
	assert.Equal(t, 3, attempts)
}

func TestHTTPClient_DoesNotRetryAPIErrors(t *testing.T) {
	attempts := 0
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error_summary": "path/conflict/folder/..", "error": {".tag": "path", "path": {".tag": "conflict"}}}`))
	}), WithRetries(5))

	_, err := client.CreateFolder(context.Background(), "/x")
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestHTTPClient_Move(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2/files/move_v2", r.URL.Path)

		var arg struct {
			FromPath string `json:"from_path"`
			ToPath   string `json:"to_path"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&arg))
		assert.Equal(t, "/a", arg.FromPath)
		assert.Equal(t, "/b", arg.ToPath)

		_, _ = w.Write([]byte(`{"metadata": {".tag": "file", "name": "b", "path_display": "/b"}}`))
	}))

	meta, err := client.Move(context.Background(), "/a", "/b")
	require.NoError(t, err)
	assert.Equal(t, "/b", meta.PathDisplay)
}

func TestHeaderSafeJSON(t *testing.T) {
	got, err := headerSafeJSON(pathArg{Path: "/café/\U0001f4c1"})
	require.NoError(t, err)

	// Header value must be pure ASCII.
	for _, r := range got {
		assert.LessOrEqual(t, r, rune(0x7e))
	}

	var back pathArg
	require.NoError(t, json.Unmarshal([]byte(got), &back))
	assert.Equal(t, "/café/\U0001f4c1", back.Path)
}
