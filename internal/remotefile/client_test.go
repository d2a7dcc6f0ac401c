package remotefile

import (
	"context"
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticTokens string

func (s staticTokens) Token(ctx context.Context) (string, error) { return string(s), nil }

// readRelatedParts splits a multipart/related body into its raw parts.
func readRelatedParts(t *testing.T, r *http.Request) [][]byte {
	t.Helper()
	mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	require.NoError(t, err)
	require.Equal(t, "multipart/related", mediaType)

	mr := multipart.NewReader(r.Body, params["boundary"])
	var parts [][]byte
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		raw, err := io.ReadAll(p)
		require.NoError(t, err)
		parts = append(parts, raw)
	}
	return parts
}

func TestUploadByName_CreatesWhenAbsent(t *testing.T) {
	var created bool
	mux := http.NewServeMux()
	mux.HandleFunc("GET /files", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Contains(t, r.URL.Query().Get("q"), "name = 'ledger.json'")
		json.NewEncoder(w).Encode(map[string]any{"files": []any{}})
	})
	mux.HandleFunc("POST /files", func(w http.ResponseWriter, r *http.Request) {
		created = true
		assert.Equal(t, "multipart", r.URL.Query().Get("uploadType"))
		parts := readRelatedParts(t, r)
		require.Len(t, parts, 2)

		var meta map[string]string
		require.NoError(t, json.Unmarshal(parts[0], &meta))
		assert.Equal(t, "ledger.json", meta["name"])
		assert.Equal(t, `{"v":1}`, string(parts[1]))
		w.WriteHeader(http.StatusOK)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient(srv.URL, srv.URL, staticTokens("tok"))
	c.SetHTTPClient(srv.Client())

	err := c.UploadByName(context.Background(), "ledger.json", []byte(`{"v":1}`))
	require.NoError(t, err)
	assert.True(t, created)
}

func TestUploadByName_PatchesExistingFile(t *testing.T) {
	var patched bool
	mux := http.NewServeMux()
	mux.HandleFunc("GET /files", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"files": []map[string]string{{"id": "abc123"}},
		})
	})
	mux.HandleFunc("PATCH /files/abc123", func(w http.ResponseWriter, r *http.Request) {
		patched = true
		parts := readRelatedParts(t, r)
		require.Len(t, parts, 2)

		var meta map[string]string
		require.NoError(t, json.Unmarshal(parts[0], &meta))
		assert.Empty(t, meta, "updates must not rename the file")
		assert.Equal(t, `{"v":2}`, string(parts[1]))
		w.WriteHeader(http.StatusOK)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient(srv.URL, srv.URL, staticTokens("tok"))
	c.SetHTTPClient(srv.Client())

	err := c.UploadByName(context.Background(), "ledger.json", []byte(`{"v":2}`))
	require.NoError(t, err)
	assert.True(t, patched)
}

func TestUploadByName_SurfacesUploadFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /files", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"files": []any{}})
	})
	mux.HandleFunc("POST /files", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusForbidden)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient(srv.URL, srv.URL, staticTokens("tok"))
	c.SetHTTPClient(srv.Client())

	err := c.UploadByName(context.Background(), "ledger.json", []byte(`{}`))
	assert.ErrorContains(t, err, "status 403")
}
