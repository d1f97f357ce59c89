package net

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPClient(t *testing.T) {
	client := GetHTTPClient(0)
	require.NotNil(t, client)
	assert.Equal(t, timeoutInSeconds*time.Second, client.Timeout)

	client = GetHTTPClient(3 * time.Second)
	assert.Equal(t, 3*time.Second, client.Timeout)
}

func TestGetOAuthClient_SendsBearer(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := GetOAuthClient(context.Background(), "test-token", time.Second)
	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "Bearer test-token", auth)
}

func TestPostJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var in map[string]int
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]int{"double": in["n"] * 2})
	}))
	defer srv.Close()

	var out map[string]int
	err := PostJSON(context.Background(), GetHTTPClient(time.Second), srv.URL, map[string]int{"n": 21}, &out)
	require.NoError(t, err)
	assert.Equal(t, 42, out["double"])
}

func TestPostJSON_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	var out map[string]any
	err := PostJSON(context.Background(), GetHTTPClient(time.Second), srv.URL, nil, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "model not loaded")
}

func TestDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("type: forest\n"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	p := filepath.Join(dir, "model.yaml")
	require.NoError(t, Download(context.Background(), GetHTTPClient(time.Second), srv.URL+"/model.yaml", p))

	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "type: forest\n", string(b))

	missing := filepath.Join(dir, "missing.yaml")
	err = Download(context.Background(), GetHTTPClient(time.Second), srv.URL+"/missing", missing)
	assert.ErrorIs(t, err, ErrorURLNotFound)
	_, err = os.Stat(missing)
	assert.True(t, os.IsNotExist(err))
}

func TestIsURL(t *testing.T) {
	assert.True(t, IsURL("https://example.com/model.yaml"))
	assert.True(t, IsURL("http://localhost/x"))
	assert.False(t, IsURL("/tmp/model.yaml"))
	assert.False(t, IsURL("model.yaml"))
}

func TestPrintHTTPResponse_Nil(t *testing.T) {
	// should not panic
	PrintHTTPResponse(nil)
}
