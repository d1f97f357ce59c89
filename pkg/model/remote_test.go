package model

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRemoteServer(t *testing.T, reply func(req remoteRequest) remoteResponse) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req remoteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(reply(req))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRemote_Predict(t *testing.T) {
	srv := newRemoteServer(t, func(req remoteRequest) remoteResponse {
		out := make([]int, len(req.Instances))
		for i, in := range req.Instances {
			if in[1] > 0 {
				out[i] = 1
			}
		}
		return remoteResponse{Predictions: out}
	})

	a := &Artifact{Type: TypeRemote, Features: []string{"income", "foreign_request"}, Endpoint: srv.URL}
	c, err := NewClassifier(context.Background(), a, nil)
	require.NoError(t, err)

	codes, err := c.Predict(context.Background(), [][]float64{{0.1, 0}, {0.2, 1}})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, codes)
}

func TestRemote_SendsToken(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(remoteResponse{Predictions: []int{0}})
	}))
	defer srv.Close()

	a := &Artifact{Type: TypeRemote, Features: []string{"a"}, Endpoint: srv.URL}
	c, err := NewClassifier(context.Background(), a, &ClassifierOptions{Token: "secret"})
	require.NoError(t, err)

	_, err = c.Predict(context.Background(), [][]float64{{1}})
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret", auth)
}

func TestRemote_CountMismatch(t *testing.T) {
	srv := newRemoteServer(t, func(req remoteRequest) remoteResponse {
		return remoteResponse{Predictions: []int{1}}
	})

	a := &Artifact{Type: TypeRemote, Features: []string{"a"}, Endpoint: srv.URL}
	c, err := NewClassifier(context.Background(), a, nil)
	require.NoError(t, err)

	_, err = c.Predict(context.Background(), [][]float64{{1}, {2}})
	assert.Error(t, err)
}
