package model

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/mchmarny/fraudcheck/pkg/net"
)

type remoteRequest struct {
	Features  []string    `json:"features"`
	Instances [][]float64 `json:"instances"`
}

type remoteResponse struct {
	Predictions []int `json:"predictions"`
}

// remote delegates prediction to an inference server that holds the
// trained model.
type remote struct {
	features []string
	endpoint string
	client   *http.Client
}

func newRemote(ctx context.Context, a *Artifact, opt *ClassifierOptions) (*remote, error) {
	if !net.IsURL(a.Endpoint) {
		return nil, fmt.Errorf("remote model requires an http(s) endpoint, got %q", a.Endpoint)
	}

	client := opt.Client
	if client == nil {
		timeout := time.Duration(a.TimeoutSeconds) * time.Second
		if opt.Token != "" {
			client = net.GetOAuthClient(ctx, opt.Token, timeout)
		} else {
			client = net.GetHTTPClient(timeout)
		}
	}

	return &remote{
		features: slices.Clone(a.Features),
		endpoint: a.Endpoint,
		client:   client,
	}, nil
}

func (r *remote) Features() []string {
	return slices.Clone(r.features)
}

func (r *remote) Predict(ctx context.Context, rows [][]float64) ([]int, error) {
	if err := checkWidth(rows, len(r.features)); err != nil {
		return nil, err
	}

	slog.Debug("remote predict", "endpoint", r.endpoint, "rows", len(rows))

	var resp remoteResponse
	req := &remoteRequest{Features: r.features, Instances: rows}
	if err := net.PostJSON(ctx, r.client, r.endpoint, req, &resp); err != nil {
		return nil, fmt.Errorf("remote predict: %w", err)
	}

	if len(resp.Predictions) != len(rows) {
		return nil, fmt.Errorf("remote model returned %d predictions for %d rows",
			len(resp.Predictions), len(rows))
	}

	return resp.Predictions, nil
}
