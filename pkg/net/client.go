package net

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

const (
	maxIdleConns     = 10
	timeoutInSeconds = 60
	clientAgent      = "fraudcheck"
)

func newTransport() *http.Transport {
	return &http.Transport{
		MaxIdleConns:          maxIdleConns,
		IdleConnTimeout:       timeoutInSeconds * time.Second,
		ResponseHeaderTimeout: timeoutInSeconds * time.Second,
	}
}

// GetHTTPClient returns a plain client with the given timeout.
// Zero timeout falls back to the package default.
func GetHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = timeoutInSeconds * time.Second
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: newTransport(),
	}
}

// GetOAuthClient returns a client that attaches the token as a bearer
// credential on every request.
func GetOAuthClient(ctx context.Context, token string, timeout time.Duration) *http.Client {
	base := GetHTTPClient(timeout)
	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{
			TokenType:   "Bearer",
			AccessToken: token,
		},
	)
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = base.Timeout

	return tc
}
