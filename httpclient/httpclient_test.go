/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
)

func TestNewWithOpts(t *testing.T) {
	const userAgent = "crpt-client/1.0"

	requestsDone := atomic.NewInt32(0)
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		require.Equal(t, userAgent, r.Header.Get("User-Agent"))
		require.NotEmpty(t, r.Header.Get(RequestIDHeader))
		if requestsDone.Inc() == 1 {
			rw.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		rw.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := NewConfig()
	cfg.Timeout = 10 * time.Second
	cfg.Retries.Enabled = true
	cfg.Retries.MaxAttempts = 3
	cfg.Retries.Policy = PolicyConfig{Strategy: RetryPolicyConstant, ConstantBackoffInterval: time.Millisecond}

	client, err := NewWithOpts(cfg, Opts{UserAgent: userAgent})
	require.NoError(t, err)

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, server.URL, nil)
	require.NoError(t, err)
	resp, err := client.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, int32(2), requestsDone.Load())
}

func TestNewWithoutRetries(t *testing.T) {
	requestsDone := atomic.NewInt32(0)
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		requestsDone.Inc()
		rw.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client, err := New(NewConfig())
	require.NoError(t, err)

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, server.URL, nil)
	require.NoError(t, err)
	resp, err := client.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	require.Equal(t, int32(1), requestsDone.Load())
}

func TestCloneHTTPHeader(t *testing.T) {
	in := http.Header{"X-Foo": []string{"a", "b"}}
	out := CloneHTTPHeader(in)
	require.Equal(t, in, out)
	out.Add("X-Foo", "c")
	require.Len(t, in["X-Foo"], 2)
}
