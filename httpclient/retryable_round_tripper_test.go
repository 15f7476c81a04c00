/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package httpclient

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	"github.com/SibirBear/crptapi/retry"
)

func TestRetryableRoundTripperRetriesOnServerError(t *testing.T) {
	const failedAttempts = 2

	requestsDone := atomic.NewInt32(0)
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		n := requestsDone.Inc()
		if n == 1 {
			require.Empty(t, r.Header.Get(RetryAttemptNumberHeader))
		} else {
			require.Equal(t, strconv.Itoa(int(n-1)), r.Header.Get(RetryAttemptNumberHeader))
		}
		if n <= failedAttempts {
			rw.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.Equal(t, "request-body", string(body))
		rw.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	rt, err := NewRetryableRoundTripper(http.DefaultTransport, RetryableRoundTripperOpts{
		BackoffPolicy: retry.NewConstantBackoffPolicy(10*time.Millisecond, 0),
	})
	require.NoError(t, err)

	client := &http.Client{Transport: rt}
	req, err := http.NewRequestWithContext(
		context.Background(), http.MethodPost, server.URL, bytes.NewReader([]byte("request-body")))
	require.NoError(t, err)

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, int32(failedAttempts+1), requestsDone.Load())
}

func TestRetryableRoundTripperMaxAttemptsExceeded(t *testing.T) {
	const maxRetryAttempts = 3

	requestsDone := atomic.NewInt32(0)
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		requestsDone.Inc()
		rw.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	rt, err := NewRetryableRoundTripper(http.DefaultTransport, RetryableRoundTripperOpts{
		MaxRetryAttempts: maxRetryAttempts,
		BackoffPolicy:    retry.NewConstantBackoffPolicy(time.Millisecond, 0),
	})
	require.NoError(t, err)

	client := &http.Client{Transport: rt}
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, server.URL, nil)
	require.NoError(t, err)

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	require.Equal(t, int32(maxRetryAttempts+1), requestsDone.Load())
}

func TestRetryableRoundTripperRespectsRetryAfterHeader(t *testing.T) {
	const retryAfter = time.Second

	var firstRequestAt, secondRequestAt time.Time
	requestsDone := atomic.NewInt32(0)
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		if requestsDone.Inc() == 1 {
			firstRequestAt = time.Now()
			rw.Header().Set("Retry-After", "1")
			rw.WriteHeader(http.StatusTooManyRequests)
			return
		}
		secondRequestAt = time.Now()
		rw.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	rt, err := NewRetryableRoundTripper(http.DefaultTransport, RetryableRoundTripperOpts{
		BackoffPolicy: retry.NewConstantBackoffPolicy(time.Millisecond, 0),
	})
	require.NoError(t, err)

	client := &http.Client{Transport: rt}
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, server.URL, nil)
	require.NoError(t, err)

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.GreaterOrEqual(t, secondRequestAt.Sub(firstRequestAt), retryAfter)
}

func TestRetryableRoundTripperInvalidMaxAttempts(t *testing.T) {
	_, err := NewRetryableRoundTripper(http.DefaultTransport, RetryableRoundTripperOpts{
		MaxRetryAttempts: -2,
	})
	require.Error(t, err)
}
