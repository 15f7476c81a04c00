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

	"github.com/stretchr/testify/require"
)

func TestNewRequestIDRoundTripper(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		require.NotEmpty(t, r.Header.Get(RequestIDHeader))
		rw.WriteHeader(http.StatusTeapot)
	}))
	defer server.Close()

	client := &http.Client{Transport: NewRequestIDRoundTripper(http.DefaultTransport)}
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, server.URL, nil)
	require.NoError(t, err)

	r, err := client.Do(req)
	require.NoError(t, err)
	defer func() { _ = r.Body.Close() }()
}

func TestNewRequestIDRoundTripperWithOpts(t *testing.T) {
	requestID := "my-custom-request-id"

	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		require.Equal(t, requestID, r.Header.Get(RequestIDHeader))
		rw.WriteHeader(http.StatusTeapot)
	}))
	defer server.Close()

	requestIDRoundTripper := NewRequestIDRoundTripperWithOpts(http.DefaultTransport, RequestIDRoundTripperOpts{
		RequestIDProvider: func() string {
			return requestID
		},
	})
	client := &http.Client{Transport: requestIDRoundTripper}
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, server.URL, nil)
	require.NoError(t, err)

	r, err := client.Do(req)
	require.NoError(t, err)
	defer func() { _ = r.Body.Close() }()
}

func TestRequestIDRoundTripperKeepsExistingHeader(t *testing.T) {
	requestID := "already-set"

	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		require.Equal(t, requestID, r.Header.Get(RequestIDHeader))
		rw.WriteHeader(http.StatusTeapot)
	}))
	defer server.Close()

	client := &http.Client{Transport: NewRequestIDRoundTripper(http.DefaultTransport)}
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, server.URL, nil)
	require.NoError(t, err)
	req.Header.Set(RequestIDHeader, requestID)

	r, err := client.Do(req)
	require.NoError(t, err)
	defer func() { _ = r.Body.Close() }()
}
