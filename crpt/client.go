/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package crpt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/SibirBear/crptapi/httpclient"
	"github.com/SibirBear/crptapi/log"
	"github.com/SibirBear/crptapi/throttle"
)

// SignatureHeader is an HTTP header name carrying the caller-supplied detached signature.
const SignatureHeader = "Signature"

// ContentTypeAppJSON is the value of the Content-Type header for document submissions.
const ContentTypeAppJSON = "application/json"

// documentsCreatePath is the registry endpoint for document creation.
const documentsCreatePath = "/api/v3/lk/documents/create"

// requestType correlates client logs and metrics.
const requestType = "create-document"

// maxRejectionBodySize limits how much of an error response body is kept for diagnostics.
const maxRejectionBodySize = 64 * 1024

// Client submits documents to the registry API.
// Every submission is gated by a fixed-window rate limiter:
// CreateDocument blocks while the window budget is exhausted.
// Client is safe for concurrent use.
type Client struct {
	limiter            *throttle.Limiter
	httpClient         *http.Client
	createDocumentsURL string
	logger             log.FieldLogger

	// marshalDocument serializes the submitted document, json.Marshal unless overridden in tests.
	marshalDocument func(doc Document) ([]byte, error)
}

// NewClient creates a new Client with the given configuration.
func NewClient(cfg *Config) (*Client, error) {
	return NewClientWithOpts(cfg, Opts{})
}

// MustClient is a variant of NewClient that panics on error.
func MustClient(cfg *Config) *Client {
	c, err := NewClient(cfg)
	if err != nil {
		panic(err)
	}
	return c
}

// Opts provides options for NewClientWithOpts and MustClientWithOpts functions.
type Opts struct {
	// Logger is used for logging.
	Logger log.FieldLogger

	// UserAgent is a user agent string.
	UserAgent string

	// Delegate is the transport that actually performs HTTP requests.
	// http.DefaultTransport clone is used if not specified.
	Delegate http.RoundTripper

	// Collector is a metrics collector for the HTTP client.
	Collector httpclient.MetricsCollector
}

// NewClientWithOpts creates a new Client with the given configuration and options.
func NewClientWithOpts(cfg *Config, opts Opts) (*Client, error) {
	if opts.Logger == nil {
		opts.Logger = log.NewDisabledLogger()
	}

	limiter, err := cfg.RateLimit.MakeLimiter()
	if err != nil {
		return nil, fmt.Errorf("create rate limiter: %w", err)
	}

	httpClient, err := httpclient.NewWithOpts(&cfg.Client, httpclient.Opts{
		UserAgent:   opts.UserAgent,
		RequestType: requestType,
		Delegate:    opts.Delegate,
		Logger:      opts.Logger,
		Collector:   opts.Collector,
	})
	if err != nil {
		limiter.Stop()
		return nil, fmt.Errorf("create http client: %w", err)
	}

	address := cfg.Address
	if address == "" {
		address = DefaultAddress
	}
	if err = validateAddress(address); err != nil {
		limiter.Stop()
		return nil, fmt.Errorf("address %q: %w", address, err)
	}

	return &Client{
		limiter:            limiter,
		httpClient:         httpClient,
		createDocumentsURL: strings.TrimSuffix(address, "/") + documentsCreatePath,
		logger:             opts.Logger,
		marshalDocument:    func(doc Document) ([]byte, error) { return json.Marshal(doc) },
	}, nil
}

// MustClientWithOpts is a variant of NewClientWithOpts that panics on error.
func MustClientWithOpts(cfg *Config, opts Opts) *Client {
	c, err := NewClientWithOpts(cfg, opts)
	if err != nil {
		panic(err)
	}
	return c
}

// CreateDocument submits one document to the registry.
//
// The call blocks until the rate limiter grants a permit or ctx is cancelled;
// on cancellation a *throttle.AcquireWaitError wrapping ctx.Err() is returned
// and no permit is consumed. Once granted, the permit is returned when the
// attempt finishes, whatever the outcome.
//
// The document is serialized to JSON and sent in a POST request with
// a Content-Type: application/json header and the signature in a Signature
// header. Failures are reported as *SerializationError (the transport is
// not invoked), *TransportError, or *RemoteRejectedError for a non-2xx
// response status.
func (c *Client) CreateDocument(ctx context.Context, doc Document, signature string) error {
	if err := c.limiter.Acquire(ctx); err != nil {
		return err
	}
	defer c.limiter.Release()

	body, err := c.marshalDocument(doc)
	if err != nil {
		return &SerializationError{Inner: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.createDocumentsURL, bytes.NewReader(body))
	if err != nil {
		return &TransportError{Inner: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Content-Type", ContentTypeAppJSON)
	req.Header.Set(SignatureHeader, signature)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Inner: err}
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Error("failed to close response body", log.Error(closeErr))
		}
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, maxRejectionBodySize))
		if readErr != nil {
			c.logger.Error("failed to read rejection response body", log.Error(readErr))
		}
		return &RemoteRejectedError{StatusCode: resp.StatusCode, Body: respBody}
	}

	// Drain so the connection can be reused.
	if _, err = io.Copy(io.Discard, resp.Body); err != nil {
		c.logger.Error("failed to discard response body", log.Error(err))
	}
	return nil
}

// Close stops the limiter's background replenishment cycle and releases idle connections.
// The client must not be used after Close.
func (c *Client) Close() {
	c.limiter.Stop()
	c.httpClient.CloseIdleConnections()
}
