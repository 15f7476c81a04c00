/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package httpclient

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/SibirBear/crptapi/log"
	"github.com/SibirBear/crptapi/retry"
)

// DefaultMaxRetryAttempts is used when RetryableRoundTripperOpts.MaxRetryAttempts is not set.
const DefaultMaxRetryAttempts = 10

// DefaultExponentialBackoffInitialInterval is the initial delay of DefaultBackoffPolicy.
const DefaultExponentialBackoffInitialInterval = time.Second

// RetryAttemptNumberHeader carries the serial number of the retry attempt,
// so the server side can tell retries from first submissions.
const RetryAttemptNumberHeader = "X-Retry-Attempt"

// ShouldRetryFunc decides whether the outcome of an attempt warrants another one.
type ShouldRetryFunc func(resp *http.Response, err error) bool

// RetryableRoundTripper repeats failed requests with a delay between attempts.
// The request body is buffered up front so it can be replayed; submissions
// in this module are small JSON payloads, nothing is streamed.
type RetryableRoundTripper struct {
	delegate      http.RoundTripper
	logger        log.FieldLogger
	maxAttempts   int
	shouldRetry   ShouldRetryFunc
	backoffPolicy retry.Policy
}

// RetryableRoundTripperOpts holds the knobs of RetryableRoundTripper.
// Zero values select the defaults.
type RetryableRoundTripperOpts struct {
	// Logger is used for logging.
	Logger log.FieldLogger

	// MaxRetryAttempts caps the number of retries; the total number of sent
	// requests may be MaxRetryAttempts + 1 (the first one is not a retry).
	MaxRetryAttempts int

	// ShouldRetry is consulted after every attempt. DefaultShouldRetry is used when nil.
	ShouldRetry ShouldRetryFunc

	// BackoffPolicy computes the delay before the next attempt when the
	// response carries no Retry-After header. DefaultBackoffPolicy is used when nil.
	BackoffPolicy retry.Policy
}

// NewRetryableRoundTripper returns a RetryableRoundTripper wrapping delegate.
func NewRetryableRoundTripper(delegate http.RoundTripper, opts RetryableRoundTripperOpts) (*RetryableRoundTripper, error) {
	if opts.MaxRetryAttempts < 0 {
		return nil, errors.New("max retry attempts cannot be negative")
	}
	if opts.MaxRetryAttempts == 0 {
		opts.MaxRetryAttempts = DefaultMaxRetryAttempts
	}
	if opts.Logger == nil {
		opts.Logger = log.NewDisabledLogger()
	}
	if opts.ShouldRetry == nil {
		opts.ShouldRetry = DefaultShouldRetry
	}
	if opts.BackoffPolicy == nil {
		opts.BackoffPolicy = DefaultBackoffPolicy
	}
	return &RetryableRoundTripper{
		delegate:      delegate,
		logger:        opts.Logger,
		maxAttempts:   opts.MaxRetryAttempts,
		shouldRetry:   opts.ShouldRetry,
		backoffPolicy: opts.BackoffPolicy,
	}, nil
}

// RoundTrip performs the request, repeating it while shouldRetry says so.
func (rt *RetryableRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	var reqBody []byte
	if req.Body != nil {
		var readErr error
		reqBody, readErr = io.ReadAll(req.Body)
		_ = req.Body.Close()
		if readErr != nil {
			return nil, fmt.Errorf("buffer request body for retries: %w", readErr)
		}
	}

	ctx := req.Context()
	req = req.Clone(ctx) // Per RoundTripper contract, the caller's request stays untouched.
	bf := rt.backoffPolicy.NewBackOff()

	var resp *http.Response
	var err error
	for attempt := 0; ; attempt++ {
		if reqBody != nil {
			req.Body = io.NopCloser(bytes.NewReader(reqBody))
		}
		if attempt > 0 {
			req.Header.Set(RetryAttemptNumberHeader, strconv.Itoa(attempt))
		}

		resp, err = rt.delegate.RoundTrip(req)

		if !rt.shouldRetry(resp, err) {
			return resp, err
		}
		if attempt >= rt.maxAttempts {
			rt.logger.Warn("max retry attempts exceeded",
				log.Int("max_attempts", rt.maxAttempts), log.Int("requests_done", attempt+1))
			return resp, err
		}
		delay, ok := rt.nextDelay(resp, bf)
		if !ok {
			return resp, err
		}
		if resp != nil {
			rt.discardResponse(resp)
		}

		select {
		case <-ctx.Done():
			rt.logger.Warn("context done while waiting for the next retry attempt",
				log.Error(ctx.Err()), log.Int("requests_done", attempt+1))
			return resp, err
		case <-time.After(delay):
		}
	}
}

// nextDelay prefers the Retry-After header of the failed response over the backoff policy.
// ok is false when the backoff policy gives up.
func (rt *RetryableRoundTripper) nextDelay(resp *http.Response, bf backoff.BackOff) (delay time.Duration, ok bool) {
	if resp != nil {
		if retryAfter, found := parseRetryAfter(resp.Header.Get("Retry-After")); found {
			return retryAfter, true
		}
	}
	delay = bf.NextBackOff()
	return delay, delay != backoff.Stop
}

// discardResponse drains and closes the failed response body
// so the underlying connection can be reused by the next attempt.
func (rt *RetryableRoundTripper) discardResponse(resp *http.Response) {
	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		rt.logger.Error("failed to discard response body between retry attempts", log.Error(err))
	}
	if err := resp.Body.Close(); err != nil {
		rt.logger.Error("failed to close response body between retry attempts", log.Error(err))
	}
}

// DefaultShouldRetry retries on transport-level temporary errors,
// 429 and 5xx response status codes.
func DefaultShouldRetry(resp *http.Response, err error) bool {
	if err != nil {
		return isTemporaryError(err)
	}
	return resp != nil &&
		(resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError)
}

// DefaultBackoffPolicy doubles the delay between attempts starting from one second.
var DefaultBackoffPolicy retry.Policy = retry.NewExponentialBackoffPolicy(DefaultExponentialBackoffInitialInterval, 0)

func isTemporaryError(err error) bool {
	if errors.Is(err, io.EOF) {
		return true
	}
	var terr interface{ Temporary() bool }
	return errors.As(err, &terr) && terr.Temporary()
}

// parseRetryAfter understands both forms of the Retry-After header:
// a delay in seconds and an HTTP date.
func parseRetryAfter(value string) (time.Duration, bool) {
	if value == "" {
		return 0, false
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds < 0 {
			return 0, false
		}
		return time.Duration(seconds) * time.Second, true
	}
	if at, err := time.Parse(time.RFC1123, value); err == nil {
		return time.Until(at), true
	}
	return 0, false
}
