/*
This file contains the shared JSON-over-HTTP plumbing used by every fetcher: bounded retries with
linear backoff, status validation and decoding into typed responses.
*/

package datafetcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/liquidswap/yieldscan/internal/logger"
)

var httpLogger = logger.GetForComponent("http_client")

var (
	ErrUpstream         = errors.New("upstream request failed")
	ErrResourceNotFound = errors.New("resource not found")
	ErrInvalidResponse  = errors.New("invalid upstream response")
)

const (
	MAX_RETRIES     = 3
	RETRY_DELAY     = 1 * time.Second
	TIMEOUT_SECONDS = 30
)

// HTTPClient performs GET requests that decode JSON bodies.
type HTTPClient struct {
	client     *http.Client
	maxRetries int
	retryDelay time.Duration
}

// ClientOption configures HTTPClient.
type ClientOption func(*HTTPClient)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.client.Timeout = d
	}
}

// WithMaxRetries sets the number of attempts per request.
func WithMaxRetries(n int) ClientOption {
	return func(c *HTTPClient) {
		if n > 0 {
			c.maxRetries = n
		}
	}
}

// WithRetryDelay sets the base delay between attempts; attempt n waits n*d.
func WithRetryDelay(d time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.retryDelay = d
	}
}

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *HTTPClient) {
		c.client = client
	}
}

// NewHTTPClient creates an HTTPClient with the package defaults.
func NewHTTPClient(opts ...ClientOption) *HTTPClient {
	c := &HTTPClient{
		client:     &http.Client{Timeout: TIMEOUT_SECONDS * time.Second},
		maxRetries: MAX_RETRIES,
		retryDelay: RETRY_DELAY,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// getJSON fetches url and decodes the body into out. 404 (ErrResourceNotFound)
// and undecodable bodies (ErrInvalidResponse) are returned at once; transport
// errors and other statuses are retried.
func (c *HTTPClient) getJSON(ctx context.Context, url string, out any) error {
	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		err := c.doGet(ctx, url, out)
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrResourceNotFound) || errors.Is(err, ErrInvalidResponse) || ctx.Err() != nil {
			return err
		}

		lastErr = err
		httpLogger.Warn().
			Err(err).
			Str("url", url).
			Int("attempt", attempt).
			Int("maxRetries", c.maxRetries).
			Msg("HTTP request failed, will retry if attempts remain")

		if attempt < c.maxRetries {
			select {
			case <-ctx.Done():
				return fmt.Errorf("%w: %w", ErrUpstream, ctx.Err())
			case <-time.After(time.Duration(attempt) * c.retryDelay):
			}
		}
	}

	httpLogger.Error().
		Err(lastErr).
		Str("url", url).
		Int("maxRetries", c.maxRetries).
		Msg("All retry attempts failed")
	return fmt.Errorf("after %d attempts: %w", c.maxRetries, lastErr)
}

func (c *HTTPClient) doGet(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: create request: %w", ErrUpstream, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrResourceNotFound, url)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read body: %w", ErrUpstream, err)
	}
	if len(body) == 0 {
		return fmt.Errorf("%w: empty response body", ErrInvalidResponse)
	}

	if err := json.Unmarshal(body, out); err != nil {
		httpLogger.Debug().
			Str("url", url).
			Int("bodyLength", len(body)).
			Msg("Failed to parse JSON response")
		return fmt.Errorf("%w: decode JSON: %w", ErrInvalidResponse, err)
	}

	return nil
}
