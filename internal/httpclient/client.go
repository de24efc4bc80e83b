package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
)

const (
	// DefaultTimeout is used when no timeout is given
	DefaultTimeout = 30 * time.Second

	// DefaultMaxAttempts is the number of tries for retryable failures
	DefaultMaxAttempts = 3

	// MaxResponseSize bounds the size of a response body
	MaxResponseSize = 100 * 1024 * 1024

	// UserAgent is sent with every request
	UserAgent = "milletmart-catalog-server/1.0"
)

// DefaultClient is a Client backed by net/http with exponential backoff retries
type DefaultClient struct {
	client          *http.Client
	maxAttempts     uint
	initialInterval time.Duration
}

var _ Client = (*DefaultClient)(nil)

// ClientOption configures a DefaultClient
type ClientOption func(*DefaultClient)

// WithMaxAttempts sets the number of tries for retryable failures
func WithMaxAttempts(n uint) ClientOption {
	return func(c *DefaultClient) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

// WithInitialInterval sets the first backoff delay
func WithInitialInterval(d time.Duration) ClientOption {
	return func(c *DefaultClient) {
		if d > 0 {
			c.initialInterval = d
		}
	}
}

// WithTransport sets the round tripper used for requests
func WithTransport(rt http.RoundTripper) ClientOption {
	return func(c *DefaultClient) {
		c.client.Transport = rt
	}
}

// NewDefaultClient creates a client with the given timeout. Zero means DefaultTimeout.
func NewDefaultClient(timeout time.Duration, opts ...ClientOption) *DefaultClient {
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	c := &DefaultClient{
		client:          &http.Client{Timeout: timeout},
		maxAttempts:     DefaultMaxAttempts,
		initialInterval: 500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get performs a GET request, retrying 429, 5xx and transport failures
func (c *DefaultClient) Get(ctx context.Context, url string) ([]byte, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.initialInterval

	return backoff.Retry(ctx, func() ([]byte, error) {
		return c.get(ctx, url)
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(c.maxAttempts),
		backoff.WithNotify(func(err error, next time.Duration) {
			slog.WarnContext(ctx, "Retrying fixture request", "url", url, "error", err, "retryIn", next)
		}),
	)
}

func (c *DefaultClient) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, backoff.Permanent(fmt.Errorf("failed to execute request: %w", err))
		}
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		httpErr := NewHTTPError(resp.StatusCode, url, http.StatusText(resp.StatusCode))
		if httpErr.Retryable() {
			return nil, httpErr
		}
		return nil, backoff.Permanent(httpErr)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if len(data) > MaxResponseSize {
		return nil, backoff.Permanent(fmt.Errorf("response size exceeds maximum allowed size of %.2f MB",
			float64(MaxResponseSize)/(1024*1024)))
	}

	return data, nil
}

// IsNotFound reports whether err is a 404 response
func IsNotFound(err error) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound
}
