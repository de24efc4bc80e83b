// Package httpclient provides the HTTP client used to fetch remote fixtures
package httpclient

import (
	"context"
	"fmt"
)

// Client is an HTTP client that returns response bodies
type Client interface {
	// Get performs a GET request and returns the response body
	Get(ctx context.Context, url string) ([]byte, error)
}

// HTTPError is a non-2xx response
type HTTPError struct {
	StatusCode int
	URL        string
	Message    string
}

// NewHTTPError creates a new HTTPError
func NewHTTPError(statusCode int, url, message string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		URL:        url,
		Message:    message,
	}
}

// Error implements the error interface
func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d for URL %s: %s", e.StatusCode, e.URL, e.Message)
}

// Retryable reports whether the request may succeed if repeated
func (e *HTTPError) Retryable() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}
