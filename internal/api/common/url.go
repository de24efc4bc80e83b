// Package common provides shared HTTP helpers for the API handlers.
package common

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
)

// PathID extracts and decodes an identifier path parameter such as a
// product or farmer id. Identifiers are opaque but never blank and never
// contain whitespace.
func PathID(r *http.Request, name string) (string, error) {
	raw := chi.URLParam(r, name)

	id, err := url.PathUnescape(raw)
	if err != nil {
		return "", fmt.Errorf("invalid URL encoding in %s", name)
	}
	if strings.TrimSpace(id) == "" {
		return "", fmt.Errorf("%s is required", name)
	}
	if strings.ContainsAny(id, " \t\n\r") {
		return "", fmt.Errorf("%s must not contain whitespace", name)
	}
	return id, nil
}
