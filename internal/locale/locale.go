// Package locale provides the display-language selection used by every
// presentation call of the marketplace, together with the bilingual message
// catalog and currency formatting.
//
// There are exactly two locales, English and Hindi. A Locale is a plain
// value: it is passed explicitly (or carried on a request context) rather
// than held in a process-wide variable, so every consumer within one
// request observes the same language.
package locale

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Locale is the active display language
type Locale string

const (
	// English is the default display language
	English Locale = "en"

	// Hindi is the secondary display language
	Hindi Locale = "hi"
)

// supported lists the locales in matcher preference order
var supported = []language.Tag{language.English, language.Hindi}

var matcher = language.NewMatcher(supported)

// Parse parses a language code ("en", "hi", "en-IN", "HI") into a Locale
func Parse(raw string) (Locale, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "en", "en-in", "en-us", "en-gb", "english":
		return English, nil
	case "hi", "hi-in", "hindi":
		return Hindi, nil
	default:
		return "", fmt.Errorf("unsupported locale: %q", raw)
	}
}

// MustParse is like Parse but falls back to English for unknown codes
func MustParse(raw string) Locale {
	loc, err := Parse(raw)
	if err != nil {
		return English
	}
	return loc
}

// FromAcceptLanguage negotiates a Locale from an Accept-Language header.
// Returns fallback when the header is empty, unparseable, or names neither
// supported language.
func FromAcceptLanguage(header string, fallback Locale) Locale {
	if strings.TrimSpace(header) == "" {
		return fallback
	}

	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return fallback
	}

	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return fallback
	}

	if supported[index] == language.Hindi {
		return Hindi
	}
	return English
}

// IsValid reports whether l is one of the two supported locales
func (l Locale) IsValid() bool {
	return l == English || l == Hindi
}

// Toggle returns the other locale, mirroring the navigation language switch
func (l Locale) Toggle() Locale {
	if l == Hindi {
		return English
	}
	return Hindi
}

// String implements fmt.Stringer
func (l Locale) String() string {
	return string(l)
}

// Text is a display string available in both languages
type Text struct {
	En string `json:"en"`
	Hi string `json:"hi"`
}

// Pick returns the string for loc. An empty Hindi string falls back to English.
func (t Text) Pick(loc Locale) string {
	if loc == Hindi && t.Hi != "" {
		return t.Hi
	}
	return t.En
}

type contextKey struct{}

// WithLocale returns a copy of ctx carrying loc
func WithLocale(ctx context.Context, loc Locale) context.Context {
	return context.WithValue(ctx, contextKey{}, loc)
}

// FromContext returns the locale stored on ctx, or English when none is set
func FromContext(ctx context.Context) Locale {
	if loc, ok := ctx.Value(contextKey{}).(Locale); ok && loc.IsValid() {
		return loc
	}
	return English
}
