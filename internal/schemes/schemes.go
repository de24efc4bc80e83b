// Package schemes provides the directory of government support schemes for
// millet farmers and processors.
package schemes

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/milletmart/catalog-server/internal/filtering"
	"github.com/milletmart/catalog-server/internal/locale"
)

// Scheme is a bilingual government scheme record
type Scheme struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	TitleHi       string   `json:"titleHi"`
	Description   string   `json:"description"`
	DescriptionHi string   `json:"descriptionHi"`
	Benefits      []string `json:"benefits"`
	BenefitsHi    []string `json:"benefitsHi"`
	Category      string   `json:"category"`
	Eligibility   string   `json:"eligibility"`
	Link          string   `json:"link"`
}

// Localized is a scheme rendered in one language
type Localized struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Benefits    []string `json:"benefits"`
	Category    string   `json:"category"`
	Eligibility string   `json:"eligibility"`
	Link        string   `json:"link"`
}

// Localize renders the scheme in loc, falling back to English for missing Hindi text
func (s *Scheme) Localize(loc locale.Locale) Localized {
	benefits := s.Benefits
	if loc == locale.Hindi && len(s.BenefitsHi) > 0 {
		benefits = s.BenefitsHi
	}
	return Localized{
		ID:          s.ID,
		Title:       locale.Text{En: s.Title, Hi: s.TitleHi}.Pick(loc),
		Description: locale.Text{En: s.Description, Hi: s.DescriptionHi}.Pick(loc),
		Benefits:    slices.Clone(benefits),
		Category:    s.Category,
		Eligibility: s.Eligibility,
		Link:        s.Link,
	}
}

// Directory is the read-only list of schemes
type Directory struct {
	schemes []Scheme
}

// NewDirectory builds a directory, rejecting schemes without id or title
func NewDirectory(schemes []Scheme) (*Directory, error) {
	var errs []error
	seen := make(map[string]bool, len(schemes))
	for i, s := range schemes {
		switch {
		case s.ID == "":
			errs = append(errs, fmt.Errorf("scheme[%d]: id is required", i))
		case s.Title == "":
			errs = append(errs, fmt.Errorf("scheme[%d]: %s: title is required", i, s.ID))
		case seen[s.ID]:
			errs = append(errs, fmt.Errorf("scheme[%d]: duplicate id %q", i, s.ID))
		}
		seen[s.ID] = true
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid schemes: %w", errors.Join(errs...))
	}

	return &Directory{schemes: slices.Clone(schemes)}, nil
}

// Parse decodes the schemes fixture
func Parse(data []byte) (*Directory, error) {
	var schemes []Scheme
	if err := json.Unmarshal(data, &schemes); err != nil {
		return nil, fmt.Errorf("failed to parse schemes: %w", err)
	}
	return NewDirectory(schemes)
}

// Len returns the number of schemes
func (d *Directory) Len() int {
	return len(d.schemes)
}

// List returns the schemes in the selected category, in fixture order
func (d *Directory) List(category filtering.Selection) []Scheme {
	result := []Scheme{}
	for _, s := range d.schemes {
		if category.Matches(s.Category) {
			result = append(result, s)
		}
	}
	return result
}

// Categories returns the distinct scheme categories in order of first appearance
func (d *Directory) Categories() []string {
	seen := make(map[string]bool)
	result := []string{}
	for _, s := range d.schemes {
		if s.Category != "" && !seen[s.Category] {
			seen[s.Category] = true
			result = append(result, s.Category)
		}
	}
	return result
}
