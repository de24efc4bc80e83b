// Package learn provides the bilingual educational content about millet
// varieties and their health benefits.
package learn

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/milletmart/catalog-server/internal/locale"
)

// Variety describes one millet variety
type Variety struct {
	Name       string   `json:"name"`
	NameHi     string   `json:"nameHi"`
	Benefits   []string `json:"benefits"`
	BenefitsHi []string `json:"benefitsHi"`
}

// HealthBenefit describes a general benefit of millet consumption
type HealthBenefit struct {
	Title         string `json:"title"`
	TitleHi       string `json:"titleHi"`
	Description   string `json:"description"`
	DescriptionHi string `json:"descriptionHi"`
}

// Content is the full learn page content
type Content struct {
	Varieties      []Variety       `json:"varieties"`
	HealthBenefits []HealthBenefit `json:"healthBenefits"`
}

// LocalizedVariety is a variety rendered in one language
type LocalizedVariety struct {
	Name     string   `json:"name"`
	Benefits []string `json:"benefits"`
}

// LocalizedBenefit is a health benefit rendered in one language
type LocalizedBenefit struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// LocalizedContent is the learn page rendered in one language
type LocalizedContent struct {
	Locale         locale.Locale      `json:"locale"`
	Varieties      []LocalizedVariety `json:"varieties"`
	HealthBenefits []LocalizedBenefit `json:"healthBenefits"`
}

// Parse decodes the learn fixture
func Parse(data []byte) (*Content, error) {
	var c Content
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse learn content: %w", err)
	}
	return &c, nil
}

// Localize renders the content in loc
func (c *Content) Localize(loc locale.Locale) LocalizedContent {
	out := LocalizedContent{
		Locale:         loc,
		Varieties:      make([]LocalizedVariety, 0, len(c.Varieties)),
		HealthBenefits: make([]LocalizedBenefit, 0, len(c.HealthBenefits)),
	}

	for _, v := range c.Varieties {
		benefits := v.Benefits
		if loc == locale.Hindi && len(v.BenefitsHi) > 0 {
			benefits = v.BenefitsHi
		}
		out.Varieties = append(out.Varieties, LocalizedVariety{
			Name:     locale.Text{En: v.Name, Hi: v.NameHi}.Pick(loc),
			Benefits: slices.Clone(benefits),
		})
	}

	for _, b := range c.HealthBenefits {
		out.HealthBenefits = append(out.HealthBenefits, LocalizedBenefit{
			Title:       locale.Text{En: b.Title, Hi: b.TitleHi}.Pick(loc),
			Description: locale.Text{En: b.Description, Hi: b.DescriptionHi}.Pick(loc),
		})
	}

	return out
}
