// Package catalog provides the immutable product catalog of the marketplace.
//
// The catalog is populated once from the products fixture and is read-only
// for the lifetime of the process. Every accessor returns copies, so the
// sequence and its records can be shared across concurrent readers without
// locking and can never be mutated by a consumer.
package catalog

import (
	"slices"

	"github.com/milletmart/catalog-server/internal/locale"
)

// MaxRating is the upper bound of the rating display scale
const MaxRating = 5.0

// badgeCount is the number of certifications shown as badges on a product card
const badgeCount = 2

// Farmer is the denormalized seller information embedded in a product
type Farmer struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

// Product is a single catalog entry
type Product struct {
	// ID is the opaque, unique identifier of the product
	ID string `json:"id"`

	// Name is the English display name
	Name string `json:"name"`

	// NameHi is the Hindi display name
	NameHi string `json:"nameHi"`

	// Type is the millet variety, e.g. "Foxtail Millet"
	Type string `json:"type"`

	// Category is the product form, e.g. "Grains" or "Flour"
	Category string `json:"category"`

	// Price is the non-negative amount in rupees per Unit
	Price float64 `json:"price"`
	Unit  string  `json:"unit"`

	Farmer Farmer `json:"farmer"`

	// Certifications is ordered for display; the first two are shown as badges
	Certifications []string `json:"certifications"`

	Rating  float64 `json:"rating"`
	Reviews int     `json:"reviews"`

	Description         string   `json:"description,omitempty"`
	DescriptionHi       string   `json:"descriptionHi,omitempty"`
	NutritionHighlights []string `json:"nutritionHighlights,omitempty"`
	HarvestDate         string   `json:"harvestDate,omitempty"`
}

// DisplayName returns the product name in the given locale
func (p *Product) DisplayName(loc locale.Locale) string {
	return locale.Text{En: p.Name, Hi: p.NameHi}.Pick(loc)
}

// DisplayDescription returns the product description in the given locale
func (p *Product) DisplayDescription(loc locale.Locale) string {
	return locale.Text{En: p.Description, Hi: p.DescriptionHi}.Pick(loc)
}

// Badges returns the certifications shown as badges on a product card
func (p *Product) Badges() []string {
	if len(p.Certifications) <= badgeCount {
		return slices.Clone(p.Certifications)
	}
	return slices.Clone(p.Certifications[:badgeCount])
}

// HasCertification reports whether the product carries the given certification
func (p *Product) HasCertification(cert string) bool {
	return slices.Contains(p.Certifications, cert)
}

// Clone returns a deep copy of the product
func (p *Product) Clone() Product {
	c := *p
	c.Certifications = slices.Clone(p.Certifications)
	c.NutritionHighlights = slices.Clone(p.NutritionHighlights)
	return c
}
