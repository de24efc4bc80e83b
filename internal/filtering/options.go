package filtering

import (
	"github.com/milletmart/catalog-server/internal/locale"
)

// Choice is one selectable value of a filter control
type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Options are the choices offered for each filter, localized
type Options struct {
	Types       []Choice `json:"types"`
	Categories  []Choice `json:"categories"`
	PriceRanges []Choice `json:"priceRanges"`
}

// PresetPriceRanges are the price brackets offered by the marketplace
var PresetPriceRanges = []PriceRange{
	Between(0, 100),
	Between(100, 150),
	Between(150, 200),
	AtLeast(200),
}

var typeLabels = map[string]locale.Text{
	"Foxtail Millet": {En: "Foxtail Millet", Hi: "कंगनी"},
	"Pearl Millet":   {En: "Pearl Millet (Bajra)", Hi: "बाजरा"},
	"Finger Millet":  {En: "Finger Millet (Ragi)", Hi: "रागी"},
	"Sorghum":        {En: "Sorghum (Jowar)", Hi: "ज्वार"},
	"Little Millet":  {En: "Little Millet", Hi: "सामा"},
	"Mixed Millets":  {En: "Mixed Millets", Hi: "मिश्रित मिलेट"},
}

var categoryLabels = map[string]locale.Text{
	"Grains":        {En: "Grains", Hi: "अनाज"},
	"Flour":         {En: "Flour", Hi: "आटा"},
	"Snacks":        {En: "Snacks", Hi: "नाश्ता"},
	"Ready-to-Cook": {En: "Ready-to-Cook", Hi: "पकाने के लिए तैयार"},
	"Beverages":     {En: "Beverages", Hi: "पेय पदार्थ"},
}

// BuildOptions returns the filter choices for the given types and categories.
// Each list starts with the "all" choice. Values without a translation are
// labelled with the value itself.
func BuildOptions(loc locale.Locale, types, categories []string) Options {
	return Options{
		Types:       choices(loc, locale.MsgAllTypes, types, typeLabels),
		Categories:  choices(loc, locale.MsgAllCategories, categories, categoryLabels),
		PriceRanges: priceChoices(loc),
	}
}

// TypeLabel returns the display label of a millet type
func TypeLabel(loc locale.Locale, value string) string {
	return label(loc, value, typeLabels)
}

// CategoryLabel returns the display label of a product category
func CategoryLabel(loc locale.Locale, value string) string {
	return label(loc, value, categoryLabels)
}

// PriceLabel returns the display label of a price range, e.g. "₹100 - ₹150"
func PriceLabel(loc locale.Locale, r PriceRange) string {
	switch r.kind {
	case atLeast:
		return locale.FormatRupees(loc, r.min) + "+"
	case between:
		return locale.FormatRupees(loc, r.min) + " - " + locale.FormatRupees(loc, r.max)
	default:
		return locale.T(loc, locale.MsgAllPrices)
	}
}

func choices(loc locale.Locale, allKey string, values []string, labels map[string]locale.Text) []Choice {
	out := make([]Choice, 0, len(values)+1)
	out = append(out, Choice{Value: AllSentinel, Label: locale.T(loc, allKey)})
	for _, v := range values {
		out = append(out, Choice{Value: v, Label: label(loc, v, labels)})
	}
	return out
}

func priceChoices(loc locale.Locale) []Choice {
	out := make([]Choice, 0, len(PresetPriceRanges)+1)
	out = append(out, Choice{Value: AllSentinel, Label: PriceLabel(loc, AnyPrice())})
	for _, r := range PresetPriceRanges {
		out = append(out, Choice{Value: r.String(), Label: PriceLabel(loc, r)})
	}
	return out
}

func label(loc locale.Locale, value string, labels map[string]locale.Text) string {
	if t, ok := labels[value]; ok {
		return t.Pick(loc)
	}
	return value
}
