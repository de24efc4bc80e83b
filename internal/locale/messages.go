package locale

import (
	"fmt"
	"log/slog"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Message keys used by the API layer
const (
	MsgShowingProducts = "marketplace.showing"
	MsgProductNotFound = "product.not_found"
	MsgFarmerNotFound  = "farmer.not_found"
	MsgAllTypes        = "filter.all_types"
	MsgAllCategories   = "filter.all_categories"
	MsgAllPrices       = "filter.all_prices"
	MsgMilletType      = "filter.millet_type"
	MsgCategory        = "filter.category"
	MsgPriceRange      = "filter.price_range"
	MsgSearchProducts  = "filter.search"
	MsgClearAll        = "filter.clear_all"
	MsgClearFilters    = "filter.clear_filters"
	MsgNoProducts      = "marketplace.empty"
	MsgTotalEarnings   = "dashboard.total_earnings"
	MsgTotalOrders     = "dashboard.total_orders"
	MsgActiveListings  = "dashboard.active_listings"
	MsgRating          = "dashboard.rating"
)

// messages is the bilingual UI string catalog
var messages = map[string]Text{
	MsgShowingProducts: {En: "Showing %d products", Hi: "दिखाया जा रहा है %d उत्पाद"},
	MsgProductNotFound: {En: "Product not found", Hi: "उत्पाद नहीं मिला"},
	MsgFarmerNotFound:  {En: "Farmer not found", Hi: "किसान नहीं मिला"},
	MsgAllTypes:        {En: "All Types", Hi: "सभी प्रकार"},
	MsgAllCategories:   {En: "All Categories", Hi: "सभी श्रेणियां"},
	MsgAllPrices:       {En: "All Prices", Hi: "सभी कीमतें"},
	MsgMilletType:      {En: "Millet Type", Hi: "मिलेट प्रकार"},
	MsgCategory:        {En: "Category", Hi: "श्रेणी"},
	MsgPriceRange:      {En: "Price Range", Hi: "मूल्य सीमा"},
	MsgSearchProducts:  {En: "Search products...", Hi: "उत्पाद खोजें..."},
	MsgClearAll:        {En: "Clear All", Hi: "सभी साफ़ करें"},
	MsgClearFilters:    {En: "Clear Filters", Hi: "फ़िल्टर साफ़ करें"},
	MsgNoProducts:      {En: "No products found", Hi: "कोई उत्पाद नहीं मिला"},
	MsgTotalEarnings:   {En: "Total Earnings", Hi: "कुल कमाई"},
	MsgTotalOrders:     {En: "Total Orders", Hi: "कुल ऑर्डर"},
	MsgActiveListings:  {En: "Active Listings", Hi: "सक्रिय सूचियां"},
	MsgRating:          {En: "Rating", Hi: "रेटिंग"},
}

// T renders the message identified by key for loc. Unknown keys render as
// the key itself so a missing translation is visible rather than blank.
func T(loc Locale, key string, args ...any) string {
	msg, ok := messages[key]
	if !ok {
		slog.Debug("Missing message key", "key", key, "locale", loc)
		return key
	}
	if len(args) == 0 {
		return msg.Pick(loc)
	}
	return fmt.Sprintf(msg.Pick(loc), args...)
}

// ProductSummary is the result line of a product listing. An empty result
// reads as the empty-state message instead of a zero count.
func ProductSummary(loc Locale, count int) string {
	if count == 0 {
		return T(loc, MsgNoProducts)
	}
	return T(loc, MsgShowingProducts, count)
}

// rupeeTag selects Indian digit grouping (last three digits, then groups
// of two) for both display languages
var rupeeTag = language.MustParse("en-IN")

// FormatRupees formats amount as Indian rupees, e.g. ₹1,25,000. Paise are
// shown with two digits only when non-zero. The grouping is identical for
// both locales.
func FormatRupees(_ Locale, amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	whole := math.Floor(amount)
	paise := math.Round((amount - whole) * 100)
	if paise >= 100 {
		whole++
		paise = 0
	}

	p := message.NewPrinter(rupeeTag)
	if paise > 0 {
		return sign + "₹" + p.Sprint(number.Decimal(whole+paise/100,
			number.MinFractionDigits(2), number.MaxFractionDigits(2)))
	}
	return sign + "₹" + p.Sprint(number.Decimal(whole, number.MaxFractionDigits(0)))
}
