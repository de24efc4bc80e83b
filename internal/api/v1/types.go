package v1

import (
	"github.com/milletmart/catalog-server/internal/catalog"
	"github.com/milletmart/catalog-server/internal/farmers"
	"github.com/milletmart/catalog-server/internal/filtering"
	"github.com/milletmart/catalog-server/internal/locale"
	"github.com/milletmart/catalog-server/internal/schemes"
	"github.com/milletmart/catalog-server/internal/service"
)

// ProductView is a product with its presentation fields resolved for one locale
type ProductView struct {
	catalog.Product
	DisplayName        string   `json:"displayName"`
	DisplayDescription string   `json:"displayDescription,omitempty"`
	TypeLabel          string   `json:"typeLabel"`
	CategoryLabel      string   `json:"categoryLabel"`
	PriceLabel         string   `json:"priceLabel"`
	Badges             []string `json:"badges"`
}

// AppliedFilters echoes the filters in their normalized wire form
type AppliedFilters struct {
	Search   string `json:"search"`
	Type     string `json:"type"`
	Category string `json:"category"`
	Price    string `json:"price"`
}

// ProductListResponse is the body of GET /products
type ProductListResponse struct {
	Locale        locale.Locale  `json:"locale"`
	Products      []ProductView  `json:"products"`
	Count         int            `json:"count"`
	Summary       string         `json:"summary"`
	FiltersActive bool           `json:"filtersActive"`
	Filters       AppliedFilters `json:"filters"`
}

// FeaturedResponse is the body of GET /products/featured
type FeaturedResponse struct {
	Locale   locale.Locale `json:"locale"`
	Products []ProductView `json:"products"`
	Count    int           `json:"count"`
}

// FilterOptionsResponse is the body of GET /filters
type FilterOptionsResponse struct {
	Locale locale.Locale `json:"locale"`
	filtering.Options
	Labels map[string]string `json:"labels"`
}

// SchemesResponse is the body of GET /schemes
type SchemesResponse struct {
	Locale  locale.Locale       `json:"locale"`
	Schemes []schemes.Localized `json:"schemes"`
	Count   int                 `json:"count"`
}

// DashboardResponse is the body of the farmer dashboard endpoints
type DashboardResponse struct {
	Locale         locale.Locale         `json:"locale"`
	Farmer         farmers.User          `json:"farmer"`
	TotalEarnings  float64               `json:"totalEarnings"`
	EarningsLabel  string                `json:"earningsLabel"`
	TotalOrders    int                   `json:"totalOrders"`
	Rating         float64               `json:"rating"`
	OrdersByStatus map[string]int        `json:"ordersByStatus"`
	ActiveListings []ProductView         `json:"activeListings"`
	Transactions   []farmers.Transaction `json:"transactions"`
	Labels         map[string]string     `json:"labels"`
}

func newProductView(loc locale.Locale, p catalog.Product) ProductView {
	price := locale.FormatRupees(loc, p.Price)
	if p.Unit != "" {
		price += " " + p.Unit
	}
	return ProductView{
		Product:            p,
		DisplayName:        p.DisplayName(loc),
		DisplayDescription: p.DisplayDescription(loc),
		TypeLabel:          filtering.TypeLabel(loc, p.Type),
		CategoryLabel:      filtering.CategoryLabel(loc, p.Category),
		PriceLabel:         price,
		Badges:             p.Badges(),
	}
}

func newProductViews(loc locale.Locale, products []catalog.Product) []ProductView {
	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, newProductView(loc, p))
	}
	return views
}

func newProductListResponse(loc locale.Locale, list *service.ProductList) ProductListResponse {
	return ProductListResponse{
		Locale:        loc,
		Products:      newProductViews(loc, list.Products),
		Count:         list.Count,
		Summary:       locale.ProductSummary(loc, list.Count),
		FiltersActive: list.Criteria.Active(),
		Filters: AppliedFilters{
			Search:   list.Criteria.Search,
			Type:     list.Criteria.Type.String(),
			Category: list.Criteria.Category.String(),
			Price:    list.Criteria.Price.String(),
		},
	}
}

func newFilterOptionsResponse(loc locale.Locale, options filtering.Options) FilterOptionsResponse {
	return FilterOptionsResponse{
		Locale:  loc,
		Options: options,
		Labels: map[string]string{
			"search":       locale.T(loc, locale.MsgSearchProducts),
			"milletType":   locale.T(loc, locale.MsgMilletType),
			"category":     locale.T(loc, locale.MsgCategory),
			"priceRange":   locale.T(loc, locale.MsgPriceRange),
			"clearAll":     locale.T(loc, locale.MsgClearAll),
			"clearFilters": locale.T(loc, locale.MsgClearFilters),
			"noProducts":   locale.T(loc, locale.MsgNoProducts),
		},
	}
}

func newDashboardResponse(loc locale.Locale, d *farmers.Dashboard) DashboardResponse {
	return DashboardResponse{
		Locale:         loc,
		Farmer:         d.Farmer,
		TotalEarnings:  d.TotalEarnings,
		EarningsLabel:  locale.FormatRupees(loc, d.TotalEarnings),
		TotalOrders:    d.TotalOrders,
		Rating:         d.Rating,
		OrdersByStatus: d.OrdersByStatus,
		ActiveListings: newProductViews(loc, d.ActiveListings),
		Transactions:   d.Transactions,
		Labels: map[string]string{
			"totalEarnings":  locale.T(loc, locale.MsgTotalEarnings),
			"totalOrders":    locale.T(loc, locale.MsgTotalOrders),
			"activeListings": locale.T(loc, locale.MsgActiveListings),
			"rating":         locale.T(loc, locale.MsgRating),
		},
	}
}
