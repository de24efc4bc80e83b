// Package v1 provides the marketplace catalog API.
package v1

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/milletmart/catalog-server/internal/api/common"
	"github.com/milletmart/catalog-server/internal/catalog"
	"github.com/milletmart/catalog-server/internal/farmers"
	"github.com/milletmart/catalog-server/internal/locale"
	"github.com/milletmart/catalog-server/internal/schemes"
	"github.com/milletmart/catalog-server/internal/service"
)

// Routes handles HTTP requests for the v1 catalog endpoints
type Routes struct {
	service service.CatalogService
}

// NewRoutes creates a new Routes instance with the given service
func NewRoutes(svc service.CatalogService) *Routes {
	return &Routes{service: svc}
}

// Router creates the router for the v1 catalog endpoints. Handlers read the
// display language from the request context.
func Router(svc service.CatalogService) http.Handler {
	routes := NewRoutes(svc)

	r := chi.NewRouter()

	r.Get("/products", routes.listProducts)
	r.Get("/products/featured", routes.listFeatured)
	r.Get("/products/{id}", routes.getProduct)
	r.Get("/filters", routes.getFilterOptions)
	r.Get("/schemes", routes.listSchemes)
	r.Get("/learn", routes.getLearnContent)
	r.Get("/farmers/dashboard", routes.getDemoDashboard)
	r.Get("/farmers/{id}/dashboard", routes.getFarmerDashboard)
	r.Get("/info", routes.getInfo)
	r.Post("/admin/reload", routes.reload)

	return r
}

// listProducts handles GET /api/v1/products
//
// @Summary		List marketplace products
// @Description	Filters the catalog by search text, millet type, category and price range.
// @Description	Unrecognized or malformed filter values place no constraint.
// @Tags		catalog
// @Produce		json
// @Param		search		query	string	false	"Case-insensitive match on English name or type; exact substring on Hindi name"
// @Param		type		query	string	false	"Millet type or 'all'"
// @Param		category	query	string	false	"Category or 'all'"
// @Param		price		query	string	false	"'min-max', 'min+' or 'all'"
// @Param		lang		query	string	false	"Display language (en, hi)"
// @Success		200	{object}	ProductListResponse
// @Failure		503	{object}	common.ErrorResponse
// @Router		/api/v1/products [get]
func (routes *Routes) listProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	list, err := routes.service.ListProducts(r.Context(),
		service.WithSearch(query.Get("search")),
		service.WithType(query.Get("type")),
		service.WithCategory[service.ListProductsOptions](query.Get("category")),
		service.WithPriceRange(query.Get("price")),
	)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	common.WriteJSONResponse(w, newProductListResponse(locale.FromContext(r.Context()), list), http.StatusOK)
}

// listFeatured handles GET /api/v1/products/featured
//
// @Summary		List featured products
// @Description	Returns the leading products of the catalog for the home page.
// @Tags		catalog
// @Produce		json
// @Param		limit	query	int	false	"Number of products"
// @Success		200	{object}	FeaturedResponse
// @Failure		400	{object}	common.ErrorResponse
// @Router		/api/v1/products/featured [get]
func (routes *Routes) listFeatured(w http.ResponseWriter, r *http.Request) {
	opts := []service.Option[service.ListFeaturedOptions]{}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			common.WriteErrorResponse(w, "Invalid limit parameter: must be a positive integer", http.StatusBadRequest)
			return
		}
		opts = append(opts, service.WithLimit(limit))
	}

	products, err := routes.service.ListFeaturedProducts(r.Context(), opts...)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	loc := locale.FromContext(r.Context())
	common.WriteJSONResponse(w, FeaturedResponse{
		Locale:   loc,
		Products: newProductViews(loc, products),
		Count:    len(products),
	}, http.StatusOK)
}

// getProduct handles GET /api/v1/products/{id}
//
// @Summary		Get product details
// @Tags		catalog
// @Produce		json
// @Param		id	path	string	true	"Product id"
// @Success		200	{object}	ProductView
// @Failure		404	{object}	common.ErrorResponse
// @Router		/api/v1/products/{id} [get]
func (routes *Routes) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := common.PathID(r, "id")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	product, err := routes.service.GetProduct(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	common.WriteJSONResponse(w, newProductView(locale.FromContext(r.Context()), *product), http.StatusOK)
}

// getFilterOptions handles GET /api/v1/filters
//
// @Summary		Get marketplace filter options
// @Description	Returns the localized type, category and price-range choices and the filter control labels. The first choice of each list selects everything.
// @Tags		catalog
// @Produce		json
// @Success		200	{object}	FilterOptionsResponse
// @Router		/api/v1/filters [get]
func (routes *Routes) getFilterOptions(w http.ResponseWriter, r *http.Request) {
	loc := locale.FromContext(r.Context())

	options, err := routes.service.GetFilterOptions(r.Context(), loc)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	common.WriteJSONResponse(w, newFilterOptionsResponse(loc, *options), http.StatusOK)
}

// listSchemes handles GET /api/v1/schemes
//
// @Summary		List government schemes
// @Tags		schemes
// @Produce		json
// @Param		category	query	string	false	"Scheme category or 'all'"
// @Success		200	{object}	SchemesResponse
// @Router		/api/v1/schemes [get]
func (routes *Routes) listSchemes(w http.ResponseWriter, r *http.Request) {
	list, err := routes.service.ListSchemes(r.Context(),
		service.WithCategory[service.ListSchemesOptions](r.URL.Query().Get("category")))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	loc := locale.FromContext(r.Context())
	localized := make([]schemes.Localized, 0, len(list))
	for i := range list {
		localized = append(localized, list[i].Localize(loc))
	}
	common.WriteJSONResponse(w, SchemesResponse{Locale: loc, Schemes: localized, Count: len(list)}, http.StatusOK)
}

// getLearnContent handles GET /api/v1/learn
//
// @Summary		Get educational content about millets
// @Tags		learn
// @Produce		json
// @Success		200	{object}	learn.LocalizedContent
// @Router		/api/v1/learn [get]
func (routes *Routes) getLearnContent(w http.ResponseWriter, r *http.Request) {
	content, err := routes.service.GetLearnContent(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	common.WriteJSONResponse(w, content.Localize(locale.FromContext(r.Context())), http.StatusOK)
}

// getDemoDashboard handles GET /api/v1/farmers/dashboard
//
// @Summary		Get the demo farmer dashboard
// @Tags		farmers
// @Produce		json
// @Success		200	{object}	DashboardResponse
// @Router		/api/v1/farmers/dashboard [get]
func (routes *Routes) getDemoDashboard(w http.ResponseWriter, r *http.Request) {
	routes.handleDashboard(w, r)
}

// getFarmerDashboard handles GET /api/v1/farmers/{id}/dashboard
//
// @Summary		Get a farmer dashboard
// @Tags		farmers
// @Produce		json
// @Param		id	path	string	true	"Farmer user id"
// @Success		200	{object}	DashboardResponse
// @Failure		404	{object}	common.ErrorResponse
// @Router		/api/v1/farmers/{id}/dashboard [get]
func (routes *Routes) getFarmerDashboard(w http.ResponseWriter, r *http.Request) {
	id, err := common.PathID(r, "id")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	routes.handleDashboard(w, r, service.WithFarmerID(id))
}

func (routes *Routes) handleDashboard(
	w http.ResponseWriter,
	r *http.Request,
	opts ...service.Option[service.GetDashboardOptions],
) {
	dashboard, err := routes.service.GetFarmerDashboard(r.Context(), opts...)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	common.WriteJSONResponse(w, newDashboardResponse(locale.FromContext(r.Context()), dashboard), http.StatusOK)
}

// getInfo handles GET /api/v1/info
//
// @Summary		Get catalog snapshot metadata
// @Tags		system
// @Produce		json
// @Success		200	{object}	service.Info
// @Router		/api/v1/info [get]
func (routes *Routes) getInfo(w http.ResponseWriter, r *http.Request) {
	info, err := routes.service.GetInfo(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	common.WriteJSONResponse(w, info, http.StatusOK)
}

// reload handles POST /api/v1/admin/reload
//
// @Summary		Reload fixtures
// @Description	Loads a fresh snapshot from the configured sources. The previous snapshot is kept on failure.
// @Tags		system
// @Produce		json
// @Success		200	{object}	service.Info
// @Failure		502	{object}	common.ErrorResponse
// @Router		/api/v1/admin/reload [post]
func (routes *Routes) reload(w http.ResponseWriter, r *http.Request) {
	if err := routes.service.Reload(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "Catalog reload failed", "error", err)
		common.WriteErrorResponse(w, err.Error(), http.StatusBadGateway)
		return
	}
	routes.getInfo(w, r)
}

// writeServiceError maps service errors to HTTP responses. Not-found
// messages are localized.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	loc := locale.FromContext(r.Context())

	switch {
	case errors.Is(err, catalog.ErrProductNotFound):
		common.WriteErrorResponse(w, locale.T(loc, locale.MsgProductNotFound), http.StatusNotFound)
	case errors.Is(err, farmers.ErrFarmerNotFound):
		common.WriteErrorResponse(w, locale.T(loc, locale.MsgFarmerNotFound), http.StatusNotFound)
	case errors.Is(err, service.ErrNotReady):
		common.WriteErrorResponse(w, err.Error(), http.StatusServiceUnavailable)
	default:
		slog.ErrorContext(r.Context(), "Request failed", "path", r.URL.Path, "error", err)
		common.WriteErrorResponse(w, err.Error(), http.StatusInternalServerError)
	}
}
