package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/milletmart/catalog-server/internal/api/common"
	"github.com/milletmart/catalog-server/internal/service"
	"github.com/milletmart/catalog-server/internal/versions"
)

// HealthRouter creates a router for the health, readiness and version endpoints
func HealthRouter(svc service.CatalogService) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", healthHandler)
	r.Get("/readiness", readinessHandler(svc))
	r.Get("/version", versionHandler)

	return r
}

// healthHandler handles health check requests
//
// @Summary		Health check
// @Tags		system
// @Produce		json
// @Success		200	{object}	HealthResponse
// @Router		/health [get]
func healthHandler(w http.ResponseWriter, _ *http.Request) {
	common.WriteJSONResponse(w, HealthResponse{Status: "healthy"}, http.StatusOK)
}

// readinessHandler reports ready once a catalog snapshot has been loaded
//
// @Summary		Readiness check
// @Tags		system
// @Produce		json
// @Success		200	{object}	ReadinessResponse
// @Failure		503	{object}	common.ErrorResponse
// @Router		/readiness [get]
func readinessHandler(svc service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.CheckReadiness(r.Context()); err != nil {
			common.WriteErrorResponse(w, "Catalog not ready: "+err.Error(), http.StatusServiceUnavailable)
			return
		}
		common.WriteJSONResponse(w, ReadinessResponse{Status: "ready"}, http.StatusOK)
	}
}

// versionHandler handles version information requests
//
// @Summary		Version information
// @Tags		system
// @Produce		json
// @Success		200	{object}	versions.Info
// @Router		/version [get]
func versionHandler(w http.ResponseWriter, _ *http.Request) {
	common.WriteJSONResponse(w, versions.Get(), http.StatusOK)
}
