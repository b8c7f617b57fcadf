package api

import (
	"net/http"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	deps HealthDependencies
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(deps HealthDependencies) *HealthHandler {
	return &HealthHandler{deps: deps}
}

type healthResponse struct {
	Status         string `json:"status"`
	CatalogRecords int    `json:"catalog_records"`
	Families       int    `json:"families"`
}

// HandleHealth handles GET /healthz requests.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	records, families := h.deps.CatalogSize(r.Context())
	writeJSON(w, http.StatusOK, healthResponse{
		Status:         "ok",
		CatalogRecords: records,
		Families:       families,
	})
}
