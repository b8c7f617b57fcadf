package api

import (
	"net/http"
	"strings"

	"github.com/okian/modtier/internal/domain/catalog"
)

// FamiliesHandler exposes modifier family listings.
type FamiliesHandler struct {
	deps FamilyDependencies
}

// NewFamiliesHandler creates a new families handler.
func NewFamiliesHandler(deps FamilyDependencies) *FamiliesHandler {
	return &FamiliesHandler{deps: deps}
}

// HandleGetFamily handles GET /families/{group}/{slot} requests.
// With ?format=text the member keys are returned one per line.
func (h *FamiliesHandler) HandleGetFamily(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_family"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	params, ok := pathParams(r.URL.Path, "/families/", 2)
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	view, err := h.deps.Family(r.Context(), params[0], catalog.ParseAffixSlot(params[1]))
	if err != nil {
		writeDomainError(w, op, err)
		return
	}

	if r.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(strings.Join(view.Keys, "\n")))
		return
	}
	writeJSON(w, http.StatusOK, view)
}
