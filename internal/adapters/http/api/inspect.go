package api

import (
	"encoding/json"
	"net/http"
)

// InspectHandler classifies a whole item in the request path.
type InspectHandler struct {
	deps InspectDependencies
}

// NewInspectHandler creates a new inspect handler.
func NewInspectHandler(deps InspectDependencies) *InspectHandler {
	return &InspectHandler{deps: deps}
}

// HandleInspect handles POST /inspect requests.
func (h *InspectHandler) HandleInspect(w http.ResponseWriter, r *http.Request) {
	const op = "api.inspect"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	rep, err := h.deps.Inspect(r.Context(), req.item())
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, newReportResponse(rep))
}
