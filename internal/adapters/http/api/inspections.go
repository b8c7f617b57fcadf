package api

import (
	"encoding/json"
	"net/http"
)

// InspectionsHandler handles asynchronous inspections.
type InspectionsHandler struct {
	deps InspectionDependencies
}

// NewInspectionsHandler creates a new inspections handler.
func NewInspectionsHandler(deps InspectionDependencies) *InspectionsHandler {
	return &InspectionsHandler{deps: deps}
}

type ackResponse struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// HandleSubmit handles POST /inspections requests.
func (h *InspectionsHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	const op = "api.submit_inspection"
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

	id, duplicate, err := h.deps.Submit(r.Context(), req.item())
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	if duplicate {
		writeJSON(w, http.StatusOK, ackResponse{ID: id, Status: "duplicate", Duplicate: true})
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{ID: id, Status: "accepted"})
}

// HandleGetReport handles GET /inspections/{id} requests.
func (h *InspectionsHandler) HandleGetReport(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_inspection"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	params, ok := pathParams(r.URL.Path, "/inspections/", 1)
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	rep, err := h.deps.Report(r.Context(), params[0])
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, newReportResponse(rep))
}
