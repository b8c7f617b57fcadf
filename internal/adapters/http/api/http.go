// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/modtier/internal/domain/catalog"
	"github.com/okian/modtier/internal/domain/inspect"
	"github.com/okian/modtier/internal/domain/model"
	"github.com/okian/modtier/internal/domain/tiers"
	"github.com/okian/modtier/pkg/metrics"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	ClassifyDependencies
	InspectDependencies
	InspectionDependencies
	FamilyDependencies
	HealthDependencies
	StatsProvider
}

// ClassifyDependencies resolves a single modifier tier.
type ClassifyDependencies interface {
	Classify(ctx context.Context, req model.ClassifyRequest) (tiers.Result, error)
}

// InspectDependencies classifies a whole item synchronously.
type InspectDependencies interface {
	Inspect(ctx context.Context, item inspect.Item) (inspect.Report, error)
}

// InspectionDependencies queues items and serves their reports.
type InspectionDependencies interface {
	// Submit queues item and returns its inspection id.
	// Errors wrapping model.ErrBackpressure signal a full queue.
	Submit(ctx context.Context, item inspect.Item) (id string, duplicate bool, err error)
	Report(ctx context.Context, id string) (inspect.Report, error)
}

// FamilyDependencies lists modifier families.
type FamilyDependencies interface {
	Family(ctx context.Context, group string, slot catalog.AffixSlot) (model.FamilyView, error)
}

// HealthDependencies reports the loaded catalog size.
type HealthDependencies interface {
	CatalogSize(ctx context.Context) (records, families int)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	classifyHandler    *ClassifyHandler
	inspectHandler     *InspectHandler
	inspectionsHandler *InspectionsHandler
	familiesHandler    *FamiliesHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(deps),
		statsHandler:       NewStatsHandler(deps),
		classifyHandler:    NewClassifyHandler(deps),
		inspectHandler:     NewInspectHandler(deps),
		inspectionsHandler: NewInspectionsHandler(deps),
		familiesHandler:    NewFamiliesHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/classify", MetricsMiddleware(s.classifyHandler.HandleClassify, "classify"))
	mux.HandleFunc("/inspect", MetricsMiddleware(s.inspectHandler.HandleInspect, "inspect"))
	mux.HandleFunc("/inspections", MetricsMiddleware(s.inspectionsHandler.HandleSubmit, "inspections"))
	mux.HandleFunc("/inspections/", MetricsMiddleware(s.inspectionsHandler.HandleGetReport, "inspection"))
	mux.HandleFunc("/families/", MetricsMiddleware(s.familiesHandler.HandleGetFamily, "families"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError maps the shared error kinds to HTTP statuses.
func writeDomainError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, model.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
	case errors.Is(err, model.ErrInvalid):
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
	case errors.Is(err, model.ErrBackpressure):
		writeError(w, http.StatusTooManyRequests, "backpressure", WrapKind(op, ErrBackpressure, err))
	case errors.Is(err, model.ErrUnavailable):
		writeError(w, http.StatusServiceUnavailable, "unavailable", Wrap(op, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}

// pathParams splits the URL path after prefix into n non-empty segments.
func pathParams(path, prefix string, n int) ([]string, bool) {
	rest := strings.TrimPrefix(path, prefix)
	if rest == path {
		return nil, false
	}
	parts := strings.Split(rest, "/")
	if len(parts) != n {
		return nil, false
	}
	for _, p := range parts {
		if p == "" {
			return nil, false
		}
	}
	return parts, true
}

// itemRequest mirrors the JSON body of POST /inspect and POST /inspections.
type itemRequest struct {
	ID       string   `json:"id"`
	BasePath string   `json:"base_path"`
	Tags     []string `json:"tags"`
	Mods     []struct {
		Key string `json:"key"`
	} `json:"mods"`
}

func (r itemRequest) validate() error {
	if strings.TrimSpace(r.BasePath) == "" && len(r.Mods) == 0 {
		return errors.New("missing base_path and mods")
	}
	for i, m := range r.Mods {
		if strings.TrimSpace(m.Key) == "" {
			return fmt.Errorf("mods[%d]: missing key", i)
		}
	}
	return nil
}

func (r itemRequest) item() inspect.Item {
	item := inspect.Item{
		ID:       strings.TrimSpace(r.ID),
		BasePath: r.BasePath,
		Tags:     r.Tags,
		Mods:     make([]inspect.ModInstance, 0, len(r.Mods)),
	}
	for _, m := range r.Mods {
		item.Mods = append(item.Mods, inspect.ModInstance{Key: m.Key})
	}
	return item
}

// reportResponse is a report plus its rendered text lines.
type reportResponse struct {
	inspect.Report
	Lines []string `json:"lines"`
}

func newReportResponse(rep inspect.Report) reportResponse {
	return reportResponse{Report: rep, Lines: rep.Lines()}
}
