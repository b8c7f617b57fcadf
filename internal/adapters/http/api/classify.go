package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/modtier/internal/domain/model"
	"github.com/okian/modtier/internal/domain/tiers"
)

// ClassifyHandler handles single-modifier tier requests.
type ClassifyHandler struct {
	deps ClassifyDependencies
}

// NewClassifyHandler creates a new classify handler.
func NewClassifyHandler(deps ClassifyDependencies) *ClassifyHandler {
	return &ClassifyHandler{deps: deps}
}

type classifyRequest struct {
	BasePath string   `json:"base_path"`
	Tags     []string `json:"tags"`
	ModKey   string   `json:"mod_key"`
}

func (c classifyRequest) validate() error {
	if strings.TrimSpace(c.ModKey) == "" {
		return errors.New("missing mod_key")
	}
	return nil
}

type classifyResponse struct {
	Key           string       `json:"key"`
	Group         string       `json:"group"`
	Slot          string       `json:"slot"`
	Tier          int          `json:"tier"`
	TotalTiers    int          `json:"total_tiers"`
	ValidTierKeys []string     `json:"valid_tier_keys"`
	Source        tiers.Source `json:"source"`
}

func newClassifyResponse(res tiers.Result) classifyResponse {
	keys := res.ValidTierKeys
	if keys == nil {
		keys = []string{}
	}
	return classifyResponse{
		Key:           res.Record.Key,
		Group:         res.Record.Group,
		Slot:          string(res.Record.Slot),
		Tier:          res.Tier,
		TotalTiers:    res.TotalTiers,
		ValidTierKeys: keys,
		Source:        res.Source,
	}
}

// HandleClassify handles POST /classify requests.
func (h *ClassifyHandler) HandleClassify(w http.ResponseWriter, r *http.Request) {
	const op = "api.classify"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req classifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	res, err := h.deps.Classify(r.Context(), model.ClassifyRequest{
		BasePath: req.BasePath,
		Tags:     req.Tags,
		ModKey:   strings.TrimSpace(req.ModKey),
	})
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, newClassifyResponse(res))
}
