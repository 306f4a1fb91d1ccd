package api

import (
	"context"
	"encoding/json"
	"net/http"

	service "github.com/okian/tapcheck/internal/app"
	"github.com/okian/tapcheck/internal/domain/tap"
)

// Requests larger than this are rejected; a curve summary is tiny.
const maxClassifyBody = 64 << 10

// ClassifyDependencies defines what the classify handler needs.
type ClassifyDependencies interface {
	Classify(ctx context.Context, c *tap.Curve) service.Verdict
}

// ClassifyHandler handles classification requests.
type ClassifyHandler struct {
	deps ClassifyDependencies
}

// NewClassifyHandler creates a new classify handler.
func NewClassifyHandler(deps ClassifyDependencies) *ClassifyHandler {
	return &ClassifyHandler{deps: deps}
}

// HandleClassify handles POST /classify requests.
func (h *ClassifyHandler) HandleClassify(w http.ResponseWriter, r *http.Request) {
	const op = "api.classify"
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	var req curveRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxClassifyBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	v := h.deps.Classify(r.Context(), req.curve())
	writeJSON(w, http.StatusOK, newVerdictResponse(v))
}
