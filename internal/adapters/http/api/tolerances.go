package api

import (
	"net/http"

	"github.com/okian/tapcheck/internal/domain/classifier"
)

// TolerancesDependencies exposes the installed classifier settings.
type TolerancesDependencies interface {
	ClassifierName() string
	Tolerances() classifier.Config
}

// TolerancesHandler reports the active classifier and its tolerances.
type TolerancesHandler struct {
	deps TolerancesDependencies
}

// NewTolerancesHandler creates a new tolerances handler.
func NewTolerancesHandler(deps TolerancesDependencies) *TolerancesHandler {
	return &TolerancesHandler{deps: deps}
}

type tolerancesResponse struct {
	Classifier string `json:"classifier"`
	classifier.Config
}

// HandleTolerances handles GET /tolerances requests.
func (h *TolerancesHandler) HandleTolerances(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	writeJSON(w, http.StatusOK, tolerancesResponse{
		Classifier: h.deps.ClassifierName(),
		Config:     h.deps.Tolerances(),
	})
}
