// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	service "github.com/okian/tapcheck/internal/app"
	"github.com/okian/tapcheck/internal/domain/classifier"
	"github.com/okian/tapcheck/internal/domain/tap"
)

// Dependencies required by HTTP handlers.
type Dependencies interface {
	Classify(ctx context.Context, c *tap.Curve) service.Verdict
	ClassifierName() string
	Tolerances() classifier.Config
}

// Server wires HTTP routes for the classification API.
type Server struct {
	healthHandler    *HealthHandler
	classifyHandler  *ClassifyHandler
	toleranceHandler *TolerancesHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		classifyHandler:  NewClassifyHandler(deps),
		toleranceHandler: NewTolerancesHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/classify", MetricsMiddleware(s.classifyHandler.HandleClassify, "classify"))
	mux.HandleFunc("/tolerances", MetricsMiddleware(s.toleranceHandler.HandleTolerances, "tolerances"))
}

// curveRequest is the JSON shape of a curve summary.
type curveRequest struct {
	ID           string      `json:"id"`
	TriggerForce *float64    `json:"trigger_force"`
	Points       []tap.Point `json:"points"`
	Anomalies    []string    `json:"anomalies"`
	IsValid      *bool       `json:"is_valid"`
}

func (r curveRequest) validate() error {
	switch {
	case r.TriggerForce == nil:
		return errors.New("missing trigger_force")
	case len(r.Points) != tap.PointCount:
		return fmt.Errorf("points must hold exactly %d entries, got %d", tap.PointCount, len(r.Points))
	}
	return nil
}

// curve converts a validated request to a curve summary.
func (r curveRequest) curve() *tap.Curve {
	var pts [tap.PointCount]tap.Point
	copy(pts[:], r.Points)
	c := tap.NewCurve(pts, *r.TriggerForce)
	c.ID = r.ID
	for _, a := range r.Anomalies {
		c.AddAnomaly(tap.Anomaly(a))
	}
	if r.IsValid != nil {
		c.Valid = *r.IsValid
	}
	return c
}

type verdictResponse struct {
	ID        string   `json:"id"`
	IsValid   bool     `json:"is_valid"`
	Anomalies []string `json:"anomalies"`
	Added     []string `json:"added"`
	Skipped   bool     `json:"skipped"`
}

func newVerdictResponse(v service.Verdict) verdictResponse {
	return verdictResponse{
		ID:        v.TapID,
		IsValid:   v.Valid,
		Anomalies: anomalyStrings(v.Anomalies),
		Added:     anomalyStrings(v.Added),
		Skipped:   v.Skipped,
	}
}

func anomalyStrings(in []tap.Anomaly) []string {
	out := make([]string, len(in))
	for i, a := range in {
		out[i] = string(a)
	}
	return out
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
