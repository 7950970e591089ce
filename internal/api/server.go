// Package api exposes the review HTTP API consumed by the onboarding wizard:
// effective match results, correction submission, and the failure-reason
// aggregates behind the dashboard charts. Matching itself runs once up
// front; a correction re-runs suggestion building only.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/fixwell/autocare-match/internal/classify"
	"github.com/fixwell/autocare-match/internal/engine"
	"github.com/fixwell/autocare-match/internal/model"
	"github.com/fixwell/autocare-match/internal/refdata"
)

// OverrideStore is the slice of the storage layer the API needs.
type OverrideStore interface {
	SaveOverride(ctx context.Context, override *model.ReviewedOverride) error
	GetOverride(ctx context.Context, recordType model.RecordType, recordID string) (*model.ReviewedOverride, error)
}

// Server serves review traffic over the results of one batch run.
type Server struct {
	store       OverrideStore
	vehicleIdx  *refdata.VehicleIndex
	partIdx     *refdata.PartIndex
	classifyCfg classify.Config

	vehicles map[string]engine.VehicleOutcome
	parts    map[string]engine.PartOutcome
}

// NewServer builds a review server from precomputed batch outcomes. The
// outcomes carry the computed tier; the store carries the human tier.
func NewServer(store OverrideStore, vehicleIdx *refdata.VehicleIndex, partIdx *refdata.PartIndex, classifyCfg classify.Config, vehicleOutcomes []engine.VehicleOutcome, partOutcomes []engine.PartOutcome) *Server {
	s := &Server{
		store:       store,
		vehicleIdx:  vehicleIdx,
		partIdx:     partIdx,
		classifyCfg: classifyCfg,
		vehicles:    make(map[string]engine.VehicleOutcome, len(vehicleOutcomes)),
		parts:       make(map[string]engine.PartOutcome, len(partOutcomes)),
	}
	for _, outcome := range vehicleOutcomes {
		s.vehicles[outcome.Unit.UnitID] = outcome
	}
	for _, outcome := range partOutcomes {
		s.parts[outcome.Part.PartID] = outcome
	}
	return s
}

// Router assembles the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": "autocare-match"})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Get("/matches/{recordType}/{recordID}", s.handleGetMatch)
		r.Post("/matches/{recordType}/{recordID}/review", s.handleReview)
		r.Get("/failures", s.handleFailures)
	})

	return r
}
