package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fixwell/autocare-match/internal/classify"
	"github.com/fixwell/autocare-match/internal/common"
	"github.com/fixwell/autocare-match/internal/model"
)

// MatchResultDTO is the wire form of a match result.
type MatchResultDTO struct {
	MatchedEntity  int64          `json:"matchedEntity,omitempty"`
	MatchingMethod string         `json:"matchingMethod"`
	Confidence     float64        `json:"confidence"`
	Alternatives   []CandidateDTO `json:"alternatives,omitempty"`
	Status         string         `json:"status"`
	FailureReason  string         `json:"failureReason,omitempty"`
}

// CandidateDTO is the wire form of one alternative candidate.
type CandidateDTO struct {
	ReferenceID int64   `json:"referenceId"`
	Label       string  `json:"label,omitempty"`
	Method      string  `json:"method"`
	Confidence  float64 `json:"confidence"`
}

// SuggestionDTO is the wire form of one correction suggestion.
type SuggestionDTO struct {
	Kind     string `json:"kind"`
	Field    string `json:"field"`
	Current  string `json:"current"`
	Proposed string `json:"proposed"`
	Reason   string `json:"reason"`
}

// MatchResponseDTO is the GET /matches response.
type MatchResponseDTO struct {
	RecordID    string          `json:"recordId"`
	Computed    MatchResultDTO  `json:"computed"`
	Effective   EffectiveDTO    `json:"effective"`
	Suggestions []SuggestionDTO `json:"suggestions,omitempty"`
}

// EffectiveDTO is the overlaid view a consumer should act on.
type EffectiveDTO struct {
	MatchedEntity int64  `json:"matchedEntity,omitempty"`
	Status        string `json:"status"`
	Reviewed      bool   `json:"reviewed"`
	ReviewerID    string `json:"reviewerId,omitempty"`
}

// ReviewRequestDTO is the correction payload a reviewer submits.
type ReviewRequestDTO struct {
	Status         string `json:"status"`
	MatchedEntity  int64  `json:"matchedEntity,omitempty"`
	ReviewerID     string `json:"reviewerId"`
	OverrideReason string `json:"overrideReason,omitempty"`

	// Corrected captured fields; suggestions are rebuilt against these
	// without re-running matching.
	CorrectedVIN   string `json:"correctedVin,omitempty"`
	CorrectedMake  string `json:"correctedMake,omitempty"`
	CorrectedModel string `json:"correctedModel,omitempty"`
	CorrectedYear  int    `json:"correctedYear,omitempty"`
	CorrectedTitle string `json:"correctedTitle,omitempty"`
}

// ReviewResponseDTO confirms a persisted review.
type ReviewResponseDTO struct {
	RecordID    string          `json:"recordId"`
	Effective   EffectiveDTO    `json:"effective"`
	Suggestions []SuggestionDTO `json:"suggestions,omitempty"`
}

func (s *Server) handleGetMatch(w http.ResponseWriter, r *http.Request) {
	recordType, recordID, ok := s.recordParams(w, r)
	if !ok {
		return
	}

	computed, suggestions, found := s.lookupOutcome(recordType, recordID)
	if !found {
		writeError(w, http.StatusNotFound, "unknown record")
		return
	}

	override, err := s.loadOverride(r, recordType, recordID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load review state")
		return
	}

	effective := classify.Overlay(computed, override)
	writeJSON(w, http.StatusOK, MatchResponseDTO{
		RecordID:    recordID,
		Computed:    toResultDTO(computed),
		Effective:   toEffectiveDTO(effective),
		Suggestions: toSuggestionDTOs(suggestions),
	})
}

func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	recordType, recordID, ok := s.recordParams(w, r)
	if !ok {
		return
	}

	var req ReviewRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	computed, _, found := s.lookupOutcome(recordType, recordID)
	if !found {
		writeError(w, http.StatusNotFound, "unknown record")
		return
	}

	override := &model.ReviewedOverride{
		RecordType:     recordType,
		RecordID:       recordID,
		MatchedID:      req.MatchedEntity,
		Status:         model.ReviewStatus(req.Status),
		ReviewerID:     req.ReviewerID,
		OverrideReason: req.OverrideReason,
	}
	if err := override.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.SaveOverride(r.Context(), override); err != nil {
		slog.Error("Failed to save override", "record_id", recordID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save review")
		return
	}

	// Suggestions are rebuilt against the corrected values; matching is
	// deliberately not re-run.
	suggestions := s.rebuildSuggestions(recordType, recordID, computed, req)

	effective := classify.Overlay(computed, override)
	writeJSON(w, http.StatusOK, ReviewResponseDTO{
		RecordID:    recordID,
		Effective:   toEffectiveDTO(effective),
		Suggestions: toSuggestionDTOs(suggestions),
	})
}

// FailureBucketDTO is one slice of the failure-reason aggregate.
type FailureBucketDTO struct {
	Reason string `json:"reason"`
	Count  int    `json:"count"`
}

func (s *Server) handleFailures(w http.ResponseWriter, r *http.Request) {
	counts := make(map[model.FailureReason]int)

	switch r.URL.Query().Get("type") {
	case "vehicle":
		for _, outcome := range s.vehicles {
			observeFailure(counts, outcome.Effective.Computed, outcome.Skipped)
		}
	case "part":
		for _, outcome := range s.parts {
			observeFailure(counts, outcome.Effective.Computed, outcome.Skipped)
		}
	default:
		for _, outcome := range s.vehicles {
			observeFailure(counts, outcome.Effective.Computed, outcome.Skipped)
		}
		for _, outcome := range s.parts {
			observeFailure(counts, outcome.Effective.Computed, outcome.Skipped)
		}
	}

	buckets := make([]FailureBucketDTO, 0, len(counts))
	for _, reason := range []model.FailureReason{
		model.FailureNoMatch, model.FailureAmbiguous,
		model.FailureMissingTitle, model.FailureMissingVehicleFields,
	} {
		if counts[reason] > 0 {
			buckets = append(buckets, FailureBucketDTO{Reason: string(reason), Count: counts[reason]})
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"failures": buckets})
}

func observeFailure(counts map[model.FailureReason]int, computed model.MatchResult, skipped bool) {
	if skipped || computed.Status != model.StatusUnmatched {
		return
	}
	counts[computed.FailureReason]++
}

func (s *Server) recordParams(w http.ResponseWriter, r *http.Request) (model.RecordType, string, bool) {
	recordType := model.RecordType(chi.URLParam(r, "recordType"))
	recordID := chi.URLParam(r, "recordID")

	if recordType != model.RecordTypeVehicle && recordType != model.RecordTypePart {
		writeError(w, http.StatusBadRequest, "record type must be vehicle or part")
		return "", "", false
	}
	if recordID == "" {
		writeError(w, http.StatusBadRequest, "record id is required")
		return "", "", false
	}
	return recordType, recordID, true
}

func (s *Server) lookupOutcome(recordType model.RecordType, recordID string) (model.MatchResult, []model.Suggestion, bool) {
	switch recordType {
	case model.RecordTypeVehicle:
		outcome, ok := s.vehicles[recordID]
		return outcome.Effective.Computed, outcome.Suggestions, ok
	case model.RecordTypePart:
		outcome, ok := s.parts[recordID]
		return outcome.Effective.Computed, outcome.Suggestions, ok
	default:
		return model.MatchResult{}, nil, false
	}
}

func (s *Server) loadOverride(r *http.Request, recordType model.RecordType, recordID string) (*model.ReviewedOverride, error) {
	override, err := s.store.GetOverride(r.Context(), recordType, recordID)
	if errors.Is(err, common.ErrNotFound) {
		return nil, nil
	}
	return override, err
}

// rebuildSuggestions applies the reviewer's corrected fields to the captured
// record and rebuilds suggestions from the existing computed result.
func (s *Server) rebuildSuggestions(recordType model.RecordType, recordID string, computed model.MatchResult, req ReviewRequestDTO) []model.Suggestion {
	switch recordType {
	case model.RecordTypeVehicle:
		outcome := s.vehicles[recordID]
		captured := outcome.Unit
		if req.CorrectedVIN != "" {
			captured.VIN = req.CorrectedVIN
		}
		if req.CorrectedMake != "" {
			captured.Make = req.CorrectedMake
		}
		if req.CorrectedModel != "" {
			captured.Model = req.CorrectedModel
		}
		if req.CorrectedYear > 0 {
			captured.Year = req.CorrectedYear
		}
		return classify.BuildVehicleSuggestions(captured, computed, s.vehicleIdx)
	case model.RecordTypePart:
		outcome := s.parts[recordID]
		captured := outcome.Part
		if req.CorrectedTitle != "" {
			captured.Title = req.CorrectedTitle
		}
		return classify.BuildPartSuggestions(captured, computed, s.partIdx)
	default:
		return nil
	}
}

func toResultDTO(result model.MatchResult) MatchResultDTO {
	dto := MatchResultDTO{
		MatchedEntity:  result.MatchedID,
		MatchingMethod: string(result.Method),
		Confidence:     result.Confidence,
		Status:         string(result.Status),
		FailureReason:  string(result.FailureReason),
	}
	for _, alt := range result.Alternatives {
		dto.Alternatives = append(dto.Alternatives, CandidateDTO{
			ReferenceID: alt.ReferenceID,
			Label:       alt.Label,
			Method:      string(alt.Method),
			Confidence:  alt.Confidence,
		})
	}
	return dto
}

func toEffectiveDTO(effective model.EffectiveResult) EffectiveDTO {
	dto := EffectiveDTO{
		MatchedEntity: effective.MatchedID,
		Status:        effective.Status,
		Reviewed:      effective.Reviewed(),
	}
	if effective.Override != nil {
		dto.ReviewerID = effective.Override.ReviewerID
	}
	return dto
}

func toSuggestionDTOs(suggestions []model.Suggestion) []SuggestionDTO {
	dtos := make([]SuggestionDTO, 0, len(suggestions))
	for _, sg := range suggestions {
		dtos = append(dtos, SuggestionDTO{
			Kind:     string(sg.Kind),
			Field:    sg.Field,
			Current:  sg.Current,
			Proposed: sg.Proposed,
			Reason:   sg.Reason,
		})
	}
	return dtos
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
