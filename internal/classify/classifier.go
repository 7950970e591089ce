// Package classify turns ranked matcher candidates into terminal,
// human-consumable results and proposes corrections. Everything here is a
// pure function over already-computed match state.
package classify

import (
	"github.com/fixwell/autocare-match/internal/model"
	"github.com/fixwell/autocare-match/internal/refdata"
)

// Config holds the classification thresholds.
type Config struct {
	// AcceptFloor is the minimum confidence to auto-accept a match.
	AcceptFloor float64
	// ReviewFloor is the minimum confidence to surface a candidate for
	// human review instead of declaring it unmatched.
	ReviewFloor float64
	// AmbiguityEpsilon is the gap within which two leading candidates count
	// as tied.
	AmbiguityEpsilon float64
}

// DefaultConfig returns the default classification thresholds.
func DefaultConfig() Config {
	return Config{
		AcceptFloor:      0.8,
		ReviewFloor:      0.5,
		AmbiguityEpsilon: 0.01,
	}
}

// ClassifyVehicle decides the terminal status for a captured vehicle given
// its ranked candidates.
func ClassifyVehicle(v model.CapturedVehicle, candidates model.Candidates, cfg Config) model.MatchResult {
	if missingVehicleData(v) {
		return unmatched(model.FailureMissingVehicleFields, nil)
	}
	return classify(candidates, cfg)
}

// ClassifyPart decides the terminal status for a captured part given its
// ranked candidates.
func ClassifyPart(p model.CapturedPart, candidates model.Candidates, cfg Config) model.MatchResult {
	if !p.HasTitle() {
		return unmatched(model.FailureMissingTitle, nil)
	}
	return classify(candidates, cfg)
}

// classify applies the floor rules shared by both record types: matched at
// or above the accept floor, needs-review in the band below it, unmatched
// otherwise. An within-epsilon tie below the accept floor is AMBIGUOUS
// rather than needs-review; the review workflow buckets those separately.
func classify(candidates model.Candidates, cfg Config) model.MatchResult {
	candidates.Sort()

	top := candidates.Top()
	if top == nil {
		return unmatched(model.FailureNoMatch, nil)
	}

	if len(candidates) >= 2 && top.Confidence < cfg.AcceptFloor {
		if top.Confidence-candidates[1].Confidence <= cfg.AmbiguityEpsilon {
			return unmatched(model.FailureAmbiguous, candidates)
		}
	}

	switch {
	case top.Confidence >= cfg.AcceptFloor:
		return model.MatchResult{
			MatchedID:    top.ReferenceID,
			Method:       top.Method,
			Confidence:   top.Confidence,
			Alternatives: candidates[1:],
			Status:       model.StatusMatched,
		}
	case top.Confidence >= cfg.ReviewFloor:
		return model.MatchResult{
			MatchedID:    top.ReferenceID,
			Method:       top.Method,
			Confidence:   top.Confidence,
			Alternatives: candidates[1:],
			Status:       model.StatusNeedsReview,
		}
	default:
		return unmatched(model.FailureNoMatch, candidates)
	}
}

// unmatched builds the terminal no-match result, keeping whatever weak
// candidates existed so reviewers still see them.
func unmatched(reason model.FailureReason, candidates model.Candidates) model.MatchResult {
	return model.MatchResult{
		Method:        model.MethodNone,
		Alternatives:  candidates,
		Status:        model.StatusUnmatched,
		FailureReason: reason,
	}
}

// missingVehicleData reports whether the capture lacks the data any match
// needs: make or model empty, or no year and no structurally valid VIN to
// decode one from.
func missingVehicleData(v model.CapturedVehicle) bool {
	if !v.HasVehicleFields() {
		return true
	}
	if v.Year > 0 {
		return false
	}
	return !refdata.ValidVIN(refdata.NormalizeVIN(v.VIN))
}
