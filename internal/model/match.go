// Package model defines the core domain models used throughout the application.
package model

// MatchMethod indicates which strategy produced a candidate match.
type MatchMethod string

// Match method constants.
const (
	MethodExact       MatchMethod = "exact"
	MethodFuzzy       MatchMethod = "fuzzy"
	MethodDescription MatchMethod = "description"
	MethodKeyword     MatchMethod = "keyword"
	MethodNone        MatchMethod = "none"
)

// MatchStatus is the terminal status the classifier assigns to a record.
type MatchStatus string

// Match status constants.
const (
	StatusMatched     MatchStatus = "matched"
	StatusNeedsReview MatchStatus = "needs-review"
	StatusUnmatched   MatchStatus = "unmatched"
)

// FailureReason explains why a record ended up unmatched. The set is fixed:
// it feeds the dashboard's failure-reason aggregates and must be stable
// across runs.
type FailureReason string

// Failure reason constants.
const (
	// FailureNoMatch means nothing cleared any matching threshold.
	FailureNoMatch FailureReason = "NO_MATCH"
	// FailureAmbiguous means two or more candidates tied within epsilon
	// and none dominated.
	FailureAmbiguous FailureReason = "AMBIGUOUS"
	// FailureMissingTitle means the captured part had no usable name or
	// description to match on.
	FailureMissingTitle FailureReason = "MISSING_TITLE"
	// FailureMissingVehicleFields is the vehicle analogue of
	// FailureMissingTitle: captured make or model was empty.
	FailureMissingVehicleFields FailureReason = "MISSING_VEHICLE_FIELDS"
)

// MatchResult is the outcome of matching one captured record against the
// reference index. It is computed fresh each run and embedded by the caller
// into its own export record.
type MatchResult struct {
	// MatchedID is the reference identifier of the chosen match, or 0 when
	// no candidate was accepted.
	MatchedID int64 `json:"matchedId,omitempty"`
	// Method records how the chosen match was found; MethodNone when no
	// candidate was accepted.
	Method MatchMethod `json:"method"`
	// Confidence is in [0,1]. Exact matches always report 1.0; every other
	// method reports strictly less.
	Confidence float64 `json:"confidence"`
	// Alternatives holds the next-best candidates in rank order. The chosen
	// match is not repeated here.
	Alternatives Candidates  `json:"alternatives,omitempty"`
	Status       MatchStatus `json:"status"`
	// FailureReason is set iff Status == StatusUnmatched.
	FailureReason FailureReason `json:"failureReason,omitempty"`
}

// Matched reports whether a reference entry was accepted for this record.
func (r *MatchResult) Matched() bool {
	return r.Status == StatusMatched && r.MatchedID != 0
}
