package model

// SuggestionKind names the correction a suggestion proposes.
type SuggestionKind string

// Suggestion kind constants.
const (
	// SuggestionVINFormat proposes normalizing a present-but-messy VIN
	// (uppercase, punctuation stripped).
	SuggestionVINFormat SuggestionKind = "vin-format"
	// SuggestionStandardized proposes applying the matched catalog values in
	// place of the captured free text.
	SuggestionStandardized SuggestionKind = "autocare-standardized"
)

// Suggestion is one actionable correction offered to a reviewer. Accepting a
// suggestion is the review workflow's job; this package only describes it.
type Suggestion struct {
	Kind SuggestionKind `json:"kind"`
	// Field names the captured field the suggestion targets.
	Field string `json:"field"`
	// Current is the captured value as it stands.
	Current string `json:"current"`
	// Proposed is the corrected value the reviewer may apply.
	Proposed string `json:"proposed"`
	// Reason explains the suggestion in reviewer-facing language.
	Reason string `json:"reason"`
}
