package model

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// RecordType distinguishes the two kinds of captured records a review can
// target.
type RecordType string

// Record type constants.
const (
	RecordTypeVehicle RecordType = "vehicle"
	RecordTypePart    RecordType = "part"
)

// ReviewStatus is a human-assigned terminal state. Unlike MatchStatus values
// it is never produced by the matcher and never recomputed by a batch run.
type ReviewStatus string

// Review status constants.
const (
	// ReviewValidated means a human confirmed or corrected the match.
	ReviewValidated ReviewStatus = "validated"
	// ReviewLegacy means a human marked the record as intentionally
	// unmatched and to be ignored by future runs.
	ReviewLegacy ReviewStatus = "legacy"
)

// Terminal reports whether the status blocks recomputation.
func (s ReviewStatus) Terminal() bool {
	return s == ReviewValidated || s == ReviewLegacy
}

// ReviewedOverride is the sparse human layer of the two-tier result store.
// It exists only where a reviewer acted, and it always wins over the freshly
// computed result on load.
type ReviewedOverride struct {
	ID         string     `json:"id"`
	RecordType RecordType `json:"recordType"`
	RecordID   string     `json:"recordId"`
	// MatchedID is the reviewer's corrected reference id; 0 when the
	// reviewer rejected all candidates.
	MatchedID      int64        `json:"matchedId,omitempty"`
	Status         ReviewStatus `json:"status"`
	ReviewerID     string       `json:"reviewerId"`
	ReviewedAt     time.Time    `json:"reviewedAt"`
	OverrideReason string       `json:"overrideReason,omitempty"`
}

// Validate ensures the override is complete enough to persist.
func (o *ReviewedOverride) Validate() error {
	if o.RecordID == "" {
		return fmt.Errorf("override record id is required")
	}
	if o.RecordType != RecordTypeVehicle && o.RecordType != RecordTypePart {
		return fmt.Errorf("unknown record type %q", o.RecordType)
	}
	if !o.Status.Terminal() {
		return fmt.Errorf("override status must be terminal, got %q", o.Status)
	}
	if o.ReviewerID == "" {
		return fmt.Errorf("override reviewer id is required")
	}
	return nil
}

// EffectiveResult is what callers actually consume: the computed result with
// any human override already overlaid.
type EffectiveResult struct {
	Computed MatchResult `json:"computed"`
	// Override is nil when no reviewer has acted on the record.
	Override *ReviewedOverride `json:"override,omitempty"`
	// MatchedID and Status reflect the override when present, otherwise the
	// computed result.
	MatchedID int64  `json:"matchedId,omitempty"`
	Status    string `json:"status"`
}

// Reviewed reports whether a human override is in effect.
func (e *EffectiveResult) Reviewed() bool {
	return e.Override != nil
}

func trimmedNonEmpty(s string) bool {
	return strings.TrimFunc(s, unicode.IsSpace) != ""
}
