package model

import (
	"fmt"
	"sort"
)

// Candidate is one scored reference entry produced by a matcher pass.
type Candidate struct {
	// ReferenceID identifies the reference entry (vehicleConfigId or
	// partTerminologyId depending on record type).
	ReferenceID int64 `json:"referenceId"`
	// Label is a human-readable rendering of the reference entry, shown in
	// review listings.
	Label      string      `json:"label"`
	Method     MatchMethod `json:"method"`
	Confidence float64     `json:"confidence"`
}

// Validate ensures the candidate carries sane data.
func (c *Candidate) Validate() error {
	if c.ReferenceID == 0 {
		return fmt.Errorf("candidate reference id is required")
	}
	if c.Confidence < 0.0 || c.Confidence > 1.0 {
		return fmt.Errorf("confidence must be between 0.0 and 1.0, got %.2f", c.Confidence)
	}
	return nil
}

// Candidates is a slice of Candidate that supports deterministic ranking.
type Candidates []Candidate

// Len implements sort.Interface.
func (c Candidates) Len() int {
	return len(c)
}

// Less implements sort.Interface. Higher confidence ranks first; equal
// confidence falls back to the lower reference id so the same input always
// produces the same top suggestion.
func (c Candidates) Less(i, j int) bool {
	if c[i].Confidence != c[j].Confidence {
		return c[i].Confidence > c[j].Confidence
	}
	return c[i].ReferenceID < c[j].ReferenceID
}

// Swap implements sort.Interface.
func (c Candidates) Swap(i, j int) {
	c[i], c[j] = c[j], c[i]
}

// Sort orders the candidates by rank.
func (c Candidates) Sort() {
	sort.Sort(c)
}

// Top returns the highest-ranked candidate, or nil if empty.
func (c Candidates) Top() *Candidate {
	if len(c) == 0 {
		return nil
	}
	c.Sort()
	return &c[0]
}

// TopN returns up to n highest-ranked candidates.
func (c Candidates) TopN(n int) Candidates {
	c.Sort()
	if n > len(c) {
		n = len(c)
	}
	return c[:n]
}
