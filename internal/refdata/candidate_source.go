package refdata

import (
	"context"
	"sort"
)

// PartHit is one candidate surfaced by keyword recall: a part id and how many
// query tokens it shares.
type PartHit struct {
	PartTerminologyID int64
	TokenHits         int
}

// CandidateSource narrows a large part catalog to a plausible subset before
// expensive scoring. Implementations must be safe for concurrent read-only
// use, and their presence or absence must never change match decisions, only
// lookup cost.
type CandidateSource interface {
	// Candidates returns parts sharing at least one token with the query,
	// ranked by token-hit count descending then part id ascending.
	Candidates(ctx context.Context, tokens []string, limit int) ([]PartHit, error)
}

// memorySource is the always-available CandidateSource backed by the part
// index's in-memory token postings.
type memorySource struct {
	idx *PartIndex
}

// Ensure memorySource implements CandidateSource.
var _ CandidateSource = (*memorySource)(nil)

// CandidateSource returns the in-memory recall source for this index.
func (idx *PartIndex) CandidateSource() CandidateSource {
	return &memorySource{idx: idx}
}

func (m *memorySource) Candidates(_ context.Context, tokens []string, limit int) ([]PartHit, error) {
	hits := make(map[int64]int)
	for _, token := range tokens {
		for _, id := range m.idx.postings[token] {
			hits[id]++
		}
	}

	return RankHits(hits, limit), nil
}

// RankHits orders a hit-count map deterministically: token hits descending,
// part id ascending, truncated to limit. Shared by every CandidateSource
// implementation so backends stay decision-equivalent.
func RankHits(hits map[int64]int, limit int) []PartHit {
	ranked := make([]PartHit, 0, len(hits))
	for id, count := range hits {
		ranked = append(ranked, PartHit{PartTerminologyID: id, TokenHits: count})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].TokenHits != ranked[j].TokenHits {
			return ranked[i].TokenHits > ranked[j].TokenHits
		}
		return ranked[i].PartTerminologyID < ranked[j].PartTerminologyID
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
