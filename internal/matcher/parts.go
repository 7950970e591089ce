package matcher

import (
	"context"
	"fmt"

	"github.com/fixwell/autocare-match/internal/model"
	"github.com/fixwell/autocare-match/internal/refdata"
)

// PartMatcher ranks reference part terminology against a captured part line
// item. Strategies run in order (exact name, fuzzy name, description, keyword
// recall); the first that produces candidates wins unless Config.Exhaustive
// asks for every strategy's best score per part.
type PartMatcher struct {
	idx *refdata.PartIndex
	// recall, when set, replaces the full-catalog description scan with
	// token-based candidate recall. Results stay decision-equivalent; only
	// the method tag and scan cost change.
	recall refdata.CandidateSource
	cfg    Config
}

// NewPartMatcher creates a part matcher that scans the whole catalog for
// description matches.
func NewPartMatcher(idx *refdata.PartIndex, cfg Config) *PartMatcher {
	return &PartMatcher{idx: idx, cfg: cfg}
}

// WithCandidateSource switches description scoring to keyword recall through
// the given source.
func (m *PartMatcher) WithCandidateSource(src refdata.CandidateSource) *PartMatcher {
	m.recall = src
	return m
}

// FindCandidates returns ranked candidates for the captured part. A record
// with no usable title or description yields nil.
func (m *PartMatcher) FindCandidates(ctx context.Context, p model.CapturedPart) (model.Candidates, error) {
	if !p.HasTitle() {
		return nil, nil
	}

	var all model.Candidates

	if exact := m.exactName(p); len(exact) > 0 {
		if !m.cfg.Exhaustive {
			return exact, nil
		}
		all = append(all, exact...)
	}

	if fuzzy := m.fuzzyName(p); len(fuzzy) > 0 {
		if !m.cfg.Exhaustive {
			return fuzzy.TopN(m.cfg.TopK), nil
		}
		all = append(all, fuzzy...)
	}

	textual, err := m.textualPass(ctx, p)
	if err != nil {
		return nil, err
	}
	all = append(all, textual...)

	if m.cfg.Exhaustive {
		all = bestPerReference(all)
	}
	return all.TopN(m.cfg.TopK), nil
}

// exactName matches the normalized captured title against normalized
// reference names.
func (m *PartMatcher) exactName(p model.CapturedPart) model.Candidates {
	normalized := refdata.NormalizePartName(p.Title)
	if normalized == "" {
		return nil
	}

	entry, ok := m.idx.LookupName(normalized)
	if !ok {
		return nil
	}
	return model.Candidates{{
		ReferenceID: entry.PartTerminologyID,
		Label:       entry.PartName,
		Method:      model.MethodExact,
		Confidence:  1.0,
	}}
}

// fuzzyName scores name similarity across the catalog and keeps entries at
// or above the accept threshold.
func (m *PartMatcher) fuzzyName(p model.CapturedPart) model.Candidates {
	normalized := refdata.NormalizePartName(p.Title)
	if normalized == "" {
		return nil
	}

	var candidates model.Candidates
	for _, id := range m.idx.IDs() {
		entry, _ := m.idx.ByID(id)
		score := Similarity(normalized, refdata.NormalizePartName(entry.PartName))
		if score < m.cfg.FuzzyAcceptThreshold {
			continue
		}
		if score > fuzzyCeiling {
			score = fuzzyCeiling
		}
		candidates = append(candidates, model.Candidate{
			ReferenceID: entry.PartTerminologyID,
			Label:       entry.PartName,
			Method:      model.MethodFuzzy,
			Confidence:  score,
		})
	}
	return candidates
}

// textualPass scores token overlap between the captured text and each
// reference part's aggregate description text. With a recall source it
// scores only recalled candidates (method keyword); otherwise it scans the
// catalog (method description). Confidence is the overlap ratio capped below
// the fuzzy accept threshold, so a description hit can never outrank a true
// name match.
func (m *PartMatcher) textualPass(ctx context.Context, p model.CapturedPart) (model.Candidates, error) {
	tokens := refdata.Tokenize(p.Title, p.Description)
	if len(tokens) == 0 {
		return nil, nil
	}

	if m.recall == nil {
		return m.scoreOverlap(tokens, m.idx.IDs(), model.MethodDescription), nil
	}

	hits, err := m.recall.Candidates(ctx, tokens, m.cfg.RecallLimit)
	if err != nil {
		return nil, fmt.Errorf("candidate recall failed: %w", err)
	}
	ids := make([]int64, 0, len(hits))
	for _, hit := range hits {
		ids = append(ids, hit.PartTerminologyID)
	}
	return m.scoreOverlap(tokens, ids, model.MethodKeyword), nil
}

func (m *PartMatcher) scoreOverlap(tokens []string, ids []int64, method model.MatchMethod) model.Candidates {
	querySet := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		querySet[t] = true
	}

	var candidates model.Candidates
	for _, id := range ids {
		entry, ok := m.idx.ByID(id)
		if !ok || len(entry.SearchableTokens) == 0 {
			continue
		}

		shared := 0
		for _, t := range entry.SearchableTokens {
			if querySet[t] {
				shared++
			}
		}
		if shared == 0 {
			continue
		}

		score := float64(shared) / float64(len(entry.SearchableTokens))
		if score > m.cfg.DescriptionCap {
			score = m.cfg.DescriptionCap
		}
		candidates = append(candidates, model.Candidate{
			ReferenceID: entry.PartTerminologyID,
			Label:       entry.PartName,
			Method:      method,
			Confidence:  score,
		})
	}
	return candidates
}

// bestPerReference keeps each reference entry's best-scoring candidate when
// exhaustive mode runs every strategy.
func bestPerReference(candidates model.Candidates) model.Candidates {
	best := make(map[int64]model.Candidate, len(candidates))
	for _, c := range candidates {
		prior, ok := best[c.ReferenceID]
		if !ok || c.Confidence > prior.Confidence {
			best[c.ReferenceID] = c
		}
	}

	merged := make(model.Candidates, 0, len(best))
	for _, c := range best {
		merged = append(merged, c)
	}
	merged.Sort()
	return merged
}
