package matcher

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixwell/autocare-match/internal/model"
	"github.com/fixwell/autocare-match/internal/refdata"
)

func testPartIndex() *refdata.PartIndex {
	return refdata.BuildPartIndex([]model.ReferencePart{
		{PartTerminologyID: 1001, PartName: "Disc Brake Pad Set", Description: "Friction pads for disc brake calipers"},
		{PartTerminologyID: 1002, PartName: "Brake Rotor"},
		{PartTerminologyID: 1003, PartName: "Oil Filter", Description: "Engine oil filtration element"},
		{PartTerminologyID: 1004, PartName: "Serpentine Belt"},
	})
}

func TestPartMatcher_ExactName(t *testing.T) {
	m := NewPartMatcher(testPartIndex(), DefaultConfig())

	tests := []struct {
		name  string
		title string
	}{
		{name: "canonical title", title: "Disc Brake Pad Set"},
		{name: "case and punctuation insensitive", title: "disc brake pad-set"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidates, err := m.FindCandidates(context.Background(), model.CapturedPart{
				PartID: "p1", Title: tt.title,
			})
			require.NoError(t, err)
			require.Len(t, candidates, 1)
			assert.Equal(t, int64(1001), candidates[0].ReferenceID)
			assert.Equal(t, model.MethodExact, candidates[0].Method)
			assert.InDelta(t, 1.0, candidates[0].Confidence, 0.0001)
		})
	}
}

func TestPartMatcher_FuzzyName(t *testing.T) {
	m := NewPartMatcher(testPartIndex(), DefaultConfig())

	// A near-miss spelling clears the fuzzy threshold but never reports
	// full confidence.
	candidates, err := m.FindCandidates(context.Background(), model.CapturedPart{
		PartID: "p2", Title: "Oil Filtr",
	})
	require.NoError(t, err)
	require.NotEmpty(t, candidates)
	assert.Equal(t, int64(1003), candidates[0].ReferenceID)
	assert.Equal(t, model.MethodFuzzy, candidates[0].Method)
	assert.Less(t, candidates[0].Confidence, 1.0)
	assert.GreaterOrEqual(t, candidates[0].Confidence, 0.8)
}

func TestPartMatcher_DescriptionPass(t *testing.T) {
	m := NewPartMatcher(testPartIndex(), DefaultConfig())

	// No title means the name strategies have nothing to chew on; the
	// description text still drives token overlap.
	candidates, err := m.FindCandidates(context.Background(), model.CapturedPart{
		PartID: "p3", Description: "serpentine belt squealing",
	})
	require.NoError(t, err)
	require.NotEmpty(t, candidates)
	assert.Equal(t, int64(1004), candidates[0].ReferenceID)
	assert.Equal(t, model.MethodDescription, candidates[0].Method)
	assert.InDelta(t, 0.79, candidates[0].Confidence, 0.0001, "full overlap is capped below the fuzzy threshold")
}

func TestPartMatcher_NoUsableText(t *testing.T) {
	m := NewPartMatcher(testPartIndex(), DefaultConfig())

	candidates, err := m.FindCandidates(context.Background(), model.CapturedPart{
		PartID: "p4", Title: "  ",
	})
	require.NoError(t, err)
	assert.Nil(t, candidates)
}

func TestPartMatcher_KeywordRecall(t *testing.T) {
	idx := testPartIndex()

	scan := NewPartMatcher(idx, DefaultConfig())
	recall := NewPartMatcher(idx, DefaultConfig()).WithCandidateSource(idx.CandidateSource())

	part := model.CapturedPart{PartID: "p5", Description: "serpentine belt squealing"}

	scanned, err := scan.FindCandidates(context.Background(), part)
	require.NoError(t, err)
	recalled, err := recall.FindCandidates(context.Background(), part)
	require.NoError(t, err)

	// The recall source changes the method tag and lookup cost, never the
	// decision.
	require.Len(t, recalled, len(scanned))
	for i := range scanned {
		assert.Equal(t, scanned[i].ReferenceID, recalled[i].ReferenceID)
		assert.InDelta(t, scanned[i].Confidence, recalled[i].Confidence, 0.0001)
	}
	assert.Equal(t, model.MethodKeyword, recalled[0].Method)
}

func TestPartMatcher_DescriptionTieBreaksOnLowestID(t *testing.T) {
	idx := refdata.BuildPartIndex([]model.ReferencePart{
		{PartTerminologyID: 3002, PartName: "Shock Absorber"},
		{PartTerminologyID: 3001, PartName: "Absorber Shock"},
	})
	m := NewPartMatcher(idx, DefaultConfig())

	candidates, err := m.FindCandidates(context.Background(), model.CapturedPart{
		PartID: "p6", Description: "shock absorber",
	})
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, int64(3001), candidates[0].ReferenceID)
	assert.InDelta(t, candidates[0].Confidence, candidates[1].Confidence, 0.0001)
}

func TestPartMatcher_ExhaustiveMergesStrategies(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Exhaustive = true
	m := NewPartMatcher(testPartIndex(), cfg)

	candidates, err := m.FindCandidates(context.Background(), model.CapturedPart{
		PartID: "p7", Title: "Disc Brake Pad Set",
	})
	require.NoError(t, err)
	require.NotEmpty(t, candidates)

	// The exact hit still ranks first, and no reference id appears twice.
	assert.Equal(t, int64(1001), candidates[0].ReferenceID)
	assert.InDelta(t, 1.0, candidates[0].Confidence, 0.0001)
	seen := make(map[int64]bool)
	for _, c := range candidates {
		assert.False(t, seen[c.ReferenceID], "reference %d appears twice", c.ReferenceID)
		seen[c.ReferenceID] = true
	}
}
