package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixwell/autocare-match/internal/refdata"
)

func TestRebuildPartTokenIndex(t *testing.T) {
	store := setupStorage(t)
	ctx := context.Background()
	parts := testReferenceParts()

	indexed, err := store.HasPartTokenIndex(ctx)
	require.NoError(t, err)
	assert.False(t, indexed, "empty token table counts as no index")

	require.NoError(t, store.SaveReferenceParts(ctx, parts))
	require.NoError(t, store.RebuildPartTokenIndex(ctx, parts))

	indexed, err = store.HasPartTokenIndex(ctx)
	require.NoError(t, err)
	assert.True(t, indexed)
}

func TestPartCandidates(t *testing.T) {
	store := setupStorage(t)
	ctx := context.Background()
	parts := testReferenceParts()

	require.NoError(t, store.SaveReferenceParts(ctx, parts))
	require.NoError(t, store.RebuildPartTokenIndex(ctx, parts))

	t.Run("ranks by hit count then id", func(t *testing.T) {
		hits, err := store.PartCandidates(ctx, []string{"disc", "brake", "pads"}, 10)
		require.NoError(t, err)
		require.Len(t, hits, 2)
		assert.Equal(t, int64(1001), hits[0].PartTerminologyID)
		assert.Equal(t, 3, hits[0].TokenHits)
		assert.Equal(t, int64(1002), hits[1].PartTerminologyID)
	})

	t.Run("limit truncates", func(t *testing.T) {
		hits, err := store.PartCandidates(ctx, []string{"brake"}, 1)
		require.NoError(t, err)
		require.Len(t, hits, 1)
		assert.Equal(t, int64(1001), hits[0].PartTerminologyID, "equal hits fall back to lowest id")
	})

	t.Run("no tokens yields nothing", func(t *testing.T) {
		hits, err := store.PartCandidates(ctx, nil, 10)
		require.NoError(t, err)
		assert.Empty(t, hits)
	})
}

// The SQLite-backed source and the in-memory postings must surface the same
// candidates in the same order for the same query.
func TestCandidateSource_DecisionEquivalence(t *testing.T) {
	store := setupStorage(t)
	ctx := context.Background()
	parts := testReferenceParts()

	require.NoError(t, store.SaveReferenceParts(ctx, parts))
	require.NoError(t, store.RebuildPartTokenIndex(ctx, parts))

	idx := refdata.BuildPartIndex(parts)
	memory := idx.CandidateSource()
	sqlite := store.CandidateSource()

	queries := [][]string{
		{"brake"},
		{"disc", "brake", "pads"},
		{"rotor", "friction"},
		{"calipers", "nonsense"},
		{"nothing", "matches"},
	}

	for _, tokens := range queries {
		fromMemory, err := memory.Candidates(ctx, tokens, 50)
		require.NoError(t, err)
		fromSQLite, err := sqlite.Candidates(ctx, tokens, 50)
		require.NoError(t, err)

		assert.Equal(t, fromMemory, fromSQLite, "query %v", tokens)
	}
}
