package engine

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixwell/autocare-match/internal/classify"
	"github.com/fixwell/autocare-match/internal/common"
	"github.com/fixwell/autocare-match/internal/matcher"
	"github.com/fixwell/autocare-match/internal/model"
	"github.com/fixwell/autocare-match/internal/refdata"
)

// memoryOverrides is a test double for the stored review layer.
type memoryOverrides struct {
	mu        sync.Mutex
	overrides map[model.RecordType]map[string]*model.ReviewedOverride
}

func newMemoryOverrides() *memoryOverrides {
	return &memoryOverrides{overrides: make(map[model.RecordType]map[string]*model.ReviewedOverride)}
}

func (m *memoryOverrides) add(override *model.ReviewedOverride) {
	m.mu.Lock()
	defer m.mu.Unlock()
	byID, ok := m.overrides[override.RecordType]
	if !ok {
		byID = make(map[string]*model.ReviewedOverride)
		m.overrides[override.RecordType] = byID
	}
	byID[override.RecordID] = override
}

func (m *memoryOverrides) ListOverrides(_ context.Context, recordType model.RecordType) (map[string]*model.ReviewedOverride, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.overrides[recordType], nil
}

func testRunner(overrides OverrideStore) *Runner {
	vehicleIdx := refdata.BuildVehicleIndex([]model.ReferenceVehicle{
		{VehicleConfigID: 101, MakeName: "Ford", ModelName: "F-150", Year: 2015, Submodel: "XLT", EngineDescriptor: "3.5L V6"},
		{VehicleConfigID: 201, MakeName: "Toyota", ModelName: "Camry", Year: 2020},
	})
	partIdx := refdata.BuildPartIndex([]model.ReferencePart{
		{PartTerminologyID: 1001, PartName: "Disc Brake Pad Set", Description: "Friction pads for disc brake calipers"},
		{PartTerminologyID: 1002, PartName: "Oil Filter"},
	})
	return NewRunner(vehicleIdx, partIdx, matcher.DefaultConfig(), classify.DefaultConfig(), overrides)
}

func testUnits() []model.CapturedVehicle {
	return []model.CapturedVehicle{
		{UnitID: "u1", Make: "FORD", Model: "F150", Year: 2015, Submodel: "XLT", Engine: "3.5L V6"},
		{UnitID: "u2", Make: "Toyota", Model: "Camry", Year: 2020},
		{UnitID: "u3", Model: "Unknown", Year: 2015},
	}
}

func TestRunner_MatchVehicles(t *testing.T) {
	runner := testRunner(nil)

	outcomes, stats, err := runner.MatchVehicles(context.Background(), testUnits(), Options{Workers: 2})
	require.NoError(t, err)
	require.Len(t, outcomes, 3)

	assert.Equal(t, "u1", outcomes[0].Unit.UnitID, "output order mirrors input order")
	assert.Equal(t, int64(101), outcomes[0].Effective.MatchedID)
	assert.Equal(t, string(model.StatusMatched), outcomes[0].Effective.Status)

	assert.Equal(t, int64(201), outcomes[1].Effective.MatchedID)

	assert.Equal(t, string(model.StatusUnmatched), outcomes[2].Effective.Status)
	assert.Equal(t, model.FailureMissingVehicleFields, outcomes[2].Effective.Computed.FailureReason)

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Matched)
	assert.Equal(t, 1, stats.Unmatched)
	assert.Equal(t, 1, stats.FailureCounts[model.FailureMissingVehicleFields])
}

func TestRunner_MatchVehicles_SkipsReviewedRecords(t *testing.T) {
	overrides := newMemoryOverrides()
	overrides.add(&model.ReviewedOverride{
		RecordType: model.RecordTypeVehicle, RecordID: "u1",
		MatchedID: 999, Status: model.ReviewValidated, ReviewerID: "r1",
	})
	overrides.add(&model.ReviewedOverride{
		RecordType: model.RecordTypeVehicle, RecordID: "u3",
		Status: model.ReviewLegacy, ReviewerID: "r1",
	})
	runner := testRunner(overrides)

	outcomes, stats, err := runner.MatchVehicles(context.Background(), testUnits(), Options{})
	require.NoError(t, err)

	assert.True(t, outcomes[0].Skipped)
	assert.Equal(t, int64(999), outcomes[0].Effective.MatchedID, "the human decision stands")
	assert.Equal(t, string(model.ReviewValidated), outcomes[0].Effective.Status)
	assert.Empty(t, outcomes[0].Suggestions)

	assert.False(t, outcomes[1].Skipped)

	assert.True(t, outcomes[2].Skipped)
	assert.Equal(t, string(model.ReviewLegacy), outcomes[2].Effective.Status)

	assert.Equal(t, 2, stats.SkippedReviewed)
	assert.Equal(t, 1, stats.Matched)
	assert.Empty(t, stats.FailureCounts, "skipped records never count as failures")
}

func TestRunner_MatchParts(t *testing.T) {
	runner := testRunner(nil)
	parts := []model.CapturedPart{
		{PartID: "p1", Title: "Disc Brake Pad Set"},
		{PartID: "p2"},
	}

	outcomes, stats, err := runner.MatchParts(context.Background(), parts, Options{})
	require.NoError(t, err)
	require.Len(t, outcomes, 2)

	assert.Equal(t, int64(1001), outcomes[0].Effective.MatchedID)
	assert.Equal(t, string(model.StatusMatched), outcomes[0].Effective.Status)

	assert.Equal(t, string(model.StatusUnmatched), outcomes[1].Effective.Status)
	assert.Equal(t, model.FailureMissingTitle, outcomes[1].Effective.Computed.FailureReason)

	assert.Equal(t, 1, stats.Matched)
	assert.Equal(t, 1, stats.FailureCounts[model.FailureMissingTitle])
}

func TestRunner_Determinism(t *testing.T) {
	units := testUnits()

	first, _, err := testRunner(nil).MatchVehicles(context.Background(), units, Options{Workers: 4})
	require.NoError(t, err)
	second, _, err := testRunner(nil).MatchVehicles(context.Background(), units, Options{Workers: 1})
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Effective.MatchedID, second[i].Effective.MatchedID)
		assert.Equal(t, first[i].Effective.Status, second[i].Effective.Status)
		assert.InDelta(t, first[i].Effective.Computed.Confidence, second[i].Effective.Computed.Confidence, 0.0001)
	}
}

func TestRunner_EmptyBatch(t *testing.T) {
	runner := testRunner(nil)

	_, _, err := runner.MatchVehicles(context.Background(), nil, Options{})
	assert.ErrorIs(t, err, common.ErrNoRecords)

	_, _, err = runner.MatchParts(context.Background(), nil, Options{})
	assert.ErrorIs(t, err, common.ErrNoRecords)
}

func TestRunner_MissingIndex(t *testing.T) {
	runner := NewRunner(nil, nil, matcher.DefaultConfig(), classify.DefaultConfig(), nil)

	_, _, err := runner.MatchVehicles(context.Background(), testUnits(), Options{})
	assert.True(t, common.IsMissingReferenceData(err))

	_, _, err = runner.MatchParts(context.Background(), []model.CapturedPart{{PartID: "p1", Title: "x"}}, Options{})
	assert.True(t, common.IsMissingReferenceData(err))
}

func TestRunner_ProgressCallback(t *testing.T) {
	runner := testRunner(nil)

	var mu sync.Mutex
	var calls int
	var last int
	_, _, err := runner.MatchVehicles(context.Background(), testUnits(), Options{
		Workers: 2,
		Progress: func(done, total int) {
			mu.Lock()
			defer mu.Unlock()
			calls++
			last = done
			assert.Equal(t, 3, total)
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 3, last)
}
