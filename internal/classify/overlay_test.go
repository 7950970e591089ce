package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fixwell/autocare-match/internal/model"
)

func TestOverlay_NoOverride(t *testing.T) {
	computed := model.MatchResult{
		MatchedID:  101,
		Method:     model.MethodExact,
		Confidence: 1.0,
		Status:     model.StatusMatched,
	}

	effective := Overlay(computed, nil)

	assert.Equal(t, int64(101), effective.MatchedID)
	assert.Equal(t, string(model.StatusMatched), effective.Status)
	assert.False(t, effective.Reviewed())
	assert.Equal(t, computed, effective.Computed)
}

func TestOverlay_OverrideWins(t *testing.T) {
	computed := model.MatchResult{
		MatchedID:  101,
		Method:     model.MethodFuzzy,
		Confidence: 0.85,
		Status:     model.StatusMatched,
	}
	override := &model.ReviewedOverride{
		RecordType: model.RecordTypeVehicle,
		RecordID:   "u1",
		MatchedID:  202,
		Status:     model.ReviewValidated,
		ReviewerID: "reviewer-1",
	}

	effective := Overlay(computed, override)

	assert.Equal(t, int64(202), effective.MatchedID)
	assert.Equal(t, string(model.ReviewValidated), effective.Status)
	assert.True(t, effective.Reviewed())
	// The computed tier survives underneath the override.
	assert.Equal(t, int64(101), effective.Computed.MatchedID)
	assert.Equal(t, model.StatusMatched, effective.Computed.Status)
}

func TestOverlay_LegacyRejectsMatch(t *testing.T) {
	computed := model.MatchResult{
		MatchedID:  101,
		Method:     model.MethodFuzzy,
		Confidence: 0.82,
		Status:     model.StatusMatched,
	}
	override := &model.ReviewedOverride{
		RecordType: model.RecordTypePart,
		RecordID:   "p1",
		Status:     model.ReviewLegacy,
		ReviewerID: "reviewer-1",
	}

	effective := Overlay(computed, override)

	assert.Zero(t, effective.MatchedID, "legacy override carries no match")
	assert.Equal(t, string(model.ReviewLegacy), effective.Status)
	assert.True(t, effective.Reviewed())
}

func TestOverlay_Idempotent(t *testing.T) {
	computed := model.MatchResult{MatchedID: 7, Status: model.StatusNeedsReview, Confidence: 0.6}
	override := &model.ReviewedOverride{
		RecordType: model.RecordTypePart, RecordID: "p2",
		MatchedID: 8, Status: model.ReviewValidated, ReviewerID: "r1",
	}

	first := Overlay(computed, override)
	second := Overlay(computed, override)
	assert.Equal(t, first, second)
}
