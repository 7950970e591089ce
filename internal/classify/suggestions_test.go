package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixwell/autocare-match/internal/model"
	"github.com/fixwell/autocare-match/internal/refdata"
)

func suggestionVehicleIndex() *refdata.VehicleIndex {
	return refdata.BuildVehicleIndex([]model.ReferenceVehicle{
		{VehicleConfigID: 101, MakeName: "Ford", ModelName: "F-150", Year: 2015, Submodel: "XLT"},
	})
}

func suggestionPartIndex() *refdata.PartIndex {
	return refdata.BuildPartIndex([]model.ReferencePart{
		{PartTerminologyID: 1001, PartName: "Disc Brake Pad Set", Category: &model.PartCategory{Primary: "Brake", Confidence: 0.9}},
		{PartTerminologyID: 1002, PartName: "Oil Filter"},
	})
}

func TestBuildVehicleSuggestions_VINFormat(t *testing.T) {
	unit := model.CapturedVehicle{
		UnitID: "u1", Make: "Ford", Model: "F-150", Year: 2015,
		VIN: "1ftfw1et-5bfc10312",
	}
	result := model.MatchResult{Status: model.StatusUnmatched, FailureReason: model.FailureNoMatch}

	suggestions := BuildVehicleSuggestions(unit, result, suggestionVehicleIndex())
	require.Len(t, suggestions, 1)
	assert.Equal(t, model.SuggestionVINFormat, suggestions[0].Kind)
	assert.Equal(t, "vin", suggestions[0].Field)
	assert.Equal(t, "1FTFW1ET5BFC10312", suggestions[0].Proposed)
}

func TestBuildVehicleSuggestions_Standardized(t *testing.T) {
	unit := model.CapturedVehicle{UnitID: "u2", Make: "FORD", Model: "F150", Year: 2015}
	result := model.MatchResult{
		MatchedID: 101, Method: model.MethodExact,
		Confidence: 1.0, Status: model.StatusMatched,
	}

	suggestions := BuildVehicleSuggestions(unit, result, suggestionVehicleIndex())
	require.Len(t, suggestions, 1)
	assert.Equal(t, model.SuggestionStandardized, suggestions[0].Kind)
	assert.Equal(t, "vehicle", suggestions[0].Field)
	assert.Equal(t, "2015 ford f-150", suggestions[0].Proposed)
}

func TestBuildVehicleSuggestions_NoDiffNoSuggestion(t *testing.T) {
	unit := model.CapturedVehicle{UnitID: "u3", Make: "ford", Model: "f-150", Year: 2015}
	result := model.MatchResult{MatchedID: 101, Status: model.StatusMatched, Confidence: 1.0}

	assert.Empty(t, BuildVehicleSuggestions(unit, result, suggestionVehicleIndex()))
}

func TestBuildVehicleSuggestions_UnmatchedOnlyVIN(t *testing.T) {
	unit := model.CapturedVehicle{
		UnitID: "u4", Make: "Chevy", Model: "Silverado", Year: 2018,
		VIN: "bad vin",
	}
	result := model.MatchResult{Status: model.StatusUnmatched, FailureReason: model.FailureNoMatch}

	suggestions := BuildVehicleSuggestions(unit, result, suggestionVehicleIndex())
	require.Len(t, suggestions, 1, "unmatched records get formatting help only")
	assert.Equal(t, model.SuggestionVINFormat, suggestions[0].Kind)
}

func TestBuildPartSuggestions(t *testing.T) {
	t.Run("canonical name with category in reason", func(t *testing.T) {
		part := model.CapturedPart{PartID: "p1", Title: "brake pads"}
		result := model.MatchResult{MatchedID: 1001, Status: model.StatusNeedsReview, Confidence: 0.7}

		suggestions := BuildPartSuggestions(part, result, suggestionPartIndex())
		require.Len(t, suggestions, 1)
		assert.Equal(t, model.SuggestionStandardized, suggestions[0].Kind)
		assert.Equal(t, "title", suggestions[0].Field)
		assert.Equal(t, "Disc Brake Pad Set", suggestions[0].Proposed)
		assert.Contains(t, suggestions[0].Reason, "Brake")
	})

	t.Run("identical normalized title yields nothing", func(t *testing.T) {
		part := model.CapturedPart{PartID: "p2", Title: "oil filter"}
		result := model.MatchResult{MatchedID: 1002, Status: model.StatusMatched, Confidence: 1.0}

		assert.Empty(t, BuildPartSuggestions(part, result, suggestionPartIndex()))
	})

	t.Run("unmatched yields nothing", func(t *testing.T) {
		part := model.CapturedPart{PartID: "p3", Title: "mystery widget"}
		result := model.MatchResult{Status: model.StatusUnmatched, FailureReason: model.FailureNoMatch}

		assert.Empty(t, BuildPartSuggestions(part, result, suggestionPartIndex()))
	})
}
