package classify

import (
	"fmt"
	"strings"

	"github.com/fixwell/autocare-match/internal/model"
	"github.com/fixwell/autocare-match/internal/refdata"
)

// BuildVehicleSuggestions proposes corrections for a captured vehicle based
// on its match result. Suggestions are advisory; applying one is the review
// workflow's job.
func BuildVehicleSuggestions(v model.CapturedVehicle, result model.MatchResult, idx *refdata.VehicleIndex) []model.Suggestion {
	var suggestions []model.Suggestion

	if vin := strings.TrimSpace(v.VIN); vin != "" {
		if normalized := refdata.NormalizeVIN(vin); normalized != vin {
			suggestions = append(suggestions, model.Suggestion{
				Kind:     model.SuggestionVINFormat,
				Field:    "vin",
				Current:  vin,
				Proposed: normalized,
				Reason:   "VIN should be uppercase with punctuation removed",
			})
		}
	}

	if result.Status == model.StatusUnmatched || result.MatchedID == 0 {
		return suggestions
	}

	entry, ok := idx.ByConfigID(result.MatchedID)
	if !ok {
		return suggestions
	}

	if capturedVehicleDiffers(v, entry) {
		suggestions = append(suggestions, model.Suggestion{
			Kind:     model.SuggestionStandardized,
			Field:    "vehicle",
			Current:  fmt.Sprintf("%d %s %s", v.Year, v.Make, v.Model),
			Proposed: fmt.Sprintf("%d %s %s", entry.Year, entry.MakeName, entry.ModelName),
			Reason:   "apply the AutoCare standardized make/model/year",
		})
	}

	return suggestions
}

// BuildPartSuggestions proposes the matched canonical part name and category
// when the captured title differs.
func BuildPartSuggestions(p model.CapturedPart, result model.MatchResult, idx *refdata.PartIndex) []model.Suggestion {
	if result.Status == model.StatusUnmatched || result.MatchedID == 0 {
		return nil
	}

	entry, ok := idx.ByID(result.MatchedID)
	if !ok {
		return nil
	}

	var suggestions []model.Suggestion
	if refdata.NormalizePartName(p.Title) != refdata.NormalizePartName(entry.PartName) {
		reason := "apply the AutoCare canonical part name"
		if entry.Category != nil {
			reason = fmt.Sprintf("%s (%s)", reason, entry.Category.Primary)
		}
		suggestions = append(suggestions, model.Suggestion{
			Kind:     model.SuggestionStandardized,
			Field:    "title",
			Current:  p.Title,
			Proposed: entry.PartName,
			Reason:   reason,
		})
	}

	return suggestions
}

func capturedVehicleDiffers(v model.CapturedVehicle, entry *model.ReferenceVehicle) bool {
	return refdata.NormalizeField(v.Make) != entry.MakeName ||
		refdata.NormalizeField(v.Model) != entry.ModelName ||
		v.Year != entry.Year
}
