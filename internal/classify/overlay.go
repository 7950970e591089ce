package classify

import "github.com/fixwell/autocare-match/internal/model"

// Overlay merges a freshly computed result with the sparse human override
// layer. The override, once written, always wins; the computed result is
// kept alongside so nothing a reviewer did ever destroys what the matcher
// found.
func Overlay(computed model.MatchResult, override *model.ReviewedOverride) model.EffectiveResult {
	effective := model.EffectiveResult{
		Computed:  computed,
		Override:  override,
		MatchedID: computed.MatchedID,
		Status:    string(computed.Status),
	}

	if override != nil {
		effective.MatchedID = override.MatchedID
		effective.Status = string(override.Status)
	}

	return effective
}
