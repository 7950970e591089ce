package matcher

import (
	"fmt"
	"strings"

	"github.com/fixwell/autocare-match/internal/model"
	"github.com/fixwell/autocare-match/internal/refdata"
)

// VehicleMatcher ranks reference vehicle configurations against a captured
// unit record.
type VehicleMatcher struct {
	idx *refdata.VehicleIndex
	cfg Config
}

// NewVehicleMatcher creates a vehicle matcher over a built index.
func NewVehicleMatcher(idx *refdata.VehicleIndex, cfg Config) *VehicleMatcher {
	return &VehicleMatcher{idx: idx, cfg: cfg}
}

// FindCandidates returns ranked candidates for the captured vehicle. An
// empty result means nothing cleared the fuzzy floor; the classifier decides
// what that means. Captured make and model are required: empty values are
// missing data, never wildcards.
func (m *VehicleMatcher) FindCandidates(v model.CapturedVehicle) model.Candidates {
	effective := m.applyVIN(v)

	if !effective.HasVehicleFields() || effective.Year <= 0 {
		return nil
	}

	if exact := m.exactPass(effective); len(exact) > 0 {
		return exact
	}

	return m.fuzzyPass(effective)
}

// applyVIN substitutes VIN-decoded make/year into fields the capture left
// blank. Present captured values are authoritative and never overridden.
func (m *VehicleMatcher) applyVIN(v model.CapturedVehicle) model.CapturedVehicle {
	vin := refdata.NormalizeVIN(v.VIN)
	if !refdata.ValidVIN(vin) {
		return v
	}

	decoded := decodeVIN(vin)
	if strings.TrimSpace(v.Make) == "" && decoded.Make != "" {
		v.Make = decoded.Make
	}
	if v.Year <= 0 && decoded.Year != 0 {
		v.Year = decoded.Year
	}
	return v
}

// exactPass looks up the canonical captured key and its dash variants. A hit
// is a single full-confidence candidate.
func (m *VehicleMatcher) exactPass(v model.CapturedVehicle) model.Candidates {
	keys := append(
		[]string{refdata.NormalizeKey(v.Make, v.Model, v.Year, v.Submodel, v.Engine)},
		refdata.KeyVariants(v.Make, v.Model, v.Year, v.Submodel, v.Engine)...,
	)

	for _, key := range keys {
		if entry, ok := m.idx.Lookup(key); ok {
			return model.Candidates{{
				ReferenceID: entry.VehicleConfigID,
				Label:       vehicleLabel(entry),
				Method:      model.MethodExact,
				Confidence:  1.0,
			}}
		}
	}
	return nil
}

// fuzzyPass collects entries sharing the reduced make|model|year key (and its
// dash variants) and scores submodel/engine similarity against the capture.
func (m *VehicleMatcher) fuzzyPass(v model.CapturedVehicle) model.Candidates {
	reducedKeys := append(
		[]string{refdata.ReducedKey(v.Make, v.Model, v.Year)},
		refdata.ReducedKeyVariants(v.Make, v.Model, v.Year)...,
	)

	seen := make(map[int64]bool)
	var candidates model.Candidates
	for _, reduced := range reducedKeys {
		for _, entry := range m.idx.ReducedLookup(reduced) {
			if seen[entry.VehicleConfigID] {
				continue
			}
			seen[entry.VehicleConfigID] = true

			score := m.scoreEntry(v, entry)
			if score < m.cfg.VehicleFuzzyFloor {
				continue
			}
			candidates = append(candidates, model.Candidate{
				ReferenceID: entry.VehicleConfigID,
				Label:       vehicleLabel(entry),
				Method:      model.MethodFuzzy,
				Confidence:  score,
			})
		}
	}

	return candidates.TopN(m.cfg.TopK)
}

// scoreEntry rates how well an entry's submodel and engine agree with the
// capture. Never reaches 1.0: a fuzzy match must stay distinguishable from
// an exact one.
func (m *VehicleMatcher) scoreEntry(v model.CapturedVehicle, entry *model.ReferenceVehicle) float64 {
	subScore := fieldSimilarity(v.Submodel, entry.Submodel)
	engScore := fieldSimilarity(v.Engine, entry.EngineDescriptor)

	score := (subScore + engScore) / 2
	if score > fuzzyCeiling {
		score = fuzzyCeiling
	}
	return score
}

func vehicleLabel(entry *model.ReferenceVehicle) string {
	label := fmt.Sprintf("%d %s %s", entry.Year, entry.MakeName, entry.ModelName)
	if entry.Submodel != "" {
		label += " " + entry.Submodel
	}
	return label
}
