package refdata

import (
	"sort"

	"github.com/fixwell/autocare-match/internal/model"
)

// VehicleIndex is the queryable form of the VCdb vehicle configuration
// catalog. Built once per run; read-only afterwards.
type VehicleIndex struct {
	byKey     map[string]*model.ReferenceVehicle
	byVariant map[string]*model.ReferenceVehicle
	byReduced map[string][]*model.ReferenceVehicle
	byID      map[int64]*model.ReferenceVehicle
	count     int
}

// BuildVehicleIndex normalizes rows, derives keys, deduplicates by key (the
// lowest vehicleConfigId wins a collision) and registers the dash-tolerant
// key variants for each surviving entry.
func BuildVehicleIndex(rows []model.ReferenceVehicle) *VehicleIndex {
	idx := &VehicleIndex{
		byKey:     make(map[string]*model.ReferenceVehicle, len(rows)),
		byVariant: make(map[string]*model.ReferenceVehicle, len(rows)*2),
		byReduced: make(map[string][]*model.ReferenceVehicle),
		byID:      make(map[int64]*model.ReferenceVehicle, len(rows)),
	}

	// Dedup on the canonical key first so variant registration only sees
	// surviving entries.
	for i := range rows {
		row := rows[i]
		row.MakeName = NormalizeField(row.MakeName)
		row.ModelName = NormalizeField(row.ModelName)
		row.Submodel = NormalizeField(row.Submodel)
		row.EngineDescriptor = NormalizeField(row.EngineDescriptor)
		row.NormalizedKey = NormalizeKey(row.MakeName, row.ModelName, row.Year, row.Submodel, row.EngineDescriptor)

		existing, ok := idx.byKey[row.NormalizedKey]
		if ok && existing.VehicleConfigID <= row.VehicleConfigID {
			continue
		}
		entry := row
		idx.byKey[row.NormalizedKey] = &entry
	}

	for _, entry := range idx.byKey {
		idx.byID[entry.VehicleConfigID] = entry

		for _, variant := range KeyVariants(entry.MakeName, entry.ModelName, entry.Year, entry.Submodel, entry.EngineDescriptor) {
			// A canonical key always beats a variant spelling; among
			// variants the lowest id wins, same as the canonical dedup.
			if _, taken := idx.byKey[variant]; taken {
				continue
			}
			if prior, taken := idx.byVariant[variant]; taken && prior.VehicleConfigID <= entry.VehicleConfigID {
				continue
			}
			idx.byVariant[variant] = entry
		}

		reduced := ReducedKey(entry.MakeName, entry.ModelName, entry.Year)
		idx.byReduced[reduced] = append(idx.byReduced[reduced], entry)
	}

	// Reduced-key buckets iterate in id order so fuzzy scoring is
	// deterministic regardless of map walk order above.
	for _, bucket := range idx.byReduced {
		sort.Slice(bucket, func(i, j int) bool {
			return bucket[i].VehicleConfigID < bucket[j].VehicleConfigID
		})
	}

	idx.count = len(idx.byKey)
	return idx
}

// Lookup finds an entry by canonical key or any registered dash variant.
func (idx *VehicleIndex) Lookup(key string) (*model.ReferenceVehicle, bool) {
	if entry, ok := idx.byKey[key]; ok {
		return entry, true
	}
	entry, ok := idx.byVariant[key]
	return entry, ok
}

// ReducedLookup returns every entry sharing a make|model|year reduced key, in
// ascending vehicleConfigId order.
func (idx *VehicleIndex) ReducedLookup(reduced string) []*model.ReferenceVehicle {
	return idx.byReduced[reduced]
}

// ByConfigID resolves a vehicleConfigId back to its entry.
func (idx *VehicleIndex) ByConfigID(id int64) (*model.ReferenceVehicle, bool) {
	entry, ok := idx.byID[id]
	return entry, ok
}

// Len returns the number of deduplicated entries.
func (idx *VehicleIndex) Len() int {
	return idx.count
}
