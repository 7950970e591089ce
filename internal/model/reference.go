package model

// ReferenceVehicle is one row of the AutoCare vehicle configuration catalog
// (VCdb), normalized at index-build time. Entries are built once per run and
// read-only thereafter.
type ReferenceVehicle struct {
	MakeID    int64  `json:"makeId"`
	MakeName  string `json:"makeName"`
	ModelID   int64  `json:"modelId"`
	ModelName string `json:"modelName"`
	Year      int    `json:"year"`
	// Submodel may be empty; spelling varies between captured data and the
	// catalog ("f150" vs "f-150"), which the index tolerates via key variants.
	Submodel         string `json:"submodel,omitempty"`
	EngineDescriptor string `json:"engineDescriptor,omitempty"`
	// VehicleConfigID identifies the most specific matching catalog row and
	// is the tie-break key across the whole matcher.
	VehicleConfigID int64 `json:"vehicleConfigId"`
	// NormalizedKey is derived as lowercase make|model|year|submodel|engine.
	// Unique after deduplication; lowest VehicleConfigID wins a collision.
	NormalizedKey string `json:"-"`
}

// PartCategory is the optional category assignment carried by a reference
// part, with the catalog's own confidence in the assignment.
type PartCategory struct {
	Primary    string  `json:"primary"`
	Sub        string  `json:"sub,omitempty"`
	Confidence float64 `json:"confidence"`
}

// ReferencePart is one entry of the AutoCare part terminology catalog (PCdb),
// aggregated by part id. Built once per run, read-only.
type ReferencePart struct {
	PartTerminologyID int64    `json:"partTerminologyId"`
	PartName          string   `json:"partName"`
	Description       string   `json:"description,omitempty"`
	Aliases           []string `json:"aliases,omitempty"`
	RelatedPartIDs    []int64  `json:"relatedPartIds,omitempty"`
	SupersededByIDs   []int64  `json:"supersededByIds,omitempty"`
	SupersedesIDs     []int64  `json:"supersedesIds,omitempty"`
	// Category is nil when the catalog carries no assignment for this part.
	Category *PartCategory `json:"category,omitempty"`
	// SearchableTokens holds normalized tokens (length >= 3) derived from
	// name, description and aliases; used for keyword candidate recall.
	SearchableTokens []string `json:"-"`
}
