package model

// CapturedVehicle is a dirty vehicle record lifted from a shop's unit table.
// Every field is free text as entered at the counter; empty string (or zero
// year) means the value was never captured. Only the review workflow may
// mutate a captured record; the matcher never does.
type CapturedVehicle struct {
	UnitID string `json:"unitId"`
	// VIN may be malformed or absent; it is only trusted once it passes
	// structural validation.
	VIN   string `json:"vin,omitempty"`
	Make  string `json:"make,omitempty"`
	Model string `json:"model,omitempty"`
	Year  int    `json:"year,omitempty"`
	// Submodel is rarely captured at the counter; empty means unknown.
	Submodel     string `json:"submodel,omitempty"`
	Engine       string `json:"engine,omitempty"`
	Transmission string `json:"transmission,omitempty"`
}

// HasVehicleFields reports whether the record carries enough data to attempt
// a match at all. Whitespace-only make or model counts as missing, never as
// a wildcard.
func (v *CapturedVehicle) HasVehicleFields() bool {
	return trimmedNonEmpty(v.Make) && trimmedNonEmpty(v.Model)
}

// CapturedPart is a dirty part line item from a service-order correction.
type CapturedPart struct {
	PartID      string  `json:"partId"`
	Title       string  `json:"title,omitempty"`
	Description string  `json:"description,omitempty"`
	Quantity    int     `json:"quantity,omitempty"`
	UnitCost    float64 `json:"unitCost,omitempty"`
}

// HasTitle reports whether the record has any usable text to match on.
func (p *CapturedPart) HasTitle() bool {
	return trimmedNonEmpty(p.Title) || trimmedNonEmpty(p.Description)
}
