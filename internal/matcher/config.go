// Package matcher produces ranked reference-catalog candidates for captured
// vehicle and part records. Matching is synchronous, deterministic and free
// of side effects; one read-only index serves any number of concurrent calls.
package matcher

// fuzzyCeiling keeps every non-exact confidence strictly below 1.0 so the
// boundary between "exact" and "best effort" stays visible downstream.
const fuzzyCeiling = 0.99

// Config holds the tunable thresholds of both matchers. The catalog's own
// values for these are inconsistent across call sites, so they are
// configuration here, not constants.
type Config struct {
	// FuzzyAcceptThreshold is the minimum name similarity a fuzzy part
	// match needs to be kept as a candidate.
	FuzzyAcceptThreshold float64
	// VehicleFuzzyFloor is the minimum submodel/engine similarity for a
	// fuzzy vehicle candidate.
	VehicleFuzzyFloor float64
	// DescriptionCap bounds description-match confidence so it always ranks
	// below a true fuzzy name match.
	DescriptionCap float64
	// TopK bounds how many alternatives a match carries.
	TopK int
	// RecallLimit bounds how many candidates keyword recall surfaces before
	// re-scoring.
	RecallLimit int
	// Exhaustive computes every strategy and keeps the best score per
	// reference entry instead of stopping at the first strategy that hits.
	Exhaustive bool
}

// DefaultConfig returns the default matcher configuration.
func DefaultConfig() Config {
	return Config{
		FuzzyAcceptThreshold: 0.8,
		VehicleFuzzyFloor:    0.5,
		DescriptionCap:       0.79,
		TopK:                 5,
		RecallLimit:          50,
		Exhaustive:           false,
	}
}
