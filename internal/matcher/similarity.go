package matcher

import (
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// jaroWinkler is shared across all similarity calls; the metric itself is
// stateless and safe for concurrent use.
var jaroWinkler = metrics.NewJaroWinkler()

// Similarity computes case-insensitive Jaro-Winkler similarity in [0,1].
func Similarity(a, b string) float64 {
	return strutil.Similarity(strings.ToLower(a), strings.ToLower(b), jaroWinkler)
}

// fieldSimilarity scores one optional field pair. Two absent values agree
// perfectly; one absent value is half credit rather than a hard miss, since
// captured records routinely leave submodel and engine blank.
func fieldSimilarity(captured, reference string) float64 {
	captured = strings.TrimSpace(captured)
	reference = strings.TrimSpace(reference)

	switch {
	case captured == "" && reference == "":
		return 1.0
	case captured == "" || reference == "":
		return 0.5
	default:
		return Similarity(captured, reference)
	}
}
