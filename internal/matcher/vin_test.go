package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeVIN(t *testing.T) {
	tests := []struct {
		name     string
		vin      string
		wantMake string
		wantYear int
	}{
		{
			name:     "ford with letter year code",
			vin:      "1FTFW1ET5BFC10312",
			wantMake: "ford",
			wantYear: 2011,
		},
		{
			name:     "three character prefix beats two",
			vin:      "1HGCM82633A004352",
			wantMake: "honda",
			wantYear: 2003,
		},
		{
			name:     "digit year code",
			vin:      "2T1BU4EE5AC234567",
			wantMake: "toyota",
			wantYear: 2010,
		},
		{
			name:     "unknown prefix yields no make",
			vin:      "ZZZZZ1ET5BFC10312",
			wantMake: "",
			wantYear: 2011,
		},
		{
			name:     "invalid vin decodes nothing",
			vin:      "1FTFW1ET5BFC1031",
			wantMake: "",
			wantYear: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded := decodeVIN(tt.vin)
			assert.Equal(t, tt.wantMake, decoded.Make)
			assert.Equal(t, tt.wantYear, decoded.Year)
		})
	}
}

func TestFieldSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, fieldSimilarity("", ""), 0.001)
	assert.InDelta(t, 1.0, fieldSimilarity("XLT", "xlt"), 0.001)
	assert.InDelta(t, 0.5, fieldSimilarity("", "3.5L V6"), 0.001)
	assert.InDelta(t, 0.5, fieldSimilarity("XLT", "  "), 0.001)
	assert.Less(t, fieldSimilarity("XLT", "Lariat"), 0.8)
}
