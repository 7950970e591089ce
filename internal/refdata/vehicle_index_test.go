package refdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixwell/autocare-match/internal/model"
)

func testVehicleRows() []model.ReferenceVehicle {
	return []model.ReferenceVehicle{
		{VehicleConfigID: 101, MakeID: 1, MakeName: "Ford", ModelID: 10, ModelName: "F-150", Year: 2015, Submodel: "XLT", EngineDescriptor: "3.5L V6"},
		{VehicleConfigID: 102, MakeID: 1, MakeName: "Ford", ModelID: 10, ModelName: "F-150", Year: 2015, Submodel: "Lariat", EngineDescriptor: "5.0L V8"},
		{VehicleConfigID: 201, MakeID: 2, MakeName: "Toyota", ModelID: 20, ModelName: "Camry", Year: 2020, Submodel: "LE", EngineDescriptor: "2.5L I4"},
	}
}

func TestBuildVehicleIndex_Lookup(t *testing.T) {
	idx := BuildVehicleIndex(testVehicleRows())
	require.Equal(t, 3, idx.Len())

	entry, ok := idx.Lookup("ford|f-150|2015|xlt|3.5l v6")
	require.True(t, ok)
	assert.Equal(t, int64(101), entry.VehicleConfigID)

	_, ok = idx.Lookup("ford|f-150|2015|xl|3.5l v6")
	assert.False(t, ok)
}

func TestBuildVehicleIndex_VariantLookup(t *testing.T) {
	idx := BuildVehicleIndex(testVehicleRows())

	// The stripped-dash spelling resolves to the same entry.
	entry, ok := idx.Lookup("ford|f150|2015|xlt|3.5l v6")
	require.True(t, ok)
	assert.Equal(t, int64(101), entry.VehicleConfigID)
}

func TestBuildVehicleIndex_CanonicalBeatsVariant(t *testing.T) {
	rows := []model.ReferenceVehicle{
		// An undashed catalog row whose dash variant would collide with the
		// dashed row's canonical key.
		{VehicleConfigID: 300, MakeName: "Ford", ModelName: "F150", Year: 2015, Submodel: "XLT", EngineDescriptor: "3.5L V6"},
		{VehicleConfigID: 301, MakeName: "Ford", ModelName: "F-150", Year: 2015, Submodel: "XLT", EngineDescriptor: "3.5L V6"},
	}
	idx := BuildVehicleIndex(rows)

	entry, ok := idx.Lookup("ford|f-150|2015|xlt|3.5l v6")
	require.True(t, ok)
	assert.Equal(t, int64(301), entry.VehicleConfigID, "canonical key wins over another entry's variant")

	entry, ok = idx.Lookup("ford|f150|2015|xlt|3.5l v6")
	require.True(t, ok)
	assert.Equal(t, int64(300), entry.VehicleConfigID)
}

func TestBuildVehicleIndex_DuplicateKeyKeepsLowestID(t *testing.T) {
	rows := []model.ReferenceVehicle{
		{VehicleConfigID: 500, MakeName: "Honda", ModelName: "Civic", Year: 2019},
		{VehicleConfigID: 400, MakeName: "HONDA", ModelName: "civic", Year: 2019},
		{VehicleConfigID: 450, MakeName: "honda", ModelName: "Civic", Year: 2019},
	}
	idx := BuildVehicleIndex(rows)
	require.Equal(t, 1, idx.Len())

	entry, ok := idx.Lookup("honda|civic|2019||")
	require.True(t, ok)
	assert.Equal(t, int64(400), entry.VehicleConfigID)
}

func TestVehicleIndex_ReducedLookup(t *testing.T) {
	idx := BuildVehicleIndex(testVehicleRows())

	bucket := idx.ReducedLookup("ford|f-150|2015")
	require.Len(t, bucket, 2)
	assert.Equal(t, int64(101), bucket[0].VehicleConfigID, "bucket iterates in ascending id order")
	assert.Equal(t, int64(102), bucket[1].VehicleConfigID)

	assert.Empty(t, idx.ReducedLookup("ford|f-150|2016"))
}

func TestVehicleIndex_ByConfigID(t *testing.T) {
	idx := BuildVehicleIndex(testVehicleRows())

	entry, ok := idx.ByConfigID(201)
	require.True(t, ok)
	assert.Equal(t, "toyota", entry.MakeName)
	assert.Equal(t, "camry", entry.ModelName)

	_, ok = idx.ByConfigID(999)
	assert.False(t, ok)
}
