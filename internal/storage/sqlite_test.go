package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixwell/autocare-match/internal/model"
)

// setupStorage creates a migrated in-memory store for tests.
func setupStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	store, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))

	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testReferenceVehicles() []model.ReferenceVehicle {
	return []model.ReferenceVehicle{
		{VehicleConfigID: 101, MakeID: 1, MakeName: "Ford", ModelID: 10, ModelName: "F-150", Year: 2015, Submodel: "XLT", EngineDescriptor: "3.5L V6"},
		{VehicleConfigID: 201, MakeID: 2, MakeName: "Toyota", ModelID: 20, ModelName: "Camry", Year: 2020},
	}
}

func testReferenceParts() []model.ReferencePart {
	return []model.ReferencePart{
		{
			PartTerminologyID: 1001,
			PartName:          "Disc Brake Pad Set",
			Description:       "Friction pads for disc brake calipers",
			Aliases:           []string{"brake pads"},
			RelatedPartIDs:    []int64{1002},
			SupersedesIDs:     []int64{900},
			Category:          &model.PartCategory{Primary: "Brake", Sub: "Friction", Confidence: 0.9},
		},
		{PartTerminologyID: 1002, PartName: "Brake Rotor", SupersededByIDs: []int64{1005}},
	}
}

func TestNewSQLiteStorage(t *testing.T) {
	t.Run("file database", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "test.db")
		store, err := NewSQLiteStorage(dbPath)
		require.NoError(t, err)
		defer func() { _ = store.Close() }()

		require.NoError(t, store.Migrate(context.Background()))
	})

	t.Run("in-memory database", func(t *testing.T) {
		store, err := NewSQLiteStorage(":memory:")
		require.NoError(t, err)
		defer func() { _ = store.Close() }()
	})
}

func TestMigrate(t *testing.T) {
	store := setupStorage(t)
	ctx := context.Background()

	for _, table := range []string{"reference_vehicles", "reference_parts", "part_aliases", "part_relations", "part_tokens", "review_overrides"} {
		exists, err := store.tableExists(ctx, table)
		require.NoError(t, err)
		assert.True(t, exists, "table %s should exist after migration", table)
	}

	t.Run("idempotent", func(t *testing.T) {
		require.NoError(t, store.Migrate(ctx))
	})
}

func TestValidation(t *testing.T) {
	store := setupStorage(t)
	ctx := context.Background()

	t.Run("empty vehicle slice", func(t *testing.T) {
		err := store.SaveReferenceVehicles(ctx, nil)
		assert.ErrorIs(t, err, ErrEmptySlice)
	})

	t.Run("vehicle without config id", func(t *testing.T) {
		err := store.SaveReferenceVehicles(ctx, []model.ReferenceVehicle{{MakeName: "Ford", ModelName: "F-150", Year: 2015}})
		assert.ErrorIs(t, err, ErrInvalidVehicle)
	})

	t.Run("vehicle without make", func(t *testing.T) {
		err := store.SaveReferenceVehicles(ctx, []model.ReferenceVehicle{{VehicleConfigID: 1, ModelName: "F-150", Year: 2015}})
		assert.ErrorIs(t, err, ErrInvalidVehicle)
	})

	t.Run("part without name", func(t *testing.T) {
		err := store.SaveReferenceParts(ctx, []model.ReferencePart{{PartTerminologyID: 1}})
		assert.ErrorIs(t, err, ErrInvalidPart)
	})

	t.Run("nil override", func(t *testing.T) {
		err := store.SaveOverride(ctx, nil)
		assert.ErrorIs(t, err, ErrNilParameter)
	})
}
