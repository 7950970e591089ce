package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/fixwell/autocare-match/internal/classify"
	"github.com/fixwell/autocare-match/internal/common"
	"github.com/fixwell/autocare-match/internal/matcher"
	"github.com/fixwell/autocare-match/internal/refdata"
	"github.com/fixwell/autocare-match/internal/storage"
)

func databasePath() (string, error) {
	if path := viper.GetString("database.path"); path != "" {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "acmatch", "acmatch.db"), nil
}

func openStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath, err := databasePath()
	if err != nil {
		return nil, err
	}

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

func matcherConfig() matcher.Config {
	cfg := matcher.DefaultConfig()

	viper.SetDefault("matching.fuzzy_accept", cfg.FuzzyAcceptThreshold)
	viper.SetDefault("matching.vehicle_fuzzy_floor", cfg.VehicleFuzzyFloor)
	viper.SetDefault("matching.description_cap", cfg.DescriptionCap)
	viper.SetDefault("matching.top_k", cfg.TopK)
	viper.SetDefault("matching.recall_limit", cfg.RecallLimit)
	viper.SetDefault("matching.exhaustive", cfg.Exhaustive)

	cfg.FuzzyAcceptThreshold = viper.GetFloat64("matching.fuzzy_accept")
	cfg.VehicleFuzzyFloor = viper.GetFloat64("matching.vehicle_fuzzy_floor")
	cfg.DescriptionCap = viper.GetFloat64("matching.description_cap")
	cfg.TopK = viper.GetInt("matching.top_k")
	cfg.RecallLimit = viper.GetInt("matching.recall_limit")
	cfg.Exhaustive = viper.GetBool("matching.exhaustive")
	return cfg
}

func classifyConfig() classify.Config {
	cfg := classify.DefaultConfig()

	viper.SetDefault("classify.accept_floor", cfg.AcceptFloor)
	viper.SetDefault("classify.review_floor", cfg.ReviewFloor)
	viper.SetDefault("classify.ambiguity_epsilon", cfg.AmbiguityEpsilon)

	cfg.AcceptFloor = viper.GetFloat64("classify.accept_floor")
	cfg.ReviewFloor = viper.GetFloat64("classify.review_floor")
	cfg.AmbiguityEpsilon = viper.GetFloat64("classify.ambiguity_epsilon")
	return cfg
}

// loadIndexes builds both reference indexes from storage. A missing catalog
// degrades that record type rather than aborting, unless both are missing.
func loadIndexes(ctx context.Context, store *storage.SQLiteStorage) (*refdata.VehicleIndex, *refdata.PartIndex, error) {
	var vehicleIdx *refdata.VehicleIndex
	var partIdx *refdata.PartIndex

	vehicles, err := store.GetReferenceVehicles(ctx)
	switch {
	case common.IsMissingReferenceData(err):
		slog.Warn("Vehicle reference catalog unavailable, vehicle matching disabled", "error", err)
	case err != nil:
		return nil, nil, err
	case len(vehicles) > 0:
		vehicleIdx = refdata.BuildVehicleIndex(vehicles)
		slog.Info("Built vehicle index", "entries", vehicleIdx.Len())
	}

	parts, err := store.GetReferenceParts(ctx)
	switch {
	case common.IsMissingReferenceData(err):
		slog.Warn("Part reference catalog unavailable, part matching disabled", "error", err)
	case err != nil:
		return nil, nil, err
	case len(parts) > 0:
		partIdx = refdata.BuildPartIndex(parts)
		slog.Info("Built part index", "entries", partIdx.Len())
	}

	if vehicleIdx == nil && partIdx == nil {
		return nil, nil, common.NewUserError(
			"no reference catalogs found; run 'acmatch refdata import' first",
			&common.MissingReferenceDataError{Table: "reference_vehicles"},
		)
	}

	return vehicleIdx, partIdx, nil
}
