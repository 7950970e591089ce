package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/fixwell/autocare-match/internal/model"
)

func refdataCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refdata",
		Short: "Manage the AutoCare reference catalogs",
	}
	cmd.AddCommand(refdataImportCmd())
	return cmd
}

func refdataImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import VCdb/PCdb catalog extracts",
		Long: `Import reference catalog extracts into the local database and rebuild
the part token index used for keyword candidate recall.

Extracts are JSON arrays of catalog rows, one file per catalog.`,
		RunE: runRefdataImport,
	}

	cmd.Flags().String("vehicles", "", "path to a VCdb vehicle configuration extract (JSON)")
	cmd.Flags().String("parts", "", "path to a PCdb part terminology extract (JSON)")

	return cmd
}

func runRefdataImport(cmd *cobra.Command, _ []string) error {
	vehiclesPath, _ := cmd.Flags().GetString("vehicles")
	partsPath, _ := cmd.Flags().GetString("parts")

	if vehiclesPath == "" && partsPath == "" {
		return fmt.Errorf("at least one of --vehicles or --parts is required")
	}

	ctx := cmd.Context()
	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if vehiclesPath != "" {
		var rows []model.ReferenceVehicle
		if err := readJSONFile(vehiclesPath, &rows); err != nil {
			return fmt.Errorf("failed to read vehicle extract: %w", err)
		}
		if err := store.SaveReferenceVehicles(ctx, rows); err != nil {
			return fmt.Errorf("failed to import vehicles: %w", err)
		}
		slog.Info("Imported vehicle catalog", "rows", len(rows))
	}

	if partsPath != "" {
		var rows []model.ReferencePart
		if err := readJSONFile(partsPath, &rows); err != nil {
			return fmt.Errorf("failed to read part extract: %w", err)
		}
		if err := store.SaveReferenceParts(ctx, rows); err != nil {
			return fmt.Errorf("failed to import parts: %w", err)
		}
		if err := store.RebuildPartTokenIndex(ctx, rows); err != nil {
			return fmt.Errorf("failed to rebuild token index: %w", err)
		}
		slog.Info("Imported part catalog", "rows", len(rows))
	}

	return nil
}

func readJSONFile(path string, v any) error {
	data, err := os.ReadFile(path) // #nosec G304 -- user-supplied import path
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
