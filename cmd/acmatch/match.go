package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fixwell/autocare-match/internal/cli"
	"github.com/fixwell/autocare-match/internal/common"
	"github.com/fixwell/autocare-match/internal/engine"
	"github.com/fixwell/autocare-match/internal/model"
)

func matchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Batch-match captured records against the reference catalogs",
		Long: `Match captured vehicle units and part line items against the imported
AutoCare catalogs. Each record gets a confidence-scored result; records a
human already reviewed are skipped, never recomputed.

Input files are JSON arrays of captured records. Results are written as
JSON with the computed match embedded per record.`,
		RunE: runMatch,
	}

	cmd.Flags().String("units", "", "path to captured vehicle units (JSON)")
	cmd.Flags().String("parts", "", "path to captured part line items (JSON)")
	cmd.Flags().StringP("output", "o", "", "write results to this file instead of stdout")
	cmd.Flags().Int("workers", 0, "worker pool size (0 = one per CPU)")
	cmd.Flags().Bool("exhaustive", false, "run every part strategy and keep the best candidate per reference entry")
	_ = viper.BindPFlag("engine.workers", cmd.Flags().Lookup("workers"))
	_ = viper.BindPFlag("matching.exhaustive", cmd.Flags().Lookup("exhaustive"))

	return cmd
}

// matchReport is the export shape of a batch run.
type matchReport struct {
	Vehicles []vehicleReport `json:"vehicles,omitempty"`
	Parts    []partReport    `json:"parts,omitempty"`
}

type vehicleReport struct {
	Unit        model.CapturedVehicle `json:"unit"`
	Result      model.EffectiveResult `json:"result"`
	Suggestions []model.Suggestion    `json:"suggestions,omitempty"`
	Skipped     bool                  `json:"skippedReviewed,omitempty"`
}

type partReport struct {
	Part        model.CapturedPart    `json:"part"`
	Result      model.EffectiveResult `json:"result"`
	Suggestions []model.Suggestion    `json:"suggestions,omitempty"`
	Skipped     bool                  `json:"skippedReviewed,omitempty"`
}

func runMatch(cmd *cobra.Command, _ []string) error {
	unitsPath, _ := cmd.Flags().GetString("units")
	partsPath, _ := cmd.Flags().GetString("parts")
	outputPath, _ := cmd.Flags().GetString("output")

	if unitsPath == "" && partsPath == "" {
		return fmt.Errorf("at least one of --units or --parts is required")
	}

	ctx := cmd.Context()
	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	vehicleIdx, partIdx, err := loadIndexes(ctx, store)
	if err != nil {
		return err
	}

	runner := engine.NewRunner(vehicleIdx, partIdx, matcherConfig(), classifyConfig(), store)
	if partIdx != nil {
		indexed, err := store.HasPartTokenIndex(ctx)
		if err != nil {
			return err
		}
		if indexed {
			runner.WithPartCandidateSource(store.CandidateSource())
		}
	}

	report := matchReport{}

	if unitsPath != "" {
		var units []model.CapturedVehicle
		if err := readJSONFile(unitsPath, &units); err != nil {
			return fmt.Errorf("failed to read units: %w", err)
		}

		outcomes, stats, err := runner.MatchVehicles(ctx, units, batchOptions("Matching vehicles...", len(units)))
		if err != nil {
			return err
		}
		for _, outcome := range outcomes {
			report.Vehicles = append(report.Vehicles, vehicleReport{
				Unit:        outcome.Unit,
				Result:      outcome.Effective,
				Suggestions: outcome.Suggestions,
				Skipped:     outcome.Skipped,
			})
		}
		fmt.Fprintln(cmd.OutOrStdout(), cli.RenderBatchSummary("Vehicle Matching", stats))
	}

	if partsPath != "" {
		var parts []model.CapturedPart
		if err := readJSONFile(partsPath, &parts); err != nil {
			return fmt.Errorf("failed to read parts: %w", err)
		}

		outcomes, stats, err := runner.MatchParts(ctx, parts, batchOptions("Matching parts...", len(parts)))
		if err != nil {
			return err
		}
		for _, outcome := range outcomes {
			report.Parts = append(report.Parts, partReport{
				Part:        outcome.Part,
				Result:      outcome.Effective,
				Suggestions: outcome.Suggestions,
				Skipped:     outcome.Skipped,
			})
		}
		fmt.Fprintln(cmd.OutOrStdout(), cli.RenderBatchSummary("Part Matching", stats))
	}

	return writeReport(cmd, outputPath, &report)
}

// batchOptions wires a progress bar into the engine's callback. The bar goes
// to stderr so piped output stays clean.
func batchOptions(description string, total int) engine.Options {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription(description),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(os.Stderr)
		}),
	)

	return engine.Options{
		Workers: viper.GetInt("engine.workers"),
		Progress: func(done, total int) {
			_ = bar.Set(done)
		},
	}
}

func writeReport(cmd *cobra.Command, path string, report *matchReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}

	if path == "" {
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		return common.NewUserError(fmt.Sprintf("could not write results to %s", path), err)
	}
	return nil
}
