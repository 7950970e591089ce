package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fixwell/autocare-match/internal/api"
	"github.com/fixwell/autocare-match/internal/engine"
	"github.com/fixwell/autocare-match/internal/model"
)

func reviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Serve the match review API",
		Long: `Run the HTTP API the review wizard talks to. The captured records are
matched once at startup; reviewers then read effective results and post
validated or legacy overrides against them.`,
		RunE: runReview,
	}

	cmd.Flags().String("units", "", "path to captured vehicle units (JSON)")
	cmd.Flags().String("parts", "", "path to captured part line items (JSON)")
	cmd.Flags().String("listen", ":8080", "address to listen on")
	_ = viper.BindPFlag("api.listen", cmd.Flags().Lookup("listen"))

	return cmd
}

func runReview(cmd *cobra.Command, _ []string) error {
	unitsPath, _ := cmd.Flags().GetString("units")
	partsPath, _ := cmd.Flags().GetString("parts")

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

	classifyCfg := classifyConfig()
	runner := engine.NewRunner(vehicleIdx, partIdx, matcherConfig(), classifyCfg, store)
	if partIdx != nil {
		indexed, err := store.HasPartTokenIndex(ctx)
		if err != nil {
			return err
		}
		if indexed {
			runner.WithPartCandidateSource(store.CandidateSource())
		}
	}

	var vehicleOutcomes []engine.VehicleOutcome
	if unitsPath != "" {
		var units []model.CapturedVehicle
		if err := readJSONFile(unitsPath, &units); err != nil {
			return fmt.Errorf("failed to read units: %w", err)
		}
		vehicleOutcomes, _, err = runner.MatchVehicles(ctx, units, engine.Options{})
		if err != nil {
			return err
		}
	}

	var partOutcomes []engine.PartOutcome
	if partsPath != "" {
		var parts []model.CapturedPart
		if err := readJSONFile(partsPath, &parts); err != nil {
			return fmt.Errorf("failed to read parts: %w", err)
		}
		partOutcomes, _, err = runner.MatchParts(ctx, parts, engine.Options{})
		if err != nil {
			return err
		}
	}

	server := api.NewServer(store, vehicleIdx, partIdx, classifyCfg, vehicleOutcomes, partOutcomes)

	addr := viper.GetString("api.listen")
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("Review API listening", "addr", addr, "vehicles", len(vehicleOutcomes), "parts", len(partOutcomes))
		errChan <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("review API failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down review API: %w", err)
		}
		slog.Info("Review API stopped")
		return nil
	}
}
