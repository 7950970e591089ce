// Package engine runs the matchers over batches of captured records. Records
// are independent, so the run fans out across a worker pool against one
// read-only index; human-reviewed records are skipped, never recomputed.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/fixwell/autocare-match/internal/classify"
	"github.com/fixwell/autocare-match/internal/common"
	"github.com/fixwell/autocare-match/internal/matcher"
	"github.com/fixwell/autocare-match/internal/model"
	"github.com/fixwell/autocare-match/internal/refdata"
)

// OverrideStore is the slice of the storage layer the engine needs: the
// stored review layer that decides which records are off-limits.
type OverrideStore interface {
	ListOverrides(ctx context.Context, recordType model.RecordType) (map[string]*model.ReviewedOverride, error)
}

// Options configures a batch run.
type Options struct {
	// Workers bounds the fan-out; 0 means one worker per CPU.
	Workers int
	// Progress receives a progress callback per finished record when set.
	Progress func(done, total int)
}

// Runner matches batches of captured records against the built indexes.
type Runner struct {
	vehicleIdx     *refdata.VehicleIndex
	partIdx        *refdata.PartIndex
	vehicleMatcher *matcher.VehicleMatcher
	partMatcher    *matcher.PartMatcher
	overrides      OverrideStore
	classifyCfg    classify.Config
}

// NewRunner wires a runner from built indexes and configuration. The
// override store may be nil when no review layer exists yet.
func NewRunner(vehicleIdx *refdata.VehicleIndex, partIdx *refdata.PartIndex, matchCfg matcher.Config, classifyCfg classify.Config, overrides OverrideStore) *Runner {
	r := &Runner{
		vehicleIdx:  vehicleIdx,
		partIdx:     partIdx,
		overrides:   overrides,
		classifyCfg: classifyCfg,
	}
	if vehicleIdx != nil {
		r.vehicleMatcher = matcher.NewVehicleMatcher(vehicleIdx, matchCfg)
	}
	if partIdx != nil {
		r.partMatcher = matcher.NewPartMatcher(partIdx, matchCfg)
	}
	return r
}

// WithPartCandidateSource switches part matching to keyword recall through
// the given source.
func (r *Runner) WithPartCandidateSource(src refdata.CandidateSource) *Runner {
	if r.partMatcher != nil {
		r.partMatcher.WithCandidateSource(src)
	}
	return r
}

// VehicleOutcome is the per-unit result of a batch run.
type VehicleOutcome struct {
	Unit        model.CapturedVehicle
	Effective   model.EffectiveResult
	Suggestions []model.Suggestion
	// Skipped is true when a human-terminal override blocked recomputation.
	Skipped bool
}

// PartOutcome is the per-part result of a batch run.
type PartOutcome struct {
	Part        model.CapturedPart
	Effective   model.EffectiveResult
	Suggestions []model.Suggestion
	Skipped     bool
}

// Stats summarizes a batch run for logs and the failure-reason charts.
type Stats struct {
	Total           int
	Matched         int
	NeedsReview     int
	Unmatched       int
	SkippedReviewed int
	FailureCounts   map[model.FailureReason]int
	Duration        time.Duration
}

// MatchVehicles matches every captured vehicle. Output order mirrors input
// order regardless of worker scheduling.
func (r *Runner) MatchVehicles(ctx context.Context, units []model.CapturedVehicle, opts Options) ([]VehicleOutcome, *Stats, error) {
	if r.vehicleMatcher == nil {
		return nil, nil, &common.MissingReferenceDataError{Table: "reference_vehicles"}
	}
	if len(units) == 0 {
		return nil, nil, common.ErrNoRecords
	}

	overrides, err := r.loadOverrides(ctx, model.RecordTypeVehicle)
	if err != nil {
		return nil, nil, err
	}

	slog.Info("Starting vehicle batch", "units", len(units), "workers", opts.workers())

	start := time.Now()
	outcomes := make([]VehicleOutcome, len(units))
	err = r.fanOut(ctx, len(units), opts, func(i int) {
		outcomes[i] = r.matchVehicle(units[i], overrides[units[i].UnitID])
	})
	if err != nil {
		return nil, nil, err
	}

	stats := buildStats(len(units), start)
	for i := range outcomes {
		stats.observe(outcomes[i].Effective, outcomes[i].Skipped)
	}

	slog.Info("Vehicle batch complete",
		"matched", stats.Matched,
		"needs_review", stats.NeedsReview,
		"unmatched", stats.Unmatched,
		"skipped_reviewed", stats.SkippedReviewed,
		"duration", stats.Duration.Round(time.Millisecond))
	return outcomes, stats, nil
}

// MatchParts matches every captured part line item.
func (r *Runner) MatchParts(ctx context.Context, parts []model.CapturedPart, opts Options) ([]PartOutcome, *Stats, error) {
	if r.partMatcher == nil {
		return nil, nil, &common.MissingReferenceDataError{Table: "reference_parts"}
	}
	if len(parts) == 0 {
		return nil, nil, common.ErrNoRecords
	}

	overrides, err := r.loadOverrides(ctx, model.RecordTypePart)
	if err != nil {
		return nil, nil, err
	}

	slog.Info("Starting part batch", "parts", len(parts), "workers", opts.workers())

	start := time.Now()
	outcomes := make([]PartOutcome, len(parts))
	var firstErr error
	var errOnce sync.Once

	err = r.fanOut(ctx, len(parts), opts, func(i int) {
		outcome, matchErr := r.matchPart(ctx, parts[i], overrides[parts[i].PartID])
		if matchErr != nil {
			errOnce.Do(func() { firstErr = matchErr })
			return
		}
		outcomes[i] = outcome
	})
	if err != nil {
		return nil, nil, err
	}
	if firstErr != nil {
		return nil, nil, firstErr
	}

	stats := buildStats(len(parts), start)
	for i := range outcomes {
		stats.observe(outcomes[i].Effective, outcomes[i].Skipped)
	}

	slog.Info("Part batch complete",
		"matched", stats.Matched,
		"needs_review", stats.NeedsReview,
		"unmatched", stats.Unmatched,
		"skipped_reviewed", stats.SkippedReviewed,
		"duration", stats.Duration.Round(time.Millisecond))
	return outcomes, stats, nil
}

// matchVehicle computes one unit's effective result. A stored override is
// always terminal, so its presence means the human decision stands and the
// matcher does not run.
func (r *Runner) matchVehicle(unit model.CapturedVehicle, override *model.ReviewedOverride) VehicleOutcome {
	if override != nil && override.Status.Terminal() {
		return VehicleOutcome{
			Unit:      unit,
			Effective: classify.Overlay(model.MatchResult{}, override),
			Skipped:   true,
		}
	}

	candidates := r.vehicleMatcher.FindCandidates(unit)
	result := classify.ClassifyVehicle(unit, candidates, r.classifyCfg)

	return VehicleOutcome{
		Unit:        unit,
		Effective:   classify.Overlay(result, nil),
		Suggestions: classify.BuildVehicleSuggestions(unit, result, r.vehicleIdx),
	}
}

func (r *Runner) matchPart(ctx context.Context, part model.CapturedPart, override *model.ReviewedOverride) (PartOutcome, error) {
	if override != nil && override.Status.Terminal() {
		return PartOutcome{
			Part:      part,
			Effective: classify.Overlay(model.MatchResult{}, override),
			Skipped:   true,
		}, nil
	}

	candidates, err := r.partMatcher.FindCandidates(ctx, part)
	if err != nil {
		return PartOutcome{}, fmt.Errorf("part %s: %w", part.PartID, err)
	}
	result := classify.ClassifyPart(part, candidates, r.classifyCfg)

	return PartOutcome{
		Part:        part,
		Effective:   classify.Overlay(result, nil),
		Suggestions: classify.BuildPartSuggestions(part, result, r.partIdx),
	}, nil
}

// fanOut runs fn over [0,total) on the worker pool. Indexes are handed out
// through a channel; outputs go to caller-owned slots, so no ordering or
// locking is needed beyond the wait.
func (r *Runner) fanOut(ctx context.Context, total int, opts Options, fn func(i int)) error {
	work := make(chan int, total)
	for i := 0; i < total; i++ {
		work <- i
	}
	close(work)

	var wg sync.WaitGroup
	var done int
	var doneMu sync.Mutex

	workers := opts.workers()
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range work {
				select {
				case <-ctx.Done():
					return
				default:
				}
				fn(i)

				if opts.Progress != nil {
					doneMu.Lock()
					done++
					opts.Progress(done, total)
					doneMu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	return ctx.Err()
}

func (r *Runner) loadOverrides(ctx context.Context, recordType model.RecordType) (map[string]*model.ReviewedOverride, error) {
	if r.overrides == nil {
		return nil, nil
	}
	overrides, err := r.overrides.ListOverrides(ctx, recordType)
	if err != nil {
		return nil, fmt.Errorf("failed to load review overrides: %w", err)
	}
	return overrides, nil
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.NumCPU()
}

func buildStats(total int, start time.Time) *Stats {
	return &Stats{
		Total:         total,
		FailureCounts: make(map[model.FailureReason]int),
		Duration:      time.Since(start),
	}
}

func (s *Stats) observe(effective model.EffectiveResult, skipped bool) {
	if skipped {
		s.SkippedReviewed++
		return
	}
	switch effective.Computed.Status {
	case model.StatusMatched:
		s.Matched++
	case model.StatusNeedsReview:
		s.NeedsReview++
	case model.StatusUnmatched:
		s.Unmatched++
		s.FailureCounts[effective.Computed.FailureReason]++
	}
}
