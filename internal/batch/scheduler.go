package batch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"chorus/internal/algo"
	"chorus/internal/annotation"
	"chorus/internal/dataset"
	"chorus/internal/exec"
	"chorus/internal/logging"
	"chorus/internal/runstore"
)

// DefaultWorkers is the worker pool size when none is configured.
const DefaultWorkers = 4

// Options configures one batch run.
type Options struct {
	// Root is the dataset root directory.
	Root string
	// Filter restricts the run to one collection prefix; "*" matches all.
	Filter string

	// BoundariesID selects the boundary algorithm; "gt" or empty uses
	// reference annotations.
	BoundariesID string
	// LabelsID selects the label algorithm; empty disables labeling.
	LabelsID string

	Feature    string
	AnnotBeats bool
	FrameSync  bool

	// Workers bounds the parallel task pool.
	Workers int
	// Seed is fixed into the shared params before dispatch.
	Seed int64

	Layout dataset.Layout
	Logger *slog.Logger

	// Store, when set, records the run and every item outcome.
	Store *runstore.Store

	// Discover overrides dataset enumeration; tests use this.
	Discover func(root, filter string, layout dataset.Layout) ([]dataset.Item, error)
	// References overrides the reference annotation reader; tests use this.
	References exec.ReferenceReader
}

// Process runs the batch described by opts and returns the aggregate report.
// Configuration errors are returned before any item work starts; per-item
// errors never abort the batch and are reported instead.
func Process(ctx context.Context, opts Options) (*Report, error) {
	started := time.Now()

	boundariesID := strings.TrimSpace(opts.BoundariesID)
	if boundariesID == "" {
		boundariesID = algo.ReferenceID
	}
	labelsID := strings.TrimSpace(opts.LabelsID)

	// Fail fast: identifier problems must never reach the parallel phase.
	bounds, err := algo.Resolve(boundariesID, algo.CapabilityBoundaries)
	if err != nil {
		return nil, err
	}
	labels, err := algo.Resolve(labelsID, algo.CapabilityLabels)
	if err != nil {
		return nil, err
	}

	workers := opts.Workers
	if workers < 1 {
		workers = DefaultWorkers
	}
	layout := opts.Layout
	if layout == (dataset.Layout{}) {
		layout = dataset.DefaultLayout()
	}
	discover := opts.Discover
	if discover == nil {
		discover = dataset.Discover
	}
	references := opts.References
	if references == nil {
		references = annotation.Reader{}
	}

	runID := uuid.NewString()
	ctx = logging.WithBatchID(ctx, runID)
	base := logging.NewComponentLogger(opts.Logger, "batch")
	logger := logging.WithContext(ctx, base)

	// The seed is part of the shared read-only params from here on; nothing
	// mutates it after dispatch.
	params := algo.BuildParams(opts.Feature, opts.AnnotBeats, opts.FrameSync, opts.Seed, bounds, labels)

	executor, err := exec.New(references, opts.Logger)
	if err != nil {
		return nil, err
	}

	items, err := discover(opts.Root, opts.Filter, layout)
	if err != nil {
		return nil, fmt.Errorf("discover dataset: %w", err)
	}

	logger.Info("batch starting",
		logging.String("root", opts.Root),
		logging.String(logging.FieldDataset, opts.Filter),
		logging.String(logging.FieldBoundariesID, boundariesID),
		logging.String(logging.FieldLabelsID, labelsID),
		logging.Int("items", len(items)),
		logging.Int("workers", workers),
		logging.Int64("seed", params.Seed),
	)

	if opts.Store != nil {
		run := runstore.Run{
			ID:           runID,
			StartedAt:    started,
			DatasetRoot:  opts.Root,
			NameFilter:   opts.Filter,
			BoundariesID: boundariesID,
			LabelsID:     labelsID,
			Feature:      params.Feature,
			AnnotBeats:   params.AnnotBeats,
			FrameSync:    params.FrameSync,
			Seed:         params.Seed,
			Workers:      workers,
			Fingerprint:  params.Fingerprint(),
		}
		if err := opts.Store.BeginRun(ctx, run); err != nil {
			return nil, err
		}
	}

	t := &task{
		executor:     executor,
		bounds:       bounds,
		labels:       labels,
		params:       params,
		boundariesID: boundariesID,
		labelsID:     labelsID,
		logger:       base,
	}

	report := &Report{RunID: runID, Total: len(items)}
	collect(ctx, items, workers, t, func(res result) {
		recordOutcome(ctx, opts.Store, runID, res, logger)
		switch res.status {
		case runstore.ItemProcessed:
			report.Processed++
		case runstore.ItemSkipped:
			report.Skipped++
		case runstore.ItemFailed:
			report.Failures = append(report.Failures, Failure{Track: res.item.Track, Err: res.err})
		}
	})

	report.Elapsed = time.Since(started)

	if opts.Store != nil {
		if err := opts.Store.FinishRun(ctx, runID, report.Processed, report.Skipped, report.Failed(), time.Now()); err != nil {
			logger.Warn("failed to finalize run record", logging.Error(err))
		}
	}

	logger.Info("batch finished",
		logging.Int("processed", report.Processed),
		logging.Int("skipped", report.Skipped),
		logging.Int("failed", report.Failed()),
		logging.Duration("elapsed", report.Elapsed),
	)
	return report, nil
}

// collect fans items out across the worker pool and funnels every result
// through a single callback, so tallies and store writes never race.
func collect(ctx context.Context, items []dataset.Item, workers int, t *task, sink func(result)) {
	jobs := make(chan dataset.Item)
	results := make(chan result)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range jobs {
				results <- t.run(ctx, item)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, item := range items {
			select {
			case jobs <- item:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	for res := range results {
		sink(res)
	}
}

func recordOutcome(ctx context.Context, store *runstore.Store, runID string, res result, logger *slog.Logger) {
	switch res.status {
	case runstore.ItemFailed:
		logger.Error("track failed",
			logging.String(logging.FieldTrack, res.item.Track),
			logging.Error(res.err),
		)
	case runstore.ItemSkipped:
		logger.Debug("track skipped", logging.String(logging.FieldTrack, res.item.Track))
	}

	if store == nil {
		return
	}
	rec := runstore.ItemRecord{
		RunID:      runID,
		Track:      res.item.Track,
		Collection: res.item.Collection,
		Status:     res.status,
		Elapsed:    res.elapsed,
	}
	if res.err != nil {
		rec.Error = res.err.Error()
	}
	if res.status == runstore.ItemProcessed {
		rec.OutputPath = res.item.Output
	}
	if err := store.RecordItem(ctx, rec); err != nil {
		logger.Warn("failed to record item outcome",
			logging.String(logging.FieldTrack, res.item.Track),
			logging.Error(err),
		)
	}
}
