package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"chorus/internal/algo"
	"chorus/internal/annotation"
	"chorus/internal/dataset"
	"chorus/internal/estimation"
	"chorus/internal/exec"
	"chorus/internal/logging"
	"chorus/internal/runstore"
)

// result is one track's outcome on its way to the collector.
type result struct {
	item    dataset.Item
	status  runstore.ItemStatus
	err     error
	elapsed time.Duration
}

// task carries the per-batch state shared by every worker: the resolved
// handles and params are read-only once dispatch starts.
type task struct {
	executor     *exec.Executor
	bounds       algo.Segmenter
	labels       algo.Segmenter
	params       algo.Params
	boundariesID string
	labelsID     string
	logger       *slog.Logger
}

// run processes one dataset item: skip rule, execution, persistence. A panic
// inside an algorithm is reduced to a per-item failure so it cannot take the
// pool down.
func (t *task) run(ctx context.Context, item dataset.Item) (res result) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			res = result{item: item, status: runstore.ItemFailed, err: fmt.Errorf("algorithm panic: %v", r)}
		}
		res.elapsed = time.Since(start)
	}()

	ctx = logging.WithTrack(ctx, item.Track)
	logger := logging.WithContext(ctx, t.logger)

	if t.params.AnnotBeats {
		skip, err := beatAnnotationMissing(item)
		if err != nil {
			return result{item: item, status: runstore.ItemFailed, err: err}
		}
		if skip {
			logger.Debug("skipping track without beat annotation")
			return result{item: item, status: runstore.ItemSkipped}
		}
	}

	logger.Info("segmenting track",
		logging.String(logging.FieldBoundariesID, t.boundariesID),
		logging.String(logging.FieldLabelsID, t.labelsID),
	)

	track := algo.Track{Audio: item.Audio, Annotation: item.Annotation}
	est, err := t.executor.Execute(ctx, track, t.bounds, t.labels, t.params)
	if err != nil {
		return result{item: item, status: runstore.ItemFailed, err: err}
	}
	if err := est.Validate(); err != nil {
		return result{item: item, status: runstore.ItemFailed, err: fmt.Errorf("estimate invalid: %w", err)}
	}

	doc := estimation.New(item.Track, est, t.boundariesID, t.labelsID, t.params.Map())
	if err := estimation.Write(item.Output, doc); err != nil {
		return result{item: item, status: runstore.ItemFailed, err: err}
	}

	logger.Info("wrote estimation",
		logging.String("output", item.Output),
		logging.Int("segments", len(est.Times)-1),
	)
	return result{item: item, status: runstore.ItemProcessed}
}

// beatAnnotationMissing applies the annotated-beats precondition: a track
// with no annotation, no beat field, or an empty primary beat track is
// excluded from the batch rather than failed.
func beatAnnotationMissing(item dataset.Item) (bool, error) {
	if item.Annotation == "" {
		return true, nil
	}
	doc, err := annotation.Load(item.Annotation)
	if err != nil {
		return false, fmt.Errorf("load annotation: %w", err)
	}
	return !doc.HasBeatData(), nil
}
