package exec

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"chorus/internal/algo"
	"chorus/internal/logging"
	"chorus/internal/segment"
)

// ReferenceReader supplies externally annotated boundaries when no boundary
// algorithm is requested.
type ReferenceReader interface {
	ReferenceSegmentation(annotationPath string) (segment.Boundaries, segment.Labels, error)
}

// Executor applies the fusion/fallback policy over a resolved algorithm pair.
type Executor struct {
	refs   ReferenceReader
	logger *slog.Logger
}

// New builds an executor. The reference reader is required because the "gt"
// boundary identifier is always a valid configuration.
func New(refs ReferenceReader, logger *slog.Logger) (*Executor, error) {
	if refs == nil {
		return nil, errors.New("executor requires a reference reader")
	}
	return &Executor{refs: refs, logger: logging.NewComponentLogger(logger, "executor")}, nil
}

// Execute produces the final boundary and label sequences for one track.
//
// Policy, in order: if both handles are present and share one identity, run
// that algorithm once in joint mode. Otherwise run the boundary handle (or
// fall back to the reference annotation when absent), then, if a label handle
// is present, label over the now-fixed boundaries. Boundaries fixed by the
// boundary step are authoritative; a label algorithm's boundary output is
// discarded. Algorithm errors propagate unmodified — retries do not belong
// at this layer.
func (e *Executor) Execute(ctx context.Context, track algo.Track, bounds, labels algo.Segmenter, params algo.Params) (segment.Estimate, error) {
	if bounds != nil && labels != nil && bounds.Name() == labels.Name() {
		e.logger.Debug("running fused segmentation",
			logging.String(logging.FieldAlgorithm, bounds.Name()),
			logging.String(logging.FieldTrack, track.Audio),
		)
		return bounds.Segment(ctx, track, algo.JointRequest(params))
	}

	var est segment.Estimate
	if bounds != nil {
		e.logger.Debug("running boundary detection",
			logging.String(logging.FieldAlgorithm, bounds.Name()),
			logging.String(logging.FieldTrack, track.Audio),
		)
		detected, err := bounds.Segment(ctx, track, algo.BoundaryRequest(params))
		if err != nil {
			return segment.Estimate{}, err
		}
		est = detected
	} else {
		times, refLabels, err := e.refs.ReferenceSegmentation(track.Annotation)
		if err != nil {
			return segment.Estimate{}, fmt.Errorf("read reference boundaries: %w", err)
		}
		est = segment.Estimate{Times: times, Labels: refLabels}
	}

	if labels != nil {
		e.logger.Debug("labeling segments",
			logging.String(logging.FieldAlgorithm, labels.Name()),
			logging.String(logging.FieldTrack, track.Audio),
		)
		labeled, err := labels.Segment(ctx, track, algo.LabelRequest(params, est.Times))
		if err != nil {
			return segment.Estimate{}, err
		}
		// Boundaries stay fixed; only the labels are taken.
		est.Labels = labeled.Labels
	}

	return est, nil
}
