package builtin

import (
	"context"
	"errors"
	"fmt"

	"chorus/internal/algo"
	"chorus/internal/annotation"
	"chorus/internal/segment"
)

// Uniform splits a track into equally sized segments. It needs the track
// duration, which it reads from the reference annotation metadata.
type Uniform struct{}

func (Uniform) Name() string { return "uniform" }

func (Uniform) DetectsBoundaries() bool { return true }

func (Uniform) LabelsSegments() bool { return false }

func (Uniform) Defaults() map[string]any {
	return map[string]any{"uniform_segments": 8}
}

func (u Uniform) Segment(_ context.Context, track algo.Track, req algo.Request) (segment.Estimate, error) {
	if req.Mode == algo.ModeLabels {
		return segment.Estimate{}, errors.New("uniform: labeling not supported")
	}
	if track.Annotation == "" {
		return segment.Estimate{}, errors.New("uniform: track duration unavailable without an annotation")
	}

	doc, err := annotation.Load(track.Annotation)
	if err != nil {
		return segment.Estimate{}, fmt.Errorf("uniform: %w", err)
	}
	duration := doc.Metadata.Duration
	if duration <= 0 {
		return segment.Estimate{}, fmt.Errorf("uniform: annotation reports duration %g", duration)
	}

	count := req.Params.IntOption("uniform_segments", 8)
	if count < 1 {
		count = 1
	}

	times := make(segment.Boundaries, 0, count+1)
	for i := 0; i <= count; i++ {
		times = append(times, duration*float64(i)/float64(count))
	}
	return segment.Estimate{Times: times}, nil
}
