package builtin

import (
	"context"
	"errors"
	"sort"
	"sync"

	"chorus/internal/algo"
	"chorus/internal/segment"
)

// LevelSet assigns a label to each segment by ranking interval lengths into
// a small number of levels, so segments of similar length share a label.
type LevelSet struct{}

func (LevelSet) Name() string { return "levelset" }

func (LevelSet) DetectsBoundaries() bool { return false }

func (LevelSet) LabelsSegments() bool { return true }

func (LevelSet) Defaults() map[string]any {
	return map[string]any{"levelset_levels": 4}
}

func (l LevelSet) Segment(_ context.Context, _ algo.Track, req algo.Request) (segment.Estimate, error) {
	if req.Mode != algo.ModeLabels {
		return segment.Estimate{}, errors.New("levelset: boundary detection not supported")
	}
	bounds := req.FixedBounds
	if err := bounds.Validate(); err != nil {
		return segment.Estimate{}, err
	}

	levels := req.Params.IntOption("levelset_levels", 4)
	if levels < 1 {
		levels = 1
	}

	intervals := segment.Intervals(bounds)
	lengths := make([]float64, len(intervals))
	for i, iv := range intervals {
		lengths[i] = iv.End - iv.Start
	}

	ranked := append([]float64{}, lengths...)
	sort.Float64s(ranked)

	labels := make(segment.Labels, len(lengths))
	for i, length := range lengths {
		rank := sort.SearchFloat64s(ranked, length)
		bucket := rank * levels / len(ranked)
		if bucket >= levels {
			bucket = levels - 1
		}
		labels[i] = string(rune('A' + bucket))
	}

	return segment.Estimate{Times: bounds, Labels: labels}, nil
}

var registerOnce sync.Once

// RegisterAll adds the built-in algorithms to the process registry. Safe to
// call from multiple command constructors.
func RegisterAll() {
	registerOnce.Do(func() {
		algo.MustRegister(Uniform{})
		algo.MustRegister(LevelSet{})
	})
}
