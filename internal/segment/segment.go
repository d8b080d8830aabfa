package segment

import (
	"errors"
	"fmt"
)

// Boundaries is an ordered sequence of segment boundary times in seconds.
// The first entry is the track start (0.0) and the last the track duration.
type Boundaries []float64

// Labels holds one descriptive label per interval between consecutive
// boundaries. An empty slice means labeling was not requested.
type Labels []string

// Interval is a closed time span between two consecutive boundaries.
type Interval struct {
	Start float64
	End   float64
}

// Estimate is the combined output of one segmentation pass.
type Estimate struct {
	Times  Boundaries
	Labels Labels
}

var errTooShort = errors.New("boundary sequence needs at least a start and an end")

// Validate checks the boundary sequence invariants.
func (b Boundaries) Validate() error {
	if len(b) < 2 {
		return errTooShort
	}
	if b[0] != 0 {
		return fmt.Errorf("boundary sequence starts at %g, want 0", b[0])
	}
	for i := 1; i < len(b); i++ {
		if b[i] <= b[i-1] {
			return fmt.Errorf("boundary times not strictly increasing at index %d (%g -> %g)", i, b[i-1], b[i])
		}
	}
	return nil
}

// Duration returns the final boundary time, the estimated track length.
func (b Boundaries) Duration() float64 {
	if len(b) == 0 {
		return 0
	}
	return b[len(b)-1]
}

// Intervals converts boundary times to closed intervals, one per segment:
// [t0 t1 t2] becomes [(t0,t1) (t1,t2)].
func Intervals(times Boundaries) []Interval {
	if len(times) < 2 {
		return nil
	}
	out := make([]Interval, 0, len(times)-1)
	for i := 1; i < len(times); i++ {
		out = append(out, Interval{Start: times[i-1], End: times[i]})
	}
	return out
}

// Validate checks the estimate invariants: valid boundaries and, when labels
// are present, one label per interval.
func (e Estimate) Validate() error {
	if err := e.Times.Validate(); err != nil {
		return err
	}
	if len(e.Labels) > 0 && len(e.Labels) != len(e.Times)-1 {
		return fmt.Errorf("label count %d does not match %d intervals", len(e.Labels), len(e.Times)-1)
	}
	return nil
}
