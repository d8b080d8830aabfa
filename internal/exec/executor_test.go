package exec

import (
	"context"
	"errors"
	"testing"

	"chorus/internal/algo"
	"chorus/internal/logging"
	"chorus/internal/segment"
)

// countingSegmenter records every invocation so tests can assert how many
// algorithm instantiations each policy path performs.
type countingSegmenter struct {
	name   string
	bounds bool
	labels bool

	calls    int
	modes    []algo.Mode
	estimate segment.Estimate
	err      error
}

func (c *countingSegmenter) Name() string             { return c.name }
func (c *countingSegmenter) DetectsBoundaries() bool  { return c.bounds }
func (c *countingSegmenter) LabelsSegments() bool     { return c.labels }
func (c *countingSegmenter) Defaults() map[string]any { return nil }

func (c *countingSegmenter) Segment(_ context.Context, _ algo.Track, req algo.Request) (segment.Estimate, error) {
	c.calls++
	c.modes = append(c.modes, req.Mode)
	if c.err != nil {
		return segment.Estimate{}, c.err
	}
	return c.estimate, nil
}

type stubReferenceReader struct {
	times  segment.Boundaries
	labels segment.Labels
	err    error
	calls  int
}

func (s *stubReferenceReader) ReferenceSegmentation(string) (segment.Boundaries, segment.Labels, error) {
	s.calls++
	return s.times, s.labels, s.err
}

func newExecutor(t *testing.T, refs ReferenceReader) *Executor {
	t.Helper()
	e, err := New(refs, logging.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func TestFusionRunsSingleInstantiation(t *testing.T) {
	joint := &countingSegmenter{
		name:   "fused",
		bounds: true,
		labels: true,
		estimate: segment.Estimate{
			Times:  segment.Boundaries{0, 10, 20},
			Labels: segment.Labels{"A", "B"},
		},
	}
	e := newExecutor(t, &stubReferenceReader{})

	est, err := e.Execute(context.Background(), algo.Track{Audio: "a.wav"}, joint, joint, algo.Params{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if joint.calls != 1 {
		t.Fatalf("fusion invoked algorithm %d times, want 1", joint.calls)
	}
	if joint.modes[0] != algo.ModeJoint {
		t.Errorf("fusion mode = %v, want joint", joint.modes[0])
	}
	if len(est.Labels) != len(est.Times)-1 {
		t.Errorf("labels/intervals mismatch: %d labels, %d boundaries", len(est.Labels), len(est.Times))
	}
}

func TestIndependentPathRunsAtMostOneOfEach(t *testing.T) {
	bounds := &countingSegmenter{
		name:     "b",
		bounds:   true,
		estimate: segment.Estimate{Times: segment.Boundaries{0, 5, 10}},
	}
	labels := &countingSegmenter{
		name:   "l",
		labels: true,
		estimate: segment.Estimate{
			// A label algorithm may emit its own boundary opinion; it must
			// be ignored.
			Times:  segment.Boundaries{0, 10},
			Labels: segment.Labels{"X", "Y"},
		},
	}
	e := newExecutor(t, &stubReferenceReader{})

	est, err := e.Execute(context.Background(), algo.Track{Audio: "a.wav"}, bounds, labels, algo.Params{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if bounds.calls != 1 || labels.calls != 1 {
		t.Fatalf("calls = %d boundary, %d label, want 1 and 1", bounds.calls, labels.calls)
	}
	if bounds.modes[0] != algo.ModeBoundaries {
		t.Errorf("boundary mode = %v", bounds.modes[0])
	}
	if labels.modes[0] != algo.ModeLabels {
		t.Errorf("label mode = %v", labels.modes[0])
	}

	// Boundaries from the boundary stage are authoritative.
	if len(est.Times) != 3 || est.Times[1] != 5 {
		t.Errorf("boundaries overwritten by label stage: %v", est.Times)
	}
	if len(est.Labels) != 2 || est.Labels[0] != "X" {
		t.Errorf("labels = %v, want from label stage", est.Labels)
	}
}

func TestReferenceFallbackConstructsNoBoundaryAlgorithm(t *testing.T) {
	refs := &stubReferenceReader{
		times:  segment.Boundaries{0, 30, 60},
		labels: segment.Labels{"verse", "chorus"},
	}
	e := newExecutor(t, refs)

	est, err := e.Execute(context.Background(), algo.Track{Annotation: "a.json"}, nil, nil, algo.Params{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if refs.calls != 1 {
		t.Fatalf("reference reader called %d times, want 1", refs.calls)
	}
	if len(est.Times) != 3 || est.Times[1] != 30 {
		t.Errorf("boundaries = %v, want reference output verbatim", est.Times)
	}
	if len(est.Labels) != 2 || est.Labels[0] != "verse" {
		t.Errorf("labels = %v, want reference output verbatim", est.Labels)
	}
}

func TestReferenceFallbackThenLabeling(t *testing.T) {
	refs := &stubReferenceReader{times: segment.Boundaries{0, 30, 60}}
	labels := &countingSegmenter{
		name:     "l",
		labels:   true,
		estimate: segment.Estimate{Labels: segment.Labels{"A", "B"}},
	}
	e := newExecutor(t, refs)

	est, err := e.Execute(context.Background(), algo.Track{Annotation: "a.json"}, nil, labels, algo.Params{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if labels.calls != 1 {
		t.Fatalf("label algorithm called %d times, want 1", labels.calls)
	}
	if len(labels.modes) != 1 || labels.modes[0] != algo.ModeLabels {
		t.Fatalf("label mode = %v", labels.modes)
	}
	if est.Times[2] != 60 || est.Labels[1] != "B" {
		t.Errorf("estimate = %+v", est)
	}
}

func TestSameNameDistinctHandlesFuse(t *testing.T) {
	// Two resolutions of the same identifier yield the same identity, so
	// the fusion comparison is by name, not pointer.
	a := &countingSegmenter{name: "dual", bounds: true, labels: true,
		estimate: segment.Estimate{Times: segment.Boundaries{0, 1}}}
	b := &countingSegmenter{name: "dual", bounds: true, labels: true}
	e := newExecutor(t, &stubReferenceReader{})

	if _, err := e.Execute(context.Background(), algo.Track{}, a, b, algo.Params{}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if a.calls != 1 || b.calls != 0 {
		t.Errorf("calls = %d, %d, want the boundary handle run once", a.calls, b.calls)
	}
}

func TestAlgorithmErrorsPropagateUnmodified(t *testing.T) {
	boom := errors.New("feature extraction failed")
	bounds := &countingSegmenter{name: "b", bounds: true, err: boom}
	e := newExecutor(t, &stubReferenceReader{})

	_, err := e.Execute(context.Background(), algo.Track{}, bounds, nil, algo.Params{})
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want propagated cause", err)
	}

	refs := &stubReferenceReader{err: errors.New("no annotation")}
	e = newExecutor(t, refs)
	if _, err := e.Execute(context.Background(), algo.Track{}, nil, nil, algo.Params{}); err == nil {
		t.Fatal("expected reference read error")
	}
}

func TestLabelStageErrorPropagates(t *testing.T) {
	bounds := &countingSegmenter{name: "b", bounds: true,
		estimate: segment.Estimate{Times: segment.Boundaries{0, 1}}}
	boom := errors.New("labeling failed")
	labels := &countingSegmenter{name: "l", labels: true, err: boom}
	e := newExecutor(t, &stubReferenceReader{})

	_, err := e.Execute(context.Background(), algo.Track{}, bounds, labels, algo.Params{})
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want label stage cause", err)
	}
}

func TestNewRequiresReferenceReader(t *testing.T) {
	if _, err := New(nil, logging.NewNop()); err == nil {
		t.Fatal("expected error for nil reference reader")
	}
}
