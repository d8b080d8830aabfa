package algo

import (
	"context"
	"errors"
	"testing"

	"chorus/internal/segment"
)

type fakeSegmenter struct {
	name     string
	bounds   bool
	labels   bool
	defaults map[string]any
}

func (f *fakeSegmenter) Name() string             { return f.name }
func (f *fakeSegmenter) DetectsBoundaries() bool  { return f.bounds }
func (f *fakeSegmenter) LabelsSegments() bool     { return f.labels }
func (f *fakeSegmenter) Defaults() map[string]any { return f.defaults }

func (f *fakeSegmenter) Segment(context.Context, Track, Request) (segment.Estimate, error) {
	return segment.Estimate{Times: segment.Boundaries{0, 1}}, nil
}

func TestResolveSentinels(t *testing.T) {
	resetRegistry()

	s, err := Resolve(ReferenceID, CapabilityBoundaries)
	if err != nil {
		t.Fatalf("Resolve(gt) error: %v", err)
	}
	if s != nil {
		t.Fatal("Resolve(gt) returned a handle, want nil")
	}

	s, err = Resolve("", CapabilityLabels)
	if err != nil {
		t.Fatalf("Resolve(empty) error: %v", err)
	}
	if s != nil {
		t.Fatal("Resolve(empty) returned a handle, want nil")
	}
}

func TestResolveUnknown(t *testing.T) {
	resetRegistry()

	_, err := Resolve("nope", CapabilityBoundaries)
	if !errors.Is(err, ErrUnknownAlgorithm) {
		t.Fatalf("error = %v, want ErrUnknownAlgorithm", err)
	}
}

func TestResolveCapabilityMismatch(t *testing.T) {
	resetRegistry()
	MustRegister(&fakeSegmenter{name: "foo", labels: true})

	_, err := Resolve("foo", CapabilityBoundaries)
	if !errors.Is(err, ErrUnsupportedCapability) {
		t.Fatalf("error = %v, want ErrUnsupportedCapability", err)
	}

	s, err := Resolve("foo", CapabilityLabels)
	if err != nil {
		t.Fatalf("Resolve label capability: %v", err)
	}
	if s == nil || s.Name() != "foo" {
		t.Fatalf("resolved %v, want foo", s)
	}
}

func TestRegisterRejectsDuplicatesAndReserved(t *testing.T) {
	resetRegistry()

	if err := Register(&fakeSegmenter{name: "dup", bounds: true}); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if err := Register(&fakeSegmenter{name: "dup", bounds: true}); err == nil {
		t.Fatal("duplicate register succeeded")
	}
	if err := Register(&fakeSegmenter{name: ReferenceID, bounds: true}); err == nil {
		t.Fatal("reserved identifier register succeeded")
	}
	if err := Register(nil); err == nil {
		t.Fatal("nil register succeeded")
	}
}

func TestIdentifierListings(t *testing.T) {
	resetRegistry()
	MustRegister(&fakeSegmenter{name: "zeta", bounds: true})
	MustRegister(&fakeSegmenter{name: "alpha", bounds: true, labels: true})
	MustRegister(&fakeSegmenter{name: "mid", labels: true})

	gotBounds := BoundaryIDs()
	wantBounds := []string{"alpha", "zeta"}
	if len(gotBounds) != len(wantBounds) {
		t.Fatalf("BoundaryIDs() = %v, want %v", gotBounds, wantBounds)
	}
	for i := range wantBounds {
		if gotBounds[i] != wantBounds[i] {
			t.Errorf("BoundaryIDs()[%d] = %q, want %q", i, gotBounds[i], wantBounds[i])
		}
	}

	gotLabels := LabelIDs()
	if len(gotLabels) != 2 || gotLabels[0] != "alpha" || gotLabels[1] != "mid" {
		t.Errorf("LabelIDs() = %v, want [alpha mid]", gotLabels)
	}

	if got := len(All()); got != 3 {
		t.Errorf("All() returned %d algorithms, want 3", got)
	}
}

func TestBuildParamsMergesDefaults(t *testing.T) {
	bounds := &fakeSegmenter{name: "b", bounds: true, defaults: map[string]any{"window": 8, "shared": "from-bounds"}}
	labels := &fakeSegmenter{name: "l", labels: true, defaults: map[string]any{"levels": 4, "shared": "from-labels"}}

	p := BuildParams("mfcc", true, false, 123, bounds, labels)
	if p.Feature != "mfcc" || !p.AnnotBeats || p.FrameSync || p.Seed != 123 {
		t.Fatalf("unexpected params: %+v", p)
	}
	if p.IntOption("window", 0) != 8 {
		t.Errorf("window option = %v", p.Options["window"])
	}
	if p.IntOption("levels", 0) != 4 {
		t.Errorf("levels option = %v", p.Options["levels"])
	}
	if v, _ := p.Option("shared"); v != "from-labels" {
		t.Errorf("shared option = %v, want label defaults to win", v)
	}

	// Absent handles contribute nothing.
	p = BuildParams("hpcp", false, true, 1, nil, labels)
	if _, ok := p.Option("window"); ok {
		t.Error("nil segmenter contributed options")
	}
}

func TestFingerprintStable(t *testing.T) {
	a := BuildParams("hpcp", false, false, 123, &fakeSegmenter{name: "x", defaults: map[string]any{"k": 2, "m": "v"}})
	b := BuildParams("hpcp", false, false, 123, &fakeSegmenter{name: "x", defaults: map[string]any{"m": "v", "k": 2}})
	if a.Fingerprint() != b.Fingerprint() {
		t.Error("fingerprints differ for identical params")
	}

	c := BuildParams("hpcp", false, false, 124, &fakeSegmenter{name: "x", defaults: map[string]any{"k": 2, "m": "v"}})
	if a.Fingerprint() == c.Fingerprint() {
		t.Error("fingerprint ignored seed change")
	}
}
