package builtin

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"chorus/internal/algo"
	"chorus/internal/segment"
)

func writeAnnotation(t *testing.T, duration float64) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "track.json")
	body := fmt.Sprintf(`{"metadata": {"duration": %g}}`, duration)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write annotation: %v", err)
	}
	return path
}

func TestUniformBoundaries(t *testing.T) {
	path := writeAnnotation(t, 160)
	params := algo.BuildParams("hpcp", false, false, 123, Uniform{})

	est, err := Uniform{}.Segment(context.Background(), algo.Track{Annotation: path}, algo.BoundaryRequest(params))
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}
	if err := est.Times.Validate(); err != nil {
		t.Fatalf("boundaries invalid: %v", err)
	}
	if len(est.Times) != 9 {
		t.Fatalf("boundary count = %d, want 9 (8 segments)", len(est.Times))
	}
	if est.Times[0] != 0 || est.Times[8] != 160 {
		t.Errorf("edges = %g, %g", est.Times[0], est.Times[8])
	}
	if len(est.Labels) != 0 {
		t.Errorf("uniform emitted labels: %v", est.Labels)
	}
}

func TestUniformRequiresAnnotation(t *testing.T) {
	_, err := Uniform{}.Segment(context.Background(), algo.Track{}, algo.BoundaryRequest(algo.Params{}))
	if err == nil {
		t.Fatal("expected error without annotation")
	}
}

func TestUniformRejectsLabelMode(t *testing.T) {
	_, err := Uniform{}.Segment(context.Background(), algo.Track{}, algo.LabelRequest(algo.Params{}, segment.Boundaries{0, 1}))
	if err == nil {
		t.Fatal("expected error in label mode")
	}
}

func TestLevelSetLabels(t *testing.T) {
	bounds := segment.Boundaries{0, 10, 15, 40, 45}
	params := algo.BuildParams("hpcp", false, false, 123, LevelSet{})

	est, err := LevelSet{}.Segment(context.Background(), algo.Track{}, algo.LabelRequest(params, bounds))
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}
	if len(est.Labels) != len(bounds)-1 {
		t.Fatalf("label count = %d, want %d", len(est.Labels), len(bounds)-1)
	}
	// Equal-length intervals share a label.
	if est.Labels[1] != est.Labels[3] {
		t.Errorf("equal-length intervals labeled %q and %q", est.Labels[1], est.Labels[3])
	}
	// The longest interval sorts into a higher level than the shortest.
	if est.Labels[2] <= est.Labels[1] {
		t.Errorf("labels = %v, want longest interval above shortest", est.Labels)
	}
}

func TestLevelSetDeterministic(t *testing.T) {
	bounds := segment.Boundaries{0, 3, 9, 12, 30}
	params := algo.Params{}

	first, err := LevelSet{}.Segment(context.Background(), algo.Track{}, algo.LabelRequest(params, bounds))
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := LevelSet{}.Segment(context.Background(), algo.Track{}, algo.LabelRequest(params, bounds))
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	for i := range first.Labels {
		if first.Labels[i] != second.Labels[i] {
			t.Fatalf("labels differ between runs: %v vs %v", first.Labels, second.Labels)
		}
	}
}

func TestLevelSetRejectsInvalidBounds(t *testing.T) {
	_, err := LevelSet{}.Segment(context.Background(), algo.Track{}, algo.LabelRequest(algo.Params{}, segment.Boundaries{5}))
	if err == nil {
		t.Fatal("expected error for invalid boundary sequence")
	}
}
