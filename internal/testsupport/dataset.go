package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"chorus/internal/dataset"
)

// Canned annotation documents covering the beat-annotation states a batch
// can encounter.
const (
	AnnotationWithBeats = `{
  "metadata": {"duration": 12},
  "beats": [{"data": [{"time": 0.5}, {"time": 1.0}, {"time": 1.5}]}],
  "segments": [{"data": [{"start": 0, "end": 12, "label": "A"}]}]
}`
	AnnotationEmptyBeats = `{
  "metadata": {"duration": 12},
  "beats": [{"data": []}],
  "segments": [{"data": [{"start": 0, "end": 12, "label": "A"}]}]
}`
	AnnotationNoBeats = `{
  "metadata": {"duration": 12},
  "segments": [{"data": [{"start": 0, "end": 12, "label": "A"}]}]
}`
)

// WriteDataset lays out a conventional dataset tree. annotations maps track
// name to annotation document content; tracks with an empty value get an
// audio file but no reference document.
func WriteDataset(t testing.TB, annotations map[string]string) string {
	t.Helper()

	root := t.TempDir()
	layout := dataset.DefaultLayout()
	for _, dir := range []string{layout.AudioDir, layout.ReferencesDir} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	for track, annot := range annotations {
		audio := filepath.Join(root, layout.AudioDir, track+".wav")
		if err := os.WriteFile(audio, []byte("RIFF"), 0o644); err != nil {
			t.Fatal(err)
		}
		if annot == "" {
			continue
		}
		ref := filepath.Join(root, layout.ReferencesDir, track+dataset.AnnotationExt)
		if err := os.WriteFile(ref, []byte(annot), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

// EstimationPath returns the artifact path WriteDataset-produced batches use
// for a track.
func EstimationPath(root, track string) string {
	return filepath.Join(root, dataset.DefaultLayout().EstimationsDir, track+dataset.EstimationExt)
}
