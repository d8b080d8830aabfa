package estimation

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"chorus/internal/segment"
)

// FormatVersion identifies the artifact schema.
const FormatVersion = "1"

// Document is the on-disk estimation artifact for one track.
//
// The document deliberately carries no timestamp: artifacts must be
// byte-identical across reruns with the same inputs and seed.
type Document struct {
	Version      string         `json:"version"`
	Track        string         `json:"track"`
	BoundariesID string         `json:"boundaries_id"`
	LabelsID     string         `json:"labels_id,omitempty"`
	Intervals    [][2]float64   `json:"intervals"`
	Labels       []string       `json:"labels,omitempty"`
	Config       map[string]any `json:"config"`
}

// New assembles an artifact from an executor estimate. Boundary times are
// converted to closed intervals here, at persistence time.
func New(track string, est segment.Estimate, boundariesID, labelsID string, config map[string]any) Document {
	intervals := segment.Intervals(est.Times)
	flat := make([][2]float64, 0, len(intervals))
	for _, iv := range intervals {
		flat = append(flat, [2]float64{iv.Start, iv.End})
	}
	return Document{
		Version:      FormatVersion,
		Track:        track,
		BoundariesID: boundariesID,
		LabelsID:     labelsID,
		Intervals:    flat,
		Labels:       est.Labels,
		Config:       config,
	}
}

// Write persists the artifact at path, creating the parent directory and
// replacing any previous artifact atomically.
func Write(path string, doc Document) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create estimations directory: %w", err)
	}

	// encoding/json sorts map keys, so Config encodes deterministically.
	encoded, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode estimation: %w", err)
	}
	encoded = append(encoded, '\n')

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, encoded, 0o644); err != nil {
		return fmt.Errorf("write estimation: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("finalize estimation: %w", err)
	}
	return nil
}

// Read parses the artifact at path.
func Read(path string) (Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Document{}, err
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Document{}, fmt.Errorf("parse estimation %s: %w", path, err)
	}
	return doc, nil
}
