package annotation

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"chorus/internal/segment"
)

// Metadata describes the annotated track.
type Metadata struct {
	Title    string  `json:"title,omitempty"`
	Artist   string  `json:"artist,omitempty"`
	Duration float64 `json:"duration"`
}

// Event is a single timed observation in a beat track.
type Event struct {
	Time  float64 `json:"time"`
	Label string  `json:"label,omitempty"`
}

// BeatTrack is one annotator's beat sequence.
type BeatTrack struct {
	Data []Event `json:"data"`
}

// Span is one labeled segment in a segment track.
type Span struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Label string  `json:"label"`
}

// SegmentTrack is one annotator's structural segmentation.
type SegmentTrack struct {
	Data []Span `json:"data"`
}

// Document is a parsed reference annotation file.
type Document struct {
	Metadata Metadata       `json:"metadata"`
	Beats    []BeatTrack    `json:"beats,omitempty"`
	Segments []SegmentTrack `json:"segments,omitempty"`
}

// ErrNoSegments is returned when a document carries no usable segment track.
var ErrNoSegments = errors.New("annotation has no segment data")

// Load parses the annotation document at path.
func Load(path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse annotation %s: %w", path, err)
	}
	return &doc, nil
}

// HasBeatData reports whether the document carries a non-empty primary beat
// track. The annotated-beats skip rule excludes tracks where this is false.
func (d *Document) HasBeatData() bool {
	if d == nil || len(d.Beats) == 0 {
		return false
	}
	return len(d.Beats[0].Data) > 0
}

// ReferenceSegmentation converts the primary segment track into boundary
// times and labels. A leading zero boundary and a trailing duration boundary
// are synthesized when the annotation does not cover the full track.
func (d *Document) ReferenceSegmentation() (segment.Boundaries, segment.Labels, error) {
	if d == nil || len(d.Segments) == 0 || len(d.Segments[0].Data) == 0 {
		return nil, nil, ErrNoSegments
	}

	spans := d.Segments[0].Data
	times := make(segment.Boundaries, 0, len(spans)+2)
	labels := make(segment.Labels, 0, len(spans)+2)

	if spans[0].Start > 0 {
		times = append(times, 0)
		labels = append(labels, "")
	}
	for _, span := range spans {
		times = append(times, span.Start)
		labels = append(labels, span.Label)
	}
	times = append(times, spans[len(spans)-1].End)

	if d.Metadata.Duration > times[len(times)-1] {
		labels = append(labels, "")
		times = append(times, d.Metadata.Duration)
	}

	if err := times.Validate(); err != nil {
		return nil, nil, fmt.Errorf("reference segmentation invalid: %w", err)
	}
	return times, labels, nil
}

// Reader adapts the package functions to the executor's reference lookup.
type Reader struct{}

// ReferenceSegmentation loads the annotation at path and extracts its
// reference boundaries and labels.
func (Reader) ReferenceSegmentation(path string) (segment.Boundaries, segment.Labels, error) {
	if path == "" {
		return nil, nil, errors.New("track has no reference annotation")
	}
	doc, err := Load(path)
	if err != nil {
		return nil, nil, err
	}
	return doc.ReferenceSegmentation()
}
