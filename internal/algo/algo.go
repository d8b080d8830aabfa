package algo

import (
	"context"

	"chorus/internal/segment"
)

// Track identifies one dataset recording handed to an algorithm.
type Track struct {
	// Audio is the path to the audio file.
	Audio string
	// Annotation is the path to the reference annotation document, empty when
	// the dataset carries none for this track.
	Annotation string
}

// Mode selects how a Segmenter is invoked. The three modes mirror the three
// constructor shapes of the plugin contract: a joint boundaries+labels pass,
// a boundary pass primed with empty prior labels, and a label pass over fixed
// boundaries.
type Mode int

const (
	// ModeJoint produces boundaries and labels in a single pass.
	ModeJoint Mode = iota
	// ModeBoundaries produces boundaries; emitted labels are advisory.
	ModeBoundaries
	// ModeLabels assigns labels over the fixed boundary sequence in the
	// request. Boundary output from this mode is ignored by callers.
	ModeLabels
)

func (m Mode) String() string {
	switch m {
	case ModeJoint:
		return "joint"
	case ModeBoundaries:
		return "boundaries"
	case ModeLabels:
		return "labels"
	default:
		return "unknown"
	}
}

// Request carries one invocation's inputs. Build values through the
// constructor helpers so the mode and its inputs stay consistent.
type Request struct {
	Mode   Mode
	Params Params

	// PriorLabels primes a boundary pass; always empty in the current
	// pipeline but part of the plugin contract.
	PriorLabels segment.Labels

	// FixedBounds is the authoritative boundary sequence for ModeLabels.
	FixedBounds segment.Boundaries
}

// JointRequest builds a single-pass request producing boundaries and labels.
func JointRequest(params Params) Request {
	return Request{Mode: ModeJoint, Params: params}
}

// BoundaryRequest builds a boundary-detection request with empty prior labels.
func BoundaryRequest(params Params) Request {
	return Request{Mode: ModeBoundaries, Params: params, PriorLabels: segment.Labels{}}
}

// LabelRequest builds a labeling request over a fixed boundary sequence.
func LabelRequest(params Params, bounds segment.Boundaries) Request {
	return Request{Mode: ModeLabels, Params: params, FixedBounds: bounds}
}

// Segmenter is the algorithm plugin contract. Implementations must be safe
// for concurrent use: one resolved handle serves every worker in a batch.
type Segmenter interface {
	// Name is the registry identifier, also used to detect the fusion case.
	Name() string
	// DetectsBoundaries reports the boundary-detection capability.
	DetectsBoundaries() bool
	// LabelsSegments reports the labeling capability.
	LabelsSegments() bool
	// Defaults returns algorithm-specific option defaults merged into the
	// batch Params by BuildParams.
	Defaults() map[string]any
	// Segment runs one pass over the track per the request mode.
	Segment(ctx context.Context, track Track, req Request) (segment.Estimate, error)
}
