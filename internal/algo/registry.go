package algo

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ReferenceID is the reserved boundary identifier asking for externally
// supplied reference annotations instead of a boundary algorithm.
const ReferenceID = "gt"

// Capability names one of the two things a Segmenter can do.
type Capability string

const (
	CapabilityBoundaries Capability = "boundary detection"
	CapabilityLabels     Capability = "labeling"
)

var (
	// ErrUnknownAlgorithm marks identifiers that resolve to no registered
	// algorithm.
	ErrUnknownAlgorithm = errors.New("unknown algorithm")
	// ErrUnsupportedCapability marks identifiers that resolve but lack the
	// capability the caller needs.
	ErrUnsupportedCapability = errors.New("unsupported capability")
)

var (
	registryMu sync.RWMutex
	registry   = map[string]Segmenter{}
)

// Register adds an algorithm to the process-wide registry. It is intended to
// run during startup wiring; duplicate identifiers are rejected.
func Register(s Segmenter) error {
	if s == nil {
		return errors.New("register: nil segmenter")
	}
	name := strings.TrimSpace(s.Name())
	if name == "" {
		return errors.New("register: empty algorithm name")
	}
	if name == ReferenceID {
		return fmt.Errorf("register: %q is reserved for reference annotations", ReferenceID)
	}

	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[name]; exists {
		return fmt.Errorf("register: algorithm %q already registered", name)
	}
	registry[name] = s
	return nil
}

// MustRegister registers an algorithm and panics on error. Startup wiring only.
func MustRegister(s Segmenter) {
	if err := Register(s); err != nil {
		panic(err)
	}
}

// Resolve maps an identifier to a registered algorithm and verifies it
// supports the required capability. The boundary sentinel "gt" and the empty
// label identifier resolve to a nil handle without error: they mean "use
// reference annotations" and "no labeling requested" respectively.
func Resolve(id string, capability Capability) (Segmenter, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil
	}
	if id == ReferenceID && capability == CapabilityBoundaries {
		return nil, nil
	}

	registryMu.RLock()
	s, ok := registry[id]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, id)
	}

	switch capability {
	case CapabilityBoundaries:
		if !s.DetectsBoundaries() {
			return nil, fmt.Errorf("%w: algorithm %q cannot identify boundaries", ErrUnsupportedCapability, id)
		}
	case CapabilityLabels:
		if !s.LabelsSegments() {
			return nil, fmt.Errorf("%w: algorithm %q cannot label segments", ErrUnsupportedCapability, id)
		}
	default:
		return nil, fmt.Errorf("resolve %q: unknown capability %q", id, capability)
	}
	return s, nil
}

// BoundaryIDs lists registered boundary-capable identifiers, sorted.
func BoundaryIDs() []string {
	return identifiers(func(s Segmenter) bool { return s.DetectsBoundaries() })
}

// LabelIDs lists registered label-capable identifiers, sorted.
func LabelIDs() []string {
	return identifiers(func(s Segmenter) bool { return s.LabelsSegments() })
}

// All lists every registered algorithm sorted by identifier.
func All() []Segmenter {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]Segmenter, 0, len(registry))
	for _, s := range registry {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

func identifiers(keep func(Segmenter) bool) []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]string, 0, len(registry))
	for name, s := range registry {
		if keep(s) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// resetRegistry clears the registry between tests.
func resetRegistry() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = map[string]Segmenter{}
}
