package algo

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
)

// Params is the read-only configuration shared by every task in one batch.
// It is built once per run, before dispatch, and never mutated afterwards.
type Params struct {
	// Feature selects the feature-extraction flavor algorithms should use.
	Feature string
	// AnnotBeats requests beat-annotation-synchronized processing and arms
	// the per-track skip rule.
	AnnotBeats bool
	// FrameSync requests frame-synchronous features.
	FrameSync bool
	// Seed is the deterministic seed threaded into seed-sensitive
	// algorithms. Fixed once per batch for reproducible reruns.
	Seed int64
	// Options holds algorithm-specific settings merged from the resolved
	// algorithms' defaults.
	Options map[string]any
}

// BuildParams assembles the batch configuration from the run flags and the
// option defaults of the resolved algorithms. Later algorithms win on
// conflicting option names, matching resolution order (boundaries, labels).
func BuildParams(feature string, annotBeats, frameSync bool, seed int64, algs ...Segmenter) Params {
	options := map[string]any{}
	for _, s := range algs {
		if s == nil {
			continue
		}
		for key, value := range s.Defaults() {
			options[key] = value
		}
	}
	return Params{
		Feature:    feature,
		AnnotBeats: annotBeats,
		FrameSync:  frameSync,
		Seed:       seed,
		Options:    options,
	}
}

// Option returns a named option value and whether it is set.
func (p Params) Option(name string) (any, bool) {
	v, ok := p.Options[name]
	return v, ok
}

// IntOption returns a named option as an int, tolerating the numeric types
// option defaults commonly carry.
func (p Params) IntOption(name string, fallback int) int {
	v, ok := p.Options[name]
	if !ok {
		return fallback
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return fallback
	}
}

// Map flattens the params into a string-keyed map with stable content,
// suitable for embedding in estimation artifacts.
func (p Params) Map() map[string]any {
	out := map[string]any{
		"feature":     p.Feature,
		"annot_beats": p.AnnotBeats,
		"framesync":   p.FrameSync,
		"seed":        p.Seed,
	}
	for key, value := range p.Options {
		out[key] = value
	}
	return out
}

// Fingerprint returns a short stable digest of the params, recorded per run
// so identical configurations are recognizable across batch history.
func (p Params) Fingerprint() string {
	flat := p.Map()
	keys := make([]string, 0, len(flat))
	for key := range flat {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	h := sha256.New()
	for _, key := range keys {
		encoded, err := json.Marshal(flat[key])
		if err != nil {
			encoded = []byte(fmt.Sprintf("%v", flat[key]))
		}
		fmt.Fprintf(h, "%s=%s;", key, encoded)
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}
