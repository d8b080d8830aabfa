// Package annotation loads reference annotation documents for dataset
// tracks.
//
// Documents are JSON files carrying track metadata (duration), beat tracks,
// and human segment annotations. The batch pipeline uses them in two places:
// the annotated-beats skip rule checks that a track has usable beat data, and
// the "gt" boundary identifier reads the reference segmentation as the
// boundary source instead of running an algorithm.
package annotation
