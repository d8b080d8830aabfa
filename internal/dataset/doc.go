// Package dataset enumerates the audio/annotation/output triples of a
// dataset tree.
//
// A dataset root holds an audio directory, a references directory with one
// annotation document per track, and an estimations directory receiving the
// batch output. Track files follow the "Prefix_name.ext" convention where the
// prefix identifies the source collection; discovery can filter on that
// prefix so a batch touches only one collection.
package dataset
