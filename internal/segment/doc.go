// Package segment defines the structural segmentation primitives shared by
// the rest of Chorus: boundary time sequences, per-segment labels, and the
// closed intervals written to estimation artifacts.
//
// A valid boundary sequence is strictly increasing, starts at zero, and ends
// at the track duration, so it always has at least two entries. Labels, when
// present, carry exactly one entry per interval between consecutive
// boundaries.
package segment
