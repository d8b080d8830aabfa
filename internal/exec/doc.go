// Package exec runs the two-stage segmentation pipeline for one track.
//
// The executor decides between a fused single pass (one algorithm carries
// both capabilities and both identifiers name it) and the independent path:
// one boundary-producing step — an algorithm, or the reference annotation
// when boundaries come from "gt" — followed by an optional labeling step over
// the fixed boundaries. At most two algorithm invocations happen per track,
// exactly one in the fusion case.
package exec
