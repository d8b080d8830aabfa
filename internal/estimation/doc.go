// Package estimation persists and reads the per-track segmentation artifacts
// a batch run produces.
//
// An artifact records the estimated closed intervals, their labels, the
// algorithm identifiers that produced them, and the run configuration. The
// encoding is stable: rerunning a batch with identical inputs and seed
// rewrites byte-identical files, which is what makes reruns verifiable.
package estimation
