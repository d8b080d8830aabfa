// Package batch orchestrates a full dataset run: it resolves the requested
// algorithm pair up front, fans per-track tasks out across a bounded worker
// pool, and collects one outcome per track.
//
// Configuration errors (unknown algorithm, missing capability) surface before
// any track is touched. Once dispatch starts, failures stay isolated: a track
// that errors is recorded and reported, the rest of the batch keeps running.
// The random seed is fixed in the shared params before the first worker
// starts, so reruns with identical inputs produce identical artifacts.
package batch
