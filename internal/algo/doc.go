// Package algo defines the segmentation algorithm plugin surface and the
// process-wide registry used to resolve string identifiers into
// implementations.
//
// Every algorithm registers under a unique identifier and declares which
// capabilities it supports: detecting segment boundaries, labeling segments,
// or both. Callers resolve identifiers once per batch through Resolve, which
// validates the requested capability up front so misconfigured runs fail
// before any track is touched. The reserved identifier "gt" asks for
// externally supplied reference boundaries instead of an algorithm and
// resolves to an absent handle.
package algo
