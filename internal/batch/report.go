package batch

import "time"

// Failure attributes one track's error.
type Failure struct {
	Track string
	Err   error
}

// Report aggregates a finished batch.
type Report struct {
	RunID     string
	Total     int
	Processed int
	Skipped   int
	Failures  []Failure
	Elapsed   time.Duration
}

// Failed returns the number of failed tracks.
func (r *Report) Failed() int {
	return len(r.Failures)
}

// Ok reports whether every track processed or was skipped.
func (r *Report) Ok() bool {
	return len(r.Failures) == 0
}
