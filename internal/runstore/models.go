package runstore

import "time"

// ItemStatus is the final outcome of one dataset item within a run.
type ItemStatus string

const (
	ItemProcessed ItemStatus = "processed"
	ItemSkipped   ItemStatus = "skipped"
	ItemFailed    ItemStatus = "failed"
)

// Run describes one batch invocation.
type Run struct {
	ID           string
	StartedAt    time.Time
	FinishedAt   *time.Time
	DatasetRoot  string
	NameFilter   string
	BoundariesID string
	LabelsID     string
	Feature      string
	AnnotBeats   bool
	FrameSync    bool
	Seed         int64
	Workers      int
	// Fingerprint is the short digest of the batch params, so identical
	// configurations are recognizable across history.
	Fingerprint string
	Processed    int
	Skipped      int
	Failed       int
}

// ItemRecord describes one dataset item's outcome within a run.
type ItemRecord struct {
	RunID      string
	Track      string
	Collection string
	Status     ItemStatus
	Error      string
	OutputPath string
	Elapsed    time.Duration
}
