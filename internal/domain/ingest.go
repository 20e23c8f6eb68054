package domain

import "time"

// IngestRun is the persisted audit record of one ingestion run.
type IngestRun struct {
	ID             string
	Term           string
	Requested      int
	Fetched        int
	ArticlesStored int
	ChunksIndexed  int
	FailureCount   int
	DurationMs     int
	CreatedAt      time.Time
}
