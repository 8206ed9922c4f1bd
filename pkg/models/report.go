package models

import (
	"time"
)

// RunStatus represents the overall result of a run
type RunStatus string

const (
	// StatusSuccess indicates all operations completed successfully
	StatusSuccess RunStatus = "success"
	// StatusPartial indicates some per-file operations failed
	StatusPartial RunStatus = "partial"
	// StatusFailed indicates the run failed
	StatusFailed RunStatus = "failed"
)

// ExitCode returns the process exit code for the run status.
func (s RunStatus) ExitCode() int {
	switch s {
	case StatusSuccess:
		return 0
	case StatusPartial:
		return 1
	case StatusFailed:
		return 2
	default:
		return 2
	}
}

// SyncReport summarizes one sync run.
type SyncReport struct {
	RunID      string
	SourcePath string
	DestPath   string
	DeepScan   bool
	DryRun     bool

	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	// CreatedDest is true when the destination root was created (or, under
	// dry-run, would have been created)
	CreatedDest bool

	SourceFiles int
	DestFiles   int
	Planned     int
	FilesCopied int
	FilesFailed int
	BytesCopied int64

	Status RunStatus
}

// DuplicateReport summarizes one duplicate-detection run.
type DuplicateReport struct {
	RunID string
	Root  string

	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	Groups          []DuplicateGroup
	TotalDuplicates int
	TotalWasted     int64

	// Deletion results, populated only when deletion was requested
	Deleted    int
	BytesFreed int64
	DryRun     bool
}
