package models

// CopyReason explains why the planner scheduled a copy.
type CopyReason string

const (
	// ReasonMissing indicates the file does not exist in the destination
	ReasonMissing CopyReason = "missing in destination"
	// ReasonMismatch indicates the destination content digest does not
	// match the source (deep scan only)
	ReasonMismatch CopyReason = "content mismatch"
)

// PlanEntry is one scheduled copy. Entries are produced by the compare
// phase, consumed by the execute phase and then discarded.
type PlanEntry struct {
	RelPath string
	Reason  CopyReason
	Record  *FileRecord
}
