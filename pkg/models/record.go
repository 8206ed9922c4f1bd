package models

import (
	"time"
)

// DigestState tracks whether a file's content digest is known.
type DigestState int

const (
	// DigestPending indicates the digest has not been computed yet
	DigestPending DigestState = iota
	// DigestComputed indicates the digest was computed successfully
	DigestComputed
	// DigestFailed indicates the digest computation failed (unreadable file)
	DigestFailed
)

// Digest is the tri-state content digest of a file. Pending and Failed
// digests never compare equal to anything, including each other, so two
// unhashable files can never be mistaken for identical content.
type Digest struct {
	State DigestState
	Hex   string
}

// ComputedDigest returns a Digest holding a successfully computed hex sum.
func ComputedDigest(hex string) Digest {
	return Digest{State: DigestComputed, Hex: hex}
}

// FailedDigest returns a Digest marking a failed hash computation.
func FailedDigest() Digest {
	return Digest{State: DigestFailed}
}

// Known reports whether the digest was successfully computed.
func (d Digest) Known() bool {
	return d.State == DigestComputed
}

// Matches reports whether two digests are both known and identical.
func (d Digest) Matches(other Digest) bool {
	return d.State == DigestComputed && other.State == DigestComputed && d.Hex == other.Hex
}

// FileRecord is the scanned metadata of a single file within a tree.
// Records are keyed by RelPath and immutable once placed in a snapshot;
// a rescan of the same path produces a fresh record.
type FileRecord struct {
	// RelPath is the slash-normalized path relative to the scan root
	RelPath string

	// Size in bytes
	Size int64

	// MTime is the last modification time
	MTime time.Time

	// Digest is the tri-state content digest
	Digest Digest
}

// PresenceRecord returns the record used by shallow scans: the path exists,
// nothing else is known about it.
func PresenceRecord(relPath string) *FileRecord {
	return &FileRecord{RelPath: relPath}
}
