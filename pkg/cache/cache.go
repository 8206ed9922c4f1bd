// Package cache persists per-file scan metadata between runs so unchanged
// files are not rehashed.
//
// The on-disk format is a single JSON object with a "source" and a "dest"
// section, each mapping relative paths to {mtime, size, hash}. An absent or
// malformed file is treated as empty, never as an error: a cache miss just
// means rehashing.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/sbarthel/dupsync/pkg/logging"
	"github.com/sbarthel/dupsync/pkg/models"
)

// mtimeTolerance is the slack allowed when comparing stored and live
// modification times, in seconds. Filesystems and float encoding both
// truncate timestamps.
const mtimeTolerance = 0.001

// Entry is the persisted metadata of one file.
type Entry struct {
	MTime float64 `json:"mtime"`
	Size  int64   `json:"size"`
	Hash  *string `json:"hash"`
}

// ValidFor reports whether the entry may stand in for rehashing a live file
// with the given size and modification time.
func (e Entry) ValidFor(size int64, mtime time.Time) bool {
	return e.Size == size && math.Abs(e.MTime-unixSeconds(mtime)) < mtimeTolerance
}

// Digest converts the stored hash to a tri-state digest. A stored null hash
// is a pending digest, never a match.
func (e Entry) Digest() models.Digest {
	if e.Hash == nil {
		return models.Digest{State: models.DigestPending}
	}
	return models.ComputedDigest(*e.Hash)
}

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

type fileSchema struct {
	Source map[string]Entry `json:"source"`
	Dest   map[string]Entry `json:"dest"`
}

// Store is the persisted source/dest metadata cache backing incremental
// sync. Load and Save are not synchronized internally; the sync executor
// serializes Save calls under its bookkeeping lock, and scans only read.
type Store struct {
	path   string
	logger logging.Logger
	data   fileSchema
}

// NewStore creates a store backed by the given file path. An empty path
// disables persistence: Load and Save become no-ops.
func NewStore(path string, logger logging.Logger) *Store {
	return &Store{
		path:   path,
		logger: logger,
		data: fileSchema{
			Source: make(map[string]Entry),
			Dest:   make(map[string]Entry),
		},
	}
}

// Load reads the cache file. Absent or corrupt files leave the store empty.
func (s *Store) Load(ctx context.Context) {
	if s.path == "" {
		return
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn(ctx, "Failed to read cache file", logging.Fields{
				"path": s.path, "reason": err.Error(),
			})
		}
		return
	}

	var parsed fileSchema
	if err := json.Unmarshal(data, &parsed); err != nil {
		s.logger.Warn(ctx, "Ignoring malformed cache file", logging.Fields{
			"path": s.path, "reason": err.Error(),
		})
		return
	}

	if parsed.Source != nil {
		s.data.Source = parsed.Source
	}
	if parsed.Dest != nil {
		s.data.Dest = parsed.Dest
	}
	s.logger.Info(ctx, "Loaded previous sync cache", logging.Fields{
		"path": s.path, "source_entries": len(s.data.Source), "dest_entries": len(s.data.Dest),
	})
}

// Source returns the source-tree section. Read-only during scans.
func (s *Store) Source() map[string]Entry {
	return s.data.Source
}

// Dest returns the destination-tree section. Read-only during scans.
func (s *Store) Dest() map[string]Entry {
	return s.data.Dest
}

// Update rebuilds both sections from live snapshots. Paths that vanished
// from disk drop out of the cache here, since they are no longer in any
// snapshot.
func (s *Store) Update(source, dest *models.Snapshot) {
	s.data.Source = sectionFrom(source)
	s.data.Dest = sectionFrom(dest)
}

func sectionFrom(snap *models.Snapshot) map[string]Entry {
	section := make(map[string]Entry, snap.Len())
	snap.Range(func(rec *models.FileRecord) bool {
		entry := Entry{
			MTime: unixSeconds(rec.MTime),
			Size:  rec.Size,
		}
		if rec.Digest.Known() {
			hex := rec.Digest.Hex
			entry.Hash = &hex
		}
		section[rec.RelPath] = entry
		return true
	})
	return section
}

// Save writes the cache file, creating parent directories as needed.
func (s *Store) Save(ctx context.Context) error {
	if s.path == "" {
		return nil
	}

	data, err := json.MarshalIndent(s.data, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	return nil
}
