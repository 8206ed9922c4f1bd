// Package scan walks directory trees into snapshots of per-file metadata,
// reusing cached digests for files whose size and mtime are unchanged and
// dispatching the rest to a parallel hashing pool.
package scan

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/sbarthel/dupsync/pkg/cache"
	"github.com/sbarthel/dupsync/pkg/hash"
	"github.com/sbarthel/dupsync/pkg/ignore"
	"github.com/sbarthel/dupsync/pkg/logging"
	"github.com/sbarthel/dupsync/pkg/models"
)

// Scanner walks trees and builds snapshots.
type Scanner struct {
	pool   *hash.Pool
	filter *ignore.Filter
	logger logging.Logger
}

// New creates a scanner. The filter may be nil (nothing ignored).
func New(pool *hash.Pool, filter *ignore.Filter, logger logging.Logger) *Scanner {
	return &Scanner{pool: pool, filter: filter, logger: logger}
}

// Scan walks root and returns its snapshot. A missing or unlistable root
// yields an empty snapshot, not an error: the caller may be about to sync
// into a destination that does not exist yet.
//
// With deep disabled, records carry presence only. With deep enabled, each
// file is probed for size and mtime; when the cache entry for its relative
// path is still valid the cached digest is reused, otherwise the file is
// queued and the whole batch is hashed in parallel after traversal. A file
// whose hash fails stays in the snapshot with a failed digest.
func (s *Scanner) Scan(ctx context.Context, root string, cached map[string]cache.Entry, deep bool) *models.Snapshot {
	snap := models.NewSnapshot()

	var pendingMu sync.Mutex
	var pendingRel, pendingAbs []string

	s.walk(ctx, root, func(absPath, relPath string, ent fs.DirEntry) {
		if !deep {
			snap.Put(models.PresenceRecord(relPath))
			return
		}

		info, err := ent.Info()
		if err != nil {
			s.logger.Warn(ctx, "Failed to stat file, skipping", logging.Fields{
				"path": absPath, "reason": err.Error(),
			})
			return
		}

		rec := &models.FileRecord{
			RelPath: relPath,
			Size:    info.Size(),
			MTime:   info.ModTime(),
		}

		// A cached entry without a hash is a miss: a pending digest can
		// never satisfy a comparison, so carrying it forward would force a
		// copy without ever resolving it.
		if entry, ok := cached[relPath]; ok && entry.Hash != nil && entry.ValidFor(info.Size(), info.ModTime()) {
			rec.Digest = entry.Digest()
		} else {
			pendingMu.Lock()
			pendingRel = append(pendingRel, relPath)
			pendingAbs = append(pendingAbs, absPath)
			pendingMu.Unlock()
		}
		snap.Put(rec)
	})

	if len(pendingAbs) > 0 {
		s.logger.Info(ctx, "Hashing files", logging.Fields{
			"root": root, "count": len(pendingAbs),
		})
		results := s.pool.Run(ctx, pendingAbs)
		for i, res := range results {
			rec, ok := snap.Get(pendingRel[i])
			if !ok {
				continue
			}
			if res.Err != nil {
				s.logger.Warn(ctx, "Failed to hash file", logging.Fields{
					"path": res.Path, "reason": res.Err.Error(),
				})
				rec.Digest = models.FailedDigest()
			} else {
				rec.Digest = models.ComputedDigest(res.Hex)
			}
		}
	}

	return snap
}

// Probe walks root and returns metadata records without hashing anything.
// The duplicate finder uses this for its size-bucketing phase.
func (s *Scanner) Probe(ctx context.Context, root string) []*models.FileRecord {
	var mu sync.Mutex
	var records []*models.FileRecord

	s.walk(ctx, root, func(absPath, relPath string, ent fs.DirEntry) {
		info, err := ent.Info()
		if err != nil {
			s.logger.Warn(ctx, "Failed to stat file, skipping", logging.Fields{
				"path": absPath, "reason": err.Error(),
			})
			return
		}
		mu.Lock()
		records = append(records, &models.FileRecord{
			RelPath: relPath,
			Size:    info.Size(),
			MTime:   info.ModTime(),
		})
		mu.Unlock()
	})

	return records
}

// walk enumerates root's immediate entries, handling files inline and
// dispatching each subdirectory to its own goroutine so large trees
// parallelize at the directory level. visit must be safe for concurrent
// calls. Enumeration failures are logged and contribute nothing.
func (s *Scanner) walk(ctx context.Context, root string, visit func(absPath, relPath string, ent fs.DirEntry)) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Error(ctx, "Failed to list directory", err, logging.Fields{"path": root})
		}
		return
	}

	g, ctx := errgroup.WithContext(ctx)

	for _, ent := range entries {
		relPath := ent.Name()
		if s.filter.Match(relPath) {
			continue
		}
		absPath := filepath.Join(root, ent.Name())

		if ent.IsDir() {
			g.Go(func() error {
				s.walkSubtree(ctx, root, absPath, visit)
				return nil
			})
			continue
		}
		if !regularOrSymlink(ent.Type()) {
			continue
		}
		visit(absPath, relPath, ent)
	}

	g.Wait()
}

// walkSubtree recursively walks one immediate subdirectory of root, pruning
// ignored directories before descent.
func (s *Scanner) walkSubtree(ctx context.Context, root, dir string, visit func(absPath, relPath string, ent fs.DirEntry)) {
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			s.logger.Warn(ctx, "Failed to walk path, skipping", logging.Fields{
				"path": path, "reason": err.Error(),
			})
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		relPath := filepath.ToSlash(rel)

		if d.IsDir() {
			if s.filter.Match(relPath) {
				return fs.SkipDir
			}
			return nil
		}
		if s.filter.Match(relPath) {
			return nil
		}
		if !regularOrSymlink(d.Type()) {
			return nil
		}

		visit(path, relPath, d)
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Warn(ctx, "Subtree walk aborted", logging.Fields{
			"path": dir, "reason": err.Error(),
		})
	}
}

// regularOrSymlink filters out sockets, pipes and devices. Symlinks are
// treated as the file they point to; broken links surface later as a stat
// or hash failure and are skipped like any unreadable file.
func regularOrSymlink(mode fs.FileMode) bool {
	return mode&fs.ModeType == 0 || mode&fs.ModeSymlink != 0
}
