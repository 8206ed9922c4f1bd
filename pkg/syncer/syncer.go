// Package syncer performs cache-accelerated one-way synchronization of a
// source tree into a destination tree: scan both, plan the copies, execute
// them in parallel, and keep the persisted cache current as copies land.
package syncer

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sbarthel/dupsync/pkg/cache"
	"github.com/sbarthel/dupsync/pkg/logging"
	"github.com/sbarthel/dupsync/pkg/models"
	"github.com/sbarthel/dupsync/pkg/scan"
)

// Options configures one sync run.
type Options struct {
	Source string
	Dest   string

	// DeepScan enables metadata probing and content-digest comparison.
	// Without it, presence of the relative path alone decides: a
	// same-named destination file with different content is left alone.
	DeepScan bool

	// DryRun plans and counts exactly like a real run but performs no
	// filesystem or cache mutation.
	DryRun bool

	// Workers bounds the parallel copy tasks
	Workers int

	// RunID identifies the run in the report and logs
	RunID string
}

// Syncer executes one-way sync runs.
type Syncer struct {
	opts    Options
	scanner *scan.Scanner
	store   *cache.Store
	logger  logging.Logger

	// OnPlan, if set, is called with the planned copy count before the
	// execute phase; OnCopy after each planned copy completes (or is
	// simulated). Used for progress reporting; OnCopy must be safe for
	// concurrent calls.
	OnPlan func(total int)
	OnCopy func(relPath string)
}

// New creates a syncer.
func New(opts Options, scanner *scan.Scanner, store *cache.Store, logger logging.Logger) *Syncer {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Syncer{opts: opts, scanner: scanner, store: store, logger: logger}
}

// Run synchronizes source into dest and returns the run report. A missing
// source is fatal; a missing destination is created, or its creation
// simulated and reported under dry-run.
func (s *Syncer) Run(ctx context.Context) (*models.SyncReport, error) {
	report := &models.SyncReport{
		RunID:      s.opts.RunID,
		SourcePath: s.opts.Source,
		DestPath:   s.opts.Dest,
		DeepScan:   s.opts.DeepScan,
		DryRun:     s.opts.DryRun,
		StartTime:  time.Now(),
		Status:     models.StatusSuccess,
	}

	s.logger.Info(ctx, "Starting sync", logging.Fields{
		"run_id": s.opts.RunID,
		"source": s.opts.Source,
		"dest":   s.opts.Dest,
		"deep":   s.opts.DeepScan,
		"dry_run": s.opts.DryRun,
	})

	info, err := os.Stat(s.opts.Source)
	if err != nil || !info.IsDir() {
		report.Status = models.StatusFailed
		return report, fmt.Errorf("source directory does not exist: %s", s.opts.Source)
	}

	destMissing := false
	if _, err := os.Stat(s.opts.Dest); os.IsNotExist(err) {
		destMissing = true
		report.CreatedDest = true
		if s.opts.DryRun {
			s.logger.Info(ctx, "Would create destination directory", logging.Fields{"path": s.opts.Dest})
		} else {
			if err := os.MkdirAll(s.opts.Dest, 0755); err != nil {
				report.Status = models.StatusFailed
				return report, fmt.Errorf("failed to create destination directory: %w", err)
			}
			s.logger.Info(ctx, "Created destination directory", logging.Fields{"path": s.opts.Dest})
		}
	}

	s.store.Load(ctx)

	srcSnap := s.scanner.Scan(ctx, s.opts.Source, s.store.Source(), s.opts.DeepScan)

	// A destination that would only exist after a real run scans as empty
	var destSnap *models.Snapshot
	if s.opts.DryRun && destMissing {
		destSnap = models.NewSnapshot()
	} else {
		destSnap = s.scanner.Scan(ctx, s.opts.Dest, s.store.Dest(), s.opts.DeepScan)
	}

	report.SourceFiles = srcSnap.Len()
	report.DestFiles = destSnap.Len()

	plan := buildPlan(srcSnap, destSnap, s.opts.DeepScan)
	report.Planned = len(plan)

	s.logger.Info(ctx, "Plan complete", logging.Fields{
		"source_files": report.SourceFiles,
		"dest_files":   report.DestFiles,
		"to_copy":      len(plan),
	})

	if s.OnPlan != nil {
		s.OnPlan(len(plan))
	}

	copied, failed, bytes := s.execute(ctx, plan, srcSnap, destSnap)
	report.FilesCopied = copied
	report.FilesFailed = failed
	report.BytesCopied = bytes

	if !s.opts.DryRun {
		s.store.Update(srcSnap, destSnap)
		if err := s.store.Save(ctx); err != nil {
			s.logger.Error(ctx, "Failed to write cache file", err, nil)
		}
	}

	if failed > 0 {
		if copied == 0 {
			report.Status = models.StatusFailed
		} else {
			report.Status = models.StatusPartial
		}
	}

	report.EndTime = time.Now()
	report.Duration = report.EndTime.Sub(report.StartTime)

	s.logger.Info(ctx, "Sync complete", logging.Fields{
		"run_id":       s.opts.RunID,
		"files_copied": copied,
		"files_failed": failed,
		"duration":     report.Duration.String(),
		"status":       string(report.Status),
	})

	return report, nil
}

// buildPlan compares the snapshots. A source path absent from the
// destination is always copied. With deep scan, a present path is also
// copied unless both digests are known and equal: an unknown digest on
// either side can never count as already-synced.
func buildPlan(source, dest *models.Snapshot, deep bool) []models.PlanEntry {
	var plan []models.PlanEntry
	for _, rel := range source.Paths() {
		src, _ := source.Get(rel)
		dst, ok := dest.Get(rel)
		switch {
		case !ok:
			plan = append(plan, models.PlanEntry{RelPath: rel, Reason: models.ReasonMissing, Record: src})
		case deep && !src.Digest.Matches(dst.Digest):
			plan = append(plan, models.PlanEntry{RelPath: rel, Reason: models.ReasonMismatch, Record: src})
		}
	}
	return plan
}

// execute runs the planned copies in parallel. Bookkeeping after each
// successful copy (destination snapshot entry, cache rewrite and persist)
// happens under one lock so a killed process loses at most the in-flight
// copies; the copy IO itself never runs while the lock is held.
func (s *Syncer) execute(ctx context.Context, plan []models.PlanEntry, srcSnap, destSnap *models.Snapshot) (int, int, int64) {
	var copied, failed atomic.Int64
	var bytes atomic.Int64
	var bookMu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)

	for _, entry := range plan {
		entry := entry
		g.Go(func() error {
			if s.opts.DryRun {
				s.logger.Info(ctx, "Would copy file", logging.Fields{
					"path": entry.RelPath, "reason": string(entry.Reason),
				})
				copied.Add(1)
				bytes.Add(entry.Record.Size)
				if s.OnCopy != nil {
					s.OnCopy(entry.RelPath)
				}
				return nil
			}

			n, err := s.copyOne(entry)
			if err != nil {
				s.logger.Error(ctx, "Failed to copy file", err, logging.Fields{
					"path": entry.RelPath, "reason": string(entry.Reason),
				})
				failed.Add(1)
				return nil
			}

			bookMu.Lock()
			destSnap.Put(entry.Record)
			s.store.Update(srcSnap, destSnap)
			if err := s.store.Save(ctx); err != nil {
				s.logger.Error(ctx, "Failed to persist cache after copy", err, logging.Fields{
					"path": entry.RelPath,
				})
			}
			bookMu.Unlock()

			copied.Add(1)
			bytes.Add(n)
			s.logger.Info(ctx, "Copied file", logging.Fields{
				"path": entry.RelPath, "reason": string(entry.Reason),
			})
			if s.OnCopy != nil {
				s.OnCopy(entry.RelPath)
			}
			return nil
		})
	}

	g.Wait()
	return int(copied.Load()), int(failed.Load()), bytes.Load()
}
