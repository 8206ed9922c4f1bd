package dupes

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/sbarthel/dupsync/pkg/logging"
	"github.com/sbarthel/dupsync/pkg/models"
)

// Deleter removes the redundant members of duplicate groups. Main files are
// never touched. Deletions are independent and order-insensitive; one
// failure never aborts the rest.
type Deleter struct {
	workers int
	logger  logging.Logger
}

// NewDeleter creates a deleter running at most workers parallel removals.
func NewDeleter(workers int, logger logging.Logger) *Deleter {
	if workers < 1 {
		workers = 1
	}
	return &Deleter{workers: workers, logger: logger}
}

// Delete removes every file in each group's Duplicates list and returns the
// number deleted and the bytes freed. Under dryRun nothing is removed but
// the counts equal what a real run would report. A path that is already
// gone counts as zero deleted and zero freed.
func (d *Deleter) Delete(ctx context.Context, root string, groups []models.DuplicateGroup, dryRun bool) (int, int64) {
	if dryRun {
		d.logger.Info(ctx, "Dry run: no files will be deleted", nil)
	} else {
		d.logger.Info(ctx, "Starting deletion of duplicates", nil)
	}

	var deleted atomic.Int64
	var freed atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(d.workers)

	for i := range groups {
		group := &groups[i]
		for _, rel := range group.Duplicates {
			rel := rel
			g.Go(func() error {
				absPath := filepath.Join(root, filepath.FromSlash(rel))

				if _, err := os.Stat(absPath); err != nil {
					if os.IsNotExist(err) {
						d.logger.Warn(ctx, "File not found (already deleted?)", logging.Fields{"path": absPath})
					} else {
						d.logger.Error(ctx, "Failed to stat duplicate", err, logging.Fields{"path": absPath})
					}
					return nil
				}

				if dryRun {
					d.logger.Info(ctx, "Would delete duplicate", logging.Fields{"path": absPath})
					deleted.Add(1)
					freed.Add(group.SizePerFile)
					return nil
				}

				if err := os.Remove(absPath); err != nil {
					d.logger.Error(ctx, "Failed to delete duplicate", err, logging.Fields{"path": absPath})
					return nil
				}
				d.logger.Info(ctx, "Deleted duplicate", logging.Fields{"path": absPath})
				deleted.Add(1)
				freed.Add(group.SizePerFile)
				return nil
			})
		}
	}

	g.Wait()
	return int(deleted.Load()), freed.Load()
}
