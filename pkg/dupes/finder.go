// Package dupes finds groups of content-identical files within one tree
// and optionally deletes the redundant copies.
package dupes

import (
	"context"
	"path/filepath"
	"sort"

	"github.com/sbarthel/dupsync/pkg/hash"
	"github.com/sbarthel/dupsync/pkg/logging"
	"github.com/sbarthel/dupsync/pkg/models"
	"github.com/sbarthel/dupsync/pkg/scan"
)

// Finder locates duplicate files in two phases: group by size first, then
// hash only the files that share a size with at least one other file.
type Finder struct {
	scanner *scan.Scanner
	pool    *hash.Pool
	logger  logging.Logger
}

// NewFinder creates a duplicate finder.
func NewFinder(scanner *scan.Scanner, pool *hash.Pool, logger logging.Logger) *Finder {
	return &Finder{scanner: scanner, pool: pool, logger: logger}
}

// Find scans root and returns its duplicate groups. A missing directory
// yields an empty result. Files that cannot be hashed drop out of their
// size bucket; the remaining members may still form a smaller group.
//
// Group membership and the choice of main file depend only on tree content,
// never on filesystem enumeration order: within a group, paths sort by
// (length, lexicographic) ascending and the first becomes the main file.
func (f *Finder) Find(ctx context.Context, root string) []models.DuplicateGroup {
	f.logger.Info(ctx, "Starting duplicate scan", logging.Fields{"root": root})

	// Phase 1: bucket by size; a unique size cannot be a duplicate
	records := f.scanner.Probe(ctx, root)
	sizeBuckets := make(map[int64][]string)
	for _, rec := range records {
		sizeBuckets[rec.Size] = append(sizeBuckets[rec.Size], rec.RelPath)
	}

	var candidates []string
	for _, paths := range sizeBuckets {
		if len(paths) > 1 {
			candidates = append(candidates, paths...)
		}
	}
	if len(candidates) == 0 {
		f.logger.Info(ctx, "Scan complete, no size collisions", logging.Fields{"root": root})
		return nil
	}

	f.logger.Info(ctx, "Hashing size-collision candidates", logging.Fields{
		"root": root, "count": len(candidates),
	})

	// Phase 2: hash every candidate in parallel, then re-bucket by digest
	absPaths := make([]string, len(candidates))
	for i, rel := range candidates {
		absPaths[i] = filepath.Join(root, filepath.FromSlash(rel))
	}

	digests := make(map[string]string, len(candidates))
	for i, res := range f.pool.Run(ctx, absPaths) {
		if res.Err != nil {
			f.logger.Warn(ctx, "Failed to hash file, excluded from grouping", logging.Fields{
				"path": res.Path, "reason": res.Err.Error(),
			})
			continue
		}
		digests[candidates[i]] = res.Hex
	}

	var groups []models.DuplicateGroup
	for size, paths := range sizeBuckets {
		if len(paths) < 2 {
			continue
		}
		byDigest := make(map[string][]string)
		for _, rel := range paths {
			if hex, ok := digests[rel]; ok {
				byDigest[hex] = append(byDigest[hex], rel)
			}
		}
		for hex, members := range byDigest {
			if len(members) < 2 {
				continue
			}
			sort.Slice(members, func(i, j int) bool {
				if len(members[i]) != len(members[j]) {
					return len(members[i]) < len(members[j])
				}
				return members[i] < members[j]
			})
			groups = append(groups, models.DuplicateGroup{
				MainFile:    members[0],
				Duplicates:  members[1:],
				Hash:        hex,
				SizePerFile: size,
				WastedSize:  size * int64(len(members)-1),
			})
		}
	}

	sort.Slice(groups, func(i, j int) bool {
		if groups[i].WastedSize != groups[j].WastedSize {
			return groups[i].WastedSize > groups[j].WastedSize
		}
		return groups[i].MainFile < groups[j].MainFile
	})

	f.logger.Info(ctx, "Scan complete", logging.Fields{
		"root": root, "groups": len(groups),
	})
	return groups
}
