package models

import (
	"sort"
	"sync"
)

// Snapshot maps relative paths to file records for one scanned tree.
// It is safe for concurrent use: walker tasks populate it in parallel
// during a scan, and the sync executor replaces destination entries from
// parallel copy tasks.
type Snapshot struct {
	mu      sync.RWMutex
	entries map[string]*FileRecord
}

// NewSnapshot creates an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{entries: make(map[string]*FileRecord)}
}

// Get returns the record for a relative path.
func (s *Snapshot) Get(relPath string) (*FileRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.entries[relPath]
	return rec, ok
}

// Put inserts or replaces the record for its relative path.
func (s *Snapshot) Put(rec *FileRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[rec.RelPath] = rec
}

// Len returns the number of recorded files.
func (s *Snapshot) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Paths returns all relative paths in lexicographic order.
func (s *Snapshot) Paths() []string {
	s.mu.RLock()
	paths := make([]string, 0, len(s.entries))
	for p := range s.entries {
		paths = append(paths, p)
	}
	s.mu.RUnlock()

	sort.Strings(paths)
	return paths
}

// Range calls fn for every record until fn returns false.
func (s *Snapshot) Range(fn func(rec *FileRecord) bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rec := range s.entries {
		if !fn(rec) {
			return
		}
	}
}
