package models

import (
	"testing"
	"time"
)

// ============== Digest Tests ==============

func TestDigestMatches(t *testing.T) {
	tests := []struct {
		name string
		a    Digest
		b    Digest
		want bool
	}{
		{"ComputedEqual", ComputedDigest("abc"), ComputedDigest("abc"), true},
		{"ComputedDifferent", ComputedDigest("abc"), ComputedDigest("def"), false},
		{"PendingNeverMatches", Digest{}, Digest{}, false},
		{"FailedNeverMatches", FailedDigest(), FailedDigest(), false},
		{"FailedVsComputed", FailedDigest(), ComputedDigest("abc"), false},
		{"PendingVsComputed", Digest{}, ComputedDigest("abc"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Matches(tt.b); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
			// Matching is symmetric
			if got := tt.b.Matches(tt.a); got != tt.want {
				t.Errorf("reverse Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDigestKnown(t *testing.T) {
	if !ComputedDigest("abc").Known() {
		t.Error("computed digest should be known")
	}
	if FailedDigest().Known() {
		t.Error("failed digest should not be known")
	}
	if (Digest{}).Known() {
		t.Error("pending digest should not be known")
	}
}

func TestPresenceRecord(t *testing.T) {
	rec := PresenceRecord("dir/file.txt")
	if rec.RelPath != "dir/file.txt" {
		t.Errorf("RelPath = %s, want dir/file.txt", rec.RelPath)
	}
	if rec.Size != 0 {
		t.Errorf("Size = %d, want 0", rec.Size)
	}
	if rec.Digest.Known() {
		t.Error("presence record should not carry a known digest")
	}
}

// ============== Snapshot Tests ==============

func TestSnapshot(t *testing.T) {
	t.Run("PutAndGet", func(t *testing.T) {
		snap := NewSnapshot()
		rec := &FileRecord{RelPath: "a.txt", Size: 10, MTime: time.Now()}
		snap.Put(rec)

		got, ok := snap.Get("a.txt")
		if !ok {
			t.Fatal("Get() should find the record")
		}
		if got.Size != 10 {
			t.Errorf("Size = %d, want 10", got.Size)
		}
		if _, ok := snap.Get("missing.txt"); ok {
			t.Error("Get() should not find an absent path")
		}
	})

	t.Run("PutReplaces", func(t *testing.T) {
		snap := NewSnapshot()
		snap.Put(&FileRecord{RelPath: "a.txt", Size: 10})
		snap.Put(&FileRecord{RelPath: "a.txt", Size: 20})

		if snap.Len() != 1 {
			t.Errorf("Len() = %d, want 1", snap.Len())
		}
		got, _ := snap.Get("a.txt")
		if got.Size != 20 {
			t.Errorf("Size = %d, want 20 after replace", got.Size)
		}
	})

	t.Run("PathsSorted", func(t *testing.T) {
		snap := NewSnapshot()
		snap.Put(&FileRecord{RelPath: "c.txt"})
		snap.Put(&FileRecord{RelPath: "a.txt"})
		snap.Put(&FileRecord{RelPath: "b/x.txt"})

		paths := snap.Paths()
		want := []string{"a.txt", "b/x.txt", "c.txt"}
		if len(paths) != len(want) {
			t.Fatalf("Paths() returned %d entries, want %d", len(paths), len(want))
		}
		for i := range want {
			if paths[i] != want[i] {
				t.Errorf("Paths()[%d] = %s, want %s", i, paths[i], want[i])
			}
		}
	})

	t.Run("RangeStops", func(t *testing.T) {
		snap := NewSnapshot()
		snap.Put(&FileRecord{RelPath: "a.txt"})
		snap.Put(&FileRecord{RelPath: "b.txt"})

		seen := 0
		snap.Range(func(rec *FileRecord) bool {
			seen++
			return false
		})
		if seen != 1 {
			t.Errorf("Range visited %d records after returning false, want 1", seen)
		}
	})
}

// ============== DuplicateGroup Tests ==============

func TestDuplicateGroupTotals(t *testing.T) {
	groups := []DuplicateGroup{
		{MainFile: "a.txt", Duplicates: []string{"b.txt", "c.txt"}, SizePerFile: 10, WastedSize: 20},
		{MainFile: "d.txt", Duplicates: []string{"e.txt"}, SizePerFile: 100, WastedSize: 100},
	}

	if got := groups[0].Members(); got != 3 {
		t.Errorf("Members() = %d, want 3", got)
	}
	if got := TotalDuplicates(groups); got != 3 {
		t.Errorf("TotalDuplicates() = %d, want 3", got)
	}
	if got := TotalWasted(groups); got != 120 {
		t.Errorf("TotalWasted() = %d, want 120", got)
	}
	if got := TotalWasted(nil); got != 0 {
		t.Errorf("TotalWasted(nil) = %d, want 0", got)
	}
}

// ============== RunStatus Tests ==============

func TestRunStatusExitCode(t *testing.T) {
	tests := []struct {
		status RunStatus
		want   int
	}{
		{StatusSuccess, 0},
		{StatusPartial, 1},
		{StatusFailed, 2},
		{RunStatus("bogus"), 2},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.ExitCode(); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
