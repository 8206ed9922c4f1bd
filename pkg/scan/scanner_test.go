package scan

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sbarthel/dupsync/pkg/cache"
	"github.com/sbarthel/dupsync/pkg/hash"
	"github.com/sbarthel/dupsync/pkg/ignore"
	"github.com/sbarthel/dupsync/pkg/logging"
)

// SHA-256 of "hello world"
const helloWorldSum = "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"

// TestHelper provides a temporary tree for scanner tests
type TestHelper struct {
	t    *testing.T
	root string
}

// NewTestHelper creates a new test helper with a temporary root directory
func NewTestHelper(t *testing.T) *TestHelper {
	t.Helper()
	root, err := os.MkdirTemp("", "scan-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	return &TestHelper{t: t, root: root}
}

// Cleanup removes all temporary files
func (h *TestHelper) Cleanup() {
	os.RemoveAll(h.root)
}

// CreateFile creates a file under the root, making parent directories
func (h *TestHelper) CreateFile(name string, content []byte) string {
	h.t.Helper()
	path := filepath.Join(h.root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		h.t.Fatalf("Failed to create parent dir: %v", err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		h.t.Fatalf("Failed to create file: %v", err)
	}
	return path
}

// Scanner builds a scanner with the given exclude spec
func (h *TestHelper) Scanner(excludeSpec string) *Scanner {
	h.t.Helper()
	filter, err := ignore.Compile(excludeSpec)
	if err != nil {
		h.t.Fatalf("Failed to compile filter: %v", err)
	}
	pool := hash.NewPool(hash.NewHasher(65536), 4)
	return New(pool, filter, logging.NewNullLogger())
}

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

func TestScanDeep(t *testing.T) {
	h := NewTestHelper(t)
	defer h.Cleanup()
	ctx := context.Background()

	h.CreateFile("a.txt", []byte("hello world"))
	h.CreateFile("sub/b.txt", []byte("other content"))

	snap := h.Scanner("").Scan(ctx, h.root, nil, true)
	if snap.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", snap.Len())
	}

	rec, ok := snap.Get("a.txt")
	if !ok {
		t.Fatal("snapshot should contain a.txt")
	}
	if rec.Size != 11 {
		t.Errorf("Size = %d, want 11", rec.Size)
	}
	if !rec.Digest.Known() {
		t.Fatal("deep scan should compute the digest")
	}
	if rec.Digest.Hex != helloWorldSum {
		t.Errorf("Digest = %s, want %s", rec.Digest.Hex, helloWorldSum)
	}

	if _, ok := snap.Get("sub/b.txt"); !ok {
		t.Error("snapshot should contain sub/b.txt under its slash path")
	}
}

func TestScanShallow(t *testing.T) {
	h := NewTestHelper(t)
	defer h.Cleanup()
	ctx := context.Background()

	h.CreateFile("a.txt", []byte("hello world"))

	snap := h.Scanner("").Scan(ctx, h.root, nil, false)
	rec, ok := snap.Get("a.txt")
	if !ok {
		t.Fatal("snapshot should contain a.txt")
	}
	if rec.Size != 0 {
		t.Errorf("shallow scan should not probe size, got %d", rec.Size)
	}
	if rec.Digest.Known() {
		t.Error("shallow scan should not compute digests")
	}
}

func TestScanReusesCachedDigest(t *testing.T) {
	h := NewTestHelper(t)
	defer h.Cleanup()
	ctx := context.Background()

	path := h.CreateFile("a.txt", []byte("hello world"))
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Failed to stat file: %v", err)
	}

	// A planted digest proves the cache was used: a real hash would differ
	planted := "cafe0000"
	cached := map[string]cache.Entry{
		"a.txt": {MTime: unixSeconds(info.ModTime()), Size: info.Size(), Hash: &planted},
	}

	snap := h.Scanner("").Scan(ctx, h.root, cached, true)
	rec, _ := snap.Get("a.txt")
	if rec.Digest.Hex != planted {
		t.Errorf("Digest = %s, want cached %s", rec.Digest.Hex, planted)
	}
}

func TestScanRehashesOnStaleCache(t *testing.T) {
	h := NewTestHelper(t)
	defer h.Cleanup()
	ctx := context.Background()

	path := h.CreateFile("a.txt", []byte("hello world"))
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Failed to stat file: %v", err)
	}

	planted := "cafe0000"
	tests := []struct {
		name  string
		entry cache.Entry
	}{
		{"SizeChanged", cache.Entry{MTime: unixSeconds(info.ModTime()), Size: info.Size() + 1, Hash: &planted}},
		{"MTimeChanged", cache.Entry{MTime: unixSeconds(info.ModTime()) - 1.0, Size: info.Size(), Hash: &planted}},
		{"NullHash", cache.Entry{MTime: unixSeconds(info.ModTime()), Size: info.Size(), Hash: nil}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := h.Scanner("").Scan(ctx, h.root, map[string]cache.Entry{"a.txt": tt.entry}, true)
			rec, _ := snap.Get("a.txt")
			if rec.Digest.Hex != helloWorldSum {
				t.Errorf("Digest = %s, want rehashed %s", rec.Digest.Hex, helloWorldSum)
			}
		})
	}
}

func TestScanIgnorePruning(t *testing.T) {
	h := NewTestHelper(t)
	defer h.Cleanup()
	ctx := context.Background()

	h.CreateFile("keep.txt", []byte("keep"))
	h.CreateFile("skipdir/inner.txt", []byte("inner"))
	h.CreateFile("sub/file.tmp", []byte("tmp"))
	h.CreateFile("sub/file.txt", []byte("txt"))

	snap := h.Scanner(`skipdir,\.tmp$`).Scan(ctx, h.root, nil, false)
	if _, ok := snap.Get("keep.txt"); !ok {
		t.Error("keep.txt should be scanned")
	}
	if _, ok := snap.Get("sub/file.txt"); !ok {
		t.Error("sub/file.txt should be scanned")
	}
	if _, ok := snap.Get("skipdir/inner.txt"); ok {
		t.Error("files under an ignored directory should be pruned")
	}
	if _, ok := snap.Get("sub/file.tmp"); ok {
		t.Error("ignored files should be skipped")
	}
}

func TestScanMissingRoot(t *testing.T) {
	h := NewTestHelper(t)
	defer h.Cleanup()
	ctx := context.Background()

	snap := h.Scanner("").Scan(ctx, filepath.Join(h.root, "nope"), nil, true)
	if snap.Len() != 0 {
		t.Errorf("missing root should yield an empty snapshot, got %d entries", snap.Len())
	}
}

func TestScanUnreadableFile(t *testing.T) {
	h := NewTestHelper(t)
	defer h.Cleanup()
	ctx := context.Background()

	h.CreateFile("good.txt", []byte("fine"))
	// A dangling symlink stats via Info but fails to open for hashing
	if err := os.Symlink(filepath.Join(h.root, "ghost"), filepath.Join(h.root, "broken.txt")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	snap := h.Scanner("").Scan(ctx, h.root, nil, true)
	good, ok := snap.Get("good.txt")
	if !ok || !good.Digest.Known() {
		t.Error("readable files should still be hashed")
	}
	if rec, ok := snap.Get("broken.txt"); ok && rec.Digest.Known() {
		t.Error("an unhashable file must not carry a known digest")
	}
}

func TestProbe(t *testing.T) {
	h := NewTestHelper(t)
	defer h.Cleanup()
	ctx := context.Background()

	h.CreateFile("a.txt", []byte("0123456789"))
	h.CreateFile("sub/b.txt", []byte("0123456789"))

	records := h.Scanner("").Probe(ctx, h.root)
	if len(records) != 2 {
		t.Fatalf("Probe() returned %d records, want 2", len(records))
	}
	for _, rec := range records {
		if rec.Size != 10 {
			t.Errorf("%s: Size = %d, want 10", rec.RelPath, rec.Size)
		}
		if rec.Digest.Known() {
			t.Errorf("%s: Probe() should not hash", rec.RelPath)
		}
	}
}
