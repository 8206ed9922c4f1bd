package syncer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sbarthel/dupsync/pkg/models"
)

// copyOne transfers one planned file from source to destination, preserving
// the source's modification time and permission bits. Returns the number of
// bytes written.
func (s *Syncer) copyOne(entry models.PlanEntry) (int64, error) {
	srcPath := filepath.Join(s.opts.Source, filepath.FromSlash(entry.RelPath))
	destPath := filepath.Join(s.opts.Dest, filepath.FromSlash(entry.RelPath))

	// Idempotent create tolerates concurrent copy tasks racing on the
	// same missing parent
	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return 0, fmt.Errorf("failed to create parent directory: %w", err)
	}

	info, err := os.Stat(srcPath)
	if err != nil {
		return 0, fmt.Errorf("failed to stat source file: %w", err)
	}

	in, err := os.Open(srcPath)
	if err != nil {
		return 0, fmt.Errorf("failed to open source file: %w", err)
	}
	defer in.Close()

	out, err := os.Create(destPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create destination file: %w", err)
	}

	written, err := io.Copy(out, in)
	if err != nil {
		out.Close()
		return 0, fmt.Errorf("failed to write destination file: %w", err)
	}
	if err := out.Close(); err != nil {
		return 0, fmt.Errorf("failed to finalize destination file: %w", err)
	}

	if err := os.Chmod(destPath, info.Mode().Perm()); err != nil {
		return written, fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Chtimes(destPath, info.ModTime(), info.ModTime()); err != nil {
		return written, fmt.Errorf("failed to set modification time: %w", err)
	}

	return written, nil
}
