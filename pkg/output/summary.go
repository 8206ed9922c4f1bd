// Package output renders human-readable run summaries and batch progress.
// Byte counts are humanized for display only; nothing here feeds back into
// comparison logic.
package output

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/sbarthel/dupsync/pkg/models"
)

// PrintDuplicateSummary writes the human summary of a duplicate run.
func PrintDuplicateSummary(w io.Writer, report *models.DuplicateReport) {
	fmt.Fprintf(w, "Duplicate scan of %s (%s)\n", report.Root, report.Duration.Round(time.Millisecond))
	fmt.Fprintf(w, "  duplicate groups:  %d\n", len(report.Groups))
	fmt.Fprintf(w, "  redundant files:   %d\n", report.TotalDuplicates)
	fmt.Fprintf(w, "  wasted space:      %s\n", humanize.IBytes(uint64(report.TotalWasted)))

	if report.Deleted > 0 || report.DryRun {
		verb := "deleted"
		if report.DryRun {
			verb = "would delete"
		}
		fmt.Fprintf(w, "  %s:    %d files, freeing %s\n", verb, report.Deleted, humanize.IBytes(uint64(report.BytesFreed)))
	}
}

// PrintSyncSummary writes the human summary of a sync run.
func PrintSyncSummary(w io.Writer, report *models.SyncReport) {
	mode := "sync"
	if report.DryRun {
		mode = "dry-run sync"
	}
	fmt.Fprintf(w, "Completed %s %s -> %s (%s)\n", mode, report.SourcePath, report.DestPath, report.Duration.Round(time.Millisecond))
	if report.CreatedDest {
		if report.DryRun {
			fmt.Fprintf(w, "  destination would be created\n")
		} else {
			fmt.Fprintf(w, "  destination created\n")
		}
	}
	fmt.Fprintf(w, "  source files:  %d\n", report.SourceFiles)
	fmt.Fprintf(w, "  dest files:    %d\n", report.DestFiles)
	fmt.Fprintf(w, "  files copied:  %d (%s)\n", report.FilesCopied, humanize.IBytes(uint64(report.BytesCopied)))
	if report.FilesFailed > 0 {
		fmt.Fprintf(w, "  files failed:  %d\n", report.FilesFailed)
	}
	fmt.Fprintf(w, "  status:        %s\n", report.Status)
}
