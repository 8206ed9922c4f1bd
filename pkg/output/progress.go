package output

import (
	"github.com/cheggaaa/pb/v3"
)

// Progress renders a terminal progress bar for a batch of known size
// (files to hash, files to copy). A nil *Progress is a no-op so quiet runs
// can pass it around unconditionally; pb's own rendering is safe for
// concurrent Increment calls from worker goroutines.
type Progress struct {
	bar *pb.ProgressBar
}

const barTemplate = `{{string . "prefix"}} {{counters . }} {{bar . }} {{percent . }}`

// StartProgress begins a bar over total units. Returns nil when total is
// zero or progress display is disabled.
func StartProgress(prefix string, total int, enabled bool) *Progress {
	if !enabled || total <= 0 {
		return nil
	}
	bar := pb.ProgressBarTemplate(barTemplate).Start(total)
	bar.Set("prefix", prefix)
	return &Progress{bar: bar}
}

// Increment advances the bar by one unit.
func (p *Progress) Increment() {
	if p == nil {
		return
	}
	p.bar.Increment()
}

// Finish completes and removes the bar.
func (p *Progress) Finish() {
	if p == nil {
		return
	}
	p.bar.Finish()
}
