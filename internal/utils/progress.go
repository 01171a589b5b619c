package utils

import (
	"io"
	"sync/atomic"

	"github.com/schollz/progressbar/v3"
)

// Standard progress bar descriptions
const (
	DescSyncing = "Syncing"
	DescListing = "Listing"
)

// Progress counts finished jobs of one batch. It is shared by pointer
// between all jobs; each job calls Done exactly once.
type Progress struct {
	completed atomic.Int64
	total     int
	bar       *progressbar.ProgressBar
}

// NewProgress creates a tracker for total jobs
func NewProgress(total int) *Progress {
	return &Progress{total: total}
}

// WithBar mirrors every completion onto bar
func (p *Progress) WithBar(bar *progressbar.ProgressBar) *Progress {
	p.bar = bar
	return p
}

// Done records one finished job and returns the new completed count
// together with the batch total
func (p *Progress) Done() (completed, total int) {
	n := p.completed.Add(1)
	if p.bar != nil {
		_ = p.bar.Add(1)
	}
	return int(n), p.total
}

// Snapshot returns the current counts without modifying them
func (p *Progress) Snapshot() (completed, total int) {
	return int(p.completed.Load()), p.total
}

// Drained reports whether every job has been counted
func (p *Progress) Drained() bool {
	return int(p.completed.Load()) == p.total
}

// Finish completes the attached bar, if any
func (p *Progress) Finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}

// NewProgressBar creates a consistently styled progress bar.
//
// Parameters:
//   - total: Total number of items. Use -1 for unknown totals (indeterminate/spinner mode).
//   - description: Text description to show before the progress bar (e.g., DescSyncing).
//   - out: Destination for the bar; nil writes to stderr.
//
// Example:
//
//	bar := utils.NewProgressBar(len(jobs), utils.DescSyncing, nil)
//	progress := utils.NewProgress(len(jobs)).WithBar(bar)
//	defer progress.Finish()
func NewProgressBar(total int, description string, out io.Writer) *progressbar.ProgressBar {
	opts := []progressbar.Option{
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
	}

	if out != nil {
		opts = append(opts, progressbar.OptionSetWriter(out))
	}

	if total < 0 {
		opts = append(opts,
			progressbar.OptionSpinnerType(14),
			progressbar.OptionSetRenderBlankState(true),
		)
	} else {
		opts = append(opts,
			progressbar.OptionShowIts(),
		)
	}

	return progressbar.NewOptions(total, opts...)
}
