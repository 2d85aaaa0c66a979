package seed

import (
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"
)

// progressTracker reports per-chunk progress on a terminal bar.
// A nil tracker is valid and reports nothing.
type progressTracker struct {
	bar *progressbar.ProgressBar
}

// newProgressTracker returns nil when w is nil.
func newProgressTracker(w io.Writer, total int, description string) *progressTracker {
	if w == nil || total <= 0 {
		return nil
	}
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowBytes(false),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription(fmt.Sprintf("[cyan]%s[reset]", description)),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(w)
		}),
	)
	return &progressTracker{bar: bar}
}

// Increment advances the bar by delta items.
func (p *progressTracker) Increment(delta int) {
	if p == nil {
		return
	}
	_ = p.bar.Add(delta)
}

// Finish completes the bar.
func (p *progressTracker) Finish() {
	if p == nil {
		return
	}
	_ = p.bar.Finish()
}
