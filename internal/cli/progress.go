package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
)

// CLIProgressReporter shows extraction progress with a progress bar.
// Extraction runs on several workers, so the reporter is safe for concurrent use.
type CLIProgressReporter struct {
	quiet bool
	w     io.Writer

	mu      sync.Mutex
	fileBar *progressbar.ProgressBar
}

// NewCLIProgressReporter creates a reporter writing to w.
func NewCLIProgressReporter(w io.Writer, quiet bool) *CLIProgressReporter {
	return &CLIProgressReporter{quiet: quiet, w: w}
}

func (c *CLIProgressReporter) OnExtractionStart(totalFiles int) {
	if c.quiet || totalFiles == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.fileBar = progressbar.NewOptions(totalFiles,
		progressbar.OptionSetWriter(c.w),
		progressbar.OptionSetDescription("Extracting symbols"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(c.w)
		}),
	)
}

func (c *CLIProgressReporter) OnFileExtracted(path string) {
	if c.quiet {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.fileBar != nil {
		c.fileBar.Add(1)
	}
}
