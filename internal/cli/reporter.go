// Package cli provides command-line interface functionality for Picocrypt-NG.
package cli

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"
)

// Reporter implements volume.ProgressReporter for terminal output.
// It displays progress updates on a single line that gets overwritten.
type Reporter struct {
	mu        sync.Mutex
	status    string
	done      int
	total     int
	quiet     bool
	cancelled atomic.Bool
	lastLine  int // Length of last printed line (for clearing)
}

// NewReporter creates a new CLI progress reporter.
// If quiet is true, only errors are printed.
func NewReporter(quiet bool) *Reporter {
	return &Reporter{
		quiet: quiet,
	}
}

// SetStatus updates the status message and repaints the progress line.
func (r *Reporter) SetStatus(text string) {
	r.mu.Lock()
	r.status = text
	r.mu.Unlock()
	r.paint()
}

// SetProgress updates the attempt counters and repaints the progress line.
func (r *Reporter) SetProgress(done, total int) {
	r.mu.Lock()
	r.done = done
	r.total = total
	r.mu.Unlock()
	r.paint()
}

// paint prints the current status to the terminal.
func (r *Reporter) paint() {
	if r.quiet {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var bar string
	if r.total > 0 {
		barWidth := 30
		fraction := float64(r.done) / float64(r.total)
		filled := min(int(fraction*float64(barWidth)), barWidth)
		bar = strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
	}

	line := fmt.Sprintf("\r[%s] %d/%d | %s", bar, r.done, r.total, r.status)

	// Clear previous line if it was longer
	if len(line) < r.lastLine {
		line += strings.Repeat(" ", r.lastLine-len(line))
	}
	r.lastLine = len(line)

	fmt.Fprint(os.Stderr, line)
}

// IsCancelled checks if the operation was cancelled.
func (r *Reporter) IsCancelled() bool {
	return r.cancelled.Load()
}

// Cancel marks the operation as cancelled.
func (r *Reporter) Cancel() {
	r.cancelled.Store(true)
}

// Finish prints a newline to move past the progress line.
func (r *Reporter) Finish() {
	if !r.quiet {
		fmt.Fprintln(os.Stderr)
	}
}

// PrintError prints an error message.
func (r *Reporter) PrintError(format string, args ...any) {
	if !r.quiet && r.lastLine > 0 {
		fmt.Fprintln(os.Stderr)
	}
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}

// PrintSuccess prints a success message.
func (r *Reporter) PrintSuccess(format string, args ...any) {
	if r.quiet {
		return
	}
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}
