package importer

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// ProgressCallback defines the interface for progress reporting
type ProgressCallback interface {
	Update(name string, detail string)
	Finish()
}

// ProgressReporter draws a progress bar while files are imported
type ProgressReporter struct {
	writer    io.Writer
	total     int
	current   int
	startTime time.Time
}

// NewProgressReporter creates a new progress reporter
func NewProgressReporter(w io.Writer, total int) *ProgressReporter {
	return &ProgressReporter{
		writer:    w,
		total:     total,
		startTime: time.Now(),
	}
}

// Update advances the bar by one file
func (p *ProgressReporter) Update(name string, detail string) {
	p.current++
	total := p.total
	if total < p.current {
		total = p.current
	}

	pct := float64(p.current) / float64(total) * 100

	// Draw progress bar (30 chars wide)
	barWidth := 30
	filled := barWidth * p.current / total
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

	displayText := name
	if detail != "" {
		displayText += " (" + detail + ")"
	}
	if len(displayText) > 60 {
		displayText = displayText[:57] + "..."
	}

	_, _ = fmt.Fprintf(p.writer, "\r[%s] %3.0f%% (%d/%d) | %s",
		bar, pct, p.current, total, displayText)
}

// Finish completes the progress display
func (p *ProgressReporter) Finish() {
	elapsed := time.Since(p.startTime)
	_, _ = fmt.Fprintf(p.writer, "\nCompleted: %d files in %s\n", p.current, elapsed.Round(time.Millisecond))
}
