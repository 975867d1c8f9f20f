// Package output renders lint results for people and tools.
package output

import (
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/dotcommander/csslint/internal/findings"
	"github.com/dotcommander/csslint/internal/types"
)

// Tool is the name written into machine-readable reports.
const Tool = "csslint"

// Version is stamped into reports; the build may override it.
var Version = "dev"

// Report is everything a formatter needs about one lint run.
type Report struct {
	ProjectRoot     string
	StartTime       time.Time
	Files           []FileReport
	BaselineIgnored int
}

// FileReport holds the findings of a single file, in aggregator order.
type FileReport struct {
	File     string
	Type     string
	Findings []types.Finding
}

// Success reports whether the file has no error findings.
func (r FileReport) Success() bool {
	return findings.Summarize(r.Findings).Errors == 0
}

// Summary totals the findings of every file.
func (r *Report) Summary() findings.Summary {
	var s findings.Summary
	for _, f := range r.Files {
		fs := findings.Summarize(f.Findings)
		s.Errors += fs.Errors
		s.Warnings += fs.Warnings
		s.Total += fs.Total
	}
	return s
}

// FailedFiles counts files with at least one error.
func (r *Report) FailedFiles() int {
	n := 0
	for _, f := range r.Files {
		if !f.Success() {
			n++
		}
	}
	return n
}

// Duration is the time elapsed since StartTime, or zero if unset.
func (r *Report) Duration() time.Duration {
	if r.StartTime.IsZero() {
		return 0
	}
	return time.Since(r.StartTime)
}

// Formatter renders a report.
type Formatter interface {
	Format(r *Report) error
}

// IsTerminal reports whether w is a terminal, which enables colors.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// writeOutput writes content to outputFile when set, otherwise to w.
func writeOutput(w io.Writer, outputFile string, content []byte) error {
	if outputFile != "" {
		if err := os.WriteFile(outputFile, content, 0644); err != nil {
			return fmt.Errorf("error writing to file %s: %w", outputFile, err)
		}
		return nil
	}
	if _, err := w.Write(content); err != nil {
		return fmt.Errorf("error writing output: %w", err)
	}
	return nil
}

// pluralizeCount returns singular or plural form based on count.
func pluralizeCount(s string, count int) string {
	if count == 1 {
		return s
	}
	return s + "s"
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
