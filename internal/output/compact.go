package output

import (
	"fmt"
	"io"
	"strings"
)

// CompactFormatter prints one line per finding in the conventional
// file:line:col form understood by editors, followed by a summary line.
type CompactFormatter struct {
	w        io.Writer
	quiet    bool
	colorize bool
}

// NewCompactFormatter creates a new CompactFormatter.
func NewCompactFormatter(w io.Writer, quiet, colorize bool) *CompactFormatter {
	return &CompactFormatter{
		w:        w,
		quiet:    quiet,
		colorize: colorize,
	}
}

// Format writes the report.
func (f *CompactFormatter) Format(r *Report) error {
	if f.quiet {
		return nil
	}

	var b strings.Builder
	for _, file := range r.Files {
		for _, fd := range file.Findings {
			b.WriteString(fd.String())
			b.WriteString("\n")
		}
	}

	s := r.Summary()
	passed := len(r.Files) - r.FailedFiles()
	summaryText := fmt.Sprintf("%d/%d passed", passed, len(r.Files))
	if s.Errors > 0 {
		summaryText += fmt.Sprintf(", %d %s", s.Errors, pluralizeCount("error", s.Errors))
	}
	if s.Warnings > 0 {
		summaryText += fmt.Sprintf(", %d %s", s.Warnings, pluralizeCount("warning", s.Warnings))
	}
	summaryText += fmt.Sprintf(" (%s)", formatDuration(r.Duration()))

	if b.Len() > 0 {
		b.WriteString("\n")
	}
	switch {
	case !f.colorize:
		b.WriteString(summaryText)
	case s.Errors > 0:
		b.WriteString(errorStyle.Render(summaryText))
	case s.Warnings > 0:
		b.WriteString(warningStyle.Render(summaryText))
	default:
		b.WriteString(successStyle.Render(summaryText))
	}
	b.WriteString("\n")

	_, err := io.WriteString(f.w, b.String())
	return err
}
