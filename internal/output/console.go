package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dotcommander/csslint/internal/types"
)

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))  // red
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))  // yellow
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // green
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	boldStyle    = lipgloss.NewStyle().Bold(true)
)

// ConsoleFormatter prints findings grouped by file.
type ConsoleFormatter struct {
	w        io.Writer
	quiet    bool
	verbose  bool
	colorize bool
}

// NewConsoleFormatter creates a new ConsoleFormatter
func NewConsoleFormatter(w io.Writer, quiet, verbose, colorize bool) *ConsoleFormatter {
	return &ConsoleFormatter{
		w:        w,
		quiet:    quiet,
		verbose:  verbose,
		colorize: colorize,
	}
}

// Format formats the report for console output
func (f *ConsoleFormatter) Format(r *Report) error {
	if f.quiet {
		// Only the exit code matters in quiet mode
		return nil
	}

	var b strings.Builder
	f.writeFileResults(&b, r)
	f.writeSummary(&b, r)

	_, err := io.WriteString(f.w, b.String())
	return err
}

func (f *ConsoleFormatter) paint(style lipgloss.Style, s string) string {
	if !f.colorize {
		return s
	}
	return style.Render(s)
}

// writeFileResults writes one block per file with findings; clean files are
// listed only in verbose mode.
func (f *ConsoleFormatter) writeFileResults(b *strings.Builder, r *Report) {
	for _, file := range r.Files {
		if len(file.Findings) == 0 {
			if f.verbose {
				fmt.Fprintf(b, "%s %s\n", f.paint(successStyle, "✓"), file.File)
			}
			continue
		}

		status, style := "⚠", warningStyle
		if !file.Success() {
			status, style = "✗", errorStyle
		}
		fmt.Fprintf(b, "%s %s\n", f.paint(style, status), f.paint(boldStyle, file.File))

		width := 0
		for _, fd := range file.Findings {
			width = max(width, len(position(fd)))
		}
		for _, fd := range file.Findings {
			f.writeFinding(b, fd, width)
		}
		b.WriteString("\n")
	}
}

func (f *ConsoleFormatter) writeFinding(b *strings.Builder, fd types.Finding, width int) {
	sevStyle := warningStyle
	if fd.Severity == types.SeverityError {
		sevStyle = errorStyle
	}
	pos := position(fd)
	pad := strings.Repeat(" ", width-len(pos))
	sev := fmt.Sprintf("%-7s", fd.Severity)

	fmt.Fprintf(b, "  %s%s  %s  %s  %s\n",
		f.paint(dimStyle, pos), pad,
		f.paint(sevStyle, sev),
		fd.Message,
		f.paint(dimStyle, fd.RuleID))
	if f.verbose && fd.Fix != "" {
		fmt.Fprintf(b, "  %s  fix: %q\n", strings.Repeat(" ", width), fd.Fix)
	}
}

func position(fd types.Finding) string {
	return fmt.Sprintf("%d:%d", fd.Line, fd.Column)
}

// writeSummary writes the closing totals line.
func (f *ConsoleFormatter) writeSummary(b *strings.Builder, r *Report) {
	s := r.Summary()
	duration := formatDuration(r.Duration())

	if r.BaselineIgnored > 0 {
		fmt.Fprintf(b, "%s\n", f.paint(dimStyle,
			fmt.Sprintf("%d baseline %s ignored", r.BaselineIgnored, pluralizeCount("finding", r.BaselineIgnored))))
	}

	if s.Total == 0 {
		fmt.Fprintf(b, "%s\n", f.paint(successStyle.Bold(true),
			fmt.Sprintf("✓ %d %s checked, no problems (%s)", len(r.Files), pluralizeCount("file", len(r.Files)), duration)))
		return
	}

	text := fmt.Sprintf("✗ %d %s (%d %s, %d %s) in %d/%d files (%s)",
		s.Total, pluralizeCount("problem", s.Total),
		s.Errors, pluralizeCount("error", s.Errors),
		s.Warnings, pluralizeCount("warning", s.Warnings),
		filesWithFindings(r), len(r.Files), duration)
	style := warningStyle
	if s.Errors > 0 {
		style = errorStyle
	}
	fmt.Fprintf(b, "%s\n", f.paint(style, text))
}

func filesWithFindings(r *Report) int {
	n := 0
	for _, f := range r.Files {
		if len(f.Findings) > 0 {
			n++
		}
	}
	return n
}
