package output

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// MarkdownFormatter formats output as Markdown
type MarkdownFormatter struct {
	w          io.Writer
	verbose    bool
	outputFile string
}

// NewMarkdownFormatter creates a new MarkdownFormatter
func NewMarkdownFormatter(w io.Writer, verbose bool, outputFile string) *MarkdownFormatter {
	return &MarkdownFormatter{
		w:          w,
		verbose:    verbose,
		outputFile: outputFile,
	}
}

// Format formats the report as Markdown
func (f *MarkdownFormatter) Format(r *Report) error {
	var b strings.Builder
	s := r.Summary()

	b.WriteString("# CSSLint Report\n\n")
	fmt.Fprintf(&b, "**Generated:** %s\n\n", time.Now().Format("2006-01-02 15:04:05"))
	if r.ProjectRoot != "" {
		fmt.Fprintf(&b, "**Project:** %s\n\n", r.ProjectRoot)
	}
	fmt.Fprintf(&b, "**Duration:** %v\n\n", r.Duration().Round(time.Millisecond))

	b.WriteString("## Summary\n\n")
	b.WriteString("| Metric | Count |\n")
	b.WriteString("|--------|-------|\n")
	fmt.Fprintf(&b, "| Files Scanned | %d |\n", len(r.Files))
	fmt.Fprintf(&b, "| Successful | %d |\n", len(r.Files)-r.FailedFiles())
	fmt.Fprintf(&b, "| Failed | %d |\n", r.FailedFiles())
	fmt.Fprintf(&b, "| Errors | %d |\n", s.Errors)
	fmt.Fprintf(&b, "| Warnings | %d |\n", s.Warnings)
	if r.BaselineIgnored > 0 {
		fmt.Fprintf(&b, "| Baseline Ignored | %d |\n", r.BaselineIgnored)
	}
	b.WriteString("\n")

	b.WriteString("## Detailed Results\n\n")
	if len(r.Files) == 0 {
		b.WriteString("*No files found to validate.*\n\n")
	}

	if listed := f.listedFiles(r); len(listed) > 1 {
		b.WriteString("### Files\n\n")
		for _, name := range listed {
			fmt.Fprintf(&b, "- [%s](#%s)\n", name, createAnchor(name))
		}
		b.WriteString("\n")
	}

	for _, file := range r.Files {
		if len(file.Findings) == 0 && !f.verbose {
			continue // Skip clean files unless verbose
		}

		fmt.Fprintf(&b, "### %s\n\n", strings.TrimPrefix(file.File, "./"))
		fmt.Fprintf(&b, "Status: %s\n\n", getStatusEmoji(file.Success()))
		if len(file.Findings) == 0 {
			b.WriteString("No findings.\n\n")
			continue
		}

		b.WriteString("| Line | Column | Severity | Rule | Message |\n")
		b.WriteString("|------|--------|----------|------|---------|\n")
		for _, fd := range file.Findings {
			fmt.Fprintf(&b, "| %d | %d | %s | `%s` | %s |\n",
				fd.Line, fd.Column, fd.Severity, fd.RuleID, escapeCell(fd.Message))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Conclusion\n\n")
	if failed := r.FailedFiles(); failed == 0 {
		b.WriteString("✓ All files passed validation!\n")
	} else {
		fmt.Fprintf(&b, "✗ %d %s failed validation\n", failed, pluralizeCount("file", failed))
	}

	return writeOutput(f.w, f.outputFile, []byte(b.String()))
}

// listedFiles returns the names of the files that get a section.
func (f *MarkdownFormatter) listedFiles(r *Report) []string {
	var names []string
	for _, file := range r.Files {
		if len(file.Findings) > 0 || f.verbose {
			names = append(names, strings.TrimPrefix(file.File, "./"))
		}
	}
	return names
}

// getStatusEmoji returns an emoji for the status
func getStatusEmoji(success bool) string {
	if success {
		return "✅"
	}
	return "❌"
}

// createAnchor creates a markdown-safe anchor
func createAnchor(text string) string {
	anchor := strings.ToLower(text)
	anchor = strings.ReplaceAll(anchor, " ", "-")
	anchor = strings.ReplaceAll(anchor, ".", "")
	anchor = strings.ReplaceAll(anchor, "/", "-")
	return anchor
}

// escapeCell makes text safe inside a table cell.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
