// Package outputters picks the report formatter for a configured format.
package outputters

import (
	"fmt"
	"io"
	"time"

	"github.com/dotcommander/csslint/internal/config"
	"github.com/dotcommander/csslint/internal/output"
)

// Outputter handles output formatting
type Outputter struct {
	config *config.Config
	w      io.Writer
}

// NewOutputter creates a new Outputter writing to w.
func NewOutputter(config *config.Config, w io.Writer) *Outputter {
	return &Outputter{
		config: config,
		w:      w,
	}
}

// CreateFormatter returns the formatter for format.
func (o *Outputter) CreateFormatter(format string) (output.Formatter, error) {
	switch format {
	case "console":
		return output.NewConsoleFormatter(o.w, o.config.Quiet, o.config.Verbose, output.IsTerminal(o.w)), nil
	case "compact":
		return output.NewCompactFormatter(o.w, o.config.Quiet, output.IsTerminal(o.w)), nil
	case "json":
		return output.NewJSONFormatter(o.w, true, o.config.Output), nil
	case "markdown":
		return output.NewMarkdownFormatter(o.w, o.config.Verbose, o.config.Output), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// Format renders the report using the given format.
func (o *Outputter) Format(r *output.Report, format string) error {
	if r.StartTime.IsZero() {
		r.StartTime = time.Now()
	}
	if r.ProjectRoot == "" {
		r.ProjectRoot = o.config.Root
	}

	formatter, err := o.CreateFormatter(format)
	if err != nil {
		return err
	}
	return formatter.Format(r)
}
