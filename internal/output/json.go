package output

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dotcommander/csslint/internal/types"
)

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	w          io.Writer
	indent     bool
	outputFile string
}

// NewJSONFormatter creates a new JSONFormatter. When outputFile is set the
// report is written there instead of w.
func NewJSONFormatter(w io.Writer, indent bool, outputFile string) *JSONFormatter {
	return &JSONFormatter{
		w:          w,
		indent:     indent,
		outputFile: outputFile,
	}
}

// Format formats the report as JSON
func (f *JSONFormatter) Format(r *Report) error {
	s := r.Summary()
	report := JSONReport{
		Header: JSONHeader{
			Tool:        Tool,
			Version:     Version,
			Timestamp:   time.Now().Format(time.RFC3339),
			ProjectRoot: r.ProjectRoot,
		},
		Summary: JSONSummary{
			TotalFiles:      len(r.Files),
			SuccessfulFiles: len(r.Files) - r.FailedFiles(),
			FailedFiles:     r.FailedFiles(),
			TotalErrors:     s.Errors,
			TotalWarnings:   s.Warnings,
			BaselineIgnored: r.BaselineIgnored,
			Duration:        r.Duration().Round(time.Millisecond).String(),
		},
		Results: make([]JSONResult, len(r.Files)),
	}

	for i, file := range r.Files {
		findings := file.Findings
		if findings == nil {
			findings = []types.Finding{}
		}
		report.Results[i] = JSONResult{
			File:     file.File,
			Type:     file.Type,
			Success:  file.Success(),
			Findings: findings,
		}
	}

	var (
		data []byte
		err  error
	)
	if f.indent {
		data, err = json.MarshalIndent(report, "", "  ")
	} else {
		data, err = json.Marshal(report)
	}
	if err != nil {
		return fmt.Errorf("error marshaling JSON: %w", err)
	}

	return writeOutput(f.w, f.outputFile, append(data, '\n'))
}

// JSONReport represents the complete JSON report structure
type JSONReport struct {
	Header  JSONHeader   `json:"header"`
	Summary JSONSummary  `json:"summary"`
	Results []JSONResult `json:"results"`
}

// JSONHeader contains report metadata
type JSONHeader struct {
	Tool        string `json:"tool"`
	Version     string `json:"version"`
	Timestamp   string `json:"timestamp"`
	ProjectRoot string `json:"project_root,omitempty"`
}

// JSONSummary contains summary statistics
type JSONSummary struct {
	TotalFiles      int    `json:"total_files"`
	SuccessfulFiles int    `json:"successful_files"`
	FailedFiles     int    `json:"failed_files"`
	TotalErrors     int    `json:"total_errors"`
	TotalWarnings   int    `json:"total_warnings"`
	BaselineIgnored int    `json:"baseline_ignored,omitempty"`
	Duration        string `json:"duration"`
}

// JSONResult represents a single file's linting result
type JSONResult struct {
	File     string          `json:"file"`
	Type     string          `json:"type,omitempty"`
	Success  bool            `json:"success"`
	Findings []types.Finding `json:"findings"`
}
