package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestJSONFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter(&buf, false, "")
	if err := f.Format(sampleReport()); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	var report JSONReport
	if err := json.Unmarshal(buf.Bytes(), &report); err != nil {
		t.Fatalf("Failed to parse JSON: %v\n%s", err, buf.String())
	}

	if report.Header.Tool != "csslint" {
		t.Errorf("Tool = %q, want csslint", report.Header.Tool)
	}
	if report.Header.ProjectRoot != "/project" {
		t.Errorf("ProjectRoot = %q", report.Header.ProjectRoot)
	}
	if report.Summary.TotalFiles != 3 || report.Summary.SuccessfulFiles != 2 || report.Summary.FailedFiles != 1 {
		t.Errorf("file counts = %+v", report.Summary)
	}
	if report.Summary.TotalErrors != 1 || report.Summary.TotalWarnings != 2 {
		t.Errorf("finding counts = %+v", report.Summary)
	}
	if len(report.Results) != 3 {
		t.Fatalf("Results length = %d, want 3", len(report.Results))
	}

	broken := report.Results[2]
	if broken.File != "broken.css" || broken.Success {
		t.Errorf("Results[2] = %+v", broken)
	}
	if len(broken.Findings) != 2 || broken.Findings[0].RuleID != "syntax" || broken.Findings[0].Line != 1 {
		t.Errorf("Results[2].Findings = %+v", broken.Findings)
	}
}

func TestJSONFormatter_EmptyFindingsIsArray(t *testing.T) {
	var buf bytes.Buffer
	r := &Report{Files: []FileReport{{File: "a.css"}}}
	if err := NewJSONFormatter(&buf, false, "").Format(r); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !strings.Contains(buf.String(), `"findings":[]`) {
		t.Errorf("clean file should have an empty findings array:\n%s", buf.String())
	}
}

func TestJSONFormatter_Indent(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONFormatter(&buf, true, "").Format(sampleReport()); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !strings.Contains(buf.String(), "\n  \"header\": {") {
		t.Errorf("expected indented output:\n%s", buf.String())
	}
}

func TestJSONFormatter_WriteToFile(t *testing.T) {
	outputFile := filepath.Join(t.TempDir(), "report.json")

	var buf bytes.Buffer
	if err := NewJSONFormatter(&buf, true, outputFile).Format(sampleReport()); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("nothing should be written to the writer when an output file is set")
	}

	data, err := os.ReadFile(outputFile)
	if err != nil {
		t.Fatalf("failed to read output file: %v", err)
	}
	var report JSONReport
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatalf("output file is not valid JSON: %v", err)
	}
}

func TestJSONFormatter_WriteToFileError(t *testing.T) {
	outputFile := filepath.Join(t.TempDir(), "missing", "dir", "report.json")
	err := NewJSONFormatter(&bytes.Buffer{}, false, outputFile).Format(sampleReport())
	if err == nil {
		t.Fatal("expected error writing to a missing directory")
	}
	if !strings.Contains(err.Error(), "error writing to file") {
		t.Errorf("unexpected error: %v", err)
	}
}
