package lint

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/dotcommander/csslint/internal/baseline"
	"github.com/dotcommander/csslint/internal/config"
	"github.com/dotcommander/csslint/internal/findings"
	"github.com/dotcommander/csslint/internal/output"
	"github.com/dotcommander/csslint/internal/outputters"
	"github.com/dotcommander/csslint/internal/types"
)

// OrchestratorConfig holds configuration for the lint orchestrator.
type OrchestratorConfig struct {
	// Paths are explicit files or directories; empty means discover under
	// the configured root.
	Paths          []string
	Staged         bool
	Changed        bool
	UseBaseline    bool
	CreateBaseline bool
	BaselinePath   string
}

// Orchestrator coordinates a whole lint run: file selection, linting,
// baseline handling and reporting.
type Orchestrator struct {
	cfg    *config.Config
	opts   OrchestratorConfig
	engine *Engine
	out    io.Writer
	errOut io.Writer
}

// NewOrchestrator creates a new lint orchestrator. It fails if the rule
// options in cfg are invalid.
func NewOrchestrator(cfg *config.Config, opts OrchestratorConfig) (*Orchestrator, error) {
	engine, err := NewEngine(cfg.Options)
	if err != nil {
		return nil, err
	}
	if opts.BaselinePath == "" {
		opts.BaselinePath = baseline.DefaultFile
	}
	return &Orchestrator{
		cfg:    cfg,
		opts:   opts,
		engine: engine,
		out:    os.Stdout,
		errOut: os.Stderr,
	}, nil
}

// WithOutput redirects the report and warnings.
func (o *Orchestrator) WithOutput(out, errOut io.Writer) *Orchestrator {
	o.out = out
	o.errOut = errOut
	return o
}

// Result holds the outcome of a lint run.
type Result struct {
	TotalFiles      int
	Findings        []types.Finding
	Summary         findings.Summary
	BaselineIgnored int
	// HasErrors is set when findings at or above the fail-on severity remain.
	HasErrors bool
}

// Run executes the full lint workflow.
func (o *Orchestrator) Run(ctx context.Context) (*Result, error) {
	start := time.Now()

	baselineFile := o.resolveBaselinePath()
	b, err := o.loadBaseline(baselineFile)
	if err != nil && !o.cfg.Quiet {
		fmt.Fprintf(o.errOut, "Warning: Failed to load baseline: %v\n", err)
	}

	files, err := o.collectFiles(ctx)
	if err != nil {
		return nil, err
	}
	if o.cfg.Verbose {
		log.Printf("Linting %d files with %d workers", len(files), o.cfg.Concurrency)
	}

	fileResults, err := o.engine.LintFiles(ctx, files, o.cfg.Concurrency)
	if err != nil {
		return nil, err
	}

	result := &Result{TotalFiles: len(files)}
	report := &output.Report{ProjectRoot: o.cfg.Root, StartTime: start}
	var all []types.Finding

	for _, fr := range fileResults {
		fs := fr.Findings
		all = append(all, fs...)

		if o.opts.UseBaseline && b != nil {
			var ignored int
			fs, ignored = b.Filter(fs)
			result.BaselineIgnored += ignored
		}
		if o.cfg.Verbose {
			log.Printf("Processed %s: %d findings", displayName(fr.File), len(fs))
		}

		report.Files = append(report.Files, output.FileReport{
			File:     displayName(fr.File),
			Type:     fr.File.Type.String(),
			Findings: fs,
		})
		result.Findings = append(result.Findings, fs...)
	}
	report.BaselineIgnored = result.BaselineIgnored
	result.Summary = findings.Summarize(result.Findings)

	if err := outputters.NewOutputter(o.cfg, o.out).Format(report, o.cfg.Format); err != nil {
		return nil, fmt.Errorf("error formatting output: %w", err)
	}

	if o.opts.CreateBaseline {
		if err := o.saveBaseline(all, baselineFile); err != nil {
			return nil, err
		}
		// When creating baseline, exit successfully to accept current state
		return result, nil
	}

	result.HasErrors = exceedsFailOn(result.Findings, o.cfg.FailOn)
	return result, nil
}

// exceedsFailOn reports whether any finding is at or above the fail-on level.
func exceedsFailOn(fs []types.Finding, failOn string) bool {
	threshold, err := types.ParseSeverity(failOn)
	if err != nil {
		threshold = types.SeverityError
	}
	return findings.Highest(fs).Rank() >= threshold.Rank()
}

// resolveBaselinePath returns the baseline file path, relative paths being
// taken from the project root.
func (o *Orchestrator) resolveBaselinePath() string {
	baselineFile := o.opts.BaselinePath
	if !filepath.IsAbs(baselineFile) {
		baselineFile = filepath.Join(o.cfg.Root, baselineFile)
	}
	return baselineFile
}

// loadBaseline loads the baseline file if baseline mode is enabled.
func (o *Orchestrator) loadBaseline(baselineFile string) (*baseline.Baseline, error) {
	if !o.opts.UseBaseline {
		return nil, nil
	}

	if _, err := os.Stat(baselineFile); err != nil {
		return nil, nil // File doesn't exist, not an error
	}

	return baseline.LoadBaseline(baselineFile)
}

// saveBaseline creates and saves a new baseline from the collected findings.
func (o *Orchestrator) saveBaseline(fs []types.Finding, baselineFile string) error {
	b := baseline.CreateBaseline(fs)
	b.CreatedAt = time.Now().UTC().Format(time.RFC3339)

	if err := b.SaveBaseline(baselineFile); err != nil {
		return fmt.Errorf("failed to save baseline: %w", err)
	}

	if !o.cfg.Quiet {
		fmt.Fprintf(o.errOut, "Baseline created: %s (%d findings)\n", baselineFile, len(b.Fingerprints))
	}

	return nil
}
