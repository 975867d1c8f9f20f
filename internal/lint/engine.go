// Package lint runs the scan, parse and check pipeline over stylesheets and
// coordinates whole-project runs.
package lint

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/dotcommander/csslint/internal/discovery"
	"github.com/dotcommander/csslint/internal/findings"
	"github.com/dotcommander/csslint/internal/parser"
	"github.com/dotcommander/csslint/internal/rules"
	"github.com/dotcommander/csslint/internal/scanner"
	"github.com/dotcommander/csslint/internal/types"
)

// Engine lints documents with a fixed, validated set of options. It holds no
// per-document state and is safe for concurrent use.
type Engine struct {
	opts     rules.Options
	rules    []rules.Rule
	defaults map[string]types.Severity
}

// NewEngine validates opts and returns an engine running every enabled rule
// of the default registry.
func NewEngine(opts rules.Options) (*Engine, error) {
	return NewEngineWithRegistry(opts, rules.DefaultRegistry())
}

// NewEngineWithRegistry is NewEngine with a caller-supplied rule registry.
func NewEngineWithRegistry(opts rules.Options, registry *rules.Registry) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		opts:  opts,
		rules: registry.Select(&opts),
		defaults: map[string]types.Severity{
			types.RuleSyntax:          types.SeverityError,
			types.RuleParseIncomplete: types.SeverityError,
		},
	}
	for _, r := range registry.Rules() {
		e.defaults[r.ID()] = r.DefaultSeverity()
	}
	return e, nil
}

// Rules returns the rules the engine runs, in registration order.
func (e *Engine) Rules() []rules.Rule {
	return e.rules
}

// LintDocument runs the full pipeline over one in-memory document. The name
// is used for attribution and to pick the dialect: names ending in .scss are
// scanned as SCSS. A cancelled context discards the document's result.
func (e *Engine) LintDocument(ctx context.Context, name string, src []byte) ([]types.Finding, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sc := scanner.New(src, scanner.Options{SCSS: IsSCSS(name)})
	toks := sc.All()
	doc, problems, parseErr := parser.Parse(name, toks)

	pass := &rules.Pass{File: name, Doc: doc, Tokens: toks, Opts: &e.opts}

	// One slot per checker plus one for structural findings.
	groups := make([][]types.Finding, len(e.rules)+1)
	groups[len(e.rules)] = e.structural(name, sc.Errors(), problems, parseErr)

	g, gctx := errgroup.WithContext(ctx)
	for i, r := range e.rules {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			groups[i] = runChecker(r, pass)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, group := range groups {
		for k := range group {
			group[k] = e.override(group[k])
		}
	}
	return findings.Aggregate(groups...), nil
}

// runChecker calls r.Check, turning a panic into a single error finding so
// the remaining checkers still report.
func runChecker(r rules.Rule, p *rules.Pass) (out []types.Finding) {
	defer func() {
		if v := recover(); v != nil {
			out = []types.Finding{{
				File:     p.File,
				RuleID:   r.ID(),
				Severity: types.SeverityError,
				Message:  fmt.Sprintf("Checker failed: %v", v),
				Line:     1,
				Column:   1,
			}}
		}
	}()
	return r.Check(p)
}

// structural converts lexical and parse problems into findings.
func (e *Engine) structural(name string, lexErrs []*scanner.LexError, problems []*parser.StructuralParseError, parseErr error) []types.Finding {
	var out []types.Finding

	if e.opts.Enabled(types.RuleSyntax) {
		for _, le := range lexErrs {
			out = append(out, types.Finding{
				File:     name,
				RuleID:   types.RuleSyntax,
				Severity: types.SeverityError,
				Message:  lexMessage(le),
				Line:     le.Pos.Line,
				Column:   le.Pos.Column,
			})
		}
		for _, pe := range problems {
			out = append(out, syntaxFinding(name, pe))
		}
	}

	var stopped *parser.StructuralParseError
	if errors.As(parseErr, &stopped) && e.opts.Enabled(types.RuleSyntax) {
		out = append(out, syntaxFinding(name, stopped))
	}

	if (len(problems) > 0 || parseErr != nil) && e.opts.Enabled(types.RuleParseIncomplete) {
		f := types.Finding{
			File:     name,
			RuleID:   types.RuleParseIncomplete,
			Severity: types.SeverityError,
			Line:     1,
			Column:   1,
		}
		switch {
		case stopped != nil:
			f.Message = "Parsing stopped early; findings after this point are missing"
			f.Line, f.Column = stopped.Pos.Line, stopped.Pos.Column
		case parseErr != nil:
			f.Message = fmt.Sprintf("Parsing stopped early: %v", parseErr)
		default:
			f.Message = fmt.Sprintf("Parse incomplete: recovered from %d structural problem(s)", len(problems))
			f.Line, f.Column = problems[0].Pos.Line, problems[0].Pos.Column
		}
		out = append(out, f)
	}
	return out
}

func syntaxFinding(name string, pe *parser.StructuralParseError) types.Finding {
	return types.Finding{
		File:     name,
		RuleID:   types.RuleSyntax,
		Severity: types.SeverityError,
		Message:  capitalize(pe.Msg),
		Line:     pe.Pos.Line,
		Column:   pe.Pos.Column,
	}
}

func lexMessage(le *scanner.LexError) string {
	switch le.Kind {
	case scanner.UnterminatedComment:
		return "Unterminated comment"
	case scanner.UnterminatedString:
		return "Unterminated string"
	default:
		return "Lexical error"
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// override applies a configured severity. Findings whose severity differs
// from their rule's default keep it.
func (e *Engine) override(f types.Finding) types.Finding {
	sev, ok := e.opts.Severity(f.RuleID)
	if !ok || f.Severity != e.defaults[f.RuleID] {
		return f
	}
	f.Severity = sev
	return f
}

// IsSCSS reports whether a document name selects the SCSS dialect.
func IsSCSS(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".scss")
}

// FileResult holds the findings for one file of a batch.
type FileResult struct {
	File     discovery.File
	Findings []types.Finding
}

// LintFiles lints files on at most jobs concurrent workers. Results are in
// the order of files. Findings are attributed to each file's RelPath, or its
// Path when RelPath is empty.
func (e *Engine) LintFiles(ctx context.Context, files []discovery.File, jobs int) ([]FileResult, error) {
	if jobs < 1 {
		jobs = 1
	}

	results := make([]FileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, f := range files {
		g.Go(func() error {
			name := displayName(f)
			fs, err := e.LintDocument(gctx, name, []byte(f.Contents))
			if err != nil {
				return fmt.Errorf("linting %s: %w", name, err)
			}
			results[i] = FileResult{File: f, Findings: fs}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
