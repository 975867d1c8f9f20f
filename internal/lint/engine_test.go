package lint

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotcommander/csslint/internal/discovery"
	"github.com/dotcommander/csslint/internal/rules"
	"github.com/dotcommander/csslint/internal/types"
)

func newEngine(t *testing.T, configure func(*rules.Options)) *Engine {
	t.Helper()
	opts := rules.DefaultOptions()
	if configure != nil {
		configure(&opts)
	}
	e, err := NewEngine(opts)
	require.NoError(t, err)
	return e
}

func lint(t *testing.T, e *Engine, name, src string) []types.Finding {
	t.Helper()
	fs, err := e.LintDocument(context.Background(), name, []byte(src))
	require.NoError(t, err)
	return fs
}

func byRule(fs []types.Finding, id string) []types.Finding {
	var out []types.Finding
	for _, f := range fs {
		if f.RuleID == id {
			out = append(out, f)
		}
	}
	return out
}

func TestNewEngineRejectsInvalidOptions(t *testing.T) {
	opts := rules.DefaultOptions()
	opts.IndentWidth = 0

	_, err := NewEngine(opts)
	require.Error(t, err)

	var cfgErr *rules.InvalidConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "indentWidth", cfgErr.Key)
}

func TestNewEngineSelectsEnabledRules(t *testing.T) {
	e := newEngine(t, func(o *rules.Options) {
		o.EnabledRules = []string{rules.ZeroUnitID, rules.FinalNewlineID}
	})
	var ids []string
	for _, r := range e.Rules() {
		ids = append(ids, r.ID())
	}
	assert.ElementsMatch(t, []string{rules.ZeroUnitID, rules.FinalNewlineID}, ids)
}

func TestLintDocumentCompliantSelectorList(t *testing.T) {
	e := newEngine(t, nil)
	fs := lint(t, e, "a.css", ".a,\n.b {\n    color: #FFF;\n}")

	require.Len(t, fs, 2, "%v", fs)
	assert.Equal(t, rules.HexCaseAndShorthandID, fs[0].RuleID)
	assert.Equal(t, 3, fs[0].Line)
	assert.Equal(t, 12, fs[0].Column)
	assert.Equal(t, "#fff", fs[0].Fix)
	assert.Equal(t, rules.FinalNewlineID, fs[1].RuleID)
	assert.Empty(t, byRule(fs, rules.SelectorPerLineID))
}

func TestLintDocumentCompactRuleSet(t *testing.T) {
	e := newEngine(t, nil)
	fs := lint(t, e, "a.css", ".a { color:#fff }\n")

	spacing := byRule(fs, rules.DeclarationSpacingID)
	require.Len(t, spacing, 1)
	assert.Contains(t, spacing[0].Message, "':' in \"color\"")
	assert.Equal(t, 1, spacing[0].Line)
	assert.Equal(t, 11, spacing[0].Column)

	assert.Empty(t, byRule(fs, rules.TrailingSemicolonID))
	assert.Empty(t, byRule(fs, rules.BraceSpacingID))
}

func TestLintDocumentNestingDepth(t *testing.T) {
	src := `.a {
    .b {
        .c {
            .d {
                color: red;
            }
        }
    }
}
`
	e := newEngine(t, func(o *rules.Options) { o.MaxNestingDepth = 2 })
	fs := lint(t, e, "nested.scss", src)

	depth := byRule(fs, rules.NestingDepthID)
	require.Len(t, depth, 1, "%v", fs)
	assert.Equal(t, 4, depth[0].Line)
	assert.Equal(t, 13, depth[0].Column)
	assert.Len(t, fs, 1, "well-formatted input should only report nesting: %v", fs)
}

func TestLintDocumentMixedIndentation(t *testing.T) {
	src := ".a {\n \tcolor: red;\n}\n"
	for _, unit := range []string{rules.IndentSpace, rules.IndentTab} {
		t.Run(unit, func(t *testing.T) {
			e := newEngine(t, func(o *rules.Options) {
				o.IndentUnit = unit
				if unit == rules.IndentTab {
					o.IndentWidth = 1
				}
			})
			fs := byRule(lint(t, e, "a.css", src), rules.IndentationConsistencyID)
			require.Len(t, fs, 1)
			assert.Equal(t, types.SeverityError, fs[0].Severity)
			assert.Equal(t, 2, fs[0].Line)
		})
	}
}

func TestLintDocumentUnterminatedComment(t *testing.T) {
	src := ".a {\n    color: #FFF;\n}\n\n/* never closed\n"
	e := newEngine(t, nil)
	fs := lint(t, e, "a.css", src)

	syntax := byRule(fs, types.RuleSyntax)
	require.Len(t, syntax, 1)
	assert.Equal(t, "Unterminated comment", syntax[0].Message)
	assert.Equal(t, 5, syntax[0].Line)
	assert.Equal(t, 1, syntax[0].Column)
	assert.Equal(t, types.SeverityError, syntax[0].Severity)

	assert.Len(t, byRule(fs, rules.HexCaseAndShorthandID), 1)
	assert.Empty(t, byRule(fs, types.RuleParseIncomplete))
}

func TestLintDocumentUnterminatedStringKeepsLinting(t *testing.T) {
	src := ".a {\n    content: \"oops;\n}\n\n.b {\n    color: #FFF;\n}\n"
	e := newEngine(t, nil)
	fs := lint(t, e, "a.css", src)

	syntax := byRule(fs, types.RuleSyntax)
	require.Len(t, syntax, 1)
	assert.Equal(t, "Unterminated string", syntax[0].Message)
	assert.Equal(t, 2, syntax[0].Line)

	hex := byRule(fs, rules.HexCaseAndShorthandID)
	require.Len(t, hex, 1)
	assert.Equal(t, 6, hex[0].Line)
}

func TestLintDocumentStructuralProblems(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		message string
		line    int
		column  int
	}{
		{"unmatched closing brace", ".a {\n}\n}\n", "Unmatched closing brace", 3, 1},
		{"unclosed block", ".a {\n    color: red;\n", "Block is never closed", 1, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := lint(t, newEngine(t, nil), "a.css", tt.src)

			syntax := byRule(fs, types.RuleSyntax)
			require.Len(t, syntax, 1, "%v", fs)
			assert.Equal(t, tt.message, syntax[0].Message)
			assert.Equal(t, tt.line, syntax[0].Line)
			assert.Equal(t, tt.column, syntax[0].Column)

			incomplete := byRule(fs, types.RuleParseIncomplete)
			require.Len(t, incomplete, 1)
			assert.Equal(t, tt.line, incomplete[0].Line)
			assert.Contains(t, incomplete[0].Message, "recovered from 1 structural problem")
		})
	}
}

func TestLintDocumentStructuralRulesCanBeDisabled(t *testing.T) {
	e := newEngine(t, func(o *rules.Options) {
		o.DisabledRules = []string{types.RuleSyntax, types.RuleParseIncomplete}
	})
	fs := lint(t, e, "a.css", ".a {\n}\n}\n")
	assert.Empty(t, byRule(fs, types.RuleSyntax))
	assert.Empty(t, byRule(fs, types.RuleParseIncomplete))
}

func TestLintDocumentSeverityOverrides(t *testing.T) {
	src := ".a {\n  margin: 0px;\n}\n.b {\n \tcolor: red;\n}\n"
	e := newEngine(t, func(o *rules.Options) {
		o.SeverityOverrides = map[string]string{
			rules.ZeroUnitID:               "error",
			rules.IndentationConsistencyID: "warning",
		}
	})
	fs := lint(t, e, "a.css", src)

	zero := byRule(fs, rules.ZeroUnitID)
	require.Len(t, zero, 1)
	assert.Equal(t, types.SeverityError, zero[0].Severity)

	indent := byRule(fs, rules.IndentationConsistencyID)
	require.Len(t, indent, 2)
	assert.Equal(t, types.SeverityWarning, indent[0].Severity)
	assert.Equal(t, types.SeverityError, indent[1].Severity, "mixed indentation stays an error")
}

func TestLintDocumentIdempotent(t *testing.T) {
	src := ".a,.b{color:#AABBCC;margin:0px}\n.c {\n\tcontent: 'x';\n}\n\n\n"
	e := newEngine(t, nil)

	first := lint(t, e, "a.scss", src)
	second := lint(t, e, "a.scss", src)
	require.NotEmpty(t, first)
	assert.Equal(t, first, second)
}

func TestLintDocumentOrdered(t *testing.T) {
	src := ".a,.b{color:#AABBCC;margin:0px}\n.c {\n\tcontent: 'x';\n}\n\n\n"
	fs := lint(t, newEngine(t, nil), "a.scss", src)

	for i := 1; i < len(fs); i++ {
		prev, cur := fs[i-1], fs[i]
		ordered := prev.Line < cur.Line ||
			(prev.Line == cur.Line && prev.Column < cur.Column) ||
			(prev.Line == cur.Line && prev.Column == cur.Column && prev.RuleID < cur.RuleID)
		assert.True(t, ordered, "findings %d and %d out of order: %v, %v", i-1, i, prev, cur)
	}
}

func TestLintDocumentDialect(t *testing.T) {
	src := "// it's\n.a {\n    color: red;\n}\n"
	e := newEngine(t, nil)

	assert.Empty(t, lint(t, e, "a.scss", src))
	// Without line comments the apostrophe opens a string.
	assert.Len(t, byRule(lint(t, e, "a.css", src), types.RuleSyntax), 1)
}

func TestLintDocumentEmpty(t *testing.T) {
	assert.Empty(t, lint(t, newEngine(t, nil), "empty.css", ""))
}

func TestLintDocumentCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fs, err := newEngine(t, nil).LintDocument(ctx, "a.css", []byte(".a{color:#FFF}"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, fs)
}

type panicRule struct{}

func (panicRule) ID() string                      { return "boom" }
func (panicRule) Description() string             { return "always panics" }
func (panicRule) DefaultSeverity() types.Severity { return types.SeverityWarning }
func (panicRule) Check(*rules.Pass) []types.Finding {
	panic("index out of range")
}

func TestLintDocumentRecoversFromPanickingRule(t *testing.T) {
	reg := rules.DefaultRegistry()
	reg.Add(panicRule{})

	e, err := NewEngineWithRegistry(rules.DefaultOptions(), reg)
	require.NoError(t, err)

	fs := lint(t, e, "a.css", ".a {\n    color: #FFF;\n}\n")

	boom := byRule(fs, "boom")
	require.Len(t, boom, 1)
	assert.Equal(t, types.SeverityError, boom[0].Severity)
	assert.Contains(t, boom[0].Message, "Checker failed: index out of range")
	assert.Len(t, byRule(fs, rules.HexCaseAndShorthandID), 1, "other checkers still run")
}

func TestIsSCSS(t *testing.T) {
	assert.True(t, IsSCSS("a.scss"))
	assert.True(t, IsSCSS("dir/B.SCSS"))
	assert.False(t, IsSCSS("a.css"))
	assert.False(t, IsSCSS("scss"))
}

func TestLintFiles(t *testing.T) {
	files := []discovery.File{
		{RelPath: "a.css", Contents: ".a {\n    color: #FFF;\n}\n"},
		{RelPath: "b.scss", Contents: ".b {\n    margin: 0;\n}\n"},
		{Path: "/abs/c.css", Contents: ".c{}"},
	}

	e := newEngine(t, nil)
	results, err := e.LintFiles(context.Background(), files, 2)
	require.NoError(t, err)
	require.Len(t, results, 3)

	require.Len(t, results[0].Findings, 1)
	assert.Equal(t, "a.css", results[0].Findings[0].File)
	assert.Equal(t, "a.css", results[0].File.RelPath)

	assert.Empty(t, results[1].Findings)

	require.NotEmpty(t, results[2].Findings)
	assert.Equal(t, "/abs/c.css", results[2].Findings[0].File)
}

func TestLintFilesMatchesSequential(t *testing.T) {
	var files []discovery.File
	for _, src := range []string{
		".a{color:#AABBCC}\n",
		".b {\n  margin: 0px;\n}\n",
		"/* open\n",
		".c {\n    .d {\n        .e {\n            .f {}\n        }\n    }\n}\n",
	} {
		files = append(files, discovery.File{RelPath: "f.scss", Contents: src})
	}

	e := newEngine(t, nil)
	parallel, err := e.LintFiles(context.Background(), files, 4)
	require.NoError(t, err)
	serial, err := e.LintFiles(context.Background(), files, 1)
	require.NoError(t, err)
	assert.Equal(t, serial, parallel)
}

func TestLintFilesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := newEngine(t, nil).LintFiles(ctx, []discovery.File{{RelPath: "a.css", Contents: ".a{}"}}, 0)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, results)
}
