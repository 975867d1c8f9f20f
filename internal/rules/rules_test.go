package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotcommander/csslint/internal/parser"
	"github.com/dotcommander/csslint/internal/scanner"
	"github.com/dotcommander/csslint/internal/types"
)

// runRule scans, parses and checks src with a single rule.
func runRule(t *testing.T, r Rule, src string, configure ...func(*Options)) []types.Finding {
	t.Helper()
	opts := DefaultOptions()
	for _, fn := range configure {
		fn(&opts)
	}
	require.NoError(t, opts.Validate())

	toks := scanner.New([]byte(src), scanner.Options{SCSS: true}).All()
	doc, _, err := parser.Parse("test.scss", toks)
	require.NoError(t, err)
	return r.Check(&Pass{File: "test.scss", Doc: doc, Tokens: toks, Opts: &opts})
}

type ruleCase struct {
	name      string
	src       string
	configure func(*Options)
	want      int
	line      int
	column    int
	contains  string
	fix       string
	severity  types.Severity
}

func runCases(t *testing.T, r Rule, cases []ruleCase) {
	t.Helper()
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			var configure []func(*Options)
			if tt.configure != nil {
				configure = append(configure, tt.configure)
			}
			got := runRule(t, r, tt.src, configure...)
			require.Len(t, got, tt.want, "findings: %v", got)
			if tt.want == 0 {
				return
			}
			f := got[0]
			assert.Equal(t, r.ID(), f.RuleID)
			assert.Equal(t, "test.scss", f.File)
			if tt.line > 0 {
				assert.Equal(t, tt.line, f.Line, "line")
				assert.Equal(t, tt.column, f.Column, "column")
			}
			if tt.contains != "" {
				assert.Contains(t, f.Message, tt.contains)
			}
			if tt.fix != "" {
				assert.Equal(t, tt.fix, f.Fix)
			}
			sev := tt.severity
			if sev == "" {
				sev = types.SeverityWarning
			}
			assert.Equal(t, sev, f.Severity)
		})
	}
}

func TestIndentation(t *testing.T) {
	tab := func(o *Options) {
		o.IndentUnit = IndentTab
		o.IndentWidth = 1
	}
	runCases(t, &indentationRule{}, []ruleCase{
		{name: "four spaces", src: ".a {\n    color: red;\n}\n"},
		{
			name: "two spaces", src: ".a {\n  color: red;\n}\n",
			want: 1, line: 2, column: 1, contains: "Expected indentation of 4", fix: "    ",
		},
		{
			name: "mixed with space unit", src: ".a {\n \tcolor: red;\n}\n",
			want: 1, line: 2, column: 1, contains: "mixes tabs and spaces", severity: types.SeverityError,
		},
		{
			name: "mixed with tab unit", src: ".a {\n\t color: red;\n}\n", configure: tab,
			want: 1, line: 2, column: 1, contains: "mixes tabs and spaces", fix: "\t", severity: types.SeverityError,
		},
		{name: "tabs with tab unit", src: ".a {\n\tcolor: red;\n}\n", configure: tab},
		{
			name: "tabs with space unit", src: ".a {\n\tcolor: red;\n}\n",
			want: 1, line: 2, column: 1, contains: "uses tabs",
		},
		{
			name: "wrapped value one level deeper",
			src:  ".a {\n    font-family: a,\n        b;\n}\n",
		},
		{
			name: "nested block", src: ".a {\n    .b {\n        color: red;\n    }\n}\n",
		},
		{
			name: "closing brace indented", src: ".a {\n    color: red;\n    }\n",
			want: 1, line: 3, column: 1, fix: "",
		},
		{name: "blank lines ignored", src: ".a {\n\n    color: red;\n}\n"},
	})
}

func TestSelectorPerLine(t *testing.T) {
	runCases(t, &selectorPerLineRule{}, []ruleCase{
		{name: "one per line", src: ".a,\n.b {\n    color: red;\n}\n"},
		{
			name: "same line", src: ".a, .b {\n    color: red;\n}\n",
			want: 1, line: 1, column: 5, contains: `".b"`,
		},
		{name: "compact exempt", src: ".a, .b { color: red; }\n"},
		{name: "single selector", src: ".a {\n    color: red;\n}\n"},
		{name: "comma inside function", src: ":is(.a, .b) {\n    color: red;\n}\n"},
		{name: "media query list", src: "@media screen, print {\n    .a {\n        color: red;\n    }\n}\n"},
	})
}

func TestBraceSpacing(t *testing.T) {
	runCases(t, &braceSpacingRule{}, []ruleCase{
		{name: "conforming", src: ".a {\n    color: red;\n}\n"},
		{
			name: "no space before brace", src: ".a{\n    color: red;\n}\n",
			want: 1, line: 1, column: 3, contains: "one space before '{'", fix: " {",
		},
		{
			name: "two spaces before brace", src: ".a  {\n    color: red;\n}\n",
			want: 1, line: 1, column: 3, contains: "exactly one space", fix: " ",
		},
		{
			name: "brace on next line", src: ".a\n{\n    color: red;\n}\n",
			want: 1, line: 2, column: 1, contains: "same line",
		},
		{
			name: "misaligned closing brace", src: ".a {\n    color: red;\n  }\n",
			want: 1, line: 3, column: 3, contains: "aligned",
		},
		{name: "compact padded", src: ".a { color: red; }\n"},
		{name: "compact empty", src: ".a {}\n"},
		{
			name: "compact unpadded", src: ".a {color: red;}\n",
			want: 2, line: 1, column: 5, contains: "after '{'",
		},
		{name: "unclosed block skipped", src: ".a {\n    color: red;\n"},
	})
}

func TestBraceSpacingDistinctPositions(t *testing.T) {
	got := runRule(t, &braceSpacingRule{}, ".a{color: red;}\n")
	require.Len(t, got, 3, "findings: %v", got)

	assert.Contains(t, got[0].Message, "before '{'")
	assert.Equal(t, 3, got[0].Column)
	assert.Contains(t, got[1].Message, "after '{'")
	assert.Equal(t, 4, got[1].Column)
	assert.Contains(t, got[2].Message, "before '}'")
	assert.Equal(t, 15, got[2].Column)
}

func TestDeclarationSpacing(t *testing.T) {
	runCases(t, &declarationSpacingRule{}, []ruleCase{
		{name: "conforming", src: ".a {\n    color: red;\n}\n"},
		{
			name: "missing space after colon", src: ".a { color:#fff }\n",
			want: 1, line: 1, column: 11, contains: "Expected one space after ':'", fix: ": ",
		},
		{
			name: "two spaces after colon", src: ".a {\n    color:  red;\n}\n",
			want: 1, line: 2, column: 10, contains: "exactly one space",
		},
		{
			name: "space before colon", src: ".a {\n    color : red;\n}\n",
			want: 1, line: 2, column: 10, contains: "before ':'", fix: ":",
		},
		{
			name: "comma without space", src: ".a {\n    font-family: a,b;\n}\n",
			want: 1, line: 2, column: 19, contains: "','", fix: ", ",
		},
		{name: "comma then wrap", src: ".a {\n    font-family: a,\n        b;\n}\n"},
		{name: "comma in function", src: ".a {\n    color: rgba(0, 0, 0, 0.5);\n}\n"},
		{name: "pseudo class colon", src: "a:hover {\n    color: red;\n}\n"},
	})
}

func TestTrailingSemicolon(t *testing.T) {
	runCases(t, &trailingSemicolonRule{}, []ruleCase{
		{name: "present", src: ".a {\n    color: red;\n}\n"},
		{
			name: "missing", src: ".a {\n    color: red\n}\n",
			want: 1, line: 2, column: 15, contains: `"color"`, fix: ";",
		},
		{name: "compact exempt", src: ".a { color: #fff }\n"},
		{
			name: "only the last declaration", src: ".a {\n    margin: 0;\n    color: red\n}\n",
			want: 1, line: 3, column: 15,
		},
	})
}

func TestZeroUnit(t *testing.T) {
	runCases(t, &zeroUnitRule{}, []ruleCase{
		{
			name: "zero with unit", src: ".a {\n    margin: 0px 10px;\n}\n",
			want: 1, line: 2, column: 13, contains: `"0px"`, fix: "0",
		},
		{name: "bare zero", src: ".a {\n    margin: 0 10px;\n}\n"},
		{name: "non-zero", src: ".a {\n    margin: 10px 0.5em;\n}\n"},
		{
			name: "decimal zero", src: ".a {\n    padding: 0.0em;\n}\n",
			want: 1, line: 2, column: 14,
		},
		{name: "allow-listed property", src: ".a {\n    flex-basis: 0px;\n}\n"},
		{
			name: "custom allow-list", src: ".a {\n    margin: 0px;\n}\n",
			configure: func(o *Options) { o.ZeroUnitExceptions = []string{"margin"} },
		},
		{name: "inside string", src: ".a {\n    content: \"0px\";\n}\n"},
		{name: "hex digits", src: ".a {\n    color: #000;\n}\n"},
	})
}

func TestHexCaseAndShorthand(t *testing.T) {
	runCases(t, &hexColorRule{}, []ruleCase{
		{name: "lowercase short", src: ".a {\n    color: #abc;\n}\n"},
		{name: "lowercase long", src: ".a {\n    color: #abcdef;\n}\n"},
		{
			name: "uppercase", src: ".a {\n    color: #FFF;\n}\n",
			want: 1, line: 2, column: 12, contains: "lowercase", fix: "#fff",
		},
		{
			name: "shortenable", src: ".a {\n    color: #aabbcc;\n}\n",
			want: 1, line: 2, column: 12, contains: "shortened", fix: "#abc",
		},
		{
			name: "uppercase and shortenable", src: ".a {\n    color: #AABBCC;\n}\n",
			want: 1, line: 2, column: 12, contains: "lowercase and shortened", fix: "#abc",
		},
		{
			name: "in shorthand value", src: ".a {\n    border: 1px solid #FFF;\n}\n",
			want: 1, line: 2, column: 23,
		},
		{
			name: "invalid length", src: ".a {\n    color: #12;\n}\n",
			want: 1, line: 2, column: 12, contains: "Invalid hex color", severity: types.SeverityError,
		},
		{name: "id selector ignored", src: "#FFF {\n    color: red;\n}\n"},
		{name: "inside string", src: ".a {\n    content: \"#FFF\";\n}\n"},
	})
}

func TestQuoteConsistency(t *testing.T) {
	single := func(o *Options) { o.QuoteChar = QuoteSingle }
	runCases(t, &quoteConsistencyRule{}, []ruleCase{
		{name: "double", src: ".a {\n    content: \"x\";\n}\n"},
		{
			name: "single when double configured", src: ".a {\n    content: 'x';\n}\n",
			want: 1, line: 2, column: 14, contains: "Use double quotes", fix: `"x"`,
		},
		{
			name: "double when single configured", src: ".a {\n    content: \"x\";\n}\n", configure: single,
			want: 1, line: 2, column: 14, contains: "Use single quotes", fix: "'x'",
		},
		{name: "would need escaping", src: ".a {\n    content: 'say \"hi\"';\n}\n"},
		{
			name: "unquoted attribute value", src: "input[type=text] {\n    color: red;\n}\n",
			want: 1, line: 1, column: 12, contains: `"text"`, fix: `"text"`,
		},
		{name: "quoted attribute value", src: "input[type=\"text\"] {\n    color: red;\n}\n"},
		{
			name: "single quoted attribute value", src: "input[type='text'] {\n    color: red;\n}\n",
			want: 1, line: 1, column: 12,
		},
	})
}

func TestRuleSetSeparation(t *testing.T) {
	runCases(t, &ruleSetSeparationRule{}, []ruleCase{
		{name: "one blank line", src: ".a {\n    color: red;\n}\n\n.b {\n    color: red;\n}\n"},
		{
			name: "no blank line", src: ".a {\n    color: red;\n}\n.b {\n    color: red;\n}\n",
			want: 1, line: 4, column: 1, contains: "Expected a blank line",
		},
		{
			name: "two blank lines", src: ".a {\n    color: red;\n}\n\n\n.b {\n    color: red;\n}\n",
			want: 1, line: 6, column: 1, contains: "found 2",
		},
		{name: "adjacent compact rule sets", src: ".a { color: red; }\n.b { color: red; }\n"},
		{
			name: "compact after multi-line", src: ".a {\n    color: red;\n}\n.b { color: red; }\n",
			want: 1, line: 4, column: 1,
		},
		{
			name: "leading comment counts as start",
			src:  ".a {\n    color: red;\n}\n\n/* b */\n.b {\n    color: red;\n}\n",
		},
		{name: "nested rule sets not checked", src: ".a {\n    .b {\n        color: red;\n    }\n    .c {\n        color: red;\n    }\n}\n"},
	})
}

func TestNestingDepth(t *testing.T) {
	runCases(t, &nestingDepthRule{}, []ruleCase{
		{
			name: "three levels", src: ".a{.b{.c{.d{}}}}\n",
			want: 1, line: 1, column: 10, contains: "nested 3 levels deep (max 2)",
		},
		{name: "two levels", src: ".a{.b{.c{}}}\n"},
		{
			name: "custom maximum", src: ".a{.b{.c{}}}\n",
			configure: func(o *Options) { o.MaxNestingDepth = 1 },
			want:      1, line: 1, column: 7,
		},
		{
			name:      "long nested block",
			src:       ".a {\n    .b {\n        x: 1;\n        y: 2;\n    }\n}\n",
			configure: func(o *Options) { o.MaxNestedBlockLines = 2 },
			want:      1, line: 2, column: 8, contains: "spans 3 lines (max 2)",
		},
		{
			name:      "top-level block length not limited",
			src:       ".a {\n    x: 1;\n    y: 2;\n    z: 3;\n}\n",
			configure: func(o *Options) { o.MaxNestedBlockLines = 2 },
		},
		{
			name: "media query counts", src: ".a{@media print{.b{.c{}}}}\n",
			want: 1, line: 1, column: 20,
		},
	})
}

func TestAtRuleOrdering(t *testing.T) {
	runCases(t, &atRuleOrderingRule{}, []ruleCase{
		{name: "ordered", src: ".a {\n    @extend .b;\n    @include foo;\n    color: red;\n}\n"},
		{
			name: "include after property", src: ".a {\n    color: red;\n    @include foo;\n}\n",
			want: 1, line: 3, column: 5, contains: "@include should come before property declarations",
		},
		{
			name: "extend after include", src: ".a {\n    @include foo;\n    @extend .b;\n}\n",
			want: 1, line: 3, column: 5, contains: "@extend should come before @include",
		},
		{
			name: "first violation only", src: ".a {\n    color: red;\n    @include foo;\n    @extend .b;\n}\n",
			want: 1, line: 3, column: 5,
		},
		{name: "variables ignored", src: ".a {\n    $x: 1px;\n    @include foo;\n    color: red;\n}\n"},
	})
}

func TestTrailingWhitespace(t *testing.T) {
	runCases(t, &trailingWhitespaceRule{}, []ruleCase{
		{name: "clean", src: ".a {\n    color: red;\n}\n"},
		{
			name: "after brace", src: ".a {  \n    color: red;\n}\n",
			want: 1, line: 1, column: 5, contains: "Trailing whitespace",
		},
		{
			name: "at end of file", src: ".a {\n    color: red;\n} ",
			want: 1, line: 3, column: 2,
		},
	})
}

func TestFinalNewline(t *testing.T) {
	runCases(t, &finalNewlineRule{}, []ruleCase{
		{name: "single newline", src: ".a {}\n"},
		{name: "empty file", src: ""},
		{
			name: "missing", src: ".a {}",
			want: 1, line: 1, column: 6, contains: "should end with a newline", fix: "\n",
		},
		{
			name: "extra blank lines", src: ".a {}\n\n\n",
			want: 1, line: 2, column: 1, contains: "2 blank lines",
		},
	})
}

func TestSelectorNaming(t *testing.T) {
	runCases(t, &selectorNamingRule{}, []ruleCase{
		{name: "hyphenated", src: ".foo-bar {\n    color: red;\n}\n"},
		{
			name: "camel case class", src: ".fooBar {\n    color: red;\n}\n",
			want: 1, line: 1, column: 1, contains: `Class name "fooBar"`,
		},
		{
			name: "uppercase id", src: "a, #Main {\n    color: red;\n}\n",
			want: 1, line: 1, column: 4, contains: `Id name "Main"`,
		},
		{
			name:      "custom pattern",
			src:       ".block__elem {\n    color: red;\n}\n",
			configure: func(o *Options) { o.SelectorNamePattern = `^[a-z]+(__[a-z]+)?$` },
		},
		{name: "placeholder skipped", src: "%Base {\n    color: red;\n}\n"},
		{name: "element selector", src: "a:hover {\n    color: red;\n}\n"},
	})
}

func TestDefaultRegistry(t *testing.T) {
	reg := DefaultRegistry()
	ids := reg.IDs()
	assert.Len(t, ids, 14)
	assert.IsIncreasing(t, ids)

	for _, id := range ids {
		rule, ok := reg.Lookup(id)
		require.True(t, ok, id)
		assert.Equal(t, id, rule.ID())
		assert.NotEmpty(t, rule.Description())
		assert.Equal(t, types.SeverityWarning, rule.DefaultSeverity())
	}

	_, ok := reg.Lookup("no-such-rule")
	assert.False(t, ok)
}

func TestRegistrySelect(t *testing.T) {
	reg := DefaultRegistry()

	opts := DefaultOptions()
	assert.Len(t, reg.Select(&opts), 14)

	opts.DisabledRules = []string{ZeroUnitID}
	for _, r := range reg.Select(&opts) {
		assert.NotEqual(t, ZeroUnitID, r.ID())
	}

	opts = DefaultOptions()
	opts.EnabledRules = []string{HexCaseAndShorthandID, ZeroUnitID}
	selected := reg.Select(&opts)
	require.Len(t, selected, 2)
	// Registration order, not configuration order.
	assert.Equal(t, ZeroUnitID, selected[0].ID())
	assert.Equal(t, HexCaseAndShorthandID, selected[1].ID())
}

func TestRegistryAddReplaces(t *testing.T) {
	reg := NewRegistry(&zeroUnitRule{}, &hexColorRule{})
	reg.Add(&zeroUnitRule{})
	assert.Len(t, reg.Rules(), 2)
	assert.Equal(t, []string{HexCaseAndShorthandID, ZeroUnitID}, reg.IDs())
}

func TestCheckersDoNotMutateInput(t *testing.T) {
	src := ".a,.b{color:#FFF;margin:0px}\n.c {\n  @include x;\n}"
	opts := DefaultOptions()
	require.NoError(t, opts.Validate())
	toks := scanner.New([]byte(src), scanner.Options{SCSS: true}).All()
	doc, _, err := parser.Parse("x.scss", toks)
	require.NoError(t, err)

	before := len(toks)
	first := toks[0]
	for _, r := range DefaultRegistry().Rules() {
		r.Check(&Pass{File: "x.scss", Doc: doc, Tokens: toks, Opts: &opts})
	}
	assert.Len(t, toks, before)
	assert.Equal(t, first, toks[0])
}
