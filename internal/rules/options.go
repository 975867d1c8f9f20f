package rules

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/dotcommander/csslint/internal/types"
)

// Indentation units.
const (
	IndentSpace = "space"
	IndentTab   = "tab"
)

// Quote characters.
const (
	QuoteSingle = "single"
	QuoteDouble = "double"
)

// DefaultSelectorNamePattern accepts lowercase, hyphen-delimited names.
const DefaultSelectorNamePattern = `^[a-z0-9]+(?:-[a-z0-9]+)*$`

var defaultNamePattern = regexp.MustCompile(DefaultSelectorNamePattern)

// InvalidConfigError reports a configuration value that cannot be used.
// It is raised once, before any document is linted.
type InvalidConfigError struct {
	Key    string
	Value  any
	Reason string
}

func (e *InvalidConfigError) Error() string {
	if e.Key == "" {
		return "invalid configuration: " + e.Reason
	}
	return fmt.Sprintf("invalid configuration: %s=%v: %s", e.Key, e.Value, e.Reason)
}

// Options configures the rule engine.
type Options struct {
	IndentUnit          string            `mapstructure:"indentUnit" json:"indentUnit" toml:"indentUnit" yaml:"indentUnit"`
	IndentWidth         int               `mapstructure:"indentWidth" json:"indentWidth" toml:"indentWidth" yaml:"indentWidth"`
	MaxNestingDepth     int               `mapstructure:"maxNestingDepth" json:"maxNestingDepth" toml:"maxNestingDepth" yaml:"maxNestingDepth"`
	MaxNestedBlockLines int               `mapstructure:"maxNestedBlockLines" json:"maxNestedBlockLines" toml:"maxNestedBlockLines" yaml:"maxNestedBlockLines"`
	QuoteChar           string            `mapstructure:"quoteChar" json:"quoteChar" toml:"quoteChar" yaml:"quoteChar"`
	ZeroUnitExceptions  []string          `mapstructure:"zeroUnitExceptions" json:"zeroUnitExceptions" toml:"zeroUnitExceptions" yaml:"zeroUnitExceptions"`
	EnabledRules        []string          `mapstructure:"enabledRules" json:"enabledRules,omitempty" toml:"enabledRules,omitempty" yaml:"enabledRules,omitempty"`
	DisabledRules       []string          `mapstructure:"disabledRules" json:"disabledRules,omitempty" toml:"disabledRules,omitempty" yaml:"disabledRules,omitempty"`
	SeverityOverrides   map[string]string `mapstructure:"severityOverrides" json:"severityOverrides,omitempty" toml:"severityOverrides,omitempty" yaml:"severityOverrides,omitempty"`
	SelectorNamePattern string            `mapstructure:"selectorNamePattern" json:"selectorNamePattern" toml:"selectorNamePattern" yaml:"selectorNamePattern"`

	namePattern *regexp.Regexp
}

// DefaultOptions returns the guide's recommended settings.
func DefaultOptions() Options {
	return Options{
		IndentUnit:          IndentSpace,
		IndentWidth:         4,
		MaxNestingDepth:     2,
		MaxNestedBlockLines: 20,
		QuoteChar:           QuoteDouble,
		ZeroUnitExceptions:  []string{"flex", "flex-basis"},
		SelectorNamePattern: DefaultSelectorNamePattern,
	}
}

// Validate checks every option and compiles the selector name pattern. It
// must run before the options are shared with checkers.
func (o *Options) Validate() error {
	if o.IndentUnit != IndentSpace && o.IndentUnit != IndentTab {
		return &InvalidConfigError{Key: "indentUnit", Value: o.IndentUnit, Reason: "must be 'space' or 'tab'"}
	}
	if o.IndentWidth <= 0 {
		return &InvalidConfigError{Key: "indentWidth", Value: o.IndentWidth, Reason: "must be a positive integer"}
	}
	if o.MaxNestingDepth <= 0 {
		return &InvalidConfigError{Key: "maxNestingDepth", Value: o.MaxNestingDepth, Reason: "must be a positive integer"}
	}
	if o.MaxNestedBlockLines <= 0 {
		return &InvalidConfigError{Key: "maxNestedBlockLines", Value: o.MaxNestedBlockLines, Reason: "must be a positive integer"}
	}
	if o.QuoteChar != QuoteSingle && o.QuoteChar != QuoteDouble {
		return &InvalidConfigError{Key: "quoteChar", Value: o.QuoteChar, Reason: "must be 'single' or 'double'"}
	}

	known := knownRuleIDs()
	for _, id := range o.EnabledRules {
		if !known[id] {
			return &InvalidConfigError{Key: "enabledRules", Value: id, Reason: "unknown rule"}
		}
	}
	for _, id := range o.DisabledRules {
		if !known[id] {
			return &InvalidConfigError{Key: "disabledRules", Value: id, Reason: "unknown rule"}
		}
	}
	for id, sev := range o.SeverityOverrides {
		if !known[id] {
			return &InvalidConfigError{Key: "severityOverrides", Value: id, Reason: "unknown rule"}
		}
		if _, err := types.ParseSeverity(sev); err != nil {
			return &InvalidConfigError{Key: "severityOverrides." + id, Value: sev, Reason: err.Error()}
		}
	}

	pattern := o.SelectorNamePattern
	if pattern == "" {
		pattern = DefaultSelectorNamePattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return &InvalidConfigError{Key: "selectorNamePattern", Value: pattern, Reason: err.Error()}
	}
	o.namePattern = re
	return nil
}

// Enabled reports whether the rule with the given ID should run.
func (o *Options) Enabled(id string) bool {
	if slices.Contains(o.DisabledRules, id) {
		return false
	}
	return len(o.EnabledRules) == 0 || slices.Contains(o.EnabledRules, id)
}

// Severity returns the configured override for a rule, if any.
func (o *Options) Severity(id string) (types.Severity, bool) {
	sev, ok := o.SeverityOverrides[id]
	if !ok {
		return "", false
	}
	return types.Severity(sev), true
}

// IndentString returns the indentation text for one level.
func (o *Options) IndentString(levels int) string {
	if levels <= 0 {
		return ""
	}
	return strings.Repeat(o.indentChar(), levels*o.IndentWidth)
}

func (o *Options) indentChar() string {
	if o.IndentUnit == IndentTab {
		return "\t"
	}
	return " "
}

// Quote returns the configured quote character.
func (o *Options) Quote() byte {
	if o.QuoteChar == QuoteSingle {
		return '\''
	}
	return '"'
}

// NamePattern returns the compiled selector name pattern.
func (o *Options) NamePattern() *regexp.Regexp {
	if o.namePattern == nil {
		return defaultNamePattern
	}
	return o.namePattern
}

// zeroUnitAllowed reports whether a property may keep a unit on zero.
func (o *Options) zeroUnitAllowed(property string) bool {
	property = strings.ToLower(property)
	for _, p := range o.ZeroUnitExceptions {
		if strings.ToLower(p) == property {
			return true
		}
	}
	return false
}

func knownRuleIDs() map[string]bool {
	known := map[string]bool{
		types.RuleSyntax:          true,
		types.RuleParseIncomplete: true,
	}
	for _, id := range DefaultRegistry().IDs() {
		known[id] = true
	}
	return known
}
