package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/dotcommander/csslint/internal/config"
	"github.com/dotcommander/csslint/internal/output"
	"github.com/dotcommander/csslint/internal/rules"
	"github.com/dotcommander/csslint/internal/types"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the available rules",
	Long: `The rules command lists every rule csslint can report, with the severity
it reports at under the current configuration.

Rules turned off by enabledRules or disabledRules are marked as disabled.
Severities changed by severityOverrides are shown with their new level.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runRules(cmd.OutOrStdout()); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			exitFunc(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}

type ruleRow struct {
	id          string
	severity    types.Severity
	description string
	enabled     bool
}

// structuralRules are reported by the engine itself rather than a checker.
var structuralRules = []ruleRow{
	{types.RuleSyntax, types.SeverityError, "Source must scan and parse cleanly", true},
	{types.RuleParseIncomplete, types.SeverityError, "Checks ran on a partially recovered document", true},
}

func runRules(w io.Writer) error {
	root, err := resolveRoot()
	if err != nil {
		return err
	}
	cfg, err := config.LoadConfig(root)
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}

	rows := ruleRows(&cfg.Options, rules.DefaultRegistry())
	printRules(w, rows, output.IsTerminal(w))
	return nil
}

func ruleRows(opts *rules.Options, reg *rules.Registry) []ruleRow {
	rows := make([]ruleRow, 0, len(structuralRules)+len(reg.Rules()))
	for _, row := range structuralRules {
		row.enabled = opts.Enabled(row.id)
		if sev, ok := opts.Severity(row.id); ok {
			row.severity = sev
		}
		rows = append(rows, row)
	}
	for _, id := range reg.IDs() {
		rule, _ := reg.Lookup(id)
		row := ruleRow{
			id:          id,
			severity:    rule.DefaultSeverity(),
			description: rule.Description(),
			enabled:     opts.Enabled(id),
		}
		if sev, ok := opts.Severity(id); ok {
			row.severity = sev
		}
		rows = append(rows, row)
	}
	return rows
}

func printRules(w io.Writer, rows []ruleRow, colorize bool) {
	idStyle := lipgloss.NewStyle().Bold(true)
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	warnStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	paint := func(s lipgloss.Style, text string) string {
		if !colorize {
			return text
		}
		return s.Render(text)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, row := range rows {
		sev := string(row.severity)
		if row.severity == types.SeverityError {
			sev = paint(errStyle, sev)
		} else {
			sev = paint(warnStyle, sev)
		}
		desc := row.description
		if !row.enabled {
			desc = paint(dimStyle, desc+" (disabled)")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", paint(idStyle, row.id), sev, desc)
	}
	_ = tw.Flush()
}
