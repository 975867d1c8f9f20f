package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dotcommander/csslint/internal/baseline"
	"github.com/dotcommander/csslint/internal/config"
	"github.com/dotcommander/csslint/internal/lint"
	"github.com/dotcommander/csslint/internal/output"
	"github.com/dotcommander/csslint/internal/project"
)

var (
	rootPath       string
	quiet          bool
	verbose        bool
	outputFormat   string
	outputFile     string
	failOn         string
	jobs           int
	followSymlinks bool

	staged         bool
	changed        bool
	useBaseline    bool
	createBaseline bool
	baselinePath   string
)

// exitFunc is swapped out in tests.
var exitFunc = os.Exit

var rootCmd = &cobra.Command{
	Use:   "csslint [paths...]",
	Short: "CSSLint - A style conformance linter for CSS and SCSS",
	Long: `CSSLint checks CSS and SCSS files against a configurable style guide:
indentation, spacing, selector naming, nesting depth, hex colors, quotes
and more.

By default, csslint discovers every .css and .scss file under the project
root. Pass files or directories to lint only those, or use --staged and
--changed to lint what git reports.`,
	Args:    cobra.ArbitraryArgs,
	Version: output.Version,
	Run: func(cmd *cobra.Command, args []string) {
		code, err := runLint(cmd, args)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			exitFunc(1)
			return
		}
		if code != 0 {
			exitFunc(code)
		}
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		exitFunc(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&rootPath, "root", "r", "", "Project root directory (auto-detected if not specified)")
	flags.BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	flags.StringVarP(&outputFormat, "format", "f", "console", "Output format for reports (console|compact|json|markdown)")
	flags.StringVarP(&outputFile, "output", "o", "", "Output file for reports (json and markdown only)")
	flags.StringVar(&failOn, "fail-on", "error", "Fail on the specified level (error|warning)")
	flags.IntVarP(&jobs, "jobs", "j", 8, "Number of files linted in parallel")
	flags.BoolVar(&followSymlinks, "follow-symlinks", false, "Follow symbolic links during discovery")

	rootCmd.Flags().BoolVar(&staged, "staged", false, "Lint only files staged in git")
	rootCmd.Flags().BoolVar(&changed, "changed", false, "Lint only files changed in the git working tree")
	rootCmd.Flags().BoolVar(&useBaseline, "baseline", false, "Ignore findings recorded in the baseline file")
	rootCmd.Flags().BoolVar(&createBaseline, "baseline-create", false, "Record current findings as the baseline")
	rootCmd.Flags().StringVar(&baselinePath, "baseline-path", baseline.DefaultFile, "Baseline file path (relative to the project root)")
	rootCmd.MarkFlagsMutuallyExclusive("staged", "changed")

	bindFlags()
}

// bindFlags maps the persistent flags onto config keys so that an explicit
// flag beats the config file, which beats the defaults.
func bindFlags() {
	flags := rootCmd.PersistentFlags()
	_ = viper.BindPFlag("quiet", flags.Lookup("quiet"))
	_ = viper.BindPFlag("verbose", flags.Lookup("verbose"))
	_ = viper.BindPFlag("format", flags.Lookup("format"))
	_ = viper.BindPFlag("output", flags.Lookup("output"))
	_ = viper.BindPFlag("failOn", flags.Lookup("fail-on"))
	_ = viper.BindPFlag("concurrency", flags.Lookup("jobs"))
	_ = viper.BindPFlag("followSymlinks", flags.Lookup("follow-symlinks"))
}

// resolveRoot returns the --root flag, or the detected project root of the
// working directory.
func resolveRoot() (string, error) {
	if rootPath != "" {
		return rootPath, nil
	}
	root, err := project.FindProjectRoot(".")
	if err != nil {
		return "", fmt.Errorf("error detecting project root: %w", err)
	}
	return root, nil
}

func runLint(cmd *cobra.Command, args []string) (int, error) {
	root, err := resolveRoot()
	if err != nil {
		return 1, err
	}

	cfg, err := config.LoadConfig(root)
	if err != nil {
		return 1, fmt.Errorf("error loading configuration: %w", err)
	}
	if cfg.Verbose {
		logProject(root)
	}

	orch, err := lint.NewOrchestrator(cfg, lint.OrchestratorConfig{
		Paths:          args,
		Staged:         staged,
		Changed:        changed,
		UseBaseline:    useBaseline,
		CreateBaseline: createBaseline,
		BaselinePath:   baselinePath,
	})
	if err != nil {
		return 1, err
	}
	orch.WithOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, err := orch.Run(ctx)
	if err != nil {
		return 1, err
	}
	if result.HasErrors {
		return 1, nil
	}
	return 0, nil
}

// logProject reports what was detected at the project root.
func logProject(root string) {
	info, err := project.Detect(root)
	if err != nil {
		log.Printf("Project detection failed: %v", err)
		return
	}
	log.Printf("Project root: %s (type: %s, git: %t)", info.Root, info.Type, info.HasGit)
	if len(info.FilesFound) > 0 {
		log.Printf("Root markers: %s", strings.Join(info.FilesFound, ", "))
	}
	if info.HasConfig() {
		log.Printf("Using config file: %s", info.ConfigFile)
	} else {
		log.Printf("No config file found, using defaults")
	}
}
