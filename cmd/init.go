package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dotcommander/csslint/internal/config"
)

var (
	initType  string
	initForce bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long: `The init command writes a .csslintrc.yaml file holding the default
settings to the project root, ready to be edited.

Use --type json or --type toml to write .csslintrc.json or .csslintrc.toml
instead. An existing config file is left untouched unless --force is given.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		path, err := runInit()
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			exitFunc(1)
			return
		}
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
		}
	},
}

func init() {
	initCmd.Flags().StringVar(&initType, "type", "yaml", "Config file type (yaml|json|toml)")
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}

func runInit() (string, error) {
	root := rootPath
	if root == "" {
		root = "."
	}

	switch initType {
	case "yaml", "json", "toml":
	default:
		return "", fmt.Errorf("unsupported config type: %s", initType)
	}
	path := filepath.Join(root, ".csslintrc."+initType)

	if !initForce {
		for _, existing := range config.ConfigFiles {
			p := filepath.Join(root, existing)
			if _, err := os.Stat(p); err == nil {
				return "", fmt.Errorf("config file already exists: %s (use --force to overwrite)", p)
			}
		}
	}

	cfg := config.DefaultConfig()
	// The file lives in the root, so the root itself is implied.
	cfg.Root = ""
	if err := config.SaveConfig(cfg, path); err != nil {
		return "", err
	}
	return path, nil
}
