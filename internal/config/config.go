// Package config loads csslint settings from defaults, .csslintrc files and
// CSSLINT_* environment variables.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/dotcommander/csslint/internal/cue"
	"github.com/dotcommander/csslint/internal/rules"
)

// ConfigFiles lists the config file names searched, in order.
var ConfigFiles = []string{".csslintrc.json", ".csslintrc.yaml", ".csslintrc.yml", ".csslintrc.toml"}

// DefaultInclude holds the default discovery patterns.
var DefaultInclude = []string{"**/*.css", "**/*.scss"}

// Config represents the csslint configuration
type Config struct {
	Root        string   `mapstructure:"root" json:"root,omitempty" toml:"root,omitempty" yaml:"root,omitempty"`
	Include     []string `mapstructure:"include" json:"include,omitempty" toml:"include,omitempty" yaml:"include,omitempty"`
	Exclude     []string `mapstructure:"exclude" json:"exclude,omitempty" toml:"exclude,omitempty" yaml:"exclude,omitempty"`
	Format      string   `mapstructure:"format" json:"format" toml:"format" yaml:"format"`
	Output      string   `mapstructure:"output" json:"output,omitempty" toml:"output,omitempty" yaml:"output,omitempty"`
	FailOn      string   `mapstructure:"failOn" json:"failOn" toml:"failOn" yaml:"failOn"`
	Quiet       bool     `mapstructure:"quiet" json:"quiet,omitempty" toml:"quiet,omitempty" yaml:"quiet,omitempty"`
	Verbose     bool     `mapstructure:"verbose" json:"verbose,omitempty" toml:"verbose,omitempty" yaml:"verbose,omitempty"`
	Concurrency int      `mapstructure:"concurrency" json:"concurrency" toml:"concurrency" yaml:"concurrency"`

	FollowSymlinks bool `mapstructure:"followSymlinks" json:"followSymlinks,omitempty" toml:"followSymlinks,omitempty" yaml:"followSymlinks,omitempty"`

	rules.Options `mapstructure:",squash" yaml:",inline"`

	// ConfigFile is the file the settings were read from, if any.
	ConfigFile string `mapstructure:"-" json:"-" toml:"-" yaml:"-"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		Root:        ".",
		Include:     append([]string{}, DefaultInclude...),
		Format:      "console",
		FailOn:      "error",
		Concurrency: 8,
		Options:     rules.DefaultOptions(),
	}
}

func setDefaults() {
	def := DefaultConfig()
	viper.SetDefault("root", def.Root)
	viper.SetDefault("include", def.Include)
	viper.SetDefault("exclude", []string{})
	viper.SetDefault("format", def.Format)
	viper.SetDefault("output", "")
	viper.SetDefault("failOn", def.FailOn)
	viper.SetDefault("quiet", false)
	viper.SetDefault("verbose", false)
	viper.SetDefault("concurrency", def.Concurrency)
	viper.SetDefault("followSymlinks", false)

	viper.SetDefault("indentUnit", def.IndentUnit)
	viper.SetDefault("indentWidth", def.IndentWidth)
	viper.SetDefault("maxNestingDepth", def.MaxNestingDepth)
	viper.SetDefault("maxNestedBlockLines", def.MaxNestedBlockLines)
	viper.SetDefault("quoteChar", def.QuoteChar)
	viper.SetDefault("zeroUnitExceptions", def.ZeroUnitExceptions)
	viper.SetDefault("enabledRules", []string{})
	viper.SetDefault("disabledRules", []string{})
	viper.SetDefault("severityOverrides", map[string]string{})
	viper.SetDefault("selectorNamePattern", def.SelectorNamePattern)
}

// LoadConfig loads configuration from various sources. Config files are
// looked up in rootPath, or in the working directory when rootPath is empty.
func LoadConfig(rootPath string) (*Config, error) {
	setDefaults()

	dir := rootPath
	if dir == "" {
		dir = "."
	}
	configFile := ""
	for _, name := range ConfigFiles {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := readConfigFile(path); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
		configFile = path
		break
	}

	viper.SetEnvPrefix("CSSLINT")
	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	config.ConfigFile = configFile

	if rootPath != "" {
		config.Root = rootPath
	}

	if err := validateSchema(&config); err != nil {
		return nil, err
	}
	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// readConfigFile loads path into viper. JSON config files may carry
// comments and trailing commas.
func readConfigFile(path string) error {
	if !strings.EqualFold(filepath.Ext(path), ".json") {
		viper.SetConfigFile(path)
		return viper.ReadInConfig()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	viper.SetConfigType("json")
	return viper.ReadConfig(bytes.NewReader(jsonc.ToJSON(data)))
}

// validateSchema checks the decoded settings against the embedded CUE schema.
func validateSchema(config *Config) error {
	data, err := toMap(config)
	if err != nil {
		return err
	}

	v := cue.NewValidator()
	if err := v.LoadSchemas(); err != nil {
		return fmt.Errorf("error loading config schema: %w", err)
	}
	errs, err := v.ValidateConfig(data)
	if err != nil {
		return fmt.Errorf("error validating config: %w", err)
	}
	if len(errs) > 0 {
		first := errs[0]
		return &rules.InvalidConfigError{Key: first.Path, Value: lookup(data, first.Path), Reason: first.Message}
	}
	return nil
}

// toMap converts the config to the generic form the schema validates,
// dropping unset values.
func toMap(config *Config) (map[string]any, error) {
	raw, err := json.Marshal(config)
	if err != nil {
		return nil, fmt.Errorf("error encoding config: %w", err)
	}
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("error encoding config: %w", err)
	}
	for k, v := range data {
		if v == nil {
			delete(data, k)
		}
	}
	return data, nil
}

func lookup(data map[string]any, path string) any {
	var cur any = data
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = m[part]
	}
	return cur
}

// validateConfig validates the configuration
func validateConfig(config *Config) error {
	switch config.Format {
	case "console", "compact", "json", "markdown":
	default:
		return &rules.InvalidConfigError{Key: "format", Value: config.Format, Reason: "must be 'console', 'compact', 'json', or 'markdown'"}
	}

	if config.FailOn != "error" && config.FailOn != "warning" {
		return &rules.InvalidConfigError{Key: "failOn", Value: config.FailOn, Reason: "must be 'error' or 'warning'"}
	}

	if config.Concurrency < 1 {
		return &rules.InvalidConfigError{Key: "concurrency", Value: config.Concurrency, Reason: "must be at least 1"}
	}

	if len(config.Include) == 0 {
		config.Include = append([]string{}, DefaultInclude...)
	}

	return config.Options.Validate()
}

// SaveConfig writes the configuration to path as YAML, JSON or TOML, chosen
// by the file extension.
func SaveConfig(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(config)
	case ".json":
		data, err = json.MarshalIndent(config, "", "  ")
	case ".toml":
		var buf bytes.Buffer
		err = toml.NewEncoder(&buf).Encode(config)
		data = buf.Bytes()
	default:
		return errors.New("unsupported config file extension: " + filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}
