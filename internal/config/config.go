package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by OutputFormat.
const (
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
)

// MaxPrecision bounds the decimals rendered in Markdown reports.
const MaxPrecision = 12

// Global configuration structure.
type Global struct {
	// OutputFormat selects report rendering: markdown | json.
	OutputFormat string `mapstructure:"output_format" yaml:"output_format"`
	// Precision is the number of decimals in Markdown reports.
	Precision int `mapstructure:"precision" yaml:"precision"`
	// Normalise includes the per-patient normalised table in reports by default.
	Normalise bool `mapstructure:"normalise" yaml:"normalise"`
	// OutDir is where analyze-batch writes summaries; empty prints to stdout.
	OutDir string `mapstructure:"out_dir" yaml:"out_dir"`
}

// Validate checks values that the commands rely on.
func (c *Global) Validate() error {
	switch c.OutputFormat {
	case FormatMarkdown, FormatJSON:
	default:
		return fmt.Errorf("invalid output_format: %s (use markdown or json)", c.OutputFormat)
	}
	if c.Precision < 0 || c.Precision > MaxPrecision {
		return fmt.Errorf("invalid precision: %d (use 0-%d)", c.Precision, MaxPrecision)
	}
	return nil
}

// NormalizeFormat maps user spellings onto FormatMarkdown or FormatJSON.
func NormalizeFormat(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported format: %s (use markdown or json)", s)
	}
}

func defaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".inflammation", "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.inflammation/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		p, err := defaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. Command flags are applied by the caller.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("INFLAMMATION")
	v.AutomaticEnv()

	v.SetDefault("output_format", FormatMarkdown)
	v.SetDefault("precision", 3)
	v.SetDefault("normalise", false)
	v.SetDefault("out_dir", "")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		p, err := defaultPath()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(filepath.Dir(p))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// a missing default file is fine; an explicit --config must exist
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if f, err := NormalizeFormat(c.OutputFormat); err == nil {
		c.OutputFormat = f
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}
