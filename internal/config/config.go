package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the complete application configuration.
type Config struct {
	Parser  ParserConfig  `mapstructure:"parser"  yaml:"parser"`
	Log     LogConfig     `mapstructure:"log"     yaml:"log"`
	Output  OutputConfig  `mapstructure:"output"  yaml:"output"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
}

// ParserConfig holds parser engine configuration.
type ParserConfig struct {
	Timeout        time.Duration `mapstructure:"timeout"          yaml:"timeout"`          // Zero disables the bound
	MaxSourceBytes int           `mapstructure:"max_source_bytes" yaml:"max_source_bytes"` // Zero means no limit
	Concurrency    int           `mapstructure:"concurrency"      yaml:"concurrency"`      // Files parsed at once by batch commands
	Incremental    bool          `mapstructure:"incremental"      yaml:"incremental"`      // Reuse subtrees of a previous tree
	CacheSize      int           `mapstructure:"cache_size"       yaml:"cache_size"`       // Trees kept by content hash; zero disables the cache
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// OutputConfig holds the rendering defaults of the CLI.
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format"` // sexp, json, yaml
}

// MetricsConfig controls the metric instruments of the parse service.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}

// Output formats accepted by output.format.
const (
	FormatSExp = "sexp"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Default values.
const (
	DefaultParserTimeout  = 30 * time.Second
	DefaultMaxSourceBytes = 16 << 20
	DefaultConcurrency    = 4
	DefaultCacheSize      = 64
)

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("parser.timeout", DefaultParserTimeout)
	v.SetDefault("parser.max_source_bytes", DefaultMaxSourceBytes)
	v.SetDefault("parser.concurrency", DefaultConcurrency)
	v.SetDefault("parser.incremental", true)
	v.SetDefault("parser.cache_size", DefaultCacheSize)

	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")

	v.SetDefault("output.format", FormatSExp)

	v.SetDefault("metrics.enabled", true)
}

// New decodes and validates the configuration held by v.
func New(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &config, nil
}

// Default returns the configuration built from defaults alone.
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	config, err := New(v)
	if err != nil {
		panic(fmt.Errorf("default configuration is invalid: %w", err))
	}
	return config
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Parser.Timeout < 0 {
		return errors.New("parser.timeout must not be negative")
	}
	if c.Parser.MaxSourceBytes < 0 {
		return errors.New("parser.max_source_bytes must not be negative")
	}
	if c.Parser.CacheSize < 0 {
		return errors.New("parser.cache_size must not be negative")
	}
	if c.Parser.Concurrency < 1 {
		return errors.New("parser.concurrency must be at least 1")
	}
	if !slices.Contains([]string{"debug", "info", "warn", "error"}, strings.ToLower(c.Log.Level)) {
		return fmt.Errorf("log.level must be one of debug, info, warn, error: got %q", c.Log.Level)
	}
	if !slices.Contains([]string{"json", "text"}, c.Log.Format) {
		return fmt.Errorf("log.format must be json or text: got %q", c.Log.Format)
	}
	if err := ValidateOutputFormat(c.Output.Format); err != nil {
		return fmt.Errorf("output.format: %w", err)
	}
	return nil
}

// ValidateOutputFormat checks a tree output format name.
func ValidateOutputFormat(format string) error {
	switch format {
	case FormatSExp, FormatJSON, FormatYAML:
		return nil
	}
	return fmt.Errorf("unknown format %q, want %s, %s or %s", format, FormatSExp, FormatJSON, FormatYAML)
}
