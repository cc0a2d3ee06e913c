package config

import (
	"bytes"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, DefaultParserTimeout, cfg.Parser.Timeout)
	assert.Equal(t, DefaultMaxSourceBytes, cfg.Parser.MaxSourceBytes)
	assert.Equal(t, DefaultConcurrency, cfg.Parser.Concurrency)
	assert.True(t, cfg.Parser.Incremental)
	assert.Equal(t, DefaultCacheSize, cfg.Parser.CacheSize)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, FormatSExp, cfg.Output.Format)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestNew_FromYAML(t *testing.T) {
	data := []byte(`
parser:
  timeout: 5s
  max_source_bytes: 1024
  concurrency: 8
  incremental: false
log:
  level: debug
  format: json
output:
  format: yaml
metrics:
  enabled: false
`)
	v := viper.New()
	SetDefaults(v)
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(bytes.NewReader(data)))

	cfg, err := New(v)
	require.NoError(t, err)

	assert.Equal(t, Config{
		Parser:  ParserConfig{Timeout: 5 * time.Second, MaxSourceBytes: 1024, Concurrency: 8, CacheSize: DefaultCacheSize},
		Log:     LogConfig{Level: "debug", Format: "json"},
		Output:  OutputConfig{Format: FormatYAML},
		Metrics: MetricsConfig{Enabled: false},
	}, *cfg)
}

func TestNew_PartialOverride(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("parser.concurrency", 2)

	cfg, err := New(v)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Parser.Concurrency)
	assert.Equal(t, DefaultParserTimeout, cfg.Parser.Timeout)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{
			name:    "negative timeout",
			mutate:  func(c *Config) { c.Parser.Timeout = -time.Second },
			wantErr: "parser.timeout",
		},
		{
			name:    "negative source limit",
			mutate:  func(c *Config) { c.Parser.MaxSourceBytes = -1 },
			wantErr: "parser.max_source_bytes",
		},
		{
			name:    "negative cache size",
			mutate:  func(c *Config) { c.Parser.CacheSize = -1 },
			wantErr: "parser.cache_size",
		},
		{
			name:    "zero concurrency",
			mutate:  func(c *Config) { c.Parser.Concurrency = 0 },
			wantErr: "parser.concurrency",
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.Log.Level = "trace" },
			wantErr: "log.level",
		},
		{
			name:   "log level is case insensitive",
			mutate: func(c *Config) { c.Log.Level = "INFO" },
		},
		{
			name:    "unknown log format",
			mutate:  func(c *Config) { c.Log.Format = "xml" },
			wantErr: "log.format",
		},
		{
			name:    "unknown output format",
			mutate:  func(c *Config) { c.Output.Format = "dot" },
			wantErr: "output.format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_YAMLRoundTrip(t *testing.T) {
	cfg := Default()
	out, err := yaml.Marshal(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(out), "max_source_bytes: 16777216")
	assert.Contains(t, string(out), "format: sexp")
}
