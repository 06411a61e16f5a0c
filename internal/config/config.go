// Package config provides configuration management.
package config

import (
	"encoding/json"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"tnved-tariffs/internal/errors"
	"tnved-tariffs/internal/logging"
)

// EnvPrefix prefixes environment overrides, e.g. TNVED_INGEST_WORKERS
const EnvPrefix = "TNVED"

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version" mapstructure:"version"`

	// Input describes the schedule to ingest
	Input InputConfig `json:"input" mapstructure:"input"`

	// Output describes where records are written
	Output OutputConfig `json:"output" mapstructure:"output"`

	// Ingest tunes format detection and classification
	Ingest IngestConfig `json:"ingest" mapstructure:"ingest"`

	// Vocabulary points at an optional marker override file
	Vocabulary VocabularyConfig `json:"vocabulary" mapstructure:"vocabulary"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging" mapstructure:"logging"`
}

// InputConfig contains input-related settings
type InputConfig struct {
	// Path is the schedule file
	Path string `json:"path" mapstructure:"path"`

	// Encoding is "auto" or a WHATWG encoding label
	Encoding string `json:"encoding" mapstructure:"encoding"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// Path is the JSON records file
	Path string `json:"path" mapstructure:"path"`

	// Preview is how many records the CLI echoes after a run
	Preview int `json:"preview" mapstructure:"preview"`
}

// IngestConfig contains reader and worker settings
type IngestConfig struct {
	// Workers bounds classification concurrency; 0 means GOMAXPROCS
	Workers int `json:"workers" mapstructure:"workers"`

	// Delimiters are tried in order by the delimited reader
	Delimiters []string `json:"delimiters" mapstructure:"delimiters"`

	// SampleRows is how many lines the fixed-width reader inspects
	SampleRows int `json:"sample_rows" mapstructure:"sample_rows"`
}

// VocabularyConfig locates the marker file
type VocabularyConfig struct {
	// Path is an HCL file; empty keeps the built-in markers
	Path string `json:"path" mapstructure:"path"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Input: InputConfig{
			Path:     "TWS_TNVED_2025-05-18.csv",
			Encoding: "auto",
		},
		Output: OutputConfig{
			Path:    "tnved_data.json",
			Preview: 5,
		},
		Ingest: IngestConfig{
			Workers:    0,
			Delimiters: []string{",", ";", "\t", "|"},
			SampleRows: 100,
		},
		Logging: logging.DefaultConfig(),
	}
}

// newViper registers every default so environment overrides are seen by Unmarshal
func newViper() *viper.Viper {
	v := viper.New()
	d := Default()

	v.SetDefault("version", d.Version)
	v.SetDefault("input.path", d.Input.Path)
	v.SetDefault("input.encoding", d.Input.Encoding)
	v.SetDefault("output.path", d.Output.Path)
	v.SetDefault("output.preview", d.Output.Preview)
	v.SetDefault("ingest.workers", d.Ingest.Workers)
	v.SetDefault("ingest.delimiters", d.Ingest.Delimiters)
	v.SetDefault("ingest.sample_rows", d.Ingest.SampleRows)
	v.SetDefault("vocabulary.path", d.Vocabulary.Path)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output", d.Logging.Output)
	v.SetDefault("logging.development", d.Logging.Development)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads configuration from path, or from ./tnved.{json,yaml,toml}
// and $HOME/.tnved when path is empty. A missing file yields the defaults
// with environment overrides applied.
func Load(path string) (*Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("tnved")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".tnved"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !stderrors.As(err, &notFound) && !stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Config("cannot read config", err).WithContext("path", path)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Config("invalid config", err).WithContext("path", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings no run could honour
func (c *Config) Validate() error {
	if c.Ingest.Workers < 0 {
		return errors.Newf(errors.TypeConfig, "ingest.workers must not be negative, got %d", c.Ingest.Workers)
	}
	if c.Ingest.SampleRows < 0 {
		return errors.Newf(errors.TypeConfig, "ingest.sample_rows must not be negative, got %d", c.Ingest.SampleRows)
	}
	if c.Output.Preview < 0 {
		return errors.Newf(errors.TypeConfig, "output.preview must not be negative, got %d", c.Output.Preview)
	}
	return nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Config("create config directory", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.Config("encode config", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Config("write config", err).WithContext("path", path)
	}
	return nil
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
