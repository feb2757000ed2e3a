// Package config loads drillbook settings. Sources, lowest priority first:
// built-in defaults, config.yaml, DRILLBOOK_* environment variables and
// command-line flags bound by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/abhisek/drillbook/internal/bank"
	"github.com/abhisek/drillbook/internal/llm"
)

// EnvPrefix prefixes every environment override, e.g. DRILLBOOK_CSV_ENCODING.
const EnvPrefix = "DRILLBOOK"

// Config holds all application configuration.
type Config struct {
	// DB is the SQLite file. Empty means the default data path.
	DB string `mapstructure:"db" yaml:"db"`

	// Log is a file receiving log output. Empty discards it.
	Log string `mapstructure:"log" yaml:"log"`

	CSV CSVConfig `mapstructure:"csv" yaml:"csv"`
	LLM LLMConfig `mapstructure:"llm" yaml:"llm"`
}

// CSVConfig controls import and export files.
type CSVConfig struct {
	Encoding            string `mapstructure:"encoding" yaml:"encoding"`
	ExportFile          string `mapstructure:"export_file" yaml:"export_file"`
	NormalizeWhitespace bool   `mapstructure:"normalize_whitespace" yaml:"normalize_whitespace"`
}

// LLMConfig selects the provider behind AI explanations. Everything may be
// left empty; a conventional API key variable then picks the provider.
type LLMConfig struct {
	Provider string        `mapstructure:"provider" yaml:"provider"`
	Model    string        `mapstructure:"model" yaml:"model"`
	APIKey   string        `mapstructure:"api_key" yaml:"api_key"`
	BaseURL  string        `mapstructure:"base_url" yaml:"base_url"`
	Timeout  time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// New returns a viper instance carrying the defaults and environment
// bindings. Callers bind flags to it before calling Load.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault("db", "")
	v.SetDefault("log", "")
	v.SetDefault("csv.encoding", bank.DefaultEncoding)
	v.SetDefault("csv.export_file", "output.csv")
	v.SetDefault("csv.normalize_whitespace", false)
	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.timeout", llm.DefaultTimeout.String())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads file, or config.yaml from the default directory when file is
// empty, and decodes the merged settings. A missing default file is fine;
// a missing explicit file is an error.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir, err := DefaultDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if _, err := bank.Lookup(cfg.CSV.Encoding); err != nil {
		return nil, fmt.Errorf("csv.encoding: %w", err)
	}
	return &cfg, nil
}

// DefaultDir resolves the config directory:
// 1. $XDG_CONFIG_HOME/drillbook
// 2. ~/.config/drillbook
func DefaultDir() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "drillbook"), nil
}

// CSVOptions returns the import/export settings.
func (c *Config) CSVOptions() bank.Options {
	return bank.Options{
		Encoding:  c.CSV.Encoding,
		Normalize: c.CSV.NormalizeWhitespace,
	}
}

// LLMConfig returns the provider settings, not yet resolved against the
// environment.
func (c *Config) LLMConfig() llm.Config {
	return llm.Config{
		Provider: c.LLM.Provider,
		Model:    c.LLM.Model,
		APIKey:   c.LLM.APIKey,
		BaseURL:  c.LLM.BaseURL,
		Timeout:  c.LLM.Timeout,
	}
}

// Redacted returns a copy safe to print.
func (c *Config) Redacted() Config {
	out := *c
	if out.LLM.APIKey != "" {
		out.LLM.APIKey = "<redacted>"
	}
	return out
}
