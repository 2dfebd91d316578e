// Package config loads csvagent settings from defaults, an optional YAML
// file, and CSVAGENT_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the effective configuration.
type Config struct {
	Provider    string  `mapstructure:"provider" yaml:"provider"`
	Model       string  `mapstructure:"model" yaml:"model"`
	MaxTokens   int     `mapstructure:"max_tokens" yaml:"max_tokens"`
	Temperature float64 `mapstructure:"temperature" yaml:"temperature"`
	OllamaHost  string  `mapstructure:"ollama_host" yaml:"ollama_host"`

	// Run bounds
	MaxIterations     int `mapstructure:"max_iterations" yaml:"max_iterations"`
	MaxConcurrentRuns int `mapstructure:"max_concurrent_runs" yaml:"max_concurrent_runs"`
	RunTimeoutSec     int `mapstructure:"run_timeout_sec" yaml:"run_timeout_sec"`
	// Advisory estimate ceiling for the history sent per call; 0 disables.
	TokenBudget int `mapstructure:"token_budget" yaml:"token_budget"`

	// Ingestion
	InputDir     string `mapstructure:"input_dir" yaml:"input_dir"`
	OutputFile   string `mapstructure:"output_file" yaml:"output_file"`
	SettleMs     int    `mapstructure:"settle_ms" yaml:"settle_ms"`
	TaskTemplate string `mapstructure:"task_template" yaml:"task_template"`
}

// RunTimeout is RunTimeoutSec as a duration.
func (c *Config) RunTimeout() time.Duration {
	return time.Duration(c.RunTimeoutSec) * time.Second
}

// Settle is SettleMs as a duration.
func (c *Config) Settle() time.Duration {
	return time.Duration(c.SettleMs) * time.Millisecond
}

// Validate rejects values no run could use.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Provider) {
	case "anthropic", "gemini", "openai", "ollama":
	default:
		return fmt.Errorf("invalid provider: %s (use anthropic, gemini, openai or ollama)", c.Provider)
	}
	if c.MaxIterations <= 0 {
		return fmt.Errorf("max_iterations must be positive, got %d", c.MaxIterations)
	}
	if c.MaxConcurrentRuns <= 0 {
		return fmt.Errorf("max_concurrent_runs must be positive, got %d", c.MaxConcurrentRuns)
	}
	if c.RunTimeoutSec <= 0 {
		return fmt.Errorf("run_timeout_sec must be positive, got %d", c.RunTimeoutSec)
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be positive, got %d", c.MaxTokens)
	}
	if c.OutputFile == "" {
		return fmt.Errorf("output_file must be set")
	}
	return nil
}

// DefaultPath is ~/.csvagent/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".csvagent", "config.yaml"), nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. A missing file is not an error.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("CSVAGENT")
	v.AutomaticEnv()

	v.SetDefault("provider", "anthropic")
	v.SetDefault("model", "")
	v.SetDefault("max_tokens", 1024)
	v.SetDefault("temperature", 0.7)
	v.SetDefault("ollama_host", "")
	v.SetDefault("max_iterations", 5)
	v.SetDefault("max_concurrent_runs", 2)
	v.SetDefault("run_timeout_sec", 3000)
	v.SetDefault("token_budget", 0)
	v.SetDefault("input_dir", ".")
	v.SetDefault("output_file", "agent_summary.csv")
	v.SetDefault("settle_ms", 500)
	v.SetDefault("task_template", "")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		path, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(filepath.Dir(path))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// optional read
		_ = v.ReadInConfig()
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// Save writes c as YAML to cfgFile, or to DefaultPath when cfgFile is empty,
// creating the directory if necessary.
func Save(c *Config, cfgFile string) error {
	path := cfgFile
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := Marshal(c)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Marshal renders c as YAML.
func Marshal(c *Config) ([]byte, error) {
	b, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal yaml: %w", err)
	}
	return b, nil
}
