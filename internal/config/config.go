// Package config handles configuration loading and management for
// voxroute. It supports XDG config paths, project-level overrides, and
// environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for voxroute.
type Config struct {
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
	Engine    EngineConfig    `mapstructure:"engine"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Workers   WorkersConfig   `mapstructure:"workers"`
}

// AnthropicConfig holds Anthropic API settings for the reasoning oracle
// and the generation worker.
type AnthropicConfig struct {
	APIKey     string `mapstructure:"api_key"`
	Model      string `mapstructure:"model"`
	MaxTokens  int64  `mapstructure:"max_tokens"`
	UseBedrock bool   `mapstructure:"use_bedrock"`
	AWSRegion  string `mapstructure:"aws_region"`
	AWSProfile string `mapstructure:"aws_profile"`
}

// EngineConfig holds orchestration and resilience settings.
type EngineConfig struct {
	// TaskTimeout bounds each worker invocation.
	TaskTimeout time.Duration `mapstructure:"task_timeout"`
	// CeilingTimeout bounds a whole task from submission to terminal state.
	CeilingTimeout time.Duration `mapstructure:"ceiling_timeout"`
	// BreakerThreshold is the consecutive-failure count that opens a
	// worker's circuit breaker.
	BreakerThreshold int `mapstructure:"breaker_threshold"`
	// BreakerResetTimeout is the cooldown before an open breaker probes.
	BreakerResetTimeout time.Duration `mapstructure:"breaker_reset_timeout"`
	// MaxConcurrent bounds concurrently executing tasks. 0 means unbounded.
	MaxConcurrent int `mapstructure:"max_concurrent"`
}

// MetricsConfig holds metrics persistence settings.
type MetricsConfig struct {
	// Persist enables the SQLite-backed metrics store.
	Persist bool `mapstructure:"persist"`
	// DBPath overrides the default database location.
	DBPath string `mapstructure:"db_path"`
}

// WorkersConfig holds worker registration settings.
type WorkersConfig struct {
	// Manifest is the path to a YAML worker manifest. Empty disables
	// manifest loading; built-in workers are always registered.
	Manifest string `mapstructure:"manifest"`
	// Watch enables live re-registration when the manifest changes.
	Watch bool `mapstructure:"watch"`
}

// Load loads configuration from XDG paths, project overrides, and environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (ANTHROPIC_API_KEY)
// 2. Project config (.voxroute.yaml in current directory or parent)
// 3. User config (~/.config/voxroute/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Load user config from XDG path
	userConfigDir := getUserConfigDir()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	// Load project config if present
	projectConfig := findProjectConfig()
	if projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			// Merge project config (takes precedence)
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	// Environment variable overrides
	v.AutomaticEnv()
	v.SetEnvPrefix("")

	// Map specific environment variables
	v.BindEnv("anthropic.api_key", "ANTHROPIC_API_KEY")
	v.BindEnv("anthropic.aws_region", "AWS_REGION")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Expand ${VAR} references
	cfg.Anthropic.APIKey = os.ExpandEnv(cfg.Anthropic.APIKey)

	return cfg, nil
}

// LoadFromPath loads configuration from a specific path (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Anthropic.APIKey = os.ExpandEnv(cfg.Anthropic.APIKey)

	return cfg, nil
}

// Save writes the current configuration to the user config file.
func Save(cfg *Config) error {
	userConfigDir := getUserConfigDir()
	if err := os.MkdirAll(userConfigDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	configPath := filepath.Join(userConfigDir, "config.yaml")

	v := viper.New()
	v.SetConfigFile(configPath)

	v.Set("anthropic.api_key", cfg.Anthropic.APIKey)
	v.Set("anthropic.model", cfg.Anthropic.Model)
	v.Set("anthropic.max_tokens", cfg.Anthropic.MaxTokens)
	v.Set("anthropic.use_bedrock", cfg.Anthropic.UseBedrock)
	v.Set("anthropic.aws_region", cfg.Anthropic.AWSRegion)
	v.Set("anthropic.aws_profile", cfg.Anthropic.AWSProfile)
	v.Set("engine.task_timeout", cfg.Engine.TaskTimeout.String())
	v.Set("engine.ceiling_timeout", cfg.Engine.CeilingTimeout.String())
	v.Set("engine.breaker_threshold", cfg.Engine.BreakerThreshold)
	v.Set("engine.breaker_reset_timeout", cfg.Engine.BreakerResetTimeout.String())
	v.Set("engine.max_concurrent", cfg.Engine.MaxConcurrent)
	v.Set("metrics.persist", cfg.Metrics.Persist)
	v.Set("metrics.db_path", cfg.Metrics.DBPath)
	v.Set("workers.manifest", cfg.Workers.Manifest)
	v.Set("workers.watch", cfg.Workers.Watch)

	return v.WriteConfig()
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the path to the project config file if it exists.
func GetProjectConfigPath() string {
	return findProjectConfig()
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	// Anthropic defaults
	v.SetDefault("anthropic.api_key", "")
	v.SetDefault("anthropic.model", "")
	v.SetDefault("anthropic.max_tokens", 512)
	v.SetDefault("anthropic.use_bedrock", false)

	// Engine defaults
	v.SetDefault("engine.task_timeout", "30s")
	v.SetDefault("engine.ceiling_timeout", "2m")
	v.SetDefault("engine.breaker_threshold", 3)
	v.SetDefault("engine.breaker_reset_timeout", "30s")
	v.SetDefault("engine.max_concurrent", 0)

	// Metrics defaults
	v.SetDefault("metrics.persist", true)
	v.SetDefault("metrics.db_path", "")

	// Worker defaults
	v.SetDefault("workers.manifest", "")
	v.SetDefault("workers.watch", false)
}

// getUserConfigDir returns the XDG config directory for voxroute.
func getUserConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "voxroute")
	}

	// Fall back to ~/.config/voxroute
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "voxroute")
	}
	return filepath.Join(home, ".config", "voxroute")
}

// findProjectConfig searches for .voxroute.yaml in the current directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".voxroute.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Anthropic: AnthropicConfig{
			MaxTokens: 512,
		},
		Engine: EngineConfig{
			TaskTimeout:         30 * time.Second,
			CeilingTimeout:      2 * time.Minute,
			BreakerThreshold:    3,
			BreakerResetTimeout: 30 * time.Second,
			MaxConcurrent:       0,
		},
		Metrics: MetricsConfig{
			Persist: true,
		},
	}
}
