package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/voxroute/voxroute/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Manage configuration",
	Long: `View or modify voxroute configuration.

Without arguments, displays current configuration.
With one argument (key), displays the value for that key.
With two arguments (key value), sets the configuration value.

Configuration is stored at ~/.config/voxroute/config.yaml
Project-specific overrides can be placed in .voxroute.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		switch len(args) {
		case 0:
			displayAllConfig(cfg)
		case 1:
			displayConfigKey(cfg, args[0])
		default:
			setConfigKey(cfg, args[0], args[1])
		}
	},
}

// displayAllConfig prints all configuration values.
func displayAllConfig(cfg *config.Config) {
	key, _ := config.GetAPIKey(cfg)

	fmt.Printf("anthropic.api_key: %s (source: %s)\n", config.MaskAPIKey(key), config.GetAPIKeySource(cfg))
	fmt.Printf("anthropic.model: %s\n", orDefault(cfg.Anthropic.Model, "(default)"))
	fmt.Printf("anthropic.max_tokens: %d\n", cfg.Anthropic.MaxTokens)
	fmt.Printf("anthropic.use_bedrock: %t\n", cfg.Anthropic.UseBedrock)
	fmt.Printf("engine.task_timeout: %s\n", cfg.Engine.TaskTimeout)
	fmt.Printf("engine.ceiling_timeout: %s\n", cfg.Engine.CeilingTimeout)
	fmt.Printf("engine.breaker_threshold: %d\n", cfg.Engine.BreakerThreshold)
	fmt.Printf("engine.breaker_reset_timeout: %s\n", cfg.Engine.BreakerResetTimeout)
	fmt.Printf("engine.max_concurrent: %d\n", cfg.Engine.MaxConcurrent)
	fmt.Printf("metrics.persist: %t\n", cfg.Metrics.Persist)
	fmt.Printf("metrics.db_path: %s\n", orDefault(cfg.Metrics.DBPath, "(default)"))
	fmt.Printf("workers.manifest: %s\n", orDefault(cfg.Workers.Manifest, "(none)"))
	fmt.Printf("workers.watch: %t\n", cfg.Workers.Watch)
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// displayConfigKey prints a single configuration value.
func displayConfigKey(cfg *config.Config, key string) {
	value, err := getConfigValue(cfg, key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(value)
}

// setConfigKey sets a configuration value and saves the config.
func setConfigKey(cfg *config.Config, key, value string) {
	if err := setConfigValue(cfg, key, value); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := config.Save(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Set %s = %s\n", key, value)
}

// getConfigValue retrieves a configuration value by dot-notation key.
func getConfigValue(cfg *config.Config, key string) (string, error) {
	switch strings.ToLower(key) {
	case "anthropic.api_key":
		if cfg.Anthropic.APIKey == "" {
			return "(not set)", nil
		}
		return config.MaskAPIKey(cfg.Anthropic.APIKey), nil
	case "anthropic.model":
		return cfg.Anthropic.Model, nil
	case "anthropic.max_tokens":
		return strconv.FormatInt(cfg.Anthropic.MaxTokens, 10), nil
	case "anthropic.use_bedrock":
		return strconv.FormatBool(cfg.Anthropic.UseBedrock), nil
	case "engine.task_timeout":
		return cfg.Engine.TaskTimeout.String(), nil
	case "engine.ceiling_timeout":
		return cfg.Engine.CeilingTimeout.String(), nil
	case "engine.breaker_threshold":
		return strconv.Itoa(cfg.Engine.BreakerThreshold), nil
	case "engine.breaker_reset_timeout":
		return cfg.Engine.BreakerResetTimeout.String(), nil
	case "engine.max_concurrent":
		return strconv.Itoa(cfg.Engine.MaxConcurrent), nil
	case "metrics.persist":
		return strconv.FormatBool(cfg.Metrics.Persist), nil
	case "metrics.db_path":
		return cfg.Metrics.DBPath, nil
	case "workers.manifest":
		return cfg.Workers.Manifest, nil
	case "workers.watch":
		return strconv.FormatBool(cfg.Workers.Watch), nil
	default:
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
}

// setConfigValue sets a configuration value by dot-notation key.
func setConfigValue(cfg *config.Config, key, value string) error {
	switch strings.ToLower(key) {
	case "anthropic.api_key":
		cfg.Anthropic.APIKey = value
	case "anthropic.model":
		cfg.Anthropic.Model = value
	case "anthropic.max_tokens":
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid value for max_tokens: %w", err)
		}
		cfg.Anthropic.MaxTokens = n
	case "anthropic.use_bedrock":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for use_bedrock: %w", err)
		}
		cfg.Anthropic.UseBedrock = b
	case "engine.task_timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration for task_timeout: %w", err)
		}
		cfg.Engine.TaskTimeout = d
	case "engine.ceiling_timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration for ceiling_timeout: %w", err)
		}
		cfg.Engine.CeilingTimeout = d
	case "engine.breaker_threshold":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for breaker_threshold: %w", err)
		}
		cfg.Engine.BreakerThreshold = n
	case "engine.breaker_reset_timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration for breaker_reset_timeout: %w", err)
		}
		cfg.Engine.BreakerResetTimeout = d
	case "engine.max_concurrent":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for max_concurrent: %w", err)
		}
		cfg.Engine.MaxConcurrent = n
	case "metrics.persist":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for metrics.persist: %w", err)
		}
		cfg.Metrics.Persist = b
	case "metrics.db_path":
		cfg.Metrics.DBPath = value
	case "workers.manifest":
		cfg.Workers.Manifest = value
	case "workers.watch":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for workers.watch: %w", err)
		}
		cfg.Workers.Watch = b
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}
