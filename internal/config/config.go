// Package config handles configuration loading and management for NORA.
// It supports XDG config paths, project-level overrides, and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for NORA.
type Config struct {
	Anthropic  AnthropicConfig  `mapstructure:"anthropic"`
	Supervisor SupervisorConfig `mapstructure:"supervisor"`
	Agents     AgentsConfig     `mapstructure:"agents"`
	Timeouts   TimeoutsConfig   `mapstructure:"timeouts"`
	Launcher   LauncherConfig   `mapstructure:"launcher"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	APIKey     string `mapstructure:"api_key"`
	Model      string `mapstructure:"model"`
	UseBedrock bool   `mapstructure:"use_bedrock"`
}

// SupervisorConfig holds settings for the supervisor service.
type SupervisorConfig struct {
	// Listen is the address the supervisor HTTP server binds to.
	Listen string `mapstructure:"listen"`
	// URL is the base URL clients use to reach the supervisor.
	URL string `mapstructure:"url"`
	// MaxCycles bounds delegate round-trips per incoming message.
	MaxCycles int `mapstructure:"max_cycles"`
	// DefaultDelegate is the tool name routed to when the model is unsure.
	DefaultDelegate string `mapstructure:"default_delegate"`
}

// AgentsConfig holds per-delegate service settings.
type AgentsConfig struct {
	Intersight ServiceConfig `mapstructure:"intersight"`
	Catalog    ServiceConfig `mapstructure:"catalog"`
	// RegistryFile optionally points at an agents.yaml overriding the
	// built-in delegate roster. Loaded once at startup.
	RegistryFile string `mapstructure:"registry_file"`
}

// ServiceConfig holds the network identity of a single agent service.
type ServiceConfig struct {
	Listen string `mapstructure:"listen"`
	URL    string `mapstructure:"url"`
}

// TimeoutsConfig holds per-call timeout settings.
type TimeoutsConfig struct {
	// Dispatch bounds a single delegate round-trip.
	Dispatch time.Duration `mapstructure:"dispatch"`
	// Completion bounds a single text-completion call.
	Completion time.Duration `mapstructure:"completion"`
	// Probe bounds a single health probe.
	Probe time.Duration `mapstructure:"probe"`
}

// LauncherConfig holds settings for the process launcher.
type LauncherConfig struct {
	// Stagger is the pause between starting consecutive services.
	Stagger time.Duration `mapstructure:"stagger"`
	// StopGrace is how long a child gets to exit after SIGTERM.
	StopGrace time.Duration `mapstructure:"stop_grace"`
}

// Load loads configuration from XDG paths, project overrides, and environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (ANTHROPIC_API_KEY, *_AGENT_URL)
// 2. Project config (.nora.yaml in current directory or parent)
// 3. User config (~/.config/nora/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

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

	// Map specific environment variables. The *_AGENT_URL names predate
	// this config layer and are kept for deployment compatibility.
	v.BindEnv("anthropic.api_key", "ANTHROPIC_API_KEY")
	v.BindEnv("agents.intersight.url", "CISCO_INTERSIGHT_AGENT_URL")
	v.BindEnv("agents.catalog.url", "SERVICE_CATALOG_AGENT_URL")
	v.BindEnv("supervisor.url", "SUPERVISOR_AGENT_URL")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Expand ${VAR} references
	cfg.Anthropic.APIKey = expandEnv(cfg.Anthropic.APIKey)

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

	cfg.Anthropic.APIKey = expandEnv(cfg.Anthropic.APIKey)

	return cfg, nil
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
	v.SetDefault("anthropic.use_bedrock", false)

	// Supervisor defaults
	v.SetDefault("supervisor.listen", ":8000")
	v.SetDefault("supervisor.url", "http://localhost:8000")
	v.SetDefault("supervisor.max_cycles", 5)
	v.SetDefault("supervisor.default_delegate", "cisco_intersight")

	// Delegate defaults
	v.SetDefault("agents.intersight.listen", ":8002")
	v.SetDefault("agents.intersight.url", "http://localhost:8002")
	v.SetDefault("agents.catalog.listen", ":8001")
	v.SetDefault("agents.catalog.url", "http://localhost:8001")
	v.SetDefault("agents.registry_file", "")

	// Timeout defaults
	v.SetDefault("timeouts.dispatch", "30s")
	v.SetDefault("timeouts.completion", "60s")
	v.SetDefault("timeouts.probe", "5s")

	// Launcher defaults
	v.SetDefault("launcher.stagger", "2s")
	v.SetDefault("launcher.stop_grace", "5s")
}

// getUserConfigDir returns the XDG config directory for NORA.
func getUserConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "nora")
	}

	// Fall back to ~/.config/nora
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "nora")
	}
	return filepath.Join(home, ".config", "nora")
}

// findProjectConfig searches for .nora.yaml in the current directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".nora.yaml")
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

// expandEnv expands ${VAR} references in a string.
func expandEnv(s string) string {
	return os.ExpandEnv(s)
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Anthropic: AnthropicConfig{},
		Supervisor: SupervisorConfig{
			Listen:          ":8000",
			URL:             "http://localhost:8000",
			MaxCycles:       5,
			DefaultDelegate: "cisco_intersight",
		},
		Agents: AgentsConfig{
			Intersight: ServiceConfig{Listen: ":8002", URL: "http://localhost:8002"},
			Catalog:    ServiceConfig{Listen: ":8001", URL: "http://localhost:8001"},
		},
		Timeouts: TimeoutsConfig{
			Dispatch:   30 * time.Second,
			Completion: 60 * time.Second,
			Probe:      5 * time.Second,
		},
		Launcher: LauncherConfig{
			Stagger:   2 * time.Second,
			StopGrace: 5 * time.Second,
		},
	}
}
