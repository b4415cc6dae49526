package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables that override config
// keys, e.g. BRIDGEHOST_LOGGING_LEVEL.
const EnvPrefix = "BRIDGEHOST"

// Config represents the complete bridgehost configuration
type Config struct {
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging"`
	Dispatch DispatchConfig `mapstructure:"dispatch" yaml:"dispatch"`
	Simulate SimulateConfig `mapstructure:"simulate" yaml:"simulate"`
	TUI      TUIConfig      `mapstructure:"tui" yaml:"tui"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled controls whether debug logging is written to a file (default: true)
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level" yaml:"level"`
	// Dir is the directory holding debug.log; empty means the config directory
	Dir string `mapstructure:"dir" yaml:"dir"`
	// MaxSizeMB is the maximum log file size in megabytes before rotation (default: 10)
	MaxSizeMB int `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	// MaxBackups is the number of backup log files to keep (default: 3)
	MaxBackups int `mapstructure:"max_backups" yaml:"max_backups"`
	// Compress gzips rotated log files (default: false)
	Compress bool `mapstructure:"compress" yaml:"compress"`
}

// DispatchConfig controls the UI notification queue
type DispatchConfig struct {
	// CoalesceInvalidate merges back-to-back menu invalidations (default: true)
	CoalesceInvalidate bool `mapstructure:"coalesce_invalidate" yaml:"coalesce_invalidate"`
}

// SimulateConfig controls the built-in session simulator
type SimulateConfig struct {
	// Bridges is the number of sessions connected at start (default: 3)
	Bridges int `mapstructure:"bridges" yaml:"bridges"`
	// IntervalMs is the time between simulated connection changes (default: 2000)
	IntervalMs int `mapstructure:"interval_ms" yaml:"interval_ms"`
	// Seed makes runs reproducible; 0 picks a time-based seed
	Seed int64 `mapstructure:"seed" yaml:"seed"`
	// Cols and Rows are the initial session geometry (default: 80x24)
	Cols int `mapstructure:"cols" yaml:"cols"`
	Rows int `mapstructure:"rows" yaml:"rows"`
	// PromptTimeoutMs bounds how long a session waits for the UI to answer (default: 10000)
	PromptTimeoutMs int `mapstructure:"prompt_timeout_ms" yaml:"prompt_timeout_ms"`
}

// TUIConfig controls the terminal UI behavior
type TUIConfig struct {
	// Headless prints view changes as text instead of running the interactive UI
	Headless bool `mapstructure:"headless" yaml:"headless"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Enabled:    true,
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
		Dispatch: DispatchConfig{
			CoalesceInvalidate: true,
		},
		Simulate: SimulateConfig{
			Bridges:         3,
			IntervalMs:      2000,
			Cols:            80,
			Rows:            24,
			PromptTimeoutMs: 10000,
		},
	}
}

// Interval returns the simulator step interval as a time.Duration
func (c *SimulateConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMs) * time.Millisecond
}

// PromptTimeout returns the prompt timeout as a time.Duration
func (c *SimulateConfig) PromptTimeout() time.Duration {
	return time.Duration(c.PromptTimeoutMs) * time.Millisecond
}

// ResolveDir returns the directory for debug.log
func (c *LoggingConfig) ResolveDir() string {
	if c.Dir != "" {
		return c.Dir
	}
	return ConfigDir()
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)
	viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)
	viper.SetDefault("logging.compress", defaults.Logging.Compress)

	// Dispatch defaults
	viper.SetDefault("dispatch.coalesce_invalidate", defaults.Dispatch.CoalesceInvalidate)

	// Simulator defaults
	viper.SetDefault("simulate.bridges", defaults.Simulate.Bridges)
	viper.SetDefault("simulate.interval_ms", defaults.Simulate.IntervalMs)
	viper.SetDefault("simulate.seed", defaults.Simulate.Seed)
	viper.SetDefault("simulate.cols", defaults.Simulate.Cols)
	viper.SetDefault("simulate.rows", defaults.Simulate.Rows)
	viper.SetDefault("simulate.prompt_timeout_ms", defaults.Simulate.PromptTimeoutMs)

	// TUI defaults
	viper.SetDefault("tui.headless", defaults.TUI.Headless)
}

// Load reads the configuration from viper and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Validate the configuration
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "bridgehost")
	}
	// Fall back to ~/.config/bridgehost
	home, err := os.UserHomeDir()
	if err != nil {
		return ".bridgehost"
	}
	return filepath.Join(home, ".config", "bridgehost")
}

// ConfigFile returns the path to the default config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
