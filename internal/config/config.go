// Package config loads and persists xtreamcached's configuration: the
// content-cache database location, the Retry Policy defaults, the
// default sync interval, and logging. It follows the teacher's viper +
// mapstructure + hand-rolled TOML template pattern rather than a
// generic marshaler, since the on-disk file is meant to be hand-edited
// and commented.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/Nomadcxx/xtreamcached/internal/logging"
)

// StoreConfig locates the content-cache database file.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// RetryConfig mirrors xtream.RetryConfig's shape so it can round-trip
// through TOML; internal/xtream converts it at wiring time.
type RetryConfig struct {
	MaxRetries        int     `mapstructure:"max_retries"`
	InitialDelayMs    int     `mapstructure:"initial_delay_ms"`
	MaxDelayMs        int     `mapstructure:"max_delay_ms"`
	BackoffMultiplier float64 `mapstructure:"backoff_multiplier"`
}

// SyncConfig holds the defaults applied to a newly-initialized
// identity's sync settings row, plus the HTTP timeouts spec §5 assigns
// to sync requests and pre-create credential validation.
type SyncConfig struct {
	IntervalHours          int           `mapstructure:"interval_hours"`
	AutoSyncEnabled        bool          `mapstructure:"auto_sync_enabled"`
	RequestTimeout         time.Duration `mapstructure:"request_timeout"`
	CredentialCheckTimeout time.Duration `mapstructure:"credential_check_timeout"`
}

// Config is the full on-disk configuration.
type Config struct {
	Store   StoreConfig     `mapstructure:"store"`
	Retry   RetryConfig     `mapstructure:"retry"`
	Sync    SyncConfig      `mapstructure:"sync"`
	Logging logging.Config  `mapstructure:"logging"`
}

// DefaultConfig returns the built-in defaults, matching the spec's
// documented Retry Policy (3, 1000ms, 30000ms, 2.0) and the minimum
// sync interval (6 hours) quadrupled to a sane default of 24.
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{Path: ""},
		Retry: RetryConfig{
			MaxRetries:        3,
			InitialDelayMs:    1000,
			MaxDelayMs:        30000,
			BackoffMultiplier: 2.0,
		},
		Sync: SyncConfig{
			IntervalHours:          24,
			AutoSyncEnabled:        false,
			RequestTimeout:         30 * time.Second,
			CredentialCheckTimeout: 5 * time.Second,
		},
		Logging: logging.DefaultConfig(),
	}
}

// DefaultStorePath returns the default content-cache database location
// under the user's config directory.
func DefaultStorePath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: resolve config dir: %w", err)
	}
	return filepath.Join(configDir, "xtreamcached", "content.db"), nil
}

// DefaultConfigPath returns the default location of the config file.
func DefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: resolve config dir: %w", err)
	}
	return filepath.Join(configDir, "xtreamcached", "config.toml"), nil
}

// Load reads configPath (creating none if absent) and merges it over
// DefaultConfig. An empty configPath resolves to DefaultConfigPath.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		p, err := DefaultConfigPath()
		if err != nil {
			return nil, err
		}
		configPath = p
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", configPath, err)
		}
		if err := v.Unmarshal(cfg); err != nil {
			return nil, fmt.Errorf("config: unmarshal %s: %w", configPath, err)
		}
	}

	if cfg.Store.Path == "" {
		p, err := DefaultStorePath()
		if err != nil {
			return nil, err
		}
		cfg.Store.Path = p
	}

	return cfg, nil
}

// Save writes cfg to path as commented TOML, creating parent
// directories as needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}
	return os.WriteFile(path, []byte(c.ToTOML()), 0644)
}

// ToTOML renders cfg as a commented TOML document, in the style of the
// teacher's hand-formatted config template.
func (c *Config) ToTOML() string {
	return fmt.Sprintf(`# xtreamcached configuration

# ============================================================================
# STORE
# Location of the local content-cache database.
# ============================================================================
[store]
path = %q

# ============================================================================
# RETRY POLICY
# Exponential backoff applied to every remote fetch during a sync.
# ============================================================================
[retry]
max_retries = %d
initial_delay_ms = %d
max_delay_ms = %d
backoff_multiplier = %.1f

# ============================================================================
# SYNC
# Default per-identity sync preferences and HTTP timeouts.
# ============================================================================
[sync]
interval_hours = %d
auto_sync_enabled = %v
request_timeout = %q
credential_check_timeout = %q

# ============================================================================
# LOGGING
# ============================================================================
[logging]
level = %q
file = %q
max_size_mb = %d
max_backups = %d
max_age_days = %d
`,
		c.Store.Path,
		c.Retry.MaxRetries,
		c.Retry.InitialDelayMs,
		c.Retry.MaxDelayMs,
		c.Retry.BackoffMultiplier,
		c.Sync.IntervalHours,
		c.Sync.AutoSyncEnabled,
		c.Sync.RequestTimeout.String(),
		c.Sync.CredentialCheckTimeout.String(),
		c.Logging.Level,
		c.Logging.File,
		c.Logging.MaxSizeMB,
		c.Logging.MaxBackups,
		c.Logging.MaxAgeDays,
	)
}

