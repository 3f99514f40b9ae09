// Package config loads tlfpack configuration from file, environment and
// defaults, with optional hot-reload.
package config

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config is the full runtime configuration.
type Config struct {
	Converters ConvertersConfig `mapstructure:"converters"`
	TOC        TOCConfig        `mapstructure:"toc"`
	Merge      MergeConfig      `mapstructure:"merge"`
	Ledger     LedgerConfig     `mapstructure:"ledger"`
}

// ConvertersConfig describes the external converter engines.
type ConvertersConfig struct {
	// Default backend for rows with a blank converter column. Injected
	// once at pipeline start; never mutated afterwards.
	Default     string            `mapstructure:"default"`
	LibreOffice LibreOfficeConfig `mapstructure:"libreoffice"`
	Word        WordConfig        `mapstructure:"word"`
}

// LibreOfficeConfig configures the soffice backend.
type LibreOfficeConfig struct {
	Path           string `mapstructure:"path"`
	Attempts       uint   `mapstructure:"attempts"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

func (c LibreOfficeConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// WordConfig configures the Word automation backend.
type WordConfig struct {
	Command        []string `mapstructure:"command"`
	TimeoutSeconds int      `mapstructure:"timeout_seconds"`
}

func (c WordConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// TOCConfig controls table-of-contents generation.
type TOCConfig struct {
	Enabled  bool    `mapstructure:"enabled"`
	Header   bool    `mapstructure:"header"`
	FontSize float64 `mapstructure:"font_size"`
	// RowsPerPage caps entries per contents page; the page height still
	// bounds wrapped title lines.
	RowsPerPage int `mapstructure:"rows_per_page"`
}

// MergeConfig controls merge policy.
type MergeConfig struct {
	// KeepUntitled merges documents without a validated or manual title
	// (without a bookmark) instead of dropping them.
	KeepUntitled bool `mapstructure:"keep_untitled"`
}

// LedgerConfig controls the review ledger file.
type LedgerConfig struct {
	FileName string `mapstructure:"file_name"`
}

// Manager handles loading and hot-reloading configuration.
type Manager struct {
	mu        sync.RWMutex
	config    *Config
	callbacks []func(*Config)
}

// NewManager creates a config manager and loads the initial config.
func NewManager(cfgFile string) (*Manager, error) {
	cm := &Manager{}

	if err := cm.initViper(cfgFile); err != nil {
		return nil, err
	}

	cfg, err := cm.load()
	if err != nil {
		return nil, err
	}
	cm.config = cfg

	return cm, nil
}

// initViper sets up viper with defaults and the config file.
func (cm *Manager) initViper(cfgFile string) error {
	defaults := DefaultConfig()
	viper.SetDefault("converters", defaults.Converters)
	viper.SetDefault("toc", defaults.TOC)
	viper.SetDefault("merge", defaults.Merge)
	viper.SetDefault("ledger", defaults.Ledger)

	// Environment variables with TLFPACK_ prefix
	viper.SetEnvPrefix("TLFPACK")
	viper.AutomaticEnv()

	// Config file
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.tlfpack")
	}

	// Try to read config file (not required)
	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// load parses the current viper state into a Config struct.
func (cm *Manager) load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Get returns the current configuration (thread-safe).
func (cm *Manager) Get() *Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config
}

// OnChange registers a callback for config changes.
func (cm *Manager) OnChange(fn func(*Config)) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.callbacks = append(cm.callbacks, fn)
}

// WatchConfig enables hot-reloading of configuration.
func (cm *Manager) WatchConfig() {
	viper.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := cm.load()
		if err != nil {
			return
		}

		cm.mu.Lock()
		cm.config = cfg
		callbacks := make([]func(*Config), len(cm.callbacks))
		copy(callbacks, cm.callbacks)
		cm.mu.Unlock()

		for _, fn := range callbacks {
			fn(cfg)
		}
	})
	viper.WatchConfig()
}
