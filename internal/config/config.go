// filepath: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"time"

	"photovault/internal/shared"

	"github.com/BurntSushi/toml"
)

// Config holds the application's configuration.
type Config struct {
	Server     ServerConfig    `toml:"server"`
	Database   DatabaseConfig  `toml:"database"`
	Thumbnails ThumbnailConfig `toml:"thumbnails"`
	Sync       SyncConfig      `toml:"sync"`
	Organize   OrganizeConfig  `toml:"organize"`
	Logging    LoggingConfig   `toml:"logging"`

	// LegacyVaultPath is the single vault root used before multi-vault support.
	// It only serves as a last trash fallback.
	LegacyVaultPath string `toml:"legacy_vault_path"`

	SyncInterval  time.Duration `toml:"-"` // Runtime computed value
	WatchDebounce time.Duration `toml:"-"` // Runtime computed value
}

// ServerConfig holds the server configuration.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// DatabaseConfig holds the catalog database configuration.
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// ThumbnailConfig holds thumbnail generation settings.
type ThumbnailConfig struct {
	Dir     string `toml:"dir"`
	Size    int    `toml:"size"`    // longest side in pixels
	Workers int    `toml:"workers"` // parallelism for regeneration runs
}

// SyncConfig holds the background sync settings.
type SyncConfig struct {
	Interval string `toml:"interval"` // e.g. "1h", "0" disables the scheduler
	Watch    bool   `toml:"watch"`
	Debounce string `toml:"debounce"`
}

// OrganizeConfig holds defaults for the organize job.
type OrganizeConfig struct {
	DeleteOriginals bool `toml:"delete_originals"`
}

// LoggingConfig holds the logging configuration.
type LoggingConfig struct {
	Level          string `toml:"level"`
	File           string `toml:"file"`
	MaxSizeMB      int    `toml:"max_size_mb"`
	MaxBackups     int    `toml:"max_backups"`
	MaxAgeDays     int    `toml:"max_age_days"`
	ActivityMirror bool   `toml:"activity_mirror"` // Mirror activity log rows into the app log
	AuditEnabled   bool   `toml:"audit_enabled"`   // Log every mutating API request
}

// LoadConfig loads the configuration from a TOML file.
func LoadConfig(path string) (*Config, error) {
	var config Config
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, err
	}
	return &config, nil
}

// SaveConfig writes the current configuration back to a TOML file.
func SaveConfig(path string, cfg *Config) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file for saving: %w", err)
	}
	defer f.Close()
	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config to file: %w", err)
	}
	return nil
}

// ParseAndValidate processes configuration strings into runtime values.
// It sets defaults if values are missing.
func (c *Config) ParseAndValidate() error {
	if c.Sync.Interval == "" {
		c.Sync.Interval = "1h"
	}
	if c.Sync.Debounce == "" {
		c.Sync.Debounce = "5s"
	}
	if c.Thumbnails.Size == 0 {
		c.Thumbnails.Size = 256
	}
	if c.Thumbnails.Workers == 0 {
		c.Thumbnails.Workers = 4
	}

	interval, err := shared.ParseDuration(c.Sync.Interval)
	if err != nil {
		return fmt.Errorf("invalid sync interval: %w", err)
	}
	c.SyncInterval = interval

	debounce, err := shared.ParseDuration(c.Sync.Debounce)
	if err != nil {
		return fmt.Errorf("invalid sync debounce: %w", err)
	}
	c.WatchDebounce = debounce

	if c.Thumbnails.Size < 16 || c.Thumbnails.Size > 4096 {
		return fmt.Errorf("invalid thumbnail size: %d", c.Thumbnails.Size)
	}
	if c.Thumbnails.Workers < 1 {
		return fmt.Errorf("invalid thumbnail workers: %d", c.Thumbnails.Workers)
	}
	return nil
}
