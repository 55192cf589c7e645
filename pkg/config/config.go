package config

import (
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	// Log configuration
	Log LogConfig `mapstructure:"log"`

	// Formats configuration
	Formats FormatsConfig `mapstructure:"formats"`

	// Store configuration
	Store StoreConfig `mapstructure:"store"`

	// Snapshot configuration
	Snapshot SnapshotConfig `mapstructure:"snapshot"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text, json
}

// FormatsConfig holds fact file configuration
type FormatsConfig struct {
	Delimiter string `mapstructure:"delimiter"` // table field delimiter
	Default   string `mapstructure:"default"`   // csv, alchemy, aleph, parquet
}

// StoreConfig holds fact store configuration
type StoreConfig struct {
	Type string `mapstructure:"type"` // boolean, fuzzy
}

// SnapshotConfig holds snapshot database configuration
type SnapshotConfig struct {
	Dir string `mapstructure:"dir"`
}

// Load loads configuration from file and environment variables
func Load() (*Config, error) {
	// Set defaults
	setDefaults()

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Override with environment variables if present
	overrideWithEnv(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Log defaults
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")

	// Format defaults
	viper.SetDefault("formats.delimiter", ",")
	viper.SetDefault("formats.default", "alchemy")

	viper.SetDefault("store.type", "boolean")

	// Snapshot defaults
	home, err := os.UserHomeDir()
	if err == nil {
		viper.SetDefault("snapshot.dir", filepath.Join(home, ".ecopredicate", "snapshot"))
	}
}

// overrideWithEnv overrides config with environment variables
func overrideWithEnv(config *Config) {
	if level := os.Getenv("ECOPREDICATE_LOG_LEVEL"); level != "" {
		config.Log.Level = level
	}
	if delimiter := os.Getenv("ECOPREDICATE_DELIMITER"); delimiter != "" {
		config.Formats.Delimiter = delimiter
	}
	if dir := os.Getenv("ECOPREDICATE_SNAPSHOT_DIR"); dir != "" {
		config.Snapshot.Dir = dir
	}
}

// Validate checks the configuration for unsupported values
func (c *Config) Validate() error {
	if utf8.RuneCountInString(c.Formats.Delimiter) != 1 {
		return fmt.Errorf("formats.delimiter must be a single character, got %q", c.Formats.Delimiter)
	}
	switch c.Formats.Default {
	case "csv", "alchemy", "aleph", "parquet":
	default:
		return fmt.Errorf("unsupported formats.default: %s (supported: csv, alchemy, aleph, parquet)", c.Formats.Default)
	}
	switch c.Store.Type {
	case "boolean", "fuzzy":
	default:
		return fmt.Errorf("unsupported store.type: %s (supported: boolean, fuzzy)", c.Store.Type)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unsupported log.format: %s (supported: text, json)", c.Log.Format)
	}
	return nil
}
