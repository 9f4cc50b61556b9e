package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/adrg/xdg"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// AppName names the per-user config, state and log directories
const AppName = "kuri-uninstaller"

// OutputFormats are the accepted report formats
var OutputFormats = []string{"summary", "table", "json", "yaml"}

// Config represents the application configuration
type Config struct {
	Backup         BackupConfig  `yaml:"backup"`
	Scan           ScanConfig    `yaml:"scan"`
	ProtectedPaths []string      `yaml:"protected_paths"`
	History        HistoryConfig `yaml:"history"`
	Logging        LoggingConfig `yaml:"logging"`
	Output         OutputConfig  `yaml:"output"`
}

// BackupConfig controls the registry key log written before deletion
type BackupConfig struct {
	Enabled bool   `yaml:"enabled"`
	DirName string `yaml:"dir_name"` // folder under the user's documents
}

// ScanConfig holds scan settings
type ScanConfig struct {
	// ProgramDataDir is the machine-wide application data root. Empty keeps
	// the per-user local data directory as a stand-in.
	ProgramDataDir string `yaml:"program_data_dir"`
}

// HistoryConfig controls the record of past deletions
type HistoryConfig struct {
	Enabled  bool `yaml:"enabled"`
	KeepDays int  `yaml:"keep_days"` // 0 keeps everything
}

// LoggingConfig holds log settings
type LoggingConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"` // empty = default state location
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// OutputConfig holds report settings
type OutputConfig struct {
	Format string `yaml:"format"`
}

// Load loads configuration from a file. Keys missing from the file keep
// their default values.
func Load(configPath string) (*Config, error) {
	// If config doesn't exist, return default config
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return GetDefault(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := GetDefault()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Validate config
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Save saves configuration to a file
func Save(config *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	var errs []error

	// Backup folder is a single name below the documents directory
	name := c.Backup.DirName
	if name == "" {
		errs = append(errs, errors.New("backup dir_name must not be empty"))
	} else if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		errs = append(errs, fmt.Errorf("backup dir_name must be a single folder name: %s", name))
	}

	if c.Scan.ProgramDataDir != "" && !filepath.IsAbs(c.Scan.ProgramDataDir) {
		errs = append(errs, fmt.Errorf("program_data_dir must be absolute: %s", c.Scan.ProgramDataDir))
	}

	// Validate protected paths are absolute
	for _, path := range c.ProtectedPaths {
		if !filepath.IsAbs(path) {
			errs = append(errs, fmt.Errorf("protected path must be absolute: %s", path))
		}
	}

	if c.History.KeepDays < 0 {
		errs = append(errs, errors.New("history keep_days must be >= 0"))
	}

	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("invalid log level: %s", c.Logging.Level))
	}
	if c.Logging.MaxSizeMB < 0 || c.Logging.MaxBackups < 0 || c.Logging.MaxAgeDays < 0 {
		errs = append(errs, errors.New("log rotation limits must be >= 0"))
	}

	if !slices.Contains(OutputFormats, c.Output.Format) {
		errs = append(errs, fmt.Errorf("output format must be one of %s: %s",
			strings.Join(OutputFormats, ", "), c.Output.Format))
	}

	return errors.Join(errs...)
}

// GetConfigPath returns the default config path
func GetConfigPath() (string, error) {
	if xdg.ConfigHome == "" {
		return "", errors.New("no config directory available")
	}
	return filepath.Join(xdg.ConfigHome, AppName, "config.yaml"), nil
}

// StatePath returns a path below the per-user state directory
func StatePath(name string) string {
	return filepath.Join(xdg.StateHome, AppName, name)
}

// EnsureConfigExists creates a default config file if it doesn't exist
func EnsureConfigExists() (string, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return "", err
	}

	// Check if config exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		// Create default config
		defaultConfig := GetDefault()
		if err := Save(defaultConfig, configPath); err != nil {
			return "", err
		}
	}

	return configPath, nil
}
