// Package config loads the client configuration from a YAML file under
// ~/.config/skim, creating it with defaults on first run.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that YAML-encodes as a string like "2s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Config holds application configuration.
type Config struct {
	APIBaseURL   string   `yaml:"api_base_url"`
	PageSize     int      `yaml:"page_size"`
	PollInterval Duration `yaml:"poll_interval"`
	LogLevel     string   `yaml:"log_level"`
	LogFile      string   `yaml:"log_file"`
	SessionFile  string   `yaml:"session_file"`
	CacheFile    string   `yaml:"cache_file"`
	DisableTelemetry bool `yaml:"disable_telemetry"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	dataDir := defaultDataDir()
	return Config{
		APIBaseURL:   "http://localhost:8000/api",
		PageSize:     10,
		PollInterval: Duration(2 * time.Second),
		LogLevel:     "info",
		LogFile:      filepath.Join(dataDir, "skim.log"),
		SessionFile:  filepath.Join(dataDir, "session.json"),
		CacheFile:    filepath.Join(dataDir, "cache.db"),
	}
}

// Load reads config from the YAML file. Creates the file with defaults if
// it doesn't exist; missing fields fall back to defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			config := DefaultConfig()
			// Non-fatal: return defaults even if the save fails
			_ = Save(path, &config)
			return &config, nil
		}
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	defaults := DefaultConfig()
	if config.APIBaseURL == "" {
		config.APIBaseURL = defaults.APIBaseURL
	}
	if config.PageSize <= 0 {
		config.PageSize = defaults.PageSize
	}
	if config.PollInterval <= 0 {
		config.PollInterval = defaults.PollInterval
	}
	if config.LogLevel == "" {
		config.LogLevel = defaults.LogLevel
	}
	if config.LogFile == "" {
		config.LogFile = defaults.LogFile
	}
	if config.SessionFile == "" {
		config.SessionFile = defaults.SessionFile
	}
	if config.CacheFile == "" {
		config.CacheFile = defaults.CacheFile
	}

	return &config, nil
}

// Save writes config to the YAML file, creating the directory if needed.
func Save(path string, config *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfigFilePath returns the default config path:
// ~/.config/skim/config.yaml
func DefaultConfigFilePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "skim", "config.yaml"), nil
}

func defaultDataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(homeDir, ".config", "skim")
}
