// Package config loads Parley's client configuration from a YAML file and
// environment variables.
package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration values.
type Config struct {
	// Backend origin, including the /api prefix.
	ServerURL string

	// Logging
	LogFile  string
	LogLevel slog.Level
}

// fileConfig mirrors the optional YAML config file. Environment variables
// win over file values.
type fileConfig struct {
	ServerURL string `yaml:"server_url"`
	LogFile   string `yaml:"log_file"`
	LogLevel  string `yaml:"log_level"`
}

// Load reads configuration: defaults, then ~/.config/parley/config.yaml if
// present, then environment variables.
func Load() Config {
	cfg := Config{
		ServerURL: "http://localhost:5000/api",
		LogFile:   "/tmp/parley.log",
		LogLevel:  slog.LevelInfo,
	}

	if fc := loadFile(); fc != nil {
		if fc.ServerURL != "" {
			cfg.ServerURL = fc.ServerURL
		}
		if fc.LogFile != "" {
			cfg.LogFile = fc.LogFile
		}
		if fc.LogLevel != "" {
			cfg.LogLevel = parseLogLevel(fc.LogLevel)
		}
	}

	if v := os.Getenv("PARLEY_SERVER_URL"); v != "" {
		cfg.ServerURL = v
	}
	if v := os.Getenv("PARLEY_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("PARLEY_LOG_LEVEL"); v != "" {
		cfg.LogLevel = parseLogLevel(v)
	}

	return cfg
}

// ConfigFilePath returns the default config file location. PARLEY_CONFIG
// overrides it, mostly for tests.
func ConfigFilePath() string {
	if p := os.Getenv("PARLEY_CONFIG"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "parley", "config.yaml")
}

func loadFile() *fileConfig {
	path := ConfigFilePath()
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		slog.Warn("ignoring malformed config file", "path", path, "error", err)
		return nil
	}
	return &fc
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
