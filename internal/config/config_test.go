package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := parseLogLevel(tt.in); got != tt.want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PARLEY_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("PARLEY_SERVER_URL", "")
	t.Setenv("PARLEY_LOG_FILE", "")
	t.Setenv("PARLEY_LOG_LEVEL", "")

	cfg := Load()
	if cfg.ServerURL != "http://localhost:5000/api" {
		t.Errorf("default ServerURL = %q", cfg.ServerURL)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("default LogLevel = %v", cfg.LogLevel)
	}
}

func TestLoadFileAndEnvPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "server_url: http://file.example/api\nlog_level: debug\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("PARLEY_CONFIG", path)
	t.Setenv("PARLEY_SERVER_URL", "")
	t.Setenv("PARLEY_LOG_LEVEL", "")

	cfg := Load()
	if cfg.ServerURL != "http://file.example/api" {
		t.Errorf("file ServerURL = %q", cfg.ServerURL)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("file LogLevel = %v", cfg.LogLevel)
	}

	// Env beats file.
	t.Setenv("PARLEY_SERVER_URL", "http://env.example/api")
	cfg = Load()
	if cfg.ServerURL != "http://env.example/api" {
		t.Errorf("env ServerURL = %q", cfg.ServerURL)
	}
}
