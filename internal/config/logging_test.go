package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestSetupLoggerWithWritersFansOut(t *testing.T) {
	var stderr, file bytes.Buffer
	logger := SetupLoggerWithWriters(&stderr, &file, slog.LevelInfo)

	logger.Info("console started", "conversation", 42)

	if !strings.Contains(stderr.String(), "console started") {
		t.Errorf("stderr output %q missing the message", stderr.String())
	}

	var record map[string]any
	if err := json.Unmarshal(file.Bytes(), &record); err != nil {
		t.Fatalf("file output is not JSON: %v (%q)", err, file.String())
	}
	if record["msg"] != "console started" {
		t.Errorf("file record msg = %v, want %q", record["msg"], "console started")
	}
	if record["conversation"] != float64(42) {
		t.Errorf("file record conversation = %v, want 42", record["conversation"])
	}
}

func TestSetupLoggerWithWritersFiltersLevel(t *testing.T) {
	var stderr, file bytes.Buffer
	logger := SetupLoggerWithWriters(&stderr, &file, slog.LevelWarn)

	logger.Debug("noise")
	logger.Info("chatter")

	if stderr.Len() != 0 || file.Len() != 0 {
		t.Errorf("records below the configured level leaked: stderr=%q file=%q", stderr.String(), file.String())
	}
}
