package utils

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewLogger_TagsAppAndWritesFile(t *testing.T) {
	dir := t.TempDir()
	var console bytes.Buffer

	log, err := newLogger(AppConfig{Name: "booking-test", LogPath: dir}, zapcore.AddSync(&console))
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	log.Info("Booking created")
	log.Debug("hidden at info")
	_ = log.Sync()

	var entry map[string]any
	if err := json.Unmarshal(console.Bytes(), &entry); err != nil {
		t.Fatalf("stdout should be one JSON entry, got %q: %v", console.String(), err)
	}
	if entry["app"] != "booking-test" || entry["msg"] != "Booking created" {
		t.Fatalf("unexpected entry %v", entry)
	}
	if _, ok := entry["timestamp"]; !ok {
		t.Fatalf("expected timestamp key in %v", entry)
	}

	file, err := os.ReadFile(filepath.Join(dir, "booking-test.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(file), `"app":"booking-test"`) || strings.Contains(string(file), "hidden at info") {
		t.Fatalf("unexpected file contents %q", file)
	}
}

func TestNewLogger_Levels(t *testing.T) {
	var console bytes.Buffer

	log, err := newLogger(AppConfig{Debug: true, LogLevel: "warn"}, zapcore.AddSync(&console))
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	log.Info("quiet")
	log.Warn("loud")
	_ = log.Sync()

	if strings.Contains(console.String(), "quiet") || !strings.Contains(console.String(), "loud") {
		t.Fatalf("LOG_LEVEL should win over DEBUG, got %q", console.String())
	}
	if !strings.Contains(console.String(), "barbershop-booking") {
		t.Fatalf("expected default app name, got %q", console.String())
	}

	if _, err := newLogger(AppConfig{LogLevel: "chatty"}, zapcore.AddSync(&console)); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
