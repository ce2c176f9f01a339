package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"dollsheet/internal/config"
)

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, zapcore.InfoLevel, JSONFormat)
	logger.Debug("hidden")
	logger.Named("fetch").Info("sheet loaded", zap.String("sheet_id", "42"))
	_ = logger.Sync()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("Expected 1 log line, got %d: %q", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("Expected JSON line, got %q: %v", lines[0], err)
	}
	if entry["msg"] != "sheet loaded" || entry["sheet_id"] != "42" || entry["logger"] != "fetch" {
		t.Errorf("Unexpected entry %v", entry)
	}
}

func TestNewLogger_Console(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, zapcore.DebugLevel, ConsoleFormat)
	logger.Debug("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("Expected console output, got %q", buf.String())
	}
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dollsheet.log")
	logger, err := New(config.Log{Level: "warn", Format: "json", File: path, MaxSizeMB: 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Warn("written to file")
	_ = logger.Sync()

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(b), "written to file") {
		t.Errorf("Expected entry in log file, got %q", b)
	}
}

func TestNew_BadLevel(t *testing.T) {
	if _, err := New(config.Log{Level: "loud"}); err == nil {
		t.Fatal("Expected error for unknown level")
	}
}

func TestParseFormat(t *testing.T) {
	if ParseFormat("console") != ConsoleFormat || ParseFormat("json") != JSONFormat || ParseFormat("") != JSONFormat {
		t.Error("Unexpected format mapping")
	}
}
