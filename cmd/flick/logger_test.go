package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/npratt/flick/internal/config"
)

var rotation = config.Default().LogRotation

func readLog(t *testing.T, result *TUILoggerResult) string {
	t.Helper()
	if err := result.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	content, err := os.ReadFile(result.FilePath)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	return string(content)
}

func TestSetupTUILogger_WritesToFile(t *testing.T) {
	tmpDir := t.TempDir()

	result, err := SetupTUILogger(tmpDir, slog.LevelInfo, rotation)
	if err != nil {
		t.Fatalf("SetupTUILogger failed: %v", err)
	}

	expectedPath := filepath.Join(tmpDir, DebugLogName)
	if result.FilePath != expectedPath {
		t.Errorf("FilePath = %q, want %q", result.FilePath, expectedPath)
	}

	result.Logger.Info("test message", "key", "value")

	content := readLog(t, result)
	if !strings.Contains(content, "test message") {
		t.Errorf("log file should contain 'test message', got: %s", content)
	}
	if !strings.Contains(content, `"key":"value"`) {
		t.Errorf("log file should contain key=value, got: %s", content)
	}
}

func TestSetupTUILogger_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "logs")

	result, err := SetupTUILogger(dir, slog.LevelInfo, rotation)
	if err != nil {
		t.Fatalf("SetupTUILogger failed: %v", err)
	}
	result.Logger.Info("first line")

	if content := readLog(t, result); !strings.Contains(content, "first line") {
		t.Errorf("log file should contain the message, got: %s", content)
	}
}

func TestSetupTUILogger_AppendsToExistingFile(t *testing.T) {
	tmpDir := t.TempDir()

	logPath := filepath.Join(tmpDir, DebugLogName)
	if err := os.WriteFile(logPath, []byte("existing content\n"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	result, err := SetupTUILogger(tmpDir, slog.LevelInfo, rotation)
	if err != nil {
		t.Fatalf("SetupTUILogger failed: %v", err)
	}
	result.Logger.Info("new message")

	content := readLog(t, result)
	if !strings.Contains(content, "existing content") {
		t.Error("should preserve existing content")
	}
	if !strings.Contains(content, "new message") {
		t.Error("should append new message")
	}
}

func TestSetupTUILogger_RespectsLogLevel(t *testing.T) {
	level := &slog.LevelVar{}
	level.Set(slog.LevelWarn)

	result, err := SetupTUILogger(t.TempDir(), level, rotation)
	if err != nil {
		t.Fatalf("SetupTUILogger failed: %v", err)
	}

	result.Logger.Info("info message")
	result.Logger.Warn("warn message")

	content := readLog(t, result)
	if strings.Contains(content, "info message") {
		t.Error("INFO message should be filtered out at WARN level")
	}
	if !strings.Contains(content, "warn message") {
		t.Error("WARN message should appear")
	}
}

func TestSetupTUILoggerWithWriter_WritesToWriter(t *testing.T) {
	var buf bytes.Buffer

	logger := SetupTUILoggerWithWriter(&buf, slog.LevelInfo)
	logger.Info("test message", "foo", "bar")

	output := buf.String()
	if !strings.Contains(output, "test message") {
		t.Errorf("output should contain 'test message', got: %s", output)
	}
	if !strings.Contains(output, `"foo":"bar"`) {
		t.Errorf("output should contain foo=bar, got: %s", output)
	}
}

func TestTUILoggerResult_CloseWithoutFile(t *testing.T) {
	r := &TUILoggerResult{}
	if err := r.Close(); err != nil {
		t.Errorf("Close() = %v, want nil", err)
	}
}
