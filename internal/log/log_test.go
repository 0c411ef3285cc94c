package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	if New(Config{}) == nil {
		t.Fatal("New() returned nil")
	}
}

func TestNewWithWriter(t *testing.T) {
	var buf bytes.Buffer

	logger := NewWithWriter(&buf, Config{Level: slog.LevelDebug})
	logger.Info("ingest complete", "url", "https://example.com")

	output := buf.String()
	if !strings.Contains(output, "ingest complete") {
		t.Errorf("expected output to contain the message, got: %s", output)
	}
	if !strings.Contains(output, "url=https://example.com") {
		t.Errorf("expected output to contain the attribute, got: %s", output)
	}
}

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer

	logger := NewWithWriter(&buf, Config{Level: slog.LevelInfo, JSON: true})
	logger.Info("json test", "foo", "bar")

	if got := buf.String(); !strings.Contains(got, `"msg":"json test"`) {
		t.Errorf("expected JSON output with msg field, got: %s", got)
	}
}

func TestNewNop(t *testing.T) {
	logger := NewNop()
	if logger == nil {
		t.Fatal("NewNop() returned nil")
	}

	// Should not panic
	logger.Info("discarded")
	logger.Error("discarded too")
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer

	logger := NewWithWriter(&buf, Config{Level: slog.LevelInfo})
	logger.With("component", "session").Info("component log")

	if got := buf.String(); !strings.Contains(got, "component=session") {
		t.Errorf("expected output to contain 'component=session', got: %s", got)
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer

	logger := NewWithWriter(&buf, Config{Level: slog.LevelInfo})

	logger.Debug("debug should not appear")
	logger.Info("info should appear")

	output := buf.String()
	if strings.Contains(output, "debug should not appear") {
		t.Error("DEBUG message should be filtered out")
	}
	if !strings.Contains(output, "info should appear") {
		t.Error("INFO message should appear")
	}
}
