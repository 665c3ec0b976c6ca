package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewConsoleIncludesComponentAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "debug", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	componentLogger := NewComponentLogger(logger, "splitter")
	componentLogger.Info("labels written", Args(Int("count", 3), String(FieldSplit, "train"))...)

	line := buf.String()
	if !strings.Contains(line, "INFO splitter: labels written") {
		t.Fatalf("unexpected console line: %q", line)
	}
	if !strings.Contains(line, "count=3") || !strings.Contains(line, "split=train") {
		t.Fatalf("missing attrs in console line: %q", line)
	}
}

func TestNewJSONRenamesCoreKeys(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("hello", Args(String("sample_id", "1_1_0"))...)

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("parse JSON log line: %v", err)
	}
	if payload["msg"] != "hello" {
		t.Fatalf("expected msg key, got %v", payload)
	}
	if payload["level"] != "info" {
		t.Fatalf("expected lowercase level, got %v", payload["level"])
	}
	if _, ok := payload["ts"]; !ok {
		t.Fatalf("expected ts key, got %v", payload)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "warn", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("quiet")
	logger.Warn("loud")

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Fatalf("info line should have been filtered: %q", out)
	}
	if !strings.Contains(out, "loud") {
		t.Fatalf("warn line missing: %q", out)
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := NewNop()
	// Must not panic and must report disabled at every level.
	logger.Error("dropped")
	if logger.Enabled(nil, 0) { //nolint:staticcheck
		t.Fatal("nop logger should be disabled")
	}
}
