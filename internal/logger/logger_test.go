package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func parseLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	line := strings.TrimSpace(buf.String())
	var entry map[string]any
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("failed to parse log line %q: %v", line, err)
	}
	return entry
}

func TestNewWithWriterJSONKeys(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	log.Info("hello")

	entry := parseLine(t, &buf)
	if entry["message"] != "hello" {
		t.Errorf("expected message 'hello', got %v", entry["message"])
	}
	if entry["level"] != "info" {
		t.Errorf("expected level 'info', got %v", entry["level"])
	}
	if _, ok := entry["timestamp"]; !ok {
		t.Error("expected timestamp key")
	}
}

func TestWarnLevelRendersAsWarning(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("debug", &buf)

	log.Warn("careful")

	entry := parseLine(t, &buf)
	if entry["level"] != "warning" {
		t.Errorf("expected level 'warning', got %v", entry["level"])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("error", &buf)

	log.Info("should not appear")
	if buf.Len() != 0 {
		t.Errorf("expected no output at info level, got %q", buf.String())
	}

	log.Error("should appear")
	if buf.Len() == 0 {
		t.Error("expected output at error level")
	}
}

func TestWithModule(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	log.WithModule("bot").Info("dispatching")

	entry := parseLine(t, &buf)
	if entry["module"] != "bot" {
		t.Errorf("expected module 'bot', got %v", entry["module"])
	}
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	log.WithError(errors.New("boom")).Error("failed")

	if !strings.Contains(buf.String(), "boom") {
		t.Errorf("expected error field in output, got %q", buf.String())
	}
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	log.WithFields(map[string]any{"conversation_id": "abc", "rule": "shortcut_link"}).Info("matched")

	entry := parseLine(t, &buf)
	if entry["conversation_id"] != "abc" {
		t.Errorf("expected conversation_id 'abc', got %v", entry["conversation_id"])
	}
	if entry["rule"] != "shortcut_link" {
		t.Errorf("expected rule 'shortcut_link', got %v", entry["rule"])
	}
}

func TestInfof(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	log.Infof("loaded %d courses", 7)

	entry := parseLine(t, &buf)
	if entry["message"] != "loaded 7 courses" {
		t.Errorf("expected formatted message, got %v", entry["message"])
	}
}
