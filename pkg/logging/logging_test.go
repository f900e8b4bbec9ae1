package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelInfo, "json")
	logger.Debug("hidden")
	logger.Info("Expense added", "group_id", "g1")

	line := strings.TrimSpace(buf.String())
	if strings.Contains(line, "hidden") {
		t.Error("debug record should be filtered at info level")
	}
	var record map[string]any
	if err := json.Unmarshal([]byte(line), &record); err != nil {
		t.Fatalf("expected one JSON record, got %q: %v", line, err)
	}
	if record["msg"] != "Expense added" || record["group_id"] != "g1" {
		t.Errorf("unexpected record: %v", record)
	}
}

func TestNewPretty(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, slog.LevelDebug, "pretty").Debug("Settlement confirmed", "settlement_id", "s1")
	if !strings.Contains(buf.String(), "Settlement confirmed") || !strings.Contains(buf.String(), "s1") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}
