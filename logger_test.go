package ocaf

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestConfigureLogging(t *testing.T) {
	defer slog.SetDefault(slog.Default())
	t.Setenv("OCAF_LOG_LEVEL", "warn")
	t.Setenv("OCAF_LOG_FORMAT", "json")

	var buf bytes.Buffer
	ConfigureLoggingTo(&buf)
	slog.Info("hidden")
	slog.Warn("shown", "document", "part")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d records, want 1: %q", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("record is not JSON: %v", err)
	}
	if rec["msg"] != "shown" || rec["document"] != "part" {
		t.Errorf("unexpected record %v", rec)
	}

	SetLogLevel(slog.LevelDebug)
	buf.Reset()
	slog.Debug("now visible")
	if buf.Len() == 0 {
		t.Error("SetLogLevel did not lower the level")
	}
}

func TestParseLogLevel(t *testing.T) {
	if ParseLogLevel("debug") != slog.LevelDebug || ParseLogLevel("") != slog.LevelInfo || ParseLogLevel("ERROR") != slog.LevelError {
		t.Error("ParseLogLevel mapping is wrong")
	}
}
