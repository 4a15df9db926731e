package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/vanshika/fintrace/streaming/internal/config"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(config.LoggingConfig{Level: "warn", Format: "json"}, &buf)

	logger.Info("dropped")
	logger.Warn("kept", "topic", "fraud")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one record above warn level, got %d: %q", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("expected json output: %v", err)
	}
	if rec["msg"] != "kept" || rec["topic"] != "fraud" {
		t.Fatalf("unexpected record %v", rec)
	}
}

func TestForProcess(t *testing.T) {
	var buf bytes.Buffer
	logger, instance := ForProcess(NewWithWriter(config.LoggingConfig{Format: "text"}, &buf), "detector")
	if instance == "" {
		t.Fatal("expected an instance id")
	}

	logger.Info("hello")
	out := buf.String()
	if !strings.Contains(out, "component=detector") || !strings.Contains(out, "instance="+instance) {
		t.Fatalf("expected component and instance attributes, got %q", out)
	}
}
