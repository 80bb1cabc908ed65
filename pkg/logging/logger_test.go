package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		enable  slog.Level
		disable slog.Level
	}{
		{"debug level", "debug", slog.LevelDebug, slog.Level(-8)},
		{"warn level", "warn", slog.LevelWarn, slog.LevelInfo},
		{"warning alias", "WARNING", slog.LevelWarn, slog.LevelInfo},
		{"error level", "error", slog.LevelError, slog.LevelWarn},
		{"default info", "", slog.LevelInfo, slog.LevelDebug},
	}

	ctx := context.Background()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := New(tt.level)
			if !logger.Enabled(ctx, tt.enable) {
				t.Fatalf("expected level %s to be enabled", tt.enable)
			}
			if logger.Enabled(ctx, tt.disable) {
				t.Fatalf("expected level %s to be disabled", tt.disable)
			}
		})
	}
}

func TestDefaultLogger(t *testing.T) {
	logger := Default()
	ctx := context.Background()
	if !logger.Enabled(ctx, slog.LevelInfo) {
		t.Error("Default() should enable info level")
	}
	if logger.Enabled(ctx, slog.LevelDebug) {
		t.Error("Default() should not enable debug level")
	}
	if logger == Default() {
		t.Error("Default() returned the same instance twice")
	}
}

func TestNewWithWriterEmitsJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter("info", &buf).With("component", "test")
	logger.Info("table chosen", "table", 4)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "table chosen" {
		t.Fatalf("unexpected msg %v", entry["msg"])
	}
	if entry["component"] != "test" {
		t.Fatalf("expected component attribute, got %v", entry["component"])
	}
	if entry["table"] != float64(4) {
		t.Fatalf("expected table attribute, got %v", entry["table"])
	}
}

func TestMaskPhone(t *testing.T) {
	tests := map[string]string{
		"0771234567":       "******4567",
		"+41 44 123 45 67": "*******4567",
		"123":              "***",
		"":                 "",
	}
	for in, want := range tests {
		if got := MaskPhone(in); got != want {
			t.Errorf("MaskPhone(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMaskEmail(t *testing.T) {
	tests := map[string]string{
		"jane@x.com":  "j***@x.com",
		" bob@a.org ": "b***@a.org",
		"nope":        "****",
		"":            "",
	}
	for in, want := range tests {
		if got := MaskEmail(in); got != want {
			t.Errorf("MaskEmail(%q) = %q, want %q", in, got, want)
		}
	}
}
