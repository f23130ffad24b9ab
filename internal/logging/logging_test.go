package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestLevelFromString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"off", levelOff},
		{"bogus", slog.LevelWarn},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			if got := LevelFromString(tt.in); got != tt.want {
				t.Errorf("LevelFromString(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLevelFromVerbosity(t *testing.T) {
	t.Parallel()

	if got := LevelFromVerbosity(2, true, slog.LevelWarn); got != levelOff {
		t.Errorf("quiet: got %v", got)
	}
	if got := LevelFromVerbosity(0, false, slog.LevelError); got != slog.LevelError {
		t.Errorf("fallback: got %v", got)
	}
	if got := LevelFromVerbosity(1, false, slog.LevelWarn); got != slog.LevelInfo {
		t.Errorf("-v: got %v", got)
	}
	if got := LevelFromVerbosity(3, false, slog.LevelWarn); got != slog.LevelDebug {
		t.Errorf("-vvv: got %v", got)
	}
}

func TestNewLoggerFormats(t *testing.T) {
	t.Parallel()

	var text, js bytes.Buffer
	NewLogger(&text, FormatText, slog.LevelInfo).Info("assemble.done", "files", 3)
	NewLogger(&js, FormatJSON, slog.LevelInfo).Info("assemble.done", "files", 3)

	if !strings.Contains(text.String(), "msg=assemble.done") || !strings.Contains(text.String(), "files=3") {
		t.Errorf("text output: %q", text.String())
	}
	if !strings.Contains(js.String(), `"msg":"assemble.done"`) || !strings.Contains(js.String(), `"files":3`) {
		t.Errorf("json output: %q", js.String())
	}
}

func TestDiscardLogger(t *testing.T) {
	t.Parallel()

	l := OrDiscard(nil)
	if l.Enabled(context.Background(), slog.LevelError) {
		t.Error("discard logger should not be enabled")
	}
}
