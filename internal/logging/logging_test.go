package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestNew_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:  slog.LevelInfo,
		Format: FormatText,
		Output: &buf,
	})

	logger.Info("hello", "step", "setup")

	out := buf.String()
	if !strings.Contains(out, "hello") {
		t.Errorf("output missing message: %q", out)
	}
	if !strings.Contains(out, "step=setup") {
		t.Errorf("output missing attr: %q", out)
	}
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:  slog.LevelInfo,
		Format: FormatJSON,
		Output: &buf,
	})

	logger.Info("hello")

	if !strings.Contains(buf.String(), `"msg":"hello"`) {
		t.Errorf("expected JSON output, got %q", buf.String())
	}
}

func TestHandler_RedactsSecretAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:  slog.LevelInfo,
		Format: FormatText,
		Output: &buf,
	})

	logger.Info("bound secret", "ANTHROPIC_API_KEY", "sk-ant-supersecret1234")

	out := buf.String()
	if strings.Contains(out, "supersecret") {
		t.Errorf("secret leaked into log output: %q", out)
	}
	if !strings.Contains(out, "****1234") {
		t.Errorf("expected masked value in output: %q", out)
	}
}

func TestHandler_RedactsTokenPrefixedValues(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:  slog.LevelInfo,
		Format: FormatText,
		Output: &buf,
	})

	logger.Info("value", "note", "ghp_abcdefgh")

	out := buf.String()
	if strings.Contains(out, "ghp_abcdefgh") {
		t.Errorf("token leaked into log output: %q", out)
	}
}

func TestHandler_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:  slog.LevelWarn,
		Format: FormatText,
		Output: &buf,
	})

	logger.Info("should not appear")
	logger.Warn("should appear")

	out := buf.String()
	if strings.Contains(out, "should not appear") {
		t.Error("info message logged despite warn level")
	}
	if !strings.Contains(out, "should appear") {
		t.Error("warn message missing")
	}
}

func TestLevelFromVerbosity(t *testing.T) {
	tests := []struct {
		verbosity int
		want      slog.Level
	}{
		{0, slog.LevelInfo},
		{1, slog.LevelDebug},
		{2, slog.LevelDebug - 4},
		{3, slog.LevelDebug - 4},
	}

	for _, tt := range tests {
		got := LevelFromVerbosity(tt.verbosity)
		if got != tt.want {
			t.Errorf("LevelFromVerbosity(%d) = %v, want %v", tt.verbosity, got, tt.want)
		}
	}
}

func TestContextRoundTrip(t *testing.T) {
	logger := ForTest(t)
	ctx := NewContext(context.Background(), logger)

	if got := FromContext(ctx); got != logger {
		t.Error("FromContext did not return the stored logger")
	}
}

func TestFromContext_Fallback(t *testing.T) {
	if got := FromContext(context.Background()); got == nil {
		t.Error("FromContext should fall back to the default logger")
	}
}

func TestMultiHandler(t *testing.T) {
	var a, b bytes.Buffer
	h := NewMultiHandler(
		slog.NewTextHandler(&a, nil),
		slog.NewTextHandler(&b, nil),
	)
	logger := slog.New(h)

	logger.Info("fan out")

	if !strings.Contains(a.String(), "fan out") || !strings.Contains(b.String(), "fan out") {
		t.Error("record not dispatched to all handlers")
	}
}
