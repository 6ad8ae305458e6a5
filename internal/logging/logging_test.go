package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevelFromEnv(t *testing.T) {
	t.Setenv(EnvLevel, "debug")
	t.Setenv(EnvFormat, "")

	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "test")
	logger.Debug("spawn skipped", "lane", 2)

	if !strings.Contains(buf.String(), "spawn skipped") {
		t.Errorf("debug message should be written at LOG_LEVEL=debug, got %q", buf.String())
	}
}

func TestInvalidLevelFallsBackToInfo(t *testing.T) {
	t.Setenv(EnvLevel, "chatty")

	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "test")
	logger.Debug("hidden")
	logger.Info("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug output should be suppressed at the fallback info level")
	}
	if !strings.Contains(out, "shown") {
		t.Error("info output should be written")
	}
}

func TestJSONFormat(t *testing.T) {
	t.Setenv(EnvLevel, "info")
	t.Setenv(EnvFormat, "json")

	var buf bytes.Buffer
	NewWithWriter(&buf, "test").Info("score saved", "score", 120)

	if !strings.HasPrefix(strings.TrimSpace(buf.String()), "{") {
		t.Errorf("LOG_FORMAT=json should emit JSON, got %q", buf.String())
	}
}

func TestOrDiscard(t *testing.T) {
	if OrDiscard(nil) == nil {
		t.Fatal("OrDiscard(nil) should return a usable logger")
	}
	OrDiscard(nil).Error("dropped") // must not panic
}
