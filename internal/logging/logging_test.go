package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNew_InfoLevelHidesDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, Options{})

	logger.Debug("payload", "body", "{}")
	logger.Info("found tasks", "total", 3)

	out := buf.String()
	if strings.Contains(out, "payload") {
		t.Errorf("debug line should be hidden at info level, got %q", out)
	}
	if !strings.Contains(out, "found tasks") || !strings.Contains(out, "total=3") {
		t.Errorf("expected info line with fields, got %q", out)
	}
}

func TestNew_DebugLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, Options{Debug: true})

	logger.Debug("payload")

	if !strings.Contains(buf.String(), "payload") {
		t.Errorf("expected debug output, got %q", buf.String())
	}
}

func TestNew_QuietKeepsErrors(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, Options{Quiet: true, Debug: true})

	logger.Info("found tasks")
	logger.Error("failed to update")

	out := buf.String()
	if strings.Contains(out, "found tasks") {
		t.Errorf("info line should be hidden when quiet, got %q", out)
	}
	if !strings.Contains(out, "failed to update") {
		t.Errorf("expected error line, got %q", out)
	}
}
