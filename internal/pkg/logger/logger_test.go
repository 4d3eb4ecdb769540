package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestStdLoggerSilentUnlessVerbose(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(false, &buf)
	log.Info("hello", map[string]interface{}{"a": 1})
	log.Error("boom", errors.New("x"), nil)
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}

func TestStdLoggerFormatsSortedFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(true, &buf)
	log.Warn("diverged", map[string]interface{}{"b": "two", "a": 1})
	log.Error("failed", errors.New("exit 1"), nil)

	out := buf.String()
	if !strings.Contains(out, "[WARN] diverged a=1 b=two") {
		t.Errorf("unexpected warn line: %q", out)
	}
	if !strings.Contains(out, "[ERROR] failed: exit 1") {
		t.Errorf("unexpected error line: %q", out)
	}
}
