package gorecord_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/reoring/gorecord"
)

func TestNewLogger_LevelAndFormat(t *testing.T) {
	var buf bytes.Buffer
	s := gorecord.MustNew[Line](gorecord.Options{Logger: gorecord.NewLogger("debug", "json", &buf)})
	if _, err := s.Save(nil, map[string]any{"a": map[string]any{"x": 1}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `"msg":"child created"`) || !strings.Contains(out, `"field":"a"`) {
		t.Fatalf("expected a debug record for the created child, got:\n%s", out)
	}

	buf.Reset()
	s = gorecord.MustNew[Line](gorecord.Options{Logger: gorecord.NewLogger("info", "text", &buf)})
	if _, err := s.Save(nil, map[string]any{"a": map[string]any{"x": 1}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("debug records should be filtered at info level, got:\n%s", buf.String())
	}
}

func TestLoggerFromContext(t *testing.T) {
	var buf bytes.Buffer
	l := gorecord.NewLogger("warn", "text", &buf)
	if got := gorecord.LoggerFrom(gorecord.WithLogger(context.Background(), l)); got != l {
		t.Fatalf("logger not carried by the context")
	}
	// Without a logger the fallback discards.
	gorecord.LoggerFrom(context.Background()).Error("dropped")
	if buf.Len() != 0 {
		t.Fatalf("unexpected output: %s", buf.String())
	}
}
