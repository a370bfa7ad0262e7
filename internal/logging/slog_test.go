package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func newTestLogger(t *testing.T) (*SlogLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	return NewSlogLogger(slog.New(h)), &buf
}

func TestSlogLogger_Levels(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		level string
		log   func(l *SlogLogger)
	}{
		{"DEBUG", func(l *SlogLogger) { l.Debug(ctx, "msg-debug", "k", "v") }},
		{"INFO", func(l *SlogLogger) { l.Info(ctx, "msg-info", "k", "v") }},
		{"WARN", func(l *SlogLogger) { l.Warn(ctx, "msg-warn", "k", "v") }},
		{"ERROR", func(l *SlogLogger) { l.Error(ctx, "msg-error", "k", "v") }},
	}

	for _, tc := range cases {
		t.Run(tc.level, func(t *testing.T) {
			l, buf := newTestLogger(t)
			tc.log(l)
			out := buf.String()
			if !strings.Contains(out, "level="+tc.level) {
				t.Fatalf("expected level %s in output: %q", tc.level, out)
			}
			if !strings.Contains(out, "k=v") {
				t.Fatalf("expected attribute in output: %q", out)
			}
		})
	}
}

func TestSlogLogger_WithAddsFields(t *testing.T) {
	l, buf := newTestLogger(t)

	child := l.With("component", "session")
	child.Info(context.Background(), "hello")

	out := buf.String()
	if !strings.Contains(out, "component=session") {
		t.Fatalf("expected inherited field in output: %q", out)
	}

	// The parent logger must stay unaffected.
	buf.Reset()
	l.Info(context.Background(), "plain")
	if strings.Contains(buf.String(), "component=session") {
		t.Fatalf("parent logger must not carry child fields: %q", buf.String())
	}
}
