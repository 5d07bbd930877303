package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestForFormat(t *testing.T) {
	t.Parallel()

	cases := []struct {
		format string
		want   []string
	}{
		{format: "json", want: []string{`"msg":"fused"`, `"files":2`, `"level":"INFO"`}},
		{format: "text", want: []string{"msg=fused", "files=2"}},
		{format: "pretty", want: []string{"fused", "files=2"}},
		{format: "", want: []string{"fused", "files=2"}},
	}
	for _, tc := range cases {
		var buf bytes.Buffer
		log, err := ForFormat(&buf, tc.format, slog.LevelInfo)
		if err != nil {
			t.Fatalf("%q: %v", tc.format, err)
		}
		log.Debug("hidden")
		log.Info("fused", "files", 2)
		out := buf.String()
		for _, w := range tc.want {
			if !strings.Contains(out, w) {
				t.Fatalf("%q: expected %q in output, got: %s", tc.format, w, out)
			}
		}
		if strings.Contains(out, "hidden") {
			t.Fatalf("%q: debug record leaked at info level: %s", tc.format, out)
		}
	}

	if _, err := ForFormat(&bytes.Buffer{}, "xml", slog.LevelInfo); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"WARN", slog.LevelWarn},
		{" Error ", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tc := range tests {
		if got := ParseLevel(tc.input); got != tc.want {
			t.Errorf("ParseLevel(%q): got %v want %v", tc.input, got, tc.want)
		}
	}
}

func TestContextLogger(t *testing.T) {
	t.Parallel()

	if FromContext(context.Background()) == nil {
		t.Fatal("FromContext without a logger returned nil")
	}

	var buf bytes.Buffer
	ctx := WithContext(context.Background(), JSON(&buf, slog.LevelWarn))
	log := FromContext(ctx).With("source", "host.png")
	log.Info("dropped")
	log.Warn("no image data")
	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Fatalf("info record written at warn level: %s", out)
	}
	if !strings.Contains(out, `"source":"host.png"`) || !strings.Contains(out, "no image data") {
		t.Fatalf("expected warn record with attrs, got: %s", out)
	}
}

func TestPrettyAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := Pretty(&buf, slog.LevelDebug).WithGroup("req").With("id", "abc")
	log.Info("extracted files", "dir", "out dir", "files", 3)
	out := buf.String()
	for _, want := range []string{"extracted files", "req.id=abc", `req.dir="out dir"`, "req.files=3"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output, got: %s", want, out)
		}
	}
}

func TestPrettyNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer
	log := Pretty(&buf, slog.LevelInfo).With("image", "host.png")
	log.Info("cleaned", "removed", 2)
	if strings.Contains(buf.String(), "\033[") {
		t.Fatalf("expected no ANSI codes with NO_COLOR set, got: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "removed=2") {
		t.Fatalf("expected attrs in output, got: %q", buf.String())
	}
}
