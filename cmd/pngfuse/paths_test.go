package main

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestFusedPath(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"host.png":                      "host.fused.png",
		"HOST.PNG":                      "HOST.fused.PNG",
		filepath.Join("a.dir", "x.png"): filepath.Join("a.dir", "x.fused.png"),
		"noext":                         "noext.fused",
	}
	for in, want := range cases {
		if got := fusedPath(in); got != want {
			t.Fatalf("fusedPath(%q): got %q want %q", in, got, want)
		}
	}
}

func TestCleanedPath(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"host.fused.png": "host.png",
		"host.FUSED.png": "host.png",
		"host.png":       "host.unfused.png",
		filepath.Join("dir.fused", "img.png"): filepath.Join("dir.fused", "img.unfused.png"),
	}
	for in, want := range cases {
		if got := cleanedPath(in); got != want {
			t.Fatalf("cleanedPath(%q): got %q want %q", in, got, want)
		}
	}
}

func TestResolveOutput(t *testing.T) {
	t.Parallel()

	t.Run("explicit output wins", func(t *testing.T) {
		t.Parallel()
		got, err := resolveOutput("in.png", " out/../res.png ", false, fusedPath)
		if err != nil {
			t.Fatalf("resolveOutput returned error: %v", err)
		}
		if got != "res.png" {
			t.Fatalf("unexpected output path: got %q want %q", got, "res.png")
		}
	})

	t.Run("overwrite reuses source", func(t *testing.T) {
		t.Parallel()
		got, err := resolveOutput("in.png", "", true, fusedPath)
		if err != nil {
			t.Fatalf("resolveOutput returned error: %v", err)
		}
		if got != "in.png" {
			t.Fatalf("unexpected output path: got %q", got)
		}
	})

	t.Run("default derives a name", func(t *testing.T) {
		t.Parallel()
		got, err := resolveOutput("in.fused.png", "", false, cleanedPath)
		if err != nil {
			t.Fatalf("resolveOutput returned error: %v", err)
		}
		if got != "in.png" {
			t.Fatalf("unexpected output path: got %q", got)
		}
	})

	t.Run("overwrite and output conflict", func(t *testing.T) {
		t.Parallel()
		if _, err := resolveOutput("in.png", "out.png", true, fusedPath); !errors.Is(err, errOverwriteAndOutput) {
			t.Fatalf("expected errOverwriteAndOutput, got %v", err)
		}
	})
}
