package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte("log_level: debug\nworkers: 3\noverwrite: false\nextract_dir: /tmp/x\nserver_address: 0.0.0.0:9000\nmax_upload_mb: 8\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LogLevel != "debug" || cfg.ExtractDir != "/tmp/x" || cfg.ServerAddress != "0.0.0.0:9000" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Workers == nil || *cfg.Workers != 3 {
		t.Fatalf("workers: got %v", cfg.Workers)
	}
	if cfg.Overwrite == nil || *cfg.Overwrite {
		t.Fatalf("overwrite should be set to false, got %v", cfg.Overwrite)
	}
	if cfg.MaxUploadMB == nil || *cfg.MaxUploadMB != 8 {
		t.Fatalf("max upload: got %v", cfg.MaxUploadMB)
	}
	if cfg.LogFormat != "" {
		t.Fatalf("log format should be unset, got %q", cfg.LogFormat)
	}
}

func TestLoadConfigMissingAndMalformed(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
	if err != nil {
		t.Fatalf("missing file: %v", err)
	}
	if cfg.Workers != nil || cfg.LogLevel != "" {
		t.Fatalf("expected zero config, got %+v", cfg)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("workers: [not an int"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadConfig(bad); err == nil {
		t.Fatalf("expected error for malformed config")
	}
}
