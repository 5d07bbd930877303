package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

const envConfig = "PNGFUSE_CONFIG"

// Config represents the pngfuse configuration file
// (~/.config/pngfuse/config.yaml). Pointer fields distinguish "not set"
// from zero values.
type Config struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	Workers   *int  `yaml:"workers"`
	Overwrite *bool `yaml:"overwrite"`

	ExtractDir string `yaml:"extract_dir"`

	// Server
	ServerAddress string `yaml:"server_address"`
	MaxUploadMB   *int64 `yaml:"max_upload_mb"`
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "pngfuse", "config.yaml")
}

// LoadConfig reads the config file at path. A missing file yields a zero
// Config; a file that exists but does not parse is an error.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return Config{}, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, err
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return c, nil
}

// applyGlobalConfig applies config file defaults to the global flags when
// the corresponding flag was not explicitly set.
func applyGlobalConfig(c *cli.Command, cfg Config) {
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
	if cfg.Workers != nil && !c.IsSet("workers") {
		workers = *cfg.Workers
	}
	if cfg.Overwrite != nil && !c.IsSet("overwrite") && !c.IsSet("output") {
		overwrite = *cfg.Overwrite
	}
}

// applyExtractConfig applies config file defaults to the extract command.
func applyExtractConfig(c *cli.Command, cfg Config, dir *string) {
	if cfg.ExtractDir != "" && !c.IsSet("dir") {
		*dir = cfg.ExtractDir
	}
}

// applyServeConfig applies config file defaults to the serve command.
func applyServeConfig(c *cli.Command, cfg Config, addr *string, maxUploadMB *int64) {
	if cfg.ServerAddress != "" && !c.IsSet("addr") {
		*addr = cfg.ServerAddress
	}
	if cfg.MaxUploadMB != nil && !c.IsSet("max-upload-mb") {
		*maxUploadMB = *cfg.MaxUploadMB
	}
}
