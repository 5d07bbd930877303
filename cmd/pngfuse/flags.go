package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/pngfuse/internal/logger"
)

var (
	logLevel   string
	logFormat  string
	debug      bool
	configFile string

	overwrite bool
	output    string
	workers   int

	listMode  bool
	cleanMode bool

	// cfg is the loaded config file, filled in by setup.
	cfg Config
)

func loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "warn",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, json, text)",
			Value:       "pretty",
			Destination: &logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &debug,
		},
		&cli.StringFlag{
			Name:        "config",
			Usage:       "path to config.yaml",
			Sources:     cli.EnvVars(envConfig),
			Destination: &configFile,
		},
	}
}

func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:        "overwrite",
			Aliases:     []string{"m", "modify"},
			Usage:       "modify the input files when fusing or cleaning instead of creating new ones",
			Destination: &overwrite,
		},
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "custom output path for the result of a fuse or clean operation",
			Destination: &output,
		},
		&cli.IntFlag{
			Name:        "workers",
			Aliases:     []string{"j"},
			Usage:       "parallel encoders when fusing several files (0 = one per CPU)",
			Destination: &workers,
		},
	}
}

func dispatchFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:        "list",
			Aliases:     []string{"l"},
			Usage:       "list the subfiles present in a fused PNG",
			Destination: &listMode,
		},
		&cli.BoolFlag{
			Name:        "clean",
			Aliases:     []string{"c", "remove", "r"},
			Usage:       "remove all subfiles from a fused PNG",
			Destination: &cleanMode,
		},
	}
}

// setup loads the config file, applies it to flags the user did not set
// and stores a logger in the context. It runs before every command so
// flags given after a subcommand name are honoured.
func setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	path := configFile
	if path == "" {
		path = defaultConfigPath()
	}
	loaded, err := LoadConfig(path)
	if err != nil {
		return ctx, err
	}
	cfg = loaded
	applyGlobalConfig(cmd, cfg)

	level := logger.ParseLevel(logLevel)
	if debug {
		level = slog.LevelDebug
	}
	log, err := logger.ForFormat(os.Stderr, logFormat, level)
	if err != nil {
		return ctx, err
	}
	return logger.WithContext(ctx, log), nil
}
