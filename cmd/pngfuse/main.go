package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "pngfuse",
		Usage: "fuse files into PNG metadata",
		UsageText: "pngfuse [--list] [--clean] [--overwrite] [--output PATH] fuse-host.png [files to fuse...]\n" +
			"pngfuse <command> [options]",
		Description: "Specify multiple files to fuse them into the first PNG listed,\n" +
			"or a single fused PNG to extract its subfiles (without removing them).\n" +
			"A path spelled like a command name (fuse, list, clean...) is taken as that\n" +
			"command; write it as ./list or give an absolute path instead.",
		ArgsUsage: "fuse-host.png [files to fuse...]",
		Writer:    os.Stdout,
		ErrWriter: os.Stderr,
		Flags:     append(append(loggingFlags(), outputFlags()...), dispatchFlags()...),
		Before:    setup,
		Action:    rootAction,
		Commands: []*cli.Command{
			fuseCmd(),
			extractCmd(),
			listCmd(),
			cleanCmd(),
			inspectCmd(),
			serveCmd(),
			versionCmd(),
		},
	}
}
