package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/pngfuse/internal/fusion"
)

func cleanCmd() *cli.Command {
	return &cli.Command{
		Name:      "clean",
		Usage:     "Remove all subfiles from fused PNGs",
		ArgsUsage: "fused.png [fused.png...]",
		Before:    setup,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() == 0 {
				return fmt.Errorf("clean needs at least one PNG")
			}
			if cmd.NArg() > 1 && output != "" {
				return fmt.Errorf("--output cannot be used with more than one PNG")
			}
			w := cmd.Root().Writer
			multi := cmd.NArg() > 1
			for _, src := range cmd.Args().Slice() {
				if multi {
					printHeader(w, src)
				}
				if err := runClean(ctx, w, src); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func runClean(ctx context.Context, w io.Writer, source string) error {
	dst, err := resolveOutput(source, output, overwrite, cleanedPath)
	if err != nil {
		return err
	}
	n, err := fusion.Clean(ctx, source, dst)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "%d subfile%s removed.\n", n, plural(n))
	return nil
}

// printHeader names the file being processed when several are given.
func printHeader(w io.Writer, source string) {
	_, _ = fmt.Fprintf(w, "%s:\n", filepath.Base(source))
}
