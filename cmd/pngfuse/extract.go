package main

import (
	"context"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/pngfuse/internal/fusion"
)

func extractCmd() *cli.Command {
	var dir string

	return &cli.Command{
		Name:      "extract",
		Aliases:   []string{"sunder"},
		Usage:     "Extract the subfiles of a fused PNG (without removing them)",
		ArgsUsage: "fused.png [fused.png...]",
		Before:    setup,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "dir",
				Aliases:     []string{"d"},
				Usage:       "directory to write extracted files to",
				Value:       ".",
				Destination: &dir,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() == 0 {
				return fmt.Errorf("extract needs at least one PNG")
			}
			applyExtractConfig(cmd, cfg, &dir)
			for _, src := range cmd.Args().Slice() {
				if err := runExtract(ctx, cmd.Root().Writer, src, dir); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func runExtract(ctx context.Context, w io.Writer, source, dir string) error {
	out, err := fusion.Extract(ctx, source, dir, overwrite)
	if err != nil {
		return err
	}
	for _, f := range out {
		_, _ = fmt.Fprintf(w, "%s : %d bytes\n", f.Path, f.Size)
	}
	return nil
}
