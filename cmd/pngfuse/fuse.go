package main

import (
	"context"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/pngfuse/internal/fusion"
)

func fuseCmd() *cli.Command {
	return &cli.Command{
		Name:      "fuse",
		Usage:     "Fuse files into the first PNG listed",
		ArgsUsage: "fuse-host.png file [file...]",
		Before:    setup,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() < 2 {
				return fmt.Errorf("fuse needs a host PNG and at least one file")
			}
			return runFuse(ctx, cmd.Root().Writer, cmd.Args().Slice())
		},
	}
}

func runFuse(ctx context.Context, w io.Writer, paths []string) error {
	target, files, err := fusion.FindTarget(paths)
	if err != nil {
		return err
	}
	dst, err := resolveOutput(target, output, overwrite, fusedPath)
	if err != nil {
		return err
	}
	res, err := fusion.Fuse(ctx, fusion.FuseRequest{
		Target:  target,
		Files:   files,
		Output:  dst,
		Workers: workers,
	})
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "%d subfile%s fused into %s\n", len(res.Added), plural(len(res.Added)), res.Output)
	return nil
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
