package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// rootAction keeps the classic positional interface: one PNG extracts,
// several paths fuse into the first PNG, and --list / --clean act on
// every path given.
func rootAction(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	if len(args) == 0 {
		return cli.ShowAppHelp(cmd)
	}
	w := cmd.Writer

	if !listMode && !cleanMode {
		if len(args) == 1 {
			dir := "."
			if cfg.ExtractDir != "" {
				dir = cfg.ExtractDir
			}
			return runExtract(ctx, w, args[0], dir)
		}
		return runFuse(ctx, w, args)
	}

	if cleanMode && len(args) > 1 && output != "" {
		return fmt.Errorf("--output cannot be used with more than one PNG")
	}
	for _, src := range args {
		if len(args) > 1 {
			printHeader(w, src)
		}
		if listMode {
			if err := runList(ctx, w, src, false); err != nil {
				return err
			}
		}
		if cleanMode {
			if err := runClean(ctx, w, src); err != nil {
				return err
			}
		}
	}
	return nil
}
