package main

import (
	"context"
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/pngfuse/internal/fusion"
)

func listCmd() *cli.Command {
	var (
		asJSON     bool
		showDigest bool
	)

	return &cli.Command{
		Name:      "list",
		Aliases:   []string{"ls"},
		Usage:     "List the subfiles present in fused PNGs",
		ArgsUsage: "fused.png [fused.png...]",
		Before:    setup,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "print entries as JSON", Destination: &asJSON},
			&cli.BoolFlag{Name: "digest", Usage: "include BLAKE3 digests", Destination: &showDigest},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() == 0 {
				return fmt.Errorf("list needs at least one PNG")
			}
			w := cmd.Root().Writer
			if asJSON {
				return listJSON(ctx, w, cmd.Args().Slice())
			}
			multi := cmd.NArg() > 1
			for _, src := range cmd.Args().Slice() {
				if multi {
					printHeader(w, src)
				}
				if err := runList(ctx, w, src, showDigest); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func runList(ctx context.Context, w io.Writer, source string, showDigest bool) error {
	entries, err := fusion.List(ctx, source)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if showDigest {
			_, _ = fmt.Fprintf(w, "%s : %d bytes : %s\n", e.Name, e.Size, e.Digest)
			continue
		}
		_, _ = fmt.Fprintf(w, "%s : %d bytes\n", e.Name, e.Size)
	}
	return nil
}

type listing struct {
	Image string         `json:"image"`
	Files []fusion.Entry `json:"files"`
}

func listJSON(ctx context.Context, w io.Writer, sources []string) error {
	out := make([]listing, 0, len(sources))
	for _, src := range sources {
		entries, err := fusion.List(ctx, src)
		if err != nil {
			return err
		}
		if entries == nil {
			entries = []fusion.Entry{}
		}
		out = append(out, listing{Image: src, Files: entries})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
