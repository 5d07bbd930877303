package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/pngfuse/internal/fusion"
)

func inspectCmd() *cli.Command {
	var asJSON bool

	return &cli.Command{
		Name:      "inspect",
		Usage:     "Show the chunk layout of a PNG",
		ArgsUsage: "image.png",
		Before:    setup,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "print chunks as JSON", Destination: &asJSON},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("inspect needs exactly one PNG")
			}
			src := cmd.Args().First()
			chunks, off, err := fusion.Inspect(src)
			if err != nil {
				return err
			}
			w := cmd.Root().Writer
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					Image           string             `json:"image"`
					InsertionOffset int                `json:"insertion_offset"`
					Chunks          []fusion.ChunkInfo `json:"chunks"`
				}{src, off, chunks})
			}
			return printChunks(w, chunks, off)
		},
	}
}

func printChunks(w io.Writer, chunks []fusion.ChunkInfo, insertionOffset int) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "OFFSET\tTYPE\tLENGTH\tCRC\tNOTES")
	for _, c := range chunks {
		notes := ""
		if c.Embedded {
			notes = "subfile"
		}
		if !c.CRCValid() {
			notes = joinNote(notes, fmt.Sprintf("crc mismatch (computed %08x)", c.ComputedCRC))
		}
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%d\t%08x\t%s\n", c.Offset, c.Type, c.Length, c.CRC, notes)
	}
	_, _ = fmt.Fprintf(tw, "%d\t-\t\t\tinsertion offset\n", insertionOffset)
	return tw.Flush()
}

func joinNote(a, b string) string {
	if a == "" {
		return b
	}
	return a + ", " + b
}
