// Package fusion implements the user-facing actions on fused images: fuse
// files into a host PNG, extract or list them, and clean them out again.
//
// Every action works on an in-memory copy of the image. Output is only
// written once the whole action has succeeded.
package fusion

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zeebo/blake3"

	"github.com/samcharles93/pngfuse/internal/logger"
	"github.com/samcharles93/pngfuse/pkg/png"
	"github.com/samcharles93/pngfuse/pkg/subfile"
)

var (
	ErrNoTarget   = errors.New("could not find a target PNG to fuse into")
	ErrNoFiles    = errors.New("no files to fuse")
	ErrUnsafeName = errors.New("unsafe embedded file name")
	ErrNotFound   = errors.New("embedded file not found")
)

// Entry describes one embedded file without its content.
type Entry struct {
	Name   string `json:"name"`
	Size   int    `json:"size"`
	Digest string `json:"blake3"`
}

// FuseRequest names the host image, the files to embed and where the
// result goes. Output must be a concrete path; naming policy belongs to
// the caller.
type FuseRequest struct {
	Target  string
	Files   []string
	Output  string
	Workers int
}

// FuseResult reports what Fuse wrote.
type FuseResult struct {
	Output string
	Added  []Entry
	Size   int
}

// FindTarget picks the first path with a .png extension (any case) as the
// host image and returns it together with the remaining paths in order.
func FindTarget(paths []string) (string, []string, error) {
	for i, p := range paths {
		if strings.EqualFold(filepath.Ext(p), ".png") {
			rest := make([]string, 0, len(paths)-1)
			rest = append(rest, paths[:i]...)
			rest = append(rest, paths[i+1:]...)
			return p, rest, nil
		}
	}
	return "", nil, ErrNoTarget
}

// Fuse embeds req.Files into req.Target and saves the result to
// req.Output. Each file is stored under its base name, in the order given.
func Fuse(ctx context.Context, req FuseRequest) (FuseResult, error) {
	log := logger.FromContext(ctx)
	if len(req.Files) == 0 {
		return FuseResult{}, ErrNoFiles
	}
	if req.Output == "" {
		return FuseResult{}, errors.New("fuse: output path is required")
	}

	img, err := png.LoadFile(req.Target)
	if err != nil {
		return FuseResult{}, err
	}
	log.Debug("loaded target", "path", req.Target, "size", img.Len(), "insertion_offset", img.InsertionOffset())

	files := make([]subfile.File, 0, len(req.Files))
	for _, p := range req.Files {
		if err := ctx.Err(); err != nil {
			return FuseResult{}, err
		}
		content, err := os.ReadFile(p)
		if err != nil {
			return FuseResult{}, err
		}
		files = append(files, subfile.File{Name: filepath.Base(p), Content: content})
	}

	if err := fuseInto(ctx, img, files, req.Workers); err != nil {
		return FuseResult{}, err
	}
	if err := ctx.Err(); err != nil {
		return FuseResult{}, err
	}
	if err := img.Save(req.Output); err != nil {
		return FuseResult{}, err
	}
	log.Info("fused files", "target", req.Target, "output", req.Output, "files", len(files), "size", img.Len())

	return FuseResult{Output: req.Output, Added: entries(files), Size: img.Len()}, nil
}

// FuseBytes embeds files into the PNG held in data and returns the new
// datastream. data is not modified.
func FuseBytes(ctx context.Context, data []byte, files []subfile.File, workers int) ([]byte, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	img, err := png.Load(bytes.Clone(data))
	if err != nil {
		return nil, err
	}
	if err := fuseInto(ctx, img, files, workers); err != nil {
		return nil, err
	}
	return img.Bytes(), nil
}

func fuseInto(ctx context.Context, img *png.Image, files []subfile.File, workers int) error {
	for _, f := range files {
		if err := subfile.ValidateName(f.Name); err != nil {
			return err
		}
	}
	if err := png.InsertValues[subfile.File](img, subfile.Codec{}, workers, files...); err != nil {
		return err
	}
	logger.FromContext(ctx).Debug("inserted records", "count", len(files), "insertion_offset", img.InsertionOffset())
	return nil
}

// Files decodes every embedded file in source, in stream order. The image
// is mapped rather than read; decoded contents never alias the mapping.
func Files(ctx context.Context, source string) (_ []subfile.File, err error) {
	img, closeImg, err := png.MapFile(source)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := closeImg(); cerr != nil && err == nil {
			err = fmt.Errorf("%s: %w", source, cerr)
		}
	}()
	files, err := png.Collect(png.Records[subfile.File](img, subfile.Codec{}))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	logger.FromContext(ctx).Debug("decoded records", "path", source, "count", len(files))
	return files, nil
}

// List describes every embedded file in source.
func List(ctx context.Context, source string) ([]Entry, error) {
	files, err := Files(ctx, source)
	if err != nil {
		return nil, err
	}
	return entries(files), nil
}

// ListBytes describes every embedded file in the PNG held in data.
func ListBytes(data []byte) ([]Entry, error) {
	files, err := filesFromBytes(data)
	if err != nil {
		return nil, err
	}
	return entries(files), nil
}

// ExtractBytes returns the first embedded file called name.
func ExtractBytes(data []byte, name string) (subfile.File, error) {
	img, err := png.Load(data)
	if err != nil {
		return subfile.File{}, err
	}
	for f, err := range png.Records[subfile.File](img, subfile.Codec{}) {
		if err != nil {
			return subfile.File{}, err
		}
		if f.Name == name {
			return f, nil
		}
	}
	return subfile.File{}, fmt.Errorf("%w: %q", ErrNotFound, name)
}

func filesFromBytes(data []byte) ([]subfile.File, error) {
	img, err := png.Load(data)
	if err != nil {
		return nil, err
	}
	return png.Collect(png.Records[subfile.File](img, subfile.Codec{}))
}

// Clean removes every embedded file from source, saves the result to
// output and returns how many records were removed.
func Clean(ctx context.Context, source, output string) (int, error) {
	img, err := png.LoadFile(source)
	if err != nil {
		return 0, err
	}
	n, err := png.DeleteMatching(img, subfile.Codec{})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", source, err)
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := img.Save(output); err != nil {
		return 0, err
	}
	logger.FromContext(ctx).Info("cleaned image", "source", source, "output", output, "removed", n)
	return n, nil
}

// CleanBytes removes every embedded file from the PNG held in data. data
// is not modified.
func CleanBytes(data []byte) ([]byte, int, error) {
	img, err := png.Load(bytes.Clone(data))
	if err != nil {
		return nil, 0, err
	}
	n, err := png.DeleteMatching(img, subfile.Codec{})
	if err != nil {
		return nil, 0, err
	}
	return img.Bytes(), n, nil
}

func entries(files []subfile.File) []Entry {
	out := make([]Entry, len(files))
	for i, f := range files {
		sum := blake3.Sum256(f.Content)
		out[i] = Entry{Name: f.Name, Size: len(f.Content), Digest: hex.EncodeToString(sum[:])}
	}
	return out
}
