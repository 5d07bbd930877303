package fusion

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/samcharles93/pngfuse/internal/logger"
)

// Extracted is one file written by Extract.
type Extracted struct {
	Entry
	Path string `json:"path"`
}

// SafeName reduces an embedded file name to a plain base name. Names are
// untrusted input: directory components of either separator style are
// dropped, and names that would resolve to a directory are rejected.
func SafeName(name string) (string, error) {
	base := path.Base(strings.ReplaceAll(name, `\`, "/"))
	switch base {
	case "", ".", "..", "/":
		return "", fmt.Errorf("%w: %q", ErrUnsafeName, name)
	}
	return base, nil
}

// Extract writes every file embedded in source into dir. All records are
// decoded and every destination is checked before the first file is
// written. Existing files are only replaced when overwrite is set.
func Extract(ctx context.Context, source, dir string, overwrite bool) ([]Extracted, error) {
	log := logger.FromContext(ctx)

	files, err := Files(ctx, source)
	if err != nil {
		return nil, err
	}
	if dir == "" {
		dir = "."
	}

	out := make([]Extracted, len(files))
	seen := make(map[string]bool, len(files))
	for i, f := range files {
		name, err := SafeName(f.Name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", source, err)
		}
		dst := filepath.Join(dir, name)
		if !overwrite {
			if seen[dst] {
				return nil, fmt.Errorf("%s: %w", dst, fs.ErrExist)
			}
			if _, err := os.Lstat(dst); err == nil {
				return nil, fmt.Errorf("%s: %w", dst, fs.ErrExist)
			}
		}
		seen[dst] = true
		out[i] = Extracted{Entry: entries(files[i : i+1])[0], Path: dst}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	for i, f := range files {
		if err := writeFile(out[i].Path, f.Content, overwrite); err != nil {
			return out[:i], err
		}
		log.Debug("extracted file", "name", f.Name, "path", out[i].Path, "size", len(f.Content))
	}
	log.Info("extracted files", "source", source, "dir", dir, "files", len(out))
	return out, nil
}

func writeFile(name string, data []byte, overwrite bool) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(name, flags, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
