package png

import (
	"bytes"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
	"slices"

	"github.com/google/uuid"
)

// Image owns a complete PNG datastream held in memory.
//
// All mutation happens on the in-memory buffer; nothing reaches disk until
// Save. Image is not safe for concurrent mutation.
type Image struct {
	data     []byte
	insertAt int
	// mapped is set while data is a read-only file mapping.
	mapped bool
}

// Load takes ownership of data, verifies the signature and locates the
// insertion offset: the position right after the first contiguous run of
// IDAT chunks.
func Load(data []byte) (*Image, error) {
	if len(data) < SignatureSize || string(data[:SignatureSize]) != Signature {
		return nil, formatErr(0, "missing PNG signature")
	}
	off, err := findInsertionOffset(data)
	if err != nil {
		return nil, err
	}
	return &Image{data: data, insertAt: off}, nil
}

// LoadFile reads path in full and loads it.
func LoadFile(path string) (*Image, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	img, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// MapFile loads path for reading. Where the platform allows it the file is
// mapped read-only instead of copied; the returned close func releases the
// mapping. Neither the image nor any chunk taken from it may be used after
// close unless the image was mutated first, which copies the buffer.
func MapFile(path string) (*Image, func() error, error) {
	data, release, err := mapFile(path)
	if err != nil {
		return nil, nil, err
	}
	img, err := Load(data)
	if err != nil {
		if release != nil {
			_ = release()
		}
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	if release == nil {
		return img, func() error { return nil }, nil
	}
	img.mapped = true
	return img, release, nil
}

// own moves a mapped buffer into memory ahead of a mutation.
func (img *Image) own() {
	if img.mapped {
		img.data = bytes.Clone(img.data)
		img.mapped = false
	}
}

func findInsertionOffset(data []byte) (int, error) {
	off := SignatureSize
	inRun := false
	for off < len(data) {
		c, err := ParseChunk(data, off)
		if err != nil {
			return 0, err
		}
		isIDAT := c.IsType(TypeIDAT)
		if inRun && !isIDAT {
			return off, nil
		}
		inRun = isIDAT
		off += c.Size()
	}
	if inRun {
		return off, nil
	}
	return 0, formatErr(len(data), "no image data chunk")
}

// Bytes returns the current datastream. The slice aliases the image
// buffer until the next mutation.
func (img *Image) Bytes() []byte {
	return img.data
}

// Len returns the size of the datastream in bytes.
func (img *Image) Len() int {
	return len(img.data)
}

// InsertionOffset returns the byte position new chunks are spliced at.
func (img *Image) InsertionOffset() int {
	return img.insertAt
}

// Chunks returns a lazy sequence over every chunk from the end of the
// signature to the end of the buffer. A malformed header yields a
// *FormatError and ends the sequence. The sequence may be ranged over
// any number of times.
func (img *Image) Chunks() iter.Seq2[Chunk, error] {
	return func(yield func(Chunk, error) bool) {
		for off := SignatureSize; off < len(img.data); {
			c, err := ParseChunk(img.data, off)
			if err != nil {
				yield(Chunk{}, err)
				return
			}
			if !yield(c, nil) {
				return
			}
			off += c.Size()
		}
	}
}

// Insert splices already-encoded chunks at the insertion offset. The
// chunks appear in the stream in argument order, and the insertion offset
// moves past them so a later Insert lands after this one.
func (img *Image) Insert(encoded ...[]byte) error {
	total := 0
	for i, b := range encoded {
		c, err := ParseChunk(b, 0)
		if err != nil {
			return fmt.Errorf("insert chunk %d: %w", i, err)
		}
		if c.Size() != len(b) {
			return fmt.Errorf("insert chunk %d: %w", i, formatErr(c.Size(), "trailing bytes after chunk"))
		}
		total += len(b)
	}
	if total == 0 {
		return nil
	}
	img.own()
	joined := make([]byte, 0, total)
	for _, b := range encoded {
		joined = append(joined, b...)
	}
	img.data = slices.Insert(img.data, img.insertAt, joined...)
	img.insertAt += total
	return nil
}

type byteRange struct {
	start, end int
}

// Delete removes every chunk for which match returns true and reports how
// many chunks were removed. Matching chunks are gathered into maximal
// contiguous ranges during one forward scan and removed back-to-front. A
// malformed stream is reported before anything is removed.
func (img *Image) Delete(match func(Chunk) bool) (int, error) {
	var (
		ranges []byteRange
		count  int
		open   = -1
	)
	for c, err := range img.Chunks() {
		if err != nil {
			return 0, err
		}
		if match(c) {
			count++
			if open < 0 {
				open = c.Offset()
			}
			continue
		}
		if open >= 0 {
			ranges = append(ranges, byteRange{open, c.Offset()})
			open = -1
		}
	}
	if open >= 0 {
		ranges = append(ranges, byteRange{open, len(img.data)})
	}

	if len(ranges) > 0 {
		img.own()
	}
	for i := len(ranges) - 1; i >= 0; i-- {
		r := ranges[i]
		img.data = slices.Delete(img.data, r.start, r.end)
		switch {
		case r.end <= img.insertAt:
			img.insertAt -= r.end - r.start
		case r.start < img.insertAt:
			img.insertAt = r.start
		}
	}
	return count, nil
}

// WriteTo writes the datastream verbatim.
func (img *Image) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(img.data)
	return int64(n), err
}

// Save writes the datastream verbatim to path. The bytes go to a sibling
// temporary file first which is then renamed over path, so a failed save
// leaves any existing file untouched.
func (img *Image) Save(path string) (err error) {
	perm := os.FileMode(0o644)
	if st, statErr := os.Stat(path); statErr == nil {
		perm = st.Mode().Perm()
	}

	tmp := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+"."+uuid.NewString()+".tmp")
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(tmp)
		}
	}()

	if _, err = img.WriteTo(f); err != nil {
		return err
	}
	if err = f.Sync(); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
