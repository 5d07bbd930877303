// Package pngtest builds PNG datastreams for tests. It encodes chunks on
// its own so tests can check the png package against an independent
// implementation.
package pngtest

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"testing"
)

const signature = "\x89PNG\r\n\x1a\n"

// Chunk returns the wire form of one chunk.
func Chunk(typ string, data []byte) []byte {
	out := make([]byte, 0, 12+len(data))
	out = binary.BigEndian.AppendUint32(out, uint32(len(data)))
	out = append(out, typ...)
	out = append(out, data...)
	return binary.BigEndian.AppendUint32(out, crc32.ChecksumIEEE(out[4:]))
}

// Stream returns the signature followed by chunks.
func Stream(chunks ...[]byte) []byte {
	out := []byte(signature)
	for _, c := range chunks {
		out = append(out, c...)
	}
	return out
}

// IHDR returns a header chunk for a w x h 8-bit greyscale image.
func IHDR(w, h uint32) []byte {
	data := make([]byte, 13)
	binary.BigEndian.PutUint32(data[0:], w)
	binary.BigEndian.PutUint32(data[4:], h)
	data[8] = 8
	return Chunk("IHDR", data)
}

// IEND returns the terminal chunk.
func IEND() []byte {
	return Chunk("IEND", nil)
}

// Encode returns a real w x h greyscale image produced by image/png.
func Encode(t testing.TB, w, h int) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8(x*31 + y*17)})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// Span is one chunk found by Walk.
type Span struct {
	Type  string
	Start int
	End   int
}

// Walk lists the chunks of a datastream, failing t on malformed input.
func Walk(t testing.TB, data []byte) []Span {
	t.Helper()
	if len(data) < 8 || string(data[:8]) != signature {
		t.Fatalf("missing png signature")
	}
	var spans []Span
	for off := 8; off < len(data); {
		if len(data)-off < 12 {
			t.Fatalf("truncated chunk at %d", off)
		}
		n := int(binary.BigEndian.Uint32(data[off:]))
		end := off + 12 + n
		if end > len(data) {
			t.Fatalf("chunk at %d overruns data", off)
		}
		spans = append(spans, Span{Type: string(data[off+4 : off+8]), Start: off, End: end})
		off = end
	}
	return spans
}

// Types lists the chunk types of a datastream in order.
func Types(t testing.TB, data []byte) []string {
	t.Helper()
	spans := Walk(t, data)
	out := make([]string, len(spans))
	for i, s := range spans {
		out[i] = s.Type
	}
	return out
}

// Decode checks that data still decodes as an image.
func Decode(t testing.TB, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	return img
}
