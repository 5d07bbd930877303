package png

import (
	"bytes"
	"errors"
	"hash/crc32"
	"testing"

	"github.com/samcharles93/pngfuse/internal/pngtest"
)

func TestEncodeChunkMatchesReference(t *testing.T) {
	t.Parallel()

	cases := []struct {
		typ  string
		data []byte
	}{
		{typ: "IEND", data: nil},
		{typ: "tEXt", data: []byte("Title\x00hello")},
		{typ: "fuSe", data: bytes.Repeat([]byte{0xab}, 1000)},
	}
	for _, tc := range cases {
		got, err := EncodeChunk(tc.typ, tc.data)
		if err != nil {
			t.Fatalf("encode %s: %v", tc.typ, err)
		}
		if want := pngtest.Chunk(tc.typ, tc.data); !bytes.Equal(got, want) {
			t.Fatalf("%s: got %x want %x", tc.typ, got, want)
		}
	}
}

func TestEncodeChunkIEND(t *testing.T) {
	t.Parallel()

	got, err := EncodeChunk(TypeIEND, nil)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := []byte{0, 0, 0, 0, 'I', 'E', 'N', 'D', 0xae, 0x42, 0x60, 0x82}
	if !bytes.Equal(got, want) {
		t.Fatalf("IEND: got %x want %x", got, want)
	}
}

func TestEncodeChunkInvalidType(t *testing.T) {
	t.Parallel()

	for _, typ := range []string{"", "abc", "abcde", "ab1d", "ab d"} {
		if _, err := EncodeChunk(typ, nil); !errors.Is(err, ErrInvalidChunkType) {
			t.Fatalf("type %q: expected ErrInvalidChunkType, got %v", typ, err)
		}
	}
}

func TestParseChunkAccessors(t *testing.T) {
	t.Parallel()

	payload := []byte("Comment\x00hi")
	raw := pngtest.Chunk("tEXt", payload)
	buf := append([]byte("pad"), raw...)

	c, err := ParseChunk(buf, 3)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.Type() != "tEXt" || !c.IsType("tEXt") || c.IsType("zTXt") {
		t.Fatalf("type: got %q", c.Type())
	}
	if c.Len() != len(payload) {
		t.Fatalf("len: got %d want %d", c.Len(), len(payload))
	}
	if !bytes.Equal(c.Data(), payload) {
		t.Fatalf("data: got %q", c.Data())
	}
	if c.Size() != len(raw) || !bytes.Equal(c.Bytes(), raw) {
		t.Fatalf("raw bytes mismatch")
	}
	if c.Offset() != 3 {
		t.Fatalf("offset: got %d want 3", c.Offset())
	}
	wantCRC := crc32.ChecksumIEEE(append([]byte("tEXt"), payload...))
	if c.CRC() != wantCRC || c.ComputeCRC() != wantCRC {
		t.Fatalf("crc: stored %08x computed %08x want %08x", c.CRC(), c.ComputeCRC(), wantCRC)
	}
	if c.Critical() {
		t.Fatalf("tEXt reported as critical")
	}

	ihdr, err := ParseChunk(pngtest.IHDR(1, 1), 0)
	if err != nil {
		t.Fatalf("parse IHDR: %v", err)
	}
	if !ihdr.Critical() {
		t.Fatalf("IHDR reported as ancillary")
	}
}

func TestParseChunkBounds(t *testing.T) {
	t.Parallel()

	raw := pngtest.Chunk("tEXt", []byte("abc"))
	for _, n := range []int{0, 4, 7, len(raw) - 1} {
		if _, err := ParseChunk(raw[:n], 0); !errors.Is(err, ErrFormat) {
			t.Fatalf("len %d: expected ErrFormat, got %v", n, err)
		}
	}
	if _, err := ParseChunk(raw, -1); !errors.Is(err, ErrFormat) {
		t.Fatalf("negative offset: expected ErrFormat, got %v", err)
	}
	if _, err := ParseChunk(raw, len(raw)); !errors.Is(err, ErrFormat) {
		t.Fatalf("offset at end: expected ErrFormat, got %v", err)
	}
}

func TestCRCNotVerifiedOnScan(t *testing.T) {
	t.Parallel()

	data := sampleStream()
	spans := pngtest.Walk(t, data)
	// Corrupt the CRC of the tEXt chunk.
	data[spans[1].End-1] ^= 0xff

	img, err := Load(data)
	if err != nil {
		t.Fatalf("load with bad crc: %v", err)
	}
	for c, err := range img.Chunks() {
		if err != nil {
			t.Fatalf("scan: %v", err)
		}
		if c.IsType("tEXt") && c.CRC() == c.ComputeCRC() {
			t.Fatalf("expected stored crc to differ")
		}
	}
}
