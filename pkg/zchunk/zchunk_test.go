package zchunk

import (
	"bytes"
	"compress/zlib"
	"errors"
	"io"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/samcharles93/pngfuse/pkg/png"
)

func TestPayloadRoundTrip(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(1, 2))
	random := make([]byte, 64<<10)
	for i := range random {
		random[i] = byte(rng.UintN(256))
	}

	keys := []string{"", "k", "Comment", "PNGFuse", strings.Repeat("K", MaxKeyLen)}
	values := [][]byte{
		nil,
		{},
		{0},
		[]byte("hello world"),
		bytes.Repeat([]byte("abc\x00"), 10000),
		random,
	}
	for _, key := range keys {
		for _, value := range values {
			payload, err := EncodePayload(key, value)
			if err != nil {
				t.Fatalf("encode key=%q len=%d: %v", key, len(value), err)
			}
			r, err := DecodePayload(payload)
			if err != nil {
				t.Fatalf("decode key=%q len=%d: %v", key, len(value), err)
			}
			if r.Key != key {
				t.Fatalf("key: got %q want %q", r.Key, key)
			}
			if !bytes.Equal(r.Value, value) {
				t.Fatalf("value mismatch for key=%q len=%d", key, len(value))
			}
		}
	}
}

func TestPayloadLayout(t *testing.T) {
	t.Parallel()

	payload, err := EncodePayload("Title", []byte("some text"))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !bytes.HasPrefix(payload, []byte("Title\x00\x00")) {
		t.Fatalf("payload prefix: %q", payload[:7])
	}
	// The remainder is a standard zlib stream.
	zr, err := zlib.NewReader(bytes.NewReader(payload[7:]))
	if err != nil {
		t.Fatalf("stdlib zlib reader: %v", err)
	}
	got, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("stdlib inflate: %v", err)
	}
	if string(got) != "some text" {
		t.Fatalf("inflated: got %q", got)
	}
}

func TestCompressIsSmallerForRedundantInput(t *testing.T) {
	t.Parallel()

	value := bytes.Repeat([]byte("compress me "), 4096)
	out, err := Compress(value)
	if err != nil {
		t.Fatalf("compress: %v", err)
	}
	if len(out) >= len(value)/20 {
		t.Fatalf("compressed size %d too large for %d redundant bytes", len(out), len(value))
	}
}

func TestEncodePayloadInvalidKey(t *testing.T) {
	t.Parallel()

	for _, key := range []string{strings.Repeat("k", MaxKeyLen+1), "a\x00b"} {
		if _, err := EncodePayload(key, nil); !errors.Is(err, ErrInvalidKey) {
			t.Fatalf("key %q: expected ErrInvalidKey, got %v", key, err)
		}
	}
}

func TestDecodePayloadErrors(t *testing.T) {
	t.Parallel()

	valid, err := Compress([]byte("x"))
	if err != nil {
		t.Fatalf("compress: %v", err)
	}

	cases := []struct {
		name    string
		payload []byte
		target  error
	}{
		{name: "empty", payload: nil, target: ErrCorruptChunk},
		{name: "no separator", payload: []byte("keyonly"), target: ErrCorruptChunk},
		{name: "separator is last byte", payload: []byte("key\x00"), target: ErrCorruptChunk},
		{name: "unknown method", payload: append([]byte("key\x00\x01"), valid...), target: ErrCorruptChunk},
		{name: "garbage stream", payload: []byte("key\x00\x00not zlib"), target: ErrDecompression},
		{name: "truncated stream", payload: append([]byte("key\x00\x00"), valid[:len(valid)-3]...), target: ErrDecompression},
		{name: "missing stream", payload: []byte("key\x00\x00"), target: ErrDecompression},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := DecodePayload(tc.payload)
			if !errors.Is(err, tc.target) {
				t.Fatalf("expected %v, got %v", tc.target, err)
			}
		})
	}
}

func TestCorruptChunkErrorTyped(t *testing.T) {
	t.Parallel()

	_, err := DecodePayload([]byte("key\x00\x07"))
	var cerr *CorruptChunkError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected *CorruptChunkError, got %T", err)
	}
	if !strings.Contains(cerr.Reason, "method 7") {
		t.Fatalf("reason: %q", cerr.Reason)
	}

	_, err = DecodePayload([]byte("key\x00\x00zz"))
	var derr *DecompressionError
	if !errors.As(err, &derr) {
		t.Fatalf("expected *DecompressionError, got %T", err)
	}
}

func TestCodecChunk(t *testing.T) {
	t.Parallel()

	codec := New("teXt", "Key")
	raw, err := codec.Encode(Record{Key: "KeyName", Value: []byte("value")})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	ch, err := png.ParseChunk(raw, 0)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if ch.Type() != "teXt" {
		t.Fatalf("type: got %q", ch.Type())
	}
	if ch.Len() != len(ch.Data()) || ch.CRC() != ch.ComputeCRC() {
		t.Fatalf("header fields are stale")
	}
	if !codec.Match(ch) {
		t.Fatalf("codec does not match its own chunk")
	}
	r, err := codec.Decode(ch)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if r.Key != "KeyName" || string(r.Value) != "value" {
		t.Fatalf("record: got %q=%q", r.Key, r.Value)
	}
}

func TestCodecMatch(t *testing.T) {
	t.Parallel()

	mk := func(typ string, data string) png.Chunk {
		t.Helper()
		raw, err := png.EncodeChunk(typ, []byte(data))
		if err != nil {
			t.Fatalf("encode chunk: %v", err)
		}
		ch, err := png.ParseChunk(raw, 0)
		if err != nil {
			t.Fatalf("parse chunk: %v", err)
		}
		return ch
	}

	prefixed := New("fuSe", "PNGFuse")
	cases := []struct {
		codec Codec
		chunk png.Chunk
		want  bool
	}{
		{ZTXt, mk("zTXt", "Comment\x00\x00junk"), true},
		{ZTXt, mk("zTXt", ""), true},
		{ZTXt, mk("tEXt", "Comment\x00hi"), false},
		{prefixed, mk("fuSe", "PNGFuse\x00\x00not even zlib"), true},
		{prefixed, mk("fuSe", "Other\x00\x00"), false},
		{prefixed, mk("fuSe", "PNG"), false},
		{prefixed, mk("zTXt", "PNGFuse\x00\x00"), false},
	}
	for i, tc := range cases {
		if got := tc.codec.Match(tc.chunk); got != tc.want {
			t.Fatalf("case %d: got %v want %v", i, got, tc.want)
		}
	}
}

func TestCodecDecodeNamesChunkType(t *testing.T) {
	t.Parallel()

	raw, err := png.EncodeChunk("zTXt", []byte("nosep"))
	if err != nil {
		t.Fatalf("encode chunk: %v", err)
	}
	ch, err := png.ParseChunk(raw, 0)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	_, err = ZTXt.Decode(ch)
	var cerr *CorruptChunkError
	if !errors.As(err, &cerr) || cerr.Type != "zTXt" {
		t.Fatalf("expected corrupt zTXt chunk error, got %v", err)
	}
}
