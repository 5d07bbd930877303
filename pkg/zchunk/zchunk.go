// Package zchunk implements the compressed key/value chunk payload used by
// PNG zTXt chunks, generalised to any chunk type:
//
//	key (1-79 bytes, no NUL) | 0x00 | method (0 = zlib) | zlib(value)
//
// The same layout carries private chunk kinds such as the embedded file
// records in the subfile package.
package zchunk

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zlib"
)

const (
	// TypeZTXt is the standard compressed text chunk type.
	TypeZTXt = "zTXt"

	// MaxKeyLen is the longest key a payload may carry.
	MaxKeyLen = 79

	// MethodZlib is the only defined compression method.
	MethodZlib byte = 0
)

// Record is one decoded key/value pair.
type Record struct {
	Key   string
	Value []byte
}

// Compress returns value as a zlib stream at the strongest setting: level
// 9 selects dynamic Huffman blocks over a 32 KiB window with lazy matching
// and match lengths 3 to 258.
func Compress(value []byte) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(len(value)/2 + 64)
	zw, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return nil, &CompressionError{Err: err}
	}
	if _, err := zw.Write(value); err != nil {
		return nil, &CompressionError{Err: err}
	}
	if err := zw.Close(); err != nil {
		return nil, &CompressionError{Err: err}
	}
	return buf.Bytes(), nil
}

// Decompress inflates a zlib stream.
func Decompress(compressed []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, &DecompressionError{Err: err}
	}
	defer func() { _ = zr.Close() }()
	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, &DecompressionError{Err: err}
	}
	return out, nil
}

// ValidateKey checks the key constraints of the payload layout.
func ValidateKey(key string) error {
	if len(key) > MaxKeyLen {
		return keyErr(key, "longer than 79 bytes")
	}
	if strings.IndexByte(key, 0) >= 0 {
		return keyErr(key, "contains NUL")
	}
	return nil
}

// EncodePayload builds the chunk payload for key and value.
func EncodePayload(key string, value []byte) ([]byte, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	compressed, err := Compress(value)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(key)+2+len(compressed))
	out = append(out, key...)
	out = append(out, 0, MethodZlib)
	out = append(out, compressed...)
	return out, nil
}

// DecodePayload splits a payload into key and decompressed value. The key
// separator must occur before the final byte so a method byte follows it.
func DecodePayload(data []byte) (Record, error) {
	if len(data) == 0 {
		return Record{}, corruptErr("", "empty payload")
	}
	sep := bytes.IndexByte(data[:len(data)-1], 0)
	if sep < 0 {
		return Record{}, corruptErr("", "missing key separator")
	}
	if method := data[sep+1]; method != MethodZlib {
		return Record{}, corruptErr("", fmt.Sprintf("unsupported compression method %d", method))
	}
	value, err := Decompress(data[sep+2:])
	if err != nil {
		return Record{}, err
	}
	return Record{Key: string(data[:sep]), Value: value}, nil
}
