package zchunk

import (
	"errors"
	"fmt"
)

var (
	ErrCorruptChunk  = errors.New("zchunk: corrupt chunk")
	ErrCompression   = errors.New("zchunk: compression failed")
	ErrDecompression = errors.New("zchunk: decompression failed")
	ErrInvalidKey    = errors.New("zchunk: invalid key")
)

// CorruptChunkError reports a payload that does not follow the key/value
// layout. Type is the chunk type when known.
type CorruptChunkError struct {
	Type   string
	Reason string
}

func (e *CorruptChunkError) Error() string {
	if e.Type == "" {
		return "zchunk: corrupt chunk: " + e.Reason
	}
	return fmt.Sprintf("zchunk: corrupt %s chunk: %s", e.Type, e.Reason)
}

func (e *CorruptChunkError) Unwrap() error {
	return ErrCorruptChunk
}

// CompressionError wraps a failure of the zlib writer.
type CompressionError struct {
	Err error
}

func (e *CompressionError) Error() string {
	return "zchunk: compress: " + e.Err.Error()
}

func (e *CompressionError) Unwrap() []error {
	return []error{ErrCompression, e.Err}
}

// DecompressionError wraps a failure to inflate a stored value.
type DecompressionError struct {
	Err error
}

func (e *DecompressionError) Error() string {
	return "zchunk: decompress: " + e.Err.Error()
}

func (e *DecompressionError) Unwrap() []error {
	return []error{ErrDecompression, e.Err}
}

func corruptErr(typ, reason string) error {
	return &CorruptChunkError{Type: typ, Reason: reason}
}

func keyErr(key, reason string) error {
	return fmt.Errorf("%w %q: %s", ErrInvalidKey, key, reason)
}
