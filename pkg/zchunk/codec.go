package zchunk

import (
	"bytes"
	"errors"

	"github.com/samcharles93/pngfuse/pkg/png"
)

// Codec encodes and decodes Records as chunks of a fixed type. When
// KeyPrefix is set, only chunks whose payload starts with it match.
type Codec struct {
	Type      string
	KeyPrefix []byte
}

var _ png.Codec[Record] = Codec{}

// ZTXt matches every standard zTXt chunk.
var ZTXt = Codec{Type: TypeZTXt}

// New returns a codec for chunks of typ, optionally restricted to payloads
// starting with keyPrefix.
func New(typ string, keyPrefix string) Codec {
	c := Codec{Type: typ}
	if keyPrefix != "" {
		c.KeyPrefix = []byte(keyPrefix)
	}
	return c
}

// Encode compresses r.Value and wraps the payload in a chunk of c.Type.
func (c Codec) Encode(r Record) ([]byte, error) {
	payload, err := EncodePayload(r.Key, r.Value)
	if err != nil {
		return nil, err
	}
	return png.EncodeChunk(c.Type, payload)
}

// Decode parses the payload of ch. The stored CRC is not checked.
func (c Codec) Decode(ch png.Chunk) (Record, error) {
	r, err := DecodePayload(ch.Data())
	if err != nil {
		var cerr *CorruptChunkError
		if errors.As(err, &cerr) && cerr.Type == "" {
			cerr.Type = ch.Type()
		}
		return Record{}, err
	}
	return r, nil
}

// Match reports whether ch has type c.Type and, when set, a payload that
// begins with c.KeyPrefix. It never decompresses.
func (c Codec) Match(ch png.Chunk) bool {
	if !ch.IsType(c.Type) {
		return false
	}
	return len(c.KeyPrefix) == 0 || bytes.HasPrefix(ch.Data(), c.KeyPrefix)
}
