package png

import (
	"encoding/binary"
	"hash/crc32"
)

// Chunk is a read-only view of one chunk inside a larger buffer. It holds
// the complete wire form: length, type, payload and CRC.
//
// A Chunk obtained from an Image aliases the image buffer and must not be
// used after the image is mutated.
type Chunk struct {
	raw    []byte
	offset int
}

// ParseChunk returns a view of the single chunk starting at off in buf.
// The chunk header and the payload it announces must fit inside buf.
func ParseChunk(buf []byte, off int) (Chunk, error) {
	if off < 0 || len(buf)-off < chunkHeaderSize {
		return Chunk{}, formatErr(off, "truncated chunk header")
	}
	n := binary.BigEndian.Uint32(buf[off:])
	if n > MaxChunkLength {
		return Chunk{}, formatErr(off, "chunk length exceeds 2^31-1")
	}
	end := uint64(off) + chunkOverhead + uint64(n)
	if end > uint64(len(buf)) {
		return Chunk{}, formatErr(off, "chunk extends past end of data")
	}
	return Chunk{raw: buf[off:int(end)], offset: off}, nil
}

// EncodeChunk wraps data in a chunk of the given type, computing the
// length field and the CRC over type and payload.
func EncodeChunk(typ string, data []byte) ([]byte, error) {
	if !validType(typ) {
		return nil, ErrInvalidChunkType
	}
	if uint64(len(data)) > MaxChunkLength {
		return nil, ErrChunkTooLarge
	}
	out := make([]byte, chunkOverhead+len(data))
	binary.BigEndian.PutUint32(out, uint32(len(data)))
	copy(out[lengthSize:], typ)
	copy(out[chunkHeaderSize:], data)
	crc := crc32.ChecksumIEEE(out[lengthSize : chunkHeaderSize+len(data)])
	binary.BigEndian.PutUint32(out[chunkHeaderSize+len(data):], crc)
	return out, nil
}

// Type returns the 4-byte chunk type code.
func (c Chunk) Type() string {
	if len(c.raw) < chunkHeaderSize {
		return ""
	}
	return string(c.raw[lengthSize:chunkHeaderSize])
}

// IsType reports whether the chunk type equals typ without allocating.
func (c Chunk) IsType(typ string) bool {
	return len(c.raw) >= chunkHeaderSize && string(c.raw[lengthSize:chunkHeaderSize]) == typ
}

// Data returns the chunk payload.
func (c Chunk) Data() []byte {
	if len(c.raw) < chunkOverhead {
		return nil
	}
	return c.raw[chunkHeaderSize : len(c.raw)-crcSize]
}

// Len returns the payload length as recorded in the header.
func (c Chunk) Len() int {
	if len(c.raw) < lengthSize {
		return 0
	}
	return int(binary.BigEndian.Uint32(c.raw))
}

// Size returns the number of bytes the chunk occupies on the wire.
func (c Chunk) Size() int {
	return len(c.raw)
}

// Offset returns the position of the chunk within the buffer it was
// parsed from.
func (c Chunk) Offset() int {
	return c.offset
}

// Bytes returns the complete wire form of the chunk.
func (c Chunk) Bytes() []byte {
	return c.raw
}

// CRC returns the stored checksum.
func (c Chunk) CRC() uint32 {
	if len(c.raw) < chunkOverhead {
		return 0
	}
	return binary.BigEndian.Uint32(c.raw[len(c.raw)-crcSize:])
}

// ComputeCRC recomputes the checksum over type and payload. Reads never
// call it; it exists for diagnostics.
func (c Chunk) ComputeCRC() uint32 {
	if len(c.raw) < chunkOverhead {
		return 0
	}
	return crc32.ChecksumIEEE(c.raw[lengthSize : len(c.raw)-crcSize])
}

// Critical reports whether the chunk is critical (upper-case first letter
// of the type code).
func (c Chunk) Critical() bool {
	return len(c.raw) >= chunkHeaderSize && c.raw[lengthSize]&0x20 == 0
}

func validType(typ string) bool {
	if len(typ) != typeSize {
		return false
	}
	for i := 0; i < typeSize; i++ {
		b := typ[i]
		if (b < 'A' || b > 'Z') && (b < 'a' || b > 'z') {
			return false
		}
	}
	return true
}
