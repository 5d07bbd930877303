// Package png implements the structural layer of a PNG datastream: the
// signature, the chunk wire format, and an in-memory container that can
// insert, enumerate and delete chunks without touching the bytes of any
// chunk it was not asked to change.
//
// The package never decodes pixel data and never verifies chunk CRCs on
// read. Chunk payload semantics belong to the codecs built on top of it
// (see the zchunk and subfile packages).
package png

// PNG wire constants must never change.
const (
	// Signature is the fixed 8-byte prefix of every PNG datastream.
	Signature = "\x89PNG\r\n\x1a\n"

	// SignatureSize is len(Signature).
	SignatureSize = 8

	// MaxChunkLength is the largest payload a chunk may carry (2^31-1).
	MaxChunkLength = 1<<31 - 1
)

// Standard chunk type codes the container cares about.
const (
	TypeIHDR = "IHDR"
	TypeIDAT = "IDAT"
	TypeIEND = "IEND"
)

const (
	lengthSize      = 4
	typeSize        = 4
	crcSize         = 4
	chunkHeaderSize = lengthSize + typeSize
	chunkOverhead   = chunkHeaderSize + crcSize
)
