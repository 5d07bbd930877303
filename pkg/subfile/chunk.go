package subfile

import (
	"strconv"

	"github.com/samcharles93/pngfuse/pkg/png"
	"github.com/samcharles93/pngfuse/pkg/zchunk"
)

const (
	// ChunkType is the private, ancillary chunk type holding embedded
	// files.
	ChunkType = "fuSe"

	// Keyword is the fixed key of every embedded file chunk.
	Keyword = "PNGFuse"
)

var base = zchunk.New(ChunkType, Keyword)

// Codec is the png.Codec for embedded files.
type Codec struct{}

var _ png.Codec[File] = Codec{}

// Encode merges f and encodes it as a compressed fuSe chunk.
func (Codec) Encode(f File) ([]byte, error) {
	merged, err := Merge(f.Name, f.Content)
	if err != nil {
		return nil, err
	}
	return base.Encode(zchunk.Record{Key: Keyword, Value: merged})
}

// Decode inflates a fuSe chunk and splits its record. A key other than
// Keyword is a corrupt chunk.
func (Codec) Decode(ch png.Chunk) (File, error) {
	r, err := base.Decode(ch)
	if err != nil {
		return File{}, err
	}
	if r.Key != Keyword {
		return File{}, &zchunk.CorruptChunkError{Type: ChunkType, Reason: "unexpected keyword " + strconv.Quote(r.Key)}
	}
	return Split(r.Value)
}

// Match reports whether ch is a fuSe chunk whose payload starts with the
// keyword. The payload is not decompressed.
func (Codec) Match(ch png.Chunk) bool {
	return base.Match(ch)
}
