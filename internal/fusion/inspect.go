package fusion

import (
	"fmt"

	"github.com/samcharles93/pngfuse/pkg/png"
	"github.com/samcharles93/pngfuse/pkg/subfile"
)

// ChunkInfo describes one chunk of an image for diagnostics.
type ChunkInfo struct {
	Offset      int    `json:"offset"`
	Type        string `json:"type"`
	Length      int    `json:"length"`
	CRC         uint32 `json:"crc"`
	ComputedCRC uint32 `json:"computed_crc"`
	Critical    bool   `json:"critical"`
	Embedded    bool   `json:"embedded"`
	// BeforeInsertion is set for chunks that lie before the point where
	// new records are inserted.
	BeforeInsertion bool `json:"before_insertion"`
}

// CRCValid reports whether the stored checksum matches the chunk content.
func (c ChunkInfo) CRCValid() bool {
	return c.CRC == c.ComputedCRC
}

// Inspect loads source and describes every chunk in stream order, along
// with the insertion offset.
func Inspect(source string) (_ []ChunkInfo, _ int, err error) {
	img, closeImg, err := png.MapFile(source)
	if err != nil {
		return nil, 0, err
	}
	defer func() {
		if cerr := closeImg(); cerr != nil && err == nil {
			err = fmt.Errorf("%s: %w", source, cerr)
		}
	}()
	infos, err := inspect(img)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", source, err)
	}
	return infos, img.InsertionOffset(), nil
}

func inspect(img *png.Image) ([]ChunkInfo, error) {
	var out []ChunkInfo
	for c, err := range img.Chunks() {
		if err != nil {
			return nil, err
		}
		out = append(out, ChunkInfo{
			Offset:          c.Offset(),
			Type:            c.Type(),
			Length:          c.Len(),
			CRC:             c.CRC(),
			ComputedCRC:     c.ComputeCRC(),
			Critical:        c.Critical(),
			Embedded:        subfile.Codec{}.Match(c),
			BeforeInsertion: c.Offset() < img.InsertionOffset(),
		})
	}
	return out, nil
}
