package png

import (
	"errors"
	"fmt"
)

var (
	// ErrFormat is the sentinel every *FormatError unwraps to.
	ErrFormat = errors.New("png: invalid format")

	ErrChunkTooLarge    = errors.New("png: chunk payload exceeds 2^31-1 bytes")
	ErrInvalidChunkType = errors.New("png: chunk type must be 4 ASCII letters")
)

// FormatError reports a structural problem with the datastream: a bad
// signature, a truncated or oversized chunk header, or a missing image
// data chunk. Offset is the byte position the problem was found at.
type FormatError struct {
	Offset int
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("png: %s at offset %d", e.Reason, e.Offset)
}

func (e *FormatError) Unwrap() error {
	return ErrFormat
}

func formatErr(offset int, reason string) error {
	return &FormatError{Offset: offset, Reason: reason}
}
