package subfile

import (
	"errors"
	"fmt"
)

var (
	ErrCorruptRecord = errors.New("subfile: corrupt record")
	ErrInvalidName   = errors.New("subfile: invalid file name")
)

// CorruptRecordError reports a merged record that cannot be split.
type CorruptRecordError struct {
	Reason string
}

func (e *CorruptRecordError) Error() string {
	return "subfile: corrupt record: " + e.Reason
}

func (e *CorruptRecordError) Unwrap() error {
	return ErrCorruptRecord
}

func nameErr(name, reason string) error {
	return fmt.Errorf("%w %q: %s", ErrInvalidName, name, reason)
}
