// Package subfile stores whole files inside PNG images as private fuSe
// chunks.
//
// A fuSe chunk uses the zTXt payload layout with the fixed keyword
// "PNGFuse". Its value is a merged record:
//
//	UTF-8 filename | 0x00 | raw content
package subfile

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

// File is one embedded file.
type File struct {
	Name    string
	Content []byte
}

// Merge serialises name and content into one record. The name must be
// non-empty valid UTF-8 without NUL bytes, otherwise Split could not
// recover it.
func Merge(name string, content []byte) ([]byte, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(name)+1+len(content))
	out = append(out, name...)
	out = append(out, 0)
	out = append(out, content...)
	return out, nil
}

// Split reverses Merge. The content aliases b.
func Split(b []byte) (File, error) {
	sep := bytes.IndexByte(b, 0)
	if sep < 0 {
		return File{}, &CorruptRecordError{Reason: "missing filename separator"}
	}
	return File{Name: string(b[:sep]), Content: b[sep+1:]}, nil
}

// ValidateName reports whether name can be stored in a record.
func ValidateName(name string) error {
	switch {
	case name == "":
		return nameErr(name, "empty")
	case strings.IndexByte(name, 0) >= 0:
		return nameErr(name, "contains NUL")
	case !utf8.ValidString(name):
		return nameErr(name, "not valid UTF-8")
	}
	return nil
}
