package main

import (
	"errors"
	"path/filepath"
	"strings"
)

const (
	fusedSuffix   = ".fused"
	unfusedSuffix = ".unfused"
)

var errOverwriteAndOutput = errors.New("--overwrite and --output cannot be used together")

// fusedPath names the result of fusing into target: host.png becomes
// host.fused.png.
func fusedPath(target string) string {
	ext := filepath.Ext(target)
	return strings.TrimSuffix(target, ext) + fusedSuffix + ext
}

// cleanedPath names the result of cleaning source. A ".fused" stem suffix
// (any case) is dropped, otherwise ".unfused" is added.
func cleanedPath(source string) string {
	ext := filepath.Ext(source)
	stem := strings.TrimSuffix(source, ext)
	if strings.HasSuffix(strings.ToLower(filepath.Base(stem)), fusedSuffix) {
		return stem[:len(stem)-len(fusedSuffix)] + ext
	}
	return stem + unfusedSuffix + ext
}

// resolveOutput picks the destination for a fuse or clean of source. An
// explicit output wins, overwrite reuses source, and otherwise name
// derives a new path.
func resolveOutput(source, output string, overwrite bool, name func(string) string) (string, error) {
	output = strings.TrimSpace(output)
	switch {
	case output != "" && overwrite:
		return "", errOverwriteAndOutput
	case output != "":
		return filepath.Clean(output), nil
	case overwrite:
		return source, nil
	default:
		return name(source), nil
	}
}
