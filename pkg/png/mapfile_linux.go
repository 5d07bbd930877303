//go:build linux

package png

import (
	"math"
	"os"

	"golang.org/x/sys/unix"
)

// mapFile maps path read-only. The returned release func unmaps it; it is
// nil when the file was read into memory instead.
func mapFile(path string) ([]byte, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = f.Close() }()

	st, err := f.Stat()
	if err != nil {
		return nil, nil, err
	}
	size := st.Size()
	if size <= 0 || size > math.MaxInt {
		data, err := readAll(f, size)
		return data, nil, err
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err == nil {
		return data, func() error { return unix.Munmap(data) }, nil
	}

	// Not every file can be mapped (pipes, some filesystems).
	data, err = readAll(f, size)
	return data, nil, err
}
