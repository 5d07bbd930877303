//go:build !linux

package png

func mapFile(path string) ([]byte, func() error, error) {
	data, err := readFile(path)
	return data, nil, err
}
