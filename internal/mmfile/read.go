// Package mmfile provides platform-specific helpers for memory-mapping book files.
package mmfile

import "os"

// Read loads the file into memory without mapping it. The returned release
// function is a no-op, so callers can treat both paths the same way.
func Read(path string) ([]byte, func() error, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	return data, func() error { return nil }, nil
}
