//go:build windows

package mmap

import (
	"io"
	"os"
)

// Windows has no user base for this module; fall back to a plain read so the
// package stays portable without carrying the CreateFileMapping plumbing.
func platformMap(f *os.File, size int) ([]byte, error) {
	data := make([]byte, size)
	if _, err := io.ReadFull(f, data); err != nil {
		return nil, err
	}
	return data, nil
}

func platformUnmap([]byte) error { return nil }
