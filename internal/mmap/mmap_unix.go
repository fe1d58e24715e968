//go:build !windows

package mmap

import (
	"os"

	"golang.org/x/sys/unix"
)

func platformMap(f *os.File, size int) ([]byte, error) {
	return unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
}

func platformUnmap(data []byte) error {
	return unix.Munmap(data)
}
