//go:build unix || linux || darwin || freebsd || openbsd || netbsd

package mmap

import (
	"os"

	"golang.org/x/sys/unix"
)

func mapFile(f *os.File, size int) ([]byte, error) {
	return unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
}

func mapAnon(size int) ([]byte, error) {
	return unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
}

func unmapFile(b []byte) error {
	return unix.Munmap(b)
}

func unmapAnon(b []byte) error {
	return unix.Munmap(b)
}

func advise(b []byte, pattern AccessPattern) error {
	advice := unix.MADV_NORMAL
	switch pattern {
	case AccessSequential:
		advice = unix.MADV_SEQUENTIAL
	case AccessRandom:
		advice = unix.MADV_RANDOM
	case AccessWillNeed:
		advice = unix.MADV_WILLNEED
	}

	// Linux rejects madvise on addresses off a page boundary; mappings are
	// page-aligned here, but the hint stays best-effort either way.
	if err := unix.Madvise(b, advice); err != nil && err != unix.EINVAL {
		return err
	}
	return nil
}
