//go:build !windows

package lock

import (
	"os"

	"golang.org/x/sys/unix"
)

type unixFlocker struct{}

func newPlatformFlocker() flocker { return unixFlocker{} }

func (unixFlocker) lockExclusive(f *os.File) error {
	return unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB)
}

func (unixFlocker) unlock(f *os.File) error {
	return unix.Flock(int(f.Fd()), unix.LOCK_UN)
}
