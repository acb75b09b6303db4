//go:build windows

package lock

import (
	"os"

	"golang.org/x/sys/windows"
)

type windowsFlocker struct{}

func newPlatformFlocker() flocker { return windowsFlocker{} }

func (windowsFlocker) lockExclusive(f *os.File) error {
	return windows.LockFileEx(windows.Handle(f.Fd()),
		windows.LOCKFILE_EXCLUSIVE_LOCK|windows.LOCKFILE_FAIL_IMMEDIATELY,
		0, 1, 0, new(windows.Overlapped))
}

func (windowsFlocker) unlock(f *os.File) error {
	return windows.UnlockFileEx(windows.Handle(f.Fd()), 0, 1, 0, new(windows.Overlapped))
}
