package lock

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// lockFile manages the sidecar lock for one target path.
type lockFile struct {
	target string
	path   string
}

func newLockFile(target string) *lockFile {
	return &lockFile{target: target, path: target + ".lock"}
}

// acquire tries to take the exclusive lock once. On success it runs fn,
// then on every exit path releases the lock and removes the sidecar
// file; cleanup failures are logged, never returned, so they cannot mask
// fn's result. A contended lock reports acquired=false without touching
// the sidecar, since another holder owns it.
func (lf *lockFile) acquire(fn func() error) (acquired bool, err error) {
	if err := os.MkdirAll(filepath.Dir(lf.path), 0755); err != nil {
		return false, fmt.Errorf("failed to create lock directory for %s: %w", lf.target, err)
	}

	handle, err := os.OpenFile(lf.path, os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return false, fmt.Errorf("failed to open lock file (%s): %w", lf.path, err)
	}

	if err := platformLock.lockExclusive(handle); err != nil {
		handle.Close()
		return false, nil
	}

	defer func() {
		if err := platformLock.unlock(handle); err != nil {
			log.Printf("⚠️ Failed to release lock cleanly: %s", lf.path)
		}
		handle.Close()
		if err := os.Remove(lf.path); err != nil && !os.IsNotExist(err) {
			log.Printf("⚠️ Failed to clean up lock file: %s", lf.path)
		}
	}()

	return true, fn()
}
