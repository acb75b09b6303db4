// Package lock serializes access to vault files through sidecar lock
// files. A `<path>.lock` file carries an OS-level exclusive advisory
// lock; contended acquisitions are retried with bounded backoff.
package lock

import "os"

// flocker is the platform capability behind a lock file: take and release
// a non-blocking exclusive lock on an open file handle. It must fail
// immediately when the lock is already held; waiting and backoff are the
// Locker's job.
type flocker interface {
	lockExclusive(f *os.File) error
	unlock(f *os.File) error
}

var platformLock flocker = newPlatformFlocker()
