package lock

import (
	"fmt"
	"log"
	"time"
)

const (
	defaultMaxAttempts = 5
	defaultBaseDelay   = time.Second
	defaultMaxDelay    = 5 * time.Second
)

// ConcurrencyError reports a lock that stayed contended through the whole
// retry budget. It is the only way contention becomes visible to callers.
type ConcurrencyError struct {
	Resource string
	Attempts int
}

func (e *ConcurrencyError) Error() string {
	return fmt.Sprintf("failed to acquire write lock for %s after %d attempts", e.Resource, e.Attempts)
}

// Locker acquires per-path write locks with bounded exponential backoff:
// attempt n waits min(BaseDelay * 2^n, MaxDelay) before the next try.
// Zero fields fall back to the defaults.
type Locker struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

func NewLocker() *Locker {
	return &Locker{
		MaxAttempts: defaultMaxAttempts,
		BaseDelay:   defaultBaseDelay,
		MaxDelay:    defaultMaxDelay,
	}
}

// WithWriteLock runs fn while holding the exclusive lock for path. fn's
// error is returned as-is; exhausting the retry budget returns a
// ConcurrencyError naming the contended path.
func (l *Locker) WithWriteLock(path string, fn func() error) error {
	maxAttempts := l.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	baseDelay := l.BaseDelay
	if baseDelay <= 0 {
		baseDelay = defaultBaseDelay
	}
	maxDelay := l.MaxDelay
	if maxDelay <= 0 {
		maxDelay = defaultMaxDelay
	}

	lf := newLockFile(path)
	for attempt := 0; attempt < maxAttempts; attempt++ {
		acquired, err := lf.acquire(fn)
		if acquired || err != nil {
			return err
		}
		if attempt == maxAttempts-1 {
			break
		}

		delay := baseDelay << uint(attempt)
		if delay > maxDelay {
			delay = maxDelay
		}
		log.Printf("Lock on %s is contended, retrying in %s", path, delay)
		time.Sleep(delay)
	}

	return &ConcurrencyError{Resource: path, Attempts: maxAttempts}
}
