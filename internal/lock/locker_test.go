package lock

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastLocker() *Locker {
	return &Locker{
		MaxAttempts: 3,
		BaseDelay:   10 * time.Millisecond,
		MaxDelay:    50 * time.Millisecond,
	}
}

func TestWithWriteLock(t *testing.T) {
	t.Run("runs fn and cleans up the sidecar", func(t *testing.T) {
		target := filepath.Join(t.TempDir(), "tasks", "report.md")

		ran := false
		err := fastLocker().WithWriteLock(target, func() error {
			ran = true
			_, statErr := os.Stat(target + ".lock")
			assert.NoError(t, statErr, "sidecar should exist while fn runs")
			return nil
		})

		require.NoError(t, err)
		assert.True(t, ran)

		_, statErr := os.Stat(target + ".lock")
		assert.True(t, os.IsNotExist(statErr), "sidecar should be removed after release")
	})

	t.Run("returns fn's error unchanged", func(t *testing.T) {
		target := filepath.Join(t.TempDir(), "report.md")
		sentinel := errors.New("write exploded")

		err := fastLocker().WithWriteLock(target, func() error { return sentinel })
		assert.ErrorIs(t, err, sentinel)
	})

	t.Run("serializes concurrent writers", func(t *testing.T) {
		target := filepath.Join(t.TempDir(), "report.md")
		locker := &Locker{
			MaxAttempts: 50,
			BaseDelay:   time.Millisecond,
			MaxDelay:    5 * time.Millisecond,
		}

		const writers = 8
		counter := 0

		var wg sync.WaitGroup
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := locker.WithWriteLock(target, func() error {
					current := counter
					time.Sleep(time.Millisecond)
					counter = current + 1
					return nil
				})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		assert.Equal(t, writers, counter)
	})

	t.Run("exhausted retries yield a ConcurrencyError", func(t *testing.T) {
		target := filepath.Join(t.TempDir(), "report.md")

		release := make(chan struct{})
		held := make(chan struct{})
		done := make(chan struct{})

		go func() {
			defer close(done)
			err := NewLocker().WithWriteLock(target, func() error {
				close(held)
				<-release
				return nil
			})
			assert.NoError(t, err)
		}()

		<-held

		err := fastLocker().WithWriteLock(target, func() error {
			t.Error("fn must not run while the lock is held elsewhere")
			return nil
		})

		var concErr *ConcurrencyError
		require.ErrorAs(t, err, &concErr)
		assert.Equal(t, target, concErr.Resource)
		assert.Equal(t, 3, concErr.Attempts)

		close(release)
		<-done

		// The losing side must not have removed the winner's sidecar
		// mid-flight; after release the winner cleans it up itself.
		_, statErr := os.Stat(target + ".lock")
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("zero-value locker falls back to defaults", func(t *testing.T) {
		target := filepath.Join(t.TempDir(), "report.md")

		var locker Locker
		err := locker.WithWriteLock(target, func() error { return nil })
		assert.NoError(t, err)
	})
}
