package vault

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyamanaka/vtask-cli/internal/lock"
	"github.com/kyamanaka/vtask-cli/internal/model"
)

func newTestVault(t *testing.T) *Vault {
	t.Helper()
	root := t.TempDir()
	locker := &lock.Locker{
		MaxAttempts: 3,
		BaseDelay:   10 * time.Millisecond,
		MaxDelay:    50 * time.Millisecond,
	}
	v, err := New(root, locker)
	require.NoError(t, err)
	return v
}

func TestNew(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing"), nil)
	assert.Error(t, err)
}

func TestWriteAndReadTask(t *testing.T) {
	v := newTestVault(t)

	task := model.NewTask("quarterly report")
	task.Body = "Collect the numbers first."
	task.DoDate = time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)
	task.DueDate = time.Date(2025, 3, 14, 23, 59, 59, 0, time.Local)
	task.IsHighPriority = true

	require.NoError(t, v.WriteRecord(task, "tasks"))
	assert.Equal(t, v.RecordPath("tasks", "quarterly report"), task.SourcePath)

	loaded, err := v.ReadTask(task.SourcePath)
	require.NoError(t, err)

	assert.Equal(t, "quarterly report", loaded.Title)
	assert.Equal(t, "Collect the numbers first.", loaded.Body)
	assert.Equal(t, task.DoDate, loaded.DoDate)
	assert.Equal(t, task.DueDate, loaded.DueDate)
	assert.True(t, loaded.IsHighPriority)
	assert.False(t, loaded.Done)
}

func TestReadTaskMissing(t *testing.T) {
	v := newTestVault(t)

	_, err := v.ReadTask(v.RecordPath("tasks", "nope"))

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Contains(t, notFound.Path, "nope.md")
}

func TestListTasksSkipsCorruptFiles(t *testing.T) {
	v := newTestVault(t)

	good := model.NewTask("good")
	require.NoError(t, v.WriteRecord(good, "tasks"))

	corrupt := v.RecordPath("tasks", "corrupt")
	require.NoError(t, os.WriteFile(corrupt, []byte("---\ntags: [unclosed\n---\nbody"), 0644))

	tasks, err := v.ListTasks("tasks")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "good", tasks[0].Title)
}

func TestMoveRecord(t *testing.T) {
	t.Run("relocates the backing file", func(t *testing.T) {
		v := newTestVault(t)

		task := model.NewTask("finish review")
		require.NoError(t, v.WriteRecord(task, "tasks"))
		oldPath := task.SourcePath

		require.NoError(t, v.MoveRecord(task, "completed_tasks"))

		assert.Equal(t, v.RecordPath("completed_tasks", "finish review"), task.SourcePath)
		assert.NoFileExists(t, oldPath)
		assert.FileExists(t, task.SourcePath)
	})

	t.Run("unsaved record is rejected", func(t *testing.T) {
		v := newTestVault(t)

		err := v.MoveRecord(model.NewTask("in memory only"), "completed_tasks")

		var precondErr *model.PreconditionError
		assert.ErrorAs(t, err, &precondErr)
	})

	t.Run("move onto itself is a no-op", func(t *testing.T) {
		v := newTestVault(t)

		task := model.NewTask("stay put")
		require.NoError(t, v.WriteRecord(task, "tasks"))
		path := task.SourcePath

		require.NoError(t, v.MoveRecord(task, "tasks"))
		assert.Equal(t, path, task.SourcePath)
		assert.FileExists(t, path)
	})

	t.Run("opposing moves do not deadlock", func(t *testing.T) {
		v := newTestVault(t)

		a := model.NewTask("shared title")
		require.NoError(t, v.WriteRecord(a, "tasks"))
		b := model.NewTask("shared title")
		require.NoError(t, v.WriteRecord(b, "completed_tasks"))

		locker := &lock.Locker{
			MaxAttempts: 50,
			BaseDelay:   time.Millisecond,
			MaxDelay:    5 * time.Millisecond,
		}
		v.locker = locker

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			v.MoveRecord(a, "completed_tasks")
		}()
		go func() {
			defer wg.Done()
			v.MoveRecord(b, "tasks")
		}()

		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(10 * time.Second):
			t.Fatal("opposing moves deadlocked")
		}
	})
}

func TestDeleteRecord(t *testing.T) {
	v := newTestVault(t)

	task := model.NewTask("throwaway")
	require.NoError(t, v.WriteRecord(task, "tasks"))
	path := task.SourcePath

	require.NoError(t, v.DeleteRecord(task))
	assert.NoFileExists(t, path)
	assert.Empty(t, task.SourcePath)

	err := v.DeleteRecord(task)
	var precondErr *model.PreconditionError
	assert.ErrorAs(t, err, &precondErr)
}

func TestWriteRecordContention(t *testing.T) {
	v := newTestVault(t)

	task := model.NewTask("contended")
	path := v.RecordPath("tasks", "contended")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))

	release := make(chan struct{})
	held := make(chan struct{})
	done := make(chan struct{})

	holder := lock.NewLocker()
	go func() {
		defer close(done)
		holder.WithWriteLock(path, func() error {
			close(held)
			<-release
			return nil
		})
	}()

	<-held

	err := v.WriteRecord(task, "tasks")
	var concErr *lock.ConcurrencyError
	require.ErrorAs(t, err, &concErr)
	assert.Equal(t, path, concErr.Resource)

	close(release)
	<-done
}

func TestAtomicWrite(t *testing.T) {
	t.Run("failed produce leaves the target untouched", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "report.md")
		require.NoError(t, os.WriteFile(path, []byte("old content"), 0644))

		err := atomicWrite(path, func(f *os.File) error {
			f.WriteString("half a rec")
			return errors.New("producer failed")
		})
		require.Error(t, err)

		data, readErr := os.ReadFile(path)
		require.NoError(t, readErr)
		assert.Equal(t, "old content", string(data))

		leftovers, globErr := filepath.Glob(filepath.Join(dir, ".tmp_*"))
		require.NoError(t, globErr)
		assert.Empty(t, leftovers, "temp files must not survive a failed write")
	})

	t.Run("successful write replaces the target", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "report.md")

		err := atomicWrite(path, func(f *os.File) error {
			_, werr := f.WriteString("new content")
			return werr
		})
		require.NoError(t, err)

		data, readErr := os.ReadFile(path)
		require.NoError(t, readErr)
		assert.Equal(t, "new content", string(data))
	})
}
