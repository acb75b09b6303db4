package tasks

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyamanaka/vtask-cli/internal/model"
)

type fakeSyncer struct {
	calls int
}

func (f *fakeSyncer) WithBatchSync(op func() error) error {
	f.calls++
	return op()
}

func TestProcessActiveTasks(t *testing.T) {
	t.Run("a failing task does not abort the batch", func(t *testing.T) {
		v, config, _ := newFixture(t)

		require.NoError(t, v.WriteRecord(model.NewTask("first"), config.Folders.Tasks))
		require.NoError(t, v.WriteRecord(model.NewTask("second"), config.Folders.Tasks))

		broken := model.NewTask("broken repeat")
		broken.Done = true
		broken.RepeatTask = "not a cron"
		require.NoError(t, v.WriteRecord(broken, config.Folders.Tasks))

		service := NewService(v, config, nil)
		service.Processor.Now = func() time.Time { return fixedNow }

		processed, err := service.ProcessActiveTasks()
		require.NoError(t, err)
		assert.Equal(t, 2, processed)
	})

	t.Run("batch runs inside the syncer", func(t *testing.T) {
		v, config, _ := newFixture(t)
		require.NoError(t, v.WriteRecord(model.NewTask("only"), config.Folders.Tasks))

		sync := &fakeSyncer{}
		service := NewService(v, config, sync)
		service.Processor.Now = func() time.Time { return fixedNow }

		processed, err := service.ProcessActiveTasks()
		require.NoError(t, err)
		assert.Equal(t, 1, processed)
		assert.Equal(t, 1, sync.calls)
	})

	t.Run("empty folder processes zero tasks", func(t *testing.T) {
		v, config, _ := newFixture(t)

		service := NewService(v, config, nil)
		processed, err := service.ProcessActiveTasks()
		require.NoError(t, err)
		assert.Equal(t, 0, processed)
	})
}

func TestProcessCompletedTasks(t *testing.T) {
	v, config, _ := newFixture(t)

	recent := model.NewTask("recent")
	recent.Done = true
	recent.CompletedAt = fixedNow.AddDate(0, 0, -2)
	require.NoError(t, v.WriteRecord(recent, config.Folders.CompletedTasks))

	expired := model.NewTask("expired")
	expired.Done = true
	expired.CompletedAt = fixedNow.AddDate(0, 0, -30)
	require.NoError(t, v.WriteRecord(expired, config.Folders.CompletedTasks))

	service := NewService(v, config, nil)
	service.Processor.Now = func() time.Time { return fixedNow }

	processed, err := service.ProcessCompletedTasks()
	require.NoError(t, err)
	assert.Equal(t, 2, processed)

	assert.FileExists(t, v.RecordPath(config.Folders.CompletedTasks, "recent"))
	assert.NoFileExists(t, v.RecordPath(config.Folders.CompletedTasks, "expired"))
}
