package tasks

import (
	"log"

	"github.com/kyamanaka/vtask-cli/internal/model"
	"github.com/kyamanaka/vtask-cli/internal/vault"
)

// Syncer wraps a batch of vault mutations in a pull-then-checkpoint
// cycle against a remote copy of the vault.
type Syncer interface {
	WithBatchSync(op func() error) error
}

// Service is the caller-facing surface over the vault and the state
// machine: list and read tasks, and run the batch lifecycle passes. A
// task that fails to process is logged and skipped so one corrupt or
// contended record cannot abort a whole batch run.
type Service struct {
	Vault     *vault.Vault
	Processor *Processor
	Config    model.Config
	Sync      Syncer // optional; nil runs batches without remote sync
}

func NewService(v *vault.Vault, config model.Config, sync Syncer) *Service {
	return &Service{
		Vault:     v,
		Processor: NewProcessor(v),
		Config:    config,
		Sync:      sync,
	}
}

func (s *Service) ListTasks(folder string) ([]*model.Task, error) {
	return s.Vault.ListTasks(folder)
}

func (s *Service) ReadTask(path string) (*model.Task, error) {
	return s.Vault.ReadTask(path)
}

// ProcessActiveTasks runs the active-folder rules over every task in the
// active folder and reports how many processed cleanly.
func (s *Service) ProcessActiveTasks() (int, error) {
	activeTasks, err := s.Vault.ListTasks(s.Config.Folders.Tasks)
	if err != nil {
		return 0, err
	}

	processed := 0
	err = s.runBatch(func() error {
		for _, task := range activeTasks {
			if err := s.Processor.ProcessActive(task, s.Config); err != nil {
				log.Printf("⚠️ Failed to process active task %s: %v", task.Title, err)
				continue
			}
			processed++
		}
		return nil
	})
	return processed, err
}

// ProcessCompletedTasks runs the completed-folder rules, including
// retention, over every task in the completed folder.
func (s *Service) ProcessCompletedTasks() (int, error) {
	completedTasks, err := s.Vault.ListTasks(s.Config.Folders.CompletedTasks)
	if err != nil {
		return 0, err
	}

	processed := 0
	err = s.runBatch(func() error {
		for _, task := range completedTasks {
			if err := s.Processor.ProcessCompleted(task, s.Config, s.Config.RetentionDays); err != nil {
				log.Printf("⚠️ Failed to process completed task %s: %v", task.Title, err)
				continue
			}
			processed++
		}
		return nil
	})
	return processed, err
}

func (s *Service) runBatch(batch func() error) error {
	if s.Sync == nil {
		return batch()
	}
	return s.Sync.WithBatchSync(batch)
}
