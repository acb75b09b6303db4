package tasks

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/kyamanaka/vtask-cli/internal/model"
	"github.com/kyamanaka/vtask-cli/internal/vault"
)

// Processor decides, for each active or completed task, what its next
// persisted state must be, and asks the vault store to make it so. The
// rules themselves are pure; only the store calls touch disk. Now is
// injectable so transitions are deterministic under test.
type Processor struct {
	Vault *vault.Vault
	Now   func() time.Time
}

func NewProcessor(v *vault.Vault) *Processor {
	return &Processor{Vault: v, Now: time.Now}
}

// ProcessActive applies the active-folder rules to one task. A done
// repeating task is reset to its next occurrence; a done one-shot task
// gets its completion stamp reconciled and moves to the completed
// folder; everything else has its do date rolled forward to today and
// is saved in place.
func (p *Processor) ProcessActive(task *model.Task, config model.Config) error {
	log.Printf("Processing active task: %s", task.Title)
	now := p.Now()

	if task.Done && task.RepeatTask != "" {
		log.Println("Task is done and repeating - resetting")
		return p.resetRepeating(task, config)
	}

	if task.Done && task.CompletedAt.IsZero() {
		log.Println("Task is done - filling completion date")
		task.CompletedAt = now
	}

	if !task.CompletedAt.IsZero() && !task.Done {
		log.Println("Task not done - clearing completion date")
		task.CompletedAt = time.Time{}
	}

	if task.Done && !task.CompletedAt.IsZero() {
		log.Println("Task is done - moving to completed folder")
		return p.Vault.MoveRecord(task, config.Folders.CompletedTasks)
	}

	today := startOfDay(now)
	if task.DoDate.IsZero() {
		log.Println("No do_date set - setting for today")
		task.DoDate = today
	} else if startOfDay(task.DoDate).Before(today) {
		log.Println("Do date has passed - setting for today")
		task.DoDate = today
	}

	return p.Vault.WriteRecord(task, config.Folders.Tasks)
}

// ProcessCompleted applies the completed-folder rules to one task:
// reconcile the completion stamp, reactivate tasks unmarked as done,
// re-derive the project flag from body content, and retire tasks older
// than the retention window - projects are archived, the rest deleted.
func (p *Processor) ProcessCompleted(task *model.Task, config model.Config, retentionDays int) error {
	log.Printf("Processing completed task: %s", task.Title)
	now := p.Now()

	if task.Done && task.CompletedAt.IsZero() {
		log.Println("No completion date - updating to now")
		task.CompletedAt = now
	}

	if !task.CompletedAt.IsZero() && !task.Done {
		log.Println("Task not done - reactivating")
		task.CompletedAt = time.Time{}
		return p.Vault.MoveRecord(task, config.Folders.Tasks)
	}

	// A task with body content counts as a project, re-derived every
	// pass regardless of what the flag says.
	if (task.Body == "") == task.IsProject {
		log.Printf("is_project out of sync with content - flipping to %t", !task.IsProject)
		task.IsProject = !task.IsProject
	}

	if task.Done && !task.CompletedAt.IsZero() {
		retainedDays := int(now.Sub(task.CompletedAt).Hours() / 24)
		if retainedDays > retentionDays {
			log.Printf("Task completed %d days ago", retainedDays)
			if !task.IsProject {
				log.Println("Deleting over-retented task")
				return p.Vault.DeleteRecord(task)
			}
			return p.archive(task, config, now)
		}
	}

	return nil
}

// resetRepeating advances a done recurring task to its next cron
// occurrence: do date lands on the occurrence's calendar date, the due
// date keeps its grace period relative to the previous occurrence, and
// the completion state is cleared.
func (p *Processor) resetRepeating(task *model.Task, config model.Config) error {
	now := p.Now()

	sched, err := cron.ParseStandard(task.RepeatTask)
	if err != nil {
		return fmt.Errorf("invalid repeat_task %q on %s: %w", task.RepeatTask, task.Title, err)
	}

	next := startOfDay(sched.Next(now))
	last, hasLast := previousFire(sched, now)

	if !task.DueDate.IsZero() && hasLast {
		grace := task.DueDate.Sub(last)
		task.DueDate = next.Add(grace)
	} else {
		task.DueDate = time.Time{}
	}

	task.DoDate = next
	task.Done = false
	task.CompletedAt = time.Time{}

	return p.Vault.WriteRecord(task, config.Folders.Tasks)
}

// archive renders the task's metadata as a callout block on top of its
// body, writes that as an archive entry, then deletes the original.
func (p *Processor) archive(task *model.Task, config model.Config, now time.Time) error {
	log.Println("Archiving task")

	callout := "> [!Example] Task properties"
	for _, key := range task.Meta.Keys() {
		value, _ := task.Meta.Get(key)
		callout = fmt.Sprintf("%s\n> %s: %v", callout, key, value)
	}

	entry := model.NewArchiveEntry(task.Title)
	entry.Body = fmt.Sprintf("%s\n\n%s", callout, task.Body)
	entry.CreatedAt = now
	entry.Tags = []string{"Archived-task"}

	if err := p.Vault.WriteRecord(entry, config.Folders.Archive); err != nil {
		return err
	}
	return p.Vault.DeleteRecord(task)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// previousFire finds the schedule's last fire time strictly before now.
// cron/v3 only exposes Next, so binary-search the five years before now
// for the boundary where Next stops landing before now, then walk up to
// the final fire.
func previousFire(sched cron.Schedule, now time.Time) (time.Time, bool) {
	horizon := now.AddDate(-5, 0, 0)
	if !sched.Next(horizon).Before(now) {
		return time.Time{}, false
	}

	lo, hi := horizon, now
	for hi.Sub(lo) > time.Minute {
		mid := lo.Add(hi.Sub(lo) / 2)
		if sched.Next(mid).Before(now) {
			lo = mid
		} else {
			hi = mid
		}
	}

	last := sched.Next(lo)
	for {
		n := sched.Next(last)
		if !n.Before(now) {
			return last, true
		}
		last = n
	}
}
