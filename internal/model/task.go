package model

import "time"

// Task is a record living in the active or completed folder. Zero time
// values mean the date field is unset.
type Task struct {
	Item
	IsProject      bool
	DoDate         time.Time
	DueDate        time.Time
	CompletedAt    time.Time
	Done           bool
	IsHighPriority bool
	RepeatTask     string // cron expression, empty for one-shot tasks
}

var taskFields = []fieldSpec{
	{"is_project", kindBool},
	{"do_date", kindDate},
	{"due_date", kindDate},
	{"completed_at", kindDate},
	{"done", kindBool},
	{"is_high_priority", kindBool},
	{"repeat_task", kindString},
}

func NewTask(title string) *Task {
	return &Task{Item: Item{Title: title, Meta: NewMetadata()}}
}

func (t *Task) fieldPtr(key string) any {
	switch key {
	case "is_project":
		return &t.IsProject
	case "do_date":
		return &t.DoDate
	case "due_date":
		return &t.DueDate
	case "completed_at":
		return &t.CompletedAt
	case "done":
		return &t.Done
	case "is_high_priority":
		return &t.IsHighPriority
	case "repeat_task":
		return &t.RepeatTask
	}
	return nil
}

func (t *Task) ApplyMeta() error {
	return applyFields(t.Meta, taskFields, t.fieldPtr)
}

func (t *Task) SyncMeta() {
	if t.Meta == nil {
		t.Meta = NewMetadata()
	}
	syncFields(t.Meta, taskFields, t.fieldPtr)
}
