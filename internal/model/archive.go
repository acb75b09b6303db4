package model

import "time"

// ArchiveEntry is a retired record in the archive folder. Once written it
// is only ever read or deleted, never edited in place.
type ArchiveEntry struct {
	Item
	Tags      []string
	CreatedAt time.Time
	URL       string
}

var archiveFields = []fieldSpec{
	{"tags", kindStringList},
	{"created_at", kindDate},
	{"url", kindString},
}

func NewArchiveEntry(title string) *ArchiveEntry {
	return &ArchiveEntry{Item: Item{Title: title, Meta: NewMetadata()}}
}

func (a *ArchiveEntry) fieldPtr(key string) any {
	switch key {
	case "tags":
		return &a.Tags
	case "created_at":
		return &a.CreatedAt
	case "url":
		return &a.URL
	}
	return nil
}

func (a *ArchiveEntry) ApplyMeta() error {
	return applyFields(a.Meta, archiveFields, a.fieldPtr)
}

func (a *ArchiveEntry) SyncMeta() {
	if a.Meta == nil {
		a.Meta = NewMetadata()
	}
	syncFields(a.Meta, archiveFields, a.fieldPtr)
}
