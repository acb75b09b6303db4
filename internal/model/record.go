package model

import (
	"fmt"
	"strconv"
	"time"

	"github.com/kyamanaka/vtask-cli/internal/dates"
)

// Item is the shared shape of every persisted record: a title (the
// filename stem), a free-form body, the ordered metadata block and, once
// persisted, the absolute path of the backing file.
type Item struct {
	Title      string
	Body       string
	Meta       *Metadata
	SourcePath string
}

func (it *Item) Base() *Item { return it }

// PreconditionError reports an operation that needs a persisted record
// but got one without a source file path.
type PreconditionError struct {
	Title string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("record %q has no source file path; this operation requires the record to be saved first", e.Title)
}

// RequireSourcePath returns the backing file path, or a PreconditionError
// for an in-memory record that was never saved.
func (it *Item) RequireSourcePath() (string, error) {
	if it.SourcePath == "" {
		return "", &PreconditionError{Title: it.Title}
	}
	return it.SourcePath, nil
}

// Record is the serialization contract the vault store works against.
// ApplyMeta fills typed fields from the metadata block after a read;
// SyncMeta writes them back before a save so in-memory mutations reach
// the file.
type Record interface {
	Base() *Item
	ApplyMeta() error
	SyncMeta()
}

type fieldKind int

const (
	kindString fieldKind = iota
	kindBool
	kindDate
	kindStringList
)

// fieldSpec ties a frontmatter key to its value kind. Each record type
// declares a fixed table of these; the table drives both directions of
// the metadata/field sync deterministically.
type fieldSpec struct {
	key  string
	kind fieldKind
}

func applyFields(meta *Metadata, fields []fieldSpec, ptr func(string) any) error {
	if meta == nil {
		return nil
	}
	now := time.Now()
	for _, f := range fields {
		raw, ok := meta.Get(f.key)
		if !ok {
			continue
		}
		switch f.kind {
		case kindString:
			*ptr(f.key).(*string) = asString(raw)
		case kindBool:
			*ptr(f.key).(*bool) = asBool(raw)
		case kindDate:
			t, err := dates.NormalizeForField(asString(raw), f.key, now)
			if err != nil {
				return fmt.Errorf("field %s: %w", f.key, err)
			}
			*ptr(f.key).(*time.Time) = t
		case kindStringList:
			*ptr(f.key).(*[]string) = asStringList(raw)
		}
	}
	return nil
}

func syncFields(meta *Metadata, fields []fieldSpec, ptr func(string) any) {
	for _, f := range fields {
		switch f.kind {
		case kindString:
			meta.Set(f.key, *ptr(f.key).(*string))
		case kindBool:
			meta.Set(f.key, *ptr(f.key).(*bool))
		case kindDate:
			meta.Set(f.key, dates.FormatForStorage(*ptr(f.key).(*time.Time), f.key))
		case kindStringList:
			meta.Set(f.key, *ptr(f.key).(*[]string))
		}
	}
}

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case bool:
		return strconv.FormatBool(s)
	case int:
		return strconv.Itoa(s)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", s)
	}
}

func asBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		parsed, err := strconv.ParseBool(b)
		return err == nil && parsed
	default:
		return false
	}
}

func asStringList(v any) []string {
	switch list := v.(type) {
	case []string:
		return list
	case string:
		if list == "" {
			return nil
		}
		return []string{list}
	default:
		return nil
	}
}
