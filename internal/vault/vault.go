package vault

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/kyamanaka/vtask-cli/internal/lock"
	"github.com/kyamanaka/vtask-cli/internal/model"
)

// RecordExt is the extension of every record file in the vault.
const RecordExt = ".md"

// Vault reads and mutates record files under a root directory. Every
// mutation runs under a per-path advisory lock and lands via an atomic
// rename, so concurrent callers serialize per file and never observe a
// partially written record. Listing is not snapshot-isolated: a record
// may appear or disappear relative to concurrent mutators.
type Vault struct {
	root   string
	locker *lock.Locker
}

func New(root string, locker *lock.Locker) (*Vault, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("vault path does not exist: %s", root)
	}
	if locker == nil {
		locker = lock.NewLocker()
	}
	return &Vault{root: root, locker: locker}, nil
}

func (v *Vault) Root() string { return v.root }

// FolderPath resolves a configured folder name under the vault root.
func (v *Vault) FolderPath(folder string) string {
	if filepath.IsAbs(folder) {
		return folder
	}
	return filepath.Join(v.root, folder)
}

// RecordPath is the file a record with the given title lives at inside
// folder.
func (v *Vault) RecordPath(folder, title string) string {
	return filepath.Join(v.FolderPath(folder), title+RecordExt)
}

func (v *Vault) readRecord(path string, rec model.Record) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &NotFoundError{Path: path}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return &FileOpError{Op: "read", Path: path, Err: err}
	}

	meta, body, err := model.ParseFrontMatter(string(data))
	if err != nil {
		return fmt.Errorf("failed to parse record (%s): %w", path, err)
	}

	base := rec.Base()
	base.Title = strings.TrimSuffix(filepath.Base(path), RecordExt)
	base.Body = body
	base.Meta = meta
	base.SourcePath = path

	if err := rec.ApplyMeta(); err != nil {
		return fmt.Errorf("failed to parse record (%s): %w", path, err)
	}
	return nil
}

func (v *Vault) ReadTask(path string) (*model.Task, error) {
	task := model.NewTask("")
	if err := v.readRecord(path, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (v *Vault) ReadArchiveEntry(path string) (*model.ArchiveEntry, error) {
	entry := model.NewArchiveEntry("")
	if err := v.readRecord(path, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (v *Vault) recordFiles(folder string) ([]string, error) {
	pattern := filepath.Join(v.FolderPath(folder), "*"+RecordExt)
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, &FileOpError{Op: "list", Path: pattern, Err: err}
	}
	return files, nil
}

// ListTasks reads every task record directly inside folder. A record that
// fails to parse is skipped with a warning so one corrupt file cannot
// hide the rest of the folder.
func (v *Vault) ListTasks(folder string) ([]*model.Task, error) {
	files, err := v.recordFiles(folder)
	if err != nil {
		return nil, err
	}

	tasks := make([]*model.Task, 0, len(files))
	for _, file := range files {
		task, err := v.ReadTask(file)
		if err != nil {
			log.Printf("⚠️ Skipping problematic file %s: %v", file, err)
			continue
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// ListArchiveEntries reads every archive entry directly inside folder,
// with the same partial-failure isolation as ListTasks.
func (v *Vault) ListArchiveEntries(folder string) ([]*model.ArchiveEntry, error) {
	files, err := v.recordFiles(folder)
	if err != nil {
		return nil, err
	}

	entries := make([]*model.ArchiveEntry, 0, len(files))
	for _, file := range files {
		entry, err := v.ReadArchiveEntry(file)
		if err != nil {
			log.Printf("⚠️ Skipping problematic file %s: %v", file, err)
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// WriteRecord serializes rec into targetFolder/<title>.md. Typed fields
// are synced back into the metadata block first, so in-memory mutations
// always reach the file. SourcePath is updated on success.
func (v *Vault) WriteRecord(rec model.Record, targetFolder string) error {
	base := rec.Base()
	rec.SyncMeta()

	content, err := model.RenderFrontMatter(base.Meta, base.Body)
	if err != nil {
		return &FileOpError{Op: "write", Path: base.Title, Err: err}
	}

	dir := v.FolderPath(targetFolder)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &FileOpError{Op: "write", Path: dir, Err: err}
	}

	path := filepath.Join(dir, base.Title+RecordExt)
	err = v.locker.WithWriteLock(path, func() error {
		return atomicWrite(path, func(f *os.File) error {
			_, err := f.WriteString(content)
			return err
		})
	})
	if err != nil {
		return wrapOpErr("write", path, err)
	}

	base.SourcePath = path
	log.Printf("Successfully wrote record: %s", path)
	return nil
}

// MoveRecord renames rec's backing file into destFolder. Both ends are
// locked in lexicographic path order so two concurrent moves swapping
// directions cannot deadlock. Moving a record onto itself is a no-op.
func (v *Vault) MoveRecord(rec model.Record, destFolder string) error {
	base := rec.Base()
	source, err := base.RequireSourcePath()
	if err != nil {
		return err
	}

	destDir := v.FolderPath(destFolder)
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return &FileOpError{Op: "move", Path: destDir, Err: err}
	}

	dest := filepath.Join(destDir, filepath.Base(source))
	if source == dest {
		return nil
	}

	first, second := source, dest
	if second < first {
		first, second = second, first
	}
	err = v.locker.WithWriteLock(first, func() error {
		return v.locker.WithWriteLock(second, func() error {
			return os.Rename(source, dest)
		})
	})
	if err != nil {
		return wrapOpErr("move", fmt.Sprintf("%s -> %s", source, dest), err)
	}

	base.SourcePath = dest
	log.Printf("Moved record: %s -> %s", source, dest)
	return nil
}

// DeleteRecord unlinks rec's backing file and clears SourcePath.
func (v *Vault) DeleteRecord(rec model.Record) error {
	base := rec.Base()
	source, err := base.RequireSourcePath()
	if err != nil {
		return err
	}

	err = v.locker.WithWriteLock(source, func() error {
		return os.Remove(source)
	})
	if err != nil {
		return wrapOpErr("delete", source, err)
	}

	base.SourcePath = ""
	log.Printf("Deleted record: %s", source)
	return nil
}

// wrapOpErr converts lock and OS failures into the store's typed errors.
// ConcurrencyError passes through untouched so callers can match on it.
func wrapOpErr(op, path string, err error) error {
	var concurrency *lock.ConcurrencyError
	if errors.As(err, &concurrency) {
		return err
	}
	return &FileOpError{Op: op, Path: path, Err: err}
}
