package vault

import (
	"fmt"
	"os"
	"path/filepath"
)

// atomicWrite funnels produce's output to path through a uniquely named
// temporary file in the same directory and a single rename. Same-directory
// rename is atomic at the OS level, so a reader sees either the old
// content or the new, never a partial file. If produce fails, the temp
// file is removed and the target is left untouched.
func atomicWrite(path string, produce func(f *os.File) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp_"+filepath.Base(path)+"_")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", path, err)
	}

	if err := produce(tmp); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to flush temp file for %s: %w", path, err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to commit write to %s: %w", path, err)
	}

	return nil
}
