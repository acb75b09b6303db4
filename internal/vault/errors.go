package vault

import "fmt"

// NotFoundError reports a read of a record path that does not exist.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("record not found: %s", e.Path)
}

// FileOpError wraps an OS-level failure on a store operation with the
// operation name and path it belonged to. Raw OS errors never cross the
// store boundary.
type FileOpError struct {
	Op   string
	Path string
	Err  error
}

func (e *FileOpError) Error() string {
	return fmt.Sprintf("unable to %s file at %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileOpError) Unwrap() error { return e.Err }
