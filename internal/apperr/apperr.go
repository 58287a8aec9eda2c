// Package apperr classifies command failures for the host layer.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so the host layer can report it consistently.
type Kind string

const (
	KindNotADirectory Kind = "not_a_directory"
	KindFileRead      Kind = "file_read_failure"
	KindFileWrite     Kind = "file_write_failure"
	KindBackup        Kind = "backup_failure"
	KindRename        Kind = "rename_failure"
	KindExternalOpen  Kind = "external_open_failure"
	KindUnknown       Kind = "unknown"
)

// ErrNoSelection is returned when a picker dialog is dismissed. It marks an
// absence, not a failure.
var ErrNoSelection = errors.New("no selection")

// Error is a classified failure on a single path.
type Error struct {
	Kind Kind
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Kind, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New wraps err with a kind and the path it concerns.
func New(kind Kind, path string, err error) *Error {
	return &Error{Kind: kind, Path: path, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
