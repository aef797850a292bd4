package tool

import (
	"errors"
	"fmt"
)

// NotFoundError is returned when a path does not exist.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%q does not exist", e.Path)
}

// NotFound implements the behavioural interface for cross-package error checking.
func (e *NotFoundError) NotFound() bool { return true }

// WrongKindError is returned when a path is a file where a directory is
// expected, or the other way round.
type WrongKindError struct {
	Path    string
	WantDir bool
}

func (e *WrongKindError) Error() string {
	if e.WantDir {
		return fmt.Sprintf("%q is not a directory", e.Path)
	}
	return fmt.Sprintf("%q is a directory, not a file", e.Path)
}

// WrongKind implements the behavioural interface for cross-package error checking.
func (e *WrongKindError) WrongKind() bool { return true }

// ErrorText renders err the way tools report failures to the model.
func ErrorText(err error) string {
	return "Error: " + err.Error()
}

// IsOutOfBounds reports whether err is a confinement violation.
func IsOutOfBounds(err error) bool {
	var oob interface{ OutOfBounds() bool }
	return errors.As(err, &oob) && oob.OutOfBounds()
}

// IsNotFound reports whether err means a missing path.
func IsNotFound(err error) bool {
	var nf interface{ NotFound() bool }
	return errors.As(err, &nf) && nf.NotFound()
}

// IsWrongKind reports whether err means a file/directory mismatch.
func IsWrongKind(err error) bool {
	var wk interface{ WrongKind() bool }
	return errors.As(err, &wk) && wk.WrongKind()
}
