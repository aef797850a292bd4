package fs

import (
	"errors"
	"fmt"
)

// ErrBinaryFile is returned when text is requested from a binary file.
var ErrBinaryFile = errors.New("file appears to be binary")

// TooLargeError is returned when content exceeds the configured write limit.
type TooLargeError struct {
	Size  int64
	Limit int64
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("content is %d bytes, exceeding the %d byte limit", e.Size, e.Limit)
}

// WriteError wraps a failure while writing a file.
type WriteError struct {
	Path  string
	Cause error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Cause)
}
func (e *WriteError) Unwrap() error { return e.Cause }
