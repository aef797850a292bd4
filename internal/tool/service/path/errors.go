package path

import (
	"errors"
	"fmt"
)

// -- Error Types --

// OutOfBoundsError is returned when a path resolves outside the root.
type OutOfBoundsError struct {
	Input    string
	Resolved string
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("path %q is outside the permitted root", e.Input)
}

// OutOfBounds implements the behavioural interface for cross-package error checking.
func (e *OutOfBoundsError) OutOfBounds() bool { return true }

// ResolutionError is returned when a path cannot be canonicalised.
type ResolutionError struct {
	Input string
	Cause error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("cannot resolve path %q: %v", e.Input, e.Cause)
}
func (e *ResolutionError) Unwrap() error { return e.Cause }

// WorkspaceRootError is returned when the workspace root is invalid.
type WorkspaceRootError struct {
	Root  string
	Cause error
}

func (e *WorkspaceRootError) Error() string {
	return fmt.Sprintf("invalid workspace root %s: %v", e.Root, e.Cause)
}
func (e *WorkspaceRootError) Unwrap() error { return e.Cause }

// InvalidWorkspace implements the behavioural interface for cross-package error checking.
func (e *WorkspaceRootError) InvalidWorkspace() bool { return true }

// -- Sentinels --

var (
	ErrWorkspaceRootNotSet = errors.New("workspace root not set")
	ErrNotADirectory       = errors.New("not a directory")
	ErrSymlinkLoop         = errors.New("too many levels of symbolic links")
)
