package executor

import (
	"errors"
	"fmt"
	"time"
)

// ErrTimeout is matched by every TimeoutError.
var ErrTimeout = errors.New("command timeout")

// CommandError is returned when a command cannot be started.
type CommandError struct {
	Cmd   string
	Cause error
	Stage string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s failed at %s: %v", e.Cmd, e.Stage, e.Cause)
}
func (e *CommandError) Unwrap() error { return e.Cause }

// ProcessFailedError is returned when a command exits with a non-zero status.
// It carries everything the program printed so callers can show its own diagnostics.
type ProcessFailedError struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

func (e *ProcessFailedError) Error() string {
	return fmt.Sprintf("process exited with code %d", e.ExitCode)
}

// ProcessFailed implements the behavioural interface for cross-package error checking.
func (e *ProcessFailedError) ProcessFailed() bool { return true }

// TimeoutError is returned when a command outlives its deadline and is terminated.
type TimeoutError struct {
	After  time.Duration
	Stdout string
	Stderr string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("process timed out after %s", e.After)
}

// Timeout implements the behavioural interface for cross-package error checking.
func (e *TimeoutError) Timeout() bool { return true }

func (e *TimeoutError) Is(target error) bool { return target == ErrTimeout }
