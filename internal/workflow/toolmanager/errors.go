package toolmanager

import (
	"fmt"
	"strings"
)

// UnknownToolError is returned when the model calls a tool that is not registered.
type UnknownToolError struct {
	Name      string
	Available []string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("Unknown function: %s. Available tools: %s", e.Name, strings.Join(e.Available, ", "))
}

// UnknownTool implements the behavioural interface for cross-package error checking.
func (e *UnknownToolError) UnknownTool() bool { return true }

// BadArgumentsError is returned when call arguments do not bind to the
// tool's request or fail its validation.
type BadArgumentsError struct {
	Tool   string
	Cause  error
	Schema string
}

func (e *BadArgumentsError) Error() string {
	return fmt.Sprintf("invalid arguments for tool %q: %v\n\nExpected schema:\n%s", e.Tool, e.Cause, e.Schema)
}

func (e *BadArgumentsError) Unwrap() error { return e.Cause }

// BadArguments implements the behavioural interface for cross-package error checking.
func (e *BadArgumentsError) BadArguments() bool { return true }

// ApprovalDeniedError is returned when the approval gate refuses a call.
type ApprovalDeniedError struct {
	Tool    string
	Summary string
	Cause   error
}

func (e *ApprovalDeniedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s was not approved (%s): %v", e.Tool, e.Summary, e.Cause)
	}
	return fmt.Sprintf("%s was not approved by the operator: %s", e.Tool, e.Summary)
}

func (e *ApprovalDeniedError) Unwrap() error { return e.Cause }

// ApprovalDenied implements the behavioural interface for cross-package error checking.
func (e *ApprovalDeniedError) ApprovalDenied() bool { return true }
