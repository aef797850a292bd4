package program

import (
	"errors"
	"fmt"
	"strings"
)

var ErrPathRequired = errors.New("file_path is required")

// ExtensionError is returned when the program's extension is not runnable.
type ExtensionError struct {
	Path    string
	Allowed []string
}

func (e *ExtensionError) Error() string {
	return fmt.Sprintf("%q is not a runnable file; allowed extensions: %s", e.Path, strings.Join(e.Allowed, ", "))
}

// RunProgramRequest is the argument struct for run_program.
type RunProgramRequest struct {
	FilePath string   `json:"file_path"`
	Args     []string `json:"args,omitempty"`
}

func (r *RunProgramRequest) Validate() error {
	if r.FilePath == "" {
		return ErrPathRequired
	}
	return nil
}

func (r *RunProgramRequest) String() string {
	if len(r.Args) == 0 {
		return "Running " + r.FilePath
	}
	return "Running " + r.FilePath + " " + quoteArgs(r.Args)
}

// quoteArgs joins args for display, quoting any that contain whitespace or quotes.
func quoteArgs(args []string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		if a == "" || strings.ContainsAny(a, " \t\n\"'") {
			quoted[i] = fmt.Sprintf("%q", a)
		} else {
			quoted[i] = a
		}
	}
	return strings.Join(quoted, " ")
}
