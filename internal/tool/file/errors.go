package file

import (
	"errors"
	"fmt"

	"github.com/Cyclone1070/boxagent/internal/tool"
)

// -- Sentinels --

var (
	ErrPathRequired    = errors.New("file_path is required")
	ErrContentRequired = errors.New("content is required")
	ErrInvalidMaxChars = errors.New("max_chars must be >= 1")
)

// describe renders a file tool failure as the model-facing message.
func describe(verb, target string, err error) string {
	switch {
	case tool.IsOutOfBounds(err):
		return fmt.Sprintf("Error: Cannot %s %q as it is outside the permitted working directory", verb, target)
	case tool.IsNotFound(err), tool.IsWrongKind(err):
		return tool.ErrorText(err)
	default:
		return fmt.Sprintf("Error: %s %q: %v", verb, target, err)
	}
}
