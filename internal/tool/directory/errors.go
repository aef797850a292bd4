package directory

import (
	"fmt"

	"github.com/Cyclone1070/boxagent/internal/tool"
)

// describe renders a listing failure as the model-facing message.
func describe(target string, err error) string {
	switch {
	case tool.IsOutOfBounds(err):
		return fmt.Sprintf("Error: Cannot list %q as it is outside the permitted working directory", target)
	case tool.IsNotFound(err), tool.IsWrongKind(err):
		return tool.ErrorText(err)
	default:
		return fmt.Sprintf("Error: listing %q: %v", target, err)
	}
}
