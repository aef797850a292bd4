package views

import (
	"fmt"
	"strings"

	"github.com/Cyclone1070/boxagent/internal/tool"
)

// RenderToolStart renders the line announcing a tool call. Verbose mode
// shows the raw arguments.
func RenderToolStart(name, description string, args map[string]any, verbose bool) string {
	if verbose {
		return ToolCallStyle.Render(fmt.Sprintf("Calling function: %s(%v)", name, args))
	}
	if description == "" {
		description = name
	}
	return ToolCallStyle.Render(" - Calling function: " + description)
}

// RenderToolEnd renders a tool's display.
func RenderToolEnd(display tool.ToolDisplay, isError bool) string {
	style := ToolOutputStyle
	if isError {
		style = ToolErrorStyle
	}

	switch d := display.(type) {
	case tool.ProgramDisplay:
		return style.Render(renderProgram(d))
	case tool.StringDisplay:
		return style.Render(strings.TrimRight(string(d), "\n"))
	case nil:
		return ""
	default:
		return style.Render(fmt.Sprintf("%v", d))
	}
}

func renderProgram(d tool.ProgramDisplay) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "$ %s  (in %s)", d.Command, d.Root)
	switch {
	case d.TimedOut:
		sb.WriteString("\ntimed out")
	case d.ExitCode != 0:
		fmt.Fprintf(&sb, "\nexit code %d", d.ExitCode)
	}
	if out := strings.TrimRight(d.Stdout, "\n"); out != "" {
		sb.WriteString("\n" + out)
	}
	if errOut := strings.TrimRight(d.Stderr, "\n"); errOut != "" {
		sb.WriteString("\n" + errOut)
	}
	return sb.String()
}
