package services

import (
	"fmt"
	"strings"
)

// FormatToolDescription generates a user-friendly description from tool args.
func FormatToolDescription(name string, args map[string]any) string {
	switch name {
	case "list_directory":
		if dir, ok := args["directory"].(string); ok && dir != "" {
			return fmt.Sprintf("ListDirectory %s", dir)
		}
		return "ListDirectory ."
	case "read_file":
		if path, ok := args["file_path"].(string); ok {
			return fmt.Sprintf("ReadFile %s", path)
		}
	case "write_file":
		if path, ok := args["file_path"].(string); ok {
			return fmt.Sprintf("WriteFile %s", path)
		}
	case "run_program":
		if path, ok := args["file_path"].(string); ok {
			if argv, ok := args["args"].([]any); ok && len(argv) > 0 {
				parts := make([]string, 0, len(argv))
				for _, a := range argv {
					parts = append(parts, fmt.Sprint(a))
				}
				return fmt.Sprintf("RunProgram %s '%s'", path, strings.Join(parts, " "))
			}
			return fmt.Sprintf("RunProgram %s", path)
		}
	}
	return name
}
