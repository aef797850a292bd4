package directory

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Cyclone1070/boxagent/internal/tool"
)

// ListDirectoryTool reports the immediate children of a directory.
type ListDirectoryTool struct {
	fs fileSystem
}

// NewListDirectoryTool creates a new ListDirectoryTool with injected dependencies.
func NewListDirectoryTool(fs fileSystem) *ListDirectoryTool {
	if fs == nil {
		panic("fs is required")
	}
	return &ListDirectoryTool{fs: fs}
}

func (t *ListDirectoryTool) Kind() tool.Kind { return tool.KindListDirectory }

func (t *ListDirectoryTool) Declaration() tool.Declaration {
	return tool.Declaration{
		Name:        tool.KindListDirectory.String(),
		Description: "Lists files in the specified directory along with their sizes, constrained to the working directory.",
		Parameters: &tool.Schema{
			Type: tool.TypeObject,
			Properties: map[string]*tool.Schema{
				"directory": {
					Type:        tool.TypeString,
					Description: "The directory to list files from, relative to the working directory. If not provided, lists files in the working directory itself.",
				},
			},
		},
	}
}

func (t *ListDirectoryTool) Input() any { return &ListDirectoryRequest{} }

// Execute lists the directory. Every failure is reported in the result text;
// the error return is reserved for cancellation.
func (t *ListDirectoryTool) Execute(ctx context.Context, scope tool.Scope, input any) (tool.Result, error) {
	req, ok := input.(*ListDirectoryRequest)
	if !ok {
		return tool.Result{}, fmt.Errorf("invalid input type: %T", input)
	}
	if err := ctx.Err(); err != nil {
		return tool.Result{}, err
	}

	target := req.Target()
	entries, err := t.List(scope, target)
	if err != nil {
		return tool.TextResult(describe(target, err)), nil
	}

	header := fmt.Sprintf("Results for %q directory:", target)
	if target == "." {
		header = "Results for current directory:"
	}
	if len(entries) == 0 {
		return tool.Result{Content: header + "\n(empty)", View: tool.StringDisplay(fmt.Sprintf("%s: empty", target))}, nil
	}

	lines := make([]string, 0, len(entries)+1)
	lines = append(lines, header)
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("- %s: file_size=%d bytes, is_dir=%t", e.Name, e.Size, e.IsDir))
	}

	return tool.Result{
		Content: strings.Join(lines, "\n"),
		View:    tool.StringDisplay(fmt.Sprintf("%s: %d entries", target, len(entries))),
	}, nil
}

// List returns the immediate children of target. Directory sizes are the
// size of the directory entry itself, not of its contents.
func (t *ListDirectoryTool) List(scope tool.Scope, target string) ([]Entry, error) {
	p, err := scope.Confine(target)
	if err != nil {
		return nil, err
	}

	info, err := t.fs.Stat(p.Abs())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &tool.NotFoundError{Path: target}
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, &tool.WrongKindError{Path: target, WantDir: true}
	}

	infos, err := t.fs.ListDir(p.Abs())
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(infos))
	for _, fi := range infos {
		entries = append(entries, Entry{Name: fi.Name(), Size: fi.Size(), IsDir: fi.IsDir()})
	}
	return entries, nil
}
