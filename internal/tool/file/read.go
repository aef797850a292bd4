package file

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/Cyclone1070/boxagent/internal/config"
	"github.com/Cyclone1070/boxagent/internal/tool"
	"github.com/Cyclone1070/boxagent/internal/tool/helper/content"
)

// ReadFileTool handles file reading operations.
type ReadFileTool struct {
	fileOps fileReader
	config  *config.Config
}

// NewReadFileTool creates a new ReadFileTool with injected dependencies.
func NewReadFileTool(fileOps fileReader, cfg *config.Config) *ReadFileTool {
	if fileOps == nil {
		panic("fileOps is required")
	}
	if cfg == nil {
		panic("cfg is required")
	}
	return &ReadFileTool{fileOps: fileOps, config: cfg}
}

func (t *ReadFileTool) Kind() tool.Kind { return tool.KindReadFile }

func (t *ReadFileTool) Declaration() tool.Declaration {
	return tool.Declaration{
		Name:        tool.KindReadFile.String(),
		Description: fmt.Sprintf("Reads the text content of a file, constrained to the working directory. Content longer than max_chars (default %d) is truncated.", t.config.Tools.ReadFileMaxChars),
		Parameters: &tool.Schema{
			Type: tool.TypeObject,
			Properties: map[string]*tool.Schema{
				"file_path": {
					Type:        tool.TypeString,
					Description: "The path of the file to read, relative to the working directory.",
				},
				"max_chars": {
					Type:        tool.TypeInteger,
					Description: "Maximum number of characters to return.",
				},
			},
			Required: []string{"file_path"},
		},
	}
}

func (t *ReadFileTool) Input() any { return &ReadFileRequest{} }

// Execute reads the file. Every failure is reported in the result text;
// the error return is reserved for cancellation.
func (t *ReadFileTool) Execute(ctx context.Context, scope tool.Scope, input any) (tool.Result, error) {
	req, ok := input.(*ReadFileRequest)
	if !ok {
		return tool.Result{}, fmt.Errorf("invalid input type: %T", input)
	}
	if err := ctx.Err(); err != nil {
		return tool.Result{}, err
	}

	limit := t.config.Tools.ReadFileMaxChars
	if req.MaxChars != nil {
		limit = *req.MaxChars
	}

	text, truncated, err := t.Read(scope, req.FilePath, limit)
	if err != nil {
		return tool.TextResult(describe("read", req.FilePath, err)), nil
	}

	display := fmt.Sprintf("Read %s", req.FilePath)
	if truncated {
		text += fmt.Sprintf("...File %q truncated at %d characters", req.FilePath, limit)
		display += fmt.Sprintf(" (truncated at %d characters)", limit)
	}
	return tool.Result{Content: text, View: tool.StringDisplay(display)}, nil
}

// Read returns at most limit characters of the file and whether it was cut.
// One character beyond the limit is read to detect truncation and dropped.
func (t *ReadFileTool) Read(scope tool.Scope, target string, limit int) (string, bool, error) {
	p, err := scope.Confine(target)
	if err != nil {
		return "", false, err
	}

	info, err := t.fileOps.Stat(p.Abs())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, &tool.NotFoundError{Path: target}
		}
		return "", false, err
	}
	if info.IsDir() {
		return "", false, &tool.WrongKindError{Path: target}
	}

	raw, err := t.fileOps.ReadRunes(p.Abs(), limit+1)
	if err != nil {
		return "", false, err
	}

	text, truncated := content.TruncateRunes(raw, limit)
	return text, truncated, nil
}
