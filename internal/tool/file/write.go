package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/Cyclone1070/boxagent/internal/config"
	"github.com/Cyclone1070/boxagent/internal/tool"
	"github.com/Cyclone1070/boxagent/internal/tool/service/fs"
)

// WriteFileTool handles file writing operations.
type WriteFileTool struct {
	fileOps fileWriter
	config  *config.Config
}

// NewWriteFileTool creates a new WriteFileTool with injected dependencies.
func NewWriteFileTool(fileOps fileWriter, cfg *config.Config) *WriteFileTool {
	if fileOps == nil {
		panic("fileOps is required")
	}
	if cfg == nil {
		panic("cfg is required")
	}
	return &WriteFileTool{fileOps: fileOps, config: cfg}
}

func (t *WriteFileTool) Kind() tool.Kind { return tool.KindWriteFile }

func (t *WriteFileTool) Declaration() tool.Declaration {
	return tool.Declaration{
		Name:        tool.KindWriteFile.String(),
		Description: "Writes content to a file, constrained to the working directory. Creates parent directories as needed and overwrites existing files.",
		Parameters: &tool.Schema{
			Type: tool.TypeObject,
			Properties: map[string]*tool.Schema{
				"file_path": {
					Type:        tool.TypeString,
					Description: "The path of the file to write, relative to the working directory.",
				},
				"content": {
					Type:        tool.TypeString,
					Description: "The full content to write to the file.",
				},
			},
			Required: []string{"file_path", "content"},
		},
	}
}

func (t *WriteFileTool) Input() any { return &WriteFileRequest{} }

// ApprovalFor asks for operator approval before a script is written. The
// extension is taken from the resolved path, so symlinks and alternate
// spellings of a script name are gated too. Paths that Write rejects need no
// approval.
func (t *WriteFileTool) ApprovalFor(scope tool.Scope, input any) (tool.ApprovalRequest, bool) {
	req, ok := input.(*WriteFileRequest)
	if !ok || !t.config.Agent.ApproveScriptWrites || namesDirectory(req.FilePath) {
		return tool.ApprovalRequest{}, false
	}
	p, err := scope.Confine(req.FilePath)
	if err != nil || p.IsRoot() {
		return tool.ApprovalRequest{}, false
	}

	ext := strings.ToLower(filepath.Ext(p.Abs()))
	if !slices.Contains(t.config.Sandbox.AllowedExtensions, ext) {
		return tool.ApprovalRequest{}, false
	}

	return tool.ApprovalRequest{
		Tool:    tool.KindWriteFile.String(),
		Summary: fmt.Sprintf("write %q (%d characters)", req.FilePath, utf8.RuneCountInString(req.text())),
		Detail:  req.text(),
	}, true
}

// Execute writes the file. Every failure is reported in the result text;
// the error return is reserved for cancellation.
func (t *WriteFileTool) Execute(ctx context.Context, scope tool.Scope, input any) (tool.Result, error) {
	req, ok := input.(*WriteFileRequest)
	if !ok {
		return tool.Result{}, fmt.Errorf("invalid input type: %T", input)
	}
	if err := ctx.Err(); err != nil {
		return tool.Result{}, err
	}

	text := req.text()
	n, err := t.Write(scope, req.FilePath, text)
	if err != nil {
		return tool.TextResult(describe("write to", req.FilePath, err)), nil
	}

	chars := utf8.RuneCountInString(text)
	return tool.Result{
		Content: fmt.Sprintf("Successfully wrote to %q (%d characters, %d bytes written)", req.FilePath, chars, n),
		View:    tool.StringDisplay(fmt.Sprintf("Wrote %s (%d bytes)", req.FilePath, n)),
	}, nil
}

// Write creates parent directories and writes text directly to target.
// It returns the number of bytes written.
func (t *WriteFileTool) Write(scope tool.Scope, target, text string) (int, error) {
	if limit := t.config.Tools.MaxWriteSize; int64(len(text)) > limit {
		return 0, &fs.TooLargeError{Size: int64(len(text)), Limit: limit}
	}

	if namesDirectory(target) {
		return 0, &tool.WrongKindError{Path: target}
	}

	p, err := scope.Confine(target)
	if err != nil {
		return 0, err
	}
	if p.IsRoot() {
		return 0, &tool.WrongKindError{Path: target}
	}

	info, err := t.fileOps.Stat(p.Abs())
	switch {
	case err == nil && info.IsDir():
		return 0, &tool.WrongKindError{Path: target}
	case err != nil && !errors.Is(err, os.ErrNotExist):
		return 0, err
	}

	if err := t.fileOps.EnsureDirs(filepath.Dir(p.Abs())); err != nil {
		return 0, fmt.Errorf("failed to create parent directories: %w", err)
	}
	if err := t.fileOps.WriteFile(p.Abs(), []byte(text), 0o644); err != nil {
		return 0, err
	}
	return len(text), nil
}

// namesDirectory reports whether target is spelled as a directory: a
// trailing separator, or a final "." or ".." component.
func namesDirectory(target string) bool {
	slashed := filepath.ToSlash(target)
	if strings.HasSuffix(slashed, "/") {
		return true
	}
	last := slashed[strings.LastIndex(slashed, "/")+1:]
	return last == "." || last == ".."
}
