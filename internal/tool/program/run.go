package program

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Cyclone1070/boxagent/internal/config"
	"github.com/Cyclone1070/boxagent/internal/sandbox"
	"github.com/Cyclone1070/boxagent/internal/tool"
	"github.com/Cyclone1070/boxagent/internal/tool/service/executor"
	"github.com/Cyclone1070/boxagent/internal/tool/service/path"
)

// RunProgramTool executes a confined program through the sandbox backend.
type RunProgramTool struct {
	backend backend
	fs      fileStater
	config  *config.Config
}

// NewRunProgramTool creates a new RunProgramTool with injected dependencies.
func NewRunProgramTool(b backend, fs fileStater, cfg *config.Config) *RunProgramTool {
	if b == nil {
		panic("backend is required")
	}
	if fs == nil {
		panic("fs is required")
	}
	if cfg == nil {
		panic("cfg is required")
	}
	return &RunProgramTool{backend: b, fs: fs, config: cfg}
}

func (t *RunProgramTool) Kind() tool.Kind { return tool.KindRunProgram }

func (t *RunProgramTool) Declaration() tool.Declaration {
	return tool.Declaration{
		Name: tool.KindRunProgram.String(),
		Description: fmt.Sprintf(
			"Executes a program file (%s) with %s in an isolated sandbox, with optional command-line arguments, and returns its output. Times out after %d seconds.",
			strings.Join(t.config.Sandbox.AllowedExtensions, ", "),
			t.backend.Interpreter(),
			t.config.Sandbox.TimeoutSeconds,
		),
		Parameters: &tool.Schema{
			Type: tool.TypeObject,
			Properties: map[string]*tool.Schema{
				"file_path": {
					Type:        tool.TypeString,
					Description: "Path to the program to execute, relative to the working directory.",
				},
				"args": {
					Type:        tool.TypeArray,
					Description: "Optional arguments passed to the program.",
					Items: &tool.Schema{
						Type:        tool.TypeString,
						Description: "A single command-line argument.",
					},
				},
			},
			Required: []string{"file_path"},
		},
	}
}

func (t *RunProgramTool) Input() any { return &RunProgramRequest{} }

// Execute runs the program and narrates its output. Program failures and
// timeouts are reported in the result text; the error return is reserved
// for cancellation.
func (t *RunProgramTool) Execute(ctx context.Context, scope tool.Scope, input any) (tool.Result, error) {
	req, ok := input.(*RunProgramRequest)
	if !ok {
		return tool.Result{}, fmt.Errorf("invalid input type: %T", input)
	}
	if err := ctx.Err(); err != nil {
		return tool.Result{}, err
	}

	prog, err := t.prepare(scope, req.FilePath)
	if err != nil {
		return tool.TextResult(describe(req.FilePath, err)), nil
	}

	command := t.backend.Interpreter() + " " + req.FilePath
	if len(req.Args) > 0 {
		command += " " + quoteArgs(req.Args)
	}
	header := fmt.Sprintf("Running: %s in %s", command, scope.Root())

	res, err := t.backend.Run(ctx, sandbox.Request{Root: scope.Root(), Program: prog, Args: req.Args})
	if ctxErr := ctx.Err(); ctxErr != nil {
		return tool.Result{}, ctxErr
	}

	view := tool.ProgramDisplay{Command: command, Root: scope.Root()}
	if res != nil {
		view.ExitCode = res.ExitCode
		view.TimedOut = res.TimedOut
		view.Stdout = res.Stdout
		view.Stderr = res.Stderr
	}

	var body string
	var failed *executor.ProcessFailedError
	var timedOut *executor.TimeoutError
	switch {
	case err == nil:
		body = narrate(res.Stdout, res.Stderr)
	case errors.As(err, &failed):
		body = fmt.Sprintf("Process exited with code %d\n%s", failed.ExitCode, narrate(failed.Stdout, failed.Stderr))
	case errors.As(err, &timedOut):
		body = fmt.Sprintf("Error: %v\n%s", timedOut, narrate(timedOut.Stdout, timedOut.Stderr))
	default:
		body = fmt.Sprintf("Error: executing %q: %v", req.FilePath, err)
	}

	return tool.Result{Content: header + "\n" + body, View: view}, nil
}

// prepare confines the program and checks it is a runnable file.
func (t *RunProgramTool) prepare(scope tool.Scope, target string) (path.ConfinedPath, error) {
	p, err := scope.Confine(target)
	if err != nil {
		return path.ConfinedPath{}, err
	}

	info, err := t.fs.Stat(p.Abs())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return path.ConfinedPath{}, &tool.NotFoundError{Path: target}
		}
		return path.ConfinedPath{}, err
	}
	if info.IsDir() {
		return path.ConfinedPath{}, &tool.WrongKindError{Path: target}
	}

	allowed := t.config.Sandbox.AllowedExtensions
	if !slices.Contains(allowed, strings.ToLower(filepath.Ext(p.Abs()))) {
		return path.ConfinedPath{}, &ExtensionError{Path: target, Allowed: allowed}
	}
	return p, nil
}

// narrate renders captured output as STDOUT/STDERR sections.
func narrate(stdout, stderr string) string {
	var sections []string
	if stdout != "" {
		sections = append(sections, "STDOUT:\n"+strings.TrimRight(stdout, "\n"))
	}
	if stderr != "" {
		sections = append(sections, "STDERR:\n"+strings.TrimRight(stderr, "\n"))
	}
	if len(sections) == 0 {
		return "No output produced."
	}
	return strings.Join(sections, "\n")
}

func describe(target string, err error) string {
	switch {
	case tool.IsOutOfBounds(err):
		return fmt.Sprintf("Error: Cannot execute %q as it is outside the permitted working directory", target)
	case tool.IsNotFound(err):
		return fmt.Sprintf("Error: File %q not found.", target)
	default:
		return tool.ErrorText(err)
	}
}
