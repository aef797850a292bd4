package program

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/Cyclone1070/boxagent/internal/config"
	"github.com/Cyclone1070/boxagent/internal/sandbox"
	"github.com/Cyclone1070/boxagent/internal/tool"
	"github.com/Cyclone1070/boxagent/internal/tool/service/executor"
	"github.com/Cyclone1070/boxagent/internal/tool/service/fs"
	"github.com/Cyclone1070/boxagent/internal/tool/service/path"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockBackend struct {
	interpreter string
	requests    []sandbox.Request
	runFunc     func(ctx context.Context, req sandbox.Request) (*executor.Result, error)
}

func (m *mockBackend) Name() string        { return "mock" }
func (m *mockBackend) Interpreter() string { return m.interpreter }

func (m *mockBackend) Run(ctx context.Context, req sandbox.Request) (*executor.Result, error) {
	m.requests = append(m.requests, req)
	if m.runFunc != nil {
		return m.runFunc(ctx, req)
	}
	return &executor.Result{}, nil
}

func newScopeWith(t *testing.T, files map[string]string) (tool.Scope, string) {
	t.Helper()
	root := t.TempDir()
	for name, body := range files {
		full := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(body), 0o644))
	}
	r, err := path.NewResolver(root)
	require.NoError(t, err)
	return tool.NewScope(r), r.Root()
}

func execute(t *testing.T, rt *RunProgramTool, scope tool.Scope, req *RunProgramRequest) tool.Result {
	t.Helper()
	res, err := rt.Execute(context.Background(), scope, req)
	require.NoError(t, err)
	return res
}

func TestExecute_Success(t *testing.T) {
	scope, root := newScopeWith(t, map[string]string{"main.py": "print(1)"})
	b := &mockBackend{interpreter: "python", runFunc: func(ctx context.Context, req sandbox.Request) (*executor.Result, error) {
		return &executor.Result{Stdout: "14\n"}, nil
	}}
	rt := NewRunProgramTool(b, fs.NewOSFileSystem(), config.DefaultConfig())

	res := execute(t, rt, scope, &RunProgramRequest{FilePath: "main.py", Args: []string{"2 + 3 * 4"}})

	assert.Equal(t, "Running: python main.py \"2 + 3 * 4\" in "+root+"\nSTDOUT:\n14", res.LLMContent())
	require.Len(t, b.requests, 1)
	assert.Equal(t, root, b.requests[0].Root)
	assert.Equal(t, "main.py", b.requests[0].Program.Rel())
	assert.Equal(t, []string{"2 + 3 * 4"}, b.requests[0].Args)

	view, ok := res.Display().(tool.ProgramDisplay)
	require.True(t, ok)
	assert.Equal(t, "14\n", view.Stdout)
}

func TestExecute_NoOutput(t *testing.T) {
	scope, root := newScopeWith(t, map[string]string{"quiet.py": ""})
	rt := NewRunProgramTool(&mockBackend{interpreter: "python"}, fs.NewOSFileSystem(), config.DefaultConfig())

	res := execute(t, rt, scope, &RunProgramRequest{FilePath: "quiet.py"})
	assert.Equal(t, "Running: python quiet.py in "+root+"\nNo output produced.", res.LLMContent())
}

func TestExecute_ProcessFailedCarriesBothStreams(t *testing.T) {
	scope, _ := newScopeWith(t, map[string]string{"main.py": ""})
	b := &mockBackend{interpreter: "python", runFunc: func(ctx context.Context, req sandbox.Request) (*executor.Result, error) {
		return &executor.Result{ExitCode: 1, Stdout: "partial\n", Stderr: "Traceback\n"},
			&executor.ProcessFailedError{ExitCode: 1, Stdout: "partial\n", Stderr: "Traceback\n"}
	}}
	rt := NewRunProgramTool(b, fs.NewOSFileSystem(), config.DefaultConfig())

	out := execute(t, rt, scope, &RunProgramRequest{FilePath: "main.py"}).LLMContent()
	assert.Contains(t, out, "Process exited with code 1\nSTDOUT:\npartial\nSTDERR:\nTraceback")
}

func TestExecute_Timeout(t *testing.T) {
	scope, _ := newScopeWith(t, map[string]string{"loop.py": ""})
	b := &mockBackend{interpreter: "python", runFunc: func(ctx context.Context, req sandbox.Request) (*executor.Result, error) {
		return &executor.Result{TimedOut: true, ExitCode: -1}, &executor.TimeoutError{After: 30 * time.Second, Stdout: "tick\n"}
	}}
	rt := NewRunProgramTool(b, fs.NewOSFileSystem(), config.DefaultConfig())

	res := execute(t, rt, scope, &RunProgramRequest{FilePath: "loop.py"})
	assert.Contains(t, res.LLMContent(), "Error: process timed out after 30s\nSTDOUT:\ntick")
	assert.True(t, res.Display().(tool.ProgramDisplay).TimedOut)
}

func TestExecute_BackendUnavailable(t *testing.T) {
	scope, _ := newScopeWith(t, map[string]string{"main.py": ""})
	b := &mockBackend{interpreter: "python", runFunc: func(ctx context.Context, req sandbox.Request) (*executor.Result, error) {
		return nil, sandbox.ErrDockerUnavailable
	}}
	rt := NewRunProgramTool(b, fs.NewOSFileSystem(), config.DefaultConfig())

	out := execute(t, rt, scope, &RunProgramRequest{FilePath: "main.py"}).LLMContent()
	assert.Contains(t, out, `Error: executing "main.py": docker is not available`)
}

func TestExecute_RejectedBeforeBackend(t *testing.T) {
	scope, _ := newScopeWith(t, map[string]string{"script.sh": "echo", "pkg/x.py": ""})
	b := &mockBackend{interpreter: "python"}
	rt := NewRunProgramTool(b, fs.NewOSFileSystem(), config.DefaultConfig())

	tests := []struct {
		file string
		want string
	}{
		{"../outside.py", `Error: Cannot execute "../outside.py" as it is outside the permitted working directory`},
		{"/usr/bin/python3", `Error: Cannot execute "/usr/bin/python3" as it is outside the permitted working directory`},
		{"missing.py", `Error: File "missing.py" not found.`},
		{"script.sh", `Error: "script.sh" is not a runnable file; allowed extensions: .py`},
		{"pkg", `Error: "pkg" is a directory, not a file`},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			assert.Equal(t, tt.want, execute(t, rt, scope, &RunProgramRequest{FilePath: tt.file}).LLMContent())
		})
	}
	assert.Empty(t, b.requests)
}

func TestExecute_Cancelled(t *testing.T) {
	scope, _ := newScopeWith(t, map[string]string{"main.py": ""})
	ctx, cancel := context.WithCancel(context.Background())
	b := &mockBackend{interpreter: "python", runFunc: func(ctx context.Context, req sandbox.Request) (*executor.Result, error) {
		cancel()
		return nil, context.Canceled
	}}
	rt := NewRunProgramTool(b, fs.NewOSFileSystem(), config.DefaultConfig())

	_, err := rt.Execute(ctx, scope, &RunProgramRequest{FilePath: "main.py"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExecute_LocalShellProgram(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	scope, _ := newScopeWith(t, map[string]string{
		"fail.sh": "echo out; echo err >&2; exit 4\n",
		"slow.sh": "echo started; sleep 10\n",
	})
	cfg := config.DefaultConfig()
	cfg.Sandbox.Interpreter = "sh"
	cfg.Sandbox.AllowedExtensions = []string{".sh"}
	cfg.Sandbox.TimeoutSeconds = 1
	cfg.Sandbox.GracefulShutdownMs = 100
	b := sandbox.NewLocalBackend(cfg.Sandbox, executor.NewOSCommandExecutor(cfg, nil), nil)
	rt := NewRunProgramTool(b, fs.NewOSFileSystem(), cfg)

	out := execute(t, rt, scope, &RunProgramRequest{FilePath: "fail.sh"}).LLMContent()
	assert.Contains(t, out, "Process exited with code 4\nSTDOUT:\nout\nSTDERR:\nerr")

	start := time.Now()
	out = execute(t, rt, scope, &RunProgramRequest{FilePath: "slow.sh"}).LLMContent()
	assert.Contains(t, out, "timed out")
	assert.Contains(t, out, "STDOUT:\nstarted")
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestExecute_Calculator(t *testing.T) {
	python, err := exec.LookPath("python3")
	if err != nil {
		t.Skip("python3 not available")
	}

	r, err := path.NewResolver(filepath.Join("..", "..", "..", "calculator"))
	require.NoError(t, err)
	scope := tool.NewScope(r)

	cfg := config.DefaultConfig()
	cfg.Sandbox.Interpreter = python
	b := sandbox.NewLocalBackend(cfg.Sandbox, executor.NewOSCommandExecutor(cfg, nil), nil)
	rt := NewRunProgramTool(b, fs.NewOSFileSystem(), cfg)

	out := execute(t, rt, scope, &RunProgramRequest{FilePath: "main.py", Args: []string{"2 + 3 * 4"}}).LLMContent()
	assert.Contains(t, out, `"result": 14`)
	assert.False(t, strings.Contains(out, "Process exited"))
}

func TestDeclaration(t *testing.T) {
	rt := NewRunProgramTool(&mockBackend{interpreter: "python"}, fs.NewOSFileSystem(), config.DefaultConfig())
	decl := rt.Declaration()
	assert.Equal(t, "run_program", decl.Name)
	assert.Equal(t, []string{"file_path"}, decl.Parameters.Required)
	assert.Equal(t, tool.TypeArray, decl.Parameters.Properties["args"].Type)
	assert.Equal(t, tool.TypeString, decl.Parameters.Properties["args"].Items.Type)
}
