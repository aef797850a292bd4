package sandbox

import (
	"context"
	"log/slog"
	"os"

	"github.com/Cyclone1070/boxagent/internal/config"
	"github.com/Cyclone1070/boxagent/internal/tool/service/executor"
)

// LocalBackend runs the interpreter directly on the host in its own process
// group with a minimal environment. It is not an isolation boundary.
type LocalBackend struct {
	config config.SandboxConfig
	runner Runner
	logger *slog.Logger
}

// NewLocalBackend creates a host process backend.
func NewLocalBackend(sc config.SandboxConfig, runner Runner, logger *slog.Logger) *LocalBackend {
	return &LocalBackend{config: sc, runner: runner, logger: orDiscard(logger)}
}

func (b *LocalBackend) Name() string        { return "local" }
func (b *LocalBackend) Interpreter() string { return b.config.Interpreter }

func (b *LocalBackend) Run(ctx context.Context, req Request) (*executor.Result, error) {
	args := append([]string{b.config.Interpreter, req.Program.Rel()}, req.Args...)

	b.logger.Debug("local sandbox executing", slog.Any("args", args), slog.String("dir", req.Root))

	return b.runner.Run(ctx, executor.Command{
		Args:    args,
		Dir:     req.Root,
		Env:     minimalEnv(req.Root),
		Timeout: timeoutOf(b.config),
	})
}

// minimalEnv keeps only what an interpreter needs to start.
func minimalEnv(root string) []string {
	return []string{
		"PATH=" + os.Getenv("PATH"),
		"HOME=" + root,
		"LANG=C.UTF-8",
		"PYTHONDONTWRITEBYTECODE=1",
	}
}
