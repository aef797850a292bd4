package sandbox

import (
	"context"
	"log/slog"

	"github.com/Cyclone1070/boxagent/internal/config"
	"github.com/Cyclone1070/boxagent/internal/tool/service/executor"
)

// ComposeBackend runs programs through a docker compose service defined in
// the execution root's compose file. Isolation is whatever the service declares.
type ComposeBackend struct {
	config config.SandboxConfig
	runner Runner
	logger *slog.Logger
	ready  *readiness
}

// NewComposeBackend creates a compose-based backend.
func NewComposeBackend(sc config.SandboxConfig, runner Runner, logger *slog.Logger) *ComposeBackend {
	b := &ComposeBackend{config: sc, runner: runner, logger: orDiscard(logger)}
	b.ready = &readiness{probe: func(ctx context.Context) error {
		return EnsureDockerReady(ctx, runner, DefaultDockerConfig, sc.DockerRetryAttempts, sc.DockerRetryIntervalMs)
	}}
	return b
}

func (b *ComposeBackend) Name() string        { return "compose" }
func (b *ComposeBackend) Interpreter() string { return b.config.Interpreter }

// Run executes `docker compose run --rm <service> <interpreter> <program> args...`
// from the execution root.
func (b *ComposeBackend) Run(ctx context.Context, req Request) (*executor.Result, error) {
	if err := b.ready.ensure(ctx); err != nil {
		return nil, err
	}

	name := containerName()
	args := []string{"docker", "compose", "run", "--rm", "--name", name, b.config.ComposeService, b.config.Interpreter, req.Program.Rel()}
	args = append(args, req.Args...)

	b.logger.Info("compose sandbox executing",
		slog.String("service", b.config.ComposeService),
		slog.String("container", name),
		slog.String("program", req.Program.Rel()),
	)

	res, err := b.runner.Run(ctx, executor.Command{
		Args:      args,
		Dir:       req.Root,
		Timeout:   timeoutOf(b.config),
		OnTimeout: func() { forceRemove(b.runner, b.logger, name) },
	})
	if ctx.Err() != nil {
		forceRemove(b.runner, b.logger, name)
	}
	return res, err
}
