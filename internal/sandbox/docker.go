package sandbox

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/Cyclone1070/boxagent/internal/config"
	"github.com/Cyclone1070/boxagent/internal/tool/service/executor"
	"github.com/google/uuid"
)

const (
	containerWorkdir = "/workspace"
	removeTimeout    = 5 * time.Second
)

// DockerBackend runs each program in an ephemeral, hardened container with
// the execution root bind-mounted at /workspace.
type DockerBackend struct {
	config config.SandboxConfig
	runner Runner
	logger *slog.Logger
	ready  *readiness
}

// NewDockerBackend creates a docker-based backend.
func NewDockerBackend(sc config.SandboxConfig, runner Runner, logger *slog.Logger) *DockerBackend {
	b := &DockerBackend{config: sc, runner: runner, logger: orDiscard(logger)}
	b.ready = &readiness{probe: func(ctx context.Context) error {
		return EnsureDockerReady(ctx, runner, DefaultDockerConfig, sc.DockerRetryAttempts, sc.DockerRetryIntervalMs)
	}}
	return b
}

func (b *DockerBackend) Name() string        { return "docker" }
func (b *DockerBackend) Interpreter() string { return b.config.Interpreter }

// Run executes the program with the interpreter inside a fresh container.
func (b *DockerBackend) Run(ctx context.Context, req Request) (*executor.Result, error) {
	if err := b.ready.ensure(ctx); err != nil {
		return nil, err
	}

	name := containerName()
	args := b.buildArgs(name, req.Root)
	args = append(args, b.config.Interpreter, req.Program.Rel())
	args = append(args, req.Args...)

	b.logger.Info("docker sandbox executing",
		slog.String("container", name),
		slog.String("image", b.config.Image),
		slog.String("program", req.Program.Rel()),
		slog.Any("args", req.Args),
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

// buildArgs constructs the docker run argument list up to and including the image.
func (b *DockerBackend) buildArgs(name, root string) []string {
	args := []string{
		"docker", "run", "--rm",
		"--name", name,

		"--cap-drop=ALL",
		"--security-opt=no-new-privileges",
		"--read-only",
		"--user=65534:65534",

		"--tmpfs", "/tmp:rw,noexec,nosuid,size=64m",
		"--env", "HOME=/tmp",
		"--env", "PYTHONDONTWRITEBYTECODE=1",
	}

	if b.config.MemoryMB > 0 {
		mem := strconv.Itoa(b.config.MemoryMB) + "m"
		args = append(args, "--memory="+mem, "--memory-swap="+mem)
	}
	if b.config.CPUs > 0 {
		args = append(args, "--cpus="+strconv.FormatFloat(b.config.CPUs, 'f', 2, 64))
	}
	if b.config.PidsLimit > 0 {
		args = append(args, "--pids-limit="+strconv.Itoa(b.config.PidsLimit))
	}

	network := b.config.Network
	if network == "" {
		network = "none"
	}
	args = append(args, "--network="+network)

	mount := root + ":" + containerWorkdir
	if b.config.MountReadOnly {
		mount += ":ro"
	}
	args = append(args, "--volume", mount, "--workdir", containerWorkdir)

	return append(args, b.config.Image)
}

// forceRemove removes a container the CLI may have left behind.
// "No such container" means --rm already did the job.
func forceRemove(runner Runner, logger *slog.Logger, name string) {
	ctx, cancel := context.WithTimeout(context.Background(), removeTimeout)
	defer cancel()

	res, err := runner.Run(ctx, executor.Command{Args: []string{"docker", "rm", "-f", name}, Timeout: removeTimeout})
	if err == nil {
		logger.Info("removed timed out container", slog.String("container", name))
		return
	}
	if res != nil && strings.Contains(res.Stderr, "No such container") {
		return
	}
	logger.Warn("docker rm -f failed", slog.String("container", name), slog.String("error", err.Error()))
}

func containerName() string {
	return "boxagent-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
}
