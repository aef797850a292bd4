// Package sandbox runs confined programs under an isolation backend.
// The path guard decides what may run; the backend decides what a running
// program can see.
package sandbox

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Cyclone1070/boxagent/internal/config"
	"github.com/Cyclone1070/boxagent/internal/tool/service/executor"
	"github.com/Cyclone1070/boxagent/internal/tool/service/path"
)

// Runner executes a single host command.
type Runner interface {
	Run(ctx context.Context, cmd executor.Command) (*executor.Result, error)
}

// Request describes one program execution.
type Request struct {
	// Root is the canonical execution root. It becomes the working directory.
	Root    string
	Program path.ConfinedPath
	Args    []string
}

// Backend executes a program in an isolated environment.
//
// Run returns *executor.ProcessFailedError on non-zero exit and
// *executor.TimeoutError when the wall-clock bound is exceeded.
type Backend interface {
	Name() string
	Interpreter() string
	Run(ctx context.Context, req Request) (*executor.Result, error)
}

// New builds the backend selected by cfg.Sandbox.Backend.
func New(cfg *config.Config, runner Runner, logger *slog.Logger) (Backend, error) {
	if cfg == nil {
		panic("cfg is required")
	}
	if runner == nil {
		panic("runner is required")
	}
	logger = orDiscard(logger)

	sc := cfg.Sandbox
	switch sc.Backend {
	case "docker":
		return NewDockerBackend(sc, runner, logger), nil
	case "compose":
		return NewComposeBackend(sc, runner, logger), nil
	case "local":
		logger.Warn("local sandbox backend selected: programs run directly on the host without isolation")
		return NewLocalBackend(sc, runner, logger), nil
	default:
		return nil, fmt.Errorf("unknown sandbox backend %q", sc.Backend)
	}
}

func timeoutOf(sc config.SandboxConfig) time.Duration {
	return time.Duration(sc.TimeoutSeconds) * time.Second
}

func orDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return logger
}
