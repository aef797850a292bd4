package sandbox

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Cyclone1070/boxagent/internal/tool/service/executor"
)

// ErrDockerUnavailable is returned when the docker daemon cannot be reached.
var ErrDockerUnavailable = errors.New("docker is not available")

const dockerCheckTimeout = 10 * time.Second

// DockerConfig holds the commands used to probe and start the docker daemon.
type DockerConfig struct {
	CheckCommand []string
	StartCommand []string // optional
}

// DefaultDockerConfig probes with "docker info" and never tries to start a daemon.
var DefaultDockerConfig = DockerConfig{
	CheckCommand: []string{"docker", "info"},
}

// EnsureDockerReady checks if Docker is running and attempts to start it if not.
// It polls up to retryAttempts times, retryIntervalMs apart.
func EnsureDockerReady(ctx context.Context, runner Runner, config DockerConfig, retryAttempts int, retryIntervalMs int) error {
	check := func() error {
		_, err := runner.Run(ctx, executor.Command{Args: config.CheckCommand, Timeout: dockerCheckTimeout})
		return err
	}

	if err := check(); err == nil {
		return nil
	}

	if len(config.StartCommand) > 0 {
		if _, err := runner.Run(ctx, executor.Command{Args: config.StartCommand, Timeout: dockerCheckTimeout}); err != nil {
			return fmt.Errorf("%w: start failed: %v", ErrDockerUnavailable, err)
		}
	}

	ticker := time.NewTicker(time.Duration(retryIntervalMs) * time.Millisecond)
	defer ticker.Stop()

	var lastErr error
	for range retryAttempts {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if lastErr = check(); lastErr == nil {
				return nil
			}
		}
	}

	return fmt.Errorf("%w after %d attempts: %v", ErrDockerUnavailable, retryAttempts, lastErr)
}

// readiness remembers a successful docker probe for the rest of the session.
type readiness struct {
	mu    sync.Mutex
	ready bool
	probe func(ctx context.Context) error
}

func (r *readiness) ensure(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ready {
		return nil
	}
	if err := r.probe(ctx); err != nil {
		return err
	}
	r.ready = true
	return nil
}
