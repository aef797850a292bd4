package executor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/Cyclone1070/boxagent/internal/config"
)

// Result represents the outcome of a command execution.
type Result struct {
	Stdout    string
	Stderr    string
	ExitCode  int
	TimedOut  bool
	Truncated bool
	Duration  time.Duration
}

// Command describes one program invocation.
type Command struct {
	Args    []string
	Dir     string
	Env     []string // nil inherits the parent environment
	Timeout time.Duration

	// OnTimeout runs after the process group has been terminated for
	// exceeding Timeout, e.g. to remove a container the CLI left behind.
	OnTimeout func()
}

// OSCommandExecutor runs real processes in their own process group.
type OSCommandExecutor struct {
	gracePeriod    time.Duration
	maxOutputBytes int
	logger         *slog.Logger
}

// NewOSCommandExecutor creates a new OSCommandExecutor with injected config.
func NewOSCommandExecutor(cfg *config.Config, logger *slog.Logger) *OSCommandExecutor {
	if cfg == nil {
		panic("cfg is required")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &OSCommandExecutor{
		gracePeriod:    time.Duration(cfg.Sandbox.GracefulShutdownMs) * time.Millisecond,
		maxOutputBytes: int(cfg.Tools.MaxCommandOutputSize),
		logger:         logger,
	}
}

// Run executes the command and blocks until it exits, times out or ctx is done.
//
// A non-zero exit returns the Result together with a *ProcessFailedError.
// A timeout interrupts the process group, kills it after the grace period
// and returns a *TimeoutError. Output captured so far is kept in both cases.
func (e *OSCommandExecutor) Run(ctx context.Context, c Command) (*Result, error) {
	if len(c.Args) == 0 {
		return nil, os.ErrInvalid
	}

	cmd := exec.Command(c.Args[0], c.Args[1:]...)
	cmd.Dir = c.Dir
	cmd.Env = c.Env
	cmd.Stdin = nil
	isolateGroup(cmd)

	stdout := newCollector(e.maxOutputBytes)
	stderr := newCollector(e.maxOutputBytes)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	// Stray grandchildren holding the pipes open must not block Wait forever.
	cmd.WaitDelay = e.gracePeriod

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, &CommandError{Cmd: c.Args[0], Cause: err, Stage: "start"}
	}
	e.logger.Debug("process started", "pid", cmd.Process.Pid, "args", c.Args, "dir", c.Dir)

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	var timeout <-chan time.Time
	if c.Timeout > 0 {
		timer := time.NewTimer(c.Timeout)
		defer timer.Stop()
		timeout = timer.C
	}

	var waitErr error
	timedOut := false
	select {
	case waitErr = <-done:
	case <-ctx.Done():
		e.terminate(cmd, done)
		waitErr = ctx.Err()
	case <-timeout:
		timedOut = true
		e.terminate(cmd, done)
		if c.OnTimeout != nil {
			c.OnTimeout()
		}
	}

	res := &Result{
		Stdout:    stdout.String(),
		Stderr:    stderr.String(),
		TimedOut:  timedOut,
		Truncated: stdout.Truncated() || stderr.Truncated(),
		Duration:  time.Since(start),
	}

	switch {
	case timedOut:
		res.ExitCode = -1
		e.logger.Warn("process timed out", "args", c.Args, "timeout", c.Timeout)
		return res, &TimeoutError{After: c.Timeout, Stdout: res.Stdout, Stderr: res.Stderr}
	case ctx.Err() != nil && errors.Is(waitErr, ctx.Err()):
		res.ExitCode = -1
		return res, fmt.Errorf("process cancelled: %w", waitErr)
	case errors.Is(waitErr, exec.ErrWaitDelay) && cmd.ProcessState.Success():
		e.logger.Debug("process exited but left output pipes open", "args", c.Args)
		return res, nil
	case waitErr != nil:
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			res.ExitCode = -1
			return res, &CommandError{Cmd: c.Args[0], Cause: waitErr, Stage: "wait"}
		}
		res.ExitCode = exitErr.ExitCode()
		return res, &ProcessFailedError{ExitCode: res.ExitCode, Stdout: res.Stdout, Stderr: res.Stderr}
	}
	return res, nil
}

// terminate interrupts the process group, then kills it if it is still
// alive after the grace period. It returns once Wait has completed.
func (e *OSCommandExecutor) terminate(cmd *exec.Cmd, done <-chan error) {
	_ = interruptGroup(cmd)
	select {
	case <-done:
		return
	case <-time.After(e.gracePeriod):
	}
	_ = killGroup(cmd)
	<-done
}
