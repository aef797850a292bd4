package executor

import (
	"context"
	"errors"
	"os"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/Cyclone1070/boxagent/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExecutor(t *testing.T, mutate func(*config.Config)) *OSCommandExecutor {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	cfg := config.DefaultConfig()
	cfg.Sandbox.GracefulShutdownMs = 200
	if mutate != nil {
		mutate(cfg)
	}
	return NewOSCommandExecutor(cfg, nil)
}

func TestRun(t *testing.T) {
	exec := newTestExecutor(t, nil)

	t.Run("SimpleCommand", func(t *testing.T) {
		res, err := exec.Run(context.Background(), Command{Args: []string{"echo", "hello"}})
		require.NoError(t, err)
		assert.Equal(t, "hello", strings.TrimSpace(res.Stdout))
		assert.Equal(t, 0, res.ExitCode)
		assert.False(t, res.TimedOut)
	})

	t.Run("EmptyCommand", func(t *testing.T) {
		_, err := exec.Run(context.Background(), Command{})
		assert.ErrorIs(t, err, os.ErrInvalid)
	})

	t.Run("WorkingDirectory", func(t *testing.T) {
		dir := t.TempDir()
		res, err := exec.Run(context.Background(), Command{Args: []string{"pwd"}, Dir: dir})
		require.NoError(t, err)
		assert.Contains(t, strings.TrimSpace(res.Stdout), dir[strings.LastIndex(dir, "/"):])
	})

	t.Run("Stderr", func(t *testing.T) {
		res, err := exec.Run(context.Background(), Command{Args: []string{"sh", "-c", "echo error >&2"}})
		require.NoError(t, err)
		assert.Equal(t, "error", strings.TrimSpace(res.Stderr))
	})

	t.Run("MissingBinary", func(t *testing.T) {
		_, err := exec.Run(context.Background(), Command{Args: []string{"definitely-not-a-binary-xyz"}})
		var cmdErr *CommandError
		require.True(t, errors.As(err, &cmdErr))
		assert.Equal(t, "start", cmdErr.Stage)
	})
}

func TestRun_NonZeroExitCarriesOutput(t *testing.T) {
	exec := newTestExecutor(t, nil)

	res, err := exec.Run(context.Background(), Command{
		Args: []string{"sh", "-c", "echo partial; echo boom >&2; exit 3"},
	})
	require.Error(t, err)

	var failed *ProcessFailedError
	require.True(t, errors.As(err, &failed))
	assert.True(t, failed.ProcessFailed())
	assert.Equal(t, 3, failed.ExitCode)
	assert.Equal(t, "partial", strings.TrimSpace(failed.Stdout))
	assert.Equal(t, "boom", strings.TrimSpace(failed.Stderr))
	assert.Equal(t, 3, res.ExitCode)
}

func TestRun_TimeoutTerminates(t *testing.T) {
	exec := newTestExecutor(t, nil)

	cleaned := false
	start := time.Now()
	res, err := exec.Run(context.Background(), Command{
		Args:      []string{"sh", "-c", "echo started; sleep 10"},
		Timeout:   200 * time.Millisecond,
		OnTimeout: func() { cleaned = true },
	})
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeout)

	var timeoutErr *TimeoutError
	require.True(t, errors.As(err, &timeoutErr))
	assert.True(t, timeoutErr.Timeout())
	assert.Equal(t, "started", strings.TrimSpace(timeoutErr.Stdout))

	assert.True(t, res.TimedOut)
	assert.Equal(t, -1, res.ExitCode)
	assert.True(t, cleaned)
	assert.Less(t, elapsed, 5*time.Second)
}

func TestRun_TimeoutKillsIgnoringInterrupt(t *testing.T) {
	exec := newTestExecutor(t, nil)

	start := time.Now()
	_, err := exec.Run(context.Background(), Command{
		Args:    []string{"sh", "-c", "trap '' INT; sleep 10"},
		Timeout: 100 * time.Millisecond,
	})

	assert.ErrorIs(t, err, ErrTimeout)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestRun_ContextCancel(t *testing.T) {
	exec := newTestExecutor(t, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := exec.Run(ctx, Command{Args: []string{"sleep", "10"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NotErrorIs(t, err, ErrTimeout)
}

func TestRun_LargeOutputTruncated(t *testing.T) {
	exec := newTestExecutor(t, func(c *config.Config) {
		c.Tools.MaxCommandOutputSize = 10
	})

	res, err := exec.Run(context.Background(), Command{Args: []string{"echo", "123456789012345"}})
	require.NoError(t, err)
	assert.True(t, res.Truncated)
	assert.LessOrEqual(t, len(res.Stdout), 10)
}

func TestRun_BinaryOutput(t *testing.T) {
	exec := newTestExecutor(t, nil)

	res, err := exec.Run(context.Background(), Command{Args: []string{"printf", `a\000b`}})
	require.NoError(t, err)
	assert.Equal(t, "[Binary Content]", res.Stdout)
}
