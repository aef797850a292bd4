// Package main is the boxagent command: it copies a template project into a
// workspace and lets a Gemini model inspect, edit and run it through a
// confined set of tools.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/Cyclone1070/boxagent/internal/approval"
	"github.com/Cyclone1070/boxagent/internal/config"
	"github.com/Cyclone1070/boxagent/internal/logging"
	"github.com/Cyclone1070/boxagent/internal/metrics"
	"github.com/Cyclone1070/boxagent/internal/provider/gemini"
	provider "github.com/Cyclone1070/boxagent/internal/provider/models"
	"github.com/Cyclone1070/boxagent/internal/sandbox"
	"github.com/Cyclone1070/boxagent/internal/tool"
	"github.com/Cyclone1070/boxagent/internal/tool/directory"
	"github.com/Cyclone1070/boxagent/internal/tool/file"
	"github.com/Cyclone1070/boxagent/internal/tool/program"
	"github.com/Cyclone1070/boxagent/internal/tool/service/executor"
	"github.com/Cyclone1070/boxagent/internal/tool/service/fs"
	"github.com/Cyclone1070/boxagent/internal/tool/service/path"
	"github.com/Cyclone1070/boxagent/internal/ui"
	"github.com/Cyclone1070/boxagent/internal/ui/services"
	"github.com/Cyclone1070/boxagent/internal/workflow"
	"github.com/Cyclone1070/boxagent/internal/workflow/loop"
	"github.com/Cyclone1070/boxagent/internal/workflow/toolmanager"
	"github.com/Cyclone1070/boxagent/internal/workspace"
)

// Dependencies holds what a run needs from the outside world.
type Dependencies struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Getenv func(string) string

	// ProviderFactory builds the model client.
	ProviderFactory func(ctx context.Context, cfg *config.Config, apiKey string, logger *slog.Logger) (provider.Provider, error)
	// Backend overrides the sandbox backend selected by config.
	Backend sandbox.Backend
	// Gate overrides the approval gate selected by config and terminal.
	Gate approvalGate
}

type approvalGate interface {
	Approve(ctx context.Context, req tool.ApprovalRequest) (bool, error)
}

type options struct {
	configPath string
	verbose    bool
	clean      bool
	prompt     string
}

// usageError reports bad invocation; usage has already been printed.
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], Dependencies{
		Stdin:           os.Stdin,
		Stdout:          os.Stdout,
		Stderr:          os.Stderr,
		Getenv:          os.Getenv,
		ProviderFactory: newGeminiProvider,
	})
	stop()
	os.Exit(code)
}

// run executes one agent session and returns the process exit code.
func run(ctx context.Context, args []string, deps Dependencies) int {
	opts, err := parseFlags(args, deps.Stderr)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		var ue *usageError
		if !errors.As(err, &ue) {
			fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		}
		return 1
	}

	if err := session(ctx, opts, deps); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	flagSet := pflag.NewFlagSet("boxagent", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVar(&opts.configPath, "config", "", "path to config file (default: ~/.config/boxagent/config.json)")
	flagSet.BoolVarP(&opts.verbose, "verbose", "v", false, "show tool arguments, token usage and debug logs")
	flagSet.BoolVar(&opts.clean, "clean", false, "remove the existing workspace copy before starting")
	flagSet.Usage = func() { printUsage(stderr, flagSet) }

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return opts, err
		}
		fmt.Fprintf(stderr, "error: %v\n", err)
		printUsage(stderr, flagSet)
		return opts, &usageError{err}
	}

	prompt := strings.TrimSpace(strings.Join(flagSet.Args(), " "))
	if prompt == "" {
		printUsage(stderr, flagSet)
		return opts, &usageError{errors.New("missing prompt")}
	}
	opts.prompt = prompt
	return opts, nil
}

func printUsage(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(w, "Usage: boxagent [flags] \"<prompt>\"\n\nFlags:\n%s", flagSet.FlagUsages())
}

// session wires the components together and runs the conversation loop.
func session(ctx context.Context, opts options, deps Dependencies) error {
	// A missing .env is normal; the key may already be in the environment.
	_ = godotenv.Load()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.Log, deps.Stderr, opts.verbose)
	if err != nil {
		return err
	}
	defer log.Close()
	logger := log.Logger

	apiKey := deps.Getenv(cfg.Provider.APIKeyEnv)
	if apiKey == "" {
		return fmt.Errorf("%s environment variable is required", cfg.Provider.APIKeyEnv)
	}

	osfs := fs.NewOSFileSystem()
	wsDir, _, err := workspace.NewMaterializer(osfs, logger).Materialize(ctx, workspace.Options{
		Template: cfg.Agent.TemplateDir,
		Dir:      cfg.Agent.WorkspaceDir,
		Clean:    opts.clean,
		Verbatim: cfg.Agent.CopyVerbatim,
	})
	if err != nil {
		return fmt.Errorf("prepare workspace: %w", err)
	}

	wsResolver, err := path.NewResolver(wsDir)
	if err != nil {
		return fmt.Errorf("workspace root: %w", err)
	}
	execResolver, err := path.NewResolver(cfg.ExecRootDir())
	if err != nil {
		return fmt.Errorf("exec root: %w", err)
	}
	logger.Info("roots", "workspace", wsResolver.Root(), "exec_root", execResolver.Root())

	backend := deps.Backend
	if backend == nil {
		backend, err = sandbox.New(cfg, executor.NewOSCommandExecutor(cfg, logger), logger)
		if err != nil {
			return err
		}
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	defer func() {
		if err := m.WriteTextfile(cfg.Log.MetricsTextfile); err != nil {
			logger.Warn("failed to write metrics textfile", "path", cfg.Log.MetricsTextfile, "error", err)
		}
	}()

	wsScope, execScope := tool.NewScope(wsResolver), tool.NewScope(execResolver)
	tools, err := toolmanager.NewToolManager([]toolmanager.Registration{
		{Tool: directory.NewListDirectoryTool(osfs), Scope: wsScope},
		{Tool: file.NewReadFileTool(osfs, cfg), Scope: wsScope},
		{Tool: file.NewWriteFileTool(osfs, cfg), Scope: wsScope},
		{Tool: program.NewRunProgramTool(backend, osfs, cfg), Scope: execScope},
	},
		toolmanager.WithApprovalGate(selectGate(cfg, deps, logger)),
		toolmanager.WithLogger(logger),
		toolmanager.WithMetrics(m),
	)
	if err != nil {
		return err
	}

	llm, err := deps.ProviderFactory(ctx, cfg, apiKey, logger)
	if err != nil {
		return err
	}

	events := make(chan workflow.Event, 16)
	renderer := ui.NewRenderer(deps.Stdout, services.NewGlamourRenderer(), ui.Options{Verbose: opts.verbose})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		renderer.Consume(events)
	}()

	if opts.verbose {
		fmt.Fprintf(deps.Stdout, "User prompt: %s\n\n", opts.prompt)
	}

	outcome, err := loop.NewLoop(llm, tools, events, cfg.Agent.MaxIterations,
		loop.WithLogger(logger),
		loop.WithMetrics(m),
	).Run(ctx, opts.prompt)
	close(events)
	wg.Wait()
	if err != nil {
		return err
	}

	logger.Info("run finished",
		"state", outcome.State.String(),
		"iterations", outcome.Iterations,
		"prompt_tokens", outcome.Usage.PromptTokens,
		"response_tokens", outcome.Usage.ResponseTokens,
	)
	return nil
}

// selectGate picks the approval gate: none when approval is off, the
// interactive prompt on a terminal, otherwise deny.
func selectGate(cfg *config.Config, deps Dependencies, logger *slog.Logger) approvalGate {
	if deps.Gate != nil {
		return deps.Gate
	}
	if !cfg.Agent.ApproveScriptWrites {
		return approval.AutoApprove{}
	}
	if f, ok := deps.Stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return approval.NewTerminalGate(deps.Stdin, deps.Stderr, logger)
	}
	logger.Warn("stdin is not a terminal: script writes will be denied")
	return approval.Deny{}
}

func newGeminiProvider(ctx context.Context, cfg *config.Config, apiKey string, logger *slog.Logger) (provider.Provider, error) {
	client, err := gemini.NewClient(ctx, apiKey)
	if err != nil {
		return nil, err
	}
	return gemini.NewGeminiProvider(client, cfg.Provider.Model, cfg.Agent.SystemPrompt, logger), nil
}
