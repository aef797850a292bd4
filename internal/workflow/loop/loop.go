package loop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	provider "github.com/Cyclone1070/boxagent/internal/provider/models"
	"github.com/Cyclone1070/boxagent/internal/workflow"
)

// DefaultMaxIterations bounds the number of model turns in a run.
const DefaultMaxIterations = 20

// Outcome summarises a finished run.
type Outcome struct {
	State      workflow.State
	Iterations int
	FinalText  string
	Usage      provider.Usage
	History    []provider.Message
}

// Option configures a Loop.
type Option func(*Loop)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(lp *Loop) {
		if l != nil {
			lp.logger = l
		}
	}
}

// WithMetrics sets the turn metrics sink.
func WithMetrics(m loopMetrics) Option {
	return func(lp *Loop) { lp.metrics = m }
}

type Loop struct {
	provider      llmProvider
	tools         toolManager
	events        chan<- workflow.Event
	maxIterations int
	logger        *slog.Logger
	metrics       loopMetrics
	state         workflow.State
}

// NewLoop creates a loop. A non-positive maxIterations means DefaultMaxIterations.
func NewLoop(provider llmProvider, tools toolManager, events chan<- workflow.Event, maxIterations int, opts ...Option) *Loop {
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	l := &Loop{
		provider:      provider,
		tools:         tools,
		events:        events,
		maxIterations: maxIterations,
		logger:        slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run drives the conversation until the model answers without calling a
// tool or the iteration budget runs out. The returned outcome is non-nil
// even when err is set, and holds the history up to the failure.
func (l *Loop) Run(ctx context.Context, prompt string) (*Outcome, error) {
	out := &Outcome{
		History: []provider.Message{provider.UserMessage(prompt)},
	}

	defer func() {
		if out.State.Terminal() && l.metrics != nil {
			l.metrics.ObserveOutcome(out.State.String())
		}
		l.emit(workflow.DoneEvent{State: out.State, Iterations: out.Iterations})
	}()

	decls := l.tools.Declarations()

	for out.Iterations < l.maxIterations {
		l.transition(out, workflow.StateAwaitingModel)
		if err := ctx.Err(); err != nil {
			return out, err
		}

		out.Iterations++
		l.emit(workflow.ThinkingEvent{Iteration: out.Iterations})

		resp, err := l.provider.Generate(ctx, &provider.GenerateRequest{
			History: out.History,
			Tools:   decls,
		})
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return out, ctxErr
			}
			// A turn cut off at the output token limit is kept as is.
			if resp == nil || !errors.Is(err, provider.ErrContextLengthExceeded) {
				return out, fmt.Errorf("provider.Generate: %w", err)
			}
			l.logger.Warn("model turn truncated, continuing with partial output", "iteration", out.Iterations, "error", err)
		}

		l.transition(out, workflow.StateModelResponded)
		out.History = append(out.History, resp.Message())
		l.recordUsage(out, resp.Usage)

		if resp.Thinking != "" {
			l.emit(workflow.ThoughtEvent{Text: resp.Thinking})
		}
		if resp.Text != "" {
			l.emit(workflow.TextEvent{Text: resp.Text})
		}

		if len(resp.ToolCalls) == 0 {
			if resp.Text != "" {
				out.FinalText = resp.Text
				l.transition(out, workflow.StateDone)
				return out, nil
			}
			l.logger.Warn("model returned neither text nor tool calls", "iteration", out.Iterations)
			continue
		}

		l.transition(out, workflow.StateDispatchingTools)
		for _, tc := range resp.ToolCalls {
			result, err := l.tools.Execute(ctx, tc, l.events)
			if err != nil {
				return out, fmt.Errorf("tools.Execute (%s): %w", tc.Name, err)
			}
			out.History = append(out.History, provider.ToolMessage(result))
		}
	}

	l.transition(out, workflow.StateBudgetExhausted)
	l.logger.Warn("iteration budget exhausted", "max_iterations", l.maxIterations)
	return out, nil
}

// State returns the state the loop is currently in.
func (l *Loop) State() workflow.State {
	return l.state
}

func (l *Loop) transition(out *Outcome, s workflow.State) {
	l.logger.Debug("loop state", "from", l.state.String(), "to", s.String(), "iteration", out.Iterations)
	l.state = s
	out.State = s
}

func (l *Loop) recordUsage(out *Outcome, u provider.Usage) {
	out.Usage.PromptTokens += u.PromptTokens
	out.Usage.ResponseTokens += u.ResponseTokens
	out.Usage.TotalTokens += u.TotalTokens
	l.logger.Debug("token usage", "iteration", out.Iterations, "prompt_tokens", u.PromptTokens, "response_tokens", u.ResponseTokens)
	if l.metrics != nil {
		l.metrics.ObserveTurn(u)
	}
	l.emit(workflow.UsageEvent{Iteration: out.Iterations, Usage: u})
}

func (l *Loop) emit(ev workflow.Event) {
	if l.events != nil {
		l.events <- ev
	}
}
