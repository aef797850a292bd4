package approval

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Cyclone1070/boxagent/internal/tool"
)

// TerminalGate asks the operator on the terminal. Choosing "allow all"
// approves every later request of the session without asking.
type TerminalGate struct {
	in     io.Reader
	out    io.Writer
	logger *slog.Logger
	ask    func(ctx context.Context, req tool.ApprovalRequest) (Decision, error)

	mu     sync.Mutex
	always bool
}

// NewTerminalGate creates a gate reading keys from in and drawing on out.
func NewTerminalGate(in io.Reader, out io.Writer, logger *slog.Logger) *TerminalGate {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	g := &TerminalGate{in: in, out: out, logger: logger}
	g.ask = g.runPrompt
	return g
}

func (g *TerminalGate) Approve(ctx context.Context, req tool.ApprovalRequest) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return false, err
	}
	if g.always {
		g.logger.Debug("approval skipped, allow all chosen", "tool", req.Tool, "summary", req.Summary)
		return true, nil
	}

	decision, err := g.ask(ctx, req)
	if err != nil {
		return false, err
	}
	g.logger.Info("approval decision", "tool", req.Tool, "summary", req.Summary, "decision", string(decision))

	switch decision {
	case DecisionAllowAlways:
		g.always = true
		return true, nil
	case DecisionAllow:
		return true, nil
	default:
		return false, nil
	}
}

func (g *TerminalGate) runPrompt(ctx context.Context, req tool.ApprovalRequest) (Decision, error) {
	p := tea.NewProgram(
		newPromptModel(req),
		tea.WithContext(ctx),
		tea.WithInput(g.in),
		tea.WithOutput(g.out),
		tea.WithoutSignalHandler(),
	)
	final, err := p.Run()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return DecisionDeny, ctxErr
		}
		return DecisionDeny, fmt.Errorf("approval prompt: %w", err)
	}
	m, ok := final.(promptModel)
	if !ok {
		return DecisionDeny, fmt.Errorf("approval prompt: unexpected model %T", final)
	}
	return m.decision, nil
}
