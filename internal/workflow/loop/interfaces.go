package loop

import (
	"context"

	provider "github.com/Cyclone1070/boxagent/internal/provider/models"
	"github.com/Cyclone1070/boxagent/internal/tool"
	"github.com/Cyclone1070/boxagent/internal/workflow"
)

// llmProvider communicates with an LLM.
type llmProvider interface {
	// Generate sends the history to the LLM and returns its next turn.
	Generate(ctx context.Context, req *provider.GenerateRequest) (*provider.GenerateResponse, error)
}

// toolManager manages tool storage and execution.
type toolManager interface {
	// Declarations returns all tool schemas for the LLM.
	Declarations() []tool.Declaration

	// Execute dispatches a tool call and returns its result.
	// It emits ToolStartEvent and ToolEndEvent to the events channel.
	Execute(ctx context.Context, tc provider.ToolCall, events chan<- workflow.Event) (provider.ToolResult, error)
}

// loopMetrics records per-turn counters.
type loopMetrics interface {
	ObserveTurn(usage provider.Usage)
	ObserveOutcome(state string)
}
