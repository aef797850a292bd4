package workflow

import (
	provider "github.com/Cyclone1070/boxagent/internal/provider/models"
	"github.com/Cyclone1070/boxagent/internal/tool"
)

// Event is the interface for all workflow events.
// UI handles events via type switch.
type Event interface {
	isEvent()
}

// TextEvent is emitted when the LLM produces text output.
type TextEvent struct {
	Text string
}

func (TextEvent) isEvent() {}

// ThinkingEvent is emitted before each model call.
type ThinkingEvent struct {
	Iteration int
}

func (ThinkingEvent) isEvent() {}

// ThoughtEvent carries thought summaries returned by the model.
type ThoughtEvent struct {
	Text string
}

func (ThoughtEvent) isEvent() {}

// UsageEvent reports token counters for one model turn.
type UsageEvent struct {
	Iteration int
	Usage     provider.Usage
}

func (UsageEvent) isEvent() {}

// ToolStartEvent is emitted when a tool call is dispatched.
type ToolStartEvent struct {
	ToolName       string
	RequestDisplay string // e.g., "Reading main.py"
	Args           map[string]any
}

func (ToolStartEvent) isEvent() {}

// ToolEndEvent is emitted when a tool call completes.
type ToolEndEvent struct {
	ToolName string
	Display  tool.ToolDisplay
	IsError  bool
}

func (ToolEndEvent) isEvent() {}

// DoneEvent is emitted when the workflow loop completes.
type DoneEvent struct {
	State      State
	Iterations int
}

func (DoneEvent) isEvent() {}
