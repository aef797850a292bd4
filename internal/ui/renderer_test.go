package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	provider "github.com/Cyclone1070/boxagent/internal/provider/models"
	"github.com/Cyclone1070/boxagent/internal/tool"
	"github.com/Cyclone1070/boxagent/internal/workflow"
)

type mockMarkdownRenderer struct {
	renderFunc func(string, int) (string, error)
}

func (m *mockMarkdownRenderer) Render(content string, width int) (string, error) {
	if m.renderFunc != nil {
		return m.renderFunc(content, width)
	}
	return "MD[" + content + "]", nil
}

func consume(r *Renderer, evs ...workflow.Event) {
	ch := make(chan workflow.Event, len(evs))
	for _, ev := range evs {
		ch <- ev
	}
	close(ch)
	r.Consume(ch)
}

func TestRenderer_FinalAnswerIsMarkdown(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, &mockMarkdownRenderer{}, Options{})

	consume(r,
		workflow.ThinkingEvent{Iteration: 1},
		workflow.TextEvent{Text: "Let me check."},
		workflow.ToolStartEvent{ToolName: "read_file", RequestDisplay: "Reading main.py"},
		workflow.ToolEndEvent{ToolName: "read_file", Display: tool.StringDisplay("print(1)")},
		workflow.ThinkingEvent{Iteration: 2},
		workflow.TextEvent{Text: "The result is **14**."},
		workflow.DoneEvent{State: workflow.StateDone, Iterations: 2},
	)

	out := buf.String()
	assert.Contains(t, out, "Agent: Let me check.")
	assert.Contains(t, out, " - Calling function: Reading main.py")
	assert.Contains(t, out, "print(1)")
	assert.Contains(t, out, "MD[The result is **14**.]")
	assert.NotContains(t, out, "Agent: The result is")
	assert.Contains(t, out, "Done.")
	assert.Less(t, strings.Index(out, "Let me check."), strings.Index(out, "Calling function"))
}

func TestRenderer_MarkdownFailureFallsBack(t *testing.T) {
	var buf bytes.Buffer
	md := &mockMarkdownRenderer{renderFunc: func(string, int) (string, error) { return "", errors.New("no style") }}
	r := NewRenderer(&buf, md, Options{})

	consume(r,
		workflow.TextEvent{Text: "plain answer"},
		workflow.DoneEvent{State: workflow.StateDone, Iterations: 1},
	)

	assert.Contains(t, buf.String(), "plain answer")
}

func TestRenderer_BudgetExhausted(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, &mockMarkdownRenderer{}, Options{})

	consume(r,
		workflow.TextEvent{Text: "still working"},
		workflow.DoneEvent{State: workflow.StateBudgetExhausted, Iterations: 20},
	)

	out := buf.String()
	assert.Contains(t, out, "Agent: still working")
	assert.NotContains(t, out, "MD[")
	assert.Contains(t, out, "Stopped after 20 iterations")
}

func TestRenderer_Verbose(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, nil, Options{Verbose: true})

	consume(r,
		workflow.UsageEvent{Iteration: 1, Usage: provider.Usage{PromptTokens: 11, ResponseTokens: 4}},
		workflow.ToolStartEvent{ToolName: "list_directory", Args: map[string]any{"directory": "pkg"}},
	)

	out := buf.String()
	assert.Contains(t, out, "Prompt tokens: 11")
	assert.Contains(t, out, "Response tokens: 4")
	assert.Contains(t, out, "Calling function: list_directory(map[directory:pkg])")
}

func TestRenderer_QuietHidesUsage(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, nil, Options{})

	consume(r,
		workflow.UsageEvent{Usage: provider.Usage{PromptTokens: 11}},
		workflow.ToolStartEvent{ToolName: "list_directory", Args: map[string]any{}},
	)

	out := buf.String()
	assert.NotContains(t, out, "Prompt tokens")
	assert.Contains(t, out, " - Calling function: ListDirectory .")
}
