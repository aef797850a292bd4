package views

import (
	"fmt"

	provider "github.com/Cyclone1070/boxagent/internal/provider/models"
	"github.com/Cyclone1070/boxagent/internal/workflow"
)

// RenderUsage renders per-turn token counters.
func RenderUsage(u provider.Usage) string {
	return UsageStyle.Render(fmt.Sprintf("Prompt tokens: %d\nResponse tokens: %d", u.PromptTokens, u.ResponseTokens))
}

// RenderDone renders the final status line of a run.
func RenderDone(state workflow.State, iterations int) string {
	switch state {
	case workflow.StateDone:
		return DoneStyle.Render("Done.")
	case workflow.StateBudgetExhausted:
		return ExhaustedStyle.Render(fmt.Sprintf("Stopped after %d iterations without a final answer.", iterations))
	default:
		return ""
	}
}
