package models

import "github.com/Cyclone1070/boxagent/internal/tool"

// GenerateRequest encapsulates all parameters for a generation request.
type GenerateRequest struct {
	// History is the full conversation, oldest first.
	History []Message

	// Tools are the declarations the model may call.
	Tools []tool.Declaration
}

// GenerateResponse contains the model's turn and metadata.
type GenerateResponse struct {
	// Text is the concatenated visible text of the turn.
	Text string

	// Thinking carries thought-summary parts, when the model emits them.
	Thinking string

	// ToolCalls are returned in the order the model emitted them.
	ToolCalls []ToolCall

	Usage Usage

	ModelUsed string
}

// Message converts the response into the history entry that records it.
func (r *GenerateResponse) Message() Message {
	return Message{Role: RoleModel, Content: r.Text, ToolCalls: r.ToolCalls}
}

// Usage holds the token counters reported for a turn.
type Usage struct {
	PromptTokens   int
	ResponseTokens int
	TotalTokens    int
}
