package models

// Role identifies the author of a history entry.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
	RoleTool  Role = "tool"
)

// ToolCall is a model request to invoke a named tool.
type ToolCall struct {
	ID   string
	Name string
	Args map[string]any
}

// ToolResult is the outcome of one dispatched tool call.
// IsError marks dispatch-level failures (unknown tool, bad arguments,
// denied approval); tool-level failures arrive as "Error: ..." Content.
type ToolResult struct {
	CallID  string
	Name    string
	Content string
	IsError bool
}

// Message is one append-only history entry.
type Message struct {
	Role        Role
	Content     string
	ToolCalls   []ToolCall
	ToolResults []ToolResult
}

// UserMessage builds the opening prompt entry.
func UserMessage(text string) Message {
	return Message{Role: RoleUser, Content: text}
}

// ToolMessage wraps a single tool result as a history entry.
func ToolMessage(result ToolResult) Message {
	return Message{Role: RoleTool, ToolResults: []ToolResult{result}}
}
