package tool

// Type represents JSON Schema types.
type Type string

const (
	TypeString  Type = "string"
	TypeNumber  Type = "number"
	TypeInteger Type = "integer"
	TypeBoolean Type = "boolean"
	TypeArray   Type = "array"
	TypeObject  Type = "object"
)

// Schema represents a JSON Schema for tool parameters.
type Schema struct {
	Type        Type               `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
}

// Declaration declares a tool's function signature for the LLM.
type Declaration struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Parameters  *Schema `json:"parameters,omitempty"`
}

// ToolDisplay is implemented by all display types returned from tools.
// The UI uses type switches to render each type appropriately.
type ToolDisplay interface {
	isToolDisplay()
}

// StringDisplay is for simple text output (most tools).
type StringDisplay string

func (StringDisplay) isToolDisplay() {}

// ProgramDisplay summarises a run_program invocation.
type ProgramDisplay struct {
	Command  string
	Root     string
	ExitCode int
	TimedOut bool
	Stdout   string
	Stderr   string
}

func (ProgramDisplay) isToolDisplay() {}

// ApprovalRequest asks an operator to allow a tool call before it runs.
type ApprovalRequest struct {
	Tool    string
	Summary string // one line, e.g. `write "main.py" (120 characters)`
	Detail  string // optional body shown to the operator
}

// Result is what a tool hands back to the dispatcher.
type Result struct {
	Content string      // text sent to the model
	View    ToolDisplay // rendering for the operator; defaults to Content
}

// LLMContent returns the string content sent to the LLM.
func (r Result) LLMContent() string { return r.Content }

// Display returns the display type for UI rendering.
func (r Result) Display() ToolDisplay {
	if r.View == nil {
		return StringDisplay(r.Content)
	}
	return r.View
}

// TextResult wraps plain text as a Result.
func TextResult(text string) Result {
	return Result{Content: text}
}

// ErrorResult reports a tool-level failure to the model as "Error: ...".
func ErrorResult(err error) Result {
	return Result{Content: ErrorText(err)}
}
