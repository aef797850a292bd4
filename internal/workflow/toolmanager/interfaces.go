package toolmanager

import (
	"context"
	"time"

	"github.com/Cyclone1070/boxagent/internal/tool"
)

// Tool defines the interface for individual tools.
// Request structs should implement fmt.Stringer for display.
type Tool interface {
	// Kind identifies the tool within the closed set.
	Kind() tool.Kind

	// Declaration returns the tool's schema for the LLM.
	Declaration() tool.Declaration

	// Input returns a pointer to a fresh input struct (e.g., &ReadFileRequest{}).
	Input() any

	// Execute runs the tool with typed input inside scope. Tool failures are
	// reported in the Result; the error is reserved for cancellation.
	Execute(ctx context.Context, scope tool.Scope, input any) (tool.Result, error)
}

// validator is implemented by request structs that check their own fields.
type validator interface {
	Validate() error
}

// approvalRequester is implemented by tools whose calls may need an operator's consent.
type approvalRequester interface {
	ApprovalFor(scope tool.Scope, input any) (tool.ApprovalRequest, bool)
}

// approvalGate decides whether a call that asked for approval may run.
type approvalGate interface {
	Approve(ctx context.Context, req tool.ApprovalRequest) (bool, error)
}

// toolMetrics records dispatch outcomes.
type toolMetrics interface {
	ObserveToolCall(tool, outcome string, elapsed time.Duration)
}
