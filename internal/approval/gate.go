package approval

import (
	"context"

	"github.com/Cyclone1070/boxagent/internal/tool"
)

// Decision represents the operator's choice for an approval request.
type Decision string

const (
	DecisionAllow       Decision = "allow"
	DecisionDeny        Decision = "deny"
	DecisionAllowAlways Decision = "allow_always"
)

// Gate decides whether a tool call that asked for approval may run.
type Gate interface {
	Approve(ctx context.Context, req tool.ApprovalRequest) (bool, error)
}

// AutoApprove allows every request.
type AutoApprove struct{}

func (AutoApprove) Approve(ctx context.Context, req tool.ApprovalRequest) (bool, error) {
	return true, ctx.Err()
}

// Deny refuses every request.
type Deny struct{}

func (Deny) Approve(ctx context.Context, req tool.ApprovalRequest) (bool, error) {
	return false, ctx.Err()
}
