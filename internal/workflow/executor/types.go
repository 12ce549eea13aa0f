package executor

import (
	"context"
	"time"

	"nl-command-router/internal/security"
	"nl-command-router/internal/workflow"
)

// StepRunner executes one bound command with a hard timeout. Errors are
// transient by default and retried per the step's policy.
type StepRunner interface {
	Run(ctx context.Context, cmd workflow.CommandDescriptor, timeout time.Duration) (output string, err error)
}

// Gate is the security validator consulted before every step, whatever the
// plan source.
type Gate interface {
	Validate(cmd workflow.CommandDescriptor) security.Decision
}

// StepEvent is emitted once per finalized StepResult.
type StepEvent struct {
	ExecutionID string
	StepID      string
	Status      workflow.StepStatus
	Attempts    int
	Duration    time.Duration
	Error       string
}

// ExecutionEvent is emitted once per terminal execution state.
type ExecutionEvent struct {
	ExecutionID string
	PlanSource  workflow.PlanSource
	Status      workflow.ExecutionStatus
	Duration    time.Duration
	Error       string
}

// Sink receives diagnostics events. Implementations must not block the
// executor for long.
type Sink interface {
	StepFinished(ctx context.Context, ev StepEvent)
	ExecutionFinished(ctx context.Context, ev ExecutionEvent)
}
