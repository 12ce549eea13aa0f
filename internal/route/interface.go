package route

import (
	"context"

	"nl-command-router/internal/model"
	"nl-command-router/internal/workflow"
)

//go:generate mockery --name UseCase
type UseCase interface {
	// Route resolves one utterance and dispatches it per the decision policy.
	Route(ctx context.Context, sc model.Scope, input RouteInput) (Outcome, error)

	// Confirm answers a pending yes/no prompt. A "no" re-enters the decision
	// policy with the confidence demoted below the alternatives threshold.
	Confirm(ctx context.Context, sc model.Scope, input ConfirmInput) (Outcome, error)

	// Choose answers a pending alternatives prompt. Picking a suggestion
	// executes it; picking none delegates the turn to the AI path.
	Choose(ctx context.Context, sc model.Scope, input ChooseInput) (Outcome, error)

	// GetExecution returns a finished or in-flight execution by id.
	GetExecution(ctx context.Context, sc model.Scope, id string) (*workflow.Execution, error)

	// CancelExecution requests cooperative cancellation of a running
	// execution; it stops before the next step is dispatched.
	CancelExecution(ctx context.Context, sc model.Scope, id string) error
}
