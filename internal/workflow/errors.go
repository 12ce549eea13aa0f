package workflow

import (
	"errors"
	"fmt"
)

// Domain-specific errors for the workflow package.
var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrEmptyPlan        = errors.New("plan has no steps")
	ErrDuplicateStepID  = errors.New("duplicate step id")
)

// CycleError reports a cyclic or unresolvable dependency graph. Fatal at
// plan-validation time, before any step runs.
type CycleError struct {
	StepID string // A step on the cycle, or with the missing dependency
	Reason string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("invalid step graph at %q: %s", e.StepID, e.Reason)
}
