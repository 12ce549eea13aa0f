package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"nl-command-router/internal/model"
	"nl-command-router/internal/workflow"
	pkgLog "nl-command-router/pkg/log"
)

// SecurityDeniedPrefix marks a step error caused by the security gate.
// Denials are fatal for the whole execution and never retried.
const SecurityDeniedPrefix = "SecurityDenied"

// Executor drives one plan to a terminal state. Both tiers — template
// plans and AI-generated plans — go through here; there is no second
// execution path. Steps run serially in dependency order.
type Executor struct {
	runner StepRunner
	gate   Gate
	sink   Sink
	l      pkgLog.Logger
}

// New creates a workflow executor.
func New(runner StepRunner, gate Gate, sink Sink, l pkgLog.Logger) *Executor {
	if sink == nil {
		sink = NopSink{}
	}
	return &Executor{runner: runner, gate: gate, sink: sink, l: l}
}

// Execute validates the plan's graph and runs it. Graph faults reject the
// plan with zero step results. Otherwise the returned execution is always
// terminal; step failures surface as statuses, not errors. Cancellation is
// cooperative: it is honored between steps, and an in-flight step runs to
// its own timeout.
// The caller supplies the execution ID so it can track and cancel the run
// while it is still in flight.
func (e *Executor) Execute(ctx context.Context, executionID string, match *model.IntentMatch, source workflow.PlanSource, steps []workflow.StepSpec) (*workflow.Execution, error) {
	order, err := workflow.TopologicalOrder(steps)
	if err != nil {
		return nil, err
	}
	if executionID == "" {
		executionID = uuid.NewString()
	}

	byID := make(map[string]workflow.StepSpec, len(steps))
	for _, s := range steps {
		byID[s.ID] = s
	}

	exec := &workflow.Execution{
		ID:         executionID,
		Intent:     match,
		PlanSource: source,
		Status:     workflow.ExecutionPending,
		StartedAt:  time.Now(),
	}

	e.l.Infof(ctx, "execution %s starting: source=%s steps=%d", exec.ID, source, len(steps))
	exec.Status = workflow.ExecutionRunning

	stepStatus := make(map[string]workflow.StepStatus, len(steps))
	succeeded, failed := 0, 0
	denied := false
	canceled := false

	for _, id := range order {
		step := byID[id]

		if !denied && !canceled && ctx.Err() != nil {
			canceled = true
			e.l.Warnf(ctx, "execution %s canceled before step %s", exec.ID, id)
		}

		if denied || canceled {
			e.finishStep(ctx, exec, stepStatus, workflow.StepResult{
				StepID: id,
				Status: workflow.StepSkipped,
			})
			continue
		}

		if unmet := unmetDependency(step, stepStatus); unmet != "" {
			e.finishStep(ctx, exec, stepStatus, workflow.StepResult{
				StepID: id,
				Status: workflow.StepSkipped,
				Error:  fmt.Sprintf("dependency %s did not succeed", unmet),
			})
			continue
		}

		if decision := e.gate.Validate(step.Command); !decision.Allowed {
			// Fatal and not retryable: remaining steps are skipped and the
			// whole execution fails regardless of earlier successes.
			failed++
			denied = true
			e.finishStep(ctx, exec, stepStatus, workflow.StepResult{
				StepID:   id,
				Attempts: 0,
				Status:   workflow.StepFailed,
				Error:    fmt.Sprintf("%s: %s", SecurityDeniedPrefix, decision.Reason),
			})
			continue
		}

		result := e.runWithRetry(ctx, step)
		if result.Status == workflow.StepSucceeded {
			succeeded++
		} else {
			failed++
		}
		e.finishStep(ctx, exec, stepStatus, result)
	}

	exec.FinishedAt = time.Now()
	exec.Status = terminalStatus(denied, canceled, failed, succeeded)

	e.sink.ExecutionFinished(ctx, ExecutionEvent{
		ExecutionID: exec.ID,
		PlanSource:  exec.PlanSource,
		Status:      exec.Status,
		Duration:    exec.FinishedAt.Sub(exec.StartedAt),
		Error:       firstError(exec.Steps),
	})

	return exec, nil
}

// runWithRetry executes one step with exponential backoff between attempts.
func (e *Executor) runWithRetry(ctx context.Context, step workflow.StepSpec) workflow.StepResult {
	maxAttempts := step.Retry.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 1
	}

	start := time.Now()
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			backoff := step.Retry.Backoff * time.Duration(1<<(attempt-2))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return workflow.StepResult{
					StepID:   step.ID,
					Attempts: attempt - 1,
					Status:   workflow.StepFailed,
					Error:    fmt.Sprintf("canceled during backoff: %v", lastErr),
					Duration: time.Since(start),
				}
			}
		}

		output, err := e.runner.Run(ctx, step.Command, step.Timeout)
		if err == nil {
			return workflow.StepResult{
				StepID:   step.ID,
				Attempts: attempt,
				Status:   workflow.StepSucceeded,
				Output:   output,
				Duration: time.Since(start),
			}
		}
		lastErr = err
	}

	return workflow.StepResult{
		StepID:   step.ID,
		Attempts: maxAttempts,
		Status:   workflow.StepFailed,
		Error:    lastErr.Error(),
		Duration: time.Since(start),
	}
}

// finishStep appends the finalized result and emits its event. Results are
// never mutated afterwards.
func (e *Executor) finishStep(ctx context.Context, exec *workflow.Execution, stepStatus map[string]workflow.StepStatus, result workflow.StepResult) {
	exec.Steps = append(exec.Steps, result)
	stepStatus[result.StepID] = result.Status
	e.sink.StepFinished(ctx, StepEvent{
		ExecutionID: exec.ID,
		StepID:      result.StepID,
		Status:      result.Status,
		Attempts:    result.Attempts,
		Duration:    result.Duration,
		Error:       result.Error,
	})
}

func unmetDependency(step workflow.StepSpec, stepStatus map[string]workflow.StepStatus) string {
	for _, dep := range step.DependsOn {
		if stepStatus[dep] != workflow.StepSucceeded {
			return dep
		}
	}
	return ""
}

func terminalStatus(denied, canceled bool, failed, succeeded int) workflow.ExecutionStatus {
	switch {
	case denied:
		return workflow.ExecutionFailed
	case canceled && succeeded > 0:
		return workflow.ExecutionPartiallyFailed
	case canceled:
		return workflow.ExecutionFailed
	case failed == 0:
		return workflow.ExecutionSucceeded
	case succeeded > 0:
		return workflow.ExecutionPartiallyFailed
	default:
		return workflow.ExecutionFailed
	}
}

func firstError(steps []workflow.StepResult) string {
	for _, s := range steps {
		if s.Error != "" {
			return fmt.Sprintf("%s: %s", s.StepID, s.Error)
		}
	}
	return ""
}
