package workflow

import (
	"time"

	"nl-command-router/internal/model"
)

// CommandDescriptor is the platform-neutral description of one operation.
// Placeholders of the form {name} are bound from extracted parameters.
type CommandDescriptor struct {
	Verb    string   // Operation verb, validated against the security policy
	Target  string   // File path, directory, or binary
	Args    []string // Positional arguments
	Content string   // Payload for file-writing verbs
}

// RetryPolicy bounds how a failing step is retried.
type RetryPolicy struct {
	MaxAttempts int           // Total attempts including the first
	Backoff     time.Duration // Base for exponential backoff between attempts
}

// StepSpec is one node of a workflow plan. DependsOn edges must form a DAG.
type StepSpec struct {
	ID        string
	Command   CommandDescriptor
	DependsOn []string
	Retry     RetryPolicy
	Timeout   time.Duration
}

// Template is a pre-authored, parameterized multi-step plan bound to an
// intent. Read-only after catalog load.
type Template struct {
	ID          string
	Intent      model.IntentCategory
	Operation   string
	Triggers    []string // Trigger phrases, may contain {param} placeholders
	Keywords    []string // Auxiliary tokens that boost fuzzy matches
	Steps       []StepSpec
	SuccessRate float64       // Historical hint, tie-breaker only
	StepTimeout time.Duration // Default when a step has none
}

// PlanSource tells which tier produced an executed plan.
type PlanSource string

const (
	SourceTemplate    PlanSource = "template"
	SourceAIGenerated PlanSource = "ai_generated"
)

// ExecutionStatus is the lifecycle state of a whole execution.
type ExecutionStatus string

const (
	ExecutionPending         ExecutionStatus = "pending"
	ExecutionRunning         ExecutionStatus = "running"
	ExecutionSucceeded       ExecutionStatus = "succeeded"
	ExecutionFailed          ExecutionStatus = "failed"
	ExecutionPartiallyFailed ExecutionStatus = "partially_failed"
)

// Terminal reports whether the status is final.
func (s ExecutionStatus) Terminal() bool {
	switch s {
	case ExecutionSucceeded, ExecutionFailed, ExecutionPartiallyFailed:
		return true
	}
	return false
}

// StepStatus is the lifecycle state of one step.
type StepStatus string

const (
	StepPending   StepStatus = "pending"
	StepRunning   StepStatus = "running"
	StepSucceeded StepStatus = "succeeded"
	StepFailed    StepStatus = "failed"
	StepSkipped   StepStatus = "skipped"
)

// StepResult records the outcome of one step. Finalized results are never
// mutated afterwards.
type StepResult struct {
	StepID   string
	Attempts int
	Status   StepStatus
	Output   string
	Error    string
	Duration time.Duration
}

// Execution is the bookkeeping record of one running or finished plan.
// Owned by the executor until terminal, then handed to the caller.
type Execution struct {
	ID         string
	Intent     *model.IntentMatch // Back-reference, not owned
	PlanSource PlanSource
	Steps      []StepResult
	Status     ExecutionStatus
	StartedAt  time.Time
	FinishedAt time.Time
}
