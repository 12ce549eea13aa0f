package synthesis

import "fmt"

// SynthesisError reports that an LLM role's output could not be turned into
// a valid plan. Surfaced to the caller as a DelegatedToAI failure, never a
// crash.
type SynthesisError struct {
	Role string // "planner", "step_generator", or "optimizer"
	Err  error
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("synthesis failed at %s: %v", e.Role, e.Err)
}

func (e *SynthesisError) Unwrap() error { return e.Err }
