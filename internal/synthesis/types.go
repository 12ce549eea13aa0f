package synthesis

import (
	"context"

	"nl-command-router/internal/model"
	"nl-command-router/internal/workflow"
	"nl-command-router/pkg/llmprovider"
)

// Synthesizer produces an ad hoc multi-step plan when no template matched
// confidently enough.
type Synthesizer interface {
	Synthesize(ctx context.Context, utt model.Utterance, match *model.IntentMatch) ([]workflow.StepSpec, error)
}

// Completer is the slice of the LLM provider manager the synthesizer uses.
type Completer interface {
	Complete(ctx context.Context, req *llmprovider.Request) (*llmprovider.Response, error)
}

// outlineItem is one entry of the planner role's output.
type outlineItem struct {
	Title string `json:"title"`
	Goal  string `json:"goal"`
}

// rawStep is the wire format the step-generator and optimizer roles emit.
type rawStep struct {
	ID          string   `json:"id"`
	Verb        string   `json:"verb"`
	Target      string   `json:"target"`
	Args        []string `json:"args,omitempty"`
	Content     string   `json:"content,omitempty"`
	DependsOn   []string `json:"depends_on,omitempty"`
	Timeout     string   `json:"timeout,omitempty"`
	MaxAttempts int      `json:"max_attempts,omitempty"`
}
