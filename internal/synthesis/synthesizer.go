package synthesis

import (
	"context"
	"encoding/json"
	"fmt"

	"nl-command-router/internal/model"
	"nl-command-router/internal/workflow"
	"nl-command-router/pkg/llmprovider"
	pkgLog "nl-command-router/pkg/log"
)

// synthesizer delegates to three logical LLM roles: a planner proposes an
// ordered outline, a step generator expands it into concrete steps, and an
// optimizer may merge or reorder them. All three share one provider chain.
type synthesizer struct {
	llm      Completer
	maxSteps int
	defaults workflow.Defaults
	l        pkgLog.Logger
}

// New creates a Synthesizer on top of the provider manager.
func New(llm Completer, maxSteps int, defaults workflow.Defaults, l pkgLog.Logger) Synthesizer {
	return &synthesizer{
		llm:      llm,
		maxSteps: maxSteps,
		defaults: defaults,
		l:        l,
	}
}

// Synthesize runs the planner → step generator → optimizer pipeline. Any
// role failure, unparsable output, or invalid step graph yields a
// *SynthesisError; no steps are executed here.
func (s *synthesizer) Synthesize(ctx context.Context, utt model.Utterance, match *model.IntentMatch) ([]workflow.StepSpec, error) {
	intentName := string(model.IntentAIQuery)
	if match != nil {
		intentName = string(match.Intent)
	}

	// Role 1: planner.
	outlineText, err := s.complete(ctx, fmt.Sprintf(promptPlanner, utt.Text, intentName))
	if err != nil {
		return nil, &SynthesisError{Role: RolePlanner, Err: err}
	}
	outline, err := parseOutline(outlineText)
	if err != nil {
		return nil, &SynthesisError{Role: RolePlanner, Err: err}
	}
	s.l.Infof(ctx, "Planner produced %d outline items", len(outline))

	// Role 2: step generator.
	outlineJSON, _ := json.Marshal(outline)
	stepsText, err := s.complete(ctx, fmt.Sprintf(promptStepGenerator, utt.Text, string(outlineJSON)))
	if err != nil {
		return nil, &SynthesisError{Role: RoleStepGenerator, Err: err}
	}
	raw, err := parseSteps(stepsText)
	if err != nil {
		return nil, &SynthesisError{Role: RoleStepGenerator, Err: err}
	}

	// Role 3: optimizer. A degraded optimizer falls back to the generated
	// steps; unparsable optimizer output is still a hard failure.
	planRole := RoleStepGenerator
	rawJSON, _ := json.Marshal(raw)
	optimizedText, err := s.complete(ctx, fmt.Sprintf(promptOptimizer, string(rawJSON)))
	if err != nil {
		s.l.Warnf(ctx, "Optimizer role unavailable, keeping generated steps: %v", err)
	} else {
		optimized, perr := parseSteps(optimizedText)
		if perr != nil {
			return nil, &SynthesisError{Role: RoleOptimizer, Err: perr}
		}
		raw = optimized
		planRole = RoleOptimizer
	}

	plan, err := buildPlan(raw, s.maxSteps, s.defaults)
	if err != nil {
		return nil, &SynthesisError{Role: planRole, Err: err}
	}

	s.l.Infof(ctx, "Synthesized %d-step plan for utterance", len(plan))
	return plan, nil
}

func (s *synthesizer) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := s.llm.Complete(ctx, &llmprovider.Request{
		Prompt:      prompt,
		Temperature: synthesisTemperature,
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}
