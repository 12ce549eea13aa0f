package synthesis

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"nl-command-router/internal/workflow"
)

// stripFences removes a ```json ... ``` (or bare ```) wrapper that models
// often add around structured output.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimSuffix(text, "```")
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(text, "```")
	}
	return strings.TrimSpace(text)
}

func parseOutline(text string) ([]outlineItem, error) {
	var outline []outlineItem
	if err := json.Unmarshal([]byte(stripFences(text)), &outline); err != nil {
		return nil, fmt.Errorf("outline is not valid JSON: %w", err)
	}
	if len(outline) == 0 {
		return nil, fmt.Errorf("outline is empty")
	}
	return outline, nil
}

func parseSteps(text string) ([]rawStep, error) {
	var steps []rawStep
	if err := json.Unmarshal([]byte(stripFences(text)), &steps); err != nil {
		return nil, fmt.Errorf("step list is not valid JSON: %w", err)
	}
	if len(steps) == 0 {
		return nil, fmt.Errorf("step list is empty")
	}
	return steps, nil
}

// buildPlan converts raw model output into validated StepSpecs. Graph
// faults (cycles, unknown dependencies) reject the whole plan before
// anything runs.
func buildPlan(raw []rawStep, maxSteps int, defaults workflow.Defaults) ([]workflow.StepSpec, error) {
	if maxSteps > 0 && len(raw) > maxSteps {
		return nil, fmt.Errorf("plan has %d steps, limit is %d", len(raw), maxSteps)
	}

	steps := make([]workflow.StepSpec, 0, len(raw))
	for _, rs := range raw {
		if rs.ID == "" {
			return nil, fmt.Errorf("step with empty id")
		}
		if rs.Verb == "" {
			return nil, fmt.Errorf("step %q has no verb", rs.ID)
		}

		timeout := defaults.StepTimeout
		if rs.Timeout != "" {
			d, err := time.ParseDuration(rs.Timeout)
			if err == nil && d > 0 {
				timeout = d
			}
		}

		maxAttempts := rs.MaxAttempts
		if maxAttempts <= 0 {
			maxAttempts = defaults.MaxAttempts
		}

		steps = append(steps, workflow.StepSpec{
			ID: rs.ID,
			Command: workflow.CommandDescriptor{
				Verb:    rs.Verb,
				Target:  rs.Target,
				Args:    rs.Args,
				Content: rs.Content,
			},
			DependsOn: rs.DependsOn,
			Retry: workflow.RetryPolicy{
				MaxAttempts: maxAttempts,
				Backoff:     defaults.Backoff,
			},
			Timeout: timeout,
		})
	}

	if err := workflow.ValidateDAG(steps); err != nil {
		return nil, err
	}
	return steps, nil
}
