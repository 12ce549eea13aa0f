package policy

import "nl-command-router/config"

// Action is what the router does with a resolved intent.
type Action string

const (
	ActionAutoExecute         Action = "auto_execute"
	ActionConfirm             Action = "confirm"
	ActionSuggestAlternatives Action = "suggest_alternatives"
	ActionFallbackAI          Action = "fallback_ai"
)

// Policy maps confidence to an action using four ordered thresholds.
// Deterministic and side-effect free. Intervals are half-open with the
// boundary belonging to the higher-privilege bucket: confidence exactly at
// a threshold takes that threshold's action.
type Policy struct {
	auto         float64
	confirm      float64
	alternatives float64
	fallback     float64
}

// New builds a Policy from validated config (config.Load enforces the
// auto > confirm > alternatives > fallback ordering).
func New(cfg config.RouterConfig) *Policy {
	return &Policy{
		auto:         cfg.AutoThreshold,
		confirm:      cfg.ConfirmThreshold,
		alternatives: cfg.AlternativesThreshold,
		fallback:     cfg.FallbackThreshold,
	}
}

// Decide maps a confidence score to an action. Monotonic: a strictly higher
// confidence never yields a less-privileged action.
func (p *Policy) Decide(confidence float64) Action {
	switch {
	case confidence >= p.auto:
		return ActionAutoExecute
	case confidence >= p.confirm:
		return ActionConfirm
	case confidence >= p.alternatives:
		return ActionSuggestAlternatives
	default:
		return ActionFallbackAI
	}
}

// DemotedConfidence is what a rejected confirmation re-enters the policy
// with: just below the alternatives threshold, forcing a re-prompt or AI
// fallback instead of silently discarding the turn.
func (p *Policy) DemotedConfidence() float64 {
	demoted := p.alternatives - 0.01
	if demoted < 0 {
		demoted = 0
	}
	return demoted
}
