package policy_test

import (
	"testing"

	"nl-command-router/config"
	"nl-command-router/internal/policy"
)

func defaultPolicy() *policy.Policy {
	return policy.New(config.RouterConfig{
		AutoThreshold:         0.85,
		ConfirmThreshold:      0.60,
		AlternativesThreshold: 0.40,
		FallbackThreshold:     0.30,
	})
}

func TestDecide(t *testing.T) {
	p := defaultPolicy()

	cases := []struct {
		name       string
		confidence float64
		want       policy.Action
	}{
		{"well above auto", 0.99, policy.ActionAutoExecute},
		{"exactly auto boundary", 0.85, policy.ActionAutoExecute},
		{"just below auto", 0.849, policy.ActionConfirm},
		{"mid confirm band", 0.72, policy.ActionConfirm},
		{"exactly confirm boundary", 0.60, policy.ActionConfirm},
		{"just below confirm", 0.599, policy.ActionSuggestAlternatives},
		{"exactly alternatives boundary", 0.40, policy.ActionSuggestAlternatives},
		{"just below alternatives", 0.399, policy.ActionFallbackAI},
		{"exactly fallback floor", 0.30, policy.ActionFallbackAI},
		{"zero", 0.0, policy.ActionFallbackAI},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := p.Decide(tc.confidence); got != tc.want {
				t.Errorf("Decide(%v) = %s, want %s", tc.confidence, got, tc.want)
			}
		})
	}
}

func TestDecideMonotonic(t *testing.T) {
	p := defaultPolicy()

	rank := map[policy.Action]int{
		policy.ActionFallbackAI:          0,
		policy.ActionSuggestAlternatives: 1,
		policy.ActionConfirm:             2,
		policy.ActionAutoExecute:         3,
	}

	prev := p.Decide(0)
	for c := 0.01; c <= 1.0; c += 0.01 {
		got := p.Decide(c)
		if rank[got] < rank[prev] {
			t.Fatalf("Decide not monotonic: %v yields %s after %s", c, got, prev)
		}
		prev = got
	}
}

func TestDemotedConfidence(t *testing.T) {
	p := defaultPolicy()

	demoted := p.DemotedConfidence()
	if demoted >= 0.40 {
		t.Errorf("demoted confidence %v must be below the alternatives threshold", demoted)
	}
	if got := p.Decide(demoted); got != policy.ActionFallbackAI {
		t.Errorf("Decide(demoted) = %s, want %s", got, policy.ActionFallbackAI)
	}

	floor := policy.New(config.RouterConfig{
		AutoThreshold:         0.03,
		ConfirmThreshold:      0.02,
		AlternativesThreshold: 0.008,
		FallbackThreshold:     0.001,
	})
	if got := floor.DemotedConfidence(); got != 0 {
		t.Errorf("demoted confidence clamps at zero, got %v", got)
	}
}
