package matching

import (
	"context"

	"nl-command-router/internal/model"
)

// NoopMatcher emits no candidates. Stands in for the semantic tier when no
// embedding provider is configured; the pattern tier still runs.
type NoopMatcher struct{}

func (NoopMatcher) Match(ctx context.Context, utt model.Utterance) ([]model.CandidateMatch, error) {
	return nil, nil
}
