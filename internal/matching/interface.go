package matching

import (
	"context"

	"nl-command-router/internal/model"
)

// Matcher scores an utterance against the template corpus.
type Matcher interface {
	Match(ctx context.Context, utt model.Utterance) ([]model.CandidateMatch, error)
}
