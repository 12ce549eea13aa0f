package usecase

import (
	"context"
	"strings"

	"nl-command-router/internal/model"
	"nl-command-router/internal/policy"
	"nl-command-router/internal/route"
)

// Route resolves one utterance and dispatches it per the decision policy.
// Resolution never fails; only caller mistakes (empty text) or session
// contention surface as errors.
func (uc *implUseCase) Route(ctx context.Context, sc model.Scope, input route.RouteInput) (route.Outcome, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return route.Outcome{}, route.ErrEmptyUtterance
	}

	utt := model.NewUtterance(text, input.Language)
	match := uc.resolver.Resolve(ctx, utt)
	action := uc.policy.Decide(match.Confidence)

	uc.l.Infof(ctx, "route: session=%s template=%s confidence=%.2f level=%s action=%s",
		sc.SessionID, match.TemplateID, match.Confidence, match.Level, action)

	return uc.dispatch(ctx, sc, utt, match, action)
}

func (uc *implUseCase) dispatch(ctx context.Context, sc model.Scope, utt model.Utterance, match *model.IntentMatch, action policy.Action) (route.Outcome, error) {
	switch action {
	case policy.ActionAutoExecute:
		return uc.execute(ctx, sc, utt, match)

	case policy.ActionConfirm:
		sess := uc.sessions.get(sc.SessionID)
		id := sess.setPending(pendingConfirm, utt, match, nil)
		return route.Outcome{
			Kind:           route.OutcomeNeedsConfirmation,
			Intent:         match,
			ConfirmationID: id,
		}, nil

	case policy.ActionSuggestAlternatives:
		choices := suggestions(match)
		if len(choices) == 0 {
			return uc.delegated(ctx, sc, utt, "no suggestion reached the floor"), nil
		}
		sess := uc.sessions.get(sc.SessionID)
		id := sess.setPending(pendingChoice, utt, match, choices)
		return route.Outcome{
			Kind:           route.OutcomeNeedsChoice,
			Intent:         match,
			ConfirmationID: id,
			Choices:        choices,
		}, nil

	default:
		return uc.delegated(ctx, sc, utt, "confidence below the routing floor"), nil
	}
}

// suggestions builds the ranked choice list with the winner first. The
// winner is still the best guess, just not a confident one.
func suggestions(match *model.IntentMatch) []model.CandidateMatch {
	choices := make([]model.CandidateMatch, 0, len(match.Alternatives)+1)
	if match.TemplateID != "" {
		choices = append(choices, model.CandidateMatch{
			Source:     model.SourceMerged,
			TemplateID: match.TemplateID,
			Score:      match.Confidence,
			Params:     match.Params,
		})
	}
	for _, alt := range match.Alternatives {
		if alt.TemplateID == match.TemplateID {
			continue
		}
		choices = append(choices, alt)
	}
	return choices
}

// delegated is the hand-off outcome: the raw utterance goes to the
// conversational AI path with no local execution attempt.
func (uc *implUseCase) delegated(ctx context.Context, sc model.Scope, utt model.Utterance, reason string) route.Outcome {
	uc.l.Infof(ctx, "route: session=%s delegated to ai: %s", sc.SessionID, reason)
	return route.Outcome{
		Kind:      route.OutcomeDelegatedToAI,
		Utterance: utt.Text,
		Reason:    reason,
	}
}
