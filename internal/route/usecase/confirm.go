package usecase

import (
	"context"

	"nl-command-router/internal/model"
	"nl-command-router/internal/policy"
	"nl-command-router/internal/route"
)

// Confirm answers a pending yes/no prompt. A "yes" executes the confirmed
// interpretation. A "no" re-enters the decision policy with the confidence
// demoted below the alternatives threshold: the turn becomes a choice among
// the remaining alternatives, or an AI hand-off when none remain viable.
func (uc *implUseCase) Confirm(ctx context.Context, sc model.Scope, input route.ConfirmInput) (route.Outcome, error) {
	sess := uc.sessions.get(sc.SessionID)
	p, ok := sess.takePending(input.ConfirmationID, pendingConfirm)
	if !ok {
		return route.Outcome{}, route.ErrNoPendingDecision
	}

	if input.Accept {
		uc.l.Infof(ctx, "confirm: session=%s accepted template=%s", sc.SessionID, p.match.TemplateID)
		return uc.execute(ctx, sc, p.utterance, p.match)
	}

	demoted := uc.policy.DemotedConfidence()
	uc.l.Infof(ctx, "confirm: session=%s rejected template=%s, re-routing at confidence=%.2f",
		sc.SessionID, p.match.TemplateID, demoted)

	remaining := remainingAlternatives(p.match)
	if len(remaining) > 0 && uc.policy.Decide(remaining[0].Score) != policy.ActionFallbackAI {
		id := sess.setPending(pendingChoice, p.utterance, p.match, remaining)
		return route.Outcome{
			Kind:           route.OutcomeNeedsChoice,
			Intent:         p.match,
			ConfirmationID: id,
			Choices:        remaining,
		}, nil
	}
	return uc.delegated(ctx, sc, p.utterance, "confirmed interpretation rejected"), nil
}

// Choose answers a pending alternatives prompt. Picking a suggestion runs
// it as an auto-execute of that template; picking none upgrades the turn to
// an AI-synthesized plan.
func (uc *implUseCase) Choose(ctx context.Context, sc model.Scope, input route.ChooseInput) (route.Outcome, error) {
	sess := uc.sessions.get(sc.SessionID)
	p, ok := sess.takePending(input.ConfirmationID, pendingChoice)
	if !ok {
		return route.Outcome{}, route.ErrNoPendingDecision
	}

	if input.TemplateID == "" {
		uc.l.Infof(ctx, "choose: session=%s picked none, upgrading to ai plan", sc.SessionID)
		return uc.execute(ctx, sc, p.utterance, aiQueryMatch(p.match))
	}

	for _, c := range p.choices {
		if c.TemplateID != input.TemplateID {
			continue
		}
		info, known := uc.lookup.Info(c.TemplateID)
		if !known {
			return route.Outcome{}, route.ErrUnknownAlternative
		}
		chosen := &model.IntentMatch{
			Intent:     info.Intent,
			Operation:  info.Operation,
			TemplateID: c.TemplateID,
			Confidence: c.Score,
			Level:      model.LevelForConfidence(c.Score),
			Params:     c.Params,
		}
		uc.l.Infof(ctx, "choose: session=%s picked template=%s", sc.SessionID, c.TemplateID)
		return uc.execute(ctx, sc, p.utterance, chosen)
	}
	return route.Outcome{}, route.ErrUnknownAlternative
}

// remainingAlternatives drops the rejected primary from the suggestion list.
func remainingAlternatives(match *model.IntentMatch) []model.CandidateMatch {
	remaining := make([]model.CandidateMatch, 0, len(match.Alternatives))
	for _, alt := range match.Alternatives {
		if alt.TemplateID == match.TemplateID {
			continue
		}
		remaining = append(remaining, alt)
	}
	return remaining
}

// aiQueryMatch rewrites a match so planning skips the template tier.
func aiQueryMatch(match *model.IntentMatch) *model.IntentMatch {
	return &model.IntentMatch{
		Intent:     model.IntentAIQuery,
		Operation:  "ai_query",
		Confidence: match.Confidence,
		Level:      match.Level,
	}
}
