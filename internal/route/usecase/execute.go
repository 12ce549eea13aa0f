package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"nl-command-router/internal/model"
	"nl-command-router/internal/route"
	"nl-command-router/internal/synthesis"
	"nl-command-router/internal/workflow"
)

// execute plans and runs one intent while holding the session's execution
// slot in the store. The slot lives there rather than in the session
// registry because registry entries can be evicted mid-run. Template plans
// bind deterministically; intents without a local template go through the
// AI synthesizer, budgeted per session.
func (uc *implUseCase) execute(ctx context.Context, sc model.Scope, utt model.Utterance, match *model.IntentMatch) (route.Outcome, error) {
	if !uc.store.acquireSession(sc.SessionID) {
		return route.Outcome{}, route.ErrSessionBusy
	}
	defer uc.store.releaseSession(sc.SessionID)

	sess := uc.sessions.get(sc.SessionID)

	steps, source, err := uc.plan(ctx, sess, utt, match)
	if err != nil {
		var synthErr *synthesis.SynthesisError
		if errors.As(err, &synthErr) {
			return uc.delegated(ctx, sc, utt, err.Error()), nil
		}
		return route.Outcome{}, err
	}

	execID := uuid.NewString()
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	uc.store.trackRunning(execID, &runningExecution{
		sessionID:  sc.SessionID,
		intent:     match,
		planSource: source,
		startedAt:  time.Now(),
		cancel:     cancel,
	})

	exec, err := uc.exec.Execute(runCtx, execID, match, source, steps)
	uc.store.finish(execID, exec)
	if err != nil {
		uc.l.Errorf(ctx, "execute: session=%s plan rejected: %v", sc.SessionID, err)
		return route.Outcome{}, err
	}

	return route.Outcome{
		Kind:      route.OutcomeExecuted,
		Execution: exec,
		Intent:    match,
	}, nil
}

// plan picks the tier: deterministic template binding first, AI synthesis
// when no local template matched the winning intent.
func (uc *implUseCase) plan(ctx context.Context, sess *sessionState, utt model.Utterance, match *model.IntentMatch) ([]workflow.StepSpec, workflow.PlanSource, error) {
	steps, err := uc.engine.Plan(match)
	if err == nil {
		return steps, workflow.SourceTemplate, nil
	}
	if !errors.Is(err, workflow.ErrTemplateNotFound) {
		return nil, "", err
	}

	if !sess.allowSynthesis() {
		return nil, "", route.ErrSynthesisRateLimited
	}
	steps, err = uc.synth.Synthesize(ctx, utt, match)
	if err != nil {
		return nil, "", err
	}
	return steps, workflow.SourceAIGenerated, nil
}

// GetExecution reports a terminal record, or a running snapshot without
// step detail for executions still in flight.
func (uc *implUseCase) GetExecution(ctx context.Context, sc model.Scope, id string) (*workflow.Execution, error) {
	exec, ok := uc.store.get(id)
	if !ok {
		return nil, route.ErrExecutionNotFound
	}
	return exec, nil
}

// CancelExecution requests cooperative cancellation. The executor stops
// before the next step; an in-flight step runs to its own timeout.
func (uc *implUseCase) CancelExecution(ctx context.Context, sc model.Scope, id string) error {
	if !uc.store.requestCancel(id) {
		return route.ErrExecutionNotFound
	}
	uc.l.Infof(ctx, "execution %s: cancellation requested by session=%s", id, sc.SessionID)
	return nil
}
