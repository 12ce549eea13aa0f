package route

import (
	"nl-command-router/internal/model"
	"nl-command-router/internal/workflow"
)

// RouteInput is one raw user turn entering the router.
type RouteInput struct {
	Text     string // Natural-language command
	Language string // BCP-47 tag, "" when unknown
}

// ConfirmInput answers a pending yes/no confirmation.
type ConfirmInput struct {
	ConfirmationID string
	Accept         bool
}

// ChooseInput answers a pending alternative prompt. An empty TemplateID
// means the caller picked none of the suggestions.
type ChooseInput struct {
	ConfirmationID string
	TemplateID     string
}

// OutcomeKind discriminates the Outcome union.
type OutcomeKind string

const (
	OutcomeExecuted          OutcomeKind = "executed"
	OutcomeNeedsConfirmation OutcomeKind = "needs_confirmation"
	OutcomeNeedsChoice       OutcomeKind = "needs_choice"
	OutcomeDelegatedToAI     OutcomeKind = "delegated_to_ai"
)

// Outcome is the single result type of every routing turn. Exactly one
// variant applies per turn; which fields are set depends on Kind.
type Outcome struct {
	Kind OutcomeKind

	// Executed: the terminal execution record.
	Execution *workflow.Execution

	// NeedsConfirmation / NeedsChoice: the resolved intent and the token the
	// caller must echo back on the follow-up turn.
	Intent         *model.IntentMatch
	ConfirmationID string

	// NeedsChoice: ranked suggestions, best first.
	Choices []model.CandidateMatch

	// DelegatedToAI: the raw utterance handed off, and why.
	Utterance string
	Reason    string
}
