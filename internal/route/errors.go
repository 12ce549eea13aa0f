package route

import "errors"

// Domain-specific errors for the route package.
var (
	ErrEmptyUtterance       = errors.New("utterance text is empty")
	ErrNoPendingDecision    = errors.New("no pending confirmation for this session")
	ErrUnknownAlternative   = errors.New("chosen template is not among the suggestions")
	ErrSessionBusy          = errors.New("session already has a running execution")
	ErrSynthesisRateLimited = errors.New("ai synthesis rate limit exceeded for this session")
	ErrExecutionNotFound    = errors.New("execution not found")
)
