package matching

import "errors"

// Domain-specific errors for the matching package.
var (
	ErrEmptyCorpus    = errors.New("template corpus is empty")
	ErrEmptyUtterance = errors.New("utterance text is empty")
)
