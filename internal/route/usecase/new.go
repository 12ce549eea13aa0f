package usecase

import (
	"time"

	"nl-command-router/internal/intent"
	"nl-command-router/internal/policy"
	"nl-command-router/internal/synthesis"
	"nl-command-router/internal/workflow"
	"nl-command-router/internal/workflow/executor"
	pkgLog "nl-command-router/pkg/log"
)

type implUseCase struct {
	l        pkgLog.Logger
	resolver *intent.Resolver
	policy   *policy.Policy
	engine   *workflow.Engine
	lookup   intent.TemplateLookup
	synth    synthesis.Synthesizer
	exec     *executor.Executor
	sessions *sessionRegistry
	store    *executionStore
}

// Options bounds the in-memory session and execution bookkeeping.
type Options struct {
	SessionCacheSize   int
	SessionTTL         time.Duration
	SynthesisPerMin    int
	ExecutionStoreSize int
}

// New creates a new route UseCase instance.
func New(
	l pkgLog.Logger,
	resolver *intent.Resolver,
	pol *policy.Policy,
	engine *workflow.Engine,
	lookup intent.TemplateLookup,
	synth synthesis.Synthesizer,
	exec *executor.Executor,
	opts Options,
) *implUseCase {
	return &implUseCase{
		l:        l,
		resolver: resolver,
		policy:   pol,
		engine:   engine,
		lookup:   lookup,
		synth:    synth,
		exec:     exec,
		sessions: newSessionRegistry(opts.SessionCacheSize, opts.SessionTTL, opts.SynthesisPerMin),
		store:    newExecutionStore(opts.ExecutionStoreSize),
	}
}
