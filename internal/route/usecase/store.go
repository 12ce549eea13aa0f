package usecase

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"nl-command-router/internal/model"
	"nl-command-router/internal/workflow"
)

// runningExecution tracks an in-flight run so it can be reported and
// canceled by id before the executor hands back the terminal record.
type runningExecution struct {
	sessionID  string
	intent     *model.IntentMatch
	planSource workflow.PlanSource
	startedAt  time.Time
	cancel     context.CancelFunc
}

// executionStore is the bounded in-memory bookkeeping of executions.
// Terminal records live in an LRU; persistence is a collaborator's concern.
// It also owns the one-running-execution-per-session guard: unlike session
// state, entries here are never evicted while a run is in flight, so the
// guard holds even when the session registry ages a session out mid-run.
type executionStore struct {
	mu           sync.Mutex
	done         *lru.Cache[string, *workflow.Execution]
	running      map[string]*runningExecution
	busySessions map[string]struct{}
}

func newExecutionStore(size int) *executionStore {
	if size <= 0 {
		size = 256
	}
	// Only errors on non-positive size.
	done, _ := lru.New[string, *workflow.Execution](size)
	return &executionStore{
		done:         done,
		running:      make(map[string]*runningExecution),
		busySessions: make(map[string]struct{}),
	}
}

// acquireSession reserves the session's execution slot for one run.
// Reports false when the session already has a run in flight.
func (s *executionStore) acquireSession(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.busySessions[sessionID]; busy {
		return false
	}
	s.busySessions[sessionID] = struct{}{}
	return true
}

// releaseSession frees the session's execution slot.
func (s *executionStore) releaseSession(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.busySessions, sessionID)
}

func (s *executionStore) trackRunning(id string, run *runningExecution) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running[id] = run
}

// finish moves an execution from running to terminal. A nil exec (plan
// rejected before any step ran) just clears the running slot.
func (s *executionStore) finish(id string, exec *workflow.Execution) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.running, id)
	if exec != nil {
		s.done.Add(exec.ID, exec)
	}
}

// get reports a terminal record, or a running snapshot with no step detail
// yet for executions still in flight.
func (s *executionStore) get(id string) (*workflow.Execution, bool) {
	if exec, ok := s.done.Get(id); ok {
		return exec, true
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if run, ok := s.running[id]; ok {
		return &workflow.Execution{
			ID:         id,
			Intent:     run.intent,
			PlanSource: run.planSource,
			Status:     workflow.ExecutionRunning,
			StartedAt:  run.startedAt,
		}, true
	}
	return nil, false
}

// requestCancel fires the cancel of a running execution. Reports whether
// the id was known and still running.
func (s *executionStore) requestCancel(id string) bool {
	s.mu.Lock()
	run, ok := s.running[id]
	s.mu.Unlock()
	if !ok {
		return false
	}
	run.cancel()
	return true
}
