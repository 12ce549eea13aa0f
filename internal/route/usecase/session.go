package usecase

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"

	"nl-command-router/internal/model"
)

type pendingKind int

const (
	pendingConfirm pendingKind = iota
	pendingChoice
)

// pendingDecision is a confirmation or choice the caller has not yet
// answered. At most one per session; a new routed turn replaces it.
type pendingDecision struct {
	id        string
	kind      pendingKind
	utterance model.Utterance
	match     *model.IntentMatch
	choices   []model.CandidateMatch
	createdAt time.Time
}

// sessionState carries the session-scoped conversational state: the
// unanswered prompt and the AI synthesis budget. The one-running-execution
// guard deliberately lives in the execution store instead, because entries
// here can be evicted mid-run.
type sessionState struct {
	mu      sync.Mutex
	pending *pendingDecision

	limiter *rate.Limiter
}

// sessionRegistry keeps per-session state in an expirable LRU so idle
// sessions age out together with their pending prompts.
type sessionRegistry struct {
	mu       sync.Mutex
	sessions *expirable.LRU[string, *sessionState]
	rate     rate.Limit
	burst    int
}

func newSessionRegistry(size int, ttl time.Duration, synthesisPerMin int) *sessionRegistry {
	if size <= 0 {
		size = 1000
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if synthesisPerMin <= 0 {
		synthesisPerMin = 10
	}
	burst := synthesisPerMin / 10
	if burst < 1 {
		burst = 1
	}
	return &sessionRegistry{
		sessions: expirable.NewLRU[string, *sessionState](size, nil, ttl),
		rate:     rate.Limit(float64(synthesisPerMin) / 60.0),
		burst:    burst,
	}
}

// get returns the session state, creating it on first use.
func (r *sessionRegistry) get(sessionID string) *sessionState {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions.Get(sessionID); ok {
		return s
	}
	s := &sessionState{limiter: rate.NewLimiter(r.rate, r.burst)}
	r.sessions.Add(sessionID, s)
	return s
}

// setPending replaces the session's unanswered prompt and returns the token
// the caller must echo back.
func (s *sessionState) setPending(kind pendingKind, utt model.Utterance, match *model.IntentMatch, choices []model.CandidateMatch) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending = &pendingDecision{
		id:        uuid.NewString(),
		kind:      kind,
		utterance: utt,
		match:     match,
		choices:   choices,
		createdAt: time.Now(),
	}
	return s.pending.id
}

// takePending pops the pending prompt if the token matches.
func (s *sessionState) takePending(confirmationID string, kind pendingKind) (*pendingDecision, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.pending
	if p == nil || p.id != confirmationID || p.kind != kind {
		return nil, false
	}
	s.pending = nil
	return p, true
}

// allowSynthesis consumes one token of the session's AI budget.
func (s *sessionState) allowSynthesis() bool {
	return s.limiter.Allow()
}
