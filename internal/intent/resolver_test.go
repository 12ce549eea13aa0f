package intent_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"nl-command-router/internal/intent"
	"nl-command-router/internal/model"
)

// Mock logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, arg ...any)                   {}
func (m *mockLogger) Debugf(ctx context.Context, template string, arg ...any) {}
func (m *mockLogger) Info(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Infof(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) Warn(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Warnf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) Error(ctx context.Context, arg ...any)                   {}
func (m *mockLogger) Errorf(ctx context.Context, template string, arg ...any) {}
func (m *mockLogger) Fatal(ctx context.Context, arg ...any)                   {}
func (m *mockLogger) Fatalf(ctx context.Context, template string, arg ...any) {}

type stubMatcher struct {
	candidates []model.CandidateMatch
	err        error
}

func (s *stubMatcher) Match(ctx context.Context, utt model.Utterance) ([]model.CandidateMatch, error) {
	return s.candidates, s.err
}

type stubLookup map[string]intent.TemplateInfo

func (s stubLookup) Info(id string) (intent.TemplateInfo, bool) {
	info, ok := s[id]
	return info, ok
}

func lookupFixture() stubLookup {
	return stubLookup{
		"create_file": {Intent: model.IntentFileOp, Operation: "create", SuccessRate: 0.97},
		"delete_file": {Intent: model.IntentFileOp, Operation: "delete", SuccessRate: 0.95},
		"backup_file": {Intent: model.IntentWorkflow, Operation: "backup", SuccessRate: 0.93},
	}
}

func newResolver(pattern, semantic *stubMatcher) *intent.Resolver {
	return intent.NewResolver(pattern, semantic, lookupFixture(), 0.30, 5, time.Second, &mockLogger{})
}

func TestResolveMergesMaxOfSources(t *testing.T) {
	pattern := &stubMatcher{candidates: []model.CandidateMatch{
		{Source: model.SourceFuzzy, TemplateID: "create_file", Score: 0.55, Params: map[string]string{"filename": "a.txt"}},
	}}
	semantic := &stubMatcher{candidates: []model.CandidateMatch{
		{Source: model.SourceSemantic, TemplateID: "create_file", Score: 0.81},
		{Source: model.SourceSemantic, TemplateID: "delete_file", Score: 0.44},
	}}

	match := newResolver(pattern, semantic).Resolve(context.Background(), model.NewUtterance("make a file", "en"))

	if match.TemplateID != "create_file" {
		t.Fatalf("winner = %s, want create_file", match.TemplateID)
	}
	if match.Confidence != 0.81 {
		t.Errorf("confidence = %v, want max of sources 0.81", match.Confidence)
	}
	if match.Intent != model.IntentFileOp || match.Operation != "create" {
		t.Errorf("intent/operation = %s/%s", match.Intent, match.Operation)
	}
	if match.Params["filename"] != "a.txt" {
		t.Errorf("params from pattern source lost: %v", match.Params)
	}
	if len(match.Alternatives) != 1 || match.Alternatives[0].TemplateID != "delete_file" {
		t.Errorf("alternatives = %v", match.Alternatives)
	}
}

func TestResolveExactOutranksSemantic(t *testing.T) {
	pattern := &stubMatcher{candidates: []model.CandidateMatch{
		{Source: model.SourceExact, TemplateID: "create_file", Score: 1.0, Params: map[string]string{"filename": "test.txt"}},
	}}
	semantic := &stubMatcher{candidates: []model.CandidateMatch{
		{Source: model.SourceSemantic, TemplateID: "delete_file", Score: 0.88},
	}}

	match := newResolver(pattern, semantic).Resolve(context.Background(), model.NewUtterance("create test.txt", "en"))

	if match.TemplateID != "create_file" || match.Confidence != 1.0 {
		t.Errorf("winner = %s (%v), want create_file at 1.0", match.TemplateID, match.Confidence)
	}
	if match.Level != model.ConfidenceVeryHigh {
		t.Errorf("level = %s", match.Level)
	}
}

func TestResolveDegradedMatcher(t *testing.T) {
	pattern := &stubMatcher{err: errors.New("matcher blew up")}
	semantic := &stubMatcher{candidates: []model.CandidateMatch{
		{Source: model.SourceSemantic, TemplateID: "backup_file", Score: 0.66},
	}}

	match := newResolver(pattern, semantic).Resolve(context.Background(), model.NewUtterance("back things up", "en"))

	if match.TemplateID != "backup_file" || match.Confidence != 0.66 {
		t.Errorf("degraded pattern tier must not sink the turn: %s (%v)", match.TemplateID, match.Confidence)
	}
}

func TestResolveFallbackBelowFloor(t *testing.T) {
	pattern := &stubMatcher{candidates: []model.CandidateMatch{
		{Source: model.SourceFuzzy, TemplateID: "create_file", Score: 0.12},
	}}
	semantic := &stubMatcher{}

	match := newResolver(pattern, semantic).Resolve(context.Background(), model.NewUtterance("what is the weather", "en"))

	if match.Intent != model.IntentAIQuery {
		t.Fatalf("intent = %s, want AI_QUERY fallback", match.Intent)
	}
	if match.TemplateID != "" {
		t.Errorf("fallback must not nominate a template, got %s", match.TemplateID)
	}
	if match.Confidence != 0.12 {
		t.Errorf("fallback carries the best sub-floor score, got %v", match.Confidence)
	}
	if len(match.Alternatives) != 0 {
		t.Errorf("fallback has no alternatives, got %v", match.Alternatives)
	}
}

func TestResolveBothMatchersEmpty(t *testing.T) {
	match := newResolver(&stubMatcher{}, &stubMatcher{}).Resolve(context.Background(), model.NewUtterance("hello", "en"))

	if match.Intent != model.IntentAIQuery || match.Confidence != 0 {
		t.Errorf("empty candidates must fall back to AI_QUERY at 0, got %s (%v)", match.Intent, match.Confidence)
	}
	if match.Level != model.ConfidenceVeryLow {
		t.Errorf("level = %s", match.Level)
	}
}

func TestResolveUnknownTemplateSkipped(t *testing.T) {
	pattern := &stubMatcher{candidates: []model.CandidateMatch{
		{Source: model.SourceExact, TemplateID: "ghost_template", Score: 1.0},
		{Source: model.SourceFuzzy, TemplateID: "create_file", Score: 0.5},
	}}

	match := newResolver(pattern, &stubMatcher{}).Resolve(context.Background(), model.NewUtterance("create something", "en"))

	if match.TemplateID != "create_file" {
		t.Errorf("candidates without catalog metadata must be skipped, winner = %s", match.TemplateID)
	}
}
