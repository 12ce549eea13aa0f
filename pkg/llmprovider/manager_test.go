package llmprovider

import (
	"context"
	"errors"
	"testing"
	"time"

	"nl-command-router/pkg/log"
)

type mockLogger struct{}

func (mockLogger) Debug(ctx context.Context, args ...interface{})                 {}
func (mockLogger) Debugf(ctx context.Context, format string, args ...interface{}) {}
func (mockLogger) Info(ctx context.Context, args ...interface{})                  {}
func (mockLogger) Infof(ctx context.Context, format string, args ...interface{})  {}
func (mockLogger) Warn(ctx context.Context, args ...interface{})                  {}
func (mockLogger) Warnf(ctx context.Context, format string, args ...interface{})  {}
func (mockLogger) Error(ctx context.Context, args ...interface{})                 {}
func (mockLogger) Errorf(ctx context.Context, format string, args ...interface{}) {}
func (mockLogger) Fatal(ctx context.Context, args ...interface{})                 {}
func (mockLogger) Fatalf(ctx context.Context, format string, args ...interface{}) {}

var _ log.Logger = mockLogger{}

type mockProvider struct {
	name     string
	failures int // Complete fails this many times before succeeding
	err      error
	calls    int
}

func (p *mockProvider) Complete(ctx context.Context, req *Request) (*Response, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	if p.calls <= p.failures {
		return nil, &ProviderError{Provider: p.name, Err: errors.New("upstream 500")}
	}
	return &Response{Text: "done", ProviderName: p.name, ModelName: p.Model()}, nil
}

func (p *mockProvider) Name() string  { return p.name }
func (p *mockProvider) Model() string { return p.name + "-model" }

func testConfig() *Config {
	return &Config{
		FallbackEnabled: true,
		RetryAttempts:   2,
		RetryDelay:      time.Millisecond,
		MaxTotalTimeout: time.Second,
	}
}

func TestManager_Complete(t *testing.T) {
	ctx := context.Background()
	req := &Request{Prompt: "say hi"}

	t.Run("First provider succeeds", func(t *testing.T) {
		primary := &mockProvider{name: "qwen"}
		backup := &mockProvider{name: "gemini"}
		m := NewManager([]Provider{primary, backup}, testConfig(), mockLogger{})

		resp, err := m.Complete(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.ProviderName != "qwen" {
			t.Errorf("provider = %s, want qwen", resp.ProviderName)
		}
		if backup.calls != 0 {
			t.Error("backup must not be consulted when the primary succeeds")
		}
	})

	t.Run("Retry within one provider", func(t *testing.T) {
		flaky := &mockProvider{name: "qwen", failures: 1}
		m := NewManager([]Provider{flaky}, testConfig(), mockLogger{})

		resp, err := m.Complete(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if flaky.calls != 2 {
			t.Errorf("calls = %d, want 2", flaky.calls)
		}
		if resp.Text != "done" {
			t.Errorf("text = %q", resp.Text)
		}
	})

	t.Run("Fallback to the next provider", func(t *testing.T) {
		dead := &mockProvider{name: "qwen", err: errors.New("quota exhausted")}
		backup := &mockProvider{name: "gemini"}
		m := NewManager([]Provider{dead, backup}, testConfig(), mockLogger{})

		resp, err := m.Complete(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.ProviderName != "gemini" {
			t.Errorf("provider = %s, want gemini", resp.ProviderName)
		}
		if dead.calls != 2 {
			t.Errorf("dead provider calls = %d, want the retry budget of 2", dead.calls)
		}
	})

	t.Run("Fallback disabled stops at the first provider", func(t *testing.T) {
		dead := &mockProvider{name: "qwen", err: errors.New("quota exhausted")}
		backup := &mockProvider{name: "gemini"}
		cfg := testConfig()
		cfg.FallbackEnabled = false
		m := NewManager([]Provider{dead, backup}, cfg, mockLogger{})

		_, err := m.Complete(ctx, req)
		if !errors.Is(err, ErrAllProvidersFailed) {
			t.Fatalf("err = %v, want ErrAllProvidersFailed", err)
		}
		if backup.calls != 0 {
			t.Error("backup must not be consulted with fallback disabled")
		}
	})

	t.Run("All providers fail", func(t *testing.T) {
		m := NewManager([]Provider{
			&mockProvider{name: "qwen", err: errors.New("down")},
			&mockProvider{name: "gemini", err: errors.New("also down")},
		}, testConfig(), mockLogger{})

		_, err := m.Complete(ctx, req)
		if !errors.Is(err, ErrAllProvidersFailed) {
			t.Fatalf("err = %v, want ErrAllProvidersFailed", err)
		}
	})

	t.Run("No providers configured", func(t *testing.T) {
		m := NewManager(nil, testConfig(), mockLogger{})
		if _, err := m.Complete(ctx, req); !errors.Is(err, ErrNoProvidersConfigured) {
			t.Fatalf("err = %v, want ErrNoProvidersConfigured", err)
		}
	})

	t.Run("Invalid request", func(t *testing.T) {
		m := NewManager([]Provider{&mockProvider{name: "qwen"}}, testConfig(), mockLogger{})
		if _, err := m.Complete(ctx, &Request{}); !errors.Is(err, ErrInvalidRequest) {
			t.Errorf("empty prompt err = %v, want ErrInvalidRequest", err)
		}
		if _, err := m.Complete(ctx, nil); !errors.Is(err, ErrInvalidRequest) {
			t.Errorf("nil request err = %v, want ErrInvalidRequest", err)
		}
	})

	t.Run("Canceled context aborts the chain", func(t *testing.T) {
		canceled, cancel := context.WithCancel(ctx)
		cancel()

		slow := &mockProvider{name: "qwen", err: errors.New("never reached")}
		m := NewManager([]Provider{slow}, testConfig(), mockLogger{})

		if _, err := m.Complete(canceled, req); err == nil {
			t.Fatal("expected error from canceled context")
		}
	})
}
