package executor

import (
	"context"

	pkgLog "nl-command-router/pkg/log"
)

// LogSink writes diagnostics events to the service logger.
type LogSink struct {
	l pkgLog.Logger
}

// NewLogSink creates a logger-backed diagnostics sink.
func NewLogSink(l pkgLog.Logger) *LogSink {
	return &LogSink{l: l}
}

func (s *LogSink) StepFinished(ctx context.Context, ev StepEvent) {
	if ev.Error != "" {
		s.l.Warnf(ctx, "step finished: execution=%s step=%s status=%s attempts=%d duration=%s error=%s",
			ev.ExecutionID, ev.StepID, ev.Status, ev.Attempts, ev.Duration, ev.Error)
		return
	}
	s.l.Infof(ctx, "step finished: execution=%s step=%s status=%s attempts=%d duration=%s",
		ev.ExecutionID, ev.StepID, ev.Status, ev.Attempts, ev.Duration)
}

func (s *LogSink) ExecutionFinished(ctx context.Context, ev ExecutionEvent) {
	if ev.Error != "" {
		s.l.Warnf(ctx, "execution finished: execution=%s source=%s status=%s duration=%s error=%s",
			ev.ExecutionID, ev.PlanSource, ev.Status, ev.Duration, ev.Error)
		return
	}
	s.l.Infof(ctx, "execution finished: execution=%s source=%s status=%s duration=%s",
		ev.ExecutionID, ev.PlanSource, ev.Status, ev.Duration)
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) StepFinished(context.Context, StepEvent)           {}
func (NopSink) ExecutionFinished(context.Context, ExecutionEvent) {}
