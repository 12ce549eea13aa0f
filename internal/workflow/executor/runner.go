package executor

import (
	"context"
	"time"

	"nl-command-router/internal/workflow"
	"nl-command-router/pkg/shellexec"
)

// ShellRunner adapts the shellexec client to the StepRunner interface.
type ShellRunner struct {
	runner shellexec.Runner
}

func NewShellRunner(r shellexec.Runner) *ShellRunner {
	return &ShellRunner{runner: r}
}

func (s *ShellRunner) Run(ctx context.Context, cmd workflow.CommandDescriptor, timeout time.Duration) (string, error) {
	res, err := s.runner.Execute(ctx, shellexec.Command{
		Verb:    cmd.Verb,
		Target:  cmd.Target,
		Args:    cmd.Args,
		Content: cmd.Content,
	}, timeout)
	return res.Stdout, err
}
