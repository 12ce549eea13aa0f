package shellexec

import (
	"fmt"
	"time"
)

// Command is a platform-neutral descriptor of one operation.
type Command struct {
	Verb    string   // e.g. "create_file", "run_command", "list_dir"
	Target  string   // File path, directory, or binary name
	Args    []string // Positional arguments for run_command
	Content string   // Payload for file-writing verbs
}

// Result captures the outcome of one executed command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// ExecutionError reports a failed or timed-out command.
type ExecutionError struct {
	Verb     string
	Target   string
	ExitCode int
	Timeout  bool
	Err      error
}

func (e *ExecutionError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("execute %s %s: timed out", e.Verb, e.Target)
	}
	return fmt.Sprintf("execute %s %s: exit %d: %v", e.Verb, e.Target, e.ExitCode, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }
