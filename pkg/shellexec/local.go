package shellexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// LocalRunner runs commands against the local filesystem and shell.
// When restrictToWorkspace is set, every path-oriented verb must resolve
// inside workingDir.
type LocalRunner struct {
	workingDir          string
	restrictToWorkspace bool
}

// NewLocalRunner creates a runner rooted at workingDir.
func NewLocalRunner(workingDir string, restrict bool) *LocalRunner {
	return &LocalRunner{
		workingDir:          workingDir,
		restrictToWorkspace: restrict,
	}
}

// Execute dispatches on the command verb. All file verbs are synchronous;
// run_command spawns a subprocess bounded by timeout.
func (r *LocalRunner) Execute(ctx context.Context, cmd Command, timeout time.Duration) (Result, error) {
	start := time.Now()

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var (
		out string
		err error
	)

	switch cmd.Verb {
	case "create_file":
		err = r.writeFile(cmd, false)
	case "append_file":
		err = r.writeFile(cmd, true)
	case "read_file":
		out, err = r.readFile(cmd)
	case "move_file":
		err = r.transferFile(cmd, true)
	case "copy_file":
		err = r.transferFile(cmd, false)
	case "delete_file":
		err = r.deleteFile(cmd)
	case "list_dir":
		out, err = r.listDir(cmd)
	case "make_dir":
		err = r.makeDir(cmd)
	case "run_command":
		return r.runCommand(ctx, cmd, start)
	default:
		err = fmt.Errorf("unsupported verb %q", cmd.Verb)
	}

	duration := time.Since(start)
	if err != nil {
		return Result{Stderr: err.Error(), ExitCode: 1, Duration: duration},
			&ExecutionError{Verb: cmd.Verb, Target: cmd.Target, ExitCode: 1, Err: err}
	}
	return Result{Stdout: out, Duration: duration}, nil
}

func (r *LocalRunner) resolve(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("empty path")
	}
	abs := path
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(r.workingDir, abs)
	}
	abs = filepath.Clean(abs)

	if r.restrictToWorkspace {
		root := filepath.Clean(r.workingDir)
		if abs != root && !strings.HasPrefix(abs, root+string(os.PathSeparator)) {
			return "", fmt.Errorf("path %q escapes workspace", path)
		}
	}
	return abs, nil
}

func (r *LocalRunner) writeFile(cmd Command, appendMode bool) error {
	path, err := r.resolve(cmd.Target)
	if err != nil {
		return err
	}
	flags := os.O_CREATE | os.O_WRONLY
	if appendMode {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.WriteString(f, cmd.Content)
	return err
}

func (r *LocalRunner) readFile(cmd Command) (string, error) {
	path, err := r.resolve(cmd.Target)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (r *LocalRunner) transferFile(cmd Command, move bool) error {
	src, err := r.resolve(cmd.Target)
	if err != nil {
		return err
	}
	if len(cmd.Args) == 0 {
		return fmt.Errorf("destination argument required")
	}
	dst, err := r.resolve(cmd.Args[0])
	if err != nil {
		return err
	}

	if move {
		return os.Rename(src, dst)
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}

func (r *LocalRunner) deleteFile(cmd Command) error {
	path, err := r.resolve(cmd.Target)
	if err != nil {
		return err
	}
	return os.Remove(path)
}

func (r *LocalRunner) listDir(cmd Command) (string, error) {
	path, err := r.resolve(cmd.Target)
	if err != nil {
		return "", err
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, e := range entries {
		sb.WriteString(e.Name())
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}

func (r *LocalRunner) makeDir(cmd Command) error {
	path, err := r.resolve(cmd.Target)
	if err != nil {
		return err
	}
	return os.MkdirAll(path, 0o755)
}

func (r *LocalRunner) runCommand(ctx context.Context, cmd Command, start time.Time) (Result, error) {
	if cmd.Target == "" {
		return Result{ExitCode: 1, Duration: time.Since(start)},
			&ExecutionError{Verb: cmd.Verb, ExitCode: 1, Err: fmt.Errorf("empty command")}
	}

	proc := exec.CommandContext(ctx, cmd.Target, cmd.Args...)
	proc.Dir = r.workingDir

	var stdout, stderr bytes.Buffer
	proc.Stdout = &stdout
	proc.Stderr = &stderr

	err := proc.Run()
	duration := time.Since(start)

	res := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: duration,
	}

	if ctx.Err() == context.DeadlineExceeded {
		res.ExitCode = -1
		return res, &ExecutionError{Verb: cmd.Verb, Target: cmd.Target, ExitCode: -1, Timeout: true, Err: ctx.Err()}
	}
	if err != nil {
		exitCode := 1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		res.ExitCode = exitCode
		return res, &ExecutionError{Verb: cmd.Verb, Target: cmd.Target, ExitCode: exitCode, Err: err}
	}

	return res, nil
}
