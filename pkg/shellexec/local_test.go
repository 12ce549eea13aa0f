package shellexec

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestRunner(t *testing.T) (*LocalRunner, string) {
	t.Helper()
	dir := t.TempDir()
	return NewLocalRunner(dir, true), dir
}

func TestLocalRunner_FileVerbs(t *testing.T) {
	ctx := context.Background()

	t.Run("Create then read", func(t *testing.T) {
		r, _ := newTestRunner(t)

		if _, err := r.Execute(ctx, Command{Verb: "create_file", Target: "notes.md", Content: "hello"}, 0); err != nil {
			t.Fatalf("create: %v", err)
		}
		res, err := r.Execute(ctx, Command{Verb: "read_file", Target: "notes.md"}, 0)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if res.Stdout != "hello" {
			t.Errorf("stdout = %q, want hello", res.Stdout)
		}
	})

	t.Run("Create truncates, append extends", func(t *testing.T) {
		r, _ := newTestRunner(t)

		r.Execute(ctx, Command{Verb: "create_file", Target: "log.txt", Content: "old"}, 0)
		r.Execute(ctx, Command{Verb: "create_file", Target: "log.txt", Content: "new"}, 0)
		r.Execute(ctx, Command{Verb: "append_file", Target: "log.txt", Content: "+more"}, 0)

		res, err := r.Execute(ctx, Command{Verb: "read_file", Target: "log.txt"}, 0)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if res.Stdout != "new+more" {
			t.Errorf("stdout = %q, want new+more", res.Stdout)
		}
	})

	t.Run("Copy keeps the source, move removes it", func(t *testing.T) {
		r, dir := newTestRunner(t)
		r.Execute(ctx, Command{Verb: "create_file", Target: "a.txt", Content: "data"}, 0)

		if _, err := r.Execute(ctx, Command{Verb: "copy_file", Target: "a.txt", Args: []string{"b.txt"}}, 0); err != nil {
			t.Fatalf("copy: %v", err)
		}
		if _, err := os.Stat(filepath.Join(dir, "a.txt")); err != nil {
			t.Errorf("source gone after copy: %v", err)
		}

		if _, err := r.Execute(ctx, Command{Verb: "move_file", Target: "a.txt", Args: []string{"c.txt"}}, 0); err != nil {
			t.Fatalf("move: %v", err)
		}
		if _, err := os.Stat(filepath.Join(dir, "a.txt")); !os.IsNotExist(err) {
			t.Error("source still present after move")
		}
		if _, err := os.Stat(filepath.Join(dir, "c.txt")); err != nil {
			t.Errorf("destination missing after move: %v", err)
		}
	})

	t.Run("Transfer without destination", func(t *testing.T) {
		r, _ := newTestRunner(t)
		r.Execute(ctx, Command{Verb: "create_file", Target: "a.txt"}, 0)

		if _, err := r.Execute(ctx, Command{Verb: "copy_file", Target: "a.txt"}, 0); err == nil {
			t.Fatal("expected error without destination argument")
		}
	})

	t.Run("Make dir and list", func(t *testing.T) {
		r, _ := newTestRunner(t)
		r.Execute(ctx, Command{Verb: "make_dir", Target: "backups/daily"}, 0)
		r.Execute(ctx, Command{Verb: "create_file", Target: "backups/daily/one.txt"}, 0)

		res, err := r.Execute(ctx, Command{Verb: "list_dir", Target: "backups/daily"}, 0)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if !strings.Contains(res.Stdout, "one.txt") {
			t.Errorf("listing = %q", res.Stdout)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		r, dir := newTestRunner(t)
		r.Execute(ctx, Command{Verb: "create_file", Target: "trash.txt"}, 0)

		if _, err := r.Execute(ctx, Command{Verb: "delete_file", Target: "trash.txt"}, 0); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if _, err := os.Stat(filepath.Join(dir, "trash.txt")); !os.IsNotExist(err) {
			t.Error("file still present after delete")
		}
	})

	t.Run("Read missing file", func(t *testing.T) {
		r, _ := newTestRunner(t)
		res, err := r.Execute(ctx, Command{Verb: "read_file", Target: "ghost.txt"}, 0)
		if err == nil {
			t.Fatal("expected error")
		}
		var execErr *ExecutionError
		if !errors.As(err, &execErr) {
			t.Fatalf("error %v is not an *ExecutionError", err)
		}
		if res.ExitCode != 1 {
			t.Errorf("exit code = %d, want 1", res.ExitCode)
		}
	})

	t.Run("Unsupported verb", func(t *testing.T) {
		r, _ := newTestRunner(t)
		if _, err := r.Execute(ctx, Command{Verb: "format_disk", Target: "/dev/sda"}, 0); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestLocalRunner_WorkspaceRestriction(t *testing.T) {
	ctx := context.Background()

	t.Run("Escape by traversal rejected", func(t *testing.T) {
		r, _ := newTestRunner(t)
		_, err := r.Execute(ctx, Command{Verb: "read_file", Target: "../outside.txt"}, 0)
		if err == nil {
			t.Fatal("expected workspace escape rejection")
		}
		if !strings.Contains(err.Error(), "escapes workspace") {
			t.Errorf("error = %v", err)
		}
	})

	t.Run("Absolute path outside rejected", func(t *testing.T) {
		r, _ := newTestRunner(t)
		if _, err := r.Execute(ctx, Command{Verb: "read_file", Target: "/etc/hostname"}, 0); err == nil {
			t.Fatal("expected workspace escape rejection")
		}
	})

	t.Run("Unrestricted runner may leave the root", func(t *testing.T) {
		outside := t.TempDir()
		if err := os.WriteFile(filepath.Join(outside, "free.txt"), []byte("ok"), 0o644); err != nil {
			t.Fatalf("seed file: %v", err)
		}

		r := NewLocalRunner(t.TempDir(), false)
		res, err := r.Execute(ctx, Command{Verb: "read_file", Target: filepath.Join(outside, "free.txt")}, 0)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if res.Stdout != "ok" {
			t.Errorf("stdout = %q", res.Stdout)
		}
	})
}

func TestLocalRunner_RunCommand(t *testing.T) {
	ctx := context.Background()

	t.Run("Captures stdout and exit code", func(t *testing.T) {
		r, _ := newTestRunner(t)
		res, err := r.Execute(ctx, Command{Verb: "run_command", Target: "echo", Args: []string{"hi"}}, time.Second)
		if err != nil {
			t.Fatalf("run: %v", err)
		}
		if strings.TrimSpace(res.Stdout) != "hi" {
			t.Errorf("stdout = %q", res.Stdout)
		}
		if res.ExitCode != 0 {
			t.Errorf("exit code = %d", res.ExitCode)
		}
	})

	t.Run("Nonzero exit surfaces the code", func(t *testing.T) {
		r, _ := newTestRunner(t)
		res, err := r.Execute(ctx, Command{Verb: "run_command", Target: "sh", Args: []string{"-c", "exit 3"}}, time.Second)
		if err == nil {
			t.Fatal("expected error")
		}
		var execErr *ExecutionError
		if !errors.As(err, &execErr) {
			t.Fatalf("error %v is not an *ExecutionError", err)
		}
		if res.ExitCode != 3 || execErr.ExitCode != 3 {
			t.Errorf("exit code = %d/%d, want 3", res.ExitCode, execErr.ExitCode)
		}
	})

	t.Run("Timeout marks the error", func(t *testing.T) {
		r, _ := newTestRunner(t)
		_, err := r.Execute(ctx, Command{Verb: "run_command", Target: "sleep", Args: []string{"5"}}, 50*time.Millisecond)
		if err == nil {
			t.Fatal("expected timeout error")
		}
		var execErr *ExecutionError
		if !errors.As(err, &execErr) {
			t.Fatalf("error %v is not an *ExecutionError", err)
		}
		if !execErr.Timeout {
			t.Errorf("timeout flag not set: %v", execErr)
		}
	})

	t.Run("Empty command rejected", func(t *testing.T) {
		r, _ := newTestRunner(t)
		if _, err := r.Execute(ctx, Command{Verb: "run_command"}, time.Second); err == nil {
			t.Fatal("expected error")
		}
	})
}
