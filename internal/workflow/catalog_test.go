package workflow

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeCatalog(t *testing.T, yaml string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "templates.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatalf("write templates.yaml: %v", err)
	}
	return dir
}

func testDefaults() Defaults {
	return Defaults{StepTimeout: 30 * time.Second, MaxAttempts: 3, Backoff: 500 * time.Millisecond}
}

func TestLoadCatalog(t *testing.T) {
	t.Run("Valid catalog", func(t *testing.T) {
		dir := writeCatalog(t, `
templates:
  - id: create_file
    intent: FILE_OP
    operation: create
    triggers: ["create {filename}"]
    keywords: [create, file]
    success_rate: 0.97
    steps:
      - id: create
        verb: create_file
        target: "{filename}"
  - id: backup_file
    intent: WORKFLOW
    operation: backup
    triggers: ["backup {filename}"]
    steps:
      - id: make_dir
        verb: make_dir
        target: backups
      - id: copy
        verb: copy_file
        target: "{filename}"
        args: ["backups/{filename}"]
        depends_on: [make_dir]
        max_attempts: 5
        backoff: 100ms
        timeout: 10s
`)
		catalog, err := LoadCatalog(dir, testDefaults())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if catalog.Len() != 2 {
			t.Fatalf("len = %d, want 2", catalog.Len())
		}

		tpl, ok := catalog.Get("backup_file")
		if !ok {
			t.Fatal("backup_file missing")
		}
		copyStep := tpl.Steps[1]
		if copyStep.Retry.MaxAttempts != 5 || copyStep.Retry.Backoff != 100*time.Millisecond {
			t.Errorf("per-step retry = %+v", copyStep.Retry)
		}
		if copyStep.Timeout != 10*time.Second {
			t.Errorf("per-step timeout = %v", copyStep.Timeout)
		}

		create, _ := catalog.Get("create_file")
		if create.Steps[0].Timeout != 30*time.Second {
			t.Errorf("default timeout not applied: %v", create.Steps[0].Timeout)
		}
		if create.Steps[0].Retry.MaxAttempts != 3 {
			t.Errorf("default attempts not applied: %v", create.Steps[0].Retry.MaxAttempts)
		}
	})

	t.Run("Unknown intent rejected", func(t *testing.T) {
		dir := writeCatalog(t, `
templates:
  - id: bad
    intent: NOT_A_THING
    operation: x
    triggers: ["do it"]
    steps:
      - id: s
        verb: read_file
        target: a.txt
`)
		if _, err := LoadCatalog(dir, testDefaults()); err == nil {
			t.Error("expected error for unknown intent")
		}
	})

	t.Run("Cyclic template rejected at load", func(t *testing.T) {
		dir := writeCatalog(t, `
templates:
  - id: cyclic
    intent: WORKFLOW
    operation: loop
    triggers: ["loop"]
    steps:
      - id: a
        verb: read_file
        target: a.txt
        depends_on: [b]
      - id: b
        verb: read_file
        target: b.txt
        depends_on: [a]
`)
		if _, err := LoadCatalog(dir, testDefaults()); err == nil {
			t.Error("expected error for cyclic step graph")
		}
	})

	t.Run("Duplicate template id rejected", func(t *testing.T) {
		dir := writeCatalog(t, `
templates:
  - id: twin
    intent: FILE_OP
    operation: a
    triggers: ["a"]
    steps:
      - id: s
        verb: read_file
        target: a.txt
  - id: twin
    intent: FILE_OP
    operation: b
    triggers: ["b"]
    steps:
      - id: s
        verb: read_file
        target: b.txt
`)
		if _, err := LoadCatalog(dir, testDefaults()); err == nil {
			t.Error("expected error for duplicate template id")
		}
	})

	t.Run("Empty catalog rejected", func(t *testing.T) {
		dir := writeCatalog(t, "templates: []\n")
		if _, err := LoadCatalog(dir, testDefaults()); err == nil {
			t.Error("expected error for empty catalog")
		}
	})
}
