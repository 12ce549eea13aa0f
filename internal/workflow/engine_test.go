package workflow

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"nl-command-router/internal/model"
)

func fixtureTemplate() Template {
	return Template{
		ID:        "backup_file",
		Intent:    model.IntentWorkflow,
		Operation: "backup",
		Steps: []StepSpec{
			{
				ID:      "make_dir",
				Command: CommandDescriptor{Verb: "make_dir", Target: "backups"},
				Retry:   RetryPolicy{MaxAttempts: 1},
				Timeout: 30 * time.Second,
			},
			{
				ID:        "copy",
				Command:   CommandDescriptor{Verb: "copy_file", Target: "{filename}", Args: []string{"backups/{filename}"}},
				DependsOn: []string{"make_dir"},
				Retry:     RetryPolicy{MaxAttempts: 3, Backoff: 250 * time.Millisecond},
				Timeout:   30 * time.Second,
			},
		},
	}
}

func fixtureCatalog(t *testing.T) *Catalog {
	t.Helper()
	tpl := fixtureTemplate()
	return &Catalog{
		templates: []Template{tpl},
		byID:      map[string]*Template{tpl.ID: &tpl},
	}
}

func TestBind(t *testing.T) {
	t.Run("Substitutes params in target args content", func(t *testing.T) {
		tpl := fixtureTemplate()
		steps, err := Bind(&tpl, map[string]string{"filename": "notes.md"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if steps[1].Command.Target != "notes.md" {
			t.Errorf("target = %q", steps[1].Command.Target)
		}
		if steps[1].Command.Args[0] != "backups/notes.md" {
			t.Errorf("args[0] = %q", steps[1].Command.Args[0])
		}
	})

	t.Run("Deterministic", func(t *testing.T) {
		tpl := fixtureTemplate()
		params := map[string]string{"filename": "a.txt"}
		first, err := Bind(&tpl, params)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for i := 0; i < 5; i++ {
			again, err := Bind(&tpl, params)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(first, again) {
				t.Fatalf("binding is not deterministic:\n%v\n%v", first, again)
			}
		}
	})

	t.Run("Unknown placeholder left verbatim", func(t *testing.T) {
		tpl := fixtureTemplate()
		steps, err := Bind(&tpl, map[string]string{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if steps[1].Command.Target != "{filename}" {
			t.Errorf("unbound placeholder mangled: %q", steps[1].Command.Target)
		}
	})

	t.Run("Does not mutate the template", func(t *testing.T) {
		tpl := fixtureTemplate()
		if _, err := Bind(&tpl, map[string]string{"filename": "x.txt"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tpl.Steps[1].Command.Target != "{filename}" {
			t.Errorf("template mutated: %q", tpl.Steps[1].Command.Target)
		}
	})
}

func TestEnginePlan(t *testing.T) {
	engine := NewEngine(fixtureCatalog(t))

	t.Run("Resolves and binds", func(t *testing.T) {
		match := &model.IntentMatch{
			TemplateID: "backup_file",
			Params:     map[string]string{"filename": "data.csv"},
		}
		steps, err := engine.Plan(match)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(steps) != 2 || steps[1].Command.Target != "data.csv" {
			t.Errorf("steps = %v", steps)
		}
	})

	t.Run("Unknown template", func(t *testing.T) {
		_, err := engine.Plan(&model.IntentMatch{TemplateID: "ghost"})
		if !errors.Is(err, ErrTemplateNotFound) {
			t.Errorf("expected ErrTemplateNotFound, got %v", err)
		}
	})

	t.Run("No template id", func(t *testing.T) {
		_, err := engine.Plan(&model.IntentMatch{Intent: model.IntentAIQuery})
		if !errors.Is(err, ErrTemplateNotFound) {
			t.Errorf("expected ErrTemplateNotFound, got %v", err)
		}
	})
}
