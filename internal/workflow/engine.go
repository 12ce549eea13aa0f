package workflow

import (
	"fmt"
	"strings"

	"nl-command-router/internal/model"
)

// Engine is the fast deterministic tier: it binds extracted parameters into
// a template's steps. No network or model calls; binding the same inputs
// twice yields byte-identical plans.
type Engine struct {
	catalog *Catalog
}

// NewEngine creates a template engine over an immutable catalog.
func NewEngine(catalog *Catalog) *Engine {
	return &Engine{catalog: catalog}
}

// Plan resolves an IntentMatch to its template and binds its parameters.
func (e *Engine) Plan(match *model.IntentMatch) ([]StepSpec, error) {
	if match == nil || match.TemplateID == "" {
		return nil, ErrTemplateNotFound
	}
	tpl, ok := e.catalog.Get(match.TemplateID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, match.TemplateID)
	}
	return Bind(tpl, match.Params)
}

// Bind substitutes {name} placeholders in every step's command descriptor
// and re-validates the resulting graph.
func Bind(tpl *Template, params map[string]string) ([]StepSpec, error) {
	steps := make([]StepSpec, len(tpl.Steps))
	for i, s := range tpl.Steps {
		bound := s
		bound.Command.Target = substitute(s.Command.Target, params)
		bound.Command.Content = substitute(s.Command.Content, params)
		if len(s.Command.Args) > 0 {
			args := make([]string, len(s.Command.Args))
			for j, a := range s.Command.Args {
				args[j] = substitute(a, params)
			}
			bound.Command.Args = args
		}
		if len(s.DependsOn) > 0 {
			deps := make([]string, len(s.DependsOn))
			copy(deps, s.DependsOn)
			bound.DependsOn = deps
		}
		steps[i] = bound
	}

	if err := ValidateDAG(steps); err != nil {
		return nil, err
	}
	return steps, nil
}

// substitute replaces every {key} occurrence with its parameter value.
// Unknown placeholders are left verbatim so failures surface at the
// security gate rather than silently binding empty strings.
func substitute(s string, params map[string]string) string {
	if s == "" || !strings.Contains(s, "{") {
		return s
	}
	out := s
	for k, v := range params {
		out = strings.ReplaceAll(out, "{"+k+"}", v)
	}
	return out
}
