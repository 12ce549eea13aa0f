package workflow

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"nl-command-router/internal/model"
)

// Catalog is the immutable template corpus, loaded once at startup and
// shared by reference. Safe for concurrent reads.
type Catalog struct {
	templates []Template
	byID      map[string]*Template
}

// Defaults fills in per-step settings templates leave unset.
type Defaults struct {
	StepTimeout time.Duration
	MaxAttempts int
	Backoff     time.Duration
}

type rawCatalog struct {
	Templates []rawTemplate `mapstructure:"templates"`
}

type rawTemplate struct {
	ID          string    `mapstructure:"id"`
	Intent      string    `mapstructure:"intent"`
	Operation   string    `mapstructure:"operation"`
	Triggers    []string  `mapstructure:"triggers"`
	Keywords    []string  `mapstructure:"keywords"`
	SuccessRate float64   `mapstructure:"success_rate"`
	StepTimeout string    `mapstructure:"step_timeout"`
	Steps       []rawStep `mapstructure:"steps"`
}

type rawStep struct {
	ID          string   `mapstructure:"id"`
	Verb        string   `mapstructure:"verb"`
	Target      string   `mapstructure:"target"`
	Args        []string `mapstructure:"args"`
	Content     string   `mapstructure:"content"`
	DependsOn   []string `mapstructure:"depends_on"`
	MaxAttempts int      `mapstructure:"max_attempts"`
	Backoff     string   `mapstructure:"backoff"`
	Timeout     string   `mapstructure:"timeout"`
}

// LoadCatalog reads templates.yaml from dir and validates every template's
// step graph before the service accepts traffic.
func LoadCatalog(dir string, defaults Defaults) (*Catalog, error) {
	v := viper.New()
	v.SetConfigName("templates")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading template catalog: %w", err)
	}

	var raw rawCatalog
	if err := v.Unmarshal(&raw); err != nil {
		return nil, fmt.Errorf("error parsing template catalog: %w", err)
	}

	return buildCatalog(raw, defaults)
}

func buildCatalog(raw rawCatalog, defaults Defaults) (*Catalog, error) {
	if len(raw.Templates) == 0 {
		return nil, fmt.Errorf("template catalog is empty")
	}

	c := &Catalog{
		templates: make([]Template, 0, len(raw.Templates)),
		byID:      make(map[string]*Template, len(raw.Templates)),
	}

	for _, rt := range raw.Templates {
		tpl, err := buildTemplate(rt, defaults)
		if err != nil {
			return nil, fmt.Errorf("template %q: %w", rt.ID, err)
		}
		if _, dup := c.byID[tpl.ID]; dup {
			return nil, fmt.Errorf("duplicate template id %q", tpl.ID)
		}
		c.templates = append(c.templates, tpl)
		c.byID[tpl.ID] = &c.templates[len(c.templates)-1]
	}

	return c, nil
}

func buildTemplate(rt rawTemplate, defaults Defaults) (Template, error) {
	if rt.ID == "" {
		return Template{}, fmt.Errorf("missing id")
	}
	if len(rt.Triggers) == 0 {
		return Template{}, fmt.Errorf("no trigger patterns")
	}

	intent, err := parseIntent(rt.Intent)
	if err != nil {
		return Template{}, err
	}

	stepTimeout := defaults.StepTimeout
	if rt.StepTimeout != "" {
		d, err := time.ParseDuration(rt.StepTimeout)
		if err != nil {
			return Template{}, fmt.Errorf("invalid step_timeout %q: %w", rt.StepTimeout, err)
		}
		stepTimeout = d
	}

	steps := make([]StepSpec, 0, len(rt.Steps))
	for _, rs := range rt.Steps {
		step, err := buildStep(rs, stepTimeout, defaults)
		if err != nil {
			return Template{}, fmt.Errorf("step %q: %w", rs.ID, err)
		}
		steps = append(steps, step)
	}

	if err := ValidateDAG(steps); err != nil {
		return Template{}, err
	}

	operation := rt.Operation
	if operation == "" {
		operation = rt.ID
	}

	return Template{
		ID:          rt.ID,
		Intent:      intent,
		Operation:   operation,
		Triggers:    rt.Triggers,
		Keywords:    rt.Keywords,
		Steps:       steps,
		SuccessRate: rt.SuccessRate,
		StepTimeout: stepTimeout,
	}, nil
}

func buildStep(rs rawStep, stepTimeout time.Duration, defaults Defaults) (StepSpec, error) {
	if rs.ID == "" {
		return StepSpec{}, fmt.Errorf("missing id")
	}
	if rs.Verb == "" {
		return StepSpec{}, fmt.Errorf("missing verb")
	}

	timeout := stepTimeout
	if rs.Timeout != "" {
		d, err := time.ParseDuration(rs.Timeout)
		if err != nil {
			return StepSpec{}, fmt.Errorf("invalid timeout %q: %w", rs.Timeout, err)
		}
		timeout = d
	}

	maxAttempts := rs.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaults.MaxAttempts
	}

	backoff := defaults.Backoff
	if rs.Backoff != "" {
		d, err := time.ParseDuration(rs.Backoff)
		if err != nil {
			return StepSpec{}, fmt.Errorf("invalid backoff %q: %w", rs.Backoff, err)
		}
		backoff = d
	}

	return StepSpec{
		ID: rs.ID,
		Command: CommandDescriptor{
			Verb:    rs.Verb,
			Target:  rs.Target,
			Args:    rs.Args,
			Content: rs.Content,
		},
		DependsOn: rs.DependsOn,
		Retry: RetryPolicy{
			MaxAttempts: maxAttempts,
			Backoff:     backoff,
		},
		Timeout: timeout,
	}, nil
}

func parseIntent(raw string) (model.IntentCategory, error) {
	switch model.IntentCategory(raw) {
	case model.IntentFileOp, model.IntentShellOp, model.IntentWorkflow,
		model.IntentAIQuery, model.IntentSystemQuery:
		return model.IntentCategory(raw), nil
	}
	return "", fmt.Errorf("unknown intent %q", raw)
}

// Get returns the template with the given id.
func (c *Catalog) Get(id string) (*Template, bool) {
	t, ok := c.byID[id]
	return t, ok
}

// All returns the templates in catalog order. Callers must not mutate.
func (c *Catalog) All() []Template {
	return c.templates
}

// Len reports the number of templates.
func (c *Catalog) Len() int {
	return len(c.templates)
}
