package security

import (
	"fmt"
	"path/filepath"
	"strings"

	"nl-command-router/config"
	"nl-command-router/internal/workflow"
)

// Validator applies the static allow/deny policy to bound command
// descriptors. Immutable after construction; safe for concurrent use.
// Every step is checked regardless of plan source — AI-generated steps get
// no more leniency than template steps.
type Validator struct {
	allowedVerbs       map[string]struct{}
	forbiddenPaths     []string
	forbiddenOperators []string
	maxPayloadBytes    int
}

// New builds a Validator from the static security policy.
func New(cfg config.SecurityConfig) *Validator {
	verbs := make(map[string]struct{}, len(cfg.AllowedVerbs))
	for _, v := range cfg.AllowedVerbs {
		verbs[strings.ToLower(strings.TrimSpace(v))] = struct{}{}
	}

	paths := make([]string, 0, len(cfg.ForbiddenPaths))
	for _, p := range cfg.ForbiddenPaths {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, filepath.Clean(p))
		}
	}

	return &Validator{
		allowedVerbs:       verbs,
		forbiddenPaths:     paths,
		forbiddenOperators: cfg.ForbiddenOperators,
		maxPayloadBytes:    cfg.MaxPayloadBytes,
	}
}

// Validate returns Allowed or Denied(reason) for one bound command.
func (v *Validator) Validate(cmd workflow.CommandDescriptor) Decision {
	verb := strings.ToLower(strings.TrimSpace(cmd.Verb))
	if verb == "" {
		return Deny("empty verb")
	}
	if _, ok := v.allowedVerbs[verb]; !ok {
		return Deny(fmt.Sprintf("verb %q is not whitelisted", cmd.Verb))
	}

	if reason := v.checkPath(cmd.Target); reason != "" {
		return Deny(reason)
	}
	for _, arg := range cmd.Args {
		if reason := v.checkPath(arg); reason != "" {
			return Deny(reason)
		}
		if reason := v.checkOperators(arg); reason != "" {
			return Deny(reason)
		}
	}
	if reason := v.checkOperators(cmd.Target); reason != "" {
		return Deny(reason)
	}

	if v.maxPayloadBytes > 0 && len(cmd.Content) > v.maxPayloadBytes {
		return Deny(fmt.Sprintf("payload of %d bytes exceeds limit of %d", len(cmd.Content), v.maxPayloadBytes))
	}

	return Allow()
}

// checkPath rejects targets under a forbidden prefix. Only absolute paths
// can collide with the system prefixes in the policy.
func (v *Validator) checkPath(raw string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") {
		return ""
	}
	clean := filepath.Clean(raw)
	for _, p := range v.forbiddenPaths {
		if clean == p || strings.HasPrefix(clean, p+"/") {
			return fmt.Sprintf("path %q is under forbidden prefix %q", raw, p)
		}
	}
	return ""
}

// checkOperators rejects shell metacharacters. Pipes and redirection are
// denied by default; a step that needs them must be modeled as its own verb.
func (v *Validator) checkOperators(raw string) string {
	if raw == "" {
		return ""
	}
	for _, op := range v.forbiddenOperators {
		if op != "" && strings.Contains(raw, op) {
			return fmt.Sprintf("forbidden operator %q in %q", op, raw)
		}
	}
	return ""
}
