package intent

import "nl-command-router/internal/model"

// TemplateInfo is the slice of catalog metadata the resolver needs to turn
// a winning template id into an IntentMatch.
type TemplateInfo struct {
	Intent      model.IntentCategory
	Operation   string
	SuccessRate float64 // Historical hint, tie-breaker only
}

// TemplateLookup resolves template metadata by id. Backed by the immutable
// catalog; safe for concurrent reads.
type TemplateLookup interface {
	Info(templateID string) (TemplateInfo, bool)
}
