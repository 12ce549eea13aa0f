package matching

// Entry is one template's view for matching: its id, trigger phrases, and
// auxiliary keywords. Triggers may contain {param} placeholders.
type Entry struct {
	TemplateID string
	Triggers   []string
	Keywords   []string
}

// Corpus is the read-only set of entries both matchers score against.
type Corpus []Entry
