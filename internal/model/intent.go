package model

// IntentCategory classifies the purpose of an utterance.
type IntentCategory string

const (
	IntentFileOp      IntentCategory = "FILE_OP"
	IntentShellOp     IntentCategory = "SHELL_OP"
	IntentWorkflow    IntentCategory = "WORKFLOW"
	IntentAIQuery     IntentCategory = "AI_QUERY"
	IntentSystemQuery IntentCategory = "SYSTEM_QUERY"
)

// MatchSource identifies which matcher produced a candidate.
type MatchSource string

const (
	SourceExact    MatchSource = "exact"
	SourceFuzzy    MatchSource = "fuzzy"
	SourceSemantic MatchSource = "semantic"

	// SourceMerged marks a candidate rebuilt from a resolver verdict rather
	// than taken from one matcher's output.
	SourceMerged MatchSource = "merged"
)

// ConfidenceLevel buckets a confidence score for reporting.
type ConfidenceLevel string

const (
	ConfidenceVeryHigh ConfidenceLevel = "very_high" // >= 0.85
	ConfidenceHigh     ConfidenceLevel = "high"      // >= 0.60
	ConfidenceMedium   ConfidenceLevel = "medium"    // >= 0.40
	ConfidenceLow      ConfidenceLevel = "low"       // >= 0.30
	ConfidenceVeryLow  ConfidenceLevel = "very_low"  // < 0.30
)

// LevelForConfidence derives the reporting bucket for a score.
func LevelForConfidence(score float64) ConfidenceLevel {
	switch {
	case score >= 0.85:
		return ConfidenceVeryHigh
	case score >= 0.60:
		return ConfidenceHigh
	case score >= 0.40:
		return ConfidenceMedium
	case score >= 0.30:
		return ConfidenceLow
	default:
		return ConfidenceVeryLow
	}
}

// CandidateMatch is one matcher's scored vote for a template.
type CandidateMatch struct {
	Source     MatchSource
	TemplateID string
	Score      float64 // Raw score in [0,1]
	Params     map[string]string
}

// IntentMatch is the resolver's merged verdict for one utterance.
// Immutable once built; confidence is recomputed fresh every turn.
type IntentMatch struct {
	Intent       IntentCategory
	Operation    string
	TemplateID   string
	Confidence   float64
	Level        ConfidenceLevel
	Alternatives []CandidateMatch // Descending by score, capped
	Params       map[string]string
}
