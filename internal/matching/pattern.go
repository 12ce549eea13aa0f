package matching

import (
	"context"
	"strings"

	"nl-command-router/internal/model"
)

// PatternMatcher does exact and fuzzy string matching of an utterance
// against the corpus trigger phrases. Pure function of (utterance, corpus);
// no side effects, no I/O.
type PatternMatcher struct {
	corpus   Corpus
	fuzzyCap float64 // Fuzzy scores live in [0, fuzzyCap); exact is always 1.0
	boostCap float64 // Keyword boosts never add more than this
}

// NewPatternMatcher builds a pattern matcher over an immutable corpus.
func NewPatternMatcher(corpus Corpus, fuzzyCap, boostCap float64) *PatternMatcher {
	if fuzzyCap <= 0 || fuzzyCap >= 1 {
		fuzzyCap = 0.95
	}
	if boostCap < 0 || boostCap >= fuzzyCap {
		boostCap = 0.05
	}
	return &PatternMatcher{corpus: corpus, fuzzyCap: fuzzyCap, boostCap: boostCap}
}

// Match scores every corpus entry. Exact normalized equality scores 1.0;
// fuzzy scores are scaled so that fuzzy plus boost can never reach an exact
// score.
func (m *PatternMatcher) Match(_ context.Context, utt model.Utterance) ([]model.CandidateMatch, error) {
	if len(m.corpus) == 0 {
		return nil, ErrEmptyCorpus
	}
	tokens := tokenize(utt.Text)
	if len(tokens) == 0 {
		return nil, ErrEmptyUtterance
	}

	var out []model.CandidateMatch

	for _, entry := range m.corpus {
		bestFuzzy := 0.0
		var exactParams map[string]string
		exact := false

		for _, trigger := range entry.Triggers {
			trigTokens := tokenize(trigger)
			if params, ok := alignExact(tokens, trigTokens); ok {
				exact = true
				exactParams = params
				break
			}
			if s := fuzzyScore(tokens, trigTokens); s > bestFuzzy {
				bestFuzzy = s
			}
		}

		if exact {
			out = append(out, model.CandidateMatch{
				Source:     model.SourceExact,
				TemplateID: entry.TemplateID,
				Score:      1.0,
				Params:     exactParams,
			})
			continue
		}

		if bestFuzzy <= 0 {
			continue
		}

		// Scale the raw fuzzy score so score+boost stays strictly below 1.0.
		scaled := bestFuzzy * (m.fuzzyCap - m.boostCap)
		scaled += m.keywordBoost(tokens, entry)

		out = append(out, model.CandidateMatch{
			Source:     model.SourceFuzzy,
			TemplateID: entry.TemplateID,
			Score:      scaled,
			Params:     extractLooseParams(tokens, entry),
		})
	}

	return out, nil
}

// keywordBoost adds a small bounded bonus for auxiliary signals: declared
// keywords present in the utterance, and a file-extension token when the
// entry's triggers bind a filename.
func (m *PatternMatcher) keywordBoost(tokens []string, entry Entry) float64 {
	boost := 0.0
	tokenSet := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		tokenSet[t] = struct{}{}
	}

	for _, kw := range entry.Keywords {
		if _, ok := tokenSet[strings.ToLower(kw)]; ok {
			boost += 0.02
		}
	}

	if wantsFilename(entry) && findFileToken(tokens) != "" {
		boost += 0.01
	}

	if boost > m.boostCap {
		boost = m.boostCap
	}
	return boost
}

// tokenize lowercases, splits on whitespace, and strips sentence
// punctuation without mangling filename tokens like "test.txt".
func tokenize(s string) []string {
	fields := strings.Fields(strings.ToLower(s))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, "?!,;:\"'")
		f = strings.TrimSuffix(f, ".")
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// alignExact matches utterance tokens one-to-one against trigger tokens.
// {param} tokens capture the aligned utterance token; a trailing {param}
// captures everything remaining. Returns (params, true) on full alignment.
func alignExact(tokens, trigger []string) (map[string]string, bool) {
	if len(trigger) == 0 {
		return nil, false
	}

	params := map[string]string{}

	for i, tt := range trigger {
		name, isParam := placeholderName(tt)

		if isParam && i == len(trigger)-1 {
			// Trailing placeholder swallows the rest.
			if len(tokens) <= i {
				return nil, false
			}
			params[name] = strings.Join(tokens[i:], " ")
			return params, true
		}

		if i >= len(tokens) {
			return nil, false
		}

		if isParam {
			params[name] = tokens[i]
			continue
		}
		if tokens[i] != tt {
			return nil, false
		}
	}

	if len(tokens) != len(trigger) {
		return nil, false
	}
	return params, true
}

// fuzzyScore combines token-set overlap with normalized edit distance over
// the trigger's literal (non-placeholder) tokens. Result in [0,1].
func fuzzyScore(tokens, trigger []string) float64 {
	literals := make([]string, 0, len(trigger))
	for _, tt := range trigger {
		if _, isParam := placeholderName(tt); !isParam {
			literals = append(literals, tt)
		}
	}
	if len(literals) == 0 {
		return 0
	}

	overlap := jaccard(tokens, literals)
	edit := editSimilarity(strings.Join(tokens, " "), strings.Join(literals, " "))

	if overlap > edit {
		return overlap
	}
	return edit
}

func jaccard(a, b []string) float64 {
	setA := make(map[string]struct{}, len(a))
	for _, t := range a {
		setA[t] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, t := range b {
		setB[t] = struct{}{}
	}

	inter := 0
	for t := range setA {
		if _, ok := setB[t]; ok {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// editSimilarity is 1 - levenshtein/maxlen.
func editSimilarity(a, b string) float64 {
	if a == b {
		return 1
	}
	ra, rb := []rune(a), []rune(b)
	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}
	if maxLen == 0 {
		return 0
	}
	return 1 - float64(levenshtein(ra, rb))/float64(maxLen)
}

func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

func placeholderName(token string) (string, bool) {
	if strings.HasPrefix(token, "{") && strings.HasSuffix(token, "}") && len(token) > 2 {
		return token[1 : len(token)-1], true
	}
	return "", false
}

func wantsFilename(entry Entry) bool {
	for _, trigger := range entry.Triggers {
		if strings.Contains(trigger, "{filename}") || strings.Contains(trigger, "{path}") {
			return true
		}
	}
	return false
}

// findFileToken returns the first token that looks like a filename.
func findFileToken(tokens []string) string {
	for _, t := range tokens {
		if i := strings.LastIndex(t, "."); i > 0 && i < len(t)-1 {
			return t
		}
	}
	return ""
}

// extractLooseParams binds best-effort parameters for fuzzy matches: a
// filename-looking token and a path-looking token when the entry asks for
// them.
func extractLooseParams(tokens []string, entry Entry) map[string]string {
	if !wantsFilename(entry) {
		return nil
	}
	params := map[string]string{}
	if f := findFileToken(tokens); f != "" {
		params["filename"] = f
	}
	for _, t := range tokens {
		if strings.Contains(t, "/") {
			params["path"] = t
			break
		}
	}
	if len(params) == 0 {
		return nil
	}
	return params
}
