package matching

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"nl-command-router/internal/model"
	"nl-command-router/pkg/log"
	"nl-command-router/pkg/voyage"
)

// SemanticMatcher scores utterances by cosine similarity between the
// utterance embedding and precomputed template embeddings. The embedding
// space is language-agnostic, so multilingual input needs no translation.
// This is the one matcher allowed to be slow; callers run it concurrently
// with the pattern matcher.
type SemanticMatcher struct {
	embedder voyage.Embedder
	floor    float64
	topK     int
	vectors  []templateVector
	cache    *lru.Cache[string, []float32] // Embeddings are deterministic per text
	l        log.Logger
}

type templateVector struct {
	templateID string
	vec        []float32
}

// NewSemanticMatcher embeds the whole corpus up front. The catalog is
// read-only at run time, so template vectors never change after startup.
func NewSemanticMatcher(ctx context.Context, embedder voyage.Embedder, corpus Corpus, floor float64, topK, cacheSize int, l log.Logger) (*SemanticMatcher, error) {
	if len(corpus) == 0 {
		return nil, ErrEmptyCorpus
	}
	if topK <= 0 {
		topK = 5
	}
	if cacheSize <= 0 {
		cacheSize = 512
	}

	texts := make([]string, len(corpus))
	for i, entry := range corpus {
		texts[i] = embeddingText(entry)
	}

	vecs, err := embedder.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed template corpus: %w", err)
	}

	vectors := make([]templateVector, len(corpus))
	for i, entry := range corpus {
		vectors[i] = templateVector{templateID: entry.TemplateID, vec: vecs[i]}
	}

	cache, err := lru.New[string, []float32](cacheSize)
	if err != nil {
		return nil, err
	}

	l.Infof(ctx, "Semantic matcher ready: %d template embeddings precomputed", len(vectors))

	return &SemanticMatcher{
		embedder: embedder,
		floor:    floor,
		topK:     topK,
		vectors:  vectors,
		cache:    cache,
		l:        l,
	}, nil
}

// Match embeds the utterance and returns the top-K templates above the
// similarity floor, as semantic candidates. Semantic matches carry no
// extracted parameters.
func (m *SemanticMatcher) Match(ctx context.Context, utt model.Utterance) ([]model.CandidateMatch, error) {
	text := strings.TrimSpace(utt.Text)
	if text == "" {
		return nil, ErrEmptyUtterance
	}

	vec, ok := m.cache.Get(text)
	if !ok {
		fresh, err := m.embedder.EmbedOne(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("failed to embed utterance: %w", err)
		}
		m.cache.Add(text, fresh)
		vec = fresh
	}

	candidates := make([]model.CandidateMatch, 0, m.topK)
	for _, tv := range m.vectors {
		score := cosine(vec, tv.vec)
		if score < m.floor {
			continue
		}
		candidates = append(candidates, model.CandidateMatch{
			Source:     model.SourceSemantic,
			TemplateID: tv.templateID,
			Score:      score,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	if len(candidates) > m.topK {
		candidates = candidates[:m.topK]
	}

	return candidates, nil
}

// embeddingText flattens an entry into the text whose embedding represents
// the template.
func embeddingText(entry Entry) string {
	parts := make([]string, 0, len(entry.Triggers)+1)
	parts = append(parts, entry.Triggers...)
	if len(entry.Keywords) > 0 {
		parts = append(parts, strings.Join(entry.Keywords, " "))
	}
	return strings.Join(parts, "\n")
}

// cosine returns similarity clamped to [0,1]; mismatched or zero vectors
// score 0 rather than erroring.
func cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}
