package intent

import (
	"context"
	"sort"
	"time"

	"nl-command-router/internal/matching"
	"nl-command-router/internal/model"
	pkgLog "nl-command-router/pkg/log"
)

// Resolver merges pattern and semantic candidates into one IntentMatch.
// It never returns an error: a failed matcher degrades confidence instead
// of propagating, and a floor miss synthesizes an AI_QUERY fallback.
type Resolver struct {
	pattern         matching.Matcher
	semantic        matching.Matcher
	lookup          TemplateLookup
	floor           float64 // Candidates below this never become alternatives
	maxAlternatives int
	timeout         time.Duration
	l               pkgLog.Logger
}

// NewResolver wires the two matchers and the catalog lookup.
func NewResolver(pattern, semantic matching.Matcher, lookup TemplateLookup, floor float64, maxAlternatives int, timeout time.Duration, l pkgLog.Logger) *Resolver {
	if maxAlternatives <= 0 {
		maxAlternatives = 5
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Resolver{
		pattern:         pattern,
		semantic:        semantic,
		lookup:          lookup,
		floor:           floor,
		maxAlternatives: maxAlternatives,
		timeout:         timeout,
		l:               l,
	}
}

type matcherResult struct {
	candidates []model.CandidateMatch
	err        error
}

// Resolve fans out to both matchers concurrently, joins, and merges.
// Confidence is computed fresh on every call; nothing is reused across turns.
func (r *Resolver) Resolve(ctx context.Context, utt model.Utterance) *model.IntentMatch {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	patternCh := make(chan matcherResult, 1)
	semanticCh := make(chan matcherResult, 1)

	go func() {
		c, err := r.pattern.Match(ctx, utt)
		patternCh <- matcherResult{candidates: c, err: err}
	}()
	go func() {
		c, err := r.semantic.Match(ctx, utt)
		semanticCh <- matcherResult{candidates: c, err: err}
	}()

	candidates := make([]model.CandidateMatch, 0, 8)
	for _, ch := range []chan matcherResult{patternCh, semanticCh} {
		res := <-ch
		if res.err != nil {
			// Matcher degraded: treat as score 0, never propagate.
			r.l.Warnf(ctx, "matcher degraded: %v", res.err)
			continue
		}
		candidates = append(candidates, res.candidates...)
	}

	return r.merge(candidates)
}

// merge implements the max-of-sources design: per template, keep the best
// candidate per source, and the template's confidence is the max across
// sources — signals are correlated and must not stack additively.
func (r *Resolver) merge(candidates []model.CandidateMatch) *model.IntentMatch {
	type group struct {
		bySource map[model.MatchSource]model.CandidateMatch
		best     float64
	}

	groups := make(map[string]*group)
	order := make([]string, 0, len(candidates)) // Deterministic iteration

	for _, c := range candidates {
		g, ok := groups[c.TemplateID]
		if !ok {
			g = &group{bySource: make(map[model.MatchSource]model.CandidateMatch, 3)}
			groups[c.TemplateID] = g
			order = append(order, c.TemplateID)
		}
		if prev, ok := g.bySource[c.Source]; !ok || c.Score > prev.Score {
			g.bySource[c.Source] = c
		}
		if c.Score > g.best {
			g.best = c.Score
		}
	}

	if len(groups) == 0 {
		return r.fallback(0)
	}

	// Rank templates by confidence, then success-rate hint, then id.
	type ranked struct {
		templateID string
		confidence float64
		info       TemplateInfo
	}
	rankedList := make([]ranked, 0, len(groups))
	for _, id := range order {
		info, known := r.lookup.Info(id)
		if !known {
			continue
		}
		rankedList = append(rankedList, ranked{templateID: id, confidence: groups[id].best, info: info})
	}
	if len(rankedList) == 0 {
		return r.fallback(0)
	}

	sort.SliceStable(rankedList, func(i, j int) bool {
		if rankedList[i].confidence != rankedList[j].confidence {
			return rankedList[i].confidence > rankedList[j].confidence
		}
		if rankedList[i].info.SuccessRate != rankedList[j].info.SuccessRate {
			return rankedList[i].info.SuccessRate > rankedList[j].info.SuccessRate
		}
		return rankedList[i].templateID < rankedList[j].templateID
	})

	winner := rankedList[0]
	if winner.confidence < r.floor {
		return r.fallback(winner.confidence)
	}

	// Alternatives: remaining templates at or above the floor, best
	// candidate each, descending, capped.
	alternatives := make([]model.CandidateMatch, 0, r.maxAlternatives)
	for _, rk := range rankedList[1:] {
		if rk.confidence < r.floor {
			continue
		}
		if len(alternatives) == r.maxAlternatives {
			break
		}
		alternatives = append(alternatives, bestCandidate(groups[rk.templateID].bySource, rk.confidence, rk.templateID))
	}

	return &model.IntentMatch{
		Intent:       winner.info.Intent,
		Operation:    winner.info.Operation,
		TemplateID:   winner.templateID,
		Confidence:   winner.confidence,
		Level:        model.LevelForConfidence(winner.confidence),
		Alternatives: alternatives,
		Params:       mergeParams(groups[winner.templateID].bySource),
	}
}

// fallback synthesizes the AI_QUERY IntentMatch when nothing reaches the
// floor; confidence carries the best sub-floor score for auditability.
func (r *Resolver) fallback(bestScore float64) *model.IntentMatch {
	return &model.IntentMatch{
		Intent:     model.IntentAIQuery,
		Operation:  "ai_query",
		Confidence: bestScore,
		Level:      model.LevelForConfidence(bestScore),
	}
}

func bestCandidate(bySource map[model.MatchSource]model.CandidateMatch, confidence float64, templateID string) model.CandidateMatch {
	for _, src := range []model.MatchSource{model.SourceExact, model.SourceFuzzy, model.SourceSemantic} {
		if c, ok := bySource[src]; ok && c.Score == confidence {
			return c
		}
	}
	return model.CandidateMatch{Source: model.SourceSemantic, TemplateID: templateID, Score: confidence}
}

// mergeParams prefers exact-match extractions over fuzzy ones; semantic
// candidates carry none.
func mergeParams(bySource map[model.MatchSource]model.CandidateMatch) map[string]string {
	merged := map[string]string{}
	for _, src := range []model.MatchSource{model.SourceFuzzy, model.SourceExact} {
		if c, ok := bySource[src]; ok {
			for k, v := range c.Params {
				merged[k] = v
			}
		}
	}
	if len(merged) == 0 {
		return nil
	}
	return merged
}
