// Package retrieval finds the corpus chunks most relevant to a question.
//
// Retrieval runs in two stages. A cheap lexical prefilter scores every chunk
// by keyword, title and phrase overlap and keeps a small candidate set. The
// ranker then embeds the question and the candidates and orders them by
// cosine similarity. Chunk vectors are memoized per chunk ID so repeated
// questions only pay for the question embedding.
package retrieval

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/atu-portal/assistant/internal/corpus"
	"github.com/atu-portal/assistant/internal/textutil"
)

// Params are the retrieval tuning knobs. The defaults are empirical values
// carried over from the portal and should be changed together, not
// individually.
type Params struct {
	KeywordWeight       float64
	TitleWeight         float64
	PhraseWeight        float64
	CandidateLimit      int
	MaxChunks           int
	SimilarityThreshold float64
	ExtractionThreshold float64
	MaxSnippet          int
}

// DefaultParams returns the portal defaults.
func DefaultParams() Params {
	return Params{
		KeywordWeight:       1.5,
		TitleWeight:         2.0,
		PhraseWeight:        1.0,
		CandidateLimit:      8,
		MaxChunks:           3,
		SimilarityThreshold: 0.18,
		ExtractionThreshold: 0.2,
		MaxSnippet:          600,
	}
}

// phrasePrefixRunes is how much of the question participates in the exact
// phrase check.
const phrasePrefixRunes = 30

// minScoringTokenRunes skips short question tokens (prepositions, particles)
// during keyword scoring. Title matching takes every token.
const minScoringTokenRunes = 4

// SelectCandidates runs the lexical prefilter and returns up to
// p.CandidateLimit chunks. It never returns an empty slice for a non-empty
// index: when nothing scores, the first chunks are returned so the ranker
// still has material to order.
func SelectCandidates(ix *corpus.Index, question string, p Params) []*corpus.Chunk {
	if ix == nil || ix.Len() == 0 {
		return nil
	}

	tokens := textutil.Tokenize(question)
	phrase := textutil.FirstRunes(strings.ToLower(strings.TrimSpace(question)), phrasePrefixRunes)

	type scored struct {
		chunk *corpus.Chunk
		score float64
	}
	candidates := make([]scored, 0, ix.Len())

	for i := range ix.Chunks {
		c := &ix.Chunks[i]
		score := 0.0
		titleLower := strings.ToLower(c.Title)

		for _, tok := range tokens {
			if utf8.RuneCountInString(tok) >= minScoringTokenRunes && containsToken(c.Keywords, tok) {
				score += p.KeywordWeight
			}
			if strings.Contains(titleLower, tok) {
				score += p.TitleWeight
			}
		}
		if phrase != "" && strings.Contains(c.Lower, phrase) {
			score += p.PhraseWeight
		}

		if score > 0 {
			candidates = append(candidates, scored{chunk: c, score: score})
		}
	}

	if len(candidates) == 0 {
		limit := min(p.CandidateLimit, ix.Len())
		out := make([]*corpus.Chunk, 0, limit)
		for i := range limit {
			out = append(out, &ix.Chunks[i])
		}
		return out
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	limit := min(p.CandidateLimit, len(candidates))
	out := make([]*corpus.Chunk, 0, limit)
	for _, s := range candidates[:limit] {
		out = append(out, s.chunk)
	}
	return out
}

func containsToken(keywords []string, tok string) bool {
	for _, k := range keywords {
		if k == tok {
			return true
		}
	}
	return false
}
