package retrieval

import (
	"context"
	"errors"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/atu-portal/assistant/internal/corpus"
	"github.com/atu-portal/assistant/internal/log"
	"github.com/atu-portal/assistant/internal/textutil"
)

// ErrEmptyIndex indicates ranking was attempted before the corpus index was
// built or against a blank corpus.
var ErrEmptyIndex = errors.New("empty corpus index")

// Result is the outcome of one retrieval pass.
type Result struct {
	// Selected holds the chosen chunks, best first.
	Selected []*corpus.Chunk

	// BestScore is the top cosine similarity.
	BestScore float64

	// Snippet is the context text assembled from the selected chunks, or a
	// raw corpus prefix when embedding degraded.
	Snippet string

	// HasMatches reports whether ranking produced chunks at all; only the
	// degraded no-embedding path leaves it unset.
	HasMatches bool
}

// Ranker orders prefilter candidates by embedding similarity.
type Ranker struct {
	embed  EmbedFunc
	cache  *EmbeddingCache
	params Params
	logger log.Logger
}

// NewRanker builds a ranker. A nil cache gets a fresh one; a nil logger is
// replaced with a no-op logger.
func NewRanker(embed EmbedFunc, cache *EmbeddingCache, params Params, logger log.Logger) *Ranker {
	if cache == nil {
		cache = NewEmbeddingCache()
	}
	if logger == nil {
		logger = log.NewNop()
	}
	return &Ranker{embed: embed, cache: cache, params: params, logger: logger}
}

// Rank retrieves the chunks most similar to question.
//
// Embedding failures do not fail the request: when the question or every
// candidate cannot be embedded, Rank degrades to a raw corpus prefix with
// HasMatches unset.
func (r *Ranker) Rank(ctx context.Context, ix *corpus.Index, question string) (Result, error) {
	candidates := SelectCandidates(ix, question, r.params)
	if len(candidates) == 0 {
		return Result{}, ErrEmptyIndex
	}

	qvec, err := r.embed(ctx, question)
	if err != nil {
		r.logger.Warn("question embedding failed, degrading to raw context", "error", err)
		return r.degraded(ix), nil
	}

	type scored struct {
		chunk *corpus.Chunk
		score float64
	}
	ranked := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		vec, err := r.cache.Get(ctx, c.ID, c.EmbeddingText(), r.embed)
		if err != nil {
			r.logger.Warn("chunk embedding failed", "chunk", c.ID, "error", err)
			continue
		}
		ranked = append(ranked, scored{chunk: c, score: dot(qvec, vec)})
	}
	if len(ranked) == 0 {
		return r.degraded(ix), nil
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	best := ranked[0].score
	var selected []*corpus.Chunk
	for _, s := range ranked {
		if s.score <= r.params.SimilarityThreshold {
			break
		}
		selected = append(selected, s.chunk)
		if len(selected) >= r.params.MaxChunks {
			break
		}
	}

	if len(selected) == 0 {
		// Nothing cleared the bar; the single best chunk still counts as a
		// weak match.
		selected = []*corpus.Chunk{ranked[0].chunk}
	}

	return Result{
		Selected:   selected,
		BestScore:  best,
		Snippet:    r.buildSnippet(selected),
		HasMatches: true,
	}, nil
}

func (r *Ranker) degraded(ix *corpus.Index) Result {
	raw := textutil.CollapseSpace(ix.Raw())
	return Result{
		Snippet:    textutil.TruncateRunes(raw, r.params.MaxSnippet),
		HasMatches: false,
	}
}

// buildSnippet joins the selected chunks into one context block and caps it
// at MaxSnippet runes. When the cut lands deep into the text it backs off
// to the previous word boundary instead of splitting a word.
func (r *Ranker) buildSnippet(selected []*corpus.Chunk) string {
	parts := make([]string, 0, len(selected))
	for _, c := range selected {
		parts = append(parts, "["+c.Title+"]\n"+c.Text)
	}
	snippet := strings.Join(parts, "\n\n")

	if utf8.RuneCountInString(snippet) <= r.params.MaxSnippet {
		return snippet
	}
	cut := textutil.TruncateRunes(snippet, r.params.MaxSnippet)
	if idx := strings.LastIndex(cut, " "); idx > (len(cut)*4)/5 {
		cut = cut[:idx]
	}
	return cut
}
