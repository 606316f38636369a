package retrieval

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/atu-portal/assistant/internal/corpus"
)

func testIndex(t *testing.T) *corpus.Index {
	t.Helper()
	raw := `✦Библиотека:
Электронная библиотека доступна в разделе Библиотека, там собраны учебники и пособия.◈

✦Расписание:
Расписание занятий публикуется в личном кабинете и обновляется каждую неделю.◈

✦Столовая:
Столовая работает на первом этаже главного корпуса с девяти утра до шести вечера.◈
`
	ix := corpus.BuildIndex(raw)
	if ix.Len() != 3 {
		t.Fatalf("test corpus produced %d chunks, want 3", ix.Len())
	}
	return ix
}

func TestSelectCandidatesScoring(t *testing.T) {
	ix := testIndex(t)
	p := DefaultParams()

	got := SelectCandidates(ix, "Где находится библиотека?", p)
	if len(got) == 0 {
		t.Fatal("no candidates")
	}
	if got[0].Title != "Библиотека" {
		t.Errorf("top candidate = %q, want Библиотека", got[0].Title)
	}
}

func TestSelectCandidatesLimit(t *testing.T) {
	ix := testIndex(t)
	p := DefaultParams()
	p.CandidateLimit = 1

	got := SelectCandidates(ix, "расписание библиотека столовая", p)
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
}

func TestSelectCandidatesNeverEmpty(t *testing.T) {
	ix := testIndex(t)
	p := DefaultParams()

	// No token overlap at all, prefilter falls back to the first chunks.
	got := SelectCandidates(ix, "xyzzy", p)
	if len(got) != 3 {
		t.Fatalf("len = %d, want all 3 chunks", len(got))
	}
}

func TestSelectCandidatesShortTokenScoresTitle(t *testing.T) {
	ix := testIndex(t)

	// "сто" is below the keyword-scoring length but still hits the title.
	got := SelectCandidates(ix, "сто", DefaultParams())
	if len(got) == 0 || got[0].Title != "Столовая" {
		t.Fatalf("short token should score titles, got %v", titles(got))
	}
}

func titles(chunks []*corpus.Chunk) []string {
	out := make([]string, 0, len(chunks))
	for _, c := range chunks {
		out = append(out, c.Title)
	}
	return out
}

func TestSelectCandidatesEmptyIndex(t *testing.T) {
	if got := SelectCandidates(nil, "вопрос", DefaultParams()); got != nil {
		t.Fatalf("nil index should return nil, got %v", got)
	}
}

// vecFor maps texts to fixed unit vectors so ranking order is deterministic.
func vecFor(text string) []float32 {
	switch {
	case strings.Contains(text, "библиотека") || strings.Contains(text, "Библиотека"):
		return []float32{1, 0, 0}
	case strings.Contains(text, "Расписание"):
		return []float32{0.9, 0.4359, 0}
	default:
		return []float32{0, 0, 1}
	}
}

func TestRankerSelectsByThreshold(t *testing.T) {
	ix := testIndex(t)
	embed := func(_ context.Context, text string) ([]float32, error) {
		return vecFor(text), nil
	}
	r := NewRanker(embed, nil, DefaultParams(), nil)

	res, err := r.Rank(context.Background(), ix, "где библиотека")
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if !res.HasMatches {
		t.Fatal("expected matches above threshold")
	}
	if res.Selected[0].Title != "Библиотека" {
		t.Errorf("best chunk = %q", res.Selected[0].Title)
	}
	if res.BestScore < 0.99 {
		t.Errorf("BestScore = %v, want ~1", res.BestScore)
	}
	if len(res.Selected) > DefaultParams().MaxChunks {
		t.Errorf("selected %d chunks, cap is %d", len(res.Selected), DefaultParams().MaxChunks)
	}
	if !strings.Contains(res.Snippet, "[Библиотека]") {
		t.Errorf("snippet missing title marker: %q", res.Snippet)
	}
}

func TestRankerKeepsTopOneBelowThreshold(t *testing.T) {
	ix := testIndex(t)
	embed := func(_ context.Context, text string) ([]float32, error) {
		if strings.Contains(text, "вопрос") {
			return []float32{0, 1, 0}, nil
		}
		// Orthogonal to the question, every score is 0.
		return []float32{1, 0, 0}, nil
	}
	r := NewRanker(embed, nil, DefaultParams(), nil)

	res, err := r.Rank(context.Background(), ix, "вопрос без ответа")
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if !res.HasMatches {
		t.Fatal("the weak single-best selection still counts as a match")
	}
	if len(res.Selected) != 1 {
		t.Fatalf("selected %d chunks, want the single best", len(res.Selected))
	}
}

func TestRankerDegradesOnEmbedError(t *testing.T) {
	ix := testIndex(t)
	embed := func(_ context.Context, _ string) ([]float32, error) {
		return nil, errors.New("model offline")
	}
	r := NewRanker(embed, nil, DefaultParams(), nil)

	res, err := r.Rank(context.Background(), ix, "где библиотека")
	if err != nil {
		t.Fatalf("Rank should degrade, not fail: %v", err)
	}
	if res.HasMatches {
		t.Error("degraded result must not claim matches")
	}
	if res.Snippet == "" {
		t.Error("degraded result should carry a raw context prefix")
	}
}

func TestEmbeddingCacheMemoizes(t *testing.T) {
	var calls atomic.Int32
	embed := func(_ context.Context, _ string) ([]float32, error) {
		calls.Add(1)
		return []float32{1, 0}, nil
	}
	cache := NewEmbeddingCache()

	for range 3 {
		if _, err := cache.Get(context.Background(), "id", "текст", embed); err != nil {
			t.Fatalf("Get: %v", err)
		}
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("embed called %d times, want 1", got)
	}
	if cache.Len() != 1 {
		t.Errorf("Len = %d, want 1", cache.Len())
	}
}

func TestEmbeddingCacheDoesNotCacheFailures(t *testing.T) {
	var calls atomic.Int32
	embed := func(_ context.Context, _ string) ([]float32, error) {
		if calls.Add(1) == 1 {
			return nil, errors.New("transient")
		}
		return []float32{1}, nil
	}
	cache := NewEmbeddingCache()

	if _, err := cache.Get(context.Background(), "id", "текст", embed); err == nil {
		t.Fatal("first Get should fail")
	}
	if _, err := cache.Get(context.Background(), "id", "текст", embed); err != nil {
		t.Fatalf("second Get should retry and succeed: %v", err)
	}
}

func TestNormalize(t *testing.T) {
	v := normalize([]float32{3, 4})
	if got := dot(v, v); got < 0.999 || got > 1.001 {
		t.Errorf("normalized self-dot = %v, want 1", got)
	}
}
