package retrieval

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/firebase/genkit/go/ai"
)

var (
	// ErrEmbedderNotConfigured indicates the embedder bridge was built
	// without an underlying model.
	ErrEmbedderNotConfigured = errors.New("embedder not configured")

	// ErrEmptyEmbedding indicates the model returned no vector.
	ErrEmptyEmbedding = errors.New("empty embedding response")
)

// EmbedFunc turns text into a unit-norm vector.
type EmbedFunc func(ctx context.Context, text string) ([]float32, error)

// GenkitEmbedder adapts a Genkit embedder to EmbedFunc.
type GenkitEmbedder struct {
	Embedder ai.Embedder
}

// Embed embeds one text and normalizes the result to unit length, so cosine
// similarity downstream reduces to a dot product.
func (e *GenkitEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if e == nil || e.Embedder == nil {
		return nil, ErrEmbedderNotConfigured
	}

	resp, err := e.Embedder.Embed(ctx, &ai.EmbedRequest{
		Input: []*ai.Document{ai.DocumentFromText(text, nil)},
	})
	if err != nil {
		return nil, fmt.Errorf("embedding text: %w", err)
	}
	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Embedding) == 0 {
		return nil, ErrEmptyEmbedding
	}

	return normalize(resp.Embeddings[0].Embedding), nil
}

// normalize scales v to unit length. Zero vectors are returned unchanged.
func normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	norm := math.Sqrt(sum)
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}

// dot computes the dot product over the shorter of the two vectors. With
// unit-norm inputs this is the cosine similarity.
func dot(a, b []float32) float64 {
	n := min(len(a), len(b))
	var sum float64
	for i := range n {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
