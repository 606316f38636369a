package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"

	"github.com/atu-portal/assistant/internal/textutil"
)

// maxPromptQuestionRunes caps the question sent to the engine.
const maxPromptQuestionRunes = 200

// Generator produces a reply to a question. onDelta receives streamed
// fragments in order; it may be nil when the caller does not stream.
type Generator interface {
	Generate(ctx context.Context, prompt string, onDelta func(delta string) error) (string, error)
}

// GenkitGenerator runs generation through a Genkit model.
type GenkitGenerator struct {
	G         *genkit.Genkit
	ModelName string
	System    string
}

// Generate sends the prompt to the model. The full accumulated text is
// returned even when streaming, so callers can post-process it as a whole.
func (g *GenkitGenerator) Generate(ctx context.Context, prompt string, onDelta func(delta string) error) (string, error) {
	if g == nil || g.G == nil {
		return "", ErrEngineNotReady
	}

	opts := []ai.GenerateOption{
		ai.WithSystem(g.System),
		ai.WithPrompt("%s", prompt),
		ai.WithModelName(g.ModelName),
	}
	if onDelta != nil {
		opts = append(opts, ai.WithStreaming(func(_ context.Context, chunk *ai.ModelResponseChunk) error {
			return onDelta(chunk.Text())
		}))
	}

	resp, err := genkit.Generate(ctx, g.G, opts...)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	return resp.Text(), nil
}

// BuildPrompt prepares the generation prompt. The engine receives the
// trimmed question alone, capped so a pasted wall of text cannot blow up
// the request; retrieved context stays on the retrieval side.
func BuildPrompt(question string) string {
	return textutil.TruncateRunes(strings.TrimSpace(question), maxPromptQuestionRunes)
}
