// Package app wires the assistant together: Genkit provider setup, corpus
// source selection and the chat orchestrator.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/googlegenai"
	"github.com/firebase/genkit/go/plugins/ollama"

	"github.com/atu-portal/assistant/internal/accounts"
	"github.com/atu-portal/assistant/internal/chat"
	"github.com/atu-portal/assistant/internal/config"
	"github.com/atu-portal/assistant/internal/corpus"
	"github.com/atu-portal/assistant/internal/i18n"
	"github.com/atu-portal/assistant/internal/log"
	"github.com/atu-portal/assistant/internal/retrieval"
)

// App holds the assembled application components.
type App struct {
	Config       *config.Config
	Logger       log.Logger
	Genkit       *genkit.Genkit
	Embedder     ai.Embedder
	Accounts     accounts.Store
	Commands     *chat.CommandRecorder
	Orchestrator *chat.Orchestrator
}

// Setup creates and initializes the application.
func Setup(ctx context.Context, cfg *config.Config, logger log.Logger) (*App, error) {
	if logger == nil {
		logger = log.NewNop()
	}

	i18n.Init(cfg.Language)

	g, err := provideGenkit(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	embedder := provideEmbedder(g, cfg)
	if embedder == nil {
		return nil, fmt.Errorf("embedder %q not found for provider %q", cfg.EmbedderModel, cfg.Provider)
	}

	params := retrieval.Params{
		KeywordWeight:       cfg.RAG.KeywordWeight,
		TitleWeight:         cfg.RAG.TitleWeight,
		PhraseWeight:        cfg.RAG.PhraseWeight,
		CandidateLimit:      cfg.RAG.CandidateLimit,
		MaxChunks:           cfg.RAG.MaxChunks,
		SimilarityThreshold: cfg.RAG.SimilarityThreshold,
		ExtractionThreshold: cfg.RAG.ExtractionThreshold,
		MaxSnippet:          retrieval.DefaultParams().MaxSnippet,
	}

	bridge := &retrieval.GenkitEmbedder{Embedder: embedder}
	ranker := retrieval.NewRanker(bridge.Embed, retrieval.NewEmbeddingCache(), params,
		logger.With("component", "ranker"))

	generator := &chat.GenkitGenerator{
		G:         g,
		ModelName: cfg.FullModelName(),
		System:    cfg.SystemMessage,
	}

	store := accounts.NewMemoryStore()
	commands := &chat.CommandRecorder{}

	orchestrator, err := chat.New(chat.Config{
		Logger:    logger.With("component", "chat"),
		Resources: chat.NewResources(provideSource(cfg), logger),
		Ranker:    ranker,
		Generator: generator,
		Params:    params,
		Executor:  commands,
		Accounts:  store,
	})
	if err != nil {
		return nil, fmt.Errorf("building chat orchestrator: %w", err)
	}
	if !cfg.RAG.Enabled {
		orchestrator.EnableRAG(false)
	}

	return &App{
		Config:       cfg,
		Logger:       logger,
		Genkit:       g,
		Embedder:     embedder,
		Accounts:     store,
		Commands:     commands,
		Orchestrator: orchestrator,
	}, nil
}

// provideSource picks the corpus source; a local path wins over a URL.
func provideSource(cfg *config.Config) corpus.Source {
	if cfg.Corpus.Path != "" {
		return corpus.FileSource{Path: cfg.Corpus.Path}
	}
	return corpus.HTTPSource{URL: cfg.Corpus.URL}
}

// provideGenkit initializes Genkit with the configured AI provider.
// Supports gemini (default) and ollama.
func provideGenkit(ctx context.Context, cfg *config.Config, logger log.Logger) (*genkit.Genkit, error) {
	var g *genkit.Genkit

	switch cfg.Provider {
	case config.ProviderOllama:
		ollamaPlugin := &ollama.Ollama{ServerAddress: cfg.OllamaHost}
		g = genkit.Init(ctx, genkit.WithPlugins(ollamaPlugin))
		if g == nil {
			return nil, errors.New("initializing genkit with ollama provider")
		}
		// Ollama requires explicit model registration (no auto-discovery)
		ollamaPlugin.DefineModel(g, ollama.ModelDefinition{
			Name: cfg.ModelName,
			Type: "chat",
		}, nil)
		ollamaPlugin.DefineEmbedder(g, cfg.OllamaHost, cfg.EmbedderModel, nil)
		logger.Info("initialized Genkit with ollama provider",
			"model", cfg.ModelName, "host", cfg.OllamaHost)

	default: // "gemini"
		g = genkit.Init(ctx, genkit.WithPlugins(&googlegenai.GoogleAI{}))
		if g == nil {
			return nil, errors.New("initializing genkit with gemini provider")
		}
		logger.Info("initialized Genkit with gemini provider", "model", cfg.ModelName)
	}

	return g, nil
}

// provideEmbedder looks up the embedder registered by the provider plugin.
func provideEmbedder(g *genkit.Genkit, cfg *config.Config) ai.Embedder {
	switch cfg.Provider {
	case config.ProviderOllama:
		// Ollama embedders are keyed by server address
		return ollama.Embedder(g, cfg.OllamaHost)
	default: // "gemini"
		return googlegenai.GoogleAIEmbedder(g, cfg.EmbedderModel)
	}
}
