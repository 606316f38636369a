package config

import (
	"errors"
	"testing"
)

func validConfig() *Config {
	return &Config{
		Provider:      ProviderGemini,
		ModelName:     "gemini-2.5-flash",
		EmbedderModel: "gemini-embedding-001",
		Corpus:        CorpusConfig{Path: "context.txt"},
		RAG: RAGConfig{
			Enabled:             true,
			SimilarityThreshold: 0.18,
			ExtractionThreshold: 0.2,
			KeywordWeight:       1.5,
			TitleWeight:         2.0,
			PhraseWeight:        1.0,
			CandidateLimit:      8,
			MaxChunks:           3,
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"valid", func(*Config) {}, nil},
		{"empty model", func(c *Config) { c.ModelName = " " }, ErrInvalidModelName},
		{"empty embedder", func(c *Config) { c.EmbedderModel = "" }, ErrInvalidEmbedderModel},
		{"bad provider", func(c *Config) { c.Provider = "bard" }, ErrInvalidProvider},
		{"no corpus", func(c *Config) { c.Corpus = CorpusConfig{} }, ErrNoCorpusSource},
		{"threshold too high", func(c *Config) { c.RAG.SimilarityThreshold = 1.5 }, ErrInvalidThreshold},
		{"negative threshold", func(c *Config) { c.RAG.ExtractionThreshold = -0.1 }, ErrInvalidThreshold},
		{"zero limit", func(c *Config) { c.RAG.CandidateLimit = 0 }, ErrInvalidLimit},
		{"zero max chunks", func(c *Config) { c.RAG.MaxChunks = 0 }, ErrInvalidLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestFullModelName(t *testing.T) {
	tests := []struct {
		provider string
		model    string
		want     string
	}{
		{ProviderGemini, "gemini-2.5-flash", "googleai/gemini-2.5-flash"},
		{ProviderOllama, "llama3.3", "ollama/llama3.3"},
		{ProviderGemini, "googleai/gemini-2.5-pro", "googleai/gemini-2.5-pro"},
	}

	for _, tt := range tests {
		c := &Config{Provider: tt.provider, ModelName: tt.model}
		if got := c.FullModelName(); got != tt.want {
			t.Errorf("FullModelName(%s, %s) = %q, want %q", tt.provider, tt.model, got, tt.want)
		}
	}
}
