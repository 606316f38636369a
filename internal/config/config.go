// Package config provides application configuration with multi-source
// priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (runtime override)
//  2. Config file (~/.assistant/config.yaml or ./config.yaml)
//  3. Default values
//
// Main categories:
//   - AI: provider, generation model, embedder model, system instruction
//   - Corpus: where the knowledge text is fetched from (file path or URL)
//   - RAG: retrieval tuning knobs (empirical constants from the portal,
//     kept configurable rather than rationalized)
//   - Server: HTTP listen address and CORS origins
//
// Error handling follows the sentinel-error pattern: wrap with
// fmt.Errorf("%w: details", ErrXxx) and check with errors.Is().
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

var (
	// ErrInvalidModelName indicates the generation model name is empty.
	ErrInvalidModelName = errors.New("invalid model name")

	// ErrInvalidEmbedderModel indicates the embedder model name is empty.
	ErrInvalidEmbedderModel = errors.New("invalid embedder model")

	// ErrInvalidProvider indicates the AI provider is not supported.
	ErrInvalidProvider = errors.New("invalid provider")

	// ErrNoCorpusSource indicates neither corpus.path nor corpus.url is set.
	ErrNoCorpusSource = errors.New("no corpus source configured")

	// ErrInvalidThreshold indicates a retrieval threshold is out of range.
	ErrInvalidThreshold = errors.New("invalid similarity threshold")

	// ErrInvalidLimit indicates a retrieval limit is not positive.
	ErrInvalidLimit = errors.New("invalid retrieval limit")
)

// AI provider identifiers used in Config.Provider.
const (
	ProviderGemini   = "gemini"
	ProviderOllama   = "ollama"
	ProviderGoogleAI = "googleai"
)

// RAGConfig holds the retrieval tuning knobs. The defaults are the
// empirical constants the portal shipped with; they are configuration, not
// derived values.
type RAGConfig struct {
	Enabled             bool    `mapstructure:"enabled"`
	SimilarityThreshold float64 `mapstructure:"similarity_threshold"`
	ExtractionThreshold float64 `mapstructure:"extraction_threshold"`
	KeywordWeight       float64 `mapstructure:"keyword_weight"`
	TitleWeight         float64 `mapstructure:"title_weight"`
	PhraseWeight        float64 `mapstructure:"phrase_weight"`
	CandidateLimit      int     `mapstructure:"candidate_limit"`
	MaxChunks           int     `mapstructure:"max_chunks"`
}

// CorpusConfig describes where the knowledge text comes from.
// Path wins over URL when both are set.
type CorpusConfig struct {
	Path string `mapstructure:"path"`
	URL  string `mapstructure:"url"`
}

// ServerConfig holds HTTP surface settings.
type ServerConfig struct {
	Addr        string   `mapstructure:"addr"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// Config stores application configuration.
type Config struct {
	// AI provider and model configuration
	Provider      string `mapstructure:"provider"`       // "gemini" (default) or "ollama"
	ModelName     string `mapstructure:"model_name"`     // e.g. "gemini-2.5-flash"
	EmbedderModel string `mapstructure:"embedder_model"` // e.g. "gemini-embedding-001"
	OllamaHost    string `mapstructure:"ollama_host"`
	Language      string `mapstructure:"language"` // chat UI language ("ru" default)

	// SystemMessage is the fixed system instruction for the generation
	// engine. Retrieval results are never appended to it.
	SystemMessage string `mapstructure:"system_message"`

	Corpus CorpusConfig `mapstructure:"corpus"`
	RAG    RAGConfig    `mapstructure:"rag"`
	Server ServerConfig `mapstructure:"server"`
}

// DefaultSystemMessage is the portal assistant instruction.
const DefaultSystemMessage = "Ты ассистент портала АТУ. ВАЖНО: Отвечай ТОЛЬКО на русском языке. Отвечай коротко, 1-2 предложения. Не повторяй вопрос. Не генерируй мусор."

// Load loads configuration.
// Priority: environment variables > configuration file > default values.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}

	configDir := filepath.Join(home, ".assistant")
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)
	viper.AddConfigPath(".")

	setDefaults()
	bindEnvVariables()

	if err := viper.ReadInConfig(); err != nil {
		// Missing config file is fine, defaults apply.
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using default values",
			"search_paths", []string{configDir, "."})
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("provider", ProviderGemini)
	viper.SetDefault("model_name", "gemini-2.5-flash")
	viper.SetDefault("embedder_model", "gemini-embedding-001")
	viper.SetDefault("ollama_host", "http://localhost:11434")
	viper.SetDefault("language", "ru")
	viper.SetDefault("system_message", DefaultSystemMessage)

	viper.SetDefault("corpus.path", "context.txt")

	viper.SetDefault("rag.enabled", true)
	viper.SetDefault("rag.similarity_threshold", 0.18)
	viper.SetDefault("rag.extraction_threshold", 0.2)
	viper.SetDefault("rag.keyword_weight", 1.5)
	viper.SetDefault("rag.title_weight", 2.0)
	viper.SetDefault("rag.phrase_weight", 1.0)
	viper.SetDefault("rag.candidate_limit", 8)
	viper.SetDefault("rag.max_chunks", 3)

	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("server.cors_origins", []string{"http://localhost:4200"})
}

// bindEnvVariables binds runtime overrides explicitly.
// GEMINI_API_KEY is read directly by Genkit, not via Viper.
func bindEnvVariables() {
	mustBind := func(key, envVar string) {
		if err := viper.BindEnv(key, envVar); err != nil {
			panic(fmt.Sprintf("BUG: failed to bind %q to %q: %v", key, envVar, err))
		}
	}

	mustBind("provider", "ASSISTANT_PROVIDER")
	mustBind("model_name", "ASSISTANT_MODEL_NAME")
	mustBind("embedder_model", "ASSISTANT_EMBEDDER_MODEL")
	mustBind("ollama_host", "ASSISTANT_OLLAMA_HOST")
	mustBind("language", "ASSISTANT_LANG")
	mustBind("corpus.path", "ASSISTANT_CORPUS_PATH")
	mustBind("corpus.url", "ASSISTANT_CORPUS_URL")
	mustBind("server.addr", "ASSISTANT_ADDR")
	mustBind("server.cors_origins", "ASSISTANT_CORS_ORIGINS")
}

// Validate performs fail-fast range checks.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderGemini, ProviderOllama, "":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidProvider, c.Provider)
	}
	if strings.TrimSpace(c.ModelName) == "" {
		return ErrInvalidModelName
	}
	if strings.TrimSpace(c.EmbedderModel) == "" {
		return ErrInvalidEmbedderModel
	}
	if c.Corpus.Path == "" && c.Corpus.URL == "" {
		return ErrNoCorpusSource
	}
	if c.RAG.SimilarityThreshold < 0 || c.RAG.SimilarityThreshold > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidThreshold, c.RAG.SimilarityThreshold)
	}
	if c.RAG.ExtractionThreshold < 0 || c.RAG.ExtractionThreshold > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidThreshold, c.RAG.ExtractionThreshold)
	}
	if c.RAG.CandidateLimit <= 0 || c.RAG.MaxChunks <= 0 {
		return ErrInvalidLimit
	}
	return nil
}

// FullModelName returns the provider-qualified model name for Genkit.
// Examples: "googleai/gemini-2.5-flash", "ollama/llama3.3".
// If ModelName already contains a "/", it is returned as-is.
func (c *Config) FullModelName() string {
	if strings.Contains(c.ModelName, "/") {
		return c.ModelName
	}
	if c.Provider == ProviderOllama {
		return ProviderOllama + "/" + c.ModelName
	}
	return ProviderGoogleAI + "/" + c.ModelName
}
