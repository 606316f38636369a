package chat

import "errors"

var (
	// ErrContextNotLoaded indicates the corpus index is not ready yet.
	ErrContextNotLoaded = errors.New("context not loaded")

	// ErrEmbedderNotReady indicates the embedding model is unavailable.
	ErrEmbedderNotReady = errors.New("embedder not ready")

	// ErrEngineNotReady indicates the generation model is unavailable.
	ErrEngineNotReady = errors.New("generation engine not ready")

	// ErrGenerationFailed indicates the engine returned an error or
	// unusable output.
	ErrGenerationFailed = errors.New("generation failed")

	// ErrEmptyQuestion indicates a blank message after trimming.
	ErrEmptyQuestion = errors.New("empty question")

	// ErrBusy indicates a message arrived while another one was being
	// processed. Messages are rejected, not queued.
	ErrBusy = errors.New("assistant is busy")
)
