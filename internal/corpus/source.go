package corpus

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// ErrEmptyCorpus indicates the source produced no usable text.
var ErrEmptyCorpus = errors.New("corpus source is empty")

// Source yields the raw corpus text. Implementations do not cache; callers
// memoize the built index instead.
type Source interface {
	Load(ctx context.Context) (string, error)
}

// FileSource loads the corpus from a local file.
type FileSource struct {
	Path string
}

func (s FileSource) Load(_ context.Context) (string, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return "", fmt.Errorf("reading corpus file %s: %w", s.Path, err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: %s", ErrEmptyCorpus, s.Path)
	}
	return string(data), nil
}

// HTTPSource fetches the corpus over HTTP.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

func (s HTTPSource) Load(ctx context.Context) (string, error) {
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return "", fmt.Errorf("building corpus request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching corpus from %s: %w", s.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching corpus from %s: unexpected status %d", s.URL, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return "", fmt.Errorf("reading corpus response: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: %s", ErrEmptyCorpus, s.URL)
	}
	return string(data), nil
}
