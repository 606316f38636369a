package chat

import (
	"context"
	"fmt"
	"sync"

	"github.com/atu-portal/assistant/internal/corpus"
	"github.com/atu-portal/assistant/internal/log"
)

// Resources lazily loads and memoizes the corpus index. A load failure is
// not cached; the next request retries the source.
type Resources struct {
	source corpus.Source
	logger log.Logger

	mu    sync.Mutex
	index *corpus.Index
}

// NewResources wraps a corpus source.
func NewResources(source corpus.Source, logger log.Logger) *Resources {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Resources{source: source, logger: logger}
}

// Index returns the corpus index, loading and building it on first use.
func (r *Resources) Index(ctx context.Context) (*corpus.Index, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.index != nil {
		return r.index, nil
	}
	return r.loadLocked(ctx)
}

// Reload drops the memoized index and rebuilds it from the source. On
// failure the old index is kept so the session stays usable.
func (r *Resources) Reload(ctx context.Context) (*corpus.Index, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	old := r.index
	r.index = nil
	ix, err := r.loadLocked(ctx)
	if err != nil {
		r.index = old
		return nil, err
	}
	return ix, nil
}

func (r *Resources) loadLocked(ctx context.Context) (*corpus.Index, error) {
	raw, err := r.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrContextNotLoaded, err)
	}

	ix := corpus.BuildIndex(raw)
	if ix.Len() == 0 {
		return nil, fmt.Errorf("%w: corpus has no indexable content", ErrContextNotLoaded)
	}

	r.logger.Info("corpus index built", "chunks", ix.Len(), "bytes", len(raw))
	r.index = ix
	return ix, nil
}
