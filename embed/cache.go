package embed

import (
	"context"
	"slices"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/tmc/langchaingo/embeddings"
)

// WithQueryCache keeps query vectors for ttl, keyed by the query text.
// Document embeddings pass straight through. A ttl of zero disables the cache.
func WithQueryCache(e embeddings.Embedder, ttl time.Duration) embeddings.Embedder {
	if ttl <= 0 {
		return e
	}
	return cached{next: e, queries: cache.New(ttl, 2*ttl)}
}

type cached struct {
	next    embeddings.Embedder
	queries *cache.Cache
}

func (c cached) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	return c.next.EmbedDocuments(ctx, texts)
}

func (c cached) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if v, ok := c.queries.Get(text); ok {
		return slices.Clone(v.([]float32)), nil
	}
	v, err := c.next.EmbedQuery(ctx, text)
	if err != nil {
		return nil, err
	}
	c.queries.Set(text, slices.Clone(v), cache.DefaultExpiration)
	return v, nil
}
