// Package retrieve finds the indexed chunks most similar to a query.
package retrieve

import (
	"context"
	"fmt"

	"github.com/a-h/pdfrag/index"
	"github.com/tmc/langchaingo/embeddings"
)

const DefaultK = 3

func New(embedder embeddings.Embedder, store *index.Store) *Retriever {
	return &Retriever{
		embedder: embedder,
		store:    store,
	}
}

type Retriever struct {
	embedder embeddings.Embedder
	store    *index.Store
}

// Search returns up to k chunks ranked by similarity to query. The query is
// not embedded when nothing has been indexed.
func (r *Retriever) Search(ctx context.Context, query string, k int) ([]index.Result, error) {
	snap := r.store.Current()
	if snap.Len() == 0 || k <= 0 {
		return nil, nil
	}
	vec, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	return snap.Search(vec, k), nil
}

// Texts returns the text of each result, in rank order.
func Texts(results []index.Result) []string {
	texts := make([]string, len(results))
	for i, r := range results {
		texts[i] = r.Text
	}
	return texts
}
