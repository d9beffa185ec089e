// Package embedtest provides a deterministic embedder for tests.
package embedtest

import (
	"context"
	"sync/atomic"
	"unicode"

	"github.com/tmc/langchaingo/embeddings"
)

var _ embeddings.Embedder = (*Embedder)(nil)

// Embedder maps text to its letter frequencies, so texts sharing words score
// higher against each other.
type Embedder struct {
	// Err, if set, is returned from every call.
	Err error

	documentCalls atomic.Int64
	queryCalls    atomic.Int64
}

func (e *Embedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	e.documentCalls.Add(1)
	if e.Err != nil {
		return nil, e.Err
	}
	vectors := make([][]float32, len(texts))
	for i, t := range texts {
		vectors[i] = Vector(t)
	}
	return vectors, nil
}

func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	e.queryCalls.Add(1)
	if e.Err != nil {
		return nil, e.Err
	}
	return Vector(text), nil
}

func (e *Embedder) DocumentCalls() int { return int(e.documentCalls.Load()) }
func (e *Embedder) QueryCalls() int    { return int(e.queryCalls.Load()) }

// Dimensions of every vector returned by Vector.
const Dimensions = 26

func Vector(text string) []float32 {
	v := make([]float32, Dimensions)
	for _, r := range text {
		r = unicode.ToLower(r)
		if r >= 'a' && r <= 'z' {
			v[r-'a']++
		}
	}
	return v
}
