// Package index holds the in-memory chunk index searched by the retriever.
package index

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmpty             = errors.New("index: no chunks")
	ErrLengthMismatch    = errors.New("index: chunk and embedding counts differ")
	ErrDimensionMismatch = errors.New("index: embeddings have different dimensions")
)

// Snapshot is one immutable generation of the index.
type Snapshot struct {
	ID         string
	CreatedAt  time.Time
	Chunks     []string
	Embeddings [][]float32
}

func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Chunks)
}

// Dimensions is the width of every embedding in the snapshot.
func (s *Snapshot) Dimensions() int {
	if s.Len() == 0 {
		return 0
	}
	return len(s.Embeddings[0])
}

type Result struct {
	Index int
	Text  string
	Score float64
}

// Search scores every chunk by cosine similarity to query and returns the
// best k, highest first. Equal scores keep their index order.
func (s *Snapshot) Search(query []float32, k int) []Result {
	if k <= 0 || s.Len() == 0 {
		return nil
	}
	results := make([]Result, len(s.Chunks))
	for i, e := range s.Embeddings {
		results[i] = Result{Index: i, Text: s.Chunks[i], Score: Cosine(query, e)}
	}
	slices.SortStableFunc(results, func(a, b Result) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return results[:min(k, len(results))]
}

// Cosine returns the cosine similarity of a and b, or 0 if either is a zero
// vector or their lengths differ.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// Store owns the current snapshot. Replace swaps in a complete snapshot, so
// readers never see chunks paired with another generation's embeddings.
type Store struct {
	current atomic.Pointer[Snapshot]
	now     func() time.Time
}

func New() *Store {
	return &Store{now: time.Now}
}

// Current returns the current snapshot, or nil if nothing has been indexed.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Replace discards the current snapshot and indexes chunks in its place.
func (s *Store) Replace(chunks []string, embeddings [][]float32) (*Snapshot, error) {
	if len(chunks) == 0 {
		return nil, ErrEmpty
	}
	if len(chunks) != len(embeddings) {
		return nil, fmt.Errorf("%w: %d chunks, %d embeddings", ErrLengthMismatch, len(chunks), len(embeddings))
	}
	dims := len(embeddings[0])
	for i, e := range embeddings {
		if len(e) != dims || dims == 0 {
			return nil, fmt.Errorf("%w: embedding %d has %d dimensions, expected %d", ErrDimensionMismatch, i, len(e), dims)
		}
	}
	snap := &Snapshot{
		ID:         uuid.NewString(),
		CreatedAt:  s.now(),
		Chunks:     slices.Clone(chunks),
		Embeddings: slices.Clone(embeddings),
	}
	s.current.Store(snap)
	return snap, nil
}
