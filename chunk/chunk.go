// Package chunk splits text into fixed-size overlapping windows.
package chunk

import (
	"errors"
	"strings"

	"github.com/tmc/langchaingo/textsplitter"
)

const (
	DefaultWindow  = 400
	DefaultOverlap = 50
)

var (
	ErrInvalidWindow  = errors.New("chunk: window must be greater than zero")
	ErrInvalidOverlap = errors.New("chunk: overlap must be at least zero and less than the window")
)

var _ textsplitter.TextSplitter = (*Splitter)(nil)

// Splitter cuts text into windows of at most Window characters, each
// starting Window-Overlap characters after the previous one.
type Splitter struct {
	window  int
	overlap int
}

func New(window, overlap int) (*Splitter, error) {
	if window <= 0 {
		return nil, ErrInvalidWindow
	}
	if overlap < 0 || overlap >= window {
		return nil, ErrInvalidOverlap
	}
	return &Splitter{window: window, overlap: overlap}, nil
}

// Default returns a splitter with a 400 character window and 50 characters of overlap.
func Default() *Splitter {
	return &Splitter{window: DefaultWindow, overlap: DefaultOverlap}
}

func (s *Splitter) Window() int  { return s.window }
func (s *Splitter) Overlap() int { return s.overlap }

// Split returns the trimmed, non-empty windows of text.
func (s *Splitter) Split(text string) (chunks []string) {
	runes := []rune(text)
	for _, w := range s.windows(len(runes)) {
		c := strings.TrimSpace(string(runes[w.start:w.end]))
		if c == "" {
			continue
		}
		chunks = append(chunks, c)
	}
	return chunks
}

// SplitText implements textsplitter.TextSplitter.
func (s *Splitter) SplitText(text string) ([]string, error) {
	return s.Split(text), nil
}

type window struct {
	start, end int
}

// windows returns the rune offsets of each window. The last window always
// ends at n, so text no longer than the window produces a single window.
func (s *Splitter) windows(n int) (ws []window) {
	step := s.window - s.overlap
	for start := 0; start < n; start += step {
		end := min(start+s.window, n)
		ws = append(ws, window{start: start, end: end})
		if end == n {
			break
		}
	}
	return ws
}
