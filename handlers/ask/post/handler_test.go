package post

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/a-h/pdfrag/answer"
	"github.com/a-h/pdfrag/answer/answertest"
	"github.com/a-h/pdfrag/embed/embedtest"
	"github.com/a-h/pdfrag/index"
	"github.com/a-h/pdfrag/models"
	"github.com/a-h/pdfrag/retrieve"
	"github.com/google/go-cmp/cmp"
	"github.com/tmc/langchaingo/llms"
)

var log = slog.New(slog.NewJSONHandler(io.Discard, nil))

func newRequest(query string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(url.Values{"query": {query}}.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func newHandler(t *testing.T, chunks []string, embedder *embedtest.Embedder, llm llms.Model) Handler {
	t.Helper()
	store := index.New()
	if len(chunks) > 0 {
		vectors, _ := embedder.EmbedDocuments(context.Background(), chunks)
		if _, err := store.Replace(chunks, vectors); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	return New(log, store, retrieve.New(embedder, store), answer.New(log, llm), 2)
}

func TestHandler(t *testing.T) {
	chunks := []string{"cats purr", "dogs bark", "birds sing", "cats nap"}

	t.Run("an empty index returns a message without calling the model", func(t *testing.T) {
		embedder := &embedtest.Embedder{}
		llm := &answertest.LLM{Response: "unused"}
		h := newHandler(t, nil, embedder, llm)

		w := httptest.NewRecorder()
		h.ServeHTTP(w, newRequest("what do cats do?"))

		if w.Code != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", w.Code)
		}
		if w.Body.String() != models.NoDocumentsIndexed {
			t.Errorf("unexpected body %q", w.Body.String())
		}
		if embedder.QueryCalls() != 0 || llm.Calls() != 0 {
			t.Error("expected no embedding or model calls")
		}
	})
	t.Run("an empty index is reported before a missing credential", func(t *testing.T) {
		h := newHandler(t, nil, &embedtest.Embedder{}, nil)

		w := httptest.NewRecorder()
		h.ServeHTTP(w, newRequest("anything"))

		if w.Body.String() != models.NoDocumentsIndexed {
			t.Errorf("unexpected body %q", w.Body.String())
		}
	})
	t.Run("a missing credential is a configuration error", func(t *testing.T) {
		h := newHandler(t, chunks, &embedtest.Embedder{}, nil)

		w := httptest.NewRecorder()
		h.ServeHTTP(w, newRequest("what do cats do?"))

		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("expected status 503, got %d", w.Code)
		}
		if w.Body.String() != answer.MissingCredentialMessage {
			t.Errorf("unexpected body %q", w.Body.String())
		}
	})
	t.Run("the closest chunks are sent to the model", func(t *testing.T) {
		llm := &answertest.LLM{Response: "Cats purr and nap."}
		h := newHandler(t, chunks, &embedtest.Embedder{}, llm)

		w := httptest.NewRecorder()
		h.ServeHTTP(w, newRequest("cats"))

		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
		}
		if w.Body.String() != "Cats purr and nap." {
			t.Errorf("unexpected body %q", w.Body.String())
		}
		if ct := w.Header().Get("Content-Type"); ct != "text/plain; charset=utf-8" {
			t.Errorf("unexpected content type %q", ct)
		}
		expected := []string{
			"system: Answer using provided context.",
			"human: Context:\ncats nap\ncats purr\n\nQuestion: cats",
		}
		if diff := cmp.Diff(expected, llm.LastText()); diff != "" {
			t.Error(diff)
		}
	})
	t.Run("model failures are bad gateway errors", func(t *testing.T) {
		llm := &answertest.LLM{Err: errors.New("rate limit exceeded")}
		h := newHandler(t, chunks, &embedtest.Embedder{}, llm)

		w := httptest.NewRecorder()
		h.ServeHTTP(w, newRequest("cats"))

		if w.Code != http.StatusBadGateway {
			t.Errorf("expected status 502, got %d", w.Code)
		}
		if w.Body.String() != "Groq API Error: rate limit exceeded" {
			t.Errorf("unexpected body %q", w.Body.String())
		}
	})
	t.Run("embedding failures are internal errors", func(t *testing.T) {
		embedder := &embedtest.Embedder{}
		h := newHandler(t, chunks, embedder, &answertest.LLM{})
		embedder.Err = errors.New("ollama unavailable")

		w := httptest.NewRecorder()
		h.ServeHTTP(w, newRequest("cats"))

		if w.Code != http.StatusInternalServerError {
			t.Errorf("expected status 500, got %d", w.Code)
		}
		if !strings.HasPrefix(w.Body.String(), "Error: ") {
			t.Errorf("unexpected body %q", w.Body.String())
		}
	})
	t.Run("blank queries are rejected", func(t *testing.T) {
		h := newHandler(t, chunks, &embedtest.Embedder{}, &answertest.LLM{})

		w := httptest.NewRecorder()
		h.ServeHTTP(w, newRequest("   "))

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", w.Code)
		}
	})
}
