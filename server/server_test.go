package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/a-h/pdfrag/answer"
	"github.com/a-h/pdfrag/chunk"
	"github.com/a-h/pdfrag/embed/embedtest"
	"github.com/a-h/pdfrag/index"
	"github.com/a-h/pdfrag/models"
)

func newServer(log *slog.Logger) http.Handler {
	return New(log, Config{
		Splitter:       chunk.Default(),
		Embedder:       &embedtest.Embedder{},
		Store:          index.New(),
		Generator:      answer.New(log, nil),
		MaxContextDocs: 3,
		TempDir:        "",
	})
}

func TestRoutes(t *testing.T) {
	h := newServer(slog.New(slog.NewJSONHandler(io.Discard, nil)))

	tests := []struct {
		name           string
		method         string
		path           string
		body           io.Reader
		contentType    string
		expectedStatus int
		expectedBody   string
	}{
		{name: "home page", method: http.MethodGet, path: "/", expectedStatus: http.StatusOK},
		{name: "health", method: http.MethodGet, path: "/health", expectedStatus: http.StatusOK, expectedBody: "ok"},
		{name: "status", method: http.MethodGet, path: "/status", expectedStatus: http.StatusOK},
		{
			name:           "ask with nothing indexed",
			method:         http.MethodPost,
			path:           "/ask",
			body:           strings.NewReader(url.Values{"query": {"hello"}}.Encode()),
			contentType:    "application/x-www-form-urlencoded",
			expectedStatus: http.StatusNotFound,
			expectedBody:   models.NoDocumentsIndexed,
		},
		{name: "unknown path", method: http.MethodGet, path: "/missing", expectedStatus: http.StatusNotFound},
		{name: "wrong method", method: http.MethodGet, path: "/upload", expectedStatus: http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(tt.method, tt.path, tt.body)
			if tt.contentType != "" {
				r.Header.Set("Content-Type", tt.contentType)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)
			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if tt.expectedBody != "" && w.Body.String() != tt.expectedBody {
				t.Errorf("expected body %q, got %q", tt.expectedBody, w.Body.String())
			}
		})
	}
}

func TestCORS(t *testing.T) {
	h := newServer(slog.New(slog.NewJSONHandler(io.Discard, nil)))

	r := httptest.NewRequest(http.MethodOptions, "/ask", nil)
	r.Header.Set("Origin", "https://example.com")
	r.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("expected any origin to be allowed, got headers %v", w.Header())
	}
}

func TestRequestsAreLogged(t *testing.T) {
	var buf bytes.Buffer
	h := newServer(slog.New(slog.NewJSONHandler(&buf, nil)))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	var entry struct {
		Msg       string `json:"msg"`
		Method    string `json:"method"`
		Path      string `json:"path"`
		Status    int    `json:"status"`
		RequestID string `json:"requestId"`
	}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to decode log entry %q: %v", buf.String(), err)
	}
	if entry.Msg != "handled request" || entry.Method != http.MethodGet || entry.Path != "/health" || entry.Status != http.StatusOK {
		t.Errorf("unexpected log entry %+v", entry)
	}
	if entry.RequestID == "" {
		t.Error("expected a request ID")
	}
}
