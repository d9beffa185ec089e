// Package server routes requests to the HTTP handlers.
package server

import (
	"log/slog"
	"net/http"

	"github.com/a-h/pdfrag/answer"
	"github.com/a-h/pdfrag/chunk"
	askpost "github.com/a-h/pdfrag/handlers/ask/post"
	contextpost "github.com/a-h/pdfrag/handlers/context/post"
	healthget "github.com/a-h/pdfrag/handlers/health/get"
	homeget "github.com/a-h/pdfrag/handlers/home/get"
	statusget "github.com/a-h/pdfrag/handlers/status/get"
	uploadpost "github.com/a-h/pdfrag/handlers/upload/post"
	"github.com/a-h/pdfrag/index"
	"github.com/a-h/pdfrag/retrieve"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/tmc/langchaingo/embeddings"
)

type Config struct {
	Splitter       *chunk.Splitter
	Embedder       embeddings.Embedder
	Store          *index.Store
	Generator      *answer.Generator
	MaxContextDocs int
	TempDir        string
	MaxUploadBytes int64
}

func New(log *slog.Logger, c Config) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(Logger(log))
	r.Use(middleware.Recoverer)
	r.Use(cors.AllowAll().Handler)

	r.Method(http.MethodGet, "/", homeget.New())
	r.Method(http.MethodGet, "/health", healthget.New())
	r.Method(http.MethodGet, "/status", statusget.New(log, c.Store))
	r.Method(http.MethodPost, "/upload", uploadpost.New(log, c.Splitter, c.Embedder, c.Store,
		uploadpost.WithTempDir(c.TempDir),
		uploadpost.WithMaxBytes(c.MaxUploadBytes)))
	retriever := retrieve.New(c.Embedder, c.Store)
	r.Method(http.MethodPost, "/ask", askpost.New(log, c.Store, retriever, c.Generator, c.MaxContextDocs))
	r.Method(http.MethodPost, "/context", contextpost.New(log, retriever, c.MaxContextDocs))

	return r
}
