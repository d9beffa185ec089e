package post

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/a-h/pdfrag/answer"
	"github.com/a-h/pdfrag/apperr"
	"github.com/a-h/pdfrag/index"
	"github.com/a-h/pdfrag/models"
	"github.com/a-h/pdfrag/retrieve"
	"github.com/a-h/respond"
)

func New(log *slog.Logger, store *index.Store, retriever *retrieve.Retriever, generator *answer.Generator, maxContextDocs int) Handler {
	return Handler{
		log:            log,
		store:          store,
		retriever:      retriever,
		generator:      generator,
		maxContextDocs: maxContextDocs,
	}
}

type Handler struct {
	log            *slog.Logger
	store          *index.Store
	retriever      *retrieve.Retriever
	generator      *answer.Generator
	maxContextDocs int
}

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.log.Error("failed to parse form", slog.Any("error", err))
		respond.WithError(w, "failed to parse form", http.StatusBadRequest)
		return
	}
	query := r.PostForm.Get("query")
	if strings.TrimSpace(query) == "" {
		respond.WithError(w, "query is required", http.StatusBadRequest)
		return
	}

	if h.store.Current().Len() == 0 {
		apperr.Write(w, apperr.Empty(models.NoDocumentsIndexed))
		return
	}

	results, err := h.retriever.Search(r.Context(), query, h.maxContextDocs)
	if err != nil {
		h.log.Error("failed to retrieve context", slog.Any("error", err))
		apperr.Write(w, apperr.Internal(err))
		return
	}
	h.log.Info("query context", slog.Int("results", len(results)))

	text, err := h.generator.Generate(r.Context(), query, retrieve.Texts(results))
	if err != nil {
		h.log.Error("failed to generate answer", slog.Any("error", err))
		apperr.Write(w, err)
		return
	}
	apperr.WriteText(w, text, http.StatusOK)
}
