package post

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/a-h/pdfrag/models"
	"github.com/a-h/pdfrag/retrieve"
	"github.com/a-h/respond"
)

func New(log *slog.Logger, retriever *retrieve.Retriever, maxContextDocs int) Handler {
	return Handler{
		log:            log,
		retriever:      retriever,
		maxContextDocs: maxContextDocs,
	}
}

// Handler returns the chunks an ask would use as context, without calling the model.
type Handler struct {
	log            *slog.Logger
	retriever      *retrieve.Retriever
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

	results, err := h.retriever.Search(r.Context(), query, h.maxContextDocs)
	if err != nil {
		h.log.Error("failed to find nearest chunks", slog.Any("error", err))
		respond.WithError(w, "failed to find nearest chunks", http.StatusInternalServerError)
		return
	}

	resp := models.ContextPostResponse{
		Results: make([]models.ContextChunk, len(results)),
	}
	for i, r := range results {
		resp.Results[i] = models.ContextChunk{
			Index: r.Index,
			Text:  r.Text,
			Score: r.Score,
		}
	}
	respond.WithJSON(w, resp, http.StatusOK)
}
