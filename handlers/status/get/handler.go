package get

import (
	"log/slog"
	"net/http"

	"github.com/a-h/pdfrag/index"
	"github.com/a-h/pdfrag/models"
	"github.com/a-h/respond"
)

func New(log *slog.Logger, store *index.Store) Handler {
	return Handler{
		log:   log,
		store: store,
	}
}

type Handler struct {
	log   *slog.Logger
	store *index.Store
}

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var resp models.StatusGetResponse
	if snap := h.store.Current(); snap != nil {
		resp.Populated = true
		resp.Chunks = snap.Len()
		resp.Dimensions = snap.Dimensions()
		resp.IndexID = snap.ID
		resp.IndexedAt = &snap.CreatedAt
	}
	respond.WithJSON(w, resp, http.StatusOK)
}
