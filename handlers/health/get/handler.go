package get

import (
	"net/http"

	"github.com/a-h/pdfrag/apperr"
)

func New() Handler {
	return Handler{}
}

type Handler struct{}

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	apperr.WriteText(w, "ok", http.StatusOK)
}
