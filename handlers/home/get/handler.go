package get

import (
	_ "embed"
	"net/http"
)

//go:embed index.html
var page []byte

func New() Handler {
	return Handler{}
}

type Handler struct{}

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}
