package post

import (
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"strings"

	"github.com/a-h/pdfrag/apperr"
	"github.com/a-h/pdfrag/chunk"
	"github.com/a-h/pdfrag/index"
	"github.com/a-h/pdfrag/models"
	"github.com/a-h/pdfrag/pdftext"
	"github.com/a-h/respond"
	"github.com/tmc/langchaingo/embeddings"
)

const defaultMaxMemory = 32 << 20

type Option func(*Handler)

// WithTempDir sets where uploaded files are written while their text is
// extracted. The default is os.TempDir.
func WithTempDir(dir string) Option {
	return func(h *Handler) {
		h.tempDir = dir
	}
}

// WithMaxBytes limits the size of the request body.
func WithMaxBytes(n int64) Option {
	return func(h *Handler) {
		h.maxBytes = n
	}
}

func New(log *slog.Logger, splitter *chunk.Splitter, embedder embeddings.Embedder, store *index.Store, opts ...Option) Handler {
	h := Handler{
		log:      log,
		splitter: splitter,
		embedder: embedder,
		store:    store,
	}
	for _, opt := range opts {
		opt(&h)
	}
	return h
}

type Handler struct {
	log      *slog.Logger
	splitter *chunk.Splitter
	embedder embeddings.Embedder
	store    *index.Store
	tempDir  string
	maxBytes int64
}

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	}
	if err := r.ParseMultipartForm(defaultMaxMemory); err != nil {
		h.log.Error("failed to parse multipart form", slog.Any("error", err))
		respond.WithError(w, "failed to parse multipart form", http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		respond.WithError(w, "no files provided", http.StatusBadRequest)
		return
	}

	texts := make([]string, 0, len(files))
	for _, fh := range files {
		text, err := h.extract(fh)
		if err != nil {
			h.log.Error("failed to extract text", slog.String("file", fh.Filename), slog.Any("error", err))
			apperr.Write(w, err)
			return
		}
		texts = append(texts, text)
	}

	chunks := h.splitter.Split(strings.Join(texts, "\n"))
	if len(chunks) == 0 {
		h.log.Warn("no text extracted", slog.Int("files", len(files)))
		apperr.Write(w, apperr.Empty(models.NoTextExtracted))
		return
	}

	vectors, err := h.embedder.EmbedDocuments(r.Context(), chunks)
	if err != nil {
		h.log.Error("failed to embed documents", slog.Any("error", err))
		apperr.Write(w, apperr.Internal(err))
		return
	}

	snap, err := h.store.Replace(chunks, vectors)
	if err != nil {
		h.log.Error("failed to replace index", slog.Any("error", err))
		apperr.Write(w, apperr.Internal(err))
		return
	}

	h.log.Info("indexed documents", slog.Int("files", len(files)), slog.Int("chunks", snap.Len()), slog.String("index", snap.ID))
	apperr.WriteText(w, models.IndexedChunks(snap.Len()), http.StatusOK)
}

// extract copies the upload to a temporary file, which is removed before
// returning.
func (h Handler) extract(fh *multipart.FileHeader) (text string, err error) {
	src, err := fh.Open()
	if err != nil {
		return "", apperr.Internal(fmt.Errorf("failed to open upload: %w", err))
	}
	defer src.Close()

	f, err := os.CreateTemp(h.tempDir, "upload-*.pdf")
	if err != nil {
		return "", apperr.Internal(fmt.Errorf("failed to create temp file: %w", err))
	}
	defer os.Remove(f.Name())

	_, err = io.Copy(f, src)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", apperr.Internal(fmt.Errorf("failed to write temp file: %w", err))
	}

	text, err = pdftext.Extract(f.Name())
	if err != nil {
		return "", apperr.Extraction(err)
	}
	return text, nil
}
