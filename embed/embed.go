// Package embed builds the sentence embedder used to index chunks and queries.
package embed

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"
)

const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

var (
	ErrUnknownProvider = errors.New("embed: unknown provider")
	ErrCountMismatch   = errors.New("embed: embedding count differs from input count")
	ErrInvalidURL      = errors.New("embed: invalid server URL")
)

type Config struct {
	// Provider is "ollama" or "openai". Empty means ollama.
	Provider string
	// Model is all-minilm (all-MiniLM-L6-v2) on Ollama by default.
	Model     string
	OllamaURL string
	// APIKey and BaseURL configure the OpenAI-compatible provider.
	APIKey     string
	BaseURL    string
	BatchSize  int
	HTTPClient *http.Client
}

// New returns an embedder for the configured provider.
func New(cfg Config) (embeddings.Embedder, error) {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}
	var client embeddings.EmbedderClient
	switch cfg.Provider {
	case "", ProviderOllama:
		opts := []ollama.Option{
			ollama.WithModel(cfg.Model),
			ollama.WithHTTPClient(cfg.HTTPClient),
		}
		// Empty uses OLLAMA_HOST or the local default.
		if cfg.OllamaURL != "" {
			if err := validateURL(cfg.OllamaURL); err != nil {
				return nil, err
			}
			opts = append(opts, ollama.WithServerURL(cfg.OllamaURL))
		}
		ec, err := ollama.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create ollama client: %w", err)
		}
		client = ec
	case ProviderOpenAI:
		client = NewOpenAIClient(cfg.Model, cfg.BaseURL, cfg.APIKey, cfg.HTTPClient)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
	return NewEmbedder(client, cfg.BatchSize)
}

// validateURL rejects URLs that ollama.WithServerURL would exit the process on.
func validateURL(s string) error {
	u, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: %q needs a scheme and host", ErrInvalidURL, s)
	}
	return nil
}

// NewEmbedder wraps client so that every batch returns one vector per input.
// Newlines are kept, since langchaingo strips them in place.
func NewEmbedder(client embeddings.EmbedderClient, batchSize int) (embeddings.Embedder, error) {
	opts := []embeddings.Option{embeddings.WithStripNewLines(false)}
	if batchSize > 0 {
		opts = append(opts, embeddings.WithBatchSize(batchSize))
	}
	return embeddings.NewEmbedder(checked{client: client}, opts...)
}

type checked struct {
	client embeddings.EmbedderClient
}

func (c checked) CreateEmbedding(ctx context.Context, texts []string) ([][]float32, error) {
	vectors, err := c.client.CreateEmbedding(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("%w: %d texts, %d embeddings", ErrCountMismatch, len(texts), len(vectors))
	}
	return vectors, nil
}
