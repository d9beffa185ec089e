package embed

import (
	"context"
	"errors"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/tmc/langchaingo/embeddings"
)

const (
	defaultAttempts = 3
	defaultDelay    = 200 * time.Millisecond
	defaultMaxDelay = 2 * time.Second
)

type RetryConfig struct {
	Attempts uint
	Delay    time.Duration
	MaxDelay time.Duration
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		Attempts: defaultAttempts,
		Delay:    defaultDelay,
		MaxDelay: defaultMaxDelay,
	}
}

func (rc RetryConfig) options(ctx context.Context) []retry.Option {
	return []retry.Option{
		retry.Context(ctx),
		retry.Attempts(rc.Attempts),
		retry.Delay(rc.Delay),
		retry.MaxDelay(rc.MaxDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(retryable),
	}
}

// Count mismatches and cancellation are not transient.
func retryable(err error) bool {
	return !errors.Is(err, context.Canceled) &&
		!errors.Is(err, context.DeadlineExceeded) &&
		!errors.Is(err, ErrCountMismatch)
}

// WithRetry retries failed embedding calls. An Attempts of 1 disables retries.
func WithRetry(e embeddings.Embedder, rc RetryConfig) embeddings.Embedder {
	if rc.Attempts <= 1 {
		return e
	}
	return retrying{next: e, config: rc}
}

type retrying struct {
	next   embeddings.Embedder
	config RetryConfig
}

func (r retrying) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	return retry.DoWithData(func() ([][]float32, error) {
		return r.next.EmbedDocuments(ctx, texts)
	}, r.config.options(ctx)...)
}

func (r retrying) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return retry.DoWithData(func() ([]float32, error) {
		return r.next.EmbedQuery(ctx, text)
	}, r.config.options(ctx)...)
}
