package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/a-h/pdfrag/answer"
	"github.com/a-h/pdfrag/chunk"
	"github.com/a-h/pdfrag/embed"
	"github.com/a-h/pdfrag/index"
	"github.com/a-h/pdfrag/server"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

type ServeCommand struct {
	GroqAPIKey         string        `help:"The Groq API key. Questions fail with a configuration error when unset." env:"GROQ_API_KEY,GROK_API_KEY" default:""`
	GroqBaseURL        string        `help:"The OpenAI compatible base URL of the chat completion API." env:"GROQ_BASE_URL" default:"https://api.groq.com/openai/v1"`
	ChatModel          string        `help:"The model to answer questions with." env:"CHAT_MODEL" default:"llama-3.3-70b-versatile"`
	Temperature        float64       `help:"The sampling temperature. Negative values use the model default." env:"TEMPERATURE" default:"-1"`
	MaxTokens          int           `help:"The maximum length of an answer. Zero uses the model default." env:"MAX_TOKENS" default:"0"`
	EmbeddingProvider  string        `help:"The embedding provider, ollama or openai." env:"EMBEDDING_PROVIDER" default:"ollama" enum:"ollama,openai"`
	EmbeddingModel     string        `help:"The model to use for embeddings." env:"EMBEDDING_MODEL" default:"all-minilm"`
	OllamaURL          string        `help:"The URL of the Ollama server." env:"OLLAMA_URL" default:"http://127.0.0.1:11434/"`
	EmbeddingAPIKey    string        `help:"The API key of the openai embedding provider." env:"EMBEDDING_API_KEY" default:""`
	EmbeddingBaseURL   string        `help:"The base URL of the openai embedding provider." env:"EMBEDDING_BASE_URL" default:""`
	EmbedRetryAttempts uint          `help:"The number of attempts made to embed text." env:"EMBED_RETRY_ATTEMPTS" default:"3"`
	QueryCacheTTL      time.Duration `help:"How long query embeddings are cached. Zero disables the cache." env:"QUERY_CACHE_TTL" default:"10m"`
	ChunkSize          int           `help:"The number of characters in each chunk." env:"CHUNK_SIZE" default:"400"`
	ChunkOverlap       int           `help:"The number of characters shared by adjacent chunks." env:"CHUNK_OVERLAP" default:"50"`
	MaxContextDocs     int           `help:"The maximum number of chunks used to answer a question." env:"MAX_CONTEXT_DOCS" default:"3"`
	SystemPrompt       string        `help:"A file containing the system prompt to use." env:"SYSTEM_PROMPT" default:""`
	UserPrompt         string        `help:"A file containing the user prompt template to use." env:"USER_PROMPT" default:""`
	ListenAddr         string        `help:"The address to listen on." env:"LISTEN_ADDR" default:"localhost:8000"`
	TempDir            string        `help:"The directory uploads are written to while text is extracted." env:"TEMP_DIR" default:""`
	MaxUploadBytes     int64         `help:"The maximum size of an upload request." env:"MAX_UPLOAD_BYTES" default:"104857600"`
	TLSCertFile        string        `help:"The TLS certificate file." env:"TLS_CERT_FILE" default:""`
	TLSKeyFile         string        `help:"The TLS key file." env:"TLS_KEY_FILE" default:""`
	LogLevel           string        `help:"The log level to use." env:"LOG_LEVEL" default:"info"`
}

func readFileOrDefault(filename, defaultContent string) (string, error) {
	if filename == "" {
		return defaultContent, nil
	}
	contents, err := os.ReadFile(filename)
	if err != nil {
		return "", fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return string(contents), nil
}

func (c ServeCommand) Run(ctx context.Context) (err error) {
	log := getLogger(c.LogLevel)

	splitter, err := chunk.New(c.ChunkSize, c.ChunkOverlap)
	if err != nil {
		return fmt.Errorf("invalid chunk settings: %w", err)
	}
	if c.MaxContextDocs < 1 {
		return fmt.Errorf("max context docs must be at least 1, got %d", c.MaxContextDocs)
	}

	generator, err := c.generator(log)
	if err != nil {
		return err
	}

	log.Info("creating embedder", slog.String("provider", c.EmbeddingProvider), slog.String("model", c.EmbeddingModel))
	httpClient := &http.Client{}
	emb, err := embed.New(embed.Config{
		Provider:   c.EmbeddingProvider,
		Model:      c.EmbeddingModel,
		OllamaURL:  c.OllamaURL,
		APIKey:     c.EmbeddingAPIKey,
		BaseURL:    c.EmbeddingBaseURL,
		HTTPClient: httpClient,
	})
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}
	rc := embed.DefaultRetryConfig()
	rc.Attempts = c.EmbedRetryAttempts
	emb = embed.WithQueryCache(embed.WithRetry(emb, rc), c.QueryCacheTTL)

	h := server.New(log, server.Config{
		Splitter:       splitter,
		Embedder:       emb,
		Store:          index.New(),
		Generator:      generator,
		MaxContextDocs: c.MaxContextDocs,
		TempDir:        c.TempDir,
		MaxUploadBytes: c.MaxUploadBytes,
	})

	s := &http.Server{
		Addr:              c.ListenAddr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			log.Error("failed to shut down", slog.Any("error", err))
		}
	}()

	log.Info("Listening", slog.String("addr", c.ListenAddr))
	if c.TLSCertFile != "" && c.TLSKeyFile != "" {
		log.Info("Enabling TLS mode")
		var cert tls.Certificate
		cert, err = tls.LoadX509KeyPair(c.TLSCertFile, c.TLSKeyFile)
		if err != nil {
			return fmt.Errorf("failed to load cert: %w", err)
		}
		s.TLSConfig = &tls.Config{
			MinVersion:   tls.VersionTLS12,
			Certificates: []tls.Certificate{cert},
		}
		err = s.ListenAndServeTLS(c.TLSCertFile, c.TLSKeyFile)
	} else {
		err = s.ListenAndServe()
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (c ServeCommand) generator(log *slog.Logger) (*answer.Generator, error) {
	systemPrompt, err := readFileOrDefault(c.SystemPrompt, answer.DefaultSystemPrompt)
	if err != nil {
		return nil, fmt.Errorf("failed to read system prompt: %w", err)
	}
	userPrompt, err := readFileOrDefault(c.UserPrompt, answer.DefaultUserPrompt)
	if err != nil {
		return nil, fmt.Errorf("failed to read user prompt: %w", err)
	}
	pf := answer.PromptTemplate(userPrompt)
	if _, err = pf("hello", "world"); err != nil {
		return nil, fmt.Errorf("invalid prompt template: %w", err)
	}
	opts := []answer.Option{
		answer.WithSystemPrompt(systemPrompt),
		answer.WithUserPrompt(pf),
	}
	if c.Temperature >= 0 {
		opts = append(opts, answer.WithTemperature(c.Temperature))
	}
	if c.MaxTokens > 0 {
		opts = append(opts, answer.WithMaxTokens(c.MaxTokens))
	}

	var llm llms.Model
	if c.GroqAPIKey != "" {
		log.Info("Groq API key loaded", slog.String("model", c.ChatModel))
		llm, err = openai.New(
			openai.WithToken(c.GroqAPIKey),
			openai.WithBaseURL(c.GroqBaseURL),
			openai.WithModel(c.ChatModel),
			openai.WithHTTPClient(&http.Client{}))
		if err != nil {
			return nil, fmt.Errorf("failed to create LLM: %w", err)
		}
	} else {
		log.Warn("GROQ_API_KEY is not set, questions will not be answered")
	}
	return answer.New(log, llm, opts...), nil
}
