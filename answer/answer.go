// Package answer asks a chat model to answer a question from retrieved context.
package answer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/a-h/pdfrag/apperr"
	"github.com/tmc/langchaingo/llms"
)

const (
	DefaultSystemPrompt = "Answer using provided context."
	// DefaultUserPrompt is formatted with the context, then the question.
	DefaultUserPrompt = "Context:\n%s\n\nQuestion: %s"

	MissingCredentialMessage = "Error: GROQ_API_KEY is not set in your .env file."
)

var ErrNoChoices = errors.New("model returned no choices")

type Option func(*Generator)

func WithSystemPrompt(prompt string) Option {
	return func(g *Generator) {
		g.systemPrompt = prompt
	}
}

// WithUserPrompt sets the function that builds the user message.
func WithUserPrompt(f func(query, context string) (string, error)) Option {
	return func(g *Generator) {
		g.userPrompt = f
	}
}

func WithTemperature(t float64) Option {
	return func(g *Generator) {
		g.callOptions = append(g.callOptions, llms.WithTemperature(t))
	}
}

func WithMaxTokens(n int) Option {
	return func(g *Generator) {
		g.callOptions = append(g.callOptions, llms.WithMaxTokens(n))
	}
}

// PromptTemplate returns a user prompt function for a template with two %s
// verbs, the context and then the question.
func PromptTemplate(tmpl string) func(query, context string) (string, error) {
	return func(query, context string) (string, error) {
		s := fmt.Sprintf(tmpl, context, query)
		if strings.Contains(s, "%!") {
			return "", fmt.Errorf("invalid prompt template %q", tmpl)
		}
		return s, nil
	}
}

// New creates a Generator. A nil llm means no credential was configured, and
// every call to Generate fails with a configuration error.
func New(log *slog.Logger, llm llms.Model, opts ...Option) *Generator {
	g := &Generator{
		log:          log,
		llm:          llm,
		systemPrompt: DefaultSystemPrompt,
		userPrompt:   PromptTemplate(DefaultUserPrompt),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type Generator struct {
	log          *slog.Logger
	llm          llms.Model
	systemPrompt string
	userPrompt   func(query, context string) (string, error)
	callOptions  []llms.CallOption
}

func (g *Generator) Configured() bool {
	return g.llm != nil
}

// Generate answers query using contexts, joined by newlines, as the context block.
func (g *Generator) Generate(ctx context.Context, query string, contexts []string) (string, error) {
	if g.llm == nil {
		return "", apperr.Configuration(MissingCredentialMessage)
	}
	prompt, err := g.userPrompt(query, strings.Join(contexts, "\n"))
	if err != nil {
		return "", apperr.Internal(fmt.Errorf("failed to build prompt: %w", err))
	}
	g.log.Debug("generating answer", slog.Int("contexts", len(contexts)))
	resp, err := g.llm.GenerateContent(ctx, []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, g.systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}, g.callOptions...)
	if err != nil {
		return "", apperr.Generation(err)
	}
	if len(resp.Choices) == 0 {
		return "", apperr.Generation(ErrNoChoices)
	}
	return resp.Choices[0].Content, nil
}
