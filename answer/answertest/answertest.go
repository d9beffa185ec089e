// Package answertest provides a fake chat model.
package answertest

import (
	"context"
	"strings"
	"sync"

	"github.com/tmc/langchaingo/llms"
)

var _ llms.Model = (*LLM)(nil)

// LLM returns a fixed response and records the messages it was sent.
type LLM struct {
	// Response is the text of the single choice returned.
	Response string
	// Err, if set, is returned instead of a response.
	Err error
	// NoChoices makes the response empty.
	NoChoices bool

	m        sync.Mutex
	messages [][]llms.MessageContent
}

func (l *LLM) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	l.m.Lock()
	l.messages = append(l.messages, messages)
	l.m.Unlock()
	if l.Err != nil {
		return nil, l.Err
	}
	if l.NoChoices {
		return &llms.ContentResponse{}, nil
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: l.Response}},
	}, nil
}

func (l *LLM) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, l, prompt, options...)
}

func (l *LLM) Calls() int {
	l.m.Lock()
	defer l.m.Unlock()
	return len(l.messages)
}

// LastText returns the text of each message in the most recent call.
func (l *LLM) LastText() []string {
	l.m.Lock()
	defer l.m.Unlock()
	if len(l.messages) == 0 {
		return nil
	}
	var texts []string
	for _, msg := range l.messages[len(l.messages)-1] {
		var sb strings.Builder
		for _, p := range msg.Parts {
			if tc, ok := p.(llms.TextContent); ok {
				sb.WriteString(tc.Text)
			}
		}
		texts = append(texts, string(msg.Role)+": "+sb.String())
	}
	return texts
}
