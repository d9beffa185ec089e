package main

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"
)

func TestChatModel(t *testing.T) {
	tests := []struct {
		name     string
		answer   string
		err      error
		expected []message
	}{
		{
			name:   "answers replace the pending message",
			answer: "Forty two.",
			expected: []message{
				{role: roleUser, content: "What is the answer?"},
				{role: roleBot, content: "Forty two."},
			},
		},
		{
			name:   "server messages are shown for errors",
			answer: "No documents indexed yet. Upload PDFs first.",
			err:    errors.New("status 404"),
			expected: []message{
				{role: roleUser, content: "What is the answer?"},
				{role: roleError, content: "No documents indexed yet. Upload PDFs first."},
			},
		},
		{
			name: "errors without a message are shown",
			err:  errors.New("connection refused"),
			expected: []message{
				{role: roleUser, content: "What is the answer?"},
				{role: roleError, content: "connection refused"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var asked string
			ask := func(ctx context.Context, q string) (string, error) {
				asked = q
				return tt.answer, tt.err
			}
			m := newModel(context.Background(), ask)
			m.textarea.SetValue("  What is the answer?  ")

			updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
			if cmd == nil {
				t.Fatal("expected a command to ask the question")
			}
			pending := updated.(model)
			if len(pending.messages) != 2 || pending.messages[1].role != rolePending {
				t.Fatalf("expected a pending message, got %+v", pending.messages)
			}
			if pending.textarea.Value() != "" {
				t.Error("expected the input to be cleared")
			}

			updated, _ = pending.Update(cmd())
			if asked != "What is the answer?" {
				t.Errorf("unexpected question %q", asked)
			}
			if diff := cmp.Diff(tt.expected, updated.(model).messages, cmp.AllowUnexported(message{})); diff != "" {
				t.Error(diff)
			}
		})
	}
}

func TestChatModelIgnoresBlankInput(t *testing.T) {
	m := newModel(context.Background(), func(ctx context.Context, q string) (string, error) {
		t.Error("unexpected call")
		return "", nil
	})
	m.textarea.SetValue("   ")
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("expected no command")
	}
	if len(updated.(model).messages) != 0 {
		t.Error("expected no messages")
	}
}
