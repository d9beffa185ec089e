package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/a-h/pdfrag/client"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

type ChatCommand struct {
	ServerURL string `help:"The URL of the PDF RAG server." env:"PDFRAG_URL" default:"http://localhost:8000"`
}

func (c ChatCommand) Run(ctx context.Context) (err error) {
	ask := func(ctx context.Context, q string) (string, error) {
		return client.New(c.ServerURL).Ask(ctx, q)
	}
	p := tea.NewProgram(newModel(ctx, ask), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}

// Dracula color scheme.
var (
	Background  = lipgloss.Color("#282a36")
	CurrentLine = lipgloss.Color("#44475a")
	Comment     = lipgloss.Color("#6272a4")
	Cyan        = lipgloss.Color("#8be9fd")
	Pink        = lipgloss.Color("#ff79c6")
	Purple      = lipgloss.Color("#bd93f9")
	Red         = lipgloss.Color("#ff5555")
)

var headerStyle = lipgloss.NewStyle().Background(CurrentLine).Foreground(Purple).Bold(true).Padding(1)

const header = "Ask questions about the uploaded PDFs. Press esc to quit."

type role int

const (
	roleUser role = iota
	roleBot
	roleError
	rolePending
)

type message struct {
	role    role
	content string
}

var roleStyles = map[role]lipgloss.Style{
	roleUser:    lipgloss.NewStyle().Padding(1).Margin(1).MarginBottom(0).Background(Background).Foreground(Pink),
	roleBot:     lipgloss.NewStyle().Padding(1).Margin(1).MarginBottom(0).Background(Background).Foreground(Cyan),
	roleError:   lipgloss.NewStyle().Padding(1).Margin(1).MarginBottom(0).Background(Background).Foreground(Red),
	rolePending: lipgloss.NewStyle().Padding(1).Margin(1).MarginBottom(0).Foreground(Comment).Italic(true),
}

var roleIcons = map[role]string{
	roleUser:    "🥷",
	roleBot:     "✨",
	roleError:   "⚠️",
	rolePending: "…",
}

func formatMessage(msg message) string {
	wrapped := wordwrap.String(strings.TrimSpace(roleIcons[msg.role]+" "+msg.content), 80)
	return roleStyles[msg.role].Render(wrapped)
}

// answerMsg is the reply to the question at index.
type answerMsg struct {
	index int
	text  string
	err   error
}

type askFunc func(ctx context.Context, query string) (string, error)

type model struct {
	ctx      context.Context
	ask      askFunc
	viewport viewport.Model
	textarea textarea.Model
	messages []message
}

func newModel(ctx context.Context, ask askFunc) model {
	ta := textarea.New()
	ta.Placeholder = "Ask a question..."
	ta.Focus()
	ta.Prompt = "┃ "
	ta.CharLimit = 500
	ta.SetHeight(3)
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.ShowLineNumbers = false
	ta.KeyMap.InsertNewline.SetEnabled(false)

	vp := viewport.New(80, 20)
	vp.SetContent(headerStyle.Render(header))

	return model{
		ctx:      ctx,
		ask:      ask,
		textarea: ta,
		viewport: vp,
	}
}

func (m model) Init() tea.Cmd {
	return textarea.Blink
}

func (m model) send(index int, query string) tea.Cmd {
	return func() tea.Msg {
		text, err := m.ask(m.ctx, query)
		return answerMsg{index: index, text: text, err: err}
	}
}

func (m *model) render() {
	var sb strings.Builder
	sb.WriteString(headerStyle.Render(header))
	sb.WriteString("\n")
	for _, msg := range m.messages {
		sb.WriteString(formatMessage(msg))
		sb.WriteString("\n")
	}
	m.viewport.SetContent(sb.String())
	m.viewport.GotoBottom()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case answerMsg:
		// The server's message is shown for errors it explains, such as an empty index.
		reply := message{role: roleBot, content: msg.text}
		if msg.err != nil {
			reply.role = roleError
			if reply.content == "" {
				reply.content = msg.err.Error()
			}
		}
		m.messages[msg.index] = reply
		m.render()
		return m, nil
	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - m.textarea.Height() - 3
		m.textarea.SetWidth(msg.Width)
		m.render()
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "ctrl+c":
			return m, tea.Quit
		case "enter":
			q := strings.TrimSpace(m.textarea.Value())
			if q == "" {
				return m, nil
			}
			m.textarea.Reset()
			m.messages = append(m.messages,
				message{role: roleUser, content: q},
				message{role: rolePending, content: "thinking"})
			m.render()
			return m, m.send(len(m.messages)-1, q)
		default:
			var cmd tea.Cmd
			m.textarea, cmd = m.textarea.Update(msg)
			return m, cmd
		}
	case cursor.BlinkMsg:
		var cmd tea.Cmd
		m.textarea, cmd = m.textarea.Update(msg)
		return m, cmd
	default:
		return m, nil
	}
}

func (m model) View() string {
	return fmt.Sprintf("%s\n\n%s",
		m.viewport.View(),
		m.textarea.View(),
	) + "\n\n"
}
