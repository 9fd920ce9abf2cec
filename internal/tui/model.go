package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/sophistic/Quack/internal/services"
)

// Model is the terminal chat surface over a ChatService
type Model struct {
	chat *services.ChatService

	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer

	waiting bool
	pending string // optimistic user message shown while waiting
	width   int
	height  int
	ready   bool
	errText string
}

// NewModel creates the chat TUI bound to a session
func NewModel(chat *services.ChatService) Model {
	ta := textarea.New()
	ta.Placeholder = "Ask anything... (enter to send, ctrl+n for new chat)"
	ta.Focus()
	ta.Prompt = "┃ "
	ta.CharLimit = 4000
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		chat:     chat,
		textarea: ta,
		spinner:  sp,
	}
}

// Init starts cursor blinking and the spinner
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.spinner.Tick)
}

func (m *Model) submitCmd(text string) tea.Cmd {
	chat := m.chat
	return func() tea.Msg {
		resp, err := chat.Submit(context.Background(), text, "")
		return submitResultMsg{resp: resp, err: err}
	}
}

func (m *Model) newRenderer(width int) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err == nil {
		m.renderer = renderer
	}
}
