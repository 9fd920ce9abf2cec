package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"

	"github.com/sophistic/Quack/internal/models"
)

func newViewport(width, height int) viewport.Model {
	vp := viewport.New(width, height)
	vp.SetContent("")
	return vp
}

// View renders title bar, transcript, status line and input
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}

	title := m.chat.Model().Label
	if t := conversationTitle(m.chat.Conversations(), m.chat.Current()); t != "" {
		title = t + " · " + title
	}

	var status string
	switch {
	case m.waiting:
		status = statusStyle.Render(m.spinner.View() + " thinking...")
	case m.errText != "":
		status = errorStyle.Render("✗ " + m.errText)
	default:
		status = statusStyle.Render(fmt.Sprintf("conversation %d · %s", m.chat.Current(), m.chat.State()))
	}

	return fmt.Sprintf("%s\n%s\n%s\n%s",
		titleStyle.Render("🦆 Quack · "+title),
		m.viewport.View(),
		status,
		inputBorderStyle.Render(m.textarea.View()),
	)
}

func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	var b strings.Builder
	for _, msg := range m.chat.Messages() {
		b.WriteString(m.renderMessage(msg))
		b.WriteString("\n")
	}
	if m.pending != "" {
		b.WriteString(m.renderMessage(models.Message{Sender: models.RoleUser, Text: m.pending}))
		b.WriteString("\n")
	}

	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}

func (m *Model) renderMessage(msg models.Message) string {
	if msg.Sender == models.RoleUser {
		return userLabelStyle.Render("You") + "\n" + msg.Text + "\n"
	}

	body := msg.Text
	if m.renderer != nil {
		if rendered, err := m.renderer.Render(msg.Text); err == nil {
			body = strings.TrimRight(rendered, "\n") + "\n"
		}
	}
	return assistantLabelStyle.Render("Quack") + "\n" + body
}

func conversationTitle(convos []models.Conversation, id int64) string {
	for _, c := range convos {
		if c.ID == id {
			return c.Title
		}
	}
	return ""
}
