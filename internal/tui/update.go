package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Update handles input, submit results and resizes
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		taCmd tea.Cmd
		vpCmd tea.Cmd
		spCmd tea.Cmd
	)

	m.textarea, taCmd = m.textarea.Update(msg)
	m.viewport, vpCmd = m.viewport.Update(msg)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyCtrlN:
			if !m.waiting {
				m.chat.StartNew()
				m.errText = ""
				m.refreshViewport()
			}
			return m, nil
		case tea.KeyEnter:
			text := strings.TrimSpace(m.textarea.Value())
			if text == "" || m.waiting {
				return m, nil
			}
			m.textarea.Reset()
			m.waiting = true
			m.pending = text
			m.errText = ""
			m.refreshViewport()
			return m, tea.Batch(m.submitCmd(text), m.spinner.Tick)
		}

	case submitResultMsg:
		m.waiting = false
		m.pending = ""
		if msg.err != nil {
			m.errText = msg.err.Error()
		} else if msg.resp != nil && msg.resp.Failed {
			m.errText = "request failed, see reply"
		}
		m.refreshViewport()
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		headerHeight := 1
		footerHeight := m.textarea.Height() + 3
		if !m.ready {
			m.viewport = newViewport(msg.Width, msg.Height-headerHeight-footerHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - headerHeight - footerHeight
		}
		m.textarea.SetWidth(msg.Width - 4)
		m.newRenderer(msg.Width - 2)
		m.refreshViewport()
		return m, nil
	}

	if m.waiting {
		var sp tea.Cmd
		m.spinner, sp = m.spinner.Update(msg)
		spCmd = sp
	}

	return m, tea.Batch(taCmd, vpCmd, spCmd)
}
