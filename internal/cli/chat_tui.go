package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/anandvisw/pharmscribe-go/internal/chat"
)

var (
	userStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	assistantStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	chatDimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

type replyMsg string

type chatModel struct {
	ctx     context.Context
	session *chat.Session

	input   textinput.Model
	spinner spinner.Model
	lines   []string
	waiting bool
}

func newChatModel(ctx context.Context, session *chat.Session) chatModel {
	input := textinput.New()
	input.Placeholder = "Ask about a medication or side effect..."
	input.Focus()
	input.CharLimit = 2000
	input.Width = 80

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return chatModel{
		ctx:     ctx,
		session: session,
		input:   input,
		spinner: sp,
	}
}

func (m chatModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			if m.waiting {
				return m, nil
			}
			text := strings.TrimSpace(m.input.Value())
			if text == "" {
				return m, nil
			}
			m.lines = append(m.lines, userStyle.Render("You: ")+text)
			m.input.Reset()
			m.waiting = true
			return m, tea.Batch(m.spinner.Tick, m.sendCmd(text))
		}

	case replyMsg:
		m.waiting = false
		m.lines = append(m.lines, assistantStyle.Render("PharmScribe: ")+string(msg))
		return m, nil

	case spinner.TickMsg:
		if !m.waiting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m chatModel) sendCmd(text string) tea.Cmd {
	return func() tea.Msg {
		return replyMsg(m.session.Send(m.ctx, text))
	}
}

func (m chatModel) View() string {
	var b strings.Builder
	b.WriteString(chatDimStyle.Render("Medication-safety assistant. Esc or Ctrl+C to quit."))
	b.WriteString("\n\n")
	for _, line := range m.lines {
		b.WriteString(line)
		b.WriteString("\n")
	}
	if m.waiting {
		b.WriteString(m.spinner.View())
		b.WriteString(chatDimStyle.Render(" thinking..."))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	return b.String()
}

func runChatTUI(ctx context.Context, session *chat.Session) error {
	program := tea.NewProgram(newChatModel(ctx, session))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("chat ui: %w", err)
	}
	return nil
}
