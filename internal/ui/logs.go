package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/todos/internal/logging"
)

// logTailMsg carries the tail of the log file.
type logTailMsg struct {
	lines []string
	err   error
}

// loadLog reads the tail of the log file off the UI goroutine.
func (m Model) loadLog() tea.Cmd {
	path := m.logPath
	return func() tea.Msg {
		lines, err := logging.Tail(path, LogTailLines)
		return logTailMsg{lines: lines, err: err}
	}
}

// updateLogViewport sizes the log viewport and refills it, scrolled to the
// newest line.
func (m *Model) updateLogViewport() {
	// One row for the title, one for the key hints.
	width, height := max(m.width, 1), max(m.height-2, 1)
	if m.logViewport.Width == 0 {
		m.logViewport = viewport.New(width, height)
	}
	m.logViewport.Width = width
	m.logViewport.Height = height
	m.logViewport.SetContent(m.renderLogContent())
	m.logViewport.GotoBottom()
}

func (m Model) renderLogContent() string {
	styles := m.theme.Styles()
	switch {
	case m.logErr != nil:
		return styles.DangerText.Render(fmt.Sprintf("Cannot read log: %v", m.logErr))
	case m.logPath == "":
		return styles.MutedText.Render("Logging to a file is disabled.")
	case len(m.logLines) == 0:
		return styles.MutedText.Render("Log is empty.")
	}

	rendered := make([]string, len(m.logLines))
	for i, line := range m.logLines {
		rendered[i] = levelStyle(line, styles).Render(line)
	}
	return strings.Join(rendered, "\n")
}

// levelStyle colors a slog text line by its level attribute.
func levelStyle(line string, styles Styles) lipgloss.Style {
	switch {
	case strings.Contains(line, "level=ERROR"):
		return styles.DangerText
	case strings.Contains(line, "level=WARN"):
		return styles.WarningText
	case strings.Contains(line, "level=DEBUG"):
		return styles.FaintText
	default:
		return styles.Text
	}
}

// renderLog renders the log overlay.
func (m Model) renderLog() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)

	title := styles.Title.Render("Log") + styles.Text.Render("  ") +
		styles.MutedText.Render(truncate(m.logPath, max(m.width-40, 10)))
	if m.apiURL != "" {
		title += styles.Text.Render("  ") + styles.FaintText.Render(m.apiURL)
	}

	hints := m.help.ShortHelpView([]key.Binding{
		key.NewBinding(key.WithKeys("j", "k"), key.WithHelp("j/k", "Scroll")),
		m.keys.Refresh,
		m.keys.Escape,
	})

	return styles.Header.Width(m.width).MaxHeight(1).Render(title) + "\n" +
		m.logViewport.View() + "\n" +
		styles.Footer.Width(m.width).MaxHeight(1).Render(hints)
}

// handleLogKey handles keys while the log overlay is shown.
func (m Model) handleLogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.ShowLog), key.Matches(msg, m.keys.Quit):
		m.showLog = false
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, m.loadLog()

	case key.Matches(msg, m.keys.Top):
		m.logViewport.GotoTop()
		return m, nil

	case key.Matches(msg, m.keys.Bottom):
		m.logViewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.logViewport, cmd = m.logViewport.Update(msg)
	return m, cmd
}
