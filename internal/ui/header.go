package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// renderHeader renders the title bar: title and counts on the left, sync
// time on the right.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)

	total, done := m.counts()
	left := styles.Title.Render("To-do List") +
		styles.Text.Render("  ") +
		styles.MutedText.Render(fmt.Sprintf("%d %s · %d done", total, plural(total, "item", "items"), done))
	if m.filter.query != "" {
		left += styles.Text.Render("  ") + styles.AccentText.Render("/"+truncate(m.filter.query, 20))
	}

	right := ""
	if m.width >= LayoutCompactWidth {
		if m.snapshot.LastSynced.IsZero() {
			right = styles.FaintText.Render("not synced")
		} else {
			right = styles.FaintText.Render("synced " + humanize.Time(m.snapshot.LastSynced))
		}
	}

	// Header has one cell of padding on each side.
	gap := max(m.width-2-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return styles.Header.Width(m.width).MaxHeight(1).Render(left + styles.Text.Render(strings.Repeat(" ", gap)) + right)
}

// renderInputLine renders the draft box with the Add button at the right
// edge.
func (m Model) renderInputLine() string {
	styles := m.theme.Styles()

	button := styles.Button.Render(addButtonLabel)
	if !m.canMutate() {
		button = styles.ButtonDisabled.Render(addButtonLabel)
	}

	field := m.input.View()
	gap := max(m.width-lipgloss.Width(field)-addButtonWidth, 1)
	return field + strings.Repeat(" ", gap) + button
}

// renderStatusLine shows the spinner while loading, otherwise the current
// error message, otherwise nothing.
func (m Model) renderStatusLine() string {
	styles := m.theme.Styles()
	switch {
	case m.snapshot.Loading:
		return m.spinner.View() + styles.MutedText.Render(" Loading...")
	case m.snapshot.HasError():
		return styles.DangerText.Render(m.snapshot.Error)
	default:
		return ""
	}
}

// renderCommandBar renders the key hints for the focused area, or the filter
// input while it is being typed.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	if m.filter.active {
		return styles.Footer.Width(m.width).MaxHeight(1).Render(m.filter.input.View())
	}

	var bindings []key.Binding
	if m.focus == focusInput {
		bindings = []key.Binding{m.keys.Add, m.keys.Tab, m.keys.ForceQuit}
	} else {
		theme := key.NewBinding(
			key.WithKeys(m.keys.CycleTheme.Keys()...),
			key.WithHelp(m.keys.CycleTheme.Help().Key, m.theme.Name),
		)
		bindings = []key.Binding{
			m.keys.Toggle, m.keys.Delete, m.keys.Refresh, m.keys.Filter,
			m.keys.Tab, m.keys.ShowLog, theme, m.keys.Help, m.keys.Quit,
		}
	}
	return styles.Footer.Width(m.width).MaxHeight(1).Render(m.help.ShortHelpView(bindings))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
