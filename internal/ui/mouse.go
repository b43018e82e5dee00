package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// handleMouse maps clicks onto the controls drawn by renderMain. Rows and
// columns come from the fixed layout in layout.go.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		return m, nil
	}
	if m.showLog {
		var cmd tea.Cmd
		m.logViewport, cmd = m.logViewport.Update(msg)
		return m, cmd
	}
	if msg.Action != tea.MouseActionPress {
		return m, nil
	}

	rows := m.visibleRows()

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.moveSelection(-1, len(rows))
		return m, nil
	case tea.MouseButtonWheelDown:
		m.moveSelection(1, len(rows))
		return m, nil
	case tea.MouseButtonLeft:
	default:
		return m, nil
	}

	switch {
	case msg.Y == inputRow:
		if msg.X >= m.width-addButtonWidth {
			return m, m.submit()
		}
		m.setFocus(focusInput)
		return m, nil

	case msg.Y >= listTop && msg.Y < listTop+m.listHeight():
		idx := m.listOffset() + msg.Y - listTop
		if idx >= len(rows) {
			return m, nil
		}
		m.selectedRow = idx
		m.setFocus(focusList)
		if msg.X >= m.width-deleteButtonWidth {
			return m, m.remove(rows[idx].item)
		}
		return m, m.toggle(rows[idx].item)
	}

	return m, nil
}
