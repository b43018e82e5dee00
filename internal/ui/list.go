package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/five82/todos/internal/todoapi"
)

// filterState is the "/" list filter. It narrows what is displayed and never
// touches the store.
type filterState struct {
	active bool // the filter input has focus
	query  string
	input  textinput.Model
}

func newFilterState() filterState {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "filter to-dos"
	ti.CharLimit = 100
	return filterState{input: ti}
}

func (f *filterState) open() {
	f.active = true
	f.input.SetValue(f.query)
	f.input.CursorEnd()
	f.input.Focus()
}

func (f *filterState) clear() {
	f.active = false
	f.query = ""
	f.input.SetValue("")
	f.input.Blur()
}

// handleFilterKey handles keys while the filter input has focus. The list
// narrows as the query is typed.
func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.filter.clear()
		m.selectedRow = 0
		return m, nil

	case msg.Type == tea.KeyEnter:
		m.filter.active = false
		m.filter.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.filter.input, cmd = m.filter.input.Update(msg)
	if q := strings.TrimSpace(m.filter.input.Value()); q != m.filter.query {
		m.filter.query = q
		m.selectedRow = 0
	}
	return m, cmd
}

// titleSource adapts items to fuzzy.Source.
type titleSource []todoapi.Item

func (s titleSource) String(i int) string { return s[i].Title }
func (s titleSource) Len() int            { return len(s) }

// row is one displayed list entry.
type row struct {
	item todoapi.Item
}

// visibleRows returns the items to display, in server order.
func (m Model) visibleRows() []row {
	items := m.snapshot.Items
	if m.filter.query == "" {
		rows := make([]row, len(items))
		for i, item := range items {
			rows[i] = row{item: item}
		}
		return rows
	}

	matches := fuzzy.FindFrom(m.filter.query, titleSource(items))
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Index < matches[j].Index
	})
	rows := make([]row, len(matches))
	for i, match := range matches {
		rows[i] = row{item: items[match.Index]}
	}
	return rows
}

// listHeight is the number of rows available to the list.
func (m Model) listHeight() int {
	return max(m.height-listTop-1, 1)
}

// listOffset is the index of the first displayed row; the selection is
// always kept on screen.
func (m Model) listOffset() int {
	h := m.listHeight()
	if m.selectedRow >= h {
		return m.selectedRow - h + 1
	}
	return 0
}

// counts returns the total and completed item counts.
func (m Model) counts() (total, done int) {
	for _, item := range m.snapshot.Items {
		if item.Completed {
			done++
		}
	}
	return len(m.snapshot.Items), done
}

// renderList renders exactly listHeight lines.
func (m Model) renderList() string {
	styles := m.theme.Styles()
	height := m.listHeight()
	rows := m.visibleRows()

	lines := make([]string, 0, height)
	switch {
	case len(rows) == 0 && m.filter.query != "":
		lines = append(lines, styles.MutedText.Render(fmt.Sprintf("  No to-dos match %q", m.filter.query)))
	case len(rows) == 0 && !m.snapshot.Loading:
		lines = append(lines, styles.MutedText.Render("  Nothing to do."))
	}

	offset := m.listOffset()
	for i := offset; i < len(rows) && len(lines) < height; i++ {
		lines = append(lines, m.renderRow(rows[i].item, i == m.selectedRow && m.focus == focusList))
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// renderRow renders one entry: cursor, checkbox, title, delete button. The
// delete button always ends at the right edge so clicks can be mapped by
// column.
func (m Model) renderRow(item todoapi.Item, selected bool) string {
	styles := m.theme.Styles()
	if selected {
		styles = styles.WithBackground(m.theme.SelectionBg)
	}

	cursor := "  "
	if selected {
		cursor = "› "
	}
	checkbox := "[ ] "
	if item.Completed {
		checkbox = "[✓] "
	}

	titleWidth := max(m.width-cursorWidth-checkboxWidth-1-deleteButtonWidth, 1)
	title := truncate(item.Title, titleWidth)
	titleStyle := styles.Text
	if item.Completed {
		titleStyle = styles.Done
	}
	boxStyle := styles.MutedText
	if item.Completed {
		boxStyle = styles.SuccessText
	}
	deleteStyle := styles.DeleteButton
	if !m.canMutate() {
		deleteStyle = styles.ButtonDisabled
	}

	pad := max(titleWidth-lipgloss.Width(title), 0)
	return styles.AccentText.Render(cursor) +
		boxStyle.Render(checkbox) +
		titleStyle.Render(title) +
		styles.Text.Render(strings.Repeat(" ", pad+1)) +
		deleteStyle.Render(deleteButtonLabel)
}
