package ui

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/todos/internal/prefs"
	"github.com/five82/todos/internal/state"
	"github.com/five82/todos/internal/todo"
	"github.com/five82/todos/internal/todoapi"
)

// focusArea is the part of the screen that receives keys.
type focusArea int

const (
	focusInput focusArea = iota
	focusList
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Engine    *todo.Engine
	APIURL    string // shown in the log overlay title
	LogPath   string
	ThemeName string
	PrefsPath string
	Logger    *slog.Logger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	engine    *todo.Engine
	store     *state.Store
	logger    *slog.Logger
	apiURL    string
	logPath   string
	prefsPath string
	keys      keyMap

	// UI state
	theme  Theme
	width  int
	height int
	ready  bool
	focus  focusArea

	// Data state
	snapshot    state.Snapshot
	notify      chan struct{}
	unsubscribe func()

	// Widgets
	input   textinput.Model
	spinner spinner.Model
	help    help.Model

	// List state
	selectedRow int
	filter      filterState

	// Overlays
	showHelp    bool
	showLog     bool
	logViewport viewport.Model
	logLines    []string
	logErr      error
}

// New creates the Bubble Tea model and subscribes it to the engine's store.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = themeOrder[0]
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	store := opts.Engine.Store()

	// Subscribers run on whichever goroutine changed the store, often inside
	// Update itself, so they only flag the change. waitForChange turns the
	// flag into a snapshotMsg.
	notify := make(chan struct{}, 1)
	unsubscribe := store.Subscribe(func(state.Snapshot) {
		select {
		case notify <- struct{}{}:
		default:
		}
	})

	snap := store.Snapshot()

	ti := textinput.New()
	ti.Placeholder = "What needs doing?"
	ti.Prompt = "> "
	ti.CharLimit = 500
	ti.SetValue(snap.Draft)
	ti.Focus()

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	m := Model{
		ctx:         ctx,
		engine:      opts.Engine,
		store:       store,
		logger:      logger,
		apiURL:      opts.APIURL,
		logPath:     opts.LogPath,
		prefsPath:   prefsPath,
		keys:        DefaultKeyMap(),
		theme:       GetTheme(themeName),
		focus:       focusInput,
		snapshot:    snap,
		notify:      notify,
		unsubscribe: unsubscribe,
		input:       ti,
		spinner:     sp,
		help:        help.New(),
		filter:      newFilterState(),
	}
	m.applyTheme()
	return m
}

// Init implements tea.Model. The first fetch-all runs here, once, when the
// program starts.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.start(m.engine.FetchAllAction()),
		waitForChange(m.ctx, m.store, m.notify),
		m.spinner.Tick,
		textinput.Blink,
		clockCmd(ClockInterval),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()
		return m, nil

	case snapshotMsg:
		m.applySnapshot(state.Snapshot(msg))
		return m, waitForChange(m.ctx, m.store, m.notify)

	case resultMsg:
		if msg.Op == todo.OpCreate && msg.OK() {
			m.input.Reset()
		}
		m.applySnapshot(m.store.Snapshot())
		return m, nil

	case logTailMsg:
		m.logLines = msg.lines
		m.logErr = msg.err
		m.updateLogViewport()
		return m, nil

	case clockMsg:
		// Only re-renders the relative sync time.
		return m, clockCmd(ClockInterval)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	// Cursor blinks and anything else the text inputs understand.
	var inputCmd, filterCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	m.filter.input, filterCmd = m.filter.input.Update(msg)
	return m, tea.Batch(inputCmd, filterCmd)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.showLog {
		return m.renderLog()
	}
	return m.renderMain()
}

// handleKey processes keyboard input. Overlays take every key; otherwise the
// focused area decides, with ctrl+c always quitting.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.showLog {
		return m.handleLogKey(msg)
	}
	if m.filter.active {
		return m.handleFilterKey(msg)
	}

	if m.focus == focusInput {
		return m.handleInputKey(msg)
	}
	return m.handleListKey(msg)
}

// handleInputKey handles keys while the draft box has focus.
func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Tab), key.Matches(msg, m.keys.Escape):
		m.setFocus(focusList)
		return m, nil

	case key.Matches(msg, m.keys.Add):
		return m, m.submit()
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		m.store.SetDraft(after)
	}
	return m, cmd
}

// handleListKey handles keys while the list has focus.
func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := m.visibleRows()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		m.setFocus(focusInput)
		return m, textinput.Blink

	case key.Matches(msg, m.keys.CycleTheme):
		m.cycleTheme()
		return m, nil

	case key.Matches(msg, m.keys.ShowLog):
		m.showLog = true
		m.updateLogViewport()
		return m, m.loadLog()

	case key.Matches(msg, m.keys.Refresh):
		return m, m.start(m.engine.FetchAllAction())

	case key.Matches(msg, m.keys.Filter):
		m.filter.open()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Escape):
		if m.filter.query != "" {
			m.filter.clear()
			m.selectedRow = 0
		}
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		if m.selectedRow < len(rows) {
			return m, m.toggle(rows[m.selectedRow].item)
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if m.selectedRow < len(rows) {
			return m, m.remove(rows[m.selectedRow].item)
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.moveSelection(1, len(rows))
	case key.Matches(msg, m.keys.Up):
		m.moveSelection(-1, len(rows))
	case key.Matches(msg, m.keys.HalfPageDown):
		m.moveSelection(max(m.listHeight()/2, 1), len(rows))
	case key.Matches(msg, m.keys.HalfPageUp):
		m.moveSelection(-max(m.listHeight()/2, 1), len(rows))
	case key.Matches(msg, m.keys.Top):
		m.selectedRow = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selectedRow = max(len(rows)-1, 0)
	}

	return m, nil
}

func (m *Model) setFocus(f focusArea) {
	m.focus = f
	if f == focusInput {
		m.input.Focus()
		return
	}
	m.input.Blur()
}

func (m *Model) cycleTheme() {
	m.theme = GetTheme(NextTheme(m.theme.Name))
	m.applyTheme()
	if err := prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name}); err != nil {
		m.logger.Warn("save preferences failed", slog.Any("error", err))
	}
}

// applyTheme pushes theme colors into the bubbles widgets.
func (m *Model) applyTheme() {
	styles := m.theme.Styles()
	m.input.PromptStyle = styles.AccentText
	m.input.TextStyle = styles.Text
	m.input.PlaceholderStyle = styles.FaintText
	m.spinner.Style = styles.AccentText
	m.filter.input.PromptStyle = styles.AccentText
	m.filter.input.TextStyle = styles.Text

	footer := styles.WithBackground(m.theme.Surface)
	m.help.Styles.ShortKey = footer.AccentText
	m.help.Styles.ShortDesc = footer.MutedText
	m.help.Styles.ShortSeparator = footer.FaintText
}

// resize fits the widgets to the window.
func (m *Model) resize() {
	m.input.Width = max(m.width-lenPrompt-addButtonWidth-2, 10)
	m.help.Width = max(m.width-2, 0)
	m.updateLogViewport()
}

// canMutate reports whether the Add and delete buttons are enabled.
func (m Model) canMutate() bool {
	return !m.snapshot.Loading
}

// submit creates a to-do from the draft. The draft is sent as typed.
func (m *Model) submit() tea.Cmd {
	if !m.canMutate() {
		return nil
	}
	return m.start(m.engine.CreateAction(m.input.Value()))
}

func (m *Model) toggle(r todoapi.Item) tea.Cmd {
	return m.start(m.engine.ToggleAction(r.ID, r.Completed))
}

func (m *Model) remove(r todoapi.Item) tea.Cmd {
	if !m.canMutate() {
		return nil
	}
	return m.start(m.engine.DeleteAction(r.ID))
}

// start begins action on the UI goroutine so the loading flag is visible in
// the very next frame, and performs the request in a command.
func (m *Model) start(action todo.Action) tea.Cmd {
	settle := m.engine.Start(m.ctx, action)
	m.applySnapshot(m.store.Snapshot())
	return func() tea.Msg {
		return resultMsg(settle())
	}
}

// applySnapshot adopts snap unless a newer one has already been seen, then
// keeps the selection on the same item where possible.
func (m *Model) applySnapshot(snap state.Snapshot) {
	if snap.Version < m.snapshot.Version {
		return
	}
	var selected todoapi.Item
	var hadSelection bool
	if rows := m.visibleRows(); m.selectedRow < len(rows) {
		selected, hadSelection = rows[m.selectedRow].item, true
	}

	m.snapshot = snap
	rows := m.visibleRows()
	if hadSelection {
		for i, r := range rows {
			if r.item.ID.Equal(selected.ID) {
				m.selectedRow = i
				return
			}
		}
	}
	if m.selectedRow >= len(rows) {
		m.selectedRow = max(len(rows)-1, 0)
	}
}

func (m *Model) moveSelection(delta, count int) {
	if count == 0 {
		m.selectedRow = 0
		return
	}
	m.selectedRow = min(max(m.selectedRow+delta, 0), count-1)
}

// renderMain renders the list screen.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderInputLine())
	b.WriteString("\n")
	b.WriteString(m.renderStatusLine())
	b.WriteString("\n")
	b.WriteString(m.renderList())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())

	return b.String()
}

// Messages

type snapshotMsg state.Snapshot

type resultMsg todo.Result

func (r resultMsg) OK() bool { return todo.Result(r).OK() }

type clockMsg time.Time

// Commands

func waitForChange(ctx context.Context, store *state.Store, notify <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case <-notify:
			return snapshotMsg(store.Snapshot())
		}
	}
}

func clockCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return clockMsg(t)
	})
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	m := New(opts)
	defer m.unsubscribe()

	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(m.ctx),
	)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
