// Package tui implements the interactive terminal interface for managing
// the applications bound to each keyboard mode.
package tui

import (
	"fmt"
	"iter"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/Norgate-AV/akcfg/internal/apps"
	"github.com/Norgate-AV/akcfg/internal/logger"
)

// Screen represents the current screen
type Screen int

const (
	ScreenList Screen = iota
	ScreenRename
	ScreenPicker
)

// CandidateSource lists applications that could be added.
type CandidateSource interface {
	Candidates(excluding []*apps.Entry) iter.Seq[*apps.Entry]
}

// Options configures a Model.
type Options struct {
	Catalog      *apps.Catalog
	Scanner      CandidateSource
	Self         *apps.Entry // Excluded from scans; may be nil
	Log          logger.LoggerInterface
	RemovalDelay time.Duration           // Zero removes immediately
	CopyText     func(text string) error // Defaults to the system clipboard
}

// Messages for async operations
type candidatesMsg struct{ entries []*apps.Entry }
type finalizeMsg struct{ entries []*apps.Entry }

// activity receives catalog notifications. It is shared by every copy of
// the model, and only touched from Update.
type activity struct {
	message string
}

func (a *activity) record(e *apps.Entry, c apps.Change) {
	switch c.Field {
	case apps.FieldDisplayName:
		a.message = fmt.Sprintf("Renamed %s to %s", c.Previous, c.Current)
	case apps.FieldMode:
		a.message = fmt.Sprintf("Moved %s to %s", e.DisplayName(), c.Current)
	case apps.FieldPath:
		a.message = fmt.Sprintf("%s now starts %s", e.DisplayName(), c.Current)
	case apps.FieldPendingRemoval:
		a.message = fmt.Sprintf("Removing %s", e.DisplayName())
	}
}

// Model is the main application model
type Model struct {
	catalog      *apps.Catalog
	scanner      CandidateSource
	self         *apps.Entry
	log          logger.LoggerInterface
	removalDelay time.Duration
	copyText     func(string) error

	screen Screen
	width  int
	height int
	keys   keyMap
	help   help.Model

	cursor    int
	status    string
	statusErr bool
	activity  *activity

	input textinput.Model

	// Picker
	scanning   bool
	candidates []*apps.Entry
	matches    []*apps.Entry
	pickIndex  int
}

// New creates a new model over an already loaded catalog
func New(opts Options) Model {
	if opts.Log == nil {
		opts.Log = logger.NewNoOpLogger()
	}

	if opts.CopyText == nil {
		opts.CopyText = clipboard.WriteAll
	}

	input := textinput.New()
	input.CharLimit = 128
	input.Cursor.SetMode(cursor.CursorStatic)

	act := &activity{}
	opts.Catalog.Subscribe(act.record)

	return Model{
		catalog:      opts.Catalog,
		scanner:      opts.Scanner,
		self:         opts.Self,
		log:          opts.Log,
		removalDelay: opts.RemovalDelay,
		copyText:     opts.CopyText,
		screen:       ScreenList,
		keys:         newKeyMap(),
		help:         help.New(),
		activity:     act,
		input:        input,
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case candidatesMsg:
		m.scanning = false
		m.candidates = msg.entries
		m.applyFilter()
		m.log.Debug("Scan complete", slog.Int("candidates", len(msg.entries)))
		return m, nil

	case finalizeMsg:
		return m.finalize(msg.entries), nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch m.screen {
	case ScreenRename:
		return m.handleRenameKey(msg)
	case ScreenPicker:
		return m.handlePickerKey(msg)
	}

	return m.handleListKey(msg)
}

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	m.clearStatus()
	entries := m.catalog.Entries()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(entries)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Add):
		return m.openPicker()
	}

	e := m.selected()
	if e == nil {
		return m, nil
	}

	// A pending entry can only be removed again, after a failed finalize
	if e.PendingRemoval() {
		if key.Matches(msg, m.keys.Remove) {
			return m.remove(e)
		}

		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Mode):
		m.report(m.catalog.CycleMode(e))
	case key.Matches(msg, m.keys.Rename):
		m.screen = ScreenRename
		m.input.Placeholder = "display name"
		m.input.SetValue(e.DisplayName())
		m.input.CursorEnd()
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Remove):
		return m.remove(e)
	case key.Matches(msg, m.keys.Copy):
		if err := m.copyText(e.Path()); err != nil {
			m.setError(fmt.Errorf("could not copy to clipboard: %w", err))
		} else {
			m.setStatus("Copied " + e.Path())
		}
	}

	return m, nil
}

// remove marks e and schedules the finalize step once the pending state has
// been shown for the removal delay.
func (m Model) remove(e *apps.Entry) (Model, tea.Cmd) {
	m.catalog.MarkPendingRemoval(e)
	m.setStatus("Removing " + e.DisplayName())

	entries := []*apps.Entry{e}
	if m.removalDelay <= 0 {
		return m, func() tea.Msg { return finalizeMsg{entries: entries} }
	}

	return m, tea.Tick(m.removalDelay, func(time.Time) tea.Msg {
		return finalizeMsg{entries: entries}
	})
}

func (m Model) finalize(entries []*apps.Entry) Model {
	if err := m.catalog.Finalize(entries...); err != nil {
		m.setError(err)
	} else if len(entries) == 1 {
		m.setStatus("Removed " + entries[0].DisplayName())
	}

	// Keep the selection on the same row, or the new last row
	m.cursor = min(m.cursor, m.catalog.Len()-1)
	m.cursor = max(m.cursor, 0)
	return m
}

func (m Model) handleRenameKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.closeInput()
		return m, nil
	case key.Matches(msg, m.keys.Enter):
		name := m.input.Value()
		m.closeInput()

		if e := m.selected(); e != nil {
			m.report(m.catalog.Rename(e, name))
		}

		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) openPicker() (Model, tea.Cmd) {
	if m.scanner == nil {
		m.setError(fmt.Errorf("scanning is not available on this platform"))
		return m, nil
	}

	m.screen = ScreenPicker
	m.scanning = true
	m.candidates = nil
	m.matches = nil
	m.pickIndex = 0
	m.input.Placeholder = "type to filter"
	m.input.SetValue("")
	focus := m.input.Focus()

	// The ignore set is taken now; only the desktop is read off the UI loop
	seq := m.scanner.Candidates(m.catalog.IgnoreSet(m.self))
	scan := func() tea.Msg {
		return candidatesMsg{entries: slices.Collect(seq)}
	}

	if focus == nil {
		return m, scan
	}

	return m, tea.Batch(scan, focus)
}

func (m Model) handlePickerKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.closeInput()
		return m, nil
	case tea.KeyUp:
		if m.pickIndex > 0 {
			m.pickIndex--
		}
		return m, nil
	case tea.KeyDown:
		if m.pickIndex < len(m.matches)-1 {
			m.pickIndex++
		}
		return m, nil
	case tea.KeyEnter:
		return m.pick()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m Model) pick() (Model, tea.Cmd) {
	if m.scanning || m.pickIndex >= len(m.matches) {
		return m, nil
	}

	e := m.matches[m.pickIndex]
	m.closeInput()

	added, err := m.catalog.Add(e)
	switch {
	case err != nil:
		m.setError(err)
	case !added:
		m.setStatus(e.DisplayName() + " is already configured")
	default:
		m.cursor = 0
		m.setStatus(fmt.Sprintf("Added %s to %s", e.DisplayName(), e.Mode()))

		if err := m.catalog.LoadIcon(e); err != nil {
			m.log.Warn("Icon handle cleanup failed", slog.String("path", e.Path()), slog.Any("error", err))
		}
	}

	return m, nil
}

// candidateSource exposes candidates to the fuzzy matcher by name and path.
type candidateSource []*apps.Entry

func (s candidateSource) String(i int) string {
	return s[i].DisplayName() + " " + s[i].Path()
}

func (s candidateSource) Len() int {
	return len(s)
}

func (m *Model) applyFilter() {
	query := strings.TrimSpace(m.input.Value())

	if query == "" {
		m.matches = m.candidates
	} else {
		found := fuzzy.FindFrom(query, candidateSource(m.candidates))
		m.matches = make([]*apps.Entry, 0, len(found))
		for _, f := range found {
			m.matches = append(m.matches, m.candidates[f.Index])
		}
	}

	if m.pickIndex >= len(m.matches) {
		m.pickIndex = max(len(m.matches)-1, 0)
	}
}

func (m *Model) closeInput() {
	m.input.Blur()
	m.input.SetValue("")
	m.screen = ScreenList
}

func (m Model) selected() *apps.Entry {
	entries := m.catalog.Entries()
	if m.cursor < 0 || m.cursor >= len(entries) {
		return nil
	}

	return entries[m.cursor]
}

// report shows the outcome of a catalog mutation.
func (m *Model) report(err error) {
	if err != nil {
		m.setError(err)
		return
	}

	m.setStatus(m.activity.message)
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
	m.activity.message = ""
}

func (m *Model) setError(err error) {
	m.log.Debug("Action failed", slog.Any("error", err))
	m.status = "Error: " + err.Error()
	m.statusErr = true
	m.activity.message = ""
}

func (m *Model) clearStatus() {
	m.status = ""
	m.statusErr = false
}

func (m Model) View() string {
	switch m.screen {
	case ScreenRename:
		return m.viewRename()
	case ScreenPicker:
		return m.viewPicker()
	}

	return m.viewList()
}

func (m Model) viewList() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Adaptive keyboard applications") + "\n")
	b.WriteString(SubtitleStyle.Render(fmt.Sprintf("%d configured", m.catalog.Len())) + "\n\n")

	entries := m.catalog.Entries()
	if len(entries) == 0 {
		b.WriteString(DimStyle.Render("No applications configured. Press a to add a running one.") + "\n")
	}

	for i, e := range entries {
		b.WriteString(m.renderEntry(e, i == m.cursor) + "\n")
	}

	b.WriteString(m.renderStatus())
	b.WriteString(FooterStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m Model) renderEntry(e *apps.Entry, selected bool) string {
	cursor := "  "
	nameStyle := NormalStyle
	if selected {
		cursor = SelectedStyle.Render("> ")
		nameStyle = SelectedStyle
	}

	path := e.Path()
	if path == "" {
		path = "(no executable)"
	}

	if e.PendingRemoval() {
		return cursor + PendingStyle.Render(e.Mode().String()+" "+e.DisplayName()+" "+path)
	}

	return cursor + RenderMode(e.Mode()) + nameStyle.Render(e.DisplayName()) + " " + DimStyle.Render(path)
}

func (m Model) renderStatus() string {
	if m.status == "" {
		return ""
	}

	if m.statusErr {
		return "\n" + ErrorStyle.Render(m.status) + "\n"
	}

	return "\n" + SuccessStyle.Render(m.status) + "\n"
}

func (m Model) viewRename() string {
	var b strings.Builder
	if e := m.selected(); e != nil {
		b.WriteString(TitleStyle.Render("Rename "+e.DisplayName()) + "\n\n")
	}

	b.WriteString(BoxStyle.Render(m.input.View()) + "\n")
	b.WriteString(FooterStyle.Render(m.help.ShortHelpView([]key.Binding{m.keys.Enter, m.keys.Back})))
	return b.String()
}

func (m Model) viewPicker() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Add a running application") + "\n\n")
	b.WriteString(BoxStyle.Render(m.input.View()) + "\n\n")

	switch {
	case m.scanning:
		b.WriteString(DimStyle.Render("Scanning desktop windows...") + "\n")
	case len(m.matches) == 0:
		b.WriteString(DimStyle.Render("No matching applications") + "\n")
	}

	for i, e := range m.matches {
		cursor := "  "
		style := NormalStyle
		if i == m.pickIndex {
			cursor = SelectedStyle.Render("> ")
			style = SelectedStyle
		}

		b.WriteString(cursor + style.Render(e.DisplayName()) + " " + DimStyle.Render(e.Path()) + "\n")
	}

	b.WriteString(FooterStyle.Render(m.help.ShortHelpView([]key.Binding{m.keys.Enter, m.keys.Back})))
	return b.String()
}

// Run starts the interface on the alternate screen and blocks until it exits
func Run(opts Options) error {
	p := tea.NewProgram(New(opts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("interactive UI failed: %w", err)
	}

	return nil
}
