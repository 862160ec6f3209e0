// Package tui is the terminal view of the portfolio table.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/smilewilson1999/Eggregator/internal/domain"
	"github.com/smilewilson1999/Eggregator/internal/grid"
)

const refreshTimeout = 30 * time.Second

// Refresher rebuilds the portfolio snapshot on demand.
type Refresher interface {
	Refresh(ctx context.Context) (domain.Snapshot, error)
}

type snapshotMsg struct {
	snapshot domain.Snapshot
}

type refreshErrMsg struct {
	err error
}

type actionMsg struct {
	label string
	err   error
}

type updatesClosedMsg struct{}

var columnWidths = map[string]int{
	grid.ColumnAsset:   10,
	grid.ColumnAmount:  16,
	grid.ColumnPrice:   16,
	grid.ColumnTotal:   18,
	grid.ColumnSource:  12,
	grid.ColumnActions: 5,
}

// Options configures the model.
type Options struct {
	Refresher Refresher
	Updates   <-chan domain.Snapshot
	Opener    grid.Opener
	PageSize  int
	Logger    *zap.Logger
}

// Model is the bubbletea model of the portfolio table.
type Model struct {
	grid  *grid.Table
	table table.Model
	input textinput.Model
	help  help.Model
	keys  keyMap

	refresher Refresher
	updates   <-chan domain.Snapshot
	open      grid.Opener
	logger    *zap.Logger

	page       []grid.Row
	filtering  bool
	choosing   bool
	refreshing bool
	status     string
	failed     bool
	updated    time.Time
	width      int
}

// New creates the model with an empty table.
func New(opts Options) *Model {
	g := grid.New(nil)
	if opts.PageSize > 0 {
		g.SetPageSize(opts.PageSize)
	}
	if opts.Opener == nil {
		opts.Opener = grid.BrowserOpener
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	input := textinput.New()
	input.Placeholder = "Filter exchanges..."
	input.Prompt = "/ "
	input.CharLimit = 64

	t := table.New(
		table.WithFocused(true),
		table.WithHeight(g.Pagination.PageSize+2),
		table.WithStyles(tableStyles()),
	)

	m := &Model{
		grid:      g,
		table:     t,
		input:     input,
		help:      help.New(),
		keys:      defaultKeyMap(),
		refresher: opts.Refresher,
		updates:   opts.Updates,
		open:      opts.Opener,
		logger:    opts.Logger,
	}
	m.rebuild()
	return m
}

// Init starts listening for published snapshots and requests a refresh.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.waitForSnapshot(), m.refresh())
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.table.SetWidth(msg.Width - 4)
		return m, nil

	case snapshotMsg:
		m.apply(msg.snapshot)
		if m.updates != nil {
			return m, m.waitForSnapshot()
		}
		return m, nil

	case refreshErrMsg:
		m.refreshing = false
		m.setStatus("Refresh failed: "+msg.err.Error(), true)
		return m, nil

	case updatesClosedMsg:
		m.updates = nil
		return m, nil

	case actionMsg:
		if msg.err != nil {
			m.logger.Warn("failed to open action", zap.String("action", msg.label), zap.Error(msg.err))
			m.setStatus(msg.err.Error(), true)
		} else {
			m.setStatus("Opened "+msg.label, false)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case m.filtering:
			return m.updateFilter(msg)
		case m.choosing:
			return m.updateVisibility(msg)
		}
		return m.updateTable(msg)
	}

	return m, nil
}

func (m *Model) updateTable(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := msg.String()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Sort):
		m.toggleSort(columnSlot(s, sortKeys), false)
	case key.Matches(msg, m.keys.MultiSort):
		m.toggleSort(columnSlot(s, multiSortKeys), true)
	case key.Matches(msg, m.keys.Filter):
		m.filtering = true
		m.input.SetValue(m.grid.Filter(grid.FilterColumn))
		m.input.CursorEnd()
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Visibility):
		m.choosing = true
	case key.Matches(msg, m.keys.NextPage):
		m.grid.NextPage()
		m.rebuild()
	case key.Matches(msg, m.keys.PrevPage):
		m.grid.PreviousPage()
		m.rebuild()
	case key.Matches(msg, m.keys.Select):
		if row, ok := m.cursorRow(); ok {
			m.grid.ToggleSelected(row.ID)
			m.rebuild()
		}
	case key.Matches(msg, m.keys.Trade):
		return m, m.openAction(grid.ActionTrade)
	case key.Matches(msg, m.keys.Info):
		return m, m.openAction(grid.ActionInfo)
	case key.Matches(msg, m.keys.Refresh):
		return m, m.refresh()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm), key.Matches(msg, m.keys.Cancel):
		m.filtering = false
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != m.grid.Filter(grid.FilterColumn) {
		m.grid.SetFilter(grid.FilterColumn, m.input.Value())
		m.rebuild()
	}
	return m, cmd
}

func (m *Model) updateVisibility(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.choosing = false
	if slot := columnSlot(msg.String(), sortKeys); slot >= 0 {
		cols := m.grid.HideableColumns()
		if slot < len(cols) {
			m.grid.ToggleVisibility(cols[slot].ID)
			m.rebuild()
		}
	}
	return m, nil
}

func (m *Model) toggleSort(slot int, multi bool) {
	cols := grid.DataColumns()
	if slot < 0 || slot >= len(cols) {
		return
	}
	m.grid.ToggleSorting(cols[slot].ID, multi)
	m.rebuild()
}

func (m *Model) apply(s domain.Snapshot) {
	m.refreshing = false
	m.updated = s.Time
	m.grid.SetRows(s.Rows)
	m.rebuild()
	if m.failed {
		m.setStatus("", false)
	}
}

func (m *Model) setStatus(s string, failed bool) {
	m.status = s
	m.failed = failed
}

// rebuild copies the grid's current page into the bubbles table.
func (m *Model) rebuild() {
	cols := m.grid.VisibleColumns()
	m.page = m.grid.RowModel()

	columns := make([]table.Column, len(cols))
	for i, c := range cols {
		columns[i] = table.Column{Title: m.grid.HeaderLabel(c), Width: columnWidths[c.ID]}
	}

	rows := make([]table.Row, len(m.page))
	for i, r := range m.page {
		cells := make(table.Row, len(cols))
		for j, c := range cols {
			cells[j] = r.Cell(c.ID)
		}
		if len(cells) > 0 && m.grid.IsSelected(r.ID) {
			cells[0] = "✓ " + cells[0]
		}
		rows[i] = cells
	}

	// rows must match the column count at every step
	cursor := m.table.Cursor()
	m.table.SetRows(nil)
	m.table.SetColumns(columns)
	m.table.SetRows(rows)
	if cursor < 0 {
		cursor = 0
	}
	m.table.SetCursor(cursor)
}

func (m *Model) cursorRow() (grid.Row, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.page) {
		return grid.Row{}, false
	}
	return m.page[i], true
}

func (m *Model) openAction(a grid.Action) tea.Cmd {
	if _, ok := m.cursorRow(); !ok {
		return nil
	}
	open := m.open
	return func() tea.Msg {
		return actionMsg{label: a.Label, err: a.Open(open)}
	}
}

func (m *Model) refresh() tea.Cmd {
	if m.refresher == nil || m.refreshing {
		return nil
	}
	m.refreshing = true
	refresher := m.refresher
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()
		s, err := refresher.Refresh(ctx)
		if err != nil {
			return refreshErrMsg{err: err}
		}
		return snapshotMsg{snapshot: s}
	}
}

func (m *Model) waitForSnapshot() tea.Cmd {
	updates := m.updates
	if updates == nil {
		return nil
	}
	return func() tea.Msg {
		s, ok := <-updates
		if !ok {
			return updatesClosedMsg{}
		}
		return snapshotMsg{snapshot: s}
	}
}

// View renders the UI.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Eggregator"))
	if !m.updated.IsZero() {
		b.WriteString(FooterStyle.Render("updated " + m.updated.Format("15:04:05")))
	}
	b.WriteString("\n")

	switch {
	case m.filtering:
		b.WriteString(m.input.View())
	case m.grid.Filter(grid.FilterColumn) != "":
		b.WriteString(FooterStyle.Render("/ " + m.grid.Filter(grid.FilterColumn)))
	default:
		b.WriteString(FooterStyle.Render(m.input.Placeholder))
	}
	b.WriteString("\n")

	if len(m.page) == 0 {
		b.WriteString(PanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			m.table.View(),
			EmptyStyle.Render(grid.NoResults),
		)))
	} else {
		b.WriteString(PanelStyle.Render(m.table.View()))
	}
	b.WriteString("\n")

	b.WriteString(FooterStyle.Render(m.footer()))
	b.WriteString("\n")

	if m.choosing {
		b.WriteString(ModeStyle.Render(m.visibilityPrompt()))
		b.WriteString("\n")
	}
	if m.status != "" {
		style := StatusStyle
		if m.failed {
			style = ErrorStyle
		}
		b.WriteString(style.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) footer() string {
	pages := m.grid.PageCount()
	page := m.grid.Pagination.PageIndex + 1
	if pages == 0 {
		page = 0
	}
	parts := []string{m.grid.Summary(), fmt.Sprintf("Page %d of %d", page, pages)}
	if row, ok := m.grid.Selected(); ok {
		parts = append(parts, "selected "+row.Cell(grid.ColumnAsset))
	}
	if m.refreshing {
		parts = append(parts, "refreshing...")
	}
	return strings.Join(parts, " · ")
}

func (m *Model) visibilityPrompt() string {
	cols := m.grid.HideableColumns()
	parts := make([]string, len(cols))
	for i, c := range cols {
		mark := "x"
		if !m.grid.IsVisible(c.ID) {
			mark = " "
		}
		parts[i] = fmt.Sprintf("%d [%s] %s", i+1, mark, c.Label)
	}
	return "Toggle column: " + strings.Join(parts, "  ")
}
