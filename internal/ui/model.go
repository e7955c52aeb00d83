package ui

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/faizmokh/angkat/internal/diag"
	"github.com/faizmokh/angkat/internal/session"
	"github.com/faizmokh/angkat/internal/workout"
)

// Model owns Bubble Tea state for the workout screen: the record table and
// the single overlay drawn on top of it.
type Model struct {
	ctx    context.Context
	store  session.Store
	client *workout.Client
	logger *log.Logger

	now            func() time.Time
	defaultAddress string
	writeClipboard func(string) error

	overlay Overlay
	pane    pane

	table   table.Model
	records []workout.Record
	listSeq int
	loading bool

	help          help.Model
	width, height int
	statusLine    string

	initCmd tea.Cmd
}

// Options carries optional collaborators for NewModel.
type Options struct {
	// Logger receives every request failure. Defaults to a discarding logger.
	Logger *log.Logger
	// DefaultAddress prefills the server-address form.
	DefaultAddress string
	// Now stamps new workouts. Defaults to time.Now.
	Now func() time.Time
}

type listResultMsg struct {
	seq     int
	records []workout.Record
	err     error
}

type createResultMsg struct {
	record workout.Record
	err    error
}

type deleteResultMsg struct {
	date string
	err  error
}

type copyResultMsg struct {
	err error
}

// NewModel seeds the model and runs the load sequence: with no stored server
// address the server-address view opens, otherwise the first list is queued.
func NewModel(ctx context.Context, store session.Store, client *workout.Client, opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = diag.Discard()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	m := Model{
		ctx:            ctx,
		store:          store,
		client:         client,
		logger:         opts.Logger,
		now:            opts.Now,
		defaultAddress: opts.DefaultAddress,
		writeClipboard: clipboard.WriteAll,
		table:          newTable(),
		help:           help.New(),
	}
	m, m.initCmd = m.boot()
	return m
}

// Init issues the first list when an address is already stored.
func (m Model) Init() tea.Cmd {
	return m.initCmd
}

// Update wires state transitions from input and finished requests.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg), nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case workoutSubmittedMsg:
		m = m.closeOverlay()
		m.statusLine = "Saving workout..."
		return m, m.createCmd(msg.record)
	case addressSubmittedMsg:
		return m.handleAddressSubmitted(msg)
	case deleteRequestedMsg:
		m = m.closeOverlay()
		m.statusLine = "Deleting workout..."
		return m, m.deleteCmd(msg.date)
	case copyRequestedMsg:
		return m, m.copyCmd(msg.record)
	case listResultMsg:
		return m.handleListResult(msg), nil
	case createResultMsg:
		return m.handleCreateResult(msg)
	case deleteResultMsg:
		return m.handleDeleteResult(msg)
	case copyResultMsg:
		if msg.err != nil {
			m.logger.Error("copy workout", "err", msg.err)
			return m, nil
		}
		m.statusLine = "Copied workout JSON."
		return m, nil
	default:
		if m.pane != nil {
			var cmd tea.Cmd
			m.pane, cmd = m.pane.Update(msg)
			return m, cmd
		}
		return m, nil
	}
}

// boot is the load sequence run at start and after an address is submitted.
func (m Model) boot() (Model, tea.Cmd) {
	if _, ok := m.store.Get(); !ok {
		if !m.overlay.Visible() {
			m = m.toggleOverlay(ViewServerAddress, workout.Record{}, false)
		}
		m.statusLine = "Set the workout server address to begin."
		return m, nil
	}
	return m.reload()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.overlay.Visible() {
		if key.Matches(msg, keys.Close) {
			if m.overlay.Kind() == ViewServerAddress && !m.overlay.DismissOnBackdrop() {
				return m, nil
			}
			return m.closeOverlay(), nil
		}
		var cmd tea.Cmd
		m.pane, cmd = m.pane.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Add):
		return m.toggleOverlay(ViewAddWorkout, workout.Record{}, true), nil
	case key.Matches(msg, keys.Open):
		record, ok := m.selectedRecord()
		if !ok {
			return m, nil
		}
		return m.toggleOverlay(ViewWorkoutDetail, record, true), nil
	case key.Matches(msg, keys.Server):
		return m.toggleOverlay(ViewServerAddress, workout.Record{}, true), nil
	case key.Matches(msg, keys.Reload):
		return m.reload()
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	if !m.overlay.Visible() {
		idx, ok := m.rowAt(msg.Y)
		if !ok {
			return m, nil
		}
		m.table.SetCursor(idx)
		return m.toggleOverlay(ViewWorkoutDetail, m.records[idx], true), nil
	}
	if !m.overlay.DismissOnBackdrop() {
		return m, nil
	}
	if m.insideModal(msg.X, msg.Y) {
		return m, nil
	}
	return m.closeOverlay(), nil
}

// insideModal reports whether a cell lies within the centered modal box.
// Until the terminal size is known every cell counts as inside.
func (m Model) insideModal(x, y int) bool {
	if m.width == 0 || m.height == 0 {
		return true
	}
	w, h := lipgloss.Size(m.renderModal())
	left := centerOffset(m.width - w)
	top := centerOffset(m.height - h)
	return x >= left && x < left+w && y >= top && y < top+h
}

// centerOffset is where lipgloss.Place starts a centered block given the
// spare cells on that axis.
func centerOffset(gap int) int {
	gap = max(gap, 0)
	return gap - int(math.Round(float64(gap)*0.5))
}

// rowAt maps a click on the main screen to a record index. The table keeps
// its scroll window private, so a copy is rendered with the cursor row
// marked and the clicked line is counted from there.
func (m Model) rowAt(y int) (int, bool) {
	line := y - tableTop - tableHeaderLines
	if line < 0 || line >= m.table.Height() || len(m.records) == 0 {
		return 0, false
	}

	marked := m.table
	styles := tableStyles()
	styles.Selected = styles.Selected.Transform(func(s string) string {
		return cursorMarker + s
	})
	marked.SetStyles(styles)

	cursorLine := -1
	for i, l := range strings.Split(marked.View(), "\n") {
		if strings.Contains(l, cursorMarker) {
			cursorLine = i - tableHeaderLines
			break
		}
	}
	if cursorLine < 0 {
		return 0, false
	}

	idx := m.table.Cursor() + line - cursorLine
	if idx < 0 || idx >= len(m.records) {
		return 0, false
	}
	return idx, true
}

func (m Model) handleResize(msg tea.WindowSizeMsg) Model {
	m.width = msg.Width
	m.height = msg.Height
	m.help.Width = msg.Width
	m.table.SetHeight(max(msg.Height-chromeLines, minTableHeight))
	return m
}

func (m Model) handleAddressSubmitted(msg addressSubmittedMsg) (tea.Model, tea.Cmd) {
	address := strings.TrimSpace(msg.address)
	if err := m.store.Set(address); err != nil {
		m.logger.Error("store server address", "err", err)
	}
	m = m.closeOverlay()
	return m.boot()
}

// toggleOverlay fills the pane before the overlay becomes visible; when the
// overlay is already open it closes instead.
func (m Model) toggleOverlay(kind ViewKind, record workout.Record, closeOnBackdrop bool) Model {
	if m.overlay.Visible() {
		return m.closeOverlay()
	}

	current, _ := m.store.Get()
	if current == "" {
		current = m.defaultAddress
	}
	m.pane = fill(kind, record, fillOptions{now: m.now, address: current})
	m.overlay.Toggle(kind, closeOnBackdrop)
	return m
}

func (m Model) closeOverlay() Model {
	if m.overlay.Visible() {
		m.overlay.Toggle(m.overlay.Kind(), false)
	}
	m.pane = nil
	return m
}

func (m Model) selectedRecord() (workout.Record, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.records) {
		return workout.Record{}, false
	}
	return m.records[idx], true
}

func (m Model) reload() (Model, tea.Cmd) {
	m.listSeq++
	m.loading = true
	m.statusLine = "Loading workouts..."
	return m, m.listCmd(m.listSeq)
}

// handleListResult replaces the table with the fetched records. Results of
// superseded loads are dropped.
func (m Model) handleListResult(msg listResultMsg) Model {
	if msg.seq != m.listSeq {
		return m
	}
	m.loading = false
	if msg.err != nil {
		m.logger.Error("list workouts", "err", msg.err)
		m.statusLine = ""
		return m
	}

	m.records = msg.records
	m.table.SetRows(Rows(m.records))
	if m.table.Cursor() >= len(m.records) {
		m.table.SetCursor(max(len(m.records)-1, 0))
	}
	m.statusLine = fmt.Sprintf("Loaded %d workout%s.", len(m.records), plural(len(m.records)))
	return m
}

func (m Model) handleCreateResult(msg createResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.logger.Error("create workout", "date", msg.record.Date, "err", msg.err)
		m.statusLine = ""
		return m, nil
	}
	m.logger.Debug("created workout", "date", msg.record.Date)
	return m.reload()
}

func (m Model) handleDeleteResult(msg deleteResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.logger.Error("delete workout", "date", msg.date, "err", msg.err)
		m.statusLine = ""
		return m, nil
	}
	m.logger.Debug("deleted workout", "date", msg.date)
	return m.reload()
}

func (m Model) listCmd(seq int) tea.Cmd {
	client := m.client
	ctx := m.ctx
	return func() tea.Msg {
		records, err := client.List(ctx)
		return listResultMsg{seq: seq, records: records, err: err}
	}
}

func (m Model) createCmd(record workout.Record) tea.Cmd {
	client := m.client
	ctx := m.ctx
	return func() tea.Msg {
		return createResultMsg{record: record, err: client.Create(ctx, record)}
	}
}

func (m Model) deleteCmd(date string) tea.Cmd {
	client := m.client
	ctx := m.ctx
	return func() tea.Msg {
		return deleteResultMsg{date: date, err: client.Delete(ctx, date)}
	}
}

func (m Model) copyCmd(record workout.Record) tea.Cmd {
	write := m.writeClipboard
	return func() tea.Msg {
		data, err := json.MarshalIndent(record, "", "  ")
		if err != nil {
			return copyResultMsg{err: err}
		}
		return copyResultMsg{err: write(string(data))}
	}
}

// View renders the frame.
func (m Model) View() string {
	if m.overlay.Visible() {
		modal := m.renderModal()
		if m.width == 0 || m.height == 0 {
			return modal
		}
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal,
			lipgloss.WithWhitespaceChars("·"),
			lipgloss.WithWhitespaceForeground(colorSubtle),
		)
	}

	var b strings.Builder
	b.WriteString(styleTitle.Render("Workouts"))
	if address, ok := m.store.Get(); ok && address != "" {
		b.WriteString(styleSubtle.Render("  http://" + address))
	}
	b.WriteString("\n\n")

	if len(m.records) == 0 && !m.loading {
		b.WriteString(styleSubtle.Render("(no workouts)"))
		b.WriteByte('\n')
	} else {
		b.WriteString(m.table.View())
		b.WriteByte('\n')
	}

	if m.statusLine != "" {
		b.WriteString("\n")
		b.WriteString(m.statusLine)
		b.WriteByte('\n')
	}

	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView(keys.mainHelp()))
	b.WriteByte('\n')
	return b.String()
}

func (m Model) renderModal() string {
	if m.pane == nil {
		return ""
	}
	content := styleTitle.Render(m.pane.Title()) + "\n\n" +
		m.pane.View() + "\n\n" +
		m.help.ShortHelpView(keys.paneHelp(m.pane.Kind()))
	return styleModal.Render(content)
}

func plural(count int) string {
	if count == 1 {
		return ""
	}
	return "s"
}
