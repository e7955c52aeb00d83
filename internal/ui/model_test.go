package ui

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/faizmokh/angkat/internal/diag"
	"github.com/faizmokh/angkat/internal/session"
	"github.com/faizmokh/angkat/internal/workout"
)

const squatList = `{"status":"ok","result":[{"date":"2024-01-01T00:00:00.000Z","exercise":"Squat","progression":"","sets":3,"reps":5,"weight":100,"difficulty":"hard","notes":"felt good"}]}`

type fakeService struct {
	srv      *httptest.Server
	mu       sync.Mutex
	requests []*recordedRequest
	status   int
	list     string
}

type recordedRequest struct {
	method string
	path   string
	date   string
	body   string
}

func newFakeService(t *testing.T) *fakeService {
	t.Helper()
	f := &fakeService{status: http.StatusOK, list: squatList}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.requests = append(f.requests, &recordedRequest{
			method: r.Method,
			path:   r.URL.Path,
			date:   r.URL.Query().Get("date"),
			body:   string(body),
		})
		status, list := f.status, f.list
		f.mu.Unlock()

		w.WriteHeader(status)
		if r.Method == http.MethodGet && r.URL.Path == "/workouts" {
			io.WriteString(w, list)
			return
		}
		io.WriteString(w, `{"status":"ok","result":"success"}`)
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeService) address() string {
	return strings.TrimPrefix(f.srv.URL, "http://")
}

func (f *fakeService) recorded(method, path string) []*recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*recordedRequest
	for _, r := range f.requests {
		if r.method == method && r.path == path {
			out = append(out, r)
		}
	}
	return out
}

func (f *fakeService) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func newTestModel(t *testing.T, f *fakeService, address string, opts Options) (Model, *session.MemoryStore) {
	t.Helper()
	store := session.NewMemoryStore()
	if address != "" {
		if err := store.Set(address); err != nil {
			t.Fatalf("Set: %v", err)
		}
	}
	client := workout.NewClient(store, f.srv.Client())
	return NewModel(context.Background(), store, client, opts), store
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return model, cmd
}

// runCmd executes cmd and feeds the resulting message back into the model.
func runCmd(t *testing.T, m Model, cmd tea.Cmd) (Model, tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatalf("expected a command, got nil")
	}
	return update(t, m, cmd())
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return m
}

func press(t *testing.T, m Model, keyType tea.KeyType) (Model, tea.Cmd) {
	t.Helper()
	return update(t, m, tea.KeyMsg{Type: keyType})
}

func pressRune(t *testing.T, m Model, r rune) (Model, tea.Cmd) {
	t.Helper()
	return update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

// loaded returns a model that has completed its first list.
func loaded(t *testing.T, f *fakeService) Model {
	t.Helper()
	m, _ := newTestModel(t, f, f.address(), Options{})
	m, _ = runCmd(t, m, m.Init())
	return m
}

func TestStartWithoutAddressOpensServerViewOnly(t *testing.T) {
	f := newFakeService(t)
	m, _ := newTestModel(t, f, "", Options{})

	if cmd := m.Init(); cmd != nil {
		t.Fatalf("Init() returned a command without a stored address")
	}
	if !m.overlay.Visible() || m.overlay.Kind() != ViewServerAddress {
		t.Fatalf("overlay = %+v, want server-address open", m.overlay)
	}
	if m.overlay.DismissOnBackdrop() {
		t.Fatalf("first-run address form must not close on backdrop click")
	}
	if f.total() != 0 {
		t.Fatalf("requests = %d, want 0", f.total())
	}
}

func TestStartWithAddressListsOnce(t *testing.T) {
	f := newFakeService(t)
	m := loaded(t, f)

	if got := f.recorded(http.MethodGet, "/workouts"); len(got) != 1 || f.total() != 1 {
		t.Fatalf("list requests = %d (total %d), want exactly 1", len(got), f.total())
	}
	if m.overlay.Visible() {
		t.Fatalf("overlay open after load")
	}

	rows := m.table.Rows()
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	want := []string{workout.DisplayDate("2024-01-01T00:00:00.000Z"), "Squat", "3", "5"}
	for i, cell := range want {
		if rows[0][i] != cell {
			t.Fatalf("row[%d] = %q, want %q", i, rows[0][i], cell)
		}
	}
	if !strings.Contains(m.View(), "Squat") {
		t.Fatalf("view missing row: %q", m.View())
	}
}

func TestListTwiceReplacesRows(t *testing.T) {
	f := newFakeService(t)
	m := loaded(t, f)

	m, cmd := pressRune(t, m, 'r')
	m, _ = runCmd(t, m, cmd)

	if len(m.table.Rows()) != 1 {
		t.Fatalf("rows after second list = %d, want 1", len(m.table.Rows()))
	}
	if got := f.recorded(http.MethodGet, "/workouts"); len(got) != 2 {
		t.Fatalf("list requests = %d, want 2", len(got))
	}
}

func TestStaleListResultIsDropped(t *testing.T) {
	f := newFakeService(t)
	m := loaded(t, f)

	m, first := m.reload()
	m, second := m.reload()

	m, _ = update(t, m, second())
	f.mu.Lock()
	f.list = `{"status":"ok","result":[]}`
	f.mu.Unlock()
	m, _ = update(t, m, first())

	if len(m.records) != 1 {
		t.Fatalf("records = %d, want the newest result (1)", len(m.records))
	}
}

func TestAddWorkoutClosesOverlayBeforeCreateCompletes(t *testing.T) {
	f := newFakeService(t)
	m := loaded(t, f)
	before := time.Now()

	m, _ = pressRune(t, m, 'a')
	if m.overlay.Kind() != ViewAddWorkout {
		t.Fatalf("overlay kind = %v, want add-workout", m.overlay.Kind())
	}

	m = typeText(t, m, "Bench")
	m, _ = press(t, m, tea.KeyTab) // progression
	m, _ = press(t, m, tea.KeyTab) // sets
	m = typeText(t, m, "3")
	m, _ = press(t, m, tea.KeyTab) // reps
	m = typeText(t, m, "10")

	m, submit := press(t, m, tea.KeyCtrlS)
	m, create := runCmd(t, m, submit)

	if m.overlay.Visible() {
		t.Fatalf("overlay still open after submit")
	}
	if got := f.recorded(http.MethodPost, "/workout"); len(got) != 0 {
		t.Fatalf("create sent before its command ran: %d", len(got))
	}

	m, refresh := runCmd(t, m, create)
	posts := f.recorded(http.MethodPost, "/workout")
	if len(posts) != 1 {
		t.Fatalf("create requests = %d, want 1", len(posts))
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(posts[0].body), &payload); err != nil {
		t.Fatalf("body: %v", err)
	}
	if payload["exercise"] != "Bench" || payload["sets"] != float64(3) || payload["reps"] != float64(10) {
		t.Fatalf("payload = %#v", payload)
	}
	stamped, err := workout.ParseTimestamp(payload["date"].(string))
	if err != nil {
		t.Fatalf("date: %v", err)
	}
	if stamped.Before(before.Add(-time.Second)) || stamped.After(time.Now().Add(time.Second)) {
		t.Fatalf("date %v not close to %v", stamped, before)
	}

	// A completed create refreshes the table.
	m, _ = runCmd(t, m, refresh)
	if got := f.recorded(http.MethodGet, "/workouts"); len(got) != 2 {
		t.Fatalf("list requests = %d, want 2 after create", len(got))
	}
}

func TestDeleteFromDetailView(t *testing.T) {
	f := newFakeService(t)
	m := loaded(t, f)

	m, _ = press(t, m, tea.KeyEnter)
	if m.overlay.Kind() != ViewWorkoutDetail {
		t.Fatalf("overlay kind = %v, want workout-detail", m.overlay.Kind())
	}
	if !strings.Contains(m.View(), "felt good") {
		t.Fatalf("detail view missing notes: %q", m.View())
	}

	m, _ = press(t, m, tea.KeyTab)
	m, request := press(t, m, tea.KeyEnter)
	m, del := runCmd(t, m, request)
	if m.overlay.Visible() {
		t.Fatalf("overlay still open after delete")
	}
	_, _ = runCmd(t, m, del)

	deletes := f.recorded(http.MethodDelete, "/workout")
	if len(deletes) != 1 {
		t.Fatalf("delete requests = %d, want 1", len(deletes))
	}
	if deletes[0].date != "2024-01-01T00:00:00.000Z" || deletes[0].body != "" {
		t.Fatalf("delete request = %+v", deletes[0])
	}
}

func TestEscClosesOverlay(t *testing.T) {
	f := newFakeService(t)
	m := loaded(t, f)

	m, _ = pressRune(t, m, 'a')
	m, _ = press(t, m, tea.KeyEsc)
	if m.overlay.Visible() || m.overlay.DismissOnBackdrop() || m.pane != nil {
		t.Fatalf("overlay not fully closed: %+v pane=%v", m.overlay, m.pane)
	}
}

func TestBackdropClick(t *testing.T) {
	f := newFakeService(t)
	m := loaded(t, f)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	click := func(x, y int) tea.MouseMsg {
		return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	}

	m, _ = pressRune(t, m, 'a')
	m, _ = update(t, m, click(60, 20))
	if !m.overlay.Visible() {
		t.Fatalf("click inside the modal closed it")
	}
	m, _ = update(t, m, click(0, 0))
	if m.overlay.Visible() {
		t.Fatalf("backdrop click did not close the modal")
	}

	first, _ := newTestModel(t, f, "", Options{})
	first, _ = update(t, first, tea.WindowSizeMsg{Width: 120, Height: 40})
	first, _ = update(t, first, click(0, 0))
	if !first.overlay.Visible() {
		t.Fatalf("backdrop click closed the first-run address form")
	}
}

func TestAddressSubmitStoresAndLoads(t *testing.T) {
	f := newFakeService(t)
	m, store := newTestModel(t, f, "", Options{})

	m = typeText(t, m, f.address())
	m, submit := press(t, m, tea.KeyEnter)
	m, list := runCmd(t, m, submit)

	if got, ok := store.Get(); !ok || got != f.address() {
		t.Fatalf("stored address = %q, %v", got, ok)
	}
	if m.overlay.Visible() {
		t.Fatalf("overlay still open after address submit")
	}

	m, _ = runCmd(t, m, list)
	if got := f.recorded(http.MethodGet, "/workouts"); len(got) != 1 {
		t.Fatalf("list requests = %d, want 1", len(got))
	}
	if len(m.table.Rows()) != 1 {
		t.Fatalf("rows = %d, want 1", len(m.table.Rows()))
	}
}

func TestAddressFormPrefillsDefault(t *testing.T) {
	f := newFakeService(t)
	m, _ := newTestModel(t, f, "", Options{DefaultAddress: "gym.local:5598"})

	p, ok := m.pane.(addressPane)
	if !ok {
		t.Fatalf("pane = %T, want addressPane", m.pane)
	}
	if p.input.Value() != "gym.local:5598" {
		t.Fatalf("prefill = %q", p.input.Value())
	}
}

func TestCreateFailureIsOnlyLogged(t *testing.T) {
	f := newFakeService(t)
	buf := &bytes.Buffer{}
	m, _ := newTestModel(t, f, f.address(), Options{Logger: diag.New(buf, "info")})
	m, _ = runCmd(t, m, m.Init())

	f.mu.Lock()
	f.status = http.StatusInternalServerError
	f.mu.Unlock()

	m, submit := pressRune(t, m, 'a')
	if submit != nil {
		t.Fatalf("opening the form issued a command")
	}
	m, submit = press(t, m, tea.KeyCtrlS)
	m, create := runCmd(t, m, submit)
	m, after := runCmd(t, m, create)

	if after != nil {
		t.Fatalf("failed create triggered a follow-up command")
	}
	if m.statusLine != "" {
		t.Fatalf("status line = %q, want nothing shown", m.statusLine)
	}
	if !strings.Contains(buf.String(), "create workout") {
		t.Fatalf("log = %q, want create failure", buf.String())
	}
}

func TestCopyWritesRecordJSON(t *testing.T) {
	f := newFakeService(t)
	m := loaded(t, f)

	var copied string
	m.writeClipboard = func(s string) error {
		copied = s
		return nil
	}

	m, _ = press(t, m, tea.KeyEnter)
	m, request := press(t, m, tea.KeyCtrlY)
	m, copyCmd := runCmd(t, m, request)
	m, _ = runCmd(t, m, copyCmd)

	if !strings.Contains(copied, `"exercise": "Squat"`) {
		t.Fatalf("clipboard = %q", copied)
	}
	if m.statusLine != "Copied workout JSON." {
		t.Fatalf("status line = %q", m.statusLine)
	}
}

func TestClickingRowOpensDetail(t *testing.T) {
	f := newFakeService(t)
	m := loaded(t, f)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	click := func(y int) tea.MouseMsg {
		return tea.MouseMsg{X: 5, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	}

	// Header lines carry no date.
	m, _ = update(t, m, click(tableTop))
	if m.overlay.Visible() {
		t.Fatalf("clicking the table header opened the overlay")
	}

	// The first record renders below the header and its border.
	m, _ = update(t, m, click(tableTop+2))
	if m.overlay.Kind() != ViewWorkoutDetail {
		t.Fatalf("overlay kind = %v, want workout-detail", m.overlay.Kind())
	}
	if p, ok := m.pane.(detailPane); !ok || p.record.Exercise != "Squat" {
		t.Fatalf("pane = %#v", m.pane)
	}
}

func leftClick(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func listJSON(records ...string) string {
	return `{"status":"ok","result":[` + strings.Join(records, ",") + `]}`
}

func recordJSON(date, exercise string) string {
	return fmt.Sprintf(`{"date":%q,"exercise":%q,"progression":"","sets":3,"reps":5,"weight":100,"difficulty":"easy","notes":""}`, date, exercise)
}

// lineOf returns the screen line of the view that contains text.
func lineOf(t *testing.T, view, text string) int {
	t.Helper()
	for i, l := range strings.Split(view, "\n") {
		if strings.Contains(ansi.Strip(l), text) {
			return i
		}
	}
	t.Fatalf("view has no line containing %q:\n%s", text, view)
	return -1
}

func TestClickingRowWithinSameSecondOpensThatRow(t *testing.T) {
	f := newFakeService(t)
	f.list = listJSON(
		recordJSON("2024-01-01T00:00:00.900Z", "Squat"),
		recordJSON("2024-01-01T00:00:00.100Z", "Bench"),
	)
	m := loaded(t, f)
	if m.table.Cursor() != 0 {
		t.Fatalf("cursor = %d, want 0", m.table.Cursor())
	}

	m, _ = update(t, m, leftClick(5, lineOf(t, m.View(), "Bench")))

	p, ok := m.pane.(detailPane)
	if !ok {
		t.Fatalf("pane = %T, want detailPane", m.pane)
	}
	if p.record.Exercise != "Bench" || p.deleteKey() != "2024-01-01T00:00:00.100Z" {
		t.Fatalf("detail opened for %q (delete key %s)", p.record.Exercise, p.deleteKey())
	}
	if m.table.Cursor() != 1 {
		t.Fatalf("cursor = %d, want the clicked row", m.table.Cursor())
	}
}

func TestClickingRowAfterScrolling(t *testing.T) {
	f := newFakeService(t)
	var records []string
	for i := 0; i < 20; i++ {
		date := time.Date(2024, 1, 20-i, 0, 0, 0, 0, time.UTC)
		records = append(records, recordJSON(workout.Stamp(date), fmt.Sprintf("Lift %02d", i)))
	}
	f.list = listJSON(records...)
	m := loaded(t, f)

	for i := 0; i < 15; i++ {
		m, _ = press(t, m, tea.KeyDown)
	}
	if m.table.Cursor() != 15 {
		t.Fatalf("cursor = %d, want 15", m.table.Cursor())
	}

	view := m.View()
	clicked := 0
	for i := 0; i < 20; i++ {
		name := fmt.Sprintf("Lift %02d", i)
		if i == 15 || !strings.Contains(ansi.Strip(view), name) {
			continue
		}
		clicked++

		next, _ := update(t, m, leftClick(5, lineOf(t, view, name)))
		p, ok := next.pane.(detailPane)
		if !ok || p.record.Exercise != name {
			t.Fatalf("click on %q opened %#v", name, next.pane)
		}
	}
	if clicked == 0 {
		t.Fatalf("no rows other than the cursor row visible:\n%s", view)
	}
}

func TestClickOnModalBorderKeepsItOpen(t *testing.T) {
	f := newFakeService(t)
	m := loaded(t, f)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 121, Height: 41})
	m, _ = pressRune(t, m, 'a')

	var left, top, right, bottom int
	for y, l := range strings.Split(m.View(), "\n") {
		plain := ansi.Strip(l)
		if i := strings.Index(plain, "╭"); i >= 0 {
			left, top = utf8.RuneCountInString(plain[:i]), y
		}
		if i := strings.Index(plain, "╯"); i >= 0 {
			right, bottom = utf8.RuneCountInString(plain[:i]), y
		}
	}

	for _, c := range [][2]int{{left, top}, {right, bottom}, {left, bottom}, {right, top}} {
		if !m.insideModal(c[0], c[1]) {
			t.Fatalf("corner (%d,%d) counted as backdrop", c[0], c[1])
		}
	}
	for _, c := range [][2]int{{left - 1, top}, {left, top - 1}, {right + 1, bottom}, {right, bottom + 1}} {
		if m.insideModal(c[0], c[1]) {
			t.Fatalf("cell (%d,%d) outside the border counted as modal", c[0], c[1])
		}
	}

	m, _ = update(t, m, leftClick(left, top))
	if !m.overlay.Visible() {
		t.Fatalf("click on the modal border closed it")
	}
}

func TestEscKeepsFirstRunAddressForm(t *testing.T) {
	f := newFakeService(t)
	m, _ := newTestModel(t, f, "", Options{})

	m, _ = press(t, m, tea.KeyEsc)
	if !m.overlay.Visible() || m.overlay.Kind() != ViewServerAddress {
		t.Fatalf("esc closed the first-run address form: %+v", m.overlay)
	}

	// Opened on demand, the same form closes normally.
	m = loaded(t, f)
	m, _ = pressRune(t, m, 's')
	m, _ = press(t, m, tea.KeyEsc)
	if m.overlay.Visible() {
		t.Fatalf("esc did not close the address form opened with s")
	}
}
