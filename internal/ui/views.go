package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/faizmokh/angkat/internal/workout"
)

// pane is the content of the open overlay. Each pane owns its input handling
// and reports a submission by emitting one of the messages below.
type pane interface {
	Kind() ViewKind
	Title() string
	Update(msg tea.Msg) (pane, tea.Cmd)
	View() string
}

type workoutSubmittedMsg struct {
	record workout.Record
}

type addressSubmittedMsg struct {
	address string
}

type deleteRequestedMsg struct {
	date string
}

type copyRequestedMsg struct {
	record workout.Record
}

type fillOptions struct {
	now     func() time.Time
	address string
}

// fill builds the pane for kind. record is only read by the detail view.
func fill(kind ViewKind, record workout.Record, opts fillOptions) pane {
	switch kind {
	case ViewAddWorkout:
		return newAddWorkoutPane(opts.now)
	case ViewWorkoutDetail:
		return newDetailPane(record)
	case ViewServerAddress:
		return newAddressPane(opts.address)
	default:
		return nil
	}
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

func newInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = ""
	ti.CharLimit = 256
	ti.Width = inputWidth
	_ = ti.Cursor.SetMode(cursor.CursorStatic)
	return ti
}

const (
	fieldExercise = iota
	fieldProgression
	fieldSets
	fieldReps
	fieldWeight
	fieldDifficulty
	fieldNotes
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Exercise:",
	"Progression:",
	"Sets:",
	"Reps:",
	"Weight:",
	"Difficulty:",
	"Notes:",
}

type addWorkoutPane struct {
	inputs [fieldCount]textinput.Model
	focus  int
	now    func() time.Time
}

func newAddWorkoutPane(now func() time.Time) addWorkoutPane {
	if now == nil {
		now = time.Now
	}
	p := addWorkoutPane{now: now}
	for i := range p.inputs {
		p.inputs[i] = newInput("")
	}
	p.inputs[fieldDifficulty].Placeholder = "easy, medium or hard"
	p.inputs[fieldExercise].Focus()
	return p
}

func (p addWorkoutPane) Kind() ViewKind { return ViewAddWorkout }

func (p addWorkoutPane) Title() string { return "Add Workout" }

func (p addWorkoutPane) Update(msg tea.Msg) (pane, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Submit):
			return p, p.submit()
		case msg.Type == tea.KeyEnter:
			if p.focus == fieldNotes {
				return p, p.submit()
			}
			return p.moveFocus(1), nil
		case key.Matches(msg, keys.Next):
			return p.moveFocus(1), nil
		case key.Matches(msg, keys.Prev):
			return p.moveFocus(-1), nil
		}
	}

	var cmd tea.Cmd
	p.inputs[p.focus], cmd = p.inputs[p.focus].Update(msg)
	return p, cmd
}

func (p addWorkoutPane) moveFocus(delta int) addWorkoutPane {
	p.inputs[p.focus].Blur()
	p.focus = (p.focus + delta + fieldCount) % fieldCount
	p.inputs[p.focus].Focus()
	return p
}

func (p addWorkoutPane) form() workout.Form {
	return workout.Form{
		Exercise:    p.inputs[fieldExercise].Value(),
		Progression: p.inputs[fieldProgression].Value(),
		Sets:        p.inputs[fieldSets].Value(),
		Reps:        p.inputs[fieldReps].Value(),
		Weight:      p.inputs[fieldWeight].Value(),
		Difficulty:  p.inputs[fieldDifficulty].Value(),
		Notes:       p.inputs[fieldNotes].Value(),
	}
}

func (p addWorkoutPane) submit() tea.Cmd {
	return emit(workoutSubmittedMsg{record: p.form().Record(p.now())})
}

func (p addWorkoutPane) View() string {
	var b strings.Builder
	for i, input := range p.inputs {
		label := styleLabel
		if i == p.focus {
			label = styleLabelFocused
		}
		b.WriteString(label.Render(fieldLabels[i]))
		b.WriteString(input.View())
		b.WriteByte('\n')
	}
	b.WriteString("\n")
	b.WriteString(styleSubtle.Render("Enter on Notes or Ctrl+S to submit"))
	return b.String()
}

type detailFocus uint8

const (
	detailFocusNotes detailFocus = iota
	detailFocusDelete
)

// detailPane shows one record. Notes can be edited but nothing saves them.
type detailPane struct {
	record workout.Record
	notes  textinput.Model
	focus  detailFocus
}

func newDetailPane(record workout.Record) detailPane {
	notes := newInput("")
	notes.SetValue(record.Notes)
	notes.Focus()
	return detailPane{record: record, notes: notes}
}

func (p detailPane) Kind() ViewKind { return ViewWorkoutDetail }

func (p detailPane) Title() string { return workout.DisplayDate(p.record.Date) }

// deleteKey is the date the delete control is bound to, normalized to the
// wire format when it parses.
func (p detailPane) deleteKey() string {
	if normalized, err := workout.NormalizeTimestamp(p.record.Date); err == nil {
		return normalized
	}
	return p.record.Date
}

func (p detailPane) Update(msg tea.Msg) (pane, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Copy):
			return p, emit(copyRequestedMsg{record: p.record})
		case key.Matches(msg, keys.Next), key.Matches(msg, keys.Prev):
			if p.focus == detailFocusNotes {
				p.focus = detailFocusDelete
				p.notes.Blur()
			} else {
				p.focus = detailFocusNotes
				p.notes.Focus()
			}
			return p, nil
		case msg.Type == tea.KeyEnter:
			if p.focus == detailFocusDelete {
				return p, emit(deleteRequestedMsg{date: p.deleteKey()})
			}
			return p, nil
		}
	}

	if p.focus != detailFocusNotes {
		return p, nil
	}
	var cmd tea.Cmd
	p.notes, cmd = p.notes.Update(msg)
	return p, cmd
}

func (p detailPane) View() string {
	r := p.record
	var b strings.Builder
	for _, line := range [][2]string{
		{"Exercise:", r.Exercise},
		{"Progression:", r.Progression},
		{"Sets:", r.Sets.String()},
		{"Reps:", r.Reps.String()},
		{"Weight:", r.Weight.String()},
		{"Difficulty:", r.Difficulty},
	} {
		b.WriteString(styleLabel.Render(line[0]))
		b.WriteString(line[1])
		b.WriteByte('\n')
	}

	label := styleLabel
	if p.focus == detailFocusNotes {
		label = styleLabelFocused
	}
	b.WriteString(label.Render("Notes:"))
	b.WriteString(p.notes.View())
	b.WriteString("\n\n")

	button := styleButton
	if p.focus == detailFocusDelete {
		button = styleButtonFocused
	}
	b.WriteString(button.Render("Delete"))
	return b.String()
}

type addressPane struct {
	input textinput.Model
}

func newAddressPane(initial string) addressPane {
	input := newInput("host:port")
	input.SetValue(initial)
	input.Focus()
	return addressPane{input: input}
}

func (p addressPane) Kind() ViewKind { return ViewServerAddress }

func (p addressPane) Title() string { return "Server Address" }

func (p addressPane) Update(msg tea.Msg) (pane, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEnter {
		return p, emit(addressSubmittedMsg{address: p.input.Value()})
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p addressPane) View() string {
	return styleLabel.Render("Address:") + "http://" + p.input.View() + "\n\n" +
		styleSubtle.Render("Enter to save for this session")
}
