package ui

import (
	"github.com/charmbracelet/bubbles/table"

	"github.com/faizmokh/angkat/internal/workout"
)

func tableColumns() []table.Column {
	return []table.Column{
		{Title: "Date", Width: colDateWidth},
		{Title: "Exercise", Width: colExerciseWidth},
		{Title: "Sets", Width: colCountWidth},
		{Title: "Reps", Width: colCountWidth},
	}
}

// Rows renders the summary columns for records. The remaining fields are
// only shown in the detail view.
func Rows(records []workout.Record) []table.Row {
	rows := make([]table.Row, 0, len(records))
	for _, r := range records {
		rows = append(rows, table.Row{
			workout.DisplayDate(r.Date),
			r.Exercise,
			r.Sets.String(),
			r.Reps.String(),
		})
	}
	return rows
}

func newTable() table.Model {
	t := table.New(
		table.WithColumns(tableColumns()),
		table.WithFocused(true),
		table.WithHeight(defaultTableRow),
	)
	t.SetStyles(tableStyles())
	return t
}

// tableStyles underlines the header, which therefore spans tableHeaderLines.
func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(tableBorder).
		BorderForeground(colorSubtle).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.Foreground(colorAccent).Bold(true)
	return styles
}
