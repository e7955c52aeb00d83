package ui

import "github.com/charmbracelet/lipgloss"

// Layout constants for the main screen and the modal.
const (
	modalWidth       = 56
	labelWidth       = 13
	inputWidth       = 32
	chromeLines      = 6 // title, blank, status, blank, help, trailing newline
	tableTop         = 2 // screen line where the table header starts
	tableHeaderLines = 2 // header text and its bottom border
	minTableHeight   = 3
	defaultTableRow  = 12

	colDateWidth     = 30
	colExerciseWidth = 22
	colCountWidth    = 6

	// cursorMarker tags the cursor row when locating a clicked line.
	cursorMarker = "\u241e"
)

var (
	colorAccent = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"}
	colorSubtle = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"}
	colorDanger = lipgloss.AdaptiveColor{Light: "#D7263D", Dark: "#FF5F87"}

	tableBorder = lipgloss.NormalBorder()

	styleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)

	styleSubtle = lipgloss.NewStyle().Foreground(colorSubtle)

	styleLabel = lipgloss.NewStyle().Width(labelWidth)

	styleLabelFocused = styleLabel.Foreground(colorAccent).Bold(true)

	styleButton = lipgloss.NewStyle().Padding(0, 2).Border(lipgloss.NormalBorder()).BorderForeground(colorSubtle)

	styleButtonFocused = styleButton.BorderForeground(colorDanger).Foreground(colorDanger).Bold(true)

	styleModal = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(1, 2).
			Width(modalWidth)
)
