package ui

// ViewKind tags which pane the overlay shows.
type ViewKind uint8

const (
	ViewNone ViewKind = iota
	ViewAddWorkout
	ViewWorkoutDetail
	ViewServerAddress
)

func (k ViewKind) String() string {
	switch k {
	case ViewAddWorkout:
		return "add-workout"
	case ViewWorkoutDetail:
		return "workout-detail"
	case ViewServerAddress:
		return "server-address"
	default:
		return "none"
	}
}

// Overlay is the state of the single shared modal: either closed, or open on
// one view. There is no stacking.
type Overlay struct {
	visible           bool
	kind              ViewKind
	dismissOnBackdrop bool
}

// Toggle opens the overlay on kind when closed and closes it when open,
// whatever kind is currently shown. It reports whether the overlay is now open.
// Closing always drops the backdrop handler.
func (o *Overlay) Toggle(kind ViewKind, closeOnBackdrop bool) bool {
	if o.visible {
		*o = Overlay{}
		return false
	}
	o.visible = true
	o.kind = kind
	o.dismissOnBackdrop = closeOnBackdrop
	return true
}

// Visible reports whether the modal is shown.
func (o Overlay) Visible() bool {
	return o.visible
}

// Kind returns the open view, or ViewNone when closed.
func (o Overlay) Kind() ViewKind {
	return o.kind
}

// DismissOnBackdrop reports whether a click outside the modal closes it.
func (o Overlay) DismissOnBackdrop() bool {
	return o.visible && o.dismissOnBackdrop
}
