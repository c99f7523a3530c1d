package form

// Mode is the form's lifecycle state.
type Mode int

const (
	// Display renders leaves as "Label: value".
	Display Mode = iota
	// Edit renders inputs with Cancel and Save.
	Edit
	// Wizard renders inputs with Back and a submit button and never leaves
	// this state.
	Wizard
)

func (m Mode) String() string {
	switch m {
	case Edit:
		return "edit"
	case Wizard:
		return "wizard"
	default:
		return "display"
	}
}

// Event is an input to Transition.
type Event int

const (
	EventEnter Event = iota
	EventEscape
	EventEditPressed
	EventSavePressed
	EventCancelPressed
	EventBackPressed
)

// Focus describes what holds focus when an event arrives.
type Focus int

const (
	FocusInput Focus = iota
	FocusSubmit
	FocusEdit
	FocusCancel
	FocusBack
)

// Context is the part of the form's state Transition needs.
type Context struct {
	Focus     Focus
	Editable  bool
	HasCancel bool
	HasBack   bool
}

// Effect is a set of side effects the caller must run after a transition.
type Effect uint8

const (
	// EffectStatus emits the Enter status message.
	EffectStatus Effect = 1 << iota
	// EffectFocusFirst focuses the auto-focus target.
	EffectFocusFirst
	// EffectFocusSubmit moves focus to the submit control.
	EffectFocusSubmit
	// EffectCommit calls OnSubmit with the current values.
	EffectCommit
	// EffectDiscard restores the values captured when editing began.
	EffectDiscard
	// EffectCancel calls OnCancel.
	EffectCancel
	// EffectBack calls OnBack.
	EffectBack
)

// Has reports whether e includes all of other.
func (e Effect) Has(other Effect) bool {
	return e&other == other
}

// Transition returns the next mode and the effects of ev.
func Transition(mode Mode, ev Event, ctx Context) (Mode, Effect) {
	switch ev {
	case EventEnter:
		next, eff := enter(mode, ctx)
		return next, eff | EffectStatus

	case EventEscape:
		if mode == Edit {
			return Display, EffectDiscard
		}
		if ctx.HasCancel {
			return mode, EffectCancel
		}
		return mode, 0

	case EventEditPressed:
		if mode == Display && ctx.Editable {
			return Edit, EffectFocusFirst
		}

	case EventSavePressed:
		switch mode {
		case Edit:
			return Display, EffectCommit
		case Wizard:
			return Wizard, EffectCommit
		}

	case EventCancelPressed:
		if mode == Edit {
			eff := EffectDiscard
			if ctx.HasCancel {
				eff |= EffectCancel
			}
			return Display, eff
		}

	case EventBackPressed:
		if mode == Wizard && ctx.HasBack {
			return Wizard, EffectBack
		}
	}
	return mode, 0
}

func enter(mode Mode, ctx Context) (Mode, Effect) {
	switch mode {
	case Display:
		return Transition(mode, EventEditPressed, ctx)
	case Edit:
		if ctx.Focus == FocusCancel {
			return Transition(mode, EventCancelPressed, ctx)
		}
		return Display, EffectFocusSubmit | EffectCommit
	case Wizard:
		if ctx.Focus == FocusBack {
			return Transition(mode, EventBackPressed, ctx)
		}
		return Wizard, EffectCommit
	}
	return mode, 0
}
