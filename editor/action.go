package editor

type (
	// Action is something a user can do to the model, bound to e.g. a menu
	// item or a key. A UI asks Enabled to decide whether to offer it.
	Action struct {
		doer Doer
	}

	Doer interface {
		Do()
	}

	// Enabler is implemented by a Doer that is not always possible, e.g.
	// undo with an empty history.
	Enabler interface {
		Enabled() bool
	}

	// DoFunc adapts a function to the Doer interface.
	DoFunc func()
)

func (f DoFunc) Do() { f() }

func MakeAction(doer Doer) Action {
	return Action{doer: doer}
}

// Enabled reports whether Do would do anything. The zero Action is never
// enabled.
func (a Action) Enabled() bool {
	switch d := a.doer.(type) {
	case nil:
		return false
	case Enabler:
		return d.Enabled()
	}
	return true
}

// Do performs the action if it is enabled.
func (a Action) Do() {
	if a.Enabled() {
		a.doer.Do()
	}
}
