package widget

// KeyEnter names the enter key in a KeyEvent.
const KeyEnter = "enter"

// KeyEvent is a key press in the habits field.
type KeyEvent struct {
	Key  string
	Ctrl bool
	Meta bool
}

// Submits reports whether the event is Ctrl+Enter or Cmd+Enter.
func (e KeyEvent) Submits() bool {
	return e.Key == KeyEnter && (e.Ctrl || e.Meta)
}
