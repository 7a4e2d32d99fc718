package model

// UIState is the transient state of the suggestion widget.
type UIState struct {
	ButtonLabel  string
	Toast        string
	Cards        []Card
	Busy         bool
	ToastVisible bool
}
