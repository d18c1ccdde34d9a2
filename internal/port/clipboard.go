package port

import "errors"

// ErrClipboardUnavailable is returned when no system clipboard can be used.
var ErrClipboardUnavailable = errors.New("clipboard unavailable")

// Clipboard writes text to the system clipboard.
type Clipboard interface {
	WriteText(text string) error
}

// Prompter shows value to the user so it can be copied by hand.
type Prompter interface {
	Prompt(message, value string)
}
