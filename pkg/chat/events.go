package chat

type EventKind int

const (
	// ChatsChanged fires when any chat's title or messages change, or chats are added or removed.
	ChatsChanged EventKind = iota
	// ActiveChanged fires when a different chat becomes active.
	ActiveChanged
	// RequestStarted fires after the user message was appended and the request issued.
	RequestStarted
	// RequestFinished fires after the reply was applied and loading cleared.
	RequestFinished
)

func (k EventKind) String() string {
	switch k {
	case ChatsChanged:
		return "chats_changed"
	case ActiveChanged:
		return "active_changed"
	case RequestStarted:
		return "request_started"
	case RequestFinished:
		return "request_finished"
	}
	return "unknown"
}

// Event is delivered to listeners after the manager's lock is released.
type Event struct {
	Kind   EventKind
	ChatID string
}

// Confirmer asks the user a yes/no question
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }
