package commands

import (
	"strings"
)

// ResultAction asks the UI to do something beyond showing the result.
type ResultAction string

const (
	ResultActionNone ResultAction = ""
	// ResultActionConfirmClear asks the UI to confirm before clearing the active chat.
	ResultActionConfirmClear ResultAction = "confirm_clear"
	// ResultActionOpenSettings asks the UI to open the settings panel.
	ResultActionOpenSettings ResultAction = "open_settings"
)

// Result represents the result of a command execution
type Result struct {
	Title   string
	Content string
	Action  ResultAction
	Error   error
}

// Handler is the interface for command handlers
type Handler interface {
	Execute(ctx *Context) *Result
	Name() string
	Description() string
}

// Dispatcher routes commands to their handlers
type Dispatcher struct {
	handlers map[string]Handler
	order    []string
}

// NewDispatcher creates a new command dispatcher
func NewDispatcher() *Dispatcher {
	d := &Dispatcher{
		handlers: make(map[string]Handler),
	}

	// Register default handlers
	d.Register(&NewChatHandler{})
	d.Register(&ClearHandler{})
	d.Register(&DeleteHandler{})
	d.Register(&ChatsHandler{})
	d.Register(&SelectHandler{})
	d.Register(&ThemeHandler{})
	d.Register(&SettingsHandler{})
	d.Register(&HelpHandler{dispatcher: d})

	return d
}

// Register adds a handler to the dispatcher
func (d *Dispatcher) Register(h Handler) {
	if _, exists := d.handlers[h.Name()]; !exists {
		d.order = append(d.order, h.Name())
	}
	d.handlers[h.Name()] = h
}

// Parse splits a command line into the command name and its arguments.
// The name is lower-cased; a line not starting with / yields "".
func Parse(line string) (string, []string) {
	fields := strings.Fields(strings.TrimSpace(line))
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return "", nil
	}
	return strings.ToLower(fields[0]), fields[1:]
}

// Dispatch parses line and executes the matching handler
func (d *Dispatcher) Dispatch(line string, ctx *Context) *Result {
	name, args := Parse(line)
	handler, ok := d.handlers[name]
	if !ok {
		if name == "" {
			name = strings.TrimSpace(line)
		}
		return &Result{
			Title:   "Error",
			Content: "Unknown command: " + name + "\nType /help for the list of commands.",
		}
	}

	ctx.Args = args
	return handler.Execute(ctx)
}

// GetHandler returns a handler by name
func (d *Dispatcher) GetHandler(cmdName string) (Handler, bool) {
	h, ok := d.handlers[cmdName]
	return h, ok
}

// Handlers returns the registered handlers in registration order
func (d *Dispatcher) Handlers() []Handler {
	out := make([]Handler, 0, len(d.order))
	for _, name := range d.order {
		out = append(out, d.handlers[name])
	}
	return out
}
