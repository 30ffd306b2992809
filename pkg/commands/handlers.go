package commands

import (
	"fmt"
	"strings"

	"tougpt/pkg/chat"
	"tougpt/pkg/settings"
)

// NewChatHandler handles the /new command
type NewChatHandler struct{}

func (h *NewChatHandler) Name() string        { return "/new" }
func (h *NewChatHandler) Description() string { return "Start a new chat" }

func (h *NewChatHandler) Execute(ctx *Context) *Result {
	if ctx.Manager == nil {
		return unavailable("New chat")
	}
	ctx.Manager.CreateChat()
	return &Result{Title: "New chat", Content: "Started a new chat."}
}

// ClearHandler handles the /clear command. The UI asks for confirmation
// and performs the clear itself.
type ClearHandler struct{}

func (h *ClearHandler) Name() string        { return "/clear" }
func (h *ClearHandler) Description() string { return "Clear the current chat" }

func (h *ClearHandler) Execute(ctx *Context) *Result {
	if ctx.Manager == nil {
		return unavailable("Clear")
	}
	if len(ctx.Manager.ActiveChat().Messages) == 0 {
		return &Result{Title: "Clear", Content: "The current chat is already empty."}
	}
	return &Result{Title: "Clear", Content: chat.ClearChatPrompt, Action: ResultActionConfirmClear}
}

// DeleteHandler handles the /delete command
type DeleteHandler struct{}

func (h *DeleteHandler) Name() string        { return "/delete" }
func (h *DeleteHandler) Description() string { return "Delete the current chat, or /delete <n|id>" }

func (h *DeleteHandler) Execute(ctx *Context) *Result {
	if ctx.Manager == nil {
		return unavailable("Delete")
	}

	target := ctx.Manager.ActiveChat()
	if ref := ctx.Arg(0); ref != "" {
		found, ok := chat.ResolveChat(ctx.Manager.Chats(), ref)
		if !ok {
			return &Result{
				Title:   "Delete",
				Content: fmt.Sprintf("No chat matches %q. Use /chats to list them.", ref),
				Error:   fmt.Errorf("no chat matches %q", ref),
			}
		}
		target = found
	}

	ctx.Manager.DeleteChat(target.ID)
	return &Result{Title: "Delete", Content: fmt.Sprintf("Deleted %q.", target.Title)}
}

// ChatsHandler handles the /chats command
type ChatsHandler struct{}

func (h *ChatsHandler) Name() string        { return "/chats" }
func (h *ChatsHandler) Description() string { return "List chats" }

func (h *ChatsHandler) Execute(ctx *Context) *Result {
	if ctx.Manager == nil {
		return unavailable("Chats")
	}
	return &Result{
		Title:   "Chats",
		Content: FormatChatList(ctx.Manager.Chats(), ctx.Manager.ActiveChatID()),
	}
}

// FormatChatList renders one line per chat, marking the active one with *.
func FormatChatList(chats []chat.Chat, activeID string) string {
	var sb strings.Builder
	for i, c := range chats {
		marker := " "
		if c.ID == activeID {
			marker = "*"
		}
		fmt.Fprintf(&sb, "%s %2d. %s (%d messages) [%s]\n", marker, i+1, c.Title, len(c.Messages), shortID(c.ID))
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// SelectHandler handles the /select command
type SelectHandler struct{}

func (h *SelectHandler) Name() string        { return "/select" }
func (h *SelectHandler) Description() string { return "Switch to chat /select <n|id>" }

func (h *SelectHandler) Execute(ctx *Context) *Result {
	if ctx.Manager == nil {
		return unavailable("Select")
	}
	ref := ctx.Arg(0)
	if ref == "" {
		return &Result{Title: "Select", Content: "Usage: /select <n|id>", Error: fmt.Errorf("missing chat reference")}
	}

	found, ok := chat.ResolveChat(ctx.Manager.Chats(), ref)
	if !ok || !ctx.Manager.SelectChat(found.ID) {
		return &Result{
			Title:   "Select",
			Content: fmt.Sprintf("No chat matches %q. Use /chats to list them.", ref),
			Error:   fmt.Errorf("no chat matches %q", ref),
		}
	}
	return &Result{Title: "Select", Content: fmt.Sprintf("Switched to %q.", found.Title)}
}

// ThemeHandler handles the /theme command
type ThemeHandler struct{}

func (h *ThemeHandler) Name() string        { return "/theme" }
func (h *ThemeHandler) Description() string { return "Toggle theme, or /theme light|dark" }

func (h *ThemeHandler) Execute(ctx *Context) *Result {
	if ctx.Prefs == nil {
		return unavailable("Theme")
	}

	var (
		theme settings.Theme
		err   error
	)
	if arg := ctx.Arg(0); arg != "" {
		theme, err = settings.ParseTheme(arg)
		if err != nil {
			return &Result{Title: "Theme", Content: "Usage: /theme [light|dark]", Error: err}
		}
		err = ctx.Prefs.SetTheme(ctx.Ctx, theme)
	} else {
		theme, err = ctx.Prefs.ToggleTheme(ctx.Ctx)
	}

	// The theme still applies for this session when saving fails.
	content := fmt.Sprintf("Theme set to %s.", theme)
	if err != nil {
		content += " It could not be saved."
	}
	return &Result{Title: "Theme", Content: content, Error: err}
}

// SettingsHandler handles the /settings command
type SettingsHandler struct{}

func (h *SettingsHandler) Name() string        { return "/settings" }
func (h *SettingsHandler) Description() string { return "Edit API key and theme" }

func (h *SettingsHandler) Execute(ctx *Context) *Result {
	if ctx.Prefs == nil {
		return unavailable("Settings")
	}
	return &Result{Title: "Settings", Action: ResultActionOpenSettings}
}

// HelpHandler handles the /help command
type HelpHandler struct {
	dispatcher *Dispatcher
}

func (h *HelpHandler) Name() string        { return "/help" }
func (h *HelpHandler) Description() string { return "Show help" }

func (h *HelpHandler) Execute(ctx *Context) *Result {
	var sb strings.Builder
	sb.WriteString("Commands:\n")
	if h.dispatcher != nil {
		for _, handler := range h.dispatcher.Handlers() {
			fmt.Fprintf(&sb, "  %-9s - %s\n", handler.Name(), handler.Description())
		}
	}
	sb.WriteString(`
Shortcuts:
  Enter     - Send question
  Shift+Enter - New line
  Tab       - Switch between chat list and input
  Ctrl+N    - New chat
  Ctrl+L    - Clear current chat
  Ctrl+T    - Toggle theme
  Ctrl+Y    - Copy last code block
  PgUp/PgDn - Scroll conversation
  Esc       - Dismiss message
  Ctrl+C    - Quit`)

	return &Result{Title: "Help", Content: sb.String()}
}

func unavailable(title string) *Result {
	err := fmt.Errorf("%s is not available", strings.ToLower(title))
	return &Result{Title: title, Content: "This command is not available here.", Error: err}
}
