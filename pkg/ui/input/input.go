package input

import (
	"context"
	"log/slog"
	"strings"

	"tougpt/pkg/chat"
	"tougpt/pkg/logging"

	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
)

// MaxInputLength is the longest question the composer accepts, in runes.
const MaxInputLength = chat.MaxQuestionLength

const (
	placeholder       = "Ask a question... (/help for commands)"
	placeholderBusy   = "Waiting for the answer..."
	composerMinHeight = 1
)

// SubmitMsg is sent when Enter is pressed on a non-empty question.
type SubmitMsg struct {
	Text string
}

// CommandSubmittedMsg is sent when Enter is pressed on a line starting with /.
type CommandSubmittedMsg struct {
	Command string
}

// QuitMsg is sent on Ctrl+C and on Ctrl+D with an empty composer.
type QuitMsg struct{}

// NewChatMsg is sent when Ctrl+N is pressed
type NewChatMsg struct{}

// ClearChatMsg is sent when Ctrl+L is pressed
type ClearChatMsg struct{}

// ToggleThemeMsg is sent when Ctrl+T is pressed
type ToggleThemeMsg struct{}

// CopyCodeMsg is sent when Ctrl+Y is pressed
type CopyCodeMsg struct{}

// ExampleMsg is sent when 1-3 is pressed while examples are shown.
type ExampleMsg struct {
	Index int
}

// InputHandler owns the question composer and routes global shortcuts.
type InputHandler struct {
	textarea textarea.Model
	busy     bool
	examples int
	width    int
	height   int
}

// NewInputHandler creates a focused composer
func NewInputHandler() *InputHandler {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.CharLimit = MaxInputLength
	ta.ShowLineNumbers = false
	ta.SetHeight(composerMinHeight)
	ta.Focus()
	return &InputHandler{textarea: ta, height: composerMinHeight}
}

// SetBusy marks a request as in flight. Questions are not submitted while busy
// but typing continues.
func (ih *InputHandler) SetBusy(busy bool) {
	ih.busy = busy
	if busy {
		ih.textarea.Placeholder = placeholderBusy
	} else {
		ih.textarea.Placeholder = placeholder
	}
}

// IsBusy reports whether a request is in flight
func (ih *InputHandler) IsBusy() bool {
	return ih.busy
}

// SetExampleCount enables the 1..n shortcuts while the composer is empty.
// Zero disables them.
func (ih *InputHandler) SetExampleCount(n int) {
	ih.examples = n
}

// SetSize sets the composer width and height in cells
func (ih *InputHandler) SetSize(width, height int) {
	if height < composerMinHeight {
		height = composerMinHeight
	}
	ih.width = width
	ih.height = height
	ih.textarea.SetWidth(width)
	ih.grow()
}

func (ih *InputHandler) Focus() {
	ih.textarea.Focus()
}

func (ih *InputHandler) Blur() {
	ih.textarea.Blur()
}

func (ih *InputHandler) Focused() bool {
	return ih.textarea.Focused()
}

// Value returns the current composer text
func (ih *InputHandler) Value() string {
	return ih.textarea.Value()
}

// SetValue replaces the composer text
func (ih *InputHandler) SetValue(text string) {
	ih.textarea.SetValue(text)
	ih.grow()
}

// Reset clears the composer
func (ih *InputHandler) Reset() {
	ih.textarea.Reset()
	ih.grow()
}

// HandleKey processes a key message and returns whether it was handled.
// Global shortcuts are handled whether or not the composer has focus.
func (ih *InputHandler) HandleKey(msg tea.KeyPressMsg) (handled bool, cmd tea.Cmd) {
	keyStr := msg.String()

	switch keyStr {
	case "ctrl+c":
		return true, emit(QuitMsg{})

	case "ctrl+d":
		if ih.textarea.Value() != "" {
			return false, nil
		}
		return true, emit(QuitMsg{})

	case "ctrl+n":
		return true, emit(NewChatMsg{})

	case "ctrl+l":
		return true, emit(ClearChatMsg{})

	case "ctrl+t":
		return true, emit(ToggleThemeMsg{})

	case "ctrl+y":
		return true, emit(CopyCodeMsg{})
	}

	if !ih.textarea.Focused() {
		return false, nil
	}

	switch keyStr {
	case "enter":
		return true, ih.submit()

	case "shift+enter", "alt+enter":
		if len([]rune(ih.textarea.Value())) < MaxInputLength {
			ih.textarea.InsertString("\n")
			ih.grow()
		}
		return true, nil
	}

	if ih.examples > 0 && ih.textarea.Value() == "" {
		if text := msg.Key().Text; len(text) == 1 && text[0] >= '1' && int(text[0]-'0') <= ih.examples {
			return true, emit(ExampleMsg{Index: int(text[0] - '1')})
		}
	}

	var taCmd tea.Cmd
	ih.textarea, taCmd = ih.textarea.Update(msg)
	ih.grow()
	return true, taCmd
}

func (ih *InputHandler) submit() tea.Cmd {
	text := strings.TrimSpace(ih.textarea.Value())
	if text == "" {
		return nil
	}

	if strings.HasPrefix(text, "/") {
		ih.textarea.Reset()
		ih.grow()
		return emit(CommandSubmittedMsg{Command: text})
	}

	if ih.busy {
		slog.Debug("input_submit_ignored", "reason", "busy")
		return nil
	}

	// The manager clears the input once the question is accepted.
	return emit(SubmitMsg{Text: text})
}

// HandlePaste inserts pasted content at the cursor, truncated to the limit.
func (ih *InputHandler) HandlePaste(content string) {
	if content == "" || !ih.textarea.Focused() {
		return
	}
	content = strings.ReplaceAll(content, "\r\n", "\n")

	room := MaxInputLength - len([]rune(ih.textarea.Value()))
	if room <= 0 {
		return
	}
	if r := []rune(content); len(r) > room {
		content = string(r[:room])
	}

	logger := slog.Default()
	ctx := context.Background()
	if logger.Enabled(ctx, logging.LevelTrace) {
		logger.Log(ctx, logging.LevelTrace, "paste_to_composer", "len", len(content))
	}
	ih.textarea.InsertString(content)
	ih.grow()
}

// grow fits the composer to its content, up to the configured height.
func (ih *InputHandler) grow() {
	lines := strings.Count(ih.textarea.Value(), "\n") + 1
	if lines > ih.height {
		lines = ih.height
	}
	if lines < composerMinHeight {
		lines = composerMinHeight
	}
	ih.textarea.SetHeight(lines)
}

// Lines is the number of rows the composer currently occupies
func (ih *InputHandler) Lines() int {
	return ih.textarea.Height()
}

// View renders the composer
func (ih *InputHandler) View() string {
	return ih.textarea.View()
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
