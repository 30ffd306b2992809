package statusbar

import (
	"strings"

	"tougpt/pkg/ui/styles"

	"github.com/charmbracelet/x/ansi"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// StatusBarView renders the single status line at the bottom of the screen
type StatusBarView struct {
	chatTitle  string
	server     string
	message    string
	theme      string
	loading    bool
	frame      int
	keyWarning bool
	width      int
}

// NewStatusBarView creates a new status bar view
func NewStatusBarView() *StatusBarView {
	return &StatusBarView{width: 80}
}

// SetChatTitle updates the title of the active chat
func (s *StatusBarView) SetChatTitle(title string) {
	s.chatTitle = title
}

// SetServer sets the Q&A service address shown on the left
func (s *StatusBarView) SetServer(server string) {
	s.server = strings.TrimSpace(server)
}

// SetMessage sets a temporary message that replaces the chat title
func (s *StatusBarView) SetMessage(msg string) {
	s.message = msg
}

func (s *StatusBarView) SetTheme(theme string) {
	s.theme = theme
}

// SetLoading toggles the typing indicator
func (s *StatusBarView) SetLoading(loading bool) {
	s.loading = loading
}

// Tick advances the typing indicator animation
func (s *StatusBarView) Tick() {
	s.frame = (s.frame + 1) % len(spinnerFrames)
}

// SetKeyWarning shows a hint that the configured API key looks malformed
func (s *StatusBarView) SetKeyWarning(show bool) {
	s.keyWarning = show
}

// SetWidth updates the width for rendering
func (s *StatusBarView) SetWidth(width int) {
	s.width = width
}

// Render returns the styled status bar string, exactly width columns wide
func (s *StatusBarView) Render(st styles.Styles) string {
	left := "[tougpt] "
	switch {
	case s.message != "":
		left += s.message
	case s.chatTitle != "":
		left += s.chatTitle
	}
	if s.server != "" && s.message == "" {
		left += " | " + s.server
	}

	var rightParts []string
	if s.loading {
		rightParts = append(rightParts, spinnerFrames[s.frame]+" waiting for answer")
	}
	if s.keyWarning {
		rightParts = append(rightParts, "! check API key")
	}
	if s.theme != "" {
		rightParts = append(rightParts, "theme: "+s.theme)
	}
	rightParts = append(rightParts, "/help")
	right := strings.Join(rightParts, " | ")

	// Padding(0, 1) on the style takes two columns
	inner := s.width - 2
	if inner < 10 {
		inner = 10
	}

	rightWidth := ansi.StringWidth(right)
	if rightWidth+2 > inner {
		right = ""
		rightWidth = 0
	}

	maxLeft := inner - rightWidth
	if rightWidth > 0 {
		maxLeft--
	}
	if ansi.StringWidth(left) > maxLeft {
		left = ansi.Truncate(left, maxLeft, "...")
	}

	gap := inner - ansi.StringWidth(left) - rightWidth
	if gap < 0 {
		gap = 0
	}
	content := left + strings.Repeat(" ", gap) + right

	return st.StatusBar.Render(content)
}

// RenderBanner renders the error banner shown above the input. It returns ""
// when text is empty.
func RenderBanner(st styles.Styles, text string, width int) string {
	if text == "" {
		return ""
	}
	content := "✖ " + text
	hint := "  (Esc to dismiss)"

	inner := width - 2
	if inner < 10 {
		inner = 10
	}
	if ansi.StringWidth(content)+ansi.StringWidth(hint) <= inner {
		content += hint
	}
	if ansi.StringWidth(content) > inner {
		content = ansi.Truncate(content, inner, "...")
	}
	if pad := inner - ansi.StringWidth(content); pad > 0 {
		content += strings.Repeat(" ", pad)
	}
	return st.Banner.Render(content)
}
