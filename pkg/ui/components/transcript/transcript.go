package transcript

import (
	"log/slog"
	"strings"

	"tougpt/pkg/chat"
	"tougpt/pkg/ui/components/utils"
	"tougpt/pkg/ui/styles"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/x/ansi"
)

const (
	userLabel      = "You"
	assistantLabel = "Assistant"
	typingLabel    = "Assistant is typing..."
)

// Transcript renders the messages of the active chat with scrolling.
// Assistant replies are rendered as markdown.
type Transcript struct {
	messages []chat.Message
	loading  bool
	st       styles.Styles

	width   int
	height  int
	scrollY int
	follow  bool
	lines   []string

	renderer      *glamour.TermRenderer
	rendererWidth int
	rendererStyle string
}

// New creates a transcript that follows new output
func New(st styles.Styles) *Transcript {
	return &Transcript{st: st, follow: true}
}

// SetMessages replaces the messages. Switching to a different chat should be
// followed by ScrollToBottom.
func (t *Transcript) SetMessages(messages []chat.Message, loading bool) {
	t.messages = messages
	t.loading = loading
	t.reflow()
}

// SetStyles switches the theme and re-renders
func (t *Transcript) SetStyles(st styles.Styles) {
	t.st = st
	t.reflow()
}

// SetSize sets the visible area in columns and rows
func (t *Transcript) SetSize(width, height int) {
	if width == t.width && height == t.height {
		return
	}
	t.width = width
	t.height = height
	t.reflow()
}

// IsEmpty reports whether there is nothing to show
func (t *Transcript) IsEmpty() bool {
	return len(t.messages) == 0 && !t.loading
}

// ScrollToBottom re-enables following
func (t *Transcript) ScrollToBottom() {
	t.follow = true
	t.scrollY = t.maxScroll()
}

// Scroll handles up, down, pgup, pgdown, home, and end.
func (t *Transcript) Scroll(key string) {
	maxScroll := t.maxScroll()
	page := t.height - 1
	if page < 1 {
		page = 1
	}

	switch key {
	case "up":
		if t.scrollY > 0 {
			t.scrollY--
		}
	case "down":
		if t.scrollY < maxScroll {
			t.scrollY++
		}
	case "pgup":
		t.scrollY -= page
	case "pgdown":
		t.scrollY += page
	case "home":
		t.scrollY = 0
	case "end":
		t.scrollY = maxScroll
	}

	if t.scrollY < 0 {
		t.scrollY = 0
	}
	if t.scrollY > maxScroll {
		t.scrollY = maxScroll
	}
	t.follow = t.scrollY >= maxScroll
}

// View renders exactly height lines of width columns
func (t *Transcript) View() string {
	if t.height <= 0 || t.width <= 0 {
		return ""
	}
	end := t.scrollY + t.height
	if end > len(t.lines) {
		end = len(t.lines)
	}
	start := t.scrollY
	if start > end {
		start = end
	}
	return strings.Join(utils.FitLines(t.lines[start:end], t.width, t.height), "\n")
}

func (t *Transcript) reflow() {
	if t.width <= 0 {
		t.lines = nil
		t.scrollY = 0
		return
	}

	var lines []string
	for i, msg := range t.messages {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, t.renderMessage(msg)...)
	}
	if t.loading {
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, t.st.TextMuted.Render(typingLabel))
	}
	t.lines = lines

	if t.follow {
		t.scrollY = t.maxScroll()
	} else if t.scrollY > t.maxScroll() {
		t.scrollY = t.maxScroll()
	}
}

func (t *Transcript) renderMessage(msg chat.Message) []string {
	if msg.Role == chat.RoleUser {
		label := t.st.UserLabel.Render(userLabel + ":")
		body := lipgloss.NewStyle().Width(t.width).Render(sanitize(msg.Content))
		return append([]string{label}, strings.Split(t.st.Text.Render(body), "\n")...)
	}

	label := t.st.AssistantLabel.Render(assistantLabel + ":")
	return append([]string{label}, t.renderMarkdown(msg.Content)...)
}

func (t *Transcript) renderMarkdown(content string) []string {
	content = sanitize(content)
	if r := t.markdownRenderer(); r != nil {
		out, err := r.Render(content)
		if err == nil {
			return trimBlankEdges(strings.Split(out, "\n"))
		}
		slog.Debug("transcript_markdown_failed", "error", err)
	}
	body := lipgloss.NewStyle().Width(t.width).Render(content)
	return strings.Split(t.st.Text.Render(body), "\n")
}

// markdownRenderer caches one glamour renderer per width and theme.
func (t *Transcript) markdownRenderer() *glamour.TermRenderer {
	style := t.st.GlamourStyle()
	if t.renderer != nil && t.rendererWidth == t.width && t.rendererStyle == style {
		return t.renderer
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(t.width),
	)
	if err != nil {
		slog.Debug("transcript_renderer_failed", "error", err)
		return nil
	}
	t.renderer = r
	t.rendererWidth = t.width
	t.rendererStyle = style
	return r
}

func (t *Transcript) maxScroll() int {
	m := len(t.lines) - t.height
	if m < 0 {
		return 0
	}
	return m
}

func trimBlankEdges(lines []string) []string {
	isBlank := func(s string) bool {
		return strings.TrimSpace(ansi.Strip(s)) == ""
	}
	for len(lines) > 0 && isBlank(lines[0]) {
		lines = lines[1:]
	}
	for len(lines) > 0 && isBlank(lines[len(lines)-1]) {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}

// sanitize drops control characters other than newline and tab
func sanitize(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	var sb strings.Builder
	sb.Grow(len(content))
	for _, r := range content {
		switch r {
		case '\n', '\t':
			sb.WriteRune(r)
			continue
		}
		if r < 0x20 || r == 0x7f {
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
