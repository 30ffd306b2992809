package result

import (
	"strings"

	"tougpt/pkg/ui/components/utils"
	"tougpt/pkg/ui/render"
	"tougpt/pkg/ui/styles"

	tea "charm.land/bubbletea/v2"
)

const (
	maxPanelWidth  = 80
	maxPanelHeight = 30
	// title, blank line, footer, border, and padding
	panelChrome = 7
)

// ResultPanel displays the output of a slash command
type ResultPanel struct {
	title   string
	lines   []string
	isError bool
	visible bool
	width   int
	height  int
	scrollY int
}

// NewResultPanel creates a new result panel
func NewResultPanel() *ResultPanel {
	return &ResultPanel{}
}

// Show displays the result panel with content
func (rp *ResultPanel) Show(title, content string, isError bool) {
	rp.title = title
	rp.isError = isError
	rp.visible = true
	rp.scrollY = 0
	rp.lines = strings.Split(strings.TrimRight(content, "\n"), "\n")
}

// Hide hides the result panel
func (rp *ResultPanel) Hide() {
	rp.visible = false
}

// IsVisible returns whether the panel is visible
func (rp *ResultPanel) IsVisible() bool {
	return rp.visible
}

// SetSize sets the screen dimensions the panel is centered in
func (rp *ResultPanel) SetSize(width, height int) {
	rp.width = width
	rp.height = height
	rp.clampScroll()
}

// ResultPanelCloseMsg is sent when the result panel is closed
type ResultPanelCloseMsg struct{}

// Update handles keyboard input for the result panel
func (rp *ResultPanel) Update(msg tea.KeyPressMsg) tea.Cmd {
	if !rp.visible {
		return nil
	}

	switch msg.String() {
	case "esc", "enter", "q":
		rp.Hide()
		return func() tea.Msg {
			return ResultPanelCloseMsg{}
		}
	case "up":
		rp.scrollY--
	case "down":
		rp.scrollY++
	case "pgup":
		rp.scrollY -= rp.visibleLines()
	case "pgdown":
		rp.scrollY += rp.visibleLines()
	}
	rp.clampScroll()
	return nil
}

func (rp *ResultPanel) dimensions() (panelWidth, panelHeight int) {
	panelWidth = rp.width - 4
	if panelWidth > maxPanelWidth {
		panelWidth = maxPanelWidth
	}
	if panelWidth < 20 {
		panelWidth = 20
	}
	panelHeight = rp.height - 2
	if panelHeight > maxPanelHeight {
		panelHeight = maxPanelHeight
	}
	return panelWidth, panelHeight
}

func (rp *ResultPanel) visibleLines() int {
	_, panelHeight := rp.dimensions()
	n := panelHeight - panelChrome
	if n < 1 {
		n = 1
	}
	return n
}

func (rp *ResultPanel) clampScroll() {
	maxScroll := len(rp.lines) - rp.visibleLines()
	if maxScroll < 0 {
		maxScroll = 0
	}
	if rp.scrollY > maxScroll {
		rp.scrollY = maxScroll
	}
	if rp.scrollY < 0 {
		rp.scrollY = 0
	}
}

// View renders the result panel
func (rp *ResultPanel) View(st styles.Styles) string {
	if !rp.visible {
		return ""
	}

	panelWidth, _ := rp.dimensions()
	contentWidth := panelWidth - st.Box.GetHorizontalFrameSize()
	if contentWidth < 1 {
		contentWidth = 1
	}

	contentStyle := st.Text
	titleStyle := st.Title
	if rp.isError {
		contentStyle = st.Error
		titleStyle = st.Error.Bold(true)
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(utils.TruncateToWidth(rp.title, contentWidth)))
	sb.WriteString("\n\n")

	visible := rp.visibleLines()
	end := rp.scrollY + visible
	if end > len(rp.lines) {
		end = len(rp.lines)
	}
	for i := rp.scrollY; i < end; i++ {
		sb.WriteString(contentStyle.Render(utils.TruncateToWidth(rp.lines[i], contentWidth)))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	if len(rp.lines) > visible {
		sb.WriteString(st.Footer.Render("Up/Down Scroll | "))
	}
	sb.WriteString(st.Footer.Render("Esc/q Close"))

	return st.Box.Width(panelWidth).Render(sb.String())
}

// Overlay draws the panel centered on top of background.
func (rp *ResultPanel) Overlay(st styles.Styles, background string) string {
	if !rp.visible {
		return background
	}
	return render.Overlay(background, rp.View(st), rp.width, rp.height)
}
