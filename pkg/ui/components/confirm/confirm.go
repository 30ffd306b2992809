package confirm

import (
	"strings"

	"tougpt/pkg/ui/render"
	"tougpt/pkg/ui/styles"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

const (
	footerLabel = "y/Enter Confirm | n/Esc Cancel"
	minBoxWidth = 30
	maxBoxWidth = 60
)

// ResultMsg reports the user's answer. Action echoes the value given to Show.
type ResultMsg struct {
	Action   string
	Accepted bool
}

// Dialog is a modal yes/no prompt.
type Dialog struct {
	prompt  string
	action  string
	visible bool
	width   int
	height  int
}

// NewDialog creates a hidden dialog
func NewDialog() *Dialog {
	return &Dialog{}
}

// Show displays prompt. action identifies what is being confirmed.
func (d *Dialog) Show(prompt, action string) {
	d.prompt = prompt
	d.action = action
	d.visible = true
}

func (d *Dialog) Hide() {
	d.visible = false
}

func (d *Dialog) IsVisible() bool {
	return d.visible
}

// SetSize sets the area the dialog is centered in
func (d *Dialog) SetSize(width, height int) {
	d.width = width
	d.height = height
}

// Update handles keyboard input while visible. Any other key is swallowed.
func (d *Dialog) Update(msg tea.KeyPressMsg) tea.Cmd {
	if !d.visible {
		return nil
	}

	switch strings.ToLower(msg.String()) {
	case "y", "enter":
		return d.answer(true)
	case "n", "esc", "ctrl+c":
		return d.answer(false)
	}
	return nil
}

func (d *Dialog) answer(accepted bool) tea.Cmd {
	action := d.action
	d.Hide()
	return func() tea.Msg {
		return ResultMsg{Action: action, Accepted: accepted}
	}
}

// View renders the dialog box, or "" when hidden.
func (d *Dialog) View(st styles.Styles) string {
	if !d.visible {
		return ""
	}

	boxWidth := d.width - 4
	if boxWidth > maxBoxWidth {
		boxWidth = maxBoxWidth
	}
	if boxWidth < minBoxWidth {
		boxWidth = minBoxWidth
	}
	contentWidth := boxWidth - st.Box.GetHorizontalFrameSize()
	if contentWidth < 1 {
		contentWidth = 1
	}

	var content strings.Builder
	content.WriteString(st.Title.Render("Confirm"))
	content.WriteString("\n\n")
	content.WriteString(st.Text.Render(lipgloss.NewStyle().Width(contentWidth).Render(d.prompt)))
	content.WriteString("\n\n")
	content.WriteString(st.Footer.Render(footerLabel))

	return st.Box.Width(boxWidth).Render(content.String())
}

// Overlay draws the dialog centered on top of background.
func (d *Dialog) Overlay(st styles.Styles, background string) string {
	if !d.visible {
		return background
	}
	return render.Overlay(background, d.View(st), d.width, d.height)
}
