package settings

import (
	"fmt"
	"strings"

	"tougpt/pkg/settings"
	"tougpt/pkg/ui/components/picker"
	"tougpt/pkg/ui/render"
	"tougpt/pkg/ui/styles"

	tea "charm.land/bubbletea/v2"
)

const (
	fieldAPIKey = "api_key"
	fieldTheme  = "theme"
	fieldServer = "server"

	minBoxWidth = 40
	maxBoxWidth = 76
)

// SettingField represents a single editable setting
type SettingField struct {
	Label    string
	Key      string
	Value    string
	ReadOnly bool
	Masked   bool // For sensitive fields like API key
}

// SettingsPanel edits the user preferences: API key and theme.
type SettingsPanel struct {
	theme      settings.Theme
	apiKey     string
	serverURL  string
	fields     []SettingField
	selected   int
	editing    bool
	editValue  string
	editCursor int
	changed    bool
	width      int
	height     int
	visible    bool
	warning    string
}

// NewSettingsPanel creates a new settings panel
func NewSettingsPanel() *SettingsPanel {
	return &SettingsPanel{}
}

// Show displays the panel with the current preferences
func (sp *SettingsPanel) Show(theme settings.Theme, apiKey, serverURL string) {
	sp.theme = theme
	sp.apiKey = apiKey
	sp.serverURL = serverURL
	sp.visible = true
	sp.selected = 0
	sp.editing = false
	sp.changed = false
	sp.warning = ""
	sp.buildFields()
}

func (sp *SettingsPanel) buildFields() {
	sp.fields = []SettingField{
		{Label: "API key", Key: fieldAPIKey, Value: sp.apiKey, Masked: true},
		{Label: "Theme", Key: fieldTheme, Value: string(sp.theme)},
		{Label: "Server", Key: fieldServer, Value: sp.serverURL, ReadOnly: true},
	}
}

// Hide hides the panel
func (sp *SettingsPanel) Hide() {
	sp.visible = false
	sp.editing = false
}

// IsVisible returns whether the panel is visible
func (sp *SettingsPanel) IsVisible() bool {
	return sp.visible
}

// SetSize sets the area the panel is centered in
func (sp *SettingsPanel) SetSize(width, height int) {
	sp.width = width
	sp.height = height
}

// HasChanges returns whether settings have been modified
func (sp *SettingsPanel) HasChanges() bool {
	return sp.changed
}

// SettingsSaveMsg is sent when the edited preferences should be saved
type SettingsSaveMsg struct {
	Theme  settings.Theme
	APIKey string
}

// SettingsCloseMsg is sent when the panel closes without changes
type SettingsCloseMsg struct{}

// Update handles keyboard input for the settings panel
func (sp *SettingsPanel) Update(msg tea.KeyPressMsg) tea.Cmd {
	if !sp.visible {
		return nil
	}
	if sp.editing {
		return sp.handleEditMode(msg)
	}

	switch msg.String() {
	case "up":
		if sp.selected > 0 {
			sp.selected--
		}
		return nil

	case "down":
		if sp.selected < len(sp.fields)-1 {
			sp.selected++
		}
		return nil

	case "enter":
		field := &sp.fields[sp.selected]
		if field.ReadOnly {
			return nil
		}
		if field.Key == fieldTheme {
			current := string(sp.theme)
			return func() tea.Msg {
				return picker.OpenOptionPickerMsg{
					Title:    "Theme",
					FieldKey: fieldTheme,
					Options:  []string{string(settings.ThemeDark), string(settings.ThemeLight)},
					Current:  current,
				}
			}
		}
		sp.editing = true
		sp.editValue = field.Value
		sp.editCursor = len([]rune(sp.editValue))
		return nil

	case "esc", "q":
		if sp.changed {
			return sp.saveAndClose()
		}
		sp.Hide()
		return func() tea.Msg {
			return SettingsCloseMsg{}
		}

	case "s":
		if sp.changed {
			return sp.saveAndClose()
		}
		return nil
	}

	return nil
}

// handleEditMode handles input when editing a field
func (sp *SettingsPanel) handleEditMode(msg tea.KeyPressMsg) tea.Cmd {
	key := msg.Key()

	switch msg.String() {
	case "enter":
		field := &sp.fields[sp.selected]
		field.Value = strings.TrimSpace(sp.editValue)
		sp.applyField(field)
		sp.editing = false
		return nil

	case "esc":
		sp.editing = false
		return nil

	case "backspace":
		runes := []rune(sp.editValue)
		if sp.editCursor > len(runes) {
			sp.editCursor = len(runes)
		}
		if sp.editCursor > 0 {
			runes = append(runes[:sp.editCursor-1], runes[sp.editCursor:]...)
			sp.editCursor--
			sp.editValue = string(runes)
		}
		return nil

	case "delete":
		runes := []rune(sp.editValue)
		if sp.editCursor < len(runes) {
			runes = append(runes[:sp.editCursor], runes[sp.editCursor+1:]...)
			sp.editValue = string(runes)
		}
		return nil

	case "left":
		if sp.editCursor > 0 {
			sp.editCursor--
		}
		return nil

	case "right":
		if sp.editCursor < len([]rune(sp.editValue)) {
			sp.editCursor++
		}
		return nil

	case "home", "ctrl+a":
		sp.editCursor = 0
		return nil

	case "end", "ctrl+e":
		sp.editCursor = len([]rune(sp.editValue))
		return nil

	case "ctrl+u":
		sp.editValue = ""
		sp.editCursor = 0
		return nil
	}

	if key.Text != "" {
		sp.insert(key.Text)
	}
	return nil
}

// HandlePaste inserts pasted text into the field being edited
func (sp *SettingsPanel) HandlePaste(content string) {
	if sp.visible && sp.editing {
		sp.insert(content)
	}
}

func (sp *SettingsPanel) insert(text string) {
	filtered := make([]rune, 0, len(text))
	for _, r := range text {
		if r != '\n' && r != '\r' {
			filtered = append(filtered, r)
		}
	}
	if len(filtered) == 0 {
		return
	}
	runes := []rune(sp.editValue)
	if sp.editCursor > len(runes) {
		sp.editCursor = len(runes)
	}
	runes = append(runes[:sp.editCursor], append(filtered, runes[sp.editCursor:]...)...)
	sp.editCursor += len(filtered)
	sp.editValue = string(runes)
}

func (sp *SettingsPanel) applyField(field *SettingField) {
	switch field.Key {
	case fieldAPIKey:
		if field.Value != sp.apiKey {
			sp.apiKey = field.Value
			sp.changed = true
		}
		sp.warning = ""
		if sp.apiKey != "" && !settings.LooksValidAPIKey(sp.apiKey) {
			sp.warning = "This does not look like a valid API key"
		}
	case fieldTheme:
		if theme, err := settings.ParseTheme(field.Value); err == nil && theme != sp.theme {
			sp.theme = theme
			sp.changed = true
		}
	}
}

// SetThemeValue applies a theme chosen in the option picker
func (sp *SettingsPanel) SetThemeValue(value string) {
	for i := range sp.fields {
		if sp.fields[i].Key == fieldTheme {
			sp.fields[i].Value = value
			sp.applyField(&sp.fields[i])
			return
		}
	}
}

func (sp *SettingsPanel) saveAndClose() tea.Cmd {
	theme, key := sp.theme, sp.apiKey
	sp.Hide()
	return func() tea.Msg {
		return SettingsSaveMsg{Theme: theme, APIKey: key}
	}
}

// View renders the settings panel
func (sp *SettingsPanel) View(st styles.Styles) string {
	if !sp.visible {
		return ""
	}

	boxWidth := sp.width - 4
	if boxWidth > maxBoxWidth {
		boxWidth = maxBoxWidth
	}
	if boxWidth < minBoxWidth {
		boxWidth = minBoxWidth
	}

	var content strings.Builder
	content.WriteString(st.Title.Render("Settings"))
	content.WriteString("\n\n")

	for i, field := range sp.fields {
		label := fmt.Sprintf("%-8s", field.Label+":")

		var value string
		switch {
		case sp.editing && i == sp.selected:
			value = renderEditValue(sp.editValue, sp.editCursor)
		case field.Masked && field.Value != "":
			value = maskValue(field.Value)
		case field.Value == "":
			value = "(not set)"
		default:
			value = field.Value
		}

		switch {
		case i == sp.selected && sp.editing:
			content.WriteString("▶ " + st.TextBold.Render(label) + " " + st.ActiveItem.Render(value))
		case i == sp.selected:
			content.WriteString(st.Selected.Render("  " + label + " " + value + " "))
		case field.ReadOnly:
			content.WriteString("  " + st.TextMuted.Render(label+" "+value))
		default:
			content.WriteString("  " + st.TextBold.Render(label) + " " + st.Text.Render(value))
		}
		content.WriteString("\n")
	}

	if sp.warning != "" {
		content.WriteString("\n")
		content.WriteString(st.Warning.Render("! " + sp.warning))
		content.WriteString("\n")
	}

	content.WriteString("\n")
	content.WriteString(st.Footer.Render(sp.footer()))

	return st.Box.Width(boxWidth).Render(content.String())
}

func (sp *SettingsPanel) footer() string {
	if sp.editing {
		return "Enter: Confirm • Esc: Cancel"
	}
	action := "Edit"
	if sp.selectedFieldKey() == fieldTheme {
		action = "Pick"
	}
	if sp.changed {
		return "↑↓ Navigate • Enter: " + action + " • s: Save • Esc: Save & Close"
	}
	return "↑↓ Navigate • Enter: " + action + " • Esc: Close"
}

// Overlay draws the panel centered on top of background
func (sp *SettingsPanel) Overlay(st styles.Styles, background string) string {
	if !sp.visible {
		return background
	}
	return render.Overlay(background, sp.View(st), sp.width, sp.height)
}

func (sp *SettingsPanel) selectedFieldKey() string {
	if sp.selected < 0 || sp.selected >= len(sp.fields) {
		return ""
	}
	return sp.fields[sp.selected].Key
}

func maskValue(value string) string {
	runes := []rune(value)
	if len(runes) <= 8 {
		return strings.Repeat("•", len(runes))
	}
	return string(runes[:4]) + strings.Repeat("•", len(runes)-8) + string(runes[len(runes)-4:])
}

func renderEditValue(value string, cursor int) string {
	runes := []rune(value)
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(runes) {
		cursor = len(runes)
	}
	withCursor := make([]rune, 0, len(runes)+1)
	withCursor = append(withCursor, runes[:cursor]...)
	withCursor = append(withCursor, '█')
	withCursor = append(withCursor, runes[cursor:]...)
	return string(withCursor)
}
