// Package styles provides the light and dark style sets for the tougpt UI.
package styles

import (
	"image/color"

	"tougpt/pkg/settings"

	"charm.land/lipgloss/v2"
)

// Palette is the set of colors one theme uses
type Palette struct {
	Accent      color.Color
	Text        color.Color
	TextMuted   color.Color
	TextBright  color.Color
	Error       color.Color
	Warning     color.Color
	Success     color.Color
	Code        color.Color
	CodeBg      color.Color
	Placeholder color.Color
	Border      color.Color
	BorderMuted color.Color
	StatusFg    color.Color
	StatusBg    color.Color
	UserLabel   color.Color
}

// Dark palette - ANSI 256 colors on a dark terminal background
var Dark = Palette{
	Accent:      lipgloss.Color("141"),
	Text:        lipgloss.Color("252"),
	TextMuted:   lipgloss.Color("245"),
	TextBright:  lipgloss.Color("15"),
	Error:       lipgloss.Color("196"),
	Warning:     lipgloss.Color("214"),
	Success:     lipgloss.Color("42"),
	Code:        lipgloss.Color("213"),
	CodeBg:      lipgloss.Color("235"),
	Placeholder: lipgloss.Color("240"),
	Border:      lipgloss.Color("141"),
	BorderMuted: lipgloss.Color("62"),
	StatusFg:    lipgloss.Color("#FAFAFA"),
	StatusBg:    lipgloss.Color("#7D56F4"),
	UserLabel:   lipgloss.Color("222"),
}

// Light palette - darker foregrounds for light terminal backgrounds
var Light = Palette{
	Accent:      lipgloss.Color("55"),
	Text:        lipgloss.Color("235"),
	TextMuted:   lipgloss.Color("242"),
	TextBright:  lipgloss.Color("16"),
	Error:       lipgloss.Color("160"),
	Warning:     lipgloss.Color("130"),
	Success:     lipgloss.Color("28"),
	Code:        lipgloss.Color("90"),
	CodeBg:      lipgloss.Color("254"),
	Placeholder: lipgloss.Color("246"),
	Border:      lipgloss.Color("99"),
	BorderMuted: lipgloss.Color("146"),
	StatusFg:    lipgloss.Color("#1A1A1A"),
	StatusBg:    lipgloss.Color("#C9B8FF"),
	UserLabel:   lipgloss.Color("94"),
}

// PaletteFor returns the palette of theme
func PaletteFor(theme settings.Theme) Palette {
	if theme == settings.ThemeLight {
		return Light
	}
	return Dark
}

// Styles holds every style the components render with
type Styles struct {
	Theme   settings.Theme
	Palette Palette

	// Box is the default rounded box for overlays and panels
	Box lipgloss.Style
	// Pane is the border around the chat list and the transcript
	Pane        lipgloss.Style
	PaneFocused lipgloss.Style

	Title     lipgloss.Style
	Text      lipgloss.Style
	TextMuted lipgloss.Style
	TextBold  lipgloss.Style

	Selected    lipgloss.Style
	ActiveItem  lipgloss.Style
	Placeholder lipgloss.Style

	Error   lipgloss.Style
	Warning lipgloss.Style
	Banner  lipgloss.Style
	Footer  lipgloss.Style

	Code lipgloss.Style

	UserLabel      lipgloss.Style
	AssistantLabel lipgloss.Style

	StatusBar lipgloss.Style
	KeyHint   lipgloss.Style
}

// New builds the style set for theme
func New(theme settings.Theme) Styles {
	if theme != settings.ThemeLight {
		theme = settings.ThemeDark
	}
	p := PaletteFor(theme)

	return Styles{
		Theme:   theme,
		Palette: p,

		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(1, 2),
		Pane: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.BorderMuted),
		PaneFocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border),

		Title: lipgloss.NewStyle().
			Foreground(p.Accent).
			Bold(true),
		Text: lipgloss.NewStyle().
			Foreground(p.Text),
		TextMuted: lipgloss.NewStyle().
			Foreground(p.TextMuted).
			Italic(true),
		TextBold: lipgloss.NewStyle().
			Foreground(p.Text).
			Bold(true),

		Selected: lipgloss.NewStyle().
			Foreground(p.TextBright).
			Background(p.Accent).
			Bold(true),
		ActiveItem: lipgloss.NewStyle().
			Foreground(p.Accent).
			Bold(true),
		Placeholder: lipgloss.NewStyle().
			Foreground(p.Placeholder).
			Italic(true),

		Error: lipgloss.NewStyle().
			Foreground(p.Error),
		Warning: lipgloss.NewStyle().
			Foreground(p.Warning).
			Bold(true),
		Banner: lipgloss.NewStyle().
			Foreground(p.TextBright).
			Background(p.Error).
			Padding(0, 1),
		Footer: lipgloss.NewStyle().
			Foreground(p.TextMuted).
			Italic(true),

		Code: lipgloss.NewStyle().
			Foreground(p.Code).
			Background(p.CodeBg),

		UserLabel: lipgloss.NewStyle().
			Foreground(p.UserLabel).
			Bold(true),
		AssistantLabel: lipgloss.NewStyle().
			Foreground(p.Accent).
			Bold(true),

		StatusBar: lipgloss.NewStyle().
			Foreground(p.StatusFg).
			Background(p.StatusBg).
			Padding(0, 1).
			Bold(true),
		KeyHint: lipgloss.NewStyle().
			Foreground(p.Warning).
			Bold(true),
	}
}

// GlamourStyle names the glamour standard style matching the theme
func (s Styles) GlamourStyle() string {
	if s.Theme == settings.ThemeLight {
		return "light"
	}
	return "dark"
}
