package welcome

import (
	"fmt"
	"strings"

	"tougpt/pkg/ui/components/utils"
	"tougpt/pkg/ui/styles"
	"tougpt/pkg/version"

	"github.com/mattn/go-runewidth"
)

const maxBoxWidth = 60

type shortcut struct{ key, desc string }

var shortcuts = []shortcut{
	{"Enter", "Send the question"},
	{"Ctrl+N", "New chat"},
	{"Tab", "Switch between chat list and input"},
	{"Ctrl+T", "Toggle light/dark theme"},
	{"Ctrl+Y", "Copy last code block"},
	{"Ctrl+L", "Clear current chat"},
	{"/help", "List slash commands"},
}

// View renders the empty-chat screen: title, example questions, and shortcuts.
// Pressing 1..n in an empty input picks the matching example.
func View(st styles.Styles, examples []string, width int) string {
	boxWidth := width - 2
	if boxWidth > maxBoxWidth {
		boxWidth = maxBoxWidth
	}
	if boxWidth < 20 {
		boxWidth = 20
	}

	makeLine := func(content string, visualWidth int) string {
		pad := boxWidth - visualWidth
		if pad < 0 {
			pad = 0
		}
		border := st.Title.Bold(false)
		return border.Render("│") + content + strings.Repeat(" ", pad) + border.Render("│")
	}
	plainLine := func(text string, style func(...string) string) string {
		text = utils.TruncateToWidth(text, boxWidth)
		return makeLine(style(text), runewidth.StringWidth(text))
	}
	centered := func(text string, style func(...string) string) string {
		text = utils.TruncateToWidth(text, boxWidth)
		w := runewidth.StringWidth(text)
		left := (boxWidth - w) / 2
		return makeLine(strings.Repeat(" ", left)+style(text), left+w)
	}

	border := st.Title.Bold(false)
	top := border.Render("╭" + strings.Repeat("─", boxWidth) + "╮")
	bottom := border.Render("╰" + strings.Repeat("─", boxWidth) + "╯")
	empty := makeLine("", 0)

	var lines []string
	lines = append(lines, top)
	lines = append(lines, centered("Ask me anything about the university", st.Title.Render))
	lines = append(lines, empty)

	if len(examples) > 0 {
		lines = append(lines, plainLine("  Try one of these:", st.TextMuted.Render))
		for i, ex := range examples {
			key := fmt.Sprintf("    %d  ", i+1)
			text := utils.TruncateToWidth(ex, boxWidth-runewidth.StringWidth(key))
			lines = append(lines, makeLine(
				st.KeyHint.Render(key)+st.Text.Render(text),
				runewidth.StringWidth(key)+runewidth.StringWidth(text)))
		}
		lines = append(lines, empty)
	}

	lines = append(lines, plainLine("  Shortcuts:", st.TextMuted.Render))
	for _, s := range shortcuts {
		key := fmt.Sprintf("    %-8s", s.key)
		desc := utils.TruncateToWidth(s.desc, boxWidth-runewidth.StringWidth(key))
		lines = append(lines, makeLine(
			st.KeyHint.Render(key)+st.Text.Render(desc),
			runewidth.StringWidth(key)+runewidth.StringWidth(desc)))
	}

	lines = append(lines, empty)
	lines = append(lines, centered("tougpt "+version.Summary(), st.Footer.Render))
	lines = append(lines, bottom)

	return strings.Join(lines, "\n")
}
