package render

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// CenterRect returns a rectangle centered within the screen bounds.
// Width/height are clamped to the screen size before centering.
func CenterRect(panelW, panelH, screenW, screenH int) (x, y, w, h int) {
	w = panelW
	h = panelH
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	if screenW < 0 {
		screenW = 0
	}
	if screenH < 0 {
		screenH = 0
	}
	if w > screenW {
		w = screenW
	}
	if h > screenH {
		h = screenH
	}
	if screenW > w {
		x = (screenW - w) / 2
	}
	if screenH > h {
		y = (screenH - h) / 2
	}
	return ClampRect(x, y, w, h, screenW, screenH)
}

// ClampRect clamps a rectangle to the screen bounds.
func ClampRect(x, y, w, h, screenW, screenH int) (int, int, int, int) {
	if screenW < 0 {
		screenW = 0
	}
	if screenH < 0 {
		screenH = 0
	}
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	if x > screenW {
		x = screenW
	}
	if y > screenH {
		y = screenH
	}
	if x+w > screenW {
		w = screenW - x
	}
	if y+h > screenH {
		h = screenH - y
	}
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return x, y, w, h
}

// BodyHeight is the height left after reserving rows for fixed bars.
func BodyHeight(height, reserved int) int {
	if height <= reserved {
		return 0
	}
	return height - reserved
}

// Overlay draws panel centered on top of background. Both are newline
// separated; background is treated as screenW x screenH cells.
func Overlay(background, panel string, screenW, screenH int) string {
	if panel == "" || screenW <= 0 || screenH <= 0 {
		return background
	}

	bg := strings.Split(background, "\n")
	for len(bg) < screenH {
		bg = append(bg, "")
	}
	bg = bg[:screenH]

	fg := strings.Split(panel, "\n")
	panelW := 0
	for _, line := range fg {
		if w := ansi.StringWidth(line); w > panelW {
			panelW = w
		}
	}

	x, y, w, h := CenterRect(panelW, len(fg), screenW, screenH)
	for i := 0; i < h; i++ {
		row := bg[y+i]
		if pad := screenW - ansi.StringWidth(row); pad > 0 {
			row += strings.Repeat(" ", pad)
		}
		left := ansi.Truncate(row, x, "")
		right := ansi.TruncateLeft(row, x+w, "")
		mid := ansi.Truncate(fg[i], w, "")
		if pad := w - ansi.StringWidth(mid); pad > 0 {
			mid += strings.Repeat(" ", pad)
		}
		bg[y+i] = left + "\x1b[0m" + mid + "\x1b[0m" + right
	}
	return strings.Join(bg, "\n")
}
