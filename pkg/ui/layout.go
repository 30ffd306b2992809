package ui

import (
	"tougpt/pkg/ui/render"
)

const (
	chatListWidth    = 28
	minWidthForList  = 72
	statusBarHeight  = 1
	separatorHeight  = 1
	maxComposerLines = 5
	paneBorder       = 2
)

// Layout holds the computed sizes of every region, outer dimensions.
type Layout struct {
	ShowList     bool
	ListWidth    int
	MainWidth    int
	BodyHeight   int
	BannerHeight int
	ComposerRows int
}

// TranscriptSize is the area inside the main pane border
func (l Layout) TranscriptSize() (int, int) {
	w := l.MainWidth - paneBorder
	h := l.BodyHeight - paneBorder
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// LayoutManager handles the overall UI layout
type LayoutManager struct {
	width  int
	height int
}

// NewLayoutManager creates a new layout manager
func NewLayoutManager() *LayoutManager {
	return &LayoutManager{
		width:  80,
		height: 24,
	}
}

// SetSize updates the layout dimensions
func (lm *LayoutManager) SetSize(width, height int) {
	lm.width = width
	lm.height = height
}

// GetDimensions returns current width and height
func (lm *LayoutManager) GetDimensions() (width, height int) {
	return lm.width, lm.height
}

// Compute splits the screen: chat list on the left when there is room,
// transcript on the right, then the banner, the composer, and the status bar.
func (lm *LayoutManager) Compute(composerLines int, banner bool) Layout {
	if composerLines < 1 {
		composerLines = 1
	}
	if composerLines > maxComposerLines {
		composerLines = maxComposerLines
	}

	l := Layout{ComposerRows: composerLines, MainWidth: lm.width}
	if banner {
		l.BannerHeight = 1
	}
	if lm.width >= minWidthForList {
		l.ShowList = true
		l.ListWidth = chatListWidth
		l.MainWidth = lm.width - chatListWidth
	}

	reserved := statusBarHeight + l.BannerHeight + separatorHeight + composerLines
	l.BodyHeight = render.BodyHeight(lm.height, reserved)
	return l
}
