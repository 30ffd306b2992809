package chatlist

import (
	"fmt"
	"strings"

	"tougpt/pkg/chat"
	"tougpt/pkg/ui/components/utils"
	"tougpt/pkg/ui/styles"

	tea "charm.land/bubbletea/v2"
)

const footerLabel = "Enter open | d delete | n new"

// SelectChatMsg asks the model to activate a chat.
type SelectChatMsg struct{ ID string }

// DeleteChatMsg asks the model to delete a chat.
type DeleteChatMsg struct{ ID string }

// NewChatMsg asks the model to create a chat.
type NewChatMsg struct{}

// ChatList is the left-hand list of conversations, newest first.
type ChatList struct {
	chats    []chat.Chat
	activeID string
	selected int
	scroll   int
	focused  bool
	width    int
	height   int
}

// NewChatList creates an empty list
func NewChatList() *ChatList {
	return &ChatList{}
}

// SetChats replaces the list contents. The cursor follows the active chat.
func (l *ChatList) SetChats(chats []chat.Chat, activeID string) {
	l.chats = chats
	l.activeID = activeID
	for i, c := range chats {
		if c.ID == activeID {
			l.selected = i
			break
		}
	}
	l.ensureVisible()
}

// SetSize sets the outer dimensions including the border.
func (l *ChatList) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.ensureVisible()
}

func (l *ChatList) Focus()          { l.focused = true }
func (l *ChatList) Blur()           { l.focused = false }
func (l *ChatList) IsFocused() bool { return l.focused }

// Selected returns the chat under the cursor
func (l *ChatList) Selected() (chat.Chat, bool) {
	if l.selected < 0 || l.selected >= len(l.chats) {
		return chat.Chat{}, false
	}
	return l.chats[l.selected], true
}

// Update handles keyboard input while the list is focused.
func (l *ChatList) Update(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if l.selected > 0 {
			l.selected--
		}
		l.ensureVisible()
	case "down", "j":
		if l.selected < len(l.chats)-1 {
			l.selected++
		}
		l.ensureVisible()
	case "home":
		l.selected = 0
		l.ensureVisible()
	case "end":
		l.selected = len(l.chats) - 1
		l.ensureVisible()
	case "enter":
		if c, ok := l.Selected(); ok {
			return func() tea.Msg { return SelectChatMsg{ID: c.ID} }
		}
	case "d", "delete":
		if c, ok := l.Selected(); ok {
			return func() tea.Msg { return DeleteChatMsg{ID: c.ID} }
		}
	case "n":
		return func() tea.Msg { return NewChatMsg{} }
	}
	return nil
}

// View renders the list inside a rounded border.
func (l *ChatList) View(st styles.Styles) string {
	contentWidth, listHeight := l.inner()

	lines := make([]string, 0, listHeight+2)
	lines = append(lines, utils.PadStyled(st.Title.Render(utils.TruncateToWidth(fmt.Sprintf("Chats (%d)", len(l.chats)), contentWidth)), contentWidth))

	for i := 0; i < listHeight; i++ {
		index := l.scroll + i
		if index >= len(l.chats) {
			lines = append(lines, strings.Repeat(" ", contentWidth))
			continue
		}
		c := l.chats[index]

		marker := "  "
		if c.ID == l.activeID {
			marker = "> "
		}
		title := utils.SingleLine(c.Title)
		line := utils.PadPlain(marker+utils.TruncateToWidth(title, contentWidth-2), contentWidth)

		switch {
		case index == l.selected && l.focused:
			lines = append(lines, st.Selected.Render(line))
		case c.ID == l.activeID:
			lines = append(lines, st.ActiveItem.Render(line))
		default:
			lines = append(lines, st.Text.Render(line))
		}
	}

	footer := ""
	if l.focused {
		footer = utils.TruncateToWidth(footerLabel, contentWidth)
	}
	lines = append(lines, utils.PadStyled(st.Footer.Render(footer), contentWidth))

	pane := st.Pane
	if l.focused {
		pane = st.PaneFocused
	}
	return pane.Render(strings.Join(lines, "\n"))
}

// inner returns the usable width and the number of list rows
// (height minus border, title, and footer).
func (l *ChatList) inner() (int, int) {
	contentWidth := l.width - 2
	if contentWidth < 4 {
		contentWidth = 4
	}
	listHeight := l.height - 4
	if listHeight < 1 {
		listHeight = 1
	}
	return contentWidth, listHeight
}

func (l *ChatList) ensureVisible() {
	if len(l.chats) == 0 {
		l.selected = 0
		l.scroll = 0
		return
	}
	if l.selected < 0 {
		l.selected = 0
	}
	if l.selected >= len(l.chats) {
		l.selected = len(l.chats) - 1
	}

	_, listHeight := l.inner()
	maxScroll := len(l.chats) - listHeight
	if maxScroll < 0 {
		maxScroll = 0
	}
	if l.scroll > maxScroll {
		l.scroll = maxScroll
	}
	if l.selected < l.scroll {
		l.scroll = l.selected
	}
	if l.selected >= l.scroll+listHeight {
		l.scroll = l.selected - listHeight + 1
	}
	if l.scroll < 0 {
		l.scroll = 0
	}
}
