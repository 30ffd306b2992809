package chatlist

import (
	"fmt"
	"strings"
	"testing"

	"tougpt/pkg/chat"
	"tougpt/pkg/settings"
	"tougpt/pkg/ui/components/testutils"
	"tougpt/pkg/ui/styles"

	"github.com/charmbracelet/x/ansi"
)

func sampleChats(n int) []chat.Chat {
	chats := make([]chat.Chat, n)
	for i := range chats {
		chats[i] = chat.Chat{ID: fmt.Sprintf("c%d", i), Title: fmt.Sprintf("Chat number %d", i)}
	}
	return chats
}

func TestSetChats_CursorFollowsActive(t *testing.T) {
	l := NewChatList()
	l.SetSize(30, 20)
	l.SetChats(sampleChats(5), "c3")

	if l.selected != 3 {
		t.Fatalf("Expected cursor on active chat, got %d", l.selected)
	}
}

func TestUpdate_NavigateAndSelect(t *testing.T) {
	l := NewChatList()
	l.SetSize(30, 20)
	l.SetChats(sampleChats(3), "c0")
	l.Focus()

	l.Update(testutils.TestKeyDown)
	l.Update(testutils.TestKeyDown)
	l.Update(testutils.TestKeyDown) // clamps at the end

	cmd := l.Update(testutils.TestKeyEnter)
	if cmd == nil {
		t.Fatal("Expected command on enter")
	}
	msg, ok := cmd().(SelectChatMsg)
	if !ok {
		t.Fatalf("Expected SelectChatMsg, got %T", cmd())
	}
	if msg.ID != "c2" {
		t.Errorf("Expected c2, got %q", msg.ID)
	}

	l.Update(testutils.TestKeyUp)
	if c, _ := l.Selected(); c.ID != "c1" {
		t.Errorf("Expected c1 after up, got %q", c.ID)
	}
}

func TestUpdate_DeleteAndNew(t *testing.T) {
	l := NewChatList()
	l.SetSize(30, 20)
	l.SetChats(sampleChats(2), "c1")

	cmd := l.Update(testutils.NewTextKeyPressMsg("d"))
	if del, ok := cmd().(DeleteChatMsg); !ok || del.ID != "c1" {
		t.Errorf("Expected DeleteChatMsg for c1, got %#v", cmd())
	}

	cmd = l.Update(testutils.NewTextKeyPressMsg("n"))
	if _, ok := cmd().(NewChatMsg); !ok {
		t.Errorf("Expected NewChatMsg, got %#v", cmd())
	}
}

func TestView_ScrollsToKeepCursorVisible(t *testing.T) {
	l := NewChatList()
	l.SetSize(30, 8) // four list rows
	l.SetChats(sampleChats(10), "c9")

	out := ansi.Strip(l.View(styles.New(settings.ThemeDark)))
	if !strings.Contains(out, "Chat number 9") {
		t.Errorf("Expected active chat visible, got:\n%s", out)
	}
	if strings.Contains(out, "Chat number 0") {
		t.Errorf("Expected first chat scrolled out, got:\n%s", out)
	}
	if !strings.Contains(out, "Chats (10)") {
		t.Error("Expected chat count in title")
	}
}

func TestView_TruncatesLongTitles(t *testing.T) {
	l := NewChatList()
	l.SetSize(20, 10)
	l.SetChats([]chat.Chat{{ID: "a", Title: strings.Repeat("x", 50)}}, "a")

	out := ansi.Strip(l.View(styles.New(settings.ThemeLight)))
	for _, line := range strings.Split(out, "\n") {
		if w := ansi.StringWidth(line); w != 20 {
			t.Errorf("Expected every line 20 wide, got %d: %q", w, line)
		}
	}
	if !strings.Contains(out, "...") {
		t.Error("Expected ellipsis for long title")
	}
}
