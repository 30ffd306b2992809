package input

import (
	"strings"
	"testing"

	"tougpt/pkg/ui/components/testutils"

	tea "charm.land/bubbletea/v2"
)

func typeInto(t *testing.T, ih *InputHandler, text string) {
	t.Helper()
	for _, msg := range testutils.TypeText(text) {
		if handled, _ := ih.HandleKey(msg); !handled {
			t.Fatalf("Expected %q to be handled", msg.String())
		}
	}
}

func runCmd(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("Expected a command")
	}
	return cmd()
}

func TestNewInputHandler(t *testing.T) {
	ih := NewInputHandler()
	if !ih.Focused() {
		t.Error("Expected composer to start focused")
	}
	if ih.Value() != "" {
		t.Errorf("Expected empty composer, got %q", ih.Value())
	}
}

func TestHandleKey_TypingAndSubmit(t *testing.T) {
	ih := NewInputHandler()
	ih.SetSize(40, 3)
	typeInto(t, ih, "When does the semester start?")

	if ih.Value() != "When does the semester start?" {
		t.Fatalf("Unexpected value %q", ih.Value())
	}

	handled, cmd := ih.HandleKey(testutils.TestKeyEnter)
	if !handled {
		t.Fatal("Expected Enter to be handled")
	}
	msg, ok := runCmd(t, cmd).(SubmitMsg)
	if !ok {
		t.Fatalf("Expected SubmitMsg, got %T", cmd())
	}
	if msg.Text != "When does the semester start?" {
		t.Errorf("Unexpected submitted text %q", msg.Text)
	}
	// Cleared by the owner once the manager accepts the question
	if ih.Value() == "" {
		t.Error("Expected composer to keep text until reset")
	}
}

func TestHandleKey_BlankSubmitIgnored(t *testing.T) {
	ih := NewInputHandler()
	typeInto(t, ih, "   ")

	handled, cmd := ih.HandleKey(testutils.TestKeyEnter)
	if !handled {
		t.Error("Expected Enter to be handled")
	}
	if cmd != nil {
		t.Errorf("Expected no command for blank input, got %T", cmd())
	}
}

func TestHandleKey_BusySuppressesSubmit(t *testing.T) {
	ih := NewInputHandler()
	ih.SetBusy(true)
	typeInto(t, ih, "next question")

	_, cmd := ih.HandleKey(testutils.TestKeyEnter)
	if cmd != nil {
		t.Errorf("Expected no submit while busy, got %T", cmd())
	}
	if ih.Value() != "next question" {
		t.Errorf("Expected typing to continue while busy, got %q", ih.Value())
	}

	ih.SetBusy(false)
	_, cmd = ih.HandleKey(testutils.TestKeyEnter)
	if _, ok := runCmd(t, cmd).(SubmitMsg); !ok {
		t.Error("Expected submit once idle")
	}
}

func TestHandleKey_SlashCommand(t *testing.T) {
	ih := NewInputHandler()
	ih.SetBusy(true)
	typeInto(t, ih, "/theme light")

	_, cmd := ih.HandleKey(testutils.TestKeyEnter)
	msg, ok := runCmd(t, cmd).(CommandSubmittedMsg)
	if !ok {
		t.Fatalf("Expected CommandSubmittedMsg, got %T", cmd())
	}
	if msg.Command != "/theme light" {
		t.Errorf("Unexpected command %q", msg.Command)
	}
	if ih.Value() != "" {
		t.Errorf("Expected composer reset after command, got %q", ih.Value())
	}
}

func TestHandleKey_GlobalShortcuts(t *testing.T) {
	tests := []struct {
		name string
		key  tea.KeyPressMsg
		want tea.Msg
	}{
		{"ctrl+c", testutils.TestKeyCtrlC, QuitMsg{}},
		{"ctrl+d", testutils.TestKeyCtrlD, QuitMsg{}},
		{"ctrl+n", testutils.TestKeyCtrlN, NewChatMsg{}},
		{"ctrl+l", testutils.TestKeyCtrlL, ClearChatMsg{}},
		{"ctrl+t", testutils.TestKeyCtrlT, ToggleThemeMsg{}},
		{"ctrl+y", testutils.TestKeyCtrlY, CopyCodeMsg{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ih := NewInputHandler()
			ih.Blur()
			handled, cmd := ih.HandleKey(tt.key)
			if !handled {
				t.Fatal("Expected shortcut to be handled without focus")
			}
			if got := runCmd(t, cmd); got != tt.want {
				t.Errorf("Expected %T, got %T", tt.want, got)
			}
		})
	}
}

func TestHandleKey_CtrlDWithTextIsNotQuit(t *testing.T) {
	ih := NewInputHandler()
	typeInto(t, ih, "draft")

	handled, _ := ih.HandleKey(testutils.TestKeyCtrlD)
	if handled {
		t.Error("Expected Ctrl+D with text not to quit")
	}
}

func TestHandleKey_UnfocusedIgnoresTyping(t *testing.T) {
	ih := NewInputHandler()
	ih.Blur()

	handled, _ := ih.HandleKey(testutils.NewTextKeyPressMsg("x"))
	if handled {
		t.Error("Expected typing to be ignored without focus")
	}
	if ih.Value() != "" {
		t.Errorf("Expected empty composer, got %q", ih.Value())
	}
}

func TestHandleKey_ExampleShortcuts(t *testing.T) {
	ih := NewInputHandler()
	ih.SetExampleCount(3)

	_, cmd := ih.HandleKey(testutils.NewTextKeyPressMsg("2"))
	msg, ok := runCmd(t, cmd).(ExampleMsg)
	if !ok || msg.Index != 1 {
		t.Fatalf("Expected ExampleMsg{1}, got %#v", cmd())
	}

	// Out of range digits are typed normally
	ih.HandleKey(testutils.NewTextKeyPressMsg("4"))
	if ih.Value() != "4" {
		t.Fatalf("Expected digit typed, got %q", ih.Value())
	}

	// Once there is text, digits are typed normally
	_, cmd = ih.HandleKey(testutils.NewTextKeyPressMsg("1"))
	if ih.Value() != "41" {
		t.Errorf("Expected digits typed, got %q", ih.Value())
	}
	if cmd != nil {
		if _, isExample := cmd().(ExampleMsg); isExample {
			t.Error("Expected no example shortcut with text present")
		}
	}
}

func TestHandleKey_ShiftEnterInsertsNewline(t *testing.T) {
	ih := NewInputHandler()
	ih.SetSize(40, 4)
	typeInto(t, ih, "line one")
	ih.HandleKey(tea.KeyPressMsg(tea.Key{Code: tea.KeyEnter, Mod: tea.ModShift}))
	typeInto(t, ih, "line two")

	if ih.Value() != "line one\nline two" {
		t.Errorf("Unexpected value %q", ih.Value())
	}
	if ih.Lines() != 2 {
		t.Errorf("Expected composer to grow to 2 lines, got %d", ih.Lines())
	}
}

func TestHandlePaste_TruncatesToLimit(t *testing.T) {
	ih := NewInputHandler()
	ih.SetSize(80, 3)
	ih.HandlePaste(strings.Repeat("a", MaxInputLength+500))

	if got := len([]rune(ih.Value())); got != MaxInputLength {
		t.Errorf("Expected %d runes, got %d", MaxInputLength, got)
	}

	ih.HandlePaste("more")
	if got := len([]rune(ih.Value())); got != MaxInputLength {
		t.Errorf("Expected paste past the limit to be ignored, got %d runes", got)
	}
}

func TestSetValueAndReset(t *testing.T) {
	ih := NewInputHandler()
	ih.SetValue("restored draft")
	if ih.Value() != "restored draft" {
		t.Errorf("Unexpected value %q", ih.Value())
	}
	ih.Reset()
	if ih.Value() != "" {
		t.Errorf("Expected reset composer, got %q", ih.Value())
	}
}
