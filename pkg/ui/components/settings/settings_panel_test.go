package settings

import (
	"strings"
	"testing"

	"tougpt/pkg/settings"
	"tougpt/pkg/ui/components/picker"
	"tougpt/pkg/ui/components/testutils"
	"tougpt/pkg/ui/styles"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

const validKey = "AIzaSyA1234567890abcdefghijklmnop"

var testKeyLeft = testutils.NewKeyPressMsg(tea.KeyLeft)

func newShownPanel(t *testing.T) *SettingsPanel {
	t.Helper()
	sp := NewSettingsPanel()
	sp.SetSize(80, 24)
	sp.Show(settings.ThemeDark, validKey, "http://127.0.0.1:8000")
	return sp
}

func TestNewSettingsPanel(t *testing.T) {
	sp := NewSettingsPanel()

	if sp == nil {
		t.Fatal("NewSettingsPanel() returned nil")
	}
	if sp.IsVisible() {
		t.Error("Panel should not be visible initially")
	}
	if sp.View(styles.New(settings.ThemeDark)) != "" {
		t.Error("Hidden panel should render nothing")
	}
}

func TestSettingsPanel_Show(t *testing.T) {
	sp := newShownPanel(t)

	if !sp.IsVisible() {
		t.Error("Panel should be visible after Show()")
	}
	if sp.selected != 0 || sp.editing || sp.HasChanges() {
		t.Error("Show should reset selection, editing and changes")
	}
	if len(sp.fields) != 3 {
		t.Errorf("Expected 3 fields, got %d", len(sp.fields))
	}
}

func TestSettingsPanel_Navigation(t *testing.T) {
	sp := newShownPanel(t)

	sp.Update(testutils.TestKeyDown)
	sp.Update(testutils.TestKeyDown)
	sp.Update(testutils.TestKeyDown)
	if sp.selected != 2 {
		t.Errorf("Expected selected=2, got %d", sp.selected)
	}

	sp.Update(testutils.TestKeyUp)
	sp.Update(testutils.TestKeyUp)
	sp.Update(testutils.TestKeyUp)
	if sp.selected != 0 {
		t.Errorf("Expected selected=0, got %d", sp.selected)
	}
}

func TestSettingsPanel_EditAPIKey(t *testing.T) {
	sp := newShownPanel(t)

	sp.Update(testutils.TestKeyEnter)
	if !sp.editing {
		t.Fatal("Should be in editing mode after Enter")
	}
	if sp.editValue != validKey {
		t.Fatalf("Expected the current key as edit value, got %q", sp.editValue)
	}

	sp.Update(testutils.NewCtrlKeyPressMsg('u'))
	sp.Update(testutils.NewTextKeyPressMsg("abcd"))
	sp.Update(testKeyLeft)
	sp.Update(testKeyLeft)
	sp.Update(testutils.NewTextKeyPressMsg("X"))
	sp.Update(testutils.TestKeyHome)
	sp.Update(testutils.NewTextKeyPressMsg("Z"))
	sp.Update(testutils.TestKeyEnd)
	sp.Update(testutils.TestKeyBackspace)
	if sp.editValue != "ZabXc" {
		t.Fatalf("Expected edit value %q, got %q", "ZabXc", sp.editValue)
	}

	sp.Update(testutils.TestKeyEnter)
	if sp.editing {
		t.Fatal("Enter should leave editing mode")
	}
	if !sp.HasChanges() {
		t.Error("Expected changes after editing the key")
	}
	if sp.warning == "" {
		t.Error("Expected a warning for a malformed key")
	}
}

func TestSettingsPanel_EditCancel(t *testing.T) {
	sp := newShownPanel(t)

	sp.Update(testutils.TestKeyEnter)
	sp.Update(testutils.NewTextKeyPressMsg("zzz"))
	sp.Update(testutils.TestKeyEsc)

	if sp.editing || sp.HasChanges() {
		t.Error("Esc should discard the edit")
	}
	if !sp.IsVisible() {
		t.Error("Esc while editing should keep the panel open")
	}
}

func TestSettingsPanel_PasteIntoField(t *testing.T) {
	sp := newShownPanel(t)

	sp.HandlePaste("ignored")
	if sp.HasChanges() {
		t.Fatal("Paste outside edit mode should be ignored")
	}

	sp.Update(testutils.TestKeyEnter)
	sp.Update(testutils.NewCtrlKeyPressMsg('u'))
	sp.HandlePaste("AIzaSyB\n1234567890abcdefghijklmnop\r\n")
	if sp.editValue != "AIzaSyB1234567890abcdefghijklmnop" {
		t.Fatalf("Expected newlines filtered, got %q", sp.editValue)
	}
	if sp.editCursor != len([]rune(sp.editValue)) {
		t.Fatalf("Expected cursor at end, got %d", sp.editCursor)
	}
}

func TestSettingsPanel_ThemeOpensPicker(t *testing.T) {
	sp := newShownPanel(t)
	sp.Update(testutils.TestKeyDown)

	cmd := sp.Update(testutils.TestKeyEnter)
	if cmd == nil {
		t.Fatal("Expected picker command")
	}
	open, ok := cmd().(picker.OpenOptionPickerMsg)
	if !ok {
		t.Fatalf("Expected OpenOptionPickerMsg, got %T", cmd())
	}
	if open.FieldKey != "theme" || open.Current != "dark" || len(open.Options) != 2 {
		t.Errorf("Unexpected picker request %+v", open)
	}

	sp.SetThemeValue("light")
	if !sp.HasChanges() {
		t.Error("Expected changes after picking a theme")
	}
}

func TestSettingsPanel_ServerIsReadOnly(t *testing.T) {
	sp := newShownPanel(t)
	sp.selected = 2

	if cmd := sp.Update(testutils.TestKeyEnter); cmd != nil {
		t.Error("Expected no command for a read-only field")
	}
	if sp.editing {
		t.Error("Read-only field should not enter edit mode")
	}
}

func TestSettingsPanel_SaveOnClose(t *testing.T) {
	sp := newShownPanel(t)
	sp.SetThemeValue("light")

	cmd := sp.Update(testutils.TestKeyEsc)
	if cmd == nil {
		t.Fatal("Expected save command")
	}
	save, ok := cmd().(SettingsSaveMsg)
	if !ok {
		t.Fatalf("Expected SettingsSaveMsg, got %T", cmd())
	}
	if save.Theme != settings.ThemeLight || save.APIKey != validKey {
		t.Errorf("Unexpected save %+v", save)
	}
	if sp.IsVisible() {
		t.Error("Panel should close after saving")
	}
}

func TestSettingsPanel_CloseWithoutChanges(t *testing.T) {
	sp := newShownPanel(t)

	if cmd := sp.Update(testutils.NewTextKeyPressMsg("s")); cmd != nil {
		t.Error("s without changes should do nothing")
	}
	cmd := sp.Update(testutils.TestKeyEsc)
	if _, ok := cmd().(SettingsCloseMsg); !ok {
		t.Errorf("Expected SettingsCloseMsg, got %T", cmd())
	}
}

func TestSettingsPanel_ViewMasksKey(t *testing.T) {
	st := styles.New(settings.ThemeLight)
	sp := newShownPanel(t)

	view := ansi.Strip(sp.View(st))
	if strings.Contains(view, validKey) {
		t.Error("API key should be masked")
	}
	for _, want := range []string{"Settings", "AIza", "mnop", "dark", "http://127.0.0.1:8000", "Esc: Close"} {
		if !strings.Contains(view, want) {
			t.Errorf("Expected %q in view", want)
		}
	}
}

func TestSettingsPanel_ClampsToSmallWidth(t *testing.T) {
	st := styles.New(settings.ThemeDark)
	sp := newShownPanel(t)
	sp.SetSize(44, 12)

	if got := lipgloss.Width(sp.View(st)); got > 44 {
		t.Fatalf("expected width <= 44, got %d", got)
	}
}

func TestMaskValue(t *testing.T) {
	if got := maskValue("short"); got != "•••••" {
		t.Errorf("maskValue(short) = %q", got)
	}
	if got := maskValue("AIza123456789xyz"); got != "AIza••••••••9xyz" {
		t.Errorf("maskValue = %q", got)
	}
}
