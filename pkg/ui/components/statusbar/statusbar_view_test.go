package statusbar

import (
	"strings"
	"testing"

	"tougpt/pkg/settings"
	"tougpt/pkg/ui/styles"

	"github.com/charmbracelet/x/ansi"
)

func testStyles() styles.Styles {
	return styles.New(settings.ThemeDark)
}

func TestNewStatusBarView(t *testing.T) {
	sb := NewStatusBarView()
	if sb == nil {
		t.Fatal("NewStatusBarView() returned nil")
	}
	if sb.width != 80 {
		t.Errorf("Expected default width 80, got %d", sb.width)
	}
}

func TestStatusBarView_Render(t *testing.T) {
	sb := NewStatusBarView()
	sb.SetWidth(100)
	sb.SetChatTitle("Where is the library?")
	sb.SetServer("http://127.0.0.1:8000")
	sb.SetTheme("dark")

	stripped := ansi.Strip(sb.Render(testStyles()))

	for _, want := range []string{"[tougpt]", "Where is the library?", "http://127.0.0.1:8000", "theme: dark", "/help"} {
		if !strings.Contains(stripped, want) {
			t.Errorf("Expected %q in status bar, got %q", want, stripped)
		}
	}
	if width := ansi.StringWidth(stripped); width != 100 {
		t.Errorf("Expected width 100, got %d", width)
	}
}

func TestStatusBarView_MessageReplacesTitle(t *testing.T) {
	sb := NewStatusBarView()
	sb.SetWidth(100)
	sb.SetChatTitle("Old title")
	sb.SetServer("http://localhost")
	sb.SetMessage("Copied code block")

	stripped := ansi.Strip(sb.Render(testStyles()))
	if !strings.Contains(stripped, "Copied code block") {
		t.Error("Expected message in rendered output")
	}
	if strings.Contains(stripped, "Old title") || strings.Contains(stripped, "http://localhost") {
		t.Error("Expected message to replace title and server")
	}
}

func TestStatusBarView_LoadingIndicator(t *testing.T) {
	sb := NewStatusBarView()
	sb.SetWidth(100)
	sb.SetLoading(true)

	first := ansi.Strip(sb.Render(testStyles()))
	if !strings.Contains(first, "waiting for answer") {
		t.Fatalf("Expected typing indicator, got %q", first)
	}

	sb.Tick()
	second := ansi.Strip(sb.Render(testStyles()))
	if first == second {
		t.Error("Expected spinner frame to advance")
	}

	sb.SetLoading(false)
	if strings.Contains(ansi.Strip(sb.Render(testStyles())), "waiting for answer") {
		t.Error("Expected indicator hidden when not loading")
	}
}

func TestStatusBarView_KeyWarning(t *testing.T) {
	sb := NewStatusBarView()
	sb.SetWidth(100)
	sb.SetKeyWarning(true)

	if !strings.Contains(ansi.Strip(sb.Render(testStyles())), "check API key") {
		t.Error("Expected API key warning")
	}
}

func TestStatusBarView_Truncation(t *testing.T) {
	sb := NewStatusBarView()
	sb.SetWidth(40)
	sb.SetChatTitle(strings.Repeat("very long title ", 10))

	stripped := ansi.Strip(sb.Render(testStyles()))
	if width := ansi.StringWidth(stripped); width != 40 {
		t.Errorf("Expected width 40, got %d: %q", width, stripped)
	}
	if !strings.Contains(stripped, "...") {
		t.Error("Expected truncation ellipsis")
	}
	if !strings.HasSuffix(strings.TrimSpace(stripped), "/help") {
		t.Errorf("Expected right-aligned hints, got %q", stripped)
	}
}

func TestRenderBanner(t *testing.T) {
	if RenderBanner(testStyles(), "", 80) != "" {
		t.Error("Expected empty banner for empty text")
	}

	out := ansi.Strip(RenderBanner(testStyles(), "No connection to the server.", 80))
	if !strings.Contains(out, "No connection to the server.") {
		t.Errorf("Expected banner text, got %q", out)
	}
	if !strings.Contains(out, "Esc to dismiss") {
		t.Errorf("Expected dismiss hint, got %q", out)
	}
	if width := ansi.StringWidth(out); width != 80 {
		t.Errorf("Expected width 80, got %d", width)
	}
}
