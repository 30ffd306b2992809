package ui

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"tougpt/pkg/ui/components/transcript"

	osc52 "github.com/aymanbagabas/go-osc52/v2"
	"github.com/atotto/clipboard"
	tea "charm.land/bubbletea/v2"
)

type clipboardResultMsg struct {
	method string
	err    error
}

// Replaced in tests.
var (
	writeClipboard           = clipboard.WriteAll
	osc52Writer    io.Writer = os.Stdout
)

func (m *Model) copyLastCode() tea.Cmd {
	block, ok := transcript.LastCodeBlock(m.manager.ActiveChat().Messages)
	if !ok {
		m.notice = "No code block to copy"
		m.sync()
		return nil
	}
	return copyToClipboard(block.Code)
}

// copyToClipboard writes text to the system clipboard and falls back to an
// OSC 52 sequence when no clipboard utility is available.
func copyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		err := writeClipboard(text)
		if err == nil {
			return clipboardResultMsg{method: "clipboard"}
		}
		slog.Debug("clipboard_unavailable", "error", err)

		if _, err := fmt.Fprint(osc52Writer, osc52.New(text)); err != nil {
			return clipboardResultMsg{method: "osc52", err: err}
		}
		return clipboardResultMsg{method: "osc52"}
	}
}
