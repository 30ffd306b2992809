package utils

import (
	"strings"
	"testing"
)

func TestTruncateToWidth(t *testing.T) {
	tests := []struct {
		text  string
		width int
		want  string
	}{
		{"hello", 10, "hello"},
		{"hello world", 8, "hello..."},
		{"hello", 0, ""},
		{"hello", 2, "he"},
		{"日本語テキスト", 7, "日本..."},
	}
	for _, tt := range tests {
		if got := TruncateToWidth(tt.text, tt.width); got != tt.want {
			t.Errorf("TruncateToWidth(%q, %d) = %q, want %q", tt.text, tt.width, got, tt.want)
		}
	}
}

func TestPadPlain(t *testing.T) {
	if got := PadPlain("ab", 5); got != "ab   " {
		t.Errorf("Expected padded string, got %q", got)
	}
	if got := PadPlain("abcdef", 3); got != "abcdef" {
		t.Errorf("Expected unchanged string, got %q", got)
	}
}

func TestSingleLine(t *testing.T) {
	if got := SingleLine("first\nsecond\t third\r\n"); got != "first second third" {
		t.Errorf("Expected collapsed line, got %q", got)
	}
}

func TestFitLines(t *testing.T) {
	lines := FitLines([]string{"a", "b", "c"}, 4, 2)
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(lines))
	}
	if lines[0] != "a   " {
		t.Errorf("Expected padded line, got %q", lines[0])
	}

	lines = FitLines([]string{"a"}, 3, 3)
	if len(lines) != 3 || lines[2] != strings.Repeat(" ", 3) {
		t.Errorf("Expected blank filler lines, got %q", lines)
	}
}
