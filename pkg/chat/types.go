// Package chat owns the list of conversations, the active conversation, and
// the lifecycle of the single outstanding question.
package chat

import (
	"strconv"
	"strings"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of a conversation. Messages are never edited after
// they are appended.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Chat is a titled, ordered conversation
type Chat struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Messages []Message `json:"messages"`
}

// HasDefaultTitle reports whether the title was never derived
func (c Chat) HasDefaultTitle() bool {
	return c.Title == DefaultTitle
}

// LastAssistantMessage returns the most recent assistant reply, if any
func (c Chat) LastAssistantMessage() (Message, bool) {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Role == RoleAssistant {
			return c.Messages[i], true
		}
	}
	return Message{}, false
}

func (c Chat) clone() Chat {
	out := c
	out.Messages = make([]Message, len(c.Messages))
	copy(out.Messages, c.Messages)
	return out
}

// MaxQuestionLength is the longest question accepted from the user, in runes.
const MaxQuestionLength = 2000

const (
	maxTitleRunes      = 40
	truncatedTitleRune = 37
)

// TitleFor derives a chat title from a user message: messages longer than 40
// characters become their first 37 characters followed by "...".
func TitleFor(text string) string {
	runes := []rune(text)
	if len(runes) > maxTitleRunes {
		return string(runes[:truncatedTitleRune]) + "..."
	}
	return text
}

// ResolveChat finds a chat by its 1-based position in chats, its ID, or a
// unique ID prefix of at least four characters.
func ResolveChat(chats []Chat, ref string) (Chat, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Chat{}, false
	}
	if n, err := strconv.Atoi(ref); err == nil {
		if n >= 1 && n <= len(chats) {
			return chats[n-1], true
		}
		return Chat{}, false
	}

	var match *Chat
	for i := range chats {
		if chats[i].ID == ref {
			return chats[i], true
		}
		if len(ref) >= 4 && strings.HasPrefix(chats[i].ID, ref) {
			if match != nil {
				return Chat{}, false
			}
			match = &chats[i]
		}
	}
	if match == nil {
		return Chat{}, false
	}
	return *match, true
}
