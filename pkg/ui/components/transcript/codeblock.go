package transcript

import (
	"strings"

	"tougpt/pkg/chat"
)

// CodeBlock is one fenced block from a message
type CodeBlock struct {
	Lang string
	Code string
}

// ExtractCodeBlocks returns the ``` fenced blocks of content in order. An
// unterminated fence runs to the end of the content.
func ExtractCodeBlocks(content string) []CodeBlock {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	lines := strings.Split(content, "\n")

	var (
		blocks  []CodeBlock
		inCode  bool
		current CodeBlock
		body    []string
	)
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			if inCode {
				current.Code = strings.Join(body, "\n")
				blocks = append(blocks, current)
				inCode = false
				continue
			}
			inCode = true
			current = CodeBlock{Lang: strings.TrimSpace(strings.TrimPrefix(trimmed, "```"))}
			body = nil
			continue
		}
		if inCode {
			body = append(body, line)
		}
	}
	if inCode && len(body) > 0 {
		current.Code = strings.Join(body, "\n")
		blocks = append(blocks, current)
	}
	return blocks
}

// LastCodeBlock returns the last code block of the most recent assistant reply.
func LastCodeBlock(messages []chat.Message) (CodeBlock, bool) {
	c := chat.Chat{Messages: messages}
	msg, ok := c.LastAssistantMessage()
	if !ok {
		return CodeBlock{}, false
	}
	blocks := ExtractCodeBlocks(msg.Content)
	if len(blocks) == 0 {
		return CodeBlock{}, false
	}
	return blocks[len(blocks)-1], true
}
