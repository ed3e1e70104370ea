package agent

import (
	"strings"

	"atlas/internal/config"
)

const basePrompt = `You are a helpful assistant embedded in Atlas, the user's document workspace. You can search the user's stored memories and documents, and store new memories on their behalf. Be concise. When the user asks about their notes or past context, search before answering rather than guessing.`

// DocumentContext is the document the user currently has open, passed
// to the model as grounding context.
type DocumentContext struct {
	Title   string
	Content string
}

// buildSystemPrompt assembles the system prompt, appending the open
// document when one is provided. Document content is truncated so a
// large document cannot crowd out the conversation.
func buildSystemPrompt(doc *DocumentContext) string {
	if doc == nil {
		return basePrompt
	}

	content := doc.Content
	truncated := false
	if len(content) > config.MaxContextContentChars {
		content = content[:config.MaxContextContentChars]
		truncated = true
	}

	var b strings.Builder
	b.WriteString(basePrompt)
	b.WriteString("\n\nThe user currently has this document open:\n\nTitle: ")
	b.WriteString(doc.Title)
	b.WriteString("\n\n")
	b.WriteString(content)
	if truncated {
		b.WriteString("\n\n[document truncated]")
	}
	return b.String()
}
