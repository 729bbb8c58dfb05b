package ui

import (
	"doc-chat/domain"
	"doc-chat/render"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const minBubbleWidth = 20

// renderBubble draws one message: questions right aligned, answers left
// aligned with markdown applied.
func renderBubble(msg domain.Message, width int, styles render.Styles) string {
	width = max(width-10, minBubbleWidth)

	footer := []string{msg.CreatedAt.Local().Format("15:04:05")}
	if msg.Lang != "" {
		footer = append(footer, msg.Lang)
	}
	if msg.Model != "" {
		footer = append(footer, msg.Model)
	}

	align := lipgloss.Left
	var content string
	switch msg.Role {
	case domain.RoleUser:
		align = lipgloss.Right
		content = userLabelStyle.Render("You: ") + msg.Content
	default:
		content = assistantLabelStyle.Render("Assistant:") + "\n" + render.Markdown(msg.Content, styles)
	}

	var b strings.Builder
	b.WriteString(bubbleStyle.Width(width).Align(align).Render(content))
	b.WriteString("\n")
	b.WriteString(footerStyle.Width(width).Align(align).Render(strings.Join(footer, " · ")))
	return b.String()
}

func renderConversation(messages []domain.Message, width int, styles render.Styles) string {
	bubbles := make([]string, 0, len(messages))
	for _, msg := range messages {
		bubbles = append(bubbles, renderBubble(msg, width, styles))
	}
	return strings.Join(bubbles, "\n\n")
}
