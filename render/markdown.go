// Package render applies a lightweight markdown substitution to cleaned
// assistant text so it reads well in a terminal.
package render

import (
	"regexp"
	"strings"

	"doc-chat/sanitizer"

	"github.com/charmbracelet/lipgloss"
)

var (
	inlineCode = regexp.MustCompile("`([^`\n]+)`")
	boldStars  = regexp.MustCompile(`\*\*([^*\n]+)\*\*`)
	boldUnders = regexp.MustCompile(`__([^_\n]+)__`)
	italic     = regexp.MustCompile(`\*([^*\n]+)\*`)
	heading    = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	bullet     = regexp.MustCompile(`^([-*+])\s+(.+)$`)
)

// Styles maps each markdown construct to a text transform.
type Styles struct {
	Bold       func(string) string
	Italic     func(string) string
	InlineCode func(string) string
	Heading    func(string) string
	Bullet     string
	CodeBlock  func(lang, body string) string
}

func DefaultStyles() Styles {
	bold := lipgloss.NewStyle().Bold(true)
	ital := lipgloss.NewStyle().Italic(true)
	code := lipgloss.NewStyle().Foreground(lipgloss.Color("215"))
	head := lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("39"))
	block := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(lipgloss.Color("240")).
		PaddingLeft(1).
		Foreground(lipgloss.Color("252"))
	label := lipgloss.NewStyle().Faint(true)

	return Styles{
		Bold:       func(s string) string { return bold.Render(s) },
		Italic:     func(s string) string { return ital.Render(s) },
		InlineCode: func(s string) string { return code.Render(s) },
		Heading:    func(s string) string { return head.Render(s) },
		Bullet:     "•",
		CodeBlock: func(lang, body string) string {
			rendered := block.Render(body)
			if lang == "" {
				return rendered
			}
			return label.Render(lang) + "\n" + rendered
		},
	}
}

// PlainStyles leaves text unstyled apart from bullets. Used for pipes and logs.
func PlainStyles() Styles {
	identity := func(s string) string { return s }
	return Styles{
		Bold:       identity,
		Italic:     identity,
		InlineCode: identity,
		Heading:    identity,
		Bullet:     "•",
		CodeBlock: func(_, body string) string {
			return body
		},
	}
}

// Markdown renders already cleaned text. Code blocks are handed to
// Styles.CodeBlock unchanged.
func Markdown(cleaned string, styles Styles) string {
	segments := sanitizer.Segments(cleaned)
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		switch seg.Kind {
		case sanitizer.Code:
			parts = append(parts, styles.CodeBlock(seg.Lang, seg.Body))
		default:
			parts = append(parts, renderProse(seg.Body, styles))
		}
	}
	return strings.Join(parts, "\n")
}

func renderProse(body string, styles Styles) string {
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		if m := heading.FindStringSubmatch(line); m != nil {
			lines[i] = styles.Heading(renderInline(m[2], styles))
			continue
		}
		if m := bullet.FindStringSubmatch(line); m != nil {
			lines[i] = styles.Bullet + " " + renderInline(m[2], styles)
			continue
		}
		lines[i] = renderInline(line, styles)
	}
	return strings.Join(lines, "\n")
}

// renderInline styles emphasis outside inline code spans only.
func renderInline(line string, styles Styles) string {
	var b strings.Builder
	last := 0
	for _, loc := range inlineCode.FindAllStringSubmatchIndex(line, -1) {
		b.WriteString(emphasis(line[last:loc[0]], styles))
		b.WriteString(styles.InlineCode(line[loc[2]:loc[3]]))
		last = loc[1]
	}
	b.WriteString(emphasis(line[last:], styles))
	return b.String()
}

func emphasis(s string, styles Styles) string {
	s = boldStars.ReplaceAllStringFunc(s, func(m string) string {
		return styles.Bold(boldStars.FindStringSubmatch(m)[1])
	})
	s = boldUnders.ReplaceAllStringFunc(s, func(m string) string {
		return styles.Bold(boldUnders.FindStringSubmatch(m)[1])
	})
	return italic.ReplaceAllStringFunc(s, func(m string) string {
		return styles.Italic(italic.FindStringSubmatch(m)[1])
	})
}
