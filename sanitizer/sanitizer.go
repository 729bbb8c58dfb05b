// Package sanitizer turns raw assistant output into a displayable string.
// Fenced code blocks pass through verbatim; everything else has its
// whitespace collapsed. Clean is idempotent.
package sanitizer

import (
	"strings"
	"unicode"
)

const fence = "```"

type Kind int

const (
	Text Kind = iota
	Code
)

// Segment is a run of prose or a fenced code block of a cleaned text.
type Segment struct {
	Kind   Kind
	Lang   string // info string of a code fence
	Body   string // code blocks exclude their fence lines
	Closed bool   // false for a code block running to the end of the text
}

// Clean strips control and zero-width characters, trims and collapses
// whitespace on prose lines, keeps at most one blank line between
// paragraphs and leaves fenced code blocks untouched.
func Clean(raw string) string {
	lines := strings.Split(stripInvisible(normalizeNewlines(raw)), "\n")
	out := make([]string, 0, len(lines))
	inFence := false
	blanks := 0

	for _, line := range lines {
		if inFence {
			out = append(out, line)
			if isFence(line) {
				inFence = false
			}
			continue
		}
		if isFence(line) {
			inFence = true
			blanks = 0
			out = append(out, line)
			continue
		}

		line = collapse(line)
		if line == "" {
			blanks++
			if blanks > 1 || len(out) == 0 {
				continue
			}
		} else {
			blanks = 0
		}
		out = append(out, line)
	}

	if !inFence {
		for len(out) > 0 && out[len(out)-1] == "" {
			out = out[:len(out)-1]
		}
	}
	return strings.Join(out, "\n")
}

// Segments splits a cleaned text into prose and code segments, in order.
func Segments(cleaned string) []Segment {
	if cleaned == "" {
		return nil
	}
	var (
		segments []Segment
		current  []string
		code     *Segment
	)
	flushText := func() {
		if len(current) == 0 {
			return
		}
		body := strings.Trim(strings.Join(current, "\n"), "\n")
		if body != "" {
			segments = append(segments, Segment{Kind: Text, Body: body})
		}
		current = nil
	}

	for _, line := range strings.Split(cleaned, "\n") {
		switch {
		case code != nil && isFence(line):
			code.Body = strings.Join(current, "\n")
			code.Closed = true
			segments = append(segments, *code)
			code, current = nil, nil
		case code != nil:
			current = append(current, line)
		case isFence(line):
			flushText()
			code = &Segment{Kind: Code, Lang: fenceLang(line)}
		default:
			current = append(current, line)
		}
	}

	if code != nil {
		code.Body = strings.Join(current, "\n")
		segments = append(segments, *code)
	} else {
		flushText()
	}
	return segments
}

func isFence(line string) bool {
	return strings.HasPrefix(strings.TrimLeftFunc(line, unicode.IsSpace), fence)
}

func fenceLang(line string) string {
	info := strings.TrimPrefix(strings.TrimLeftFunc(line, unicode.IsSpace), fence)
	return strings.TrimSpace(strings.Trim(info, "`"))
}

// collapse trims a prose line and squeezes inner whitespace runs to one space.
func collapse(line string) string {
	return strings.Join(strings.Fields(line), " ")
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// stripInvisible drops invalid UTF-8, zero-width characters and every
// control character except tab and newline.
func stripInvisible(s string) string {
	s = strings.ToValidUTF8(s, "")
	return strings.Map(func(r rune) rune {
		if isInvisible(r) {
			return -1
		}
		return r
	}, s)
}

func isInvisible(r rune) bool {
	switch {
	case r == '\t' || r == '\n':
		return false
	case r >= 0x200B && r <= 0x200D, r == 0x2060, r == 0xFEFF:
		return true
	default:
		return unicode.IsControl(r)
	}
}
