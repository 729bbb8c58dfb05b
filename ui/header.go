package ui

import (
	"doc-chat/domain"
	"fmt"
	"strings"
)

// header shows the backend status and the open document, if any.
type header struct {
	backendURL string
	status     string
	healthy    bool
	checked    bool
}

func newHeader(backendURL string) header {
	return header{backendURL: backendURL, status: "checking"}
}

func (h header) update(msg healthMsg) header {
	h.checked = true
	switch {
	case msg.err != nil:
		h.healthy = false
		h.status = "unreachable"
	case msg.health.Healthy():
		h.healthy = true
		h.status = msg.health.Status
	default:
		h.healthy = false
		h.status = msg.health.Status
	}
	return h
}

func (h header) view(doc domain.Document, open bool) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Document Assistant"))
	b.WriteString("\n")

	status := fmt.Sprintf("Backend: %s (%s)", h.backendURL, h.status)
	if open {
		status += fmt.Sprintf(" | Document: %s", doc.Filename)
	}
	style := statusBarStyle
	if h.checked && !h.healthy {
		style = errorStyle
	}
	b.WriteString(style.Render(status))
	return b.String()
}
