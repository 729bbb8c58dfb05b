package ui

import (
	"context"
	"doc-chat/domain"
	"doc-chat/infrastructure/http/client"
	"doc-chat/services"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// uploadView lets the user pick a local file to upload or reopen a
// document the backend already knows.
type uploadView struct {
	ctx       context.Context
	chat      *services.ChatService
	uploads   *services.UploadService
	documents *services.DocumentService

	input     textinput.Model
	spinner   spinner.Model
	docs      []domain.DocumentInfo
	cursor    int
	focusList bool
	uploading bool
	loading   bool
	errMsg    string
	info      string
	width     int
}

func newUploadView(ctx context.Context, chat *services.ChatService, uploads *services.UploadService, documents *services.DocumentService) uploadView {
	ti := textinput.New()
	ti.Placeholder = "/path/to/document.pdf"
	ti.Prompt = "File: "
	ti.CharLimit = 1024
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return uploadView{
		ctx:       ctx,
		chat:      chat,
		uploads:   uploads,
		documents: documents,
		input:     ti,
		spinner:   sp,
		loading:   true,
		width:     80,
	}
}

func (m uploadView) Init() tea.Cmd {
	return textinput.Blink
}

func (m uploadView) setSize(width int) uploadView {
	m.width = width
	m.input.Width = max(width-12, 10)
	return m
}

func (m uploadView) refresh() (uploadView, tea.Cmd) {
	m.loading = true
	return m, loadDocuments(m.ctx, m.documents)
}

func (m uploadView) Update(msg tea.Msg) (uploadView, tea.Cmd) {
	switch msg := msg.(type) {
	case documentsMsg:
		m.loading = false
		if msg.err != nil {
			m.errMsg = client.DetailOrFallback(msg.err, "Failed to load documents.")
			return m, nil
		}
		m.docs = msg.docs
		m.cursor = min(m.cursor, max(len(m.docs)-1, 0))
		return m, nil

	case uploadedMsg:
		m.uploading = false
		if msg.err != nil {
			m.errMsg = services.UploadErrorMessage(msg.err)
			return m, nil
		}
		m.errMsg = ""
		m.input.Reset()
		return m, opened(msg.result.Document)

	case deletedMsg:
		if msg.err != nil {
			m.errMsg = client.DetailOrFallback(msg.err, "Failed to delete document. Please try again.")
			return m, nil
		}
		m.errMsg = ""
		m.info = msg.message
		return m.refresh()

	case spinner.TickMsg:
		if !m.uploading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.uploading {
			return m, nil
		}
		switch msg.String() {
		case "tab":
			m.focusList = !m.focusList && len(m.docs) > 0
			if m.focusList {
				m.input.Blur()
			} else {
				m.input.Focus()
			}
			return m, nil
		case "enter":
			if m.focusList {
				return m.openSelected()
			}
			return m.submit()
		}
		if m.focusList {
			return m.updateList(msg)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m uploadView) submit() (uploadView, tea.Cmd) {
	path := strings.TrimSpace(m.input.Value())
	if path == "" {
		m.errMsg = "Please enter the path of a file to upload."
		return m, nil
	}
	m.uploading = true
	m.errMsg = ""
	m.info = ""
	return m, tea.Batch(uploadFile(m.ctx, m.uploads, path), m.spinner.Tick)
}

func (m uploadView) openSelected() (uploadView, tea.Cmd) {
	if m.cursor >= len(m.docs) {
		return m, nil
	}
	doc := m.docs[m.cursor].Document()
	m.chat.Open(doc)
	return m, opened(doc)
}

func (m uploadView) updateList(msg tea.KeyMsg) (uploadView, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.docs)-1 {
			m.cursor++
		}
	case "r":
		return m.refresh()
	case "d":
		if m.cursor < len(m.docs) {
			return m, deleteDocument(m.ctx, m.documents, m.docs[m.cursor].ID)
		}
	}
	return m, nil
}

func (m uploadView) View() string {
	var b strings.Builder
	b.WriteString("Upload a document (")
	b.WriteString(strings.Join(domain.AllowedExtensions, ", "))
	b.WriteString(")\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	switch {
	case m.uploading:
		b.WriteString(m.spinner.View() + " Uploading...\n\n")
	case m.errMsg != "":
		b.WriteString(errorStyle.Render(m.errMsg) + "\n\n")
	case m.info != "":
		b.WriteString(infoStyle.Render(m.info) + "\n\n")
	}

	b.WriteString(m.listView())
	b.WriteString("\n")
	help := "Enter: Upload • Tab: Documents • Ctrl+C: Quit"
	if m.focusList {
		help = "Enter: Open • d: Delete • r: Refresh • Tab: Back • Ctrl+C: Quit"
	}
	b.WriteString(helpStyle.Render(help))
	return b.String()
}

func (m uploadView) listView() string {
	if m.loading && len(m.docs) == 0 {
		return statusBarStyle.Render("Loading documents...") + "\n"
	}
	if len(m.docs) == 0 {
		return statusBarStyle.Render("No documents uploaded yet.") + "\n"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Documents (%d)\n", len(m.docs)))
	for i, doc := range m.docs {
		date := doc.RawUploadDate
		if !doc.UploadDate.IsZero() {
			date = doc.UploadDate.Format("2006-01-02 15:04")
		}
		line := fmt.Sprintf("%s  %s  %s", doc.Filename, humanSize(doc.FileSize), date)
		if m.focusList && i == m.cursor {
			b.WriteString(selectedStyle.Render("> "+line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}
	return b.String()
}

func humanSize(size int64) string {
	switch {
	case size >= domain.MB:
		return fmt.Sprintf("%.1f MB", float64(size)/domain.MB)
	case size >= domain.KB:
		return fmt.Sprintf("%.1f KB", float64(size)/domain.KB)
	default:
		return fmt.Sprintf("%d B", size)
	}
}
