// Package ui is the terminal front end: a header, an upload view and a chat
// view, switched by the session state held in the chat service.
package ui

import (
	"context"
	"doc-chat/projection"
	"doc-chat/render"
	"doc-chat/services"
	stderrors "errors"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
)

type App struct {
	ctx       context.Context
	chat      *services.ChatService
	documents *services.DocumentService
	history   *services.HistoryService
	log       *slog.Logger
	styles    render.Styles

	header       header
	upload       uploadView
	conversation chatView
	width        int
	height       int
}

func NewApp(
	ctx context.Context,
	chat *services.ChatService,
	uploads *services.UploadService,
	documents *services.DocumentService,
	history *services.HistoryService,
	log *slog.Logger,
	backendURL string,
) App {
	styles := render.DefaultStyles()
	return App{
		ctx:          ctx,
		chat:         chat,
		documents:    documents,
		history:      history,
		log:          log,
		styles:       styles,
		header:       newHeader(backendURL),
		upload:       newUploadView(ctx, chat, uploads, documents),
		conversation: newChatView(ctx, chat, history, styles, defaultWidth, defaultHeight),
		width:        defaultWidth,
		height:       defaultHeight,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		checkHealth(a.ctx, a.documents),
		loadDocuments(a.ctx, a.documents),
		a.upload.Init(),
	)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.upload = a.upload.setSize(msg.Width)
		a.conversation = a.conversation.setSize(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

	case healthMsg:
		if msg.err != nil {
			a.log.Warn("Backend health check failed", "error", msg.err)
		}
		a.header = a.header.update(msg)
		return a, nil

	case documentOpenedMsg:
		a.log.Info("Chat opened", "document_id", msg.document.ID, "filename", msg.document.Filename)
		a.conversation = newChatView(a.ctx, a.chat, a.history, a.styles, a.width, a.height)
		return a, a.conversation.Init()

	case documentClosedMsg:
		var cmd tea.Cmd
		a.upload, cmd = a.upload.refresh()
		return a, tea.Batch(cmd, a.upload.Init())

	case documentsMsg, uploadedMsg, deletedMsg:
		var cmd tea.Cmd
		a.upload, cmd = a.upload.Update(msg)
		return a, cmd

	case answerMsg, searchMsg:
		var cmd tea.Cmd
		a.conversation, cmd = a.conversation.Update(msg)
		return a, cmd
	}

	var cmd tea.Cmd
	if a.chat.View() == projection.ViewChat {
		a.conversation, cmd = a.conversation.Update(msg)
	} else {
		a.upload, cmd = a.upload.Update(msg)
	}
	return a, cmd
}

func (a App) View() string {
	var b strings.Builder
	doc, open := a.chat.Document()
	b.WriteString(a.header.view(doc, open))
	b.WriteString("\n\n")
	if a.chat.View() == projection.ViewChat {
		b.WriteString(a.conversation.View())
	} else {
		b.WriteString(a.upload.View())
	}
	return b.String()
}

// Run starts the program on the alternate screen until the user quits or
// ctx is cancelled.
func Run(ctx context.Context, app App) error {
	program := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && !stderrors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
