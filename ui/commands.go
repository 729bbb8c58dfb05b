package ui

import (
	"context"
	"doc-chat/domain"
	"doc-chat/domain/search"
	"doc-chat/services"

	tea "github.com/charmbracelet/bubbletea"
)

func checkHealth(ctx context.Context, documents *services.DocumentService) tea.Cmd {
	return func() tea.Msg {
		health, err := documents.Health(ctx)
		return healthMsg{health: health, err: err}
	}
}

func loadDocuments(ctx context.Context, documents *services.DocumentService) tea.Cmd {
	return func() tea.Msg {
		docs, err := documents.List(ctx)
		return documentsMsg{docs: docs, err: err}
	}
}

func uploadFile(ctx context.Context, uploads *services.UploadService, path string) tea.Cmd {
	return func() tea.Msg {
		result, err := uploads.Upload(ctx, path)
		return uploadedMsg{result: result, err: err}
	}
}

func deleteDocument(ctx context.Context, documents *services.DocumentService, id domain.DocumentID) tea.Cmd {
	return func() tea.Msg {
		message, err := documents.Delete(ctx, id)
		return deletedMsg{id: id, message: message, err: err}
	}
}

func resolveQuestion(ctx context.Context, chat *services.ChatService, question domain.Message) tea.Cmd {
	return func() tea.Msg {
		reply, err := chat.Resolve(ctx, question)
		return answerMsg{reply: reply, err: err}
	}
}

func searchHistory(ctx context.Context, history *services.HistoryService, input string) tea.Cmd {
	return func() tea.Msg {
		query := search.NewSearchQuery(input)
		hits, err := history.Search(ctx, *query)
		return searchMsg{query: query.Terms, hits: hits, err: err}
	}
}

func opened(doc domain.Document) tea.Cmd {
	return func() tea.Msg { return documentOpenedMsg{document: doc} }
}

func closed() tea.Msg {
	return documentClosedMsg{}
}
