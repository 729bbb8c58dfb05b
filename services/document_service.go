package services

import (
	"context"
	"doc-chat/contract"
	"doc-chat/domain"
	"log/slog"
	"sort"
)

type DocumentService struct {
	api  contract.DocumentAPI
	chat *ChatService
	sink contract.MessageSink
	log  *slog.Logger
}

// NewDocumentService builds the document listing service. chat and sink
// may be nil when there is no session or local history.
func NewDocumentService(api contract.DocumentAPI, chat *ChatService, sink contract.MessageSink, log *slog.Logger) *DocumentService {
	return &DocumentService{api: api, chat: chat, sink: sink, log: log}
}

func (s *DocumentService) Health(ctx context.Context) (domain.Health, error) {
	return s.api.Health(ctx)
}

// List returns the uploaded documents, newest first. Documents with an
// unparseable upload date sort last.
func (s *DocumentService) List(ctx context.Context) ([]domain.DocumentInfo, error) {
	docs, err := s.api.ListDocuments(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].UploadDate.After(docs[j].UploadDate)
	})
	return docs, nil
}

// Delete removes the document on the backend, closes it if it is the open
// one and forgets its local history.
func (s *DocumentService) Delete(ctx context.Context, id domain.DocumentID) (string, error) {
	message, err := s.api.DeleteDocument(ctx, id)
	if err != nil {
		return "", err
	}
	if s.chat != nil && s.chat.CloseIfOpen(id) {
		s.log.Info("Closed deleted document", "document_id", id)
	}
	if s.sink != nil {
		if err := s.sink.Forget(ctx, id); err != nil {
			s.log.Warn("Failed to forget local history", "document_id", id, "error", err)
		}
	}
	return message, nil
}
