package services

import (
	"context"
	"doc-chat/contract"
	"doc-chat/domain"
	"doc-chat/domain/search"
	"doc-chat/errors"
)

// HistoryService reads the local transcript store. Both collaborators are
// nil when local history is disabled.
type HistoryService struct {
	repository contract.MessageRepository
	index      contract.SearchIndex
}

func NewHistoryService(repository contract.MessageRepository, index contract.SearchIndex) *HistoryService {
	return &HistoryService{repository: repository, index: index}
}

func (s *HistoryService) Enabled() bool {
	return s != nil && s.repository != nil && s.index != nil
}

func (s *HistoryService) Transcript(documentID domain.DocumentID) ([]domain.Message, error) {
	if !s.Enabled() {
		return nil, errors.ErrHistoryDisabled
	}
	return s.repository.GetMessages(documentID)
}

func (s *HistoryService) Search(ctx context.Context, query search.Query) ([]domain.SearchHit, error) {
	if !s.Enabled() {
		return nil, errors.ErrHistoryDisabled
	}
	return s.index.Search(ctx, query)
}
