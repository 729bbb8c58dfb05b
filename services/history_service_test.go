package services

import (
	"context"
	"doc-chat/domain"
	"doc-chat/domain/search"
	"doc-chat/errors"
	"doc-chat/mocks"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestHistoryService_Disabled(t *testing.T) {
	req := require.New(t)
	svc := NewHistoryService(nil, nil)

	req.False(svc.Enabled())
	_, err := svc.Transcript("doc-1")
	req.ErrorIs(err, errors.ErrHistoryDisabled)
	_, err = svc.Search(context.Background(), search.Query{Terms: "refund"})
	req.ErrorIs(err, errors.ErrHistoryDisabled)
}

func TestHistoryService_Delegates(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	repository := mocks.NewMockMessageRepository(ctrl)
	index := mocks.NewMockSearchIndex(ctrl)
	svc := NewHistoryService(repository, index)
	message := domain.NewUserMessage("doc-1", "Is there a refund policy?", time.Now().UTC())
	query := search.Query{Terms: "refund", DocumentID: "doc-1", Limit: 3}

	repository.EXPECT().GetMessages(domain.DocumentID("doc-1")).Return([]domain.Message{message}, nil)
	index.EXPECT().Search(gomock.Any(), query).Return([]domain.SearchHit{{Message: message, Score: 1.5}}, nil)

	req.True(svc.Enabled())
	transcript, err := svc.Transcript("doc-1")
	req.NoError(err)
	req.Equal([]domain.Message{message}, transcript)

	hits, err := svc.Search(context.Background(), query)
	req.NoError(err)
	req.Len(hits, 1)
	req.Equal(message.ID, hits[0].Message.ID)
}
