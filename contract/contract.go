//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"doc-chat/domain"
	"doc-chat/domain/search"
)

// DocumentAPI is the backend surface: one call per endpoint.
type DocumentAPI interface {
	Health(ctx context.Context) (domain.Health, error)
	Upload(ctx context.Context, file domain.UploadFile) (domain.UploadResult, error)
	Query(ctx context.Context, req domain.QueryRequest) (domain.Answer, error)
	ListDocuments(ctx context.Context) ([]domain.DocumentInfo, error)
	DeleteDocument(ctx context.Context, id domain.DocumentID) (string, error)
}

type MessageRepository interface {
	StoreMessage(message domain.Message) error
	GetMessages(documentID domain.DocumentID) ([]domain.Message, error)
	DeleteDocument(documentID domain.DocumentID) error
}

type SearchIndex interface {
	Index(message domain.Message) error
	Search(ctx context.Context, query search.Query) ([]domain.SearchHit, error)
	DeleteDocument(documentID domain.DocumentID) error
}

// MessageSink receives finished conversation turns.
type MessageSink interface {
	Consume(ctx context.Context, messages ...domain.Message) error
	Forget(ctx context.Context, documentID domain.DocumentID) error
}
