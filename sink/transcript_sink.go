package sink

import (
	"context"
	"doc-chat/contract"
	"doc-chat/domain"
	"errors"
	"fmt"
	"log/slog"
)

// TranscriptSink persists finished turns to the transcript store and keeps
// the search index in step with it.
type TranscriptSink struct {
	repository contract.MessageRepository
	index      contract.SearchIndex
	log        *slog.Logger
}

func NewTranscriptSink(repository contract.MessageRepository, index contract.SearchIndex, log *slog.Logger) TranscriptSink {
	return TranscriptSink{repository: repository, index: index, log: log}
}

// Consume stores then indexes each message. A message that fails to index
// stays stored; the first storage error stops the batch.
func (s TranscriptSink) Consume(ctx context.Context, messages ...domain.Message) error {
	var indexErrs []error
	for _, message := range messages {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.repository.StoreMessage(message); err != nil {
			return fmt.Errorf("store message %s failed: %w", message.ID, err)
		}
		if err := s.index.Index(message); err != nil {
			s.log.Warn("Message stored but not indexed", "id", message.ID, "error", err)
			indexErrs = append(indexErrs, err)
		}
	}
	return errors.Join(indexErrs...)
}

func (s TranscriptSink) Forget(_ context.Context, documentID domain.DocumentID) error {
	s.log.Debug("Forgetting transcript", "document_id", documentID)
	return errors.Join(
		s.repository.DeleteDocument(documentID),
		s.index.DeleteDocument(documentID),
	)
}
