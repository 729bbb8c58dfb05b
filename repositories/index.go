package repositories

import (
	"context"
	"doc-chat/domain"
	"doc-chat/domain/search"
	"fmt"
	"log/slog"
	"strings"

	"github.com/blugelabs/bluge"
	blugesearch "github.com/blugelabs/bluge/search"
	"github.com/google/uuid"
)

const (
	fieldDocumentID = "document_id"
	fieldRole       = "role"
	fieldContent    = "content"
	fieldLang       = "lang"
	fieldAt         = "at"
)

// TranscriptIndex is the full-text index over stored messages.
type TranscriptIndex struct {
	writer *bluge.Writer
	log    *slog.Logger
}

func NewTranscriptIndex(writer *bluge.Writer, log *slog.Logger) *TranscriptIndex {
	return &TranscriptIndex{writer: writer, log: log}
}

func (i *TranscriptIndex) Index(message domain.Message) error {
	doc := bluge.NewDocument(message.ID.String()).
		AddField(bluge.NewKeywordField(fieldDocumentID, message.DocumentID.String()).StoreValue()).
		AddField(bluge.NewKeywordField(fieldRole, string(message.Role)).StoreValue()).
		AddField(bluge.NewTextField(fieldContent, message.Content).StoreValue()).
		AddField(bluge.NewKeywordField(fieldLang, message.Lang).StoreValue()).
		AddField(bluge.NewDateTimeField(fieldAt, message.CreatedAt).StoreValue())

	if err := i.writer.Update(doc.ID(), doc); err != nil {
		return fmt.Errorf("index message %s failed: %w", message.ID, err)
	}
	return nil
}

// Search matches the query terms against message content, optionally
// restricted to one document. An empty query yields no hits.
func (i *TranscriptIndex) Search(ctx context.Context, query search.Query) ([]domain.SearchHit, error) {
	q := bluge.NewBooleanQuery()
	clauses := 0
	if strings.TrimSpace(query.Terms) != "" {
		q.AddMust(bluge.NewMatchQuery(query.Terms).SetField(fieldContent))
		clauses++
	}
	if query.DocumentID != "" {
		q.AddMust(bluge.NewTermQuery(query.DocumentID).SetField(fieldDocumentID))
		clauses++
	}
	if clauses == 0 {
		return nil, nil
	}

	limit := query.Limit
	if limit <= 0 {
		limit = search.DefaultLimit
	}

	reader, err := i.writer.Reader()
	if err != nil {
		return nil, fmt.Errorf("open index reader failed: %w", err)
	}
	defer func() { _ = reader.Close() }()

	iterator, err := reader.Search(ctx, bluge.NewTopNSearch(limit, q))
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	var hits []domain.SearchHit
	match, err := iterator.Next()
	for err == nil && match != nil {
		message, visitErr := toMessageFromMatch(match)
		if visitErr != nil {
			return nil, visitErr
		}
		hits = append(hits, domain.SearchHit{Message: message, Score: match.Score})
		match, err = iterator.Next()
	}
	if err != nil {
		return nil, fmt.Errorf("iterate search results failed: %w", err)
	}
	i.log.Debug("Transcript search", "terms", query.Terms, "document_id", query.DocumentID, "hits", len(hits))
	return hits, nil
}

// DeleteDocument removes every indexed message of a document.
func (i *TranscriptIndex) DeleteDocument(documentID domain.DocumentID) error {
	reader, err := i.writer.Reader()
	if err != nil {
		return fmt.Errorf("open index reader failed: %w", err)
	}
	defer func() { _ = reader.Close() }()

	q := bluge.NewTermQuery(documentID.String()).SetField(fieldDocumentID)
	iterator, err := reader.Search(context.Background(), bluge.NewAllMatches(q))
	if err != nil {
		return fmt.Errorf("search document %s failed: %w", documentID, err)
	}

	batch := bluge.NewBatch()
	count := 0
	match, err := iterator.Next()
	for err == nil && match != nil {
		visitErr := match.VisitStoredFields(func(field string, value []byte) bool {
			if field == "_id" {
				batch.Delete(bluge.Identifier(value))
				count++
				return false
			}
			return true
		})
		if visitErr != nil {
			return visitErr
		}
		match, err = iterator.Next()
	}
	if err != nil {
		return fmt.Errorf("iterate document %s failed: %w", documentID, err)
	}
	if count == 0 {
		return nil
	}
	return i.writer.Batch(batch)
}

func toMessageFromMatch(match *blugesearch.DocumentMatch) (domain.Message, error) {
	var message domain.Message
	var parseErr error
	err := match.VisitStoredFields(func(field string, value []byte) bool {
		switch field {
		case "_id":
			message.ID, parseErr = uuid.ParseBytes(value)
		case fieldDocumentID:
			message.DocumentID = domain.DocumentID(value)
		case fieldRole:
			message.Role = domain.Role(value)
		case fieldContent:
			message.Content = string(value)
		case fieldLang:
			message.Lang = string(value)
		case fieldAt:
			message.CreatedAt, parseErr = bluge.DecodeDateTime(value)
		}
		return parseErr == nil
	})
	if err != nil {
		return domain.Message{}, err
	}
	if parseErr != nil {
		return domain.Message{}, parseErr
	}
	message.CreatedAt = message.CreatedAt.UTC()
	return message, nil
}
