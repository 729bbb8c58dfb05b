package repositories

import (
	"doc-chat/domain"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// MessageRepository keeps conversation transcripts in BadgerDB.
type MessageRepository struct {
	db            *badger.DB
	log           *slog.Logger
	limitMessages *int
}

func NewMessageRepository(db *badger.DB, log *slog.Logger, limitMessages *int) MessageRepository {
	return MessageRepository{db: db, log: log, limitMessages: limitMessages}
}

type diskMessage struct {
	ID         string `json:"id"`
	DocumentID string `json:"document_id"`
	Role       string `json:"role"`
	Content    string `json:"content"`
	Lang       string `json:"lang,omitempty"`
	Model      string `json:"model,omitempty"`
	At         int64  `json:"at"`
}

func documentPrefix(documentID domain.DocumentID) []byte {
	return []byte(fmt.Sprintf("msg:%s:", documentID))
}

// messageKey is "msg:{document_id}:{timestamp_padded}:{uuid}".
// The 19-digit padding keeps lexicographical order chronological and the
// UUID separates two messages written in the same nanosecond.
func messageKey(message domain.Message) []byte {
	return []byte(fmt.Sprintf("msg:%s:%019d:%s",
		message.DocumentID,
		message.CreatedAt.UnixNano(),
		message.ID,
	))
}

func (m MessageRepository) StoreMessage(message domain.Message) error {
	bytes, err := json.Marshal(fromMessage(message))
	if err != nil {
		return err
	}
	return m.db.Update(func(txn *badger.Txn) error {
		return txn.Set(messageKey(message), bytes)
	})
}

// GetMessages returns the transcript of a document, oldest first.
// When limitMessages is set only the most recent ones are kept.
func (m MessageRepository) GetMessages(documentID domain.DocumentID) ([]domain.Message, error) {
	var values [][]byte
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := documentPrefix(documentID)
		options := badger.DefaultIteratorOptions
		options.Prefix = prefix
		it := txn.NewIterator(options)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			value, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			values = append(values, value)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if m.limitMessages != nil && len(values) > *m.limitMessages {
		m.log.Debug(fmt.Sprintf("Maximum of %d message reached", *m.limitMessages))
		values = values[len(values)-*m.limitMessages:]
	}

	messages := make([]domain.Message, 0, len(values))
	for _, value := range values {
		var dm diskMessage
		if err := json.Unmarshal(value, &dm); err != nil {
			return nil, err
		}
		message, err := toMessage(dm)
		if err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	return messages, nil
}

func (m MessageRepository) DeleteDocument(documentID domain.DocumentID) error {
	return m.db.DropPrefix(documentPrefix(documentID))
}

func fromMessage(message domain.Message) diskMessage {
	return diskMessage{
		ID:         message.ID.String(),
		DocumentID: message.DocumentID.String(),
		Role:       string(message.Role),
		Content:    message.Content,
		Lang:       message.Lang,
		Model:      message.Model,
		At:         message.CreatedAt.UnixNano(),
	}
}

func toMessage(dm diskMessage) (domain.Message, error) {
	parsedID, err := uuid.Parse(dm.ID)
	if err != nil {
		return domain.Message{}, err
	}
	return domain.Message{
		ID:         parsedID,
		DocumentID: domain.DocumentID(dm.DocumentID),
		Role:       domain.Role(dm.Role),
		Content:    dm.Content,
		Lang:       dm.Lang,
		Model:      dm.Model,
		CreatedAt:  time.Unix(0, dm.At).UTC(),
	}, nil
}
