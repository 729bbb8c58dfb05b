package repositories

import (
	"doc-chat/domain"
	"log/slog"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func transcript(documentID domain.DocumentID, at time.Time) []domain.Message {
	return []domain.Message{
		domain.NewUserMessage(documentID, "What is the refund policy?", at),
		domain.NewAssistantMessage(documentID, "Refunds are accepted within 30 days.", "gpt-4o-mini", at.Add(time.Second)),
		domain.NewUserMessage(documentID, "And for digital goods?", at.Add(2*time.Second)),
	}
}

func Test_Record_Multiple_Message(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default(), nil)
	at := time.Now().UTC()
	messages := transcript("doc-1", at)

	// Stored out of order, read back chronologically
	for _, i := range []int{2, 0, 1} {
		req.NoError(repository.StoreMessage(messages[i]))
	}

	fetched, err := repository.GetMessages("doc-1")
	req.NoError(err)
	req.Len(fetched, len(messages))
	for i := range messages {
		req.Equal(messages[i].ID, fetched[i].ID)
		req.Equal(messages[i].Content, fetched[i].Content)
		req.Equal(messages[i].Role, fetched[i].Role)
		req.True(messages[i].CreatedAt.Equal(fetched[i].CreatedAt))
	}
	req.Equal("gpt-4o-mini", fetched[1].Model)
}

func Test_Record_Multiple_Message_And_Limit(t *testing.T) {
	req := require.New(t)
	limit := 2
	repository := NewMessageRepository(openTestDB(t), slog.Default(), &limit)
	messages := transcript("doc-1", time.Now().UTC())
	for _, m := range messages {
		req.NoError(repository.StoreMessage(m))
	}

	fetched, err := repository.GetMessages("doc-1")
	req.NoError(err)
	req.Len(fetched, limit)
	req.Equal(messages[1].ID, fetched[0].ID)
	req.Equal(messages[2].ID, fetched[1].ID)
}

func Test_Documents_Do_Not_Leak(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default(), nil)
	at := time.Now().UTC()
	for _, m := range append(transcript("doc-1", at), transcript("doc-10", at)...) {
		req.NoError(repository.StoreMessage(m))
	}

	fetched, err := repository.GetMessages("doc-1")
	req.NoError(err)
	req.Len(fetched, 3)
	req.True(lo.EveryBy(fetched, func(m domain.Message) bool { return m.DocumentID == "doc-1" }))
}

func Test_Delete_Document_Transcript(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default(), nil)
	at := time.Now().UTC()
	for _, m := range append(transcript("doc-1", at), transcript("doc-2", at)...) {
		req.NoError(repository.StoreMessage(m))
	}

	req.NoError(repository.DeleteDocument("doc-1"))

	gone, err := repository.GetMessages("doc-1")
	req.NoError(err)
	req.Empty(gone)
	kept, err := repository.GetMessages("doc-2")
	req.NoError(err)
	req.Len(kept, 3)
}
