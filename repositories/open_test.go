package repositories

import (
	"context"
	"doc-chat/domain"
	"doc-chat/domain/search"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_OpenHistory_Survives_Reopen(t *testing.T) {
	req := require.New(t)
	dir := t.TempDir()
	message := domain.NewUserMessage("doc-1", "Where are the invoices kept?", time.Now().UTC())

	db, writer, closeAll, err := OpenHistory(dir, slog.Default())
	req.NoError(err)
	req.NoError(NewMessageRepository(db, slog.Default(), nil).StoreMessage(message))
	req.NoError(NewTranscriptIndex(writer, slog.Default()).Index(message))
	closeAll()

	db, writer, closeAll, err = OpenHistory(dir, slog.Default())
	req.NoError(err)
	defer closeAll()

	stored, err := NewMessageRepository(db, slog.Default(), nil).GetMessages("doc-1")
	req.NoError(err)
	req.Len(stored, 1)

	hits, err := NewTranscriptIndex(writer, slog.Default()).Search(context.Background(), search.Query{Terms: "invoices"})
	req.NoError(err)
	req.Len(hits, 1)
	req.Equal(message.ID, hits[0].Message.ID)
}
