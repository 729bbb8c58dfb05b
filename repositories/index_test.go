package repositories

import (
	"context"
	"doc-chat/domain"
	"doc-chat/domain/search"
	"log/slog"
	"testing"
	"time"

	"github.com/blugelabs/bluge"
	"github.com/stretchr/testify/require"
)

func openTestIndex(t *testing.T) *TranscriptIndex {
	t.Helper()
	writer, err := bluge.OpenWriter(bluge.DefaultConfig(t.TempDir()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = writer.Close() })
	return NewTranscriptIndex(writer, slog.Default())
}

func Test_Index_And_Search_By_Content(t *testing.T) {
	req := require.New(t)
	index := openTestIndex(t)
	at := time.Now().UTC().Truncate(time.Millisecond)
	messages := transcript("doc-1", at)
	for _, m := range messages {
		req.NoError(index.Index(m))
	}

	hits, err := index.Search(context.Background(), search.Query{Terms: "refunds", Limit: 5})
	req.NoError(err)
	req.Len(hits, 1)
	req.Equal(messages[1].ID, hits[0].Message.ID)
	req.Equal(domain.RoleAssistant, hits[0].Message.Role)
	req.Equal(domain.DocumentID("doc-1"), hits[0].Message.DocumentID)
	req.True(messages[1].CreatedAt.Equal(hits[0].Message.CreatedAt))
	req.Positive(hits[0].Score)
}

func Test_Search_Restricted_To_Document(t *testing.T) {
	req := require.New(t)
	index := openTestIndex(t)
	at := time.Now().UTC()
	for _, m := range append(transcript("doc-1", at), transcript("doc-2", at)...) {
		req.NoError(index.Index(m))
	}

	all, err := index.Search(context.Background(), search.Query{Terms: "digital", Limit: 10})
	req.NoError(err)
	req.Len(all, 2)

	scoped, err := index.Search(context.Background(), search.Query{Terms: "digital", DocumentID: "doc-2", Limit: 10})
	req.NoError(err)
	req.Len(scoped, 1)
	req.Equal(domain.DocumentID("doc-2"), scoped[0].Message.DocumentID)
}

func Test_Empty_Query_Has_No_Hits(t *testing.T) {
	req := require.New(t)
	index := openTestIndex(t)
	req.NoError(index.Index(domain.NewUserMessage("doc-1", "hello", time.Now())))

	hits, err := index.Search(context.Background(), search.Query{})
	req.NoError(err)
	req.Empty(hits)
}

func Test_Delete_Document_From_Index(t *testing.T) {
	req := require.New(t)
	index := openTestIndex(t)
	at := time.Now().UTC()
	for _, m := range append(transcript("doc-1", at), transcript("doc-2", at)...) {
		req.NoError(index.Index(m))
	}

	req.NoError(index.DeleteDocument("doc-1"))

	hits, err := index.Search(context.Background(), search.Query{Terms: "refund digital policy", Limit: 10})
	req.NoError(err)
	req.NotEmpty(hits)
	for _, hit := range hits {
		req.Equal(domain.DocumentID("doc-2"), hit.Message.DocumentID)
	}
	// Deleting an unknown document is a no-op
	req.NoError(index.DeleteDocument("unknown"))
}
