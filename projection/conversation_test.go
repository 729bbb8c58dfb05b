package projection

import (
	"doc-chat/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestConversation_AppendKeepsOrder(t *testing.T) {
	req := require.New(t)
	conv := NewConversation(domain.Document{ID: "doc-1", Filename: "report.pdf"})
	now := time.Now()

	first := domain.NewUserMessage("doc-1", "Hello", now)
	second := domain.NewAssistantMessage("doc-1", "Hi there", "model", now.Add(time.Second))
	conv.Append(first)
	conv.Append(second)

	messages := conv.Messages()
	req.Len(messages, 2)
	req.Equal(first.ID, messages[0].ID)
	req.Equal(second.ID, messages[1].ID)
}

func TestConversation_RemoveRollsBackOnlyThatMessage(t *testing.T) {
	req := require.New(t)
	conv := NewConversation(domain.Document{ID: "doc-1"})
	now := time.Now()

	a := domain.NewUserMessage("doc-1", "a", now)
	b := domain.NewAssistantMessage("doc-1", "b", "m", now)
	c := domain.NewUserMessage("doc-1", "c", now)
	conv.Append(a)
	conv.Append(b)
	conv.Append(c)

	req.True(conv.Remove(c.ID))
	req.False(conv.Remove(c.ID))
	req.Equal([]domain.Message{a, b}, conv.Messages())
}

func TestConversation_MessagesIsACopy(t *testing.T) {
	req := require.New(t)
	conv := NewConversation(domain.Document{ID: "doc-1"})
	conv.Append(domain.NewUserMessage("doc-1", "original", time.Now()))

	snapshot := conv.Messages()
	snapshot[0].Content = "mutated"

	req.Equal("original", conv.Messages()[0].Content)
}
