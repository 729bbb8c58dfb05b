package projection

import (
	"doc-chat/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSession_StartsOnUploadView(t *testing.T) {
	req := require.New(t)
	s := NewSession()
	req.Equal(ViewUpload, s.View())
	req.Nil(s.Conversation())
	_, ok := s.Document()
	req.False(ok)
}

func TestSession_OpenSwitchesToChat(t *testing.T) {
	req := require.New(t)
	s := NewSession()
	doc := domain.Document{ID: "doc-1", Filename: "report.pdf"}

	conv := s.Open(doc)

	req.Equal(ViewChat, s.View())
	req.Same(conv, s.Conversation())
	got, ok := s.Document()
	req.True(ok)
	req.Equal(doc, got)
}

func TestSession_OpenAnotherDocumentReplacesConversation(t *testing.T) {
	req := require.New(t)
	s := NewSession()
	first := s.Open(domain.Document{ID: "doc-1"})
	first.Append(domain.NewUserMessage("doc-1", "question", time.Now()))

	second := s.Open(domain.Document{ID: "doc-2", Filename: "other.txt"})

	req.NotSame(first, second)
	req.Zero(second.Len())
	got, _ := s.Document()
	req.Equal(domain.DocumentID("doc-2"), got.ID)
}

func TestSession_Close(t *testing.T) {
	req := require.New(t)
	s := NewSession()
	s.Open(domain.Document{ID: "doc-1"})
	s.Close()
	req.Equal(ViewUpload, s.View())
	req.Nil(s.Conversation())
	req.Equal("upload", s.View().String())
}
