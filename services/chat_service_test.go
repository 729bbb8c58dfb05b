package services

import (
	"context"
	"doc-chat/domain"
	"doc-chat/errors"
	"doc-chat/infrastructure/http/client"
	"doc-chat/mocks"
	"doc-chat/redaction"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var openDoc = domain.Document{ID: "doc-1", Filename: "handbook.pdf"}

func TestChatService_Ask(t *testing.T) {
	ctx := context.Background()

	t.Run("should append question and cleaned answer", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		api := mocks.NewMockDocumentAPI(ctrl)
		svc := NewChatService(api, nil, nil, discardLogger, nil)
		svc.Open(openDoc)

		api.EXPECT().
			Query(gomock.Any(), domain.QueryRequest{DocumentID: "doc-1", Question: "What is covered?"}).
			Return(domain.Answer{DocumentID: "doc-1", Answer: "Everything\u200b   is   covered.", Model: "gpt-4o-mini"}, nil).
			Times(1)

		reply, err := svc.Ask(ctx, "  What is covered?  ")
		req.NoError(err)
		req.Equal("Everything is covered.", reply.Content)
		req.Equal("gpt-4o-mini", reply.Model)

		messages := svc.Messages()
		req.Len(messages, 2)
		req.Equal(domain.RoleUser, messages[0].Role)
		req.Equal("What is covered?", messages[0].Content)
		req.Equal(domain.RoleAssistant, messages[1].Role)
		req.False(svc.Busy())
	})

	t.Run("should roll back the question and surface the server detail", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		api := mocks.NewMockDocumentAPI(ctrl)
		svc := NewChatService(api, nil, nil, discardLogger, nil)
		svc.Open(openDoc)

		api.EXPECT().
			Query(gomock.Any(), gomock.Any()).
			Return(domain.Answer{}, fmt.Errorf("query failed: %w", &client.APIError{StatusCode: 404, Detail: "Document not found"})).
			Times(1)

		_, err := svc.Ask(ctx, "Anyone there?")
		var askErr *AskError
		req.True(stderrors.As(err, &askErr))
		req.Equal("Document not found", askErr.Message())
		req.Empty(svc.Messages())
		req.False(svc.Busy())
	})

	t.Run("should roll back with the generic fallback on transport errors", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		api := mocks.NewMockDocumentAPI(ctrl)
		svc := NewChatService(api, nil, nil, discardLogger, nil)
		svc.Open(openDoc)

		api.EXPECT().Query(gomock.Any(), gomock.Any()).Return(domain.Answer{}, fmt.Errorf("dial tcp: refused"))

		_, err := svc.Ask(ctx, "Hello?")
		var askErr *AskError
		req.True(stderrors.As(err, &askErr))
		req.Equal(QueryFallback, askErr.Message())
		req.Empty(svc.Messages())
	})

	t.Run("should only remove the failed question", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		api := mocks.NewMockDocumentAPI(ctrl)
		svc := NewChatService(api, nil, nil, discardLogger, nil)
		svc.Open(openDoc)

		gomock.InOrder(
			api.EXPECT().Query(gomock.Any(), gomock.Any()).Return(domain.Answer{Answer: "first answer"}, nil),
			api.EXPECT().Query(gomock.Any(), gomock.Any()).Return(domain.Answer{}, fmt.Errorf("timeout")),
		)

		_, err := svc.Ask(ctx, "first")
		req.NoError(err)
		_, err = svc.Ask(ctx, "second")
		req.Error(err)

		contents := lo.Map(svc.Messages(), func(m domain.Message, _ int) string { return m.Content })
		req.Equal([]string{"first", "first answer"}, contents)
	})

	t.Run("should not send empty questions", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		api := mocks.NewMockDocumentAPI(ctrl)
		svc := NewChatService(api, nil, nil, discardLogger, nil)
		svc.Open(openDoc)

		api.EXPECT().Query(gomock.Any(), gomock.Any()).Times(0)

		_, err := svc.Ask(ctx, " \n\t ")
		req.ErrorIs(err, errors.ErrEmptyQuestion)
		req.Empty(svc.Messages())
	})

	t.Run("should refuse without an open document", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		api := mocks.NewMockDocumentAPI(ctrl)
		svc := NewChatService(api, nil, nil, discardLogger, nil)

		api.EXPECT().Query(gomock.Any(), gomock.Any()).Times(0)

		_, err := svc.Ask(ctx, "hello")
		req.ErrorIs(err, errors.ErrNoDocument)
	})

	t.Run("should send the configured temperature", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		api := mocks.NewMockDocumentAPI(ctrl)
		svc := NewChatService(api, nil, nil, discardLogger, lo.ToPtr(0.3))
		svc.Open(openDoc)

		api.EXPECT().
			Query(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, q domain.QueryRequest) (domain.Answer, error) {
				req.NotNil(q.Temperature)
				req.Equal(0.3, *q.Temperature)
				return domain.Answer{Answer: "ok"}, nil
			})

		_, err := svc.Ask(ctx, "hello")
		req.NoError(err)
	})

	t.Run("should redact configured terms before sending", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		api := mocks.NewMockDocumentAPI(ctrl)
		redactor, err := redaction.NewRedactor([]string{"acme"}, '*')
		req.NoError(err)
		svc := NewChatService(api, redactor, nil, discardLogger, nil)
		svc.Open(openDoc)

		api.EXPECT().
			Query(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, q domain.QueryRequest) (domain.Answer, error) {
				req.Equal("Who owns **** now?", q.Question)
				return domain.Answer{Answer: "Nobody."}, nil
			})

		_, err = svc.Ask(ctx, "Who owns ACME now?")
		req.NoError(err)
		req.Equal("Who owns **** now?", svc.Messages()[0].Content)
	})

	t.Run("should hand the finished turn to the sink", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		api := mocks.NewMockDocumentAPI(ctrl)
		sink := mocks.NewMockMessageSink(ctrl)
		svc := NewChatService(api, nil, sink, discardLogger, nil)
		svc.Open(openDoc)

		api.EXPECT().Query(gomock.Any(), gomock.Any()).Return(domain.Answer{Answer: "yes"}, nil)
		sink.EXPECT().
			Consume(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, messages ...domain.Message) error {
				req.Len(messages, 2)
				req.Equal(domain.RoleUser, messages[0].Role)
				req.Equal(domain.RoleAssistant, messages[1].Role)
				return nil
			})

		_, err := svc.Ask(ctx, "Is it stored?")
		req.NoError(err)
	})

	t.Run("should not record failed turns", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		api := mocks.NewMockDocumentAPI(ctrl)
		sink := mocks.NewMockMessageSink(ctrl)
		svc := NewChatService(api, nil, sink, discardLogger, nil)
		svc.Open(openDoc)

		api.EXPECT().Query(gomock.Any(), gomock.Any()).Return(domain.Answer{}, fmt.Errorf("boom"))
		sink.EXPECT().Consume(gomock.Any(), gomock.Any()).Times(0)

		_, err := svc.Ask(ctx, "Is it stored?")
		req.Error(err)
	})
}

func TestChatService_Optimistic_Post(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	api := mocks.NewMockDocumentAPI(ctrl)
	svc := NewChatService(api, nil, nil, discardLogger, nil)
	svc.Open(openDoc)

	msg, err := svc.Post("pending question")
	req.NoError(err)

	// Visible before the backend answers
	req.Len(svc.Messages(), 1)
	req.Equal(msg.ID, svc.Messages()[0].ID)
	req.True(svc.Busy())

	_, err = svc.Post("second question")
	req.ErrorIs(err, errors.ErrRequestInFlight)
	req.Len(svc.Messages(), 1)

	api.EXPECT().Query(gomock.Any(), gomock.Any()).Return(domain.Answer{Answer: "done"}, nil)
	_, err = svc.Resolve(context.Background(), msg)
	req.NoError(err)
	req.Len(svc.Messages(), 2)
	req.False(svc.Busy())
}

func TestChatService_Answer_After_Document_Switch(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	api := mocks.NewMockDocumentAPI(ctrl)
	svc := NewChatService(api, nil, nil, discardLogger, nil)
	svc.Open(openDoc)

	msg, err := svc.Post("question about the first document")
	req.NoError(err)

	other := domain.Document{ID: "doc-2", Filename: "other.txt"}
	svc.Open(other)

	api.EXPECT().Query(gomock.Any(), gomock.Any()).Return(domain.Answer{Answer: "late"}, nil)
	_, err = svc.Resolve(context.Background(), msg)
	req.NoError(err)

	doc, ok := svc.Document()
	req.True(ok)
	req.Equal(other, doc)
	req.Empty(svc.Messages())
}
