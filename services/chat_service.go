package services

import (
	"context"
	"doc-chat/contract"
	"doc-chat/domain"
	"doc-chat/errors"
	"doc-chat/projection"
	"doc-chat/redaction"
	"doc-chat/sanitizer"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// ChatService owns the session and runs the optimistic question flow:
// Post appends the question right away, Resolve queries the backend and
// either appends the answer or rolls the question back.
type ChatService struct {
	mu          sync.Mutex
	api         contract.DocumentAPI
	session     *projection.Session
	redactor    *redaction.Redactor
	sink        contract.MessageSink
	validator   *validator.Validate
	log         *slog.Logger
	temperature *float64
	pending     *projection.Conversation
	now         func() time.Time
}

// NewChatService wires the chat flow. redactor and sink may be nil.
func NewChatService(
	api contract.DocumentAPI,
	redactor *redaction.Redactor,
	sink contract.MessageSink,
	log *slog.Logger,
	temperature *float64,
) *ChatService {
	return &ChatService{
		api:         api,
		session:     projection.NewSession(),
		redactor:    redactor,
		sink:        sink,
		validator:   validator.New(),
		log:         log,
		temperature: temperature,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Open switches the session to the chat view for doc with an empty conversation.
func (s *ChatService) Open(doc domain.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.Open(doc)
	s.log.Debug("Document opened", "document_id", doc.ID, "filename", doc.Filename)
}

// Close returns to the upload view.
func (s *ChatService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.Close()
}

// CloseIfOpen closes the session when id is the open document.
func (s *ChatService) CloseIfOpen(id domain.DocumentID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.session.Document()
	if !ok || doc.ID != id {
		return false
	}
	s.session.Close()
	return true
}

func (s *ChatService) View() projection.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.View()
}

func (s *ChatService) Document() (domain.Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Document()
}

// Messages returns a snapshot of the open conversation.
func (s *ChatService) Messages() []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	if conv := s.session.Conversation(); conv != nil {
		return conv.Messages()
	}
	return nil
}

// Busy reports whether a question is waiting for its answer.
func (s *ChatService) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != nil
}

// Post appends the (redacted) question to the open conversation and marks a
// query as in flight. The returned message must be passed to Resolve.
func (s *ChatService) Post(question string) (domain.Message, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return domain.Message{}, errors.ErrEmptyQuestion
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	conv := s.session.Conversation()
	if conv == nil {
		return domain.Message{}, errors.ErrNoDocument
	}
	if s.pending != nil {
		return domain.Message{}, errors.ErrRequestInFlight
	}

	if s.redactor.Enabled() {
		var found []string
		question, found = s.redactor.Redact(question)
		if len(found) > 0 {
			s.log.Info("Redacted question before sending", "terms", len(found))
		}
	}

	msg := domain.NewUserMessage(conv.Document.ID, question, s.now())
	conv.Append(msg)
	s.pending = conv
	return msg, nil
}

// Resolve sends the posted question and settles the conversation. On
// failure the question is removed and an *AskError is returned.
func (s *ChatService) Resolve(ctx context.Context, question domain.Message) (domain.Message, error) {
	request := domain.QueryRequest{
		DocumentID:  question.DocumentID,
		Question:    question.Content,
		Temperature: s.temperature,
	}

	var answer domain.Answer
	err := s.validator.Struct(request)
	if err != nil {
		err = fmt.Errorf("%w: %v", errors.ErrInvalidRequest, err)
	} else {
		answer, err = s.api.Query(ctx, request)
	}

	s.mu.Lock()
	conv := s.pending
	s.pending = nil
	current := s.session.Conversation()

	if err != nil {
		if conv != nil {
			conv.Remove(question.ID)
		}
		s.mu.Unlock()
		s.log.Warn("Query failed", "document_id", question.DocumentID, "error", err)
		return domain.Message{}, newAskError(err)
	}

	reply := domain.NewAssistantMessage(question.DocumentID, sanitizer.Clean(answer.Answer), answer.Model, s.now())
	if conv != nil && conv == current {
		conv.Append(reply)
	} else {
		s.log.Debug("Answer arrived after the document was closed", "document_id", question.DocumentID)
	}
	s.mu.Unlock()

	if s.sink != nil {
		if err := s.sink.Consume(ctx, question, reply); err != nil {
			s.log.Warn("Failed to record turn in history", "document_id", question.DocumentID, "error", err)
		}
	}
	return reply, nil
}

// Ask is Post followed by Resolve.
func (s *ChatService) Ask(ctx context.Context, question string) (domain.Message, error) {
	msg, err := s.Post(question)
	if err != nil {
		return domain.Message{}, err
	}
	return s.Resolve(ctx, msg)
}
