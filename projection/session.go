package projection

import "doc-chat/domain"

type View int

const (
	ViewUpload View = iota
	ViewChat
)

func (v View) String() string {
	switch v {
	case ViewChat:
		return "chat"
	default:
		return "upload"
	}
}

// Session is the root view state: the upload screen until a document is
// open, then the chat screen for that document.
type Session struct {
	view         View
	conversation *Conversation
}

func NewSession() *Session {
	return &Session{view: ViewUpload}
}

// Open switches to the chat view with a fresh conversation, replacing any
// previously open document.
func (s *Session) Open(doc domain.Document) *Conversation {
	s.conversation = NewConversation(doc)
	s.view = ViewChat
	return s.conversation
}

// Close returns to the upload view and forgets the conversation.
func (s *Session) Close() {
	s.conversation = nil
	s.view = ViewUpload
}

func (s *Session) View() View {
	return s.view
}

// Conversation returns nil while no document is open.
func (s *Session) Conversation() *Conversation {
	return s.conversation
}

func (s *Session) Document() (domain.Document, bool) {
	if s.conversation == nil {
		return domain.Document{}, false
	}
	return s.conversation.Document, true
}
