// Package projection holds the local, in-memory view of a chat: the ordered
// conversation about one document and the session deciding which screen is
// shown. It never talks to the backend.
package projection

import (
	"doc-chat/domain"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Conversation holds the messages exchanged about one document in append order.
type Conversation struct {
	Document domain.Document
	messages []domain.Message
}

func NewConversation(doc domain.Document) *Conversation {
	return &Conversation{Document: doc}
}

func (c *Conversation) Append(msg domain.Message) {
	c.messages = append(c.messages, msg)
}

// Remove drops the message with the given ID, keeping the order of the others.
// It is only used to roll back an optimistic append.
func (c *Conversation) Remove(id uuid.UUID) bool {
	before := len(c.messages)
	c.messages = lo.Filter(c.messages, func(m domain.Message, _ int) bool {
		return m.ID != id
	})
	return len(c.messages) != before
}

// Messages returns a copy safe to hand to renderers.
func (c *Conversation) Messages() []domain.Message {
	out := make([]domain.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

func (c *Conversation) Len() int {
	return len(c.messages)
}
