// Package domain contains core concepts of the document chat client.
// This file defines chat messages exchanged about a document.
// Messages are immutable once created.
package domain

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message represents one turn of a conversation about a document.
type Message struct {
	ID         uuid.UUID // unique identifier
	DocumentID DocumentID
	Role       Role
	Content    string
	Lang       string // ISO 639-1, empty when detection is unreliable
	Model      string // assistant messages only
	CreatedAt  time.Time
}

func NewUserMessage(documentID DocumentID, content string, at time.Time) Message {
	return Message{
		ID:         uuid.New(),
		DocumentID: documentID,
		Role:       RoleUser,
		Content:    content,
		Lang:       DetectLanguage(content),
		CreatedAt:  at,
	}
}

func NewAssistantMessage(documentID DocumentID, content, model string, at time.Time) Message {
	return Message{
		ID:         uuid.New(),
		DocumentID: documentID,
		Role:       RoleAssistant,
		Content:    content,
		Lang:       DetectLanguage(content),
		Model:      model,
		CreatedAt:  at,
	}
}

// SearchHit is a stored message matched by a transcript search.
type SearchHit struct {
	Message Message
	Score   float64
}
