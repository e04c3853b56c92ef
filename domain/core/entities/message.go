package entities

import (
	"time"

	"github.com/google/uuid"
)

// Sender identifies who produced a transcript message
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
	SenderSystem    Sender = "system"
)

// Message is one turn of the chat transcript. Messages are append-only:
// once inserted they are never mutated, and the sequence is ordered by
// creation time.
type Message struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Sender    Sender    `json:"sender"`
	CreatedAt time.Time `json:"createdAt"`

	// NavigateTo carries an optional navigation affordance for system
	// notices; empty for ordinary messages.
	NavigateTo string `json:"navigateTo,omitempty"`
}

// NewUserMessage creates a message authored by the user
func NewUserMessage(text string) Message {
	return newMessage(text, SenderUser)
}

// NewAssistantMessage creates a message authored by the assistant
func NewAssistantMessage(text string) Message {
	return newMessage(text, SenderAssistant)
}

// NewSystemMessage creates an inline system notice
func NewSystemMessage(text string) Message {
	return newMessage(text, SenderSystem)
}

// NewNavigationMessage creates a system notice pointing at a view
func NewNavigationMessage(text, target string) Message {
	m := newMessage(text, SenderSystem)
	m.NavigateTo = target
	return m
}

func newMessage(text string, sender Sender) Message {
	return Message{
		ID:        uuid.New().String(),
		Text:      text,
		Sender:    sender,
		CreatedAt: time.Now(),
	}
}
