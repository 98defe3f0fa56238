package chat

import (
	"time"

	"github.com/google/uuid"
)

// Author identifies who wrote a message.
type Author int

const (
	AuthorUser Author = iota
	AuthorAssistant
)

func (a Author) String() string {
	switch a {
	case AuthorUser:
		return "user"
	case AuthorAssistant:
		return "assistant"
	default:
		return "unknown"
	}
}

// MarshalText renders the author by name in JSON and YAML output.
func (a Author) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// Message is a single transcript entry. Messages are never modified after creation.
type Message struct {
	ID        string    `json:"id" yaml:"id"`
	Text      string    `json:"text" yaml:"text"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	Author    Author    `json:"author" yaml:"author"`
}

// Fixed assistant texts.
const (
	DefaultGreeting        = "Hello! How can I help you with booking or company policy today?"
	UnexpectedResponseText = "Sorry, I received an unexpected response."
	ConnectionTroubleText  = "Sorry, there was trouble connecting to the server. Please check your internet and try again."
)

func newMessageID() string {
	return uuid.New().String()
}
