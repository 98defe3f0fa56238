package transport

import (
	"context"
	"errors"
	"fmt"
)

// DefaultEndpoint is the chat backend the client talks to unless configured otherwise.
const DefaultEndpoint = "https://flask-backend-vercel.vercel.app/chat"

// RequestPayload is the body sent for one user turn.
// SessionID is omitted until the backend has issued one.
type RequestPayload struct {
	Query     string `json:"query"`
	SessionID string `json:"session_id,omitempty"`
}

// ReplyPayload is a well-formed backend answer.
type ReplyPayload struct {
	Reply     string `json:"reply"`
	SessionID string `json:"session_id"`
}

// ReplyFetcher defines the network collaborator used by the chat controller.
// This abstraction allows the controller to be tested without a backend.
type ReplyFetcher interface {
	// FetchReply sends one turn to the backend and waits for the answer.
	FetchReply(ctx context.Context, payload RequestPayload) (*ReplyPayload, error)
}

// ErrMalformedReply is returned when the backend answered with JSON that lacks
// a reply or a session id.
var ErrMalformedReply = errors.New("malformed reply: missing reply or session_id")

// StatusError is returned for non-2xx responses and carries the response body.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	body := e.Body
	if body == "" {
		body = "No error message"
	}
	return fmt.Sprintf("HTTP error! status: %d, message: %s", e.StatusCode, body)
}

// DecodeError wraps a response body that could not be parsed as JSON.
type DecodeError struct {
	Err  error
	Body string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode reply: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsMalformed reports whether err means the backend answered but the payload was incomplete.
func IsMalformed(err error) bool {
	return errors.Is(err, ErrMalformedReply)
}
