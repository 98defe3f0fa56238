package transport

import (
	"context"
	"sync"
)

// MockReplyFetcher is a mock implementation of ReplyFetcher for testing.
// It records every payload it receives.
type MockReplyFetcher struct {
	mu sync.Mutex

	// Payloads records all requests that were sent
	Payloads []RequestPayload

	// FetchFunc allows custom behavior for FetchReply in tests
	FetchFunc func(ctx context.Context, payload RequestPayload) (*ReplyPayload, error)
}

// FetchReply implements the ReplyFetcher interface for testing.
func (m *MockReplyFetcher) FetchReply(ctx context.Context, payload RequestPayload) (*ReplyPayload, error) {
	m.mu.Lock()
	m.Payloads = append(m.Payloads, payload)
	fn := m.FetchFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, payload)
	}
	// By default, echo the query back under a fixed session
	return &ReplyPayload{Reply: payload.Query, SessionID: "mock-session"}, nil
}

// Sent returns a copy of the recorded payloads.
func (m *MockReplyFetcher) Sent() []RequestPayload {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]RequestPayload(nil), m.Payloads...)
}
