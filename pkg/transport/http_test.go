package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*HTTPClient, *test.Hook) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return NewHTTPClient(server.URL, 5*time.Second, logger), hook
}

func TestHTTPClient_RequestShape(t *testing.T) {
	tests := []struct {
		name     string
		payload  RequestPayload
		wantBody string
	}{
		{
			name:     "first message has no session_id",
			payload:  RequestPayload{Query: "hello"},
			wantBody: `{"query":"hello"}`,
		},
		{
			name:     "follow-up carries session_id",
			payload:  RequestPayload{Query: "book me in", SessionID: "s-1"},
			wantBody: `{"query":"book me in","session_id":"s-1"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPut, r.Method)
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
				body, err := io.ReadAll(r.Body)
				assert.NoError(t, err)
				assert.JSONEq(t, tt.wantBody, string(body))

				if tt.payload.SessionID == "" {
					var raw map[string]any
					assert.NoError(t, json.Unmarshal(body, &raw))
					assert.NotContains(t, raw, "session_id")
				}

				w.Write([]byte(`{"reply":"hi","session_id":"s-2"}`))
			})

			reply, err := client.FetchReply(context.Background(), tt.payload)
			require.NoError(t, err)
			assert.Equal(t, &ReplyPayload{Reply: "hi", SessionID: "s-2"}, reply)
		})
	}
}

func TestHTTPClient_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "non-2xx carries body",
			status: http.StatusInternalServerError,
			body:   "backend exploded",
			check: func(t *testing.T, err error) {
				var statusErr *StatusError
				require.True(t, errors.As(err, &statusErr))
				assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
				assert.Equal(t, "backend exploded", statusErr.Body)
				assert.Contains(t, err.Error(), "status: 500")
			},
		},
		{
			name:   "non-2xx without body",
			status: http.StatusBadGateway,
			check: func(t *testing.T, err error) {
				assert.Contains(t, err.Error(), "No error message")
			},
		},
		{
			name:   "invalid json",
			status: http.StatusOK,
			body:   "<html>oops</html>",
			check: func(t *testing.T, err error) {
				var decodeErr *DecodeError
				require.True(t, errors.As(err, &decodeErr))
				assert.False(t, IsMalformed(err))
			},
		},
		{
			name:   "missing session_id",
			status: http.StatusOK,
			body:   `{"reply":"hi"}`,
			check: func(t *testing.T, err error) {
				assert.True(t, IsMalformed(err))
			},
		},
		{
			name:   "missing reply",
			status: http.StatusOK,
			body:   `{"session_id":"s-1"}`,
			check: func(t *testing.T, err error) {
				assert.True(t, IsMalformed(err))
			},
		},
		{
			name:   "empty reply",
			status: http.StatusOK,
			body:   `{"reply":"","session_id":"s-1"}`,
			check: func(t *testing.T, err error) {
				assert.True(t, IsMalformed(err))
			},
		},
		{
			name:   "json null",
			status: http.StatusOK,
			body:   `null`,
			check: func(t *testing.T, err error) {
				assert.True(t, IsMalformed(err))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			reply, err := client.FetchReply(context.Background(), RequestPayload{Query: "q"})
			assert.Nil(t, reply)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestHTTPClient_LogsBackendErrors(t *testing.T) {
	client, hook := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusTeapot)
	})

	_, err := client.FetchReply(context.Background(), RequestPayload{Query: "q"})
	require.Error(t, err)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, "Backend error response", entry.Message)
	assert.Equal(t, http.StatusTeapot, entry.Data["status"])
}

func TestHTTPClient_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	logger, _ := test.NewNullLogger()
	client := NewHTTPClient(url, time.Second, logger)

	_, err := client.FetchReply(context.Background(), RequestPayload{Query: "q"})
	require.Error(t, err)
	assert.False(t, IsMalformed(err))
}

func TestNewHTTPClientDefaults(t *testing.T) {
	client := NewHTTPClient("", 0, nil)
	assert.Equal(t, DefaultEndpoint, client.Endpoint)
	assert.NotNil(t, client.Logger)
	assert.Zero(t, client.Client.Timeout)
}

func TestMockReplyFetcher(t *testing.T) {
	mock := &MockReplyFetcher{}
	reply, err := mock.FetchReply(context.Background(), RequestPayload{Query: "ping"})
	require.NoError(t, err)
	assert.Equal(t, "ping", reply.Reply)
	assert.Equal(t, []RequestPayload{{Query: "ping"}}, mock.Sent())
}
