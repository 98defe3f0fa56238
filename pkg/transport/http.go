package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// HTTPClient implements ReplyFetcher with a JSON PUT to a single endpoint.
// This is the production implementation used by the CLI.
type HTTPClient struct {
	Endpoint string
	Client   *http.Client
	Logger   logrus.FieldLogger
}

// NewHTTPClient creates a client for endpoint. A zero timeout means the
// request may wait indefinitely.
func NewHTTPClient(endpoint string, timeout time.Duration, logger logrus.FieldLogger) *HTTPClient {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &HTTPClient{
		Endpoint: endpoint,
		Client:   &http.Client{Timeout: timeout},
		Logger:   logger,
	}
}

// wireReply mirrors ReplyPayload but keeps track of missing fields.
type wireReply struct {
	Reply     *string `json:"reply"`
	SessionID *string `json:"session_id"`
}

// FetchReply sends payload and decodes the backend answer.
func (c *HTTPClient) FetchReply(ctx context.Context, payload RequestPayload) (*ReplyPayload, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	log := c.Logger.WithFields(logrus.Fields{
		"endpoint":    c.Endpoint,
		"has_session": payload.SessionID != "",
		"query_bytes": len(payload.Query),
	})
	log.Debug("Sending chat request")

	start := time.Now()
	resp, err := c.Client.Do(req)
	if err != nil {
		log.WithError(err).Error("Chat request failed")
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	log = log.WithFields(logrus.Fields{
		"status":   resp.StatusCode,
		"duration": time.Since(start).String(),
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.WithField("body", string(data)).Error("Backend error response")
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	var wire wireReply
	if err := json.Unmarshal(data, &wire); err != nil {
		log.WithError(err).Error("Backend response is not valid JSON")
		return nil, &DecodeError{Err: err, Body: string(data)}
	}

	if wire.Reply == nil || *wire.Reply == "" || wire.SessionID == nil || *wire.SessionID == "" {
		log.Warn("Backend response is missing reply or session_id")
		return nil, ErrMalformedReply
	}

	log.Debug("Received chat reply")
	return &ReplyPayload{Reply: *wire.Reply, SessionID: *wire.SessionID}, nil
}
