package chat

import (
	"context"
	"sync"
	"time"

	"github.com/mattsolo1/grove-chat/pkg/booking"
	"github.com/mattsolo1/grove-chat/pkg/transport"
	"github.com/sirupsen/logrus"
)

// ControllerConfig holds optional settings for a Controller.
type ControllerConfig struct {
	Greeting  string             // Seeded assistant message; DefaultGreeting when empty
	SessionID string             // Resume an existing backend session
	Logger    logrus.FieldLogger // Defaults to the logrus standard logger
	Now       func() time.Time   // Clock for message timestamps and booking extraction
	NewID     func() string      // Message ID generator
}

// Controller owns one conversation: the transcript, the backend session id,
// the busy flag and the most recent booking confirmation.
//
// State is mutex-guarded so a presenter can read snapshots while a turn is in
// flight. The controller does not serialize turns; presenters are expected to
// hold submission while Busy reports true.
type Controller struct {
	fetcher  transport.ReplyFetcher
	greeting string
	log      logrus.FieldLogger
	now      func() time.Time
	newID    func() string

	mu         sync.Mutex
	transcript []Message
	sessionID  string
	hasSession bool
	inFlight   int
	epoch      uint64 // bumped by ClearConversation so stale turns are dropped
	booking    *booking.BookingDetails
	showModal  bool
}

// NewController creates a controller seeded with the greeting message.
func NewController(fetcher transport.ReplyFetcher, cfg *ControllerConfig) *Controller {
	if cfg == nil {
		cfg = &ControllerConfig{}
	}

	c := &Controller{
		fetcher:  fetcher,
		greeting: cfg.Greeting,
		log:      cfg.Logger,
		now:      cfg.Now,
		newID:    cfg.NewID,
	}
	if cfg.SessionID != "" {
		c.sessionID = cfg.SessionID
		c.hasSession = true
	}
	if c.greeting == "" {
		c.greeting = DefaultGreeting
	}
	if c.log == nil {
		c.log = logrus.StandardLogger()
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.newID == nil {
		c.newID = newMessageID
	}

	c.transcript = []Message{c.newMessage(AuthorAssistant, c.greeting)}
	return c
}

func (c *Controller) newMessage(author Author, text string) Message {
	return Message{
		ID:        c.newID(),
		Text:      text,
		CreatedAt: c.now(),
		Author:    author,
	}
}

// Submit starts a turn: the user message is appended and the busy flag set
// before Submit returns, and the backend call runs in the background.
func (c *Controller) Submit(ctx context.Context, text string) *Turn {
	c.mu.Lock()
	userMsg := c.newMessage(AuthorUser, text)
	c.transcript = append(c.transcript, userMsg)
	c.inFlight++
	epoch := c.epoch

	payload := transport.RequestPayload{Query: text}
	if c.hasSession {
		payload.SessionID = c.sessionID
	}
	c.mu.Unlock()

	turn := newTurn(userMsg)
	go func() {
		reply, err := c.fetcher.FetchReply(ctx, payload)
		turn.finish(c.complete(epoch, reply, err))
	}()
	return turn
}

// SubmitUserMessage runs a full turn and waits for it to finish.
func (c *Controller) SubmitUserMessage(ctx context.Context, text string) Outcome {
	return c.Submit(ctx, text).Wait()
}

func (c *Controller) complete(epoch uint64, reply *transport.ReplyPayload, err error) Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()

	if epoch != c.epoch {
		c.log.WithField("epoch", epoch).Info("Dropping reply for a cleared conversation")
		return Outcome{Kind: OutcomeDiscarded, Err: err}
	}
	defer func() {
		if c.inFlight > 0 {
			c.inFlight--
		}
	}()

	// Fetchers other than HTTPClient may return incomplete payloads.
	if err == nil && (reply == nil || reply.Reply == "" || reply.SessionID == "") {
		err = transport.ErrMalformedReply
	}

	switch {
	case err != nil && transport.IsMalformed(err):
		c.log.WithError(err).Warn("Received an unexpected response")
		msg := c.appendAssistant(UnexpectedResponseText)
		return Outcome{Kind: OutcomeMalformed, Message: msg, Err: err}

	case err != nil:
		c.log.WithError(err).Error("Error sending message")
		msg := c.appendAssistant(ConnectionTroubleText)
		return Outcome{Kind: OutcomeTransportFailure, Message: msg, Err: err}
	}

	c.sessionID = reply.SessionID
	c.hasSession = true

	out := Outcome{Kind: OutcomeReply, SessionID: reply.SessionID}
	if booking.IsConfirmation(reply.Reply) {
		details := booking.ExtractAt(reply.Reply, c.now())
		c.booking = &details
		c.showModal = true
		out.Booking = &details
		c.log.WithFields(logrus.Fields{
			"booking_id": booking.Value(details.ID),
			"session_id": reply.SessionID,
		}).Info("Booking confirmed")
	}

	out.Message = c.appendAssistant(reply.Reply)
	return out
}

func (c *Controller) appendAssistant(text string) Message {
	msg := c.newMessage(AuthorAssistant, text)
	c.transcript = append(c.transcript, msg)
	return msg
}

// ClearConversation resets the transcript to the greeting and forgets the session.
// A turn still in flight is discarded when it completes.
func (c *Controller) ClearConversation() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.transcript = []Message{c.newMessage(AuthorAssistant, c.greeting)}
	c.sessionID = ""
	c.hasSession = false
	c.inFlight = 0
	c.epoch++
	c.booking = nil
	c.showModal = false
}

// DismissBookingModal hides the booking modal. The details stay available
// through LastBooking until the next confirmation or clear.
func (c *Controller) DismissBookingModal() {
	c.mu.Lock()
	c.showModal = false
	c.mu.Unlock()
}

// Transcript returns a copy of the conversation in display order.
func (c *Controller) Transcript() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Message(nil), c.transcript...)
}

// SessionID returns the backend session id and whether one has been issued.
func (c *Controller) SessionID() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID, c.hasSession
}

// Busy reports whether a turn is waiting for the backend.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight > 0
}

// BookingModal returns the details to show and whether the modal is visible.
func (c *Controller) BookingModal() (booking.BookingDetails, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.showModal || c.booking == nil {
		return booking.BookingDetails{}, false
	}
	return *c.booking, true
}

// LastBooking returns the most recent booking confirmation, if any.
func (c *Controller) LastBooking() *booking.BookingDetails {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.booking == nil {
		return nil
	}
	details := *c.booking
	return &details
}
