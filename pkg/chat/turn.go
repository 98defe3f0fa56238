package chat

import "github.com/mattsolo1/grove-chat/pkg/booking"

// OutcomeKind identifies which branch a turn took.
type OutcomeKind int

const (
	OutcomeReply OutcomeKind = iota
	OutcomeMalformed
	OutcomeTransportFailure
	OutcomeDiscarded // the conversation was cleared while the turn was in flight
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeReply:
		return "reply"
	case OutcomeMalformed:
		return "malformed"
	case OutcomeTransportFailure:
		return "transport_failure"
	case OutcomeDiscarded:
		return "discarded"
	default:
		return "unknown"
	}
}

// Outcome describes a finished turn.
type Outcome struct {
	Kind      OutcomeKind
	Message   Message                 // Assistant message appended for this turn
	SessionID string                  // Session issued by the backend, set for OutcomeReply
	Booking   *booking.BookingDetails // Non-nil when the reply confirmed a booking
	Err       error                   // Underlying failure, for logging only
}

// Turn is a single in-flight exchange. It completes exactly once and cannot be cancelled.
type Turn struct {
	UserMessage Message

	done    chan struct{}
	outcome Outcome
}

func newTurn(userMsg Message) *Turn {
	return &Turn{UserMessage: userMsg, done: make(chan struct{})}
}

func (t *Turn) finish(out Outcome) {
	t.outcome = out
	close(t.done)
}

// Done is closed once the turn has finished.
func (t *Turn) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the turn finishes and returns its outcome.
func (t *Turn) Wait() Outcome {
	<-t.done
	return t.outcome
}
