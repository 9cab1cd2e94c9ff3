package event

import "errors"

const (
	// TypeConnected is the synthetic ack emitted right after a stream opens,
	// so clients can tell "stream open, no data yet" from "stream never opened".
	TypeConnected = "connected"
	// TypeNotification carries one persisted notification record.
	TypeNotification = "notification"
)

// Event is one message pushed over a live channel.
type Event struct {
	Type string
	Data any
}

var (
	ErrChannelClosed = errors.New("channel is closed")
	ErrChannelFull   = errors.New("channel buffer is full")
)

// Channel is the write capability the registry and the dispatcher see.
// Keeping it an interface means fan-out is unit-testable without a real
// HTTP connection behind it.
type Channel interface {
	ID() string
	Send(event Event) error
}
