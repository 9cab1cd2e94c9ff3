package event

import (
	"sync"
	
	"github.com/lithammer/shortuuid/v4"
	"github.com/rs/zerolog/log"
)

// streamChannelBuffer bounds how far one client may fall behind before its
// channel is treated as dead.
const streamChannelBuffer = 16

// StreamChannel is the in-memory side of one open SSE connection.
type StreamChannel struct {
	id     string
	events chan Event
	closed sync.Once
	dead   chan struct{}
}

func NewStreamChannel() *StreamChannel {
	return &StreamChannel{
		id:     shortuuid.New(),
		events: make(chan Event, streamChannelBuffer),
		dead:   make(chan struct{}),
	}
}

// ID identifies the channel in logs. A reconnecting client gets a brand
// new channel with a new ID.
func (c *StreamChannel) ID() string {
	return c.id
}

// Send queues the event for the stream handler. It never blocks: a closed
// channel or a full buffer reports an error so the caller can drop the
// channel from the registry.
func (c *StreamChannel) Send(event Event) error {
	select {
	case <-c.dead:
		return ErrChannelClosed
	default:
	}
	
	select {
	case c.events <- event:
		return nil
	default:
		return ErrChannelFull
	}
}

// Events is consumed by the stream handler that owns this channel.
func (c *StreamChannel) Events() <-chan Event {
	return c.events
}

// Close marks the channel dead. Safe to call multiple times. The events
// chan itself is never closed so a concurrent Send can never panic.
func (c *StreamChannel) Close() {
	c.closed.Do(func() {
		close(c.dead)
	})
}

// Registry tracks, per user, the set of currently open live channels.
// It is process-local: in a horizontally scaled deployment, each replica
// only sees the channels opened against it.
type Registry struct {
	mu      sync.Mutex
	clients map[string]map[Channel]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		clients: make(map[string]map[Channel]struct{}),
	}
}

// Register adds the channel to the user's set, creating the set if absent.
func (r *Registry) Register(userID string, channel Channel) {
	r.mu.Lock()
	if _, ok := r.clients[userID]; !ok {
		r.clients[userID] = make(map[Channel]struct{})
	}
	r.clients[userID][channel] = struct{}{}
	total := len(r.clients[userID])
	r.mu.Unlock()
	
	log.Info().Str("user_id", userID).Str("channel_id", channel.ID()).Int("open_channels", total).Msg("live channel registered")
}

// Unregister removes the channel from the user's set and drops the user
// entry when the set becomes empty. Calling it twice, or after a failed
// register, is a no-op.
func (r *Registry) Unregister(userID string, channel Channel) {
	r.mu.Lock()
	channels, ok := r.clients[userID]
	if ok {
		delete(channels, channel)
		if len(channels) == 0 {
			delete(r.clients, userID)
		}
	}
	remaining := len(channels)
	r.mu.Unlock()
	
	if !ok {
		return
	}
	
	log.Info().Str("user_id", userID).Str("channel_id", channel.ID()).Int("open_channels", remaining).Msg("live channel unregistered")
}

// ChannelsFor returns a snapshot of the user's open channels, safe to
// iterate while the set is concurrently mutated.
func (r *Registry) ChannelsFor(userID string) []Channel {
	r.mu.Lock()
	defer r.mu.Unlock()
	
	channels := make([]Channel, 0, len(r.clients[userID]))
	for channel := range r.clients[userID] {
		channels = append(channels, channel)
	}
	
	return channels
}
