package eventbus

import (
	"sync"

	"github.com/google/uuid"

	"github.com/stintd/stint/internal/application/port/output"
)

// ChannelBus implements output.EventBus with per-subscriber channels.
// Publishing uses non-blocking sends, a full subscriber loses the event
// rather than stalling the controller.
type ChannelBus struct {
	mu          sync.Mutex
	subscribers map[string]chan output.TimerEvent
	closed      bool
}

// NewChannelBus creates an empty event bus
func NewChannelBus() *ChannelBus {
	return &ChannelBus{
		subscribers: make(map[string]chan output.TimerEvent),
	}
}

// Publish pushes an event to all current subscribers without blocking
func (b *ChannelBus) Publish(ev output.TimerEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subscribers {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Subscribe registers a subscriber and returns its channel plus a token.
// A non-positive buffer still gets capacity one so a lone event is not
// dropped on an unready reader.
func (b *ChannelBus) Subscribe(buffer int) (<-chan output.TimerEvent, string) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan output.TimerEvent, buffer)
	token := uuid.NewString()

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch, token
	}
	b.subscribers[token] = ch
	return ch, token
}

// Unsubscribe removes a subscriber and closes its channel
func (b *ChannelBus) Unsubscribe(token string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch, exists := b.subscribers[token]; exists {
		delete(b.subscribers, token)
		close(ch)
	}
}

// Close drops every subscriber and closes their channels
func (b *ChannelBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	for token, ch := range b.subscribers {
		delete(b.subscribers, token)
		close(ch)
	}
}
