package events

import (
	"sync"

	"homeDesignAi/internal/storage"
)

// Event is one progress line of a design run.
type Event struct {
	SessionID string        `json:"session_id"`
	Level     storage.Level `json:"level"`
	Text      string        `json:"text"`
}

// Broker fans progress events out to SSE subscribers of a session.
type Broker struct {
	mu          sync.RWMutex
	subscribers map[chan Event]string
}

// NewBroker constructs a broker instance.
func NewBroker() *Broker {
	return &Broker{
		subscribers: make(map[chan Event]string),
	}
}

// Subscribe returns a channel that receives the events of sessionID.
func (b *Broker) Subscribe(sessionID string) chan Event {
	ch := make(chan Event, 8)
	b.mu.Lock()
	b.subscribers[ch] = sessionID
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes the channel from the broker.
func (b *Broker) Unsubscribe(ch chan Event) {
	b.mu.Lock()
	delete(b.subscribers, ch)
	b.mu.Unlock()
	close(ch)
}

// Publish delivers the event to subscribers of its session.
func (b *Broker) Publish(evt Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch, sessionID := range b.subscribers {
		if sessionID != evt.SessionID {
			continue
		}
		select {
		case ch <- evt:
		default:
			// drop if subscriber is slow
		}
	}
}

// Progress adapts the broker to the planner's progress callback.
func (b *Broker) Progress(sessionID string, msg storage.Message) {
	if b == nil || sessionID == "" {
		return
	}
	b.Publish(Event{SessionID: sessionID, Level: msg.Level, Text: msg.Text})
}
