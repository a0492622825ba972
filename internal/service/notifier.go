package service

import (
	"sync"
	"time"

	"github.com/pageza/pantrychef/internal/types"
)

const subscriberBuffer = 8

// RedisplayEvent tells a subscriber to redraw a session with the given state
type RedisplayEvent struct {
	SessionID string                  `json:"session_id"`
	State     types.ConversationState `json:"state"`
	At        time.Time               `json:"at"`
}

// Broker fans redisplay signals out to per-session subscribers.
// A subscriber that falls behind misses events rather than blocking the sender.
type Broker struct {
	mu     sync.RWMutex
	subs   map[string]map[uint64]chan RedisplayEvent
	nextID uint64
}

// NewBroker creates a new Broker instance
func NewBroker() *Broker {
	return &Broker{subs: make(map[string]map[uint64]chan RedisplayEvent)}
}

// Subscribe returns a channel of events for sessionID and a function that
// ends the subscription and closes the channel.
func (b *Broker) Subscribe(sessionID string) (<-chan RedisplayEvent, func()) {
	ch := make(chan RedisplayEvent, subscriberBuffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	if b.subs[sessionID] == nil {
		b.subs[sessionID] = make(map[uint64]chan RedisplayEvent)
	}
	b.subs[sessionID][id] = ch
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs[sessionID], id)
			if len(b.subs[sessionID]) == 0 {
				delete(b.subs, sessionID)
			}
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Redisplay implements Notifier
func (b *Broker) Redisplay(sessionID string, state types.ConversationState) {
	ev := RedisplayEvent{SessionID: sessionID, State: state, At: time.Now().UTC()}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs[sessionID] {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Subscribers returns the number of live subscriptions for sessionID
func (b *Broker) Subscribers(sessionID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[sessionID])
}
