package broadcast

import (
	"encoding/json"
	"sync"

	"villainstrike/internal/events"
)

// Message is one serialized session event ready for an SSE or websocket
// client.
type Message struct {
	Event string
	Data  []byte
}

// Broadcaster fans a session's event bus out to any number of subscribers.
// Close it when the session goes away so the pump goroutine stops.
type Broadcaster struct {
	mu      sync.Mutex
	clients map[chan Message]bool

	done      chan struct{}
	closeOnce sync.Once
}

// NewBroadcaster starts pumping bus events to subscribers.
func NewBroadcaster(bus *events.Bus) *Broadcaster {
	b := &Broadcaster{
		clients: make(map[chan Message]bool),
		done:    make(chan struct{}),
	}
	go func() {
		for {
			select {
			case <-b.done:
				return
			case ev := <-bus.PhaseChanges:
				b.Broadcast("phase", ev)
			case ev := <-bus.LevelUps:
				b.Broadcast("levelUp", ev)
			case ev := <-bus.Damage:
				b.Broadcast("damage", ev)
			case ev := <-bus.Hits:
				b.Broadcast("hit", ev)
			case ev := <-bus.Timer:
				b.Broadcast("timer", ev)
			}
		}
	}()
	return b
}

func (b *Broadcaster) Subscribe() chan Message {
	ch := make(chan Message, 32)
	b.mu.Lock()
	b.clients[ch] = true
	b.mu.Unlock()
	return ch
}

func (b *Broadcaster) Unsubscribe(ch chan Message) {
	b.mu.Lock()
	if _, ok := b.clients[ch]; ok {
		delete(b.clients, ch)
		close(ch)
	}
	b.mu.Unlock()
}

// Close stops the pump goroutine and closes every subscriber channel.
// Safe to call more than once.
func (b *Broadcaster) Close() {
	b.closeOnce.Do(func() {
		close(b.done)
		b.mu.Lock()
		for ch := range b.clients {
			delete(b.clients, ch)
			close(ch)
		}
		b.mu.Unlock()
	})
}

// Broadcast serializes the payload and delivers it to every subscriber.
// Slow clients with full channels are skipped.
func (b *Broadcaster) Broadcast(event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.clients {
		select {
		case ch <- Message{Event: event, Data: data}:
		default:
			// skip clients with full data channels
		}
	}
}
