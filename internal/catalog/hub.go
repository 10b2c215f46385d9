package catalog

import "sync"

// subscriberQueueSize bounds each subscriber's private delivery queue.
const subscriberQueueSize = 100

// Hub fans newly created products out to live subscribers. Each subscriber
// owns an independent buffered channel; Publish never blocks on a slow
// consumer — when a queue is full the oldest unread item is dropped to make
// room. There is no replay: a subscriber only sees products published after
// it joined.
type Hub struct {
	mu   sync.RWMutex
	subs map[*Subscriber]struct{}
}

type Subscriber struct {
	ch chan Product
}

// C yields products in publish order. The channel is closed by Unsubscribe.
func (s *Subscriber) C() <-chan Product { return s.ch }

func NewHub() *Hub {
	return &Hub{subs: make(map[*Subscriber]struct{})}
}

func (h *Hub) Subscribe() *Subscriber {
	sub := &Subscriber{ch: make(chan Product, subscriberQueueSize)}

	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()

	return sub
}

// Unsubscribe removes sub and closes its channel. Safe to call once per
// subscriber; the exclusive lock guarantees no Publish is mid-send on the
// channel when it is closed.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.subs[sub]; !ok {
		return
	}
	delete(h.subs, sub)
	close(sub.ch)
}

// Publish offers p to every current subscriber without blocking.
func (h *Hub) Publish(p Product) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subs {
		select {
		case sub.ch <- p:
		default:
			// Queue full: drop the oldest unread item, then try once more.
			// If the consumer raced us and made room, the drain no-ops.
			select {
			case <-sub.ch:
			default:
			}
			select {
			case sub.ch <- p:
			default:
			}
		}
	}
}

func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
