// Package broadcast fans committed game mutations out to live subscribers.
// The transport adapters (SSE stream, socket.io rooms) sit on top of it.
package broadcast

import (
	"log"
	"sync"

	"idoldraft/models"
)

// Update is the payload pushed on every committed mutation.
type Update struct {
	Game     *models.Game             `json:"game"`
	Scenario *models.ScenarioSnapshot `json:"scenario"`
	Cards    []models.IdolCard        `json:"cards"`
}

// Hub keeps one subscriber set per game code. Delivery happens under the hub
// lock, so any single subscriber observes publishes in the order the
// triggering mutations were committed.
type Hub struct {
	mu          sync.Mutex
	subscribers map[string]map[int]func(*Update)
	nextID      int
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[int]func(*Update)),
	}
}

// Subscribe registers a callback for a game code and returns an unsubscribe
// func. Unsubscribing twice is a no-op, and is safe to race with a publish.
func (h *Hub) Subscribe(code string, fn func(*Update)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	id := h.nextID

	set := h.subscribers[code]
	if set == nil {
		set = make(map[int]func(*Update))
		h.subscribers[code] = set
	}
	set[id] = fn

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()

		set, ok := h.subscribers[code]
		if !ok {
			return
		}
		delete(set, id)
		if len(set) == 0 {
			// Drop the empty listener set, not the game itself
			delete(h.subscribers, code)
		}
	}
}

// Publish delivers one update to every subscriber currently registered for
// the code. A faulting subscriber never blocks delivery to the rest and never
// surfaces to the mutation caller.
func (h *Hub) Publish(code string, update *Update) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, fn := range h.subscribers[code] {
		deliver(code, id, fn, update)
	}
}

// SubscriberCount reports how many listeners a code currently has.
func (h *Hub) SubscriberCount(code string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers[code])
}

func deliver(code string, id int, fn func(*Update), update *Update) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[HUB] subscriber %d for %s panicked during delivery: %v", id, code, r)
		}
	}()
	fn(update)
}
