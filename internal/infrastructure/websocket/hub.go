package websocket

import (
	"encoding/json"
	"sync"

	"foodstore/internal/domain/entity"
	"foodstore/pkg/logger"
)

const defaultBuffer = 16

// Subscription receives the encoded review events of one product until
// Unsubscribe is called or the hub drops it for falling behind.
type Subscription struct {
	ProductID string
	C         <-chan []byte

	send chan []byte
	hub  *Hub
}

func (s *Subscription) Unsubscribe() {
	s.hub.remove(s)
}

// Hub fans review events out to the subscribers of each product.
type Hub struct {
	mu     sync.Mutex
	topics map[string]map[*Subscription]struct{}
	buffer int
}

func NewHub() *Hub {
	return &Hub{
		topics: make(map[string]map[*Subscription]struct{}),
		buffer: defaultBuffer,
	}
}

func (h *Hub) Subscribe(productID string) *Subscription {
	send := make(chan []byte, h.buffer)
	sub := &Subscription{
		ProductID: productID,
		C:         send,
		send:      send,
		hub:       h,
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.topics[productID]
	if !ok {
		subs = make(map[*Subscription]struct{})
		h.topics[productID] = subs
	}
	subs[sub] = struct{}{}
	return sub
}

// Publish never blocks; a subscriber whose buffer is full is closed.
func (h *Hub) Publish(event entity.ReviewEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to encode review event for product %s: %v", event.ProductID, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.topics[event.ProductID] {
		select {
		case sub.send <- payload:
		default:
			logger.Warn("Dropping slow review feed subscriber for product %s", event.ProductID)
			h.removeLocked(sub)
		}
	}
}

func (h *Hub) Subscribers(productID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.topics[productID])
}

func (h *Hub) remove(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(sub)
}

func (h *Hub) removeLocked(sub *Subscription) {
	subs, ok := h.topics[sub.ProductID]
	if !ok {
		return
	}
	if _, ok := subs[sub]; !ok {
		return
	}
	delete(subs, sub)
	close(sub.send)
	if len(subs) == 0 {
		delete(h.topics, sub.ProductID)
	}
}
