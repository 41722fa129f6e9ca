package feed

import (
	"sync"

	common_models "studentz/internal/common/models"

	"go.uber.org/zap"
)

// Publisher is what the record services need to announce new submissions.
type Publisher interface {
	Publish(event common_models.FeedEvent)
}

const subscriberBuffer = 16

// Hub fans feed events out to connected websocket clients. Slow clients miss
// events instead of blocking the submission path.
type Hub struct {
	mu     sync.RWMutex
	subs   map[chan common_models.FeedEvent]struct{}
	logger *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		subs:   make(map[chan common_models.FeedEvent]struct{}),
		logger: logger,
	}
}

// Subscribe registers a listener. The returned func unregisters it and closes the channel.
func (h *Hub) Subscribe() (<-chan common_models.FeedEvent, func()) {
	ch := make(chan common_models.FeedEvent, subscriberBuffer)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			if _, ok := h.subs[ch]; ok {
				delete(h.subs, ch)
				close(ch)
			}
			h.mu.Unlock()
		})
	}
}

func (h *Hub) Publish(event common_models.FeedEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs {
		select {
		case ch <- event:
		default:
			h.logger.Debug("feed subscriber lagging, dropping event", zap.String("id", event.ID))
		}
	}
}

// Subscribers reports the number of connected listeners.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close disconnects every subscriber.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		delete(h.subs, ch)
		close(ch)
	}
}
