package feed

import (
	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

type FeedController struct {
	Hub    *Hub
	Logger *zap.Logger
}

func NewFeedController(hub *Hub, logger *zap.Logger) *FeedController {
	return &FeedController{Hub: hub, Logger: logger}
}

// HandleWebSocket streams feed events until the client goes away.
func (h *FeedController) HandleWebSocket(c *websocket.Conn) {
	events, unsubscribe := h.Hub.Subscribe()
	defer unsubscribe()

	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := c.WriteJSON(ev); err != nil {
				h.Logger.Debug("feed write failed", zap.Error(err))
				return
			}
		case <-gone:
			return
		}
	}
}
