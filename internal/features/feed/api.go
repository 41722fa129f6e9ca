package feed

import (
	"studentz/internal/common/api"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type FeedApi struct {
	Controller *FeedController
}

func NewFeedApi(controller *FeedController) api.Route {
	return &FeedApi{Controller: controller}
}

func (h *FeedApi) Setup(app *fiber.App) {
	app.Use("/api/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/api/ws/feed", websocket.New(h.Controller.HandleWebSocket))
}
