package system

import (
	"time"

	"studentz/internal/common/api"

	"github.com/gofiber/fiber/v2"
)

type HealthApi struct {
	Now func() time.Time
}

func NewHealthApi() api.Route {
	return &HealthApi{Now: time.Now}
}

// Setup registers health check route
func (h *HealthApi) Setup(app *fiber.App) {
	app.Get("/api/health", h.HealthCheck)
}

// HealthCheck godoc
// @Summary      Health Check
// @Description  Check if the server is up
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/health [get]
func (h *HealthApi) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"ok":   true,
		"time": h.Now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	})
}
