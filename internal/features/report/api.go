package report

import (
	"studentz/internal/common/api"

	"github.com/gofiber/fiber/v2"
)

type ReportApi struct {
	ReportController *ReportController
}

func NewReportApi(reportController *ReportController) api.Route {
	return &ReportApi{ReportController: reportController}
}

func (api *ReportApi) Setup(app *fiber.App) {
	group := app.Group("/api/reports")

	group.Post("/", api.ReportController.Create)
	group.Get("/", api.ReportController.List)
}
