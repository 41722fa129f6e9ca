package report

import (
	"errors"

	"studentz/internal/middleware"
	"studentz/internal/store"
	"studentz/pkg/validate"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ReportController struct {
	ReportService ReportService
	Logger        *zap.Logger
}

func NewReportController(reportService ReportService, logger *zap.Logger) *ReportController {
	return &ReportController{ReportService: reportService, Logger: logger}
}

// Create godoc
// @Summary      Submit a problem report
// @Tags         reports
// @Accept       json
// @Produce      json
// @Param        report  body      CreateReportRequest  true  "Report"
// @Success      201     {object}  map[string]interface{}
// @Failure      400     {object}  map[string]string
// @Failure      413     {object}  map[string]string
// @Failure      500     {object}  map[string]string
// @Router       /api/reports [post]
func (c *ReportController) Create(ctx *fiber.Ctx) error {
	var req CreateReportRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if len(validate.Struct(req)) > 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name, college and details are required"})
	}

	report, err := c.ReportService.CreateReport(ctx.UserContext(), req)
	if err != nil {
		middleware.ReportError(ctx, c.Logger, "create report failed", err)
		if errors.Is(err, store.ErrDuplicateIdentifier) {
			return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Duplicate reference ID, try again"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Server error"})
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true, "report": report})
}

// List godoc
// @Summary      List recent problem reports
// @Tags         reports
// @Produce      json
// @Param        limit  query     int  false  "Max results (default 20, max 100)"
// @Success      200    {object}  map[string]interface{}
// @Failure      500    {object}  map[string]string
// @Router       /api/reports [get]
func (c *ReportController) List(ctx *fiber.Ctx) error {
	limit := store.ClampLimit(ctx.Query("limit"), DefaultListLimit, MaxListLimit)

	reports, err := c.ReportService.ListReports(ctx.UserContext(), limit)
	if err != nil {
		middleware.ReportError(ctx, c.Logger, "list reports failed", err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Server error"})
	}
	return ctx.JSON(fiber.Map{"ok": true, "count": len(reports), "reports": reports})
}
