package member

import (
	"errors"

	"studentz/internal/middleware"
	"studentz/internal/store"
	"studentz/pkg/validate"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type MemberController struct {
	MemberService MemberService
	Logger        *zap.Logger
}

func NewMemberController(memberService MemberService, logger *zap.Logger) *MemberController {
	return &MemberController{MemberService: memberService, Logger: logger}
}

// Create godoc
// @Summary      Register a community member
// @Tags         members
// @Accept       json
// @Produce      json
// @Param        member  body      CreateMemberRequest  true  "Member"
// @Success      201     {object}  map[string]interface{}
// @Failure      400     {object}  map[string]string
// @Failure      413     {object}  map[string]string
// @Failure      500     {object}  map[string]string
// @Router       /api/members [post]
func (c *MemberController) Create(ctx *fiber.Ctx) error {
	var req CreateMemberRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if len(validate.Struct(req)) > 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name, college, email and whatsapp are required"})
	}

	member, err := c.MemberService.CreateMember(ctx.UserContext(), req)
	switch {
	case err == nil:
		return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true, "member": member})
	case errors.Is(err, ErrPhotoTooLarge):
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Photo is too large even after compression. Try a smaller image."})
	case errors.Is(err, store.ErrDuplicateIdentifier):
		middleware.ReportError(ctx, c.Logger, "create member failed", err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Duplicate member ID, try again"})
	default:
		middleware.ReportError(ctx, c.Logger, "create member failed", err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Server error"})
	}
}

// List godoc
// @Summary      List recent community members
// @Tags         members
// @Produce      json
// @Param        limit  query     int  false  "Max results (default 50, max 200)"
// @Success      200    {object}  map[string]interface{}
// @Failure      500    {object}  map[string]string
// @Router       /api/members [get]
func (c *MemberController) List(ctx *fiber.Ctx) error {
	limit := store.ClampLimit(ctx.Query("limit"), DefaultListLimit, MaxListLimit)

	members, err := c.MemberService.ListMembers(ctx.UserContext(), limit)
	if err != nil {
		middleware.ReportError(ctx, c.Logger, "list members failed", err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Server error"})
	}
	return ctx.JSON(fiber.Map{"ok": true, "count": len(members), "members": members})
}
