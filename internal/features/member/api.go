package member

import (
	"studentz/internal/common/api"

	"github.com/gofiber/fiber/v2"
)

type MemberApi struct {
	MemberController *MemberController
}

func NewMemberApi(memberController *MemberController) api.Route {
	return &MemberApi{MemberController: memberController}
}

func (api *MemberApi) Setup(app *fiber.App) {
	group := app.Group("/api/members")

	group.Post("/", api.MemberController.Create)
	group.Get("/", api.MemberController.List)
}
