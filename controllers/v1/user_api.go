package apiv1

import (
	"ncp-tracker-backend/controllers"
	usershandler "ncp-tracker-backend/lib/users"
	"ncp-tracker-backend/middleware"
	"ncp-tracker-backend/models"
	apimodels "ncp-tracker-backend/models/api"
	userapimodels "ncp-tracker-backend/models/api/user"

	"github.com/gofiber/fiber/v2"
)

type userApiController struct {
	controllers.BaseAPIController
}

func InitUserApiRouters(app *fiber.App) {
	controller := userApiController{}
	app.Route("users", func(router fiber.Router) {
		router.Use(middleware.AuthorizationRequired())
		router.Get("leaders", controller.leaders)
		router.Get("", controller.list)
		router.Post("", controller.create)
		router.Put(":id/active", controller.setActive)
	})
}

// @Summary Leaders by role
// @Tags Users
// @Description Active users of a leader role, for the assignee pickers
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   role				query		string	true	"qa_leader | team_leader | process_lead | qa_manager"
// @Success 200 {object} apimodels.Response{data=[]userapimodels.UserView}
// @Failure 400 {object} apimodels.Response
// @Failure 401 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/users/leaders [get]
func (c *userApiController) leaders(ctx *fiber.Ctx) error {
	resp, err := usershandler.Instance.GetLeaders(middleware.GetIdentity(ctx), models.UserRole(ctx.Query("role")))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to list leaders")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary User list
// @Tags Users
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]userapimodels.UserView}
// @Failure 403 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/users [get]
func (c *userApiController) list(ctx *fiber.Ctx) error {
	resp, err := usershandler.Instance.List(middleware.GetIdentity(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to list users")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Create user
// @Tags Users
// @Param   Authorization		header		string							true	"Authorization token"
// @Param	body				body		userapimodels.UserCreateData	true	"request body"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/users [post]
func (c *userApiController) create(ctx *fiber.Ctx) error {
	var payload userapimodels.UserCreateData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	id, err := usershandler.Instance.Create(middleware.GetIdentity(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to create user")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(id))
}

// @Summary Activate or deactivate user
// @Tags Users
// @Param   Authorization		header		string							true	"Authorization token"
// @Param   id					path		string							true	"user ID"
// @Param	body				body		userapimodels.UserActiveData	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/users/{id}/active [put]
func (c *userApiController) setActive(ctx *fiber.Ctx) error {
	var payload userapimodels.UserActiveData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err := usershandler.Instance.SetActive(middleware.GetIdentity(ctx), ctx.Params("id"), payload.IsActive)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to change user activity")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}
