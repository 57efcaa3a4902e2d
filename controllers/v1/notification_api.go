package apiv1

import (
	"ncp-tracker-backend/controllers"
	notificationhandler "ncp-tracker-backend/lib/notification"
	"ncp-tracker-backend/middleware"
	apimodels "ncp-tracker-backend/models/api"
	notificationapimodels "ncp-tracker-backend/models/api/notification"

	"github.com/gofiber/fiber/v2"
)

type notificationApiController struct {
	controllers.BaseAPIController
}

func InitNotificationApiRouters(app *fiber.App) {
	controller := notificationApiController{}
	app.Route("notifications", func(router fiber.Router) {
		router.Use(middleware.AuthorizationRequired())
		router.Get("", controller.list)
		router.Get("unread_count", controller.unreadCount)
		router.Put("read_all", controller.readAll)
		router.Put(":id/read", controller.read)
	})
}

// @Summary Notification list
// @Tags Notifications
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   unread_only			query		bool	false	"only unread"
// @Param   page				query		int		false	"page number, from 1"
// @Param   limit				query		int		false	"rows per page"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]notificationapimodels.NotificationView}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/notifications [get]
func (c *notificationApiController) list(ctx *fiber.Ctx) error {
	var filter notificationapimodels.NotificationFilter
	if err := ctx.QueryParser(&filter); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("Invalid query parameters"))
	}
	list, rowCount, err := notificationhandler.Instance.List(middleware.GetUserID(ctx), filter)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to list notifications")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount))
}

// @Summary Unread notification count
// @Tags Notifications
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=int}
// @Failure 500 {object} apimodels.Response
// @router /api/v1/notifications/unread_count [get]
func (c *notificationApiController) unreadCount(ctx *fiber.Ctx) error {
	count, err := notificationhandler.Instance.UnreadCount(middleware.GetUserID(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to count notifications")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(count))
}

// @Summary Mark notification read
// @Tags Notifications
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id					path		string	true	"notification ID"
// @Success 200 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/notifications/{id}/read [put]
func (c *notificationApiController) read(ctx *fiber.Ctx) error {
	err := notificationhandler.Instance.MarkRead(middleware.GetUserID(ctx), ctx.Params("id"))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to mark notification read")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Mark all notifications read
// @Tags Notifications
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/notifications/read_all [put]
func (c *notificationApiController) readAll(ctx *fiber.Ctx) error {
	err := notificationhandler.Instance.MarkAllRead(middleware.GetUserID(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to mark notifications read")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}
