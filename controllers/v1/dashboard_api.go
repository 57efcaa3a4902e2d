package apiv1

import (
	"ncp-tracker-backend/controllers"
	dashboardhandler "ncp-tracker-backend/lib/dashboard"
	"ncp-tracker-backend/middleware"
	apimodels "ncp-tracker-backend/models/api"

	"github.com/gofiber/fiber/v2"
)

type dashboardApiController struct {
	controllers.BaseAPIController
}

func InitDashboardApiRouters(app *fiber.App) {
	controller := dashboardApiController{}
	app.Route("dashboard", func(router fiber.Router) {
		router.Use(middleware.AuthorizationRequired())
		router.Get("stats", controller.stats)
	})
}

// @Summary Dashboard statistics
// @Tags Dashboard
// @Description Counts by status, by month of the current year and top SKUs/machines, refreshed every 30 seconds
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=dashboardapimodels.Stats}
// @Failure 401 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/dashboard/stats [get]
func (c *dashboardApiController) stats(ctx *fiber.Ctx) error {
	resp, err := dashboardhandler.Instance.Stats(middleware.GetIdentity(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to collect statistics")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}
