package apiv1

import (
	"ncp-tracker-backend/controllers"
	ncphandler "ncp-tracker-backend/lib/ncp"
	"ncp-tracker-backend/middleware"
	"ncp-tracker-backend/models"
	apimodels "ncp-tracker-backend/models/api"
	ncpapimodels "ncp-tracker-backend/models/api/ncp"

	"github.com/gofiber/fiber/v2"
)

type ncpAdminApiController struct {
	controllers.BaseAPIController
}

func InitNcpAdminApiRouters(app *fiber.App) {
	controller := ncpAdminApiController{}
	app.Route("admin/ncp", func(router fiber.Router) {
		router.Use(middleware.AuthorizationRequired())
		router.Use(middleware.PermissionRequired(models.NcpActionSuperEdit))
		router.Put(":id/super_edit", controller.superEdit)
		router.Put(":id/reassign", controller.reassign)
		router.Put(":id/revert_status", controller.revertStatus)
		router.Delete(":id", controller.delete)
	})
}

// @Summary Super edit
// @Tags NCP administration
// @Description Sets report columns directly, every changed field is written to the audit log
// @Param   Authorization		header		string						true	"Authorization token"
// @Param   id					path		int							true	"rec ID"
// @Param	body				body		ncpapimodels.SuperEditData	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/admin/ncp/{id}/super_edit [put]
func (c *ncpAdminApiController) superEdit(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload ncpapimodels.SuperEditData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = ncphandler.Instance.SuperEdit(middleware.GetIdentity(ctx), id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx).WithField("rec_id", id), err, "Failed to edit NCP report")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Reassign
// @Tags NCP administration
// @Description Replaces the QA Leader or the assigned Team Leader, status unchanged
// @Param   Authorization		header		string						true	"Authorization token"
// @Param   id					path		int							true	"rec ID"
// @Param	body				body		ncpapimodels.ReassignData	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/admin/ncp/{id}/reassign [put]
func (c *ncpAdminApiController) reassign(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload ncpapimodels.ReassignData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = ncphandler.Instance.Reassign(middleware.GetIdentity(ctx), id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx).WithField("rec_id", id), err, "Failed to reassign NCP report")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Revert status
// @Tags NCP administration
// @Description Sets any status of the workflow without transition checks
// @Param   Authorization		header		string							true	"Authorization token"
// @Param   id					path		int								true	"rec ID"
// @Param	body				body		ncpapimodels.RevertStatusData	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/admin/ncp/{id}/revert_status [put]
func (c *ncpAdminApiController) revertStatus(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload ncpapimodels.RevertStatusData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = ncphandler.Instance.RevertStatus(middleware.GetIdentity(ctx), id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx).WithField("rec_id", id), err, "Failed to revert NCP report status")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Delete
// @Tags NCP administration
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id					path		int		true	"rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/admin/ncp/{id} [delete]
func (c *ncpAdminApiController) delete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = ncphandler.Instance.Delete(middleware.GetIdentity(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx).WithField("rec_id", id), err, "Failed to delete NCP report")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}
