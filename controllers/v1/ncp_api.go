package apiv1

import (
	"fmt"
	"io"
	"ncp-tracker-backend/controllers"
	pdfexport "ncp-tracker-backend/lib/export/pdf"
	xlsexport "ncp-tracker-backend/lib/export/xls"
	filestorage "ncp-tracker-backend/lib/file-storage"
	ncphandler "ncp-tracker-backend/lib/ncp"
	"ncp-tracker-backend/middleware"
	"ncp-tracker-backend/models"
	apimodels "ncp-tracker-backend/models/api"
	ncpapimodels "ncp-tracker-backend/models/api/ncp"
	"time"

	"github.com/gofiber/fiber/v2"
)

type ncpApiController struct {
	controllers.BaseAPIController
}

func InitNcpApiRouters(app *fiber.App) {
	controller := ncpApiController{}
	app.Route("ncp", func(router fiber.Router) {
		router.Use(middleware.AuthorizationRequired())
		router.Post("", controller.submit)
		router.Get("list", controller.list)
		router.Get("export", controller.export)
		router.Get("number/:ncpId", controller.getByNcpID)
		router.Get(":id", controller.get)
		router.Get(":id/audit", controller.audit)
		router.Get(":id/pdf", controller.pdf)
		router.Post(":id/qa_approve", controller.qaApprove)
		router.Post(":id/qa_reject", controller.qaReject)
		router.Post(":id/tl_process", controller.tlProcess)
		router.Post(":id/process_approve", controller.processApprove)
		router.Post(":id/process_reject", controller.processReject)
		router.Post(":id/manager_approve", controller.managerApprove)
		router.Post(":id/manager_reject", controller.managerReject)
	})
}

// @Summary Submit NCP report
// @Tags NCP
// @Description Creates a report in status pending and notifies the chosen QA Leader
// @Param   Authorization		header		string						true	"Authorization token"
// @Param	body				body		ncpapimodels.SubmitData		true	"request body"
// @Success 200 {object} apimodels.Response{data=ncpapimodels.NcpReportView}
// @Failure 400 {object} apimodels.Response
// @Failure 401 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/ncp [post]
func (c *ncpApiController) submit(ctx *fiber.Ctx) error {
	var payload ncpapimodels.SubmitData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := ncphandler.Instance.Submit(middleware.GetIdentity(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to submit NCP report")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary NCP report list
// @Tags NCP
// @Description assigned: reports visible to the caller's role, pending: reports waiting for the caller's action
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   type				query		string	false	"pending | assigned"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]ncpapimodels.NcpReportView}
// @Failure 400 {object} apimodels.Response
// @Failure 401 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/ncp/list [get]
func (c *ncpApiController) list(ctx *fiber.Ctx) error {
	listType := ncpapimodels.ListType(ctx.Query("type"))
	resp, err := ncphandler.Instance.List(middleware.GetIdentity(ctx), listType)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to list NCP reports")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(resp, int64(len(resp))))
}

// @Summary Export NCP report list
// @Tags NCP
// @Description XLSX of the reports visible to the caller
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {file} file
// @Failure 401 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/ncp/export [get]
func (c *ncpApiController) export(ctx *fiber.Ctx) error {
	list, err := ncphandler.Instance.List(middleware.GetIdentity(ctx), ncpapimodels.ListTypeAssigned)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to list NCP reports")
	}
	buf, err := xlsexport.Instance.ExportNcpList(list)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to export NCP reports")
	}
	ctx.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Attachment(fmt.Sprintf("ncp-reports-%s.xlsx", time.Now().Format("20060102")))
	return ctx.Status(fiber.StatusOK).SendStream(buf, buf.Len())
}

// @Summary NCP report by business id
// @Tags NCP
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   ncpId				path		string	true	"business id, YYMM-NNNN"
// @Success 200 {object} apimodels.Response{data=ncpapimodels.NcpReportView}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/ncp/number/{ncpId} [get]
func (c *ncpApiController) getByNcpID(ctx *fiber.Ctx) error {
	resp, err := ncphandler.Instance.GetByNcpID(middleware.GetIdentity(ctx), ctx.Params("ncpId"))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to get NCP report")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary NCP report
// @Tags NCP
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id					path		int		true	"rec ID"
// @Success 200 {object} apimodels.Response{data=ncpapimodels.NcpReportView}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/ncp/{id} [get]
func (c *ncpApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := ncphandler.Instance.GetByID(middleware.GetIdentity(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to get NCP report")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary NCP report audit log
// @Tags NCP
// @Description Administrative overrides of the report, newest first
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id					path		int		true	"rec ID"
// @Success 200 {object} apimodels.Response{data=[]ncpapimodels.AuditLogView}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/ncp/{id}/audit [get]
func (c *ncpApiController) audit(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := ncphandler.Instance.GetAudit(middleware.GetIdentity(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to get NCP audit log")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary NCP report print form
// @Tags NCP
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id					path		int		true	"rec ID"
// @Success 200 {file} file
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/ncp/{id}/pdf [get]
func (c *ncpApiController) pdf(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	report, err := ncphandler.Instance.GetByID(middleware.GetIdentity(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to get NCP report")
	}
	data, err := pdfexport.GenerateReport(report, c.loadPhoto(ctx, report.PhotoPath))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx).WithField("ncp_id", report.NcpID), err, "Failed to render NCP report")
	}
	ctx.Set(fiber.HeaderContentType, "application/pdf")
	ctx.Attachment(fmt.Sprintf("NCP-%s.pdf", report.NcpID))
	return ctx.Status(fiber.StatusOK).Send(data)
}

// loadPhoto returns nil when the report has no photo or it cannot be read, the form is printed without it.
func (c *ncpApiController) loadPhoto(ctx *fiber.Ctx, key string) *models.File {
	if key == "" || filestorage.Instance == nil {
		return nil
	}
	logger := c.GetLogger(ctx).WithField("key", key)
	body, info, err := filestorage.Instance.GetPhoto(ctx.Context(), key)
	if err != nil {
		logger.WithError(err).Warn("failed to read NCP photo")
		return nil
	}
	defer body.Close()
	data, err := io.ReadAll(body)
	if err != nil {
		logger.WithError(err).Warn("failed to read NCP photo")
		return nil
	}
	return &models.File{FileName: key, ContentType: info.ContentType, Body: data}
}

// @Summary QA Leader approve
// @Tags NCP workflow
// @Description pending -> qa_approved, notifies the assigned Team Leader
// @Param   Authorization		header		string						true	"Authorization token"
// @Param   id					path		int							true	"rec ID"
// @Param	body				body		ncpapimodels.QaApproveData	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/ncp/{id}/qa_approve [post]
func (c *ncpApiController) qaApprove(ctx *fiber.Ctx) error {
	var payload ncpapimodels.QaApproveData
	return c.transit(ctx, &payload, "Failed to approve NCP report", func(identity *models.Identity, id uint) error {
		return ncphandler.Instance.QaApprove(identity, id, payload)
	})
}

// @Summary QA Leader reject
// @Tags NCP workflow
// @Description pending -> qa_rejected, terminal
// @Param   Authorization		header		string					true	"Authorization token"
// @Param   id					path		int						true	"rec ID"
// @Param	body				body		ncpapimodels.RejectData	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/ncp/{id}/qa_reject [post]
func (c *ncpApiController) qaReject(ctx *fiber.Ctx) error {
	var payload ncpapimodels.RejectData
	return c.transit(ctx, &payload, "Failed to reject NCP report", func(identity *models.Identity, id uint) error {
		return ncphandler.Instance.QaReject(identity, id, payload)
	})
}

// @Summary Team Leader process
// @Tags NCP workflow
// @Description qa_approved -> tl_processed, notifies all Process Leads
// @Param   Authorization		header		string						true	"Authorization token"
// @Param   id					path		int							true	"rec ID"
// @Param	body				body		ncpapimodels.TlProcessData	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/ncp/{id}/tl_process [post]
func (c *ncpApiController) tlProcess(ctx *fiber.Ctx) error {
	var payload ncpapimodels.TlProcessData
	return c.transit(ctx, &payload, "Failed to process NCP report", func(identity *models.Identity, id uint) error {
		return ncphandler.Instance.TlProcess(identity, id, payload)
	})
}

// @Summary Process Lead approve
// @Tags NCP workflow
// @Description tl_processed -> process_approved, notifies all QA Managers
// @Param   Authorization		header		string						true	"Authorization token"
// @Param   id					path		int							true	"rec ID"
// @Param	body				body		ncpapimodels.CommentData	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/ncp/{id}/process_approve [post]
func (c *ncpApiController) processApprove(ctx *fiber.Ctx) error {
	var payload ncpapimodels.CommentData
	return c.transit(ctx, &payload, "Failed to approve NCP report", func(identity *models.Identity, id uint) error {
		return ncphandler.Instance.ProcessApprove(identity, id, payload)
	})
}

// @Summary Process Lead reject
// @Tags NCP workflow
// @Description tl_processed -> qa_approved, the Team Leader reprocesses the report
// @Param   Authorization		header		string					true	"Authorization token"
// @Param   id					path		int						true	"rec ID"
// @Param	body				body		ncpapimodels.RejectData	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/ncp/{id}/process_reject [post]
func (c *ncpApiController) processReject(ctx *fiber.Ctx) error {
	var payload ncpapimodels.RejectData
	return c.transit(ctx, &payload, "Failed to return NCP report", func(identity *models.Identity, id uint) error {
		return ncphandler.Instance.ProcessReject(identity, id, payload)
	})
}

// @Summary QA Manager approve
// @Tags NCP workflow
// @Description process_approved -> manager_approved, the report is archived
// @Param   Authorization		header		string						true	"Authorization token"
// @Param   id					path		int							true	"rec ID"
// @Param	body				body		ncpapimodels.CommentData	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/ncp/{id}/manager_approve [post]
func (c *ncpApiController) managerApprove(ctx *fiber.Ctx) error {
	var payload ncpapimodels.CommentData
	return c.transit(ctx, &payload, "Failed to approve NCP report", func(identity *models.Identity, id uint) error {
		return ncphandler.Instance.ManagerApprove(identity, id, payload)
	})
}

// @Summary QA Manager reject
// @Tags NCP workflow
// @Description process_approved -> qa_approved, the Team Leader reprocesses the report
// @Param   Authorization		header		string					true	"Authorization token"
// @Param   id					path		int						true	"rec ID"
// @Param	body				body		ncpapimodels.RejectData	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/ncp/{id}/manager_reject [post]
func (c *ncpApiController) managerReject(ctx *fiber.Ctx) error {
	var payload ncpapimodels.RejectData
	return c.transit(ctx, &payload, "Failed to return NCP report", func(identity *models.Identity, id uint) error {
		return ncphandler.Instance.ManagerReject(identity, id, payload)
	})
}

// transit parses the id and body into payload, then runs the workflow step.
func (c *ncpApiController) transit(ctx *fiber.Ctx, payload interface{}, hMsg string, run func(identity *models.Identity, id uint) error) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = c.BodyParser(ctx, payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = run(middleware.GetIdentity(ctx), id); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx).WithField("rec_id", id), err, hMsg)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}
