package apiv1

import (
	"io"
	"ncp-tracker-backend/controllers"
	filestorage "ncp-tracker-backend/lib/file-storage"
	"ncp-tracker-backend/middleware"
	apimodels "ncp-tracker-backend/models/api"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
)

type fileApiController struct {
	controllers.BaseAPIController
}

func InitFileApiRouters(app *fiber.App) {
	controller := fileApiController{}
	app.Route("files", func(router fiber.Router) {
		router.Use(middleware.AuthorizationRequired())
		router.Post("photo", controller.uploadPhoto)
		router.Get("photo/*", controller.getPhoto)
	})
}

// @Summary Upload report photo
// @Tags Files
// @Description JPEG or PNG up to 5 MB, the returned path goes to the photo field of the report
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   file				formData	file	true	"photo"
// @Success 200 {object} apimodels.Response{data=fileapimodels.PhotoView}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/files/photo [post]
func (c *fileApiController) uploadPhoto(ctx *fiber.Ctx) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("Photo is required"))
	}
	if fileHeader.Size > filestorage.MaxPhotoSize {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("Photo must not exceed 5 MB"))
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), errors.Wrap(err, "failed to open uploaded file"), "Failed to upload photo")
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), errors.Wrap(err, "failed to read uploaded file"), "Failed to upload photo")
	}
	resp, err := filestorage.Instance.UploadPhoto(ctx.Context(), data)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to upload photo")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Report photo
// @Tags Files
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   key					path		string	true	"photo path returned by the upload"
// @Success 200 {file} file
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/files/photo/{key} [get]
func (c *fileApiController) getPhoto(ctx *fiber.Ctx) error {
	key := ctx.Params("*")
	body, info, err := filestorage.Instance.GetPhoto(ctx.Context(), key)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx).WithField("key", key), err, "Failed to get photo")
	}
	ctx.Set(fiber.HeaderContentType, info.ContentType)
	ctx.Set(fiber.HeaderCacheControl, "private, max-age=86400")
	// fasthttp closes body after the response is written
	return ctx.Status(fiber.StatusOK).SendStream(body, int(info.Size))
}
