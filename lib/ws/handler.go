package ws

import (
	notificationhandler "ncp-tracker-backend/lib/notification"
	wsclient "ncp-tracker-backend/lib/ws/client"
	connectionhub "ncp-tracker-backend/lib/ws/hub/connection-hub"
	"ncp-tracker-backend/middleware"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

func InitWs(app *fiber.App) {
	app.Route("ws", func(router fiber.Router) {
		router.Use(middleware.AuthorizationRequired())
		router.Use(func(ctx *fiber.Ctx) error {
			if !websocket.IsWebSocketUpgrade(ctx) {
				return fiber.ErrUpgradeRequired
			}
			ctx.Locals("userID", middleware.GetUserID(ctx))
			return ctx.Next()
		})
		router.Get("", websocket.New(notificationHandler))
	})
}

// @Summary Notification push
// @Tags Websocket
// @Description Pushes new notifications and the unread counter, the client may send {"action":"read","id":"..."}
// @Param   token		query		string		true		"Authorization token"
// @Success 200 {object} wsmodels.ServerMessage
// @Failure 401
// @Failure 426
// @router /api/v1/ws [get]
func notificationHandler(c *websocket.Conn) {
	userID := c.Locals("userID").(string)
	client := wsclient.NewClient(userID, c, notificationhandler.Instance.MarkRead)
	connectionhub.Instance.AddClient(userID, c)
	defer func() {
		connectionhub.Instance.DeleteClient(userID, c)
	}()
	client.Dispatch()
}
