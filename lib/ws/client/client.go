package wsclient

import (
	"encoding/json"
	wsmodels "ncp-tracker-backend/models/ws"

	"github.com/gofiber/contrib/websocket"
	log "github.com/sirupsen/logrus"
)

// ReadFunc marks a notification of the connected user as read.
type ReadFunc func(userID, notificationID string) error

func NewClient(userID string, c *websocket.Conn, onRead ReadFunc) *WsClient {
	return &WsClient{
		conn:   c,
		userID: userID,
		onRead: onRead,
	}
}

type WsClient struct {
	conn   *websocket.Conn
	userID string
	onRead ReadFunc
}

var closeCodes []int

func init() {
	for i := websocket.CloseNormalClosure; i <= websocket.CloseTLSHandshake; i++ {
		closeCodes = append(closeCodes, i)
	}
}

func (c *WsClient) Dispatch() {
	logger := log.WithField("user_id", c.userID)
	for {
		if c.conn == nil {
			return
		}
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, closeCodes...) {
				logger.WithError(err).Error("failed to read ws message")
			}
			break
		}
		c.handle(logger, data)
	}
}

func (c *WsClient) handle(logger *log.Entry, data []byte) {
	var msg wsmodels.ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		logger.WithError(err).Debug("unknown ws message")
		return
	}
	if msg.Action != wsmodels.ClientActionRead || msg.ID == "" || c.onRead == nil {
		return
	}
	if err := c.onRead(c.userID, msg.ID); err != nil {
		logger.WithError(err).WithField("notification_id", msg.ID).Warn("failed to mark notification as read")
	}
}
